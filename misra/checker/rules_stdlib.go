/*
NaiveSystems MisraCheck - A MISRA C:2012 rule checking engine
Copyright (C) 2023  Naive Systems Ltd.

This program is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

This program is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with this program.  If not, see <https://www.gnu.org/licenses/>.
*/

package checker

import (
	"regexp"

	"naive.systems/misracheck/cppcheckdata"
	"naive.systems/misracheck/misra/matcher"
)

// Reserved per n1570 7.1.3.
var reservedMacroRe = regexp.MustCompile(`#define (errno|_[_A-Z]+)`)

// Rule 21.1: #define and #undef shall not be used on a reserved
// identifier or reserved macro name.
func (c *Checker) misra_21_1(cfg *cppcheckdata.Configuration) {
	for _, dir := range cfg.Directives {
		if reservedMacroRe.MatchString(dir.Str) {
			c.reportErrorAtDirective(dir, 21, 1)
		}
	}

	var candidates []*cppcheckdata.Token
	for _, v := range cfg.Variables {
		if v.NameToken != nil {
			candidates = append(candidates, v.NameToken)
		}
	}
	for _, fn := range cfg.Functions {
		if fn.TokenDef != nil {
			candidates = append(candidates, fn.TokenDef)
		}
	}
	for _, token := range cfg.TokenList {
		if token.TypeScopeID != "" {
			candidates = append(candidates, token)
		}
	}
	for _, token := range cfg.TokenList {
		if token.ValueType != nil && token.ValueType.TypeScopeID != "" {
			candidates = append(candidates, token)
		}
	}

	for _, token := range candidates {
		if len(token.Str) < 2 {
			continue
		}
		if token.Str == "errno" {
			c.reportError(token, 21, 1)
		}
		if token.Str[0] != '_' {
			continue
		}
		if (token.Str[1] >= 'A' && token.Str[1] <= 'Z') || token.Str[1] == '_' {
			c.reportError(token, 21, 1)
		}

		// Identifiers with file scope visibility (static) are allowed.
		if token.Scope != nil && token.Scope.Type == "Global" {
			if token.Variable != nil && token.Variable.IsStatic {
				continue
			}
			if token.Function != nil && token.Function.IsStatic {
				continue
			}
		}

		c.reportError(token, 21, 1)
	}
}

// Rule 21.3: the memory allocation and deallocation functions of
// <stdlib.h> shall not be used.
func (c *Checker) misra_21_3(cfg *cppcheckdata.Configuration) {
	for _, token := range cfg.TokenList {
		if matcher.IsFunctionCall(token) {
			switch token.AstOperand1.Str {
			case "malloc", "calloc", "realloc", "free":
				c.reportError(token, 21, 3)
			}
		}
	}
}

// Rule 21.4: the standard header file <setjmp.h> shall not be used.
func (c *Checker) misra_21_4(cfg *cppcheckdata.Configuration) {
	if dir := matcher.FindInclude(cfg.Directives, "<setjmp.h>"); dir != nil {
		c.reportErrorAtDirective(dir, 21, 4)
	}
}

// Rule 21.5: the standard header file <signal.h> shall not be used.
func (c *Checker) misra_21_5(cfg *cppcheckdata.Configuration) {
	if dir := matcher.FindInclude(cfg.Directives, "<signal.h>"); dir != nil {
		c.reportErrorAtDirective(dir, 21, 5)
	}
}

// Rule 21.6: the Standard Library input/output functions shall not be
// used.
func (c *Checker) misra_21_6(cfg *cppcheckdata.Configuration) {
	if dir := matcher.FindInclude(cfg.Directives, "<stdio.h>"); dir != nil {
		c.reportErrorAtDirective(dir, 21, 6)
	}
	if dir := matcher.FindInclude(cfg.Directives, "<wchar.h>"); dir != nil {
		c.reportErrorAtDirective(dir, 21, 6)
	}
}

// Rule 21.7: the atof, atoi, atol and atoll functions of <stdlib.h>
// shall not be used.
func (c *Checker) misra_21_7(cfg *cppcheckdata.Configuration) {
	for _, token := range cfg.TokenList {
		if matcher.IsFunctionCall(token) {
			switch token.AstOperand1.Str {
			case "atof", "atoi", "atol", "atoll":
				c.reportError(token, 21, 7)
			}
		}
	}
}

// Rule 21.8: the library functions abort, exit, getenv and system of
// <stdlib.h> shall not be used.
func (c *Checker) misra_21_8(cfg *cppcheckdata.Configuration) {
	for _, token := range cfg.TokenList {
		if matcher.IsFunctionCall(token) {
			switch token.AstOperand1.Str {
			case "abort", "exit", "getenv", "system":
				c.reportError(token, 21, 8)
			}
		}
	}
}

// Rule 21.9: the library functions bsearch and qsort of <stdlib.h>
// shall not be used.
func (c *Checker) misra_21_9(cfg *cppcheckdata.Configuration) {
	for _, token := range cfg.TokenList {
		if token.Str != "bsearch" && token.Str != "qsort" {
			continue
		}
		if token.Next != nil && token.Next.Str == "(" {
			c.reportError(token, 21, 9)
		}
	}
}

// Rule 21.10: the Standard Library time and date functions shall not be
// used.
func (c *Checker) misra_21_10(cfg *cppcheckdata.Configuration) {
	if dir := matcher.FindInclude(cfg.Directives, "<time.h>"); dir != nil {
		c.reportErrorAtDirective(dir, 21, 10)
	}
	for _, token := range cfg.TokenList {
		if token.Str == "wcsftime" && token.Next != nil && token.Next.Str == "(" {
			c.reportError(token, 21, 10)
		}
	}
}

// Rule 21.11: the standard header file <tgmath.h> shall not be used.
func (c *Checker) misra_21_11(cfg *cppcheckdata.Configuration) {
	if dir := matcher.FindInclude(cfg.Directives, "<tgmath.h>"); dir != nil {
		c.reportErrorAtDirective(dir, 21, 11)
	}
}

// Rule 21.12: the exception handling features of <fenv.h> should not be
// used.
func (c *Checker) misra_21_12(cfg *cppcheckdata.Configuration) {
	if matcher.FindInclude(cfg.Directives, "<fenv.h>") == nil {
		return
	}
	for _, token := range cfg.TokenList {
		if token.Str == "fexcept_t" && token.IsName {
			c.reportError(token, 21, 12)
		}
		if matcher.IsFunctionCall(token) {
			switch token.AstOperand1.Str {
			case "feclearexcept", "fegetexceptflag", "feraiseexcept",
				"fesetexceptflag", "fetestexcept":
				c.reportError(token, 21, 12)
			}
		}
	}
}
