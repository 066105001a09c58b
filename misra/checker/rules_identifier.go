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
	"strings"

	"golang.org/x/exp/slices"

	"naive.systems/misracheck/cppcheckdata"
	"naive.systems/misracheck/misra/matcher"
)

// Rule 2.7: there should be no unused parameters in functions.
func (c *Checker) misra_2_7(cfg *cppcheckdata.Configuration) {
	for _, fn := range cfg.Functions {
		if len(fn.Argument) == 0 {
			continue
		}
		for _, scope := range cfg.Scopes {
			if scope.Type != "Function" || scope.Function != fn {
				continue
			}
			unreferenced := make(map[*cppcheckdata.Variable]bool, len(fn.Argument))
			for _, arg := range fn.Argument {
				unreferenced[arg] = true
			}
			for token := scope.BodyStart; token != nil && token.Next != nil && token != scope.BodyEnd && len(unreferenced) > 0; token = token.Next {
				if token.Variable != nil {
					delete(unreferenced, token.Variable)
				}
			}
			if len(unreferenced) > 0 {
				c.reportError(fn.TokenDef, 2, 7)
			}
		}
	}
}

// Rule 5.1: external identifiers shall be distinct within their
// significant characters. The later declaration gets the report.
func (c *Checker) misra_5_1(cfg *cppcheckdata.Configuration) {
	longVars := map[string][]*cppcheckdata.Token{}
	for _, v := range cfg.Variables {
		if v.NameToken == nil {
			continue
		}
		if len(v.NameToken.Str) <= 31 {
			continue
		}
		if !matcher.HasExternalLinkage(v) {
			continue
		}
		prefix := v.NameToken.Str[:31]
		longVars[prefix] = append(longVars[prefix], v.NameToken)
	}
	for _, tokens := range longVars {
		if len(tokens) < 2 {
			continue
		}
		slices.SortFunc(tokens, func(a, b *cppcheckdata.Token) bool {
			if a.Linenr != b.Linenr {
				return a.Linenr < b.Linenr
			}
			return a.Column < b.Column
		})
		for _, tok := range tokens[1:] {
			c.reportError(tok, 5, 1)
		}
	}
}

// Rule 5.2: identifiers declared in the same scope and name space shall
// be distinct.
func (c *Checker) misra_5_2(cfg *cppcheckdata.Configuration) {
	type scopeEntry struct {
		vars   []*cppcheckdata.Variable
		scopes []*cppcheckdata.Scope
	}
	scopeVars := map[*cppcheckdata.Scope]*scopeEntry{}
	entry := func(s *cppcheckdata.Scope) *scopeEntry {
		e := scopeVars[s]
		if e == nil {
			e = &scopeEntry{}
			scopeVars[s] = e
		}
		return e
	}
	for _, v := range cfg.Variables {
		if v.NameToken == nil {
			continue
		}
		if len(v.NameToken.Str) <= 31 {
			continue
		}
		entry(v.NameToken.Scope).vars = append(entry(v.NameToken.Scope).vars, v)
	}
	for _, scope := range cfg.Scopes {
		if scope.NestedIn != nil && scope.ClassName != "" && scope.BodyStart != nil {
			entry(scope.NestedIn).scopes = append(entry(scope.NestedIn).scopes, scope)
		}
	}
	for _, e := range scopeVars {
		if len(e.vars) > 1 {
			for i, variable1 := range e.vars {
				for _, variable2 := range e.vars[i+1:] {
					if variable1.IsArgument && variable2.IsArgument {
						continue
					}
					if matcher.HasExternalLinkage(variable1) || matcher.HasExternalLinkage(variable2) {
						continue
					}
					if truncate(variable1.NameToken.Str, 31) == truncate(variable2.NameToken.Str, 31) &&
						variable1.Id != variable2.Id {
						if variable1.NameToken.Linenr > variable2.NameToken.Linenr {
							c.reportError(variable1.NameToken, 5, 2)
						} else {
							c.reportError(variable2.NameToken, 5, 2)
						}
					}
				}
				for _, innerScope := range e.scopes {
					if truncate(variable1.NameToken.Str, 31) == truncate(innerScope.ClassName, 31) {
						if variable1.NameToken.Linenr > innerScope.BodyStart.Linenr {
							c.reportError(variable1.NameToken, 5, 2)
						} else {
							c.reportError(innerScope.BodyStart, 5, 2)
						}
					}
				}
			}
		}
		if len(e.scopes) <= 1 {
			continue
		}
		for i, scope1 := range e.scopes {
			for _, scope2 := range e.scopes[i+1:] {
				if truncate(scope1.ClassName, 31) == truncate(scope2.ClassName, 31) {
					if scope1.BodyStart.Linenr > scope2.BodyStart.Linenr {
						c.reportError(scope1.BodyStart, 5, 2)
					} else {
						c.reportError(scope2.BodyStart, 5, 2)
					}
				}
			}
		}
	}
}

// Rule 5.3: an identifier declared in an inner scope shall not hide an
// identifier declared in an outer scope.
func (c *Checker) misra_5_3(cfg *cppcheckdata.Configuration) {
	numSignChars := significantNamingChars(cfg)
	scopeVars := map[*cppcheckdata.Scope][]*cppcheckdata.Variable{}
	for _, v := range cfg.Variables {
		if v.NameToken != nil {
			scopeVars[v.NameToken.Scope] = append(scopeVars[v.NameToken.Scope], v)
		}
	}

	mapScopes := map[string][]*cppcheckdata.Scope{}
	for _, scope := range cfg.Scopes {
		if scope.ClassName != "" && scope.BodyStart != nil {
			sName := truncate(scope.ClassName, numSignChars)
			mapScopes[sName] = append(mapScopes[sName], scope)
		}
	}

	enum := map[string]bool{}
	for _, innerScope := range cfg.Scopes {
		if innerScope.Type == "Enum" {
			if innerScope.BodyStart == nil {
				continue
			}
			for enumToken := innerScope.BodyStart.Next; enumToken != nil && enumToken != innerScope.BodyEnd; enumToken = enumToken.Next {
				if len(enumToken.Values) > 0 && enumToken.IsName {
					enum[truncate(enumToken.Str, numSignChars)] = true
				}
			}
			continue
		}
		if innerScope.Type == "Global" {
			continue
		}
		for _, innerVar := range scopeVars[innerScope] {
			innerName := truncate(innerVar.NameToken.Str, numSignChars)
			for outerScope := innerScope.NestedIn; outerScope != nil; outerScope = outerScope.NestedIn {
				for _, outerVar := range scopeVars[outerScope] {
					if innerName != truncate(outerVar.NameToken.Str, numSignChars) {
						continue
					}
					if outerVar.IsArgument && outerScope.Type == "Global" && !innerVar.IsArgument {
						continue
					}
					if innerVar.NameToken.Linenr > outerVar.NameToken.Linenr {
						c.reportError(innerVar.NameToken, 5, 3)
					} else {
						c.reportError(outerVar.NameToken, 5, 3)
					}
				}
			}
			for _, scope := range mapScopes[innerName] {
				if innerVar.NameToken.Linenr > scope.BodyStart.Linenr {
					c.reportError(innerVar.NameToken, 5, 3)
				} else {
					c.reportError(scope.BodyStart, 5, 3)
				}
			}
			if enum[innerName] && innerScope.BodyStart != nil {
				if innerVar.NameToken.Linenr > innerScope.BodyStart.Linenr {
					c.reportError(innerVar.NameToken, 5, 3)
				} else {
					c.reportError(innerScope.BodyStart, 5, 3)
				}
			}
		}
	}
	for _, scope := range cfg.Scopes {
		if scope.ClassName != "" && enum[truncate(scope.ClassName, numSignChars)] {
			c.reportError(scope.BodyStart, 5, 3)
		}
	}
}

var (
	macroNameRe  = regexp.MustCompile(`^#define ([a-zA-Z0-9_]+)`)
	macroParamRe = regexp.MustCompile(`^#define ([a-zA-Z0-9_]+)[(]([a-zA-Z0-9_, ]+)[)]`)
)

// Rule 5.4: macro identifiers shall be distinct, both from each other and
// from their parameters.
func (c *Checker) misra_5_4(cfg *cppcheckdata.Configuration) {
	numSignChars := significantNamingChars(cfg)
	macroName := map[*cppcheckdata.Directive]string{}
	macroParams := map[*cppcheckdata.Directive][]string{}
	shortNames := map[string]*cppcheckdata.Directive{}
	var macroWithArgs []*cppcheckdata.Directive
	for _, dir := range cfg.Directives {
		if m := macroNameRe.FindStringSubmatch(dir.Str); m != nil {
			fullName := m[1]
			macroName[dir] = fullName
			shortName := truncate(fullName, numSignChars)
			if other, ok := shortNames[shortName]; ok {
				if fullName != macroName[other] {
					c.reportErrorAtDirective(dir, 5, 4)
				}
			} else {
				shortNames[shortName] = dir
			}
		}
		if m := macroParamRe.FindStringSubmatch(dir.Str); m != nil {
			for _, p := range strings.Split(m[2], ",") {
				macroParams[dir] = append(macroParams[dir], strings.ReplaceAll(p, " ", ""))
			}
			macroWithArgs = append(macroWithArgs, dir)
		}
	}
	for _, mvar := range macroWithArgs {
		params := macroParams[mvar]
		for i, param1 := range params {
			for j, param2 := range params {
				if j > i && truncate(param1, numSignChars) == truncate(param2, numSignChars) {
					c.reportErrorAtDirective(mvar, 5, 4)
				}
			}
			if other, ok := shortNames[truncate(param1, numSignChars)]; ok {
				if other.Linenr > mvar.Linenr {
					c.reportErrorAtDirective(other, 5, 4)
				} else {
					c.reportErrorAtDirective(mvar, 5, 4)
				}
			}
		}
	}
}

var defineNameRe = regexp.MustCompile(`^#define ([A-Za-z0-9_]+)`)

// Rule 5.5: identifiers shall be distinct from macro names.
func (c *Checker) misra_5_5(cfg *cppcheckdata.Configuration) {
	numSignChars := significantNamingChars(cfg)
	macroNames := map[string]*cppcheckdata.Directive{}
	for _, dir := range cfg.Directives {
		if m := defineNameRe.FindStringSubmatch(dir.Str); m != nil {
			macroNames[truncate(m[1], numSignChars)] = dir
		}
	}
	for _, v := range cfg.Variables {
		if v.NameToken != nil {
			if _, ok := macroNames[truncate(v.NameToken.Str, numSignChars)]; ok {
				c.reportError(v.NameToken, 5, 5)
			}
		}
	}
	for _, scope := range cfg.Scopes {
		if scope.ClassName != "" {
			if _, ok := macroNames[truncate(scope.ClassName, numSignChars)]; ok {
				c.reportError(scope.BodyStart, 5, 5)
			}
		}
	}
}
