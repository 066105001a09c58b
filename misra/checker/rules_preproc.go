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

	"naive.systems/misracheck/cppcheckdata"
	"naive.systems/misracheck/misra/matcher"
)

// Rule 20.1: #include directives should only be preceded by preprocessor
// directives or comments.
func (c *Checker) misra_20_1(cfg *cppcheckdata.Configuration) {
	// First code line of every file.
	firstCodeLines := map[string]int{}
	for _, token := range cfg.TokenList {
		if line, ok := firstCodeLines[token.File]; !ok || token.Linenr < line {
			firstCodeLines[token.File] = token.Linenr
		}
	}
	for _, dir := range cfg.Directives {
		if !strings.HasPrefix(dir.Str, "#include") {
			continue
		}
		if line, ok := firstCodeLines[dir.File]; ok && dir.Linenr > line {
			c.reportErrorAtDirective(dir, 20, 1)
		}
	}
}

// Rule 20.2: the ', " or \ characters and the /* or // character
// sequences shall not occur in a header file name.
func (c *Checker) misra_20_2(cfg *cppcheckdata.Configuration) {
	for _, dir := range cfg.Directives {
		if !strings.HasPrefix(dir.Str, "#include ") {
			continue
		}
		name := dir.Str[9:]
		if strings.Contains(name, "\\") || strings.Contains(name, "//") ||
			strings.Contains(name, "/*") || strings.Contains(name, "'") {
			c.reportErrorAtDirective(dir, 20, 2)
		}
	}
}

var lowerMacroRe = regexp.MustCompile(`#define ([a-z][a-z0-9_]+)`)

// Rule 20.4: a macro shall not be defined with the same name as a keyword.
func (c *Checker) misra_20_4(cfg *cppcheckdata.Configuration) {
	for _, dir := range cfg.Directives {
		m := lowerMacroRe.FindStringSubmatch(dir.Str)
		if m == nil {
			continue
		}
		if _, ok := matcher.Keywords[m[1]]; ok {
			c.reportErrorAtDirective(dir, 20, 4)
		}
	}
}

// Rule 20.5: #undef should not be used.
func (c *Checker) misra_20_5(cfg *cppcheckdata.Configuration) {
	for _, dir := range cfg.Directives {
		if strings.HasPrefix(dir.Str, "#undef ") {
			c.reportErrorAtDirective(dir, 20, 5)
		}
	}
}

var defineWithArgsRe = regexp.MustCompile(`^#define [A-Za-z0-9_]+\(([A-Za-z0-9_, ]+)\)[ ]+(.*)`)

// macroDef holds a function-like macro definition split into its
// parameter names and expansion text.
type macroDef struct {
	args []string
	exp  string
}

func parseMacroDef(dir *cppcheckdata.Directive) *macroDef {
	m := defineWithArgsRe.FindStringSubmatch(dir.Str)
	if m == nil {
		return nil
	}
	def := &macroDef{exp: m[2]}
	for _, arg := range strings.Split(m[1], ",") {
		def.args = append(def.args, strings.TrimSpace(arg))
	}
	return def
}

func isAlnumOrUnderscore(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// Rule 20.7: expressions resulting from the expansion of macro parameters
// shall be enclosed in parentheses.
func (c *Checker) misra_20_7(cfg *cppcheckdata.Configuration) {
	for _, dir := range cfg.Directives {
		def := parseMacroDef(dir)
		if def == nil {
			continue
		}
		// Wrap in parentheses so the scan below can always look one
		// character to each side of an occurrence.
		exp := "(" + def.exp + ")"
		for _, arg := range def.args {
			if arg == "" {
				continue
			}
			pos := 0
			for pos < len(exp) {
				i := strings.Index(exp[pos:], arg)
				if i < 0 {
					break
				}
				pos += i
				posStart := pos
				pos += len(arg)
				// Named occurrence only, not a substring of a longer
				// identifier.
				if isAlnumOrUnderscore(exp[posStart-1]) || isAlnumOrUnderscore(exp[pos]) {
					continue
				}
				pos1 := posStart - 1
				for exp[pos1] == ' ' {
					pos1--
				}
				if exp[pos1] != '(' && exp[pos1] != '[' {
					c.reportErrorAtDirective(dir, 20, 7)
					break
				}
				pos2 := pos
				for exp[pos2] == ' ' {
					pos2++
				}
				if exp[pos2] != ')' && exp[pos2] != ']' {
					c.reportErrorAtDirective(dir, 20, 7)
					break
				}
			}
		}
	}
}

// Rule 20.10: the # and ## preprocessor operators should not be used.
func (c *Checker) misra_20_10(cfg *cppcheckdata.Configuration) {
	for _, dir := range cfg.Directives {
		d := parseMacroDef(dir)
		if d == nil {
			continue
		}
		if strings.Contains(d.exp, "#") {
			c.reportErrorAtDirective(dir, 20, 10)
		}
	}
}

var (
	directiveRe     = regexp.MustCompile(`#[ ]*([^ (<]*)`)
	knownDirectives = map[string]bool{
		"define":  true,
		"elif":    true,
		"else":    true,
		"endif":   true,
		"error":   true,
		"if":      true,
		"ifdef":   true,
		"ifndef":  true,
		"include": true,
		"pragma":  true,
		"undef":   true,
		"warning": true,
	}
)

// Rule 20.13: a line whose first token is # shall be a valid preprocessing
// directive.
func (c *Checker) misra_20_13(cfg *cppcheckdata.Configuration) {
	for _, dir := range cfg.Directives {
		m := directiveRe.FindStringSubmatch(dir.Str)
		if m == nil {
			continue
		}
		if !knownDirectives[m[1]] {
			c.reportErrorAtDirective(dir, 20, 13)
		}
	}
}

// Rule 20.14: all #else, #elif and #endif preprocessor directives shall
// reside in the same file as the #if, #ifdef or #ifndef directive to
// which they are related.
func (c *Checker) misra_20_14(cfg *cppcheckdata.Configuration) {
	// #if and #ifdef directives are pushed on a stack. A matching
	// #else/#elif/#endif must be in the top-of-stack file.
	var ifStack []*cppcheckdata.Directive
	for _, dir := range cfg.Directives {
		if strings.HasPrefix(dir.Str, "#if ") ||
			strings.HasPrefix(dir.Str, "#ifdef ") ||
			strings.HasPrefix(dir.Str, "#ifndef ") {
			ifStack = append(ifStack, dir)
		} else if dir.Str == "#else" || strings.HasPrefix(dir.Str, "#elif ") {
			if len(ifStack) == 0 {
				c.reportErrorAtDirective(dir, 20, 14)
				ifStack = append(ifStack, dir)
			} else if dir.File != ifStack[len(ifStack)-1].File {
				c.reportErrorAtDirective(dir, 20, 14)
			}
		} else if dir.Str == "#endif" {
			if len(ifStack) == 0 {
				c.reportErrorAtDirective(dir, 20, 14)
			} else if dir.File != ifStack[len(ifStack)-1].File {
				c.reportErrorAtDirective(dir, 20, 14)
				ifStack = ifStack[:len(ifStack)-1]
			}
		}
	}
}
