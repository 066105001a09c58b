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

// Rule 3.1: the character sequences /* and // shall not be used within a
// comment.
func (c *Checker) misra_3_1(rawTokens []*cppcheckdata.Token) {
	for _, token := range rawTokens {
		startsWithDoubleSlash := strings.HasPrefix(token.Str, "//")
		if strings.HasPrefix(token.Str, "/*") || startsWithDoubleSlash {
			s := strings.TrimLeft(token.Str, "/")
			if (!startsWithDoubleSlash && strings.Contains(s, "//")) || strings.Contains(s, "/*") {
				c.reportError(token, 3, 1)
			}
		}
	}
}

// Rule 3.2: line splicing shall not be used in // comments.
func (c *Checker) misra_3_2(rawTokens []*cppcheckdata.Token) {
	for _, token := range rawTokens {
		if !strings.HasPrefix(token.Str, "//") {
			continue
		}
		// A trailing trigraph might be replaced by a backslash.
		if strings.HasSuffix(token.Str, "??/") {
			c.reportError(token, 3, 2)
		} else if token.Next != nil && token.Linenr == token.Next.Linenr {
			// A comment merged with the subsequent line ends with a
			// backslash; the backslash itself is no longer part of the
			// comment token, so compare line numbers.
			c.reportError(token, 3, 2)
		}
	}
}

// Rule 4.1: octal and hexadecimal escape sequences shall be terminated.
func (c *Checker) misra_4_1(rawTokens []*cppcheckdata.Token) {
	for _, token := range rawTokens {
		if len(token.Str) < 3 {
			continue
		}
		delimiter := token.Str[0]
		if delimiter != '"' && delimiter != '\'' {
			continue
		}
		if token.Str[len(token.Str)-1] != delimiter {
			// No closing delimiter. This will not compile.
			continue
		}
		symbols := token.Str[1 : len(token.Str)-1]
		if len(symbols) < 2 {
			continue
		}
		if !matcher.HasNumericEscapeSequence(symbols) {
			continue
		}
		parts := strings.Split(symbols, "\\")
		for _, part := range parts[1:] {
			sequence := "\\" + part
			if matcher.IsHexEscapeSequence(sequence) || matcher.IsOctalEscapeSequence(sequence) ||
				matcher.IsSimpleEscapeSequence(sequence) {
				continue
			}
			c.reportError(token, 4, 1)
		}
	}
}

var trigraphs = []string{`??=`, `??(`, `??/`, `??)`, `??'`, `??<`, `??!`, `??>`, `??-`}

// Rule 4.2: trigraphs should not be used.
func (c *Checker) misra_4_2(rawTokens []*cppcheckdata.Token) {
	for _, token := range rawTokens {
		if len(token.Str) < 2 || token.Str[0] != '"' || token.Str[len(token.Str)-1] != '"' {
			continue
		}
		body := token.Str[1 : len(token.Str)-1]
		for _, sequence := range trigraphs {
			if strings.Contains(body, sequence) {
				c.reportError(token, 4, 2)
				break
			}
		}
	}
}

var octalConstantRe = regexp.MustCompile(`^0[0-7]+$`)

// Rule 7.1: octal constants shall not be used.
func (c *Checker) misra_7_1(rawTokens []*cppcheckdata.Token) {
	for _, tok := range rawTokens {
		if octalConstantRe.MatchString(tok.Str) {
			c.reportError(tok, 7, 1)
		}
	}
}

var lowercaseLSuffixRe = regexp.MustCompile(`^[0-9.uU]+l`)

// Rule 7.3: the lowercase character l shall not be used in a literal
// suffix.
func (c *Checker) misra_7_3(rawTokens []*cppcheckdata.Token) {
	for _, tok := range rawTokens {
		if lowercaseLSuffixRe.MatchString(tok.Str) {
			c.reportError(tok, 7, 3)
		}
	}
}

// Rule 8.14: the restrict type qualifier shall not be used.
func (c *Checker) misra_8_14(rawTokens []*cppcheckdata.Token) {
	for _, token := range rawTokens {
		if token.Str == "restrict" {
			c.reportError(token, 8, 14)
		}
	}
}

// Rule 9.5: where designated initializers are used to initialize an array
// object the size of the array shall be specified explicitly.
func (c *Checker) misra_9_5(rawTokens []*cppcheckdata.Token) {
	for _, token := range rawTokens {
		if matcher.SimpleMatch(token, "[ ] = { [") {
			c.reportError(token, 9, 5)
		}
	}
}

var identifierStartRe = regexp.MustCompile(`^[a-zA-Z_]`)

// Rule 12.1 (raw part): sizeof applied to a name followed by a binary
// arithmetic operator reads ambiguously without parentheses.
func (c *Checker) misra_12_1_sizeof(rawTokens []*cppcheckdata.Token) {
	state := 0
	for _, tok := range rawTokens {
		if strings.HasPrefix(tok.Str, "//") || strings.HasPrefix(tok.Str, "/*") {
			continue
		}
		if tok.Str == "sizeof" {
			state = 1
		} else if state == 1 {
			if identifierStartRe.MatchString(tok.Str) {
				state = 2
			} else {
				state = 0
			}
		} else if state == 2 {
			switch tok.Str {
			case "+", "-", "*", "/", "%":
				c.reportError(tok, 12, 1)
			default:
				state = 0
			}
		}
	}
}

// Rule 15.6: the body of an iteration-statement or a selection-statement
// shall be a compound statement.
func (c *Checker) misra_15_6(rawTokens []*cppcheckdata.Token) {
	state := 0
	indent := 0
	var tok1 *cppcheckdata.Token
	for _, token := range rawTokens {
		switch {
		case token.Str == "if" || token.Str == "for" || token.Str == "while":
			if matcher.SimpleMatch(token.Previous, "# if") {
				continue
			}
			if matcher.SimpleMatch(token.Previous, "} while") {
				// is there a 'do { .. } while'?
				start := matcher.RawLink(token.Previous)
				if start != nil && matcher.SimpleMatch(start.Previous, "do {") {
					continue
				}
			}
			if state == 2 {
				c.reportError(tok1, 15, 6)
			}
			state = 1
			indent = 0
			tok1 = token
		case token.Str == "else":
			if matcher.SimpleMatch(token.Previous, "# else") {
				continue
			}
			if matcher.SimpleMatch(token, "else if") {
				continue
			}
			if state == 2 {
				c.reportError(tok1, 15, 6)
			}
			state = 2
			indent = 0
			tok1 = token
		case state == 1:
			if indent == 0 && token.Str != "(" {
				state = 0
				continue
			}
			if token.Str == "(" {
				indent++
			} else if token.Str == ")" {
				if indent == 0 {
					state = 0
				} else if indent == 1 {
					state = 2
				}
				indent--
			}
		case state == 2:
			if strings.HasPrefix(token.Str, "//") || strings.HasPrefix(token.Str, "/*") {
				continue
			}
			state = 0
			if token.Str != "{" {
				c.reportError(tok1, 15, 6)
			}
		}
	}
}

// switch fallthrough scanner states
const (
	fallthroughNone   = iota // not in a case/default block
	fallthroughBreak         // break seen but not its ';'
	fallthroughOK            // a case/default is allowed here
	fallthroughSwitch        // walking toward the switch body '{'
)

// Rule 16.3: an unconditional break statement shall terminate every
// switch-clause.
func (c *Checker) misra_16_3(rawTokens []*cppcheckdata.Token) {
	state := fallthroughNone
	var endSwitchToken *cppcheckdata.Token // end '}' of the switch scope
	for _, token := range rawTokens {
		if token.Str == "switch" {
			state = fallthroughSwitch
		}
		if state == fallthroughSwitch {
			if token.Str == "{" {
				endSwitchToken = matcher.FindRawLink(token)
			} else {
				continue
			}
		}
		switch {
		case token.Str == "break" || token.Str == "return" || token.Str == "throw":
			state = fallthroughBreak
		case token.Str == ";":
			if state == fallthroughBreak {
				state = fallthroughOK
			} else if token.Next != nil && token.Next == endSwitchToken {
				c.reportError(token.Next, 16, 3)
			} else {
				state = fallthroughNone
			}
		case strings.HasPrefix(token.Str, "/*") || strings.HasPrefix(token.Str, "//"):
			if strings.Contains(strings.ToLower(token.Str), "fallthrough") {
				state = fallthroughOK
			}
		case matcher.SimpleMatch(token, "[ [ fallthrough ] ] ;"):
			state = fallthroughBreak
		case token.Str == "{":
			state = fallthroughOK
		case token.Str == "}" && state == fallthroughOK:
			// is this {} an unconditional block of code?
			prev := matcher.FindRawLink(token)
			if prev != nil {
				prev = prev.Previous
				for prev != nil && (strings.HasPrefix(prev.Str, "//") || strings.HasPrefix(prev.Str, "/*")) {
					prev = prev.Previous
				}
			}
			if prev == nil || !strings.Contains(":;{}", prev.Str) {
				state = fallthroughNone
			}
		case token.Str == "case" || token.Str == "default":
			if state != fallthroughOK {
				c.reportError(token, 16, 3)
			}
			state = fallthroughOK
		}
	}
}

// Rule 17.6: the declaration of an array parameter shall not contain the
// static keyword between the [ ].
func (c *Checker) misra_17_6(rawTokens []*cppcheckdata.Token) {
	for _, token := range rawTokens {
		if matcher.SimpleMatch(token, "[ static") {
			c.reportError(token, 17, 6)
		}
	}
}

// Rule 20.3: the #include directive shall be followed by either a
// <filename> or "filename" sequence, one header per directive.
func (c *Checker) misra_20_3(rawTokens []*cppcheckdata.Token) {
	linenr := -1
	for _, token := range rawTokens {
		if strings.HasPrefix(token.Str, "/") || token.Linenr == linenr {
			continue
		}
		linenr = token.Linenr
		if !matcher.SimpleMatch(token, "# include") {
			continue
		}
		headerToken := token.Next.Next
		num := 0
		for headerToken != nil && headerToken.Linenr == linenr {
			if !strings.HasPrefix(headerToken.Str, "/*") && !strings.HasPrefix(headerToken.Str, "//") {
				num++
			}
			headerToken = headerToken.Next
		}
		if num != 1 {
			c.reportError(token, 20, 3)
		}
	}
}
