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

// Package matcher provides the token and AST matching primitives shared by
// the rule implementations. All functions are nil-safe: partial model data
// yields a negative answer, never a fault.
package matcher

import (
	"strings"

	"naive.systems/misracheck/cppcheckdata"
)

// Keywords are the C90 language keywords.
var Keywords = map[string]bool{
	"auto": true, "break": true, "case": true, "char": true,
	"const": true, "continue": true, "default": true, "do": true,
	"double": true, "else": true, "enum": true, "extern": true,
	"float": true, "for": true, "goto": true, "if": true,
	"int": true, "long": true, "register": true, "return": true,
	"short": true, "signed": true, "sizeof": true, "static": true,
	"struct": true, "switch": true, "typedef": true, "union": true,
	"unsigned": true, "void": true, "volatile": true, "while": true,
}

// SimpleMatch compares the token run starting at tok against a
// space-delimited pattern of literal token texts.
func SimpleMatch(tok *cppcheckdata.Token, pattern string) bool {
	for _, p := range strings.Split(pattern, " ") {
		if tok == nil || tok.Str != p {
			return false
		}
		tok = tok.Next
	}
	return true
}

// RawLink resolves a closing '}' to its opening '{' in the raw stream by
// nesting count. Any other token yields nil.
func RawLink(tok *cppcheckdata.Token) *cppcheckdata.Token {
	if tok == nil || tok.Str != "}" {
		return nil
	}
	indent := 0
	for tok != nil {
		if tok.Str == "}" {
			indent++
		} else if tok.Str == "{" {
			indent--
			if indent == 0 {
				break
			}
		}
		tok = tok.Previous
	}
	return tok
}

var closeOf = map[string]string{"{": "}", "(": ")", "[": "]"}
var openOf = map[string]string{"}": "{", ")": "(", "]": "["}

// FindRawLink resolves a bracket token to its counterpart in the raw
// stream, scanning forward for open brackets and backward for close
// brackets. Used when the model-provided link field is absent.
func FindRawLink(tok *cppcheckdata.Token) *cppcheckdata.Token {
	if tok == nil {
		return nil
	}
	var want string
	forward := false
	if w, ok := closeOf[tok.Str]; ok {
		want = w
		forward = true
	} else if w, ok := openOf[tok.Str]; ok {
		want = w
	} else {
		return nil
	}
	open := tok.Str
	indent := 0
	for tok != nil {
		if tok.Str == open {
			indent++
		} else if tok.Str == want {
			if indent <= 1 {
				return tok
			}
			indent--
		}
		if forward {
			tok = tok.Next
		} else {
			tok = tok.Previous
		}
	}
	return nil
}

// Precedence maps an expression token to its C grammar precedence bucket.
// Atoms and unary expressions are 16, the comma operator is 0 and
// non-operators are -1.
func Precedence(expr *cppcheckdata.Token) int {
	if expr == nil {
		return 16
	}
	if expr.AstOperand1 == nil || expr.AstOperand2 == nil {
		return 16
	}
	switch expr.Str {
	case "*", "/", "%":
		return 12
	case "+", "-":
		return 11
	case "<<", ">>":
		return 10
	case "<", ">", "<=", ">=":
		return 9
	case "==", "!=":
		return 8
	case "&":
		return 7
	case "^":
		return 6
	case "|":
		return 5
	case "&&":
		return 4
	case "||":
		return 3
	case "?", ":":
		return 2
	case ",":
		return 0
	}
	if expr.IsAssignmentOp {
		return 1
	}
	return -1
}

// NoParentheses reports whether no literal parenthesis occurs between tok1
// and tok2 in the flat token stream. It returns false when tok2 is not
// reachable from tok1.
func NoParentheses(tok1, tok2 *cppcheckdata.Token) bool {
	for tok1 != nil && tok1 != tok2 {
		if tok1.Str == "(" || tok1.Str == ")" {
			return false
		}
		tok1 = tok1.Next
	}
	return tok1 == tok2
}

// IsCast reports whether expr is the '(' of a C style cast.
func IsCast(expr *cppcheckdata.Token) bool {
	if expr == nil || expr.Str != "(" || expr.AstOperand1 == nil || expr.AstOperand2 != nil {
		return false
	}
	if SimpleMatch(expr, "( )") {
		return false
	}
	return true
}

// IsFunctionCall reports whether expr is the '(' of a function call.
func IsFunctionCall(expr *cppcheckdata.Token) bool {
	if expr == nil {
		return false
	}
	if expr.Str != "(" || expr.AstOperand1 == nil {
		return false
	}
	if expr.AstOperand1 != expr.Previous {
		return false
	}
	if Keywords[expr.AstOperand1.Str] {
		return false
	}
	return true
}

// HasExternalLinkage reports whether the variable is visible outside its
// translation unit.
func HasExternalLinkage(v *cppcheckdata.Variable) bool {
	return v.IsGlobal && !v.IsStatic
}

// CountSideEffects counts assignment and increment/decrement operators in
// the subtree, not descending through comma or statement separators.
func CountSideEffects(expr *cppcheckdata.Token) int {
	if expr == nil || expr.Str == "," || expr.Str == ";" {
		return 0
	}
	ret := 0
	switch expr.Str {
	case "++", "--", "=":
		ret = 1
	}
	return ret + CountSideEffects(expr.AstOperand1) + CountSideEffects(expr.AstOperand2)
}

// GetForLoopExpressions splits a for statement into its three clause
// expressions, or nil when the statement is not a plain three-clause for.
func GetForLoopExpressions(forToken *cppcheckdata.Token) []*cppcheckdata.Token {
	if forToken == nil || forToken.Str != "for" {
		return nil
	}
	lpar := forToken.Next
	if lpar == nil || lpar.Str != "(" {
		return nil
	}
	if lpar.AstOperand2 == nil || lpar.AstOperand2.Str != ";" {
		return nil
	}
	if lpar.AstOperand2.AstOperand2 == nil || lpar.AstOperand2.AstOperand2.Str != ";" {
		return nil
	}
	return []*cppcheckdata.Token{
		lpar.AstOperand2.AstOperand1,
		lpar.AstOperand2.AstOperand2.AstOperand1,
		lpar.AstOperand2.AstOperand2.AstOperand2,
	}
}

// FindCounterTokens collects the name tokens participating in a loop
// condition.
func FindCounterTokens(cond *cppcheckdata.Token) []*cppcheckdata.Token {
	if cond == nil {
		return nil
	}
	if cond.Str == "&&" || cond.Str == "||" {
		c := FindCounterTokens(cond.AstOperand1)
		return append(c, FindCounterTokens(cond.AstOperand2)...)
	}
	var ret []*cppcheckdata.Token
	if (cond.IsArithmeticalOp || cond.IsComparisonOp) && cond.AstOperand1 != nil && cond.AstOperand2 != nil {
		if cond.AstOperand1.IsName {
			ret = append(ret, cond.AstOperand1)
		}
		if cond.AstOperand2.IsName {
			ret = append(ret, cond.AstOperand2)
		}
		if cond.AstOperand1.IsOp {
			ret = append(ret, FindCounterTokens(cond.AstOperand1)...)
		}
		if cond.AstOperand2.IsOp {
			ret = append(ret, FindCounterTokens(cond.AstOperand2)...)
		}
	}
	return ret
}

// IsFloatCounterInWhileLoop reports whether a while loop modifies a
// floating counter from its condition inside the loop body.
func IsFloatCounterInWhileLoop(whileToken *cppcheckdata.Token) bool {
	if !SimpleMatch(whileToken, "while (") {
		return false
	}
	lpar := whileToken.Next
	rpar := lpar.Link
	counterTokens := FindCounterTokens(lpar.AstOperand2)
	var whileBodyStart *cppcheckdata.Token
	if SimpleMatch(rpar, ") {") {
		whileBodyStart = rpar.Next
	} else if SimpleMatch(whileToken.Previous, "} while") &&
		whileToken.Previous.Link != nil &&
		SimpleMatch(whileToken.Previous.Link.Previous, "do {") {
		whileBodyStart = whileToken.Previous.Link
	} else {
		return false
	}
	if whileBodyStart.Link == nil {
		return false
	}
	for token := whileBodyStart; token != whileBodyStart.Link; {
		token = token.Next
		if token == nil {
			return false
		}
		for _, counterToken := range counterTokens {
			if counterToken.ValueType == nil || !counterToken.ValueType.IsFloat() {
				continue
			}
			if token.IsAssignmentOp && token.AstOperand1 != nil && token.AstOperand1.Str == counterToken.Str {
				return true
			}
			if token.Str == counterToken.Str && token.AstParent != nil &&
				(token.AstParent.Str == "++" || token.AstParent.Str == "--") {
				return true
			}
		}
	}
	return false
}

// HasSideEffectsRecursive reports whether the subtree contains an
// assignment or increment/decrement, skipping designated initializers.
func HasSideEffectsRecursive(expr *cppcheckdata.Token) bool {
	if expr == nil {
		return false
	}
	if expr.Str == "=" && expr.AstOperand1 != nil && expr.AstOperand1.Str == "[" {
		prev := expr.AstOperand1.Previous
		if prev != nil && prev.Str == "{" {
			return HasSideEffectsRecursive(expr.AstOperand2)
		}
	}
	if expr.Str == "=" && expr.AstOperand1 != nil && expr.AstOperand1.Str == "." {
		e := expr.AstOperand1
		for e != nil && e.Str == "." && e.AstOperand2 != nil {
			e = e.AstOperand1
		}
		if e != nil && e.Str == "." {
			return false
		}
	}
	switch expr.Str {
	case "++", "--", "=":
		return true
	}
	// TODO: check function calls
	return HasSideEffectsRecursive(expr.AstOperand1) || HasSideEffectsRecursive(expr.AstOperand2)
}

// IsBoolExpression reports whether the expression is essentially boolean.
func IsBoolExpression(expr *cppcheckdata.Token) bool {
	if expr == nil {
		return false
	}
	if expr.ValueType != nil && (expr.ValueType.Type == "bool" || expr.ValueType.Bits == 1) {
		return true
	}
	switch expr.Str {
	case "!", "==", "!=", "<", "<=", ">", ">=", "&&", "||", "0", "1", "true", "false":
		return true
	}
	return false
}

// IsConstantExpression reports whether the subtree is built from number
// literals and sizeof only.
func IsConstantExpression(expr *cppcheckdata.Token) bool {
	if expr == nil {
		return false
	}
	if expr.IsNumber {
		return true
	}
	if expr.IsName {
		return false
	}
	if SimpleMatch(expr.Previous, "sizeof (") {
		return true
	}
	if expr.AstOperand1 != nil && !IsConstantExpression(expr.AstOperand1) {
		return false
	}
	if expr.AstOperand2 != nil && !IsConstantExpression(expr.AstOperand2) {
		return false
	}
	return true
}

// IsUnsignedInt reports whether the expression is an unsigned integer
// constant expression, judged by literal suffixes only.
func IsUnsignedInt(expr *cppcheckdata.Token) bool {
	if expr == nil {
		return false
	}
	if expr.IsNumber {
		return strings.Contains(expr.Str, "u") || strings.Contains(expr.Str, "U")
	}
	switch expr.Str {
	case "+", "-", "*", "/", "%":
		return IsUnsignedInt(expr.AstOperand1) || IsUnsignedInt(expr.AstOperand2)
	}
	return false
}

// FindGotoLabel finds the label token targeted by a goto inside the same
// function, or nil.
func FindGotoLabel(gotoToken *cppcheckdata.Token) *cppcheckdata.Token {
	if gotoToken.Next == nil {
		return nil
	}
	label := gotoToken.Next.Str
	tok := gotoToken.Next.Next
	for tok != nil {
		if tok.Str == "}" && tok.Scope != nil && tok.Scope.Type == "Function" {
			break
		}
		if tok.Str == label && tok.Next != nil && tok.Next.Str == ":" {
			return tok
		}
		tok = tok.Next
	}
	return nil
}

// FindInclude finds the directive including the given header spelled
// exactly, e.g. "<stdio.h>".
func FindInclude(directives []*cppcheckdata.Directive, header string) *cppcheckdata.Directive {
	for _, directive := range directives {
		if directive.Str == "#include "+header {
			return directive
		}
	}
	return nil
}

func getArgumentsRecursive(tok *cppcheckdata.Token, arguments *[]*cppcheckdata.Token) {
	if tok == nil {
		return
	}
	if tok.Str == "," {
		getArgumentsRecursive(tok.AstOperand1, arguments)
		getArgumentsRecursive(tok.AstOperand2, arguments)
	} else {
		*arguments = append(*arguments, tok)
	}
}

// GetArguments flattens the argument subtree of a call '(' token into the
// ordered argument expressions.
func GetArguments(ftok *cppcheckdata.Token) []*cppcheckdata.Token {
	var arguments []*cppcheckdata.Token
	getArgumentsRecursive(ftok.AstOperand2, &arguments)
	return arguments
}

// IsNoReturnScope reports whether the '}' closes a block that cannot fall
// out of its end (last statement is break, return or throw).
func IsNoReturnScope(tok *cppcheckdata.Token) bool {
	if tok == nil || tok.Str != "}" {
		return false
	}
	if tok.Previous == nil || tok.Previous.Str != ";" {
		return false
	}
	if SimpleMatch(tok.Previous.Previous, "break ;") {
		return true
	}
	prev := tok.Previous.Previous
	for prev != nil && prev.Str != ";" && prev.Str != "{" && prev.Str != "}" {
		if prev.Str == "]" || prev.Str == ")" {
			prev = prev.Link
			if prev == nil {
				return false
			}
		}
		prev = prev.Previous
	}
	if prev != nil && prev.Next != nil {
		switch prev.Next.Str {
		case "throw", "return":
			return true
		}
	}
	return false
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isOctDigit(c byte) bool {
	return c >= '0' && c <= '7'
}

// IsHexEscapeSequence checks a hexadecimal-escape-sequence per n1570
// 6.4.4.4.
func IsHexEscapeSequence(symbols string) bool {
	if len(symbols) < 3 || symbols[:2] != `\x` {
		return false
	}
	for i := 2; i < len(symbols); i++ {
		if !isHexDigit(symbols[i]) {
			return false
		}
	}
	return true
}

// IsOctalEscapeSequence checks an octal-escape-sequence per n1570 6.4.4.4.
func IsOctalEscapeSequence(symbols string) bool {
	if len(symbols) < 2 || len(symbols) > 4 || symbols[0] != '\\' {
		return false
	}
	for i := 1; i < len(symbols); i++ {
		if !isOctDigit(symbols[i]) {
			return false
		}
	}
	return true
}

// IsSimpleEscapeSequence checks a simple-escape-sequence per n1570 6.4.4.4.
func IsSimpleEscapeSequence(symbols string) bool {
	if len(symbols) != 2 || symbols[0] != '\\' {
		return false
	}
	switch symbols[1] {
	case '\'', '"', '?', '\\', 'a', 'b', 'f', 'n', 'r', 't', 'v':
		return true
	}
	return false
}

// HasNumericEscapeSequence reports whether the literal body contains an
// octal or hexadecimal escape sequence.
func HasNumericEscapeSequence(symbols string) bool {
	if !strings.Contains(symbols, "\\") {
		return false
	}
	for i := 0; i+1 < len(symbols); i++ {
		if symbols[i] != '\\' {
			continue
		}
		if symbols[i+1] == 'x' || isOctDigit(symbols[i+1]) {
			return true
		}
		i++
	}
	return false
}
