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
	"strings"

	"naive.systems/misracheck/cppcheckdata"
	"naive.systems/misracheck/misra/essentialtype"
	"naive.systems/misracheck/misra/matcher"
)

func isArithOp(s string) bool {
	switch s {
	case "+", "-", "*", "/", "%", "&", "|", "^", ">>", "<<", "?", ":", "~":
		return true
	}
	return false
}

// Rule 10.1: operands shall not be of an inappropriate essential type.
// Only the shift operand checks of the original are covered.
func (c *Checker) misra_10_1(cfg *cppcheckdata.Configuration) {
	for _, token := range cfg.TokenList {
		if !token.IsOp {
			continue
		}
		e1 := essentialtype.Category(token.AstOperand1)
		e2 := essentialtype.Category(token.AstOperand2)
		if e1 == "" || e2 == "" {
			continue
		}
		if token.Str == "<<" || token.Str == ">>" {
			if e1 != "unsigned" {
				c.reportError(token, 10, 1)
			} else if e2 != "unsigned" && !token.AstOperand2.IsNumber {
				c.reportError(token, 10, 1)
			}
		}
	}
}

// Rule 10.3: the value of an expression shall not be assigned to an
// object with a narrower essential type. Widening assignments are the
// business of rule 10.6.
func (c *Checker) misra_10_3(cfg *cppcheckdata.Configuration) {
	for _, token := range cfg.TokenList {
		if token.Str != "=" || token.AstOperand1 == nil || token.AstOperand2 == nil {
			continue
		}
		vt1 := token.AstOperand1.ValueType
		vt2 := token.AstOperand2.ValueType
		if vt1 == nil || vt1.Pointer > 0 {
			continue
		}
		if vt2 != nil && vt2.Pointer > 0 {
			continue
		}
		rank1 := essentialtype.RankIndex(essentialtype.TypeOf(token.AstOperand1))
		rank2 := essentialtype.RankIndex(essentialtype.TypeOf(token.AstOperand2))
		if rank1 < 0 || rank2 < 0 {
			continue
		}
		if rank2 > rank1 {
			c.reportError(token, 10, 3)
		}
	}
}

// Rule 10.4: both operands of an operator in which the usual arithmetic
// conversions are performed shall have the same essential type category.
func (c *Checker) misra_10_4(cfg *cppcheckdata.Configuration) {
	op := map[string]bool{
		"+": true, "-": true, "*": true, "/": true, "%": true,
		"&": true, "|": true, "^": true, "+=": true, "-=": true, ":": true,
	}
	for _, token := range cfg.TokenList {
		if !op[token.Str] && !token.IsComparisonOp {
			continue
		}
		if token.AstOperand1 == nil || token.AstOperand2 == nil {
			continue
		}
		if token.AstOperand1.ValueType == nil || token.AstOperand2.ValueType == nil {
			continue
		}
		op1 := token.AstOperand1
		op2 := token.AstOperand2
		var e1, e2 string
		// Chained operators compare the inner operands adjacent to this
		// one. The chained branch reads the left operand's comparison flag
		// for both sides.
		if (op[op1.Str] || op1.IsComparisonOp) && (op[op2.Str] || op1.IsComparisonOp) {
			e1, e2 = essentialtype.CategoryPair(op1.AstOperand2, op2.AstOperand1)
		} else if op[op1.Str] || op1.IsComparisonOp {
			e1, e2 = essentialtype.CategoryPair(op1.AstOperand2, op2)
		} else if op[op2.Str] || op2.IsComparisonOp {
			e1, e2 = essentialtype.CategoryPair(op1, op2.AstOperand1)
		} else {
			e1, e2 = essentialtype.CategoryPair(op1, op2)
		}
		if token.Str == "+=" || token.Str == "+" {
			if e1 == "char" && (e2 == "signed" || e2 == "unsigned") {
				continue
			}
			if e2 == "char" && (e1 == "signed" || e1 == "unsigned") {
				continue
			}
		}
		if token.Str == "-=" || token.Str == "-" {
			if e1 == "char" && (e2 == "signed" || e2 == "unsigned") {
				continue
			}
		}
		if e1 != "" && e2 != "" {
			if strings.Contains(e1, "Anonymous") && (e2 == "signed" || e2 == "unsigned") {
				continue
			}
			if strings.Contains(e2, "Anonymous") && (e1 == "signed" || e1 == "unsigned") {
				continue
			}
			if e1 != e2 {
				c.reportError(token, 10, 4)
			}
		}
	}
}

var intRankTypes = []string{"char", "short", "int", "long", "long long"}

func intRankIndex(t string) int {
	for i, r := range intRankTypes {
		if r == t {
			return i
		}
	}
	return -1
}

// Rule 10.6: the value of a composite expression shall not be assigned to
// an object with wider essential type.
func (c *Checker) misra_10_6(cfg *cppcheckdata.Configuration) {
	for _, token := range cfg.TokenList {
		if token.Str != "=" || token.AstOperand1 == nil || token.AstOperand2 == nil {
			continue
		}
		if !isArithOp(token.AstOperand2.Str) && !matcher.IsCast(token.AstOperand2) {
			continue
		}
		vt1 := token.AstOperand1.ValueType
		vt2 := token.AstOperand2.ValueType
		if vt1 == nil || vt1.Pointer > 0 {
			continue
		}
		if vt2 == nil || vt2.Pointer > 0 {
			continue
		}
		index1 := intRankIndex(vt1.Type)
		if index1 < 0 {
			continue
		}
		var e string
		if matcher.IsCast(token.AstOperand2) {
			e = vt2.Type
		} else {
			e = essentialtype.TypeOf(token.AstOperand2)
		}
		if e == "" {
			continue
		}
		index2 := intRankIndex(e)
		if index2 < 0 {
			continue
		}
		if index1 > index2 {
			c.reportError(token, 10, 6)
		}
	}
}

// Rule 10.8: the value of a composite expression shall not be cast to a
// different essential type category or a wider essential type.
func (c *Checker) misra_10_8(cfg *cppcheckdata.Configuration) {
	for _, token := range cfg.TokenList {
		if !matcher.IsCast(token) {
			continue
		}
		if token.ValueType == nil || token.ValueType.Pointer > 0 {
			continue
		}
		if token.AstOperand1.ValueType == nil || token.AstOperand1.ValueType.Pointer > 0 {
			continue
		}
		if token.AstOperand1.AstOperand1 == nil {
			continue
		}
		if !isArithOp(token.AstOperand1.Str) {
			continue
		}
		if token.AstOperand1.Str != "~" && token.AstOperand1.AstOperand2 == nil {
			continue
		}
		var e2 string
		if token.AstOperand1.Str == "~" {
			e2 = essentialtype.Category(token.AstOperand1.AstOperand1)
		} else {
			var e3 string
			e2, e3 = essentialtype.CategoryPair(token.AstOperand1.AstOperand1, token.AstOperand1.AstOperand2)
			if e2 != e3 {
				continue
			}
		}
		e1 := essentialtype.Category(token)
		if e1 != e2 {
			c.reportError(token, 10, 8)
			continue
		}
		index1 := intRankIndex(token.ValueType.Type)
		if index1 < 0 {
			continue
		}
		e := essentialtype.TypeOf(token.AstOperand1)
		if e == "" {
			continue
		}
		index2 := intRankIndex(e)
		if index2 < 0 {
			continue
		}
		if index1 > index2 {
			c.reportError(token, 10, 8)
		}
	}
}

// Rule 11.3: a cast shall not be performed between a pointer to object
// type and a pointer to a different object type.
func (c *Checker) misra_11_3(cfg *cppcheckdata.Configuration) {
	for _, token := range cfg.TokenList {
		if !matcher.IsCast(token) {
			continue
		}
		vt1 := token.ValueType
		vt2 := token.AstOperand1.ValueType
		if vt1 == nil || vt2 == nil {
			continue
		}
		if vt1.Type == "void" || vt2.Type == "void" {
			continue
		}
		if vt1.Pointer > 0 && vt1.Type == "record" &&
			vt2.Pointer > 0 && vt2.Type == "record" &&
			vt1.TypeScopeID != vt2.TypeScopeID {
			c.reportError(token, 11, 3)
		} else if vt1.Pointer == vt2.Pointer && vt1.Pointer > 0 &&
			vt1.Type != vt2.Type && vt1.Type != "char" {
			c.reportError(token, 11, 3)
		}
	}
}

// Rule 11.4: a conversion should not be performed between a pointer to
// object and an integer type.
func (c *Checker) misra_11_4(cfg *cppcheckdata.Configuration) {
	for _, token := range cfg.TokenList {
		if !matcher.IsCast(token) {
			continue
		}
		vt1 := token.ValueType
		vt2 := token.AstOperand1.ValueType
		if vt1 == nil || vt2 == nil {
			continue
		}
		if vt2.Pointer > 0 && vt1.Pointer == 0 && (vt1.IsIntegral() || vt1.IsEnum()) && vt2.Type != "void" {
			c.reportError(token, 11, 4)
		} else if vt1.Pointer > 0 && vt2.Pointer == 0 && (vt2.IsIntegral() || vt2.IsEnum()) && vt1.Type != "void" {
			c.reportError(token, 11, 4)
		}
	}
}

// Rule 11.5: a conversion should not be performed from pointer to void
// into pointer to object.
func (c *Checker) misra_11_5(cfg *cppcheckdata.Configuration) {
	for _, token := range cfg.TokenList {
		if !matcher.IsCast(token) {
			// Implicit conversion on plain assignment.
			if token.AstOperand1 != nil && token.AstOperand2 != nil && token.Str == "=" &&
				token.Next != nil && token.Next.Str != "(" {
				vt1 := token.AstOperand1.ValueType
				vt2 := token.AstOperand2.ValueType
				if vt1 == nil || vt2 == nil {
					continue
				}
				if vt1.Pointer > 0 && vt1.Type != "void" && vt2.Pointer == vt1.Pointer && vt2.Type == "void" {
					c.reportError(token, 11, 5)
				}
			}
			continue
		}
		if token.AstOperand1.AstOperand1 != nil {
			switch token.AstOperand1.AstOperand1.Str {
			case "malloc", "calloc", "realloc", "free":
				continue
			}
		}
		vt1 := token.ValueType
		vt2 := token.AstOperand1.ValueType
		if vt1 == nil || vt2 == nil {
			continue
		}
		if vt1.Pointer > 0 && vt1.Type != "void" && vt2.Pointer == vt1.Pointer && vt2.Type == "void" {
			c.reportError(token, 11, 5)
		}
	}
}

// Rule 11.6: a cast shall not be performed between pointer to void and an
// arithmetic type.
func (c *Checker) misra_11_6(cfg *cppcheckdata.Configuration) {
	for _, token := range cfg.TokenList {
		if !matcher.IsCast(token) {
			continue
		}
		if token.AstOperand1.AstOperand1 != nil {
			continue
		}
		vt1 := token.ValueType
		vt2 := token.AstOperand1.ValueType
		if vt1 == nil || vt2 == nil {
			continue
		}
		if vt1.Pointer == 1 && vt1.Type == "void" && vt2.Pointer == 0 && token.AstOperand1.Str != "0" {
			c.reportError(token, 11, 6)
		} else if vt1.Pointer == 0 && vt1.Type != "void" && vt2.Pointer == 1 && vt2.Type == "void" {
			c.reportError(token, 11, 6)
		}
	}
}

// Rule 11.7: a cast shall not be performed between pointer to object and
// a non-integer arithmetic type.
func (c *Checker) misra_11_7(cfg *cppcheckdata.Configuration) {
	for _, token := range cfg.TokenList {
		if !matcher.IsCast(token) {
			continue
		}
		vt1 := token.ValueType
		vt2 := token.AstOperand1.ValueType
		if vt1 == nil || vt2 == nil {
			continue
		}
		if token.AstOperand1.AstOperand1 != nil {
			continue
		}
		if vt2.Pointer > 0 && vt1.Pointer == 0 &&
			!vt1.IsIntegral() && !vt1.IsEnum() && vt1.Type != "void" {
			c.reportError(token, 11, 7)
		} else if vt1.Pointer > 0 && vt2.Pointer == 0 &&
			!vt2.IsIntegral() && !vt2.IsEnum() && vt1.Type != "void" {
			c.reportError(token, 11, 7)
		}
	}
}

// Rule 11.8: a cast shall not remove any const or volatile qualification
// from the type pointed to by a pointer.
func (c *Checker) misra_11_8(cfg *cppcheckdata.Configuration) {
	for _, token := range cfg.TokenList {
		if matcher.IsCast(token) {
			if token.ValueType == nil || token.AstOperand1.ValueType == nil {
				continue
			}
			if token.ValueType.Pointer == 0 || token.AstOperand1.ValueType.Pointer == 0 {
				continue
			}
			const1 := token.ValueType.Constness
			const2 := token.AstOperand1.ValueType.Constness
			if (const1 % 2) < (const2 % 2) {
				c.reportError(token, 11, 8)
			}
		} else if token.Str == "(" && token.AstOperand1 != nil && token.AstOperand2 != nil &&
			token.AstOperand1.Function != nil {
			// Passing a pointer argument into a less qualified parameter.
			function := token.AstOperand1.Function
			arguments := matcher.GetArguments(token)
			for argnr, argvar := range function.Argument {
				if argnr < 1 || argnr > len(arguments) {
					continue
				}
				if !argvar.IsPointer {
					continue
				}
				argtok := arguments[argnr-1]
				if argtok.ValueType == nil {
					continue
				}
				if argtok.ValueType.Pointer == 0 {
					continue
				}
				const1 := argvar.Constness
				const2 := argtok.ValueType.Constness
				if (const1 % 2) < (const2 % 2) {
					c.reportError(token, 11, 8)
				}
			}
		}
	}
}

// Rule 11.9: the macro NULL shall be the only permitted form of integer
// null pointer constant.
func (c *Checker) misra_11_9(cfg *cppcheckdata.Configuration) {
	for _, token := range cfg.TokenList {
		if token.AstOperand1 == nil || token.AstOperand2 == nil {
			continue
		}
		switch token.Str {
		case "=", "==", "!=", "?", ":":
		default:
			continue
		}
		vt1 := token.AstOperand1.ValueType
		vt2 := token.AstOperand2.ValueType
		if vt1 == nil || vt2 == nil {
			continue
		}
		if vt1.Pointer > 0 && vt2.Pointer == 0 && token.AstOperand2.Str == "NULL" {
			continue
		}
		if len(token.AstOperand2.Values) > 0 && vt1.Pointer > 0 && vt2.Pointer == 0 {
			for _, val := range token.AstOperand2.Values {
				if val.HasIntValue && val.IntValue == 0 {
					c.reportError(token, 11, 9)
					break
				}
			}
		}
	}
}
