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
	"naive.systems/misracheck/cppcheckdata"
	"naive.systems/misracheck/misra/matcher"
)

// Rule 12.1 (AST part): the precedence of operators within expressions
// should be made explicit by parentheses.
func (c *Checker) misra_12_1(cfg *cppcheckdata.Configuration) {
	for _, token := range cfg.TokenList {
		p := matcher.Precedence(token)
		if p < 2 || p > 12 {
			continue
		}
		p1 := matcher.Precedence(token.AstOperand1)
		if p < p1 && p1 <= 12 && matcher.NoParentheses(token.AstOperand1, token) {
			c.reportError(token, 12, 1)
			continue
		}
		p2 := matcher.Precedence(token.AstOperand2)
		if p < p2 && p2 <= 12 && matcher.NoParentheses(token, token.AstOperand2) {
			c.reportError(token, 12, 1)
			continue
		}
	}
}

// Rule 12.2: the right hand operand of a shift operator shall lie in the
// range zero to one less than the width in bits of the left hand operand.
func (c *Checker) misra_12_2(cfg *cppcheckdata.Configuration) {
	for _, token := range cfg.TokenList {
		if token.Str != "<<" && token.Str != ">>" {
			continue
		}
		if token.AstOperand2 == nil || len(token.AstOperand2.Values) == 0 {
			continue
		}
		var maxval int64
		for _, val := range token.AstOperand2.Values {
			if val.HasIntValue && val.IntValue > maxval {
				maxval = val.IntValue
			}
		}
		if maxval == 0 {
			continue
		}
		sz := c.typeBits.BitsOf(token.AstOperand1)
		if sz <= 0 {
			continue
		}
		if maxval >= int64(sz) {
			c.reportError(token, 12, 2)
		}
	}
}

// Rule 12.3: the comma operator should not be used.
func (c *Checker) misra_12_3(cfg *cppcheckdata.Configuration) {
	for _, token := range cfg.TokenList {
		if token.Str != "," || token.Scope == nil {
			continue
		}
		switch token.Scope.Type {
		case "Enum", "Class", "Global":
			continue
		}
		if token.AstParent != nil {
			switch token.AstParent.Str {
			case "(", ",", "{":
				continue
			}
		}
		c.reportError(token, 12, 3)
	}
}

// Rule 12.4: evaluation of constant expressions should not lead to
// unsigned integer wrap-around.
func (c *Checker) misra_12_4(cfg *cppcheckdata.Configuration) {
	var maxUint int64
	switch c.typeBits.Int {
	case 16:
		maxUint = 0xffff
	case 32:
		maxUint = 0xffffffff
	default:
		return
	}
	for _, token := range cfg.TokenList {
		if len(token.Values) == 0 {
			continue
		}
		if !matcher.IsConstantExpression(token) || !matcher.IsUnsignedInt(token) {
			continue
		}
		for _, value := range token.Values {
			if !value.HasIntValue {
				continue
			}
			if value.IntValue < 0 || value.IntValue > maxUint {
				c.reportError(token, 12, 4)
				break
			}
		}
	}
}

// Rule 13.1: initializer lists shall not contain persistent side effects.
func (c *Checker) misra_13_1(cfg *cppcheckdata.Configuration) {
	for _, token := range cfg.TokenList {
		if !matcher.SimpleMatch(token, "= {") {
			continue
		}
		init := token.Next
		if matcher.HasSideEffectsRecursive(init) {
			c.reportError(init, 13, 1)
		}
	}
}

// Rule 13.3: a full expression containing an increment or decrement
// operator should have no other potential side effects.
func (c *Checker) misra_13_3(cfg *cppcheckdata.Configuration) {
	for _, token := range cfg.TokenList {
		if token.Str != "++" && token.Str != "--" {
			continue
		}
		astTop := token
		for astTop.AstParent != nil && astTop.AstParent.Str != "," && astTop.AstParent.Str != ";" {
			astTop = astTop.AstParent
		}
		if matcher.CountSideEffects(astTop) >= 2 {
			c.reportError(astTop, 13, 3)
		}
	}
}

// Rule 13.4: the result of an assignment operator should not be used.
func (c *Checker) misra_13_4(cfg *cppcheckdata.Configuration) {
	for _, token := range cfg.TokenList {
		if token.Str != "=" {
			continue
		}
		if token.AstParent == nil {
			continue
		}
		if token.AstOperand1 != nil && token.AstOperand1.Str == "[" &&
			token.AstOperand1.Previous != nil &&
			(token.AstOperand1.Previous.Str == "{" || token.AstOperand1.Previous.Str == ",") {
			continue
		}
		switch token.AstParent.Str {
		case ",", ";", "{":
		default:
			c.reportError(token, 13, 4)
		}
	}
}

// Rule 13.5: the right hand operand of a logical && or || operator shall
// not contain persistent side effects.
func (c *Checker) misra_13_5(cfg *cppcheckdata.Configuration) {
	for _, token := range cfg.TokenList {
		if token.IsLogicalOp && matcher.HasSideEffectsRecursive(token.AstOperand2) {
			c.reportError(token, 13, 5)
		}
	}
}

// Rule 13.6: the operand of the sizeof operator shall not contain any
// expression which has potential side effects.
func (c *Checker) misra_13_6(cfg *cppcheckdata.Configuration) {
	for _, token := range cfg.TokenList {
		if token.Str == "sizeof" && matcher.HasSideEffectsRecursive(token.Next) {
			c.reportError(token, 13, 6)
		}
	}
}
