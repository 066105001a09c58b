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

// Rule 8.11: when an array with external linkage is declared, its size
// should be explicitly specified.
func (c *Checker) misra_8_11(cfg *cppcheckdata.Configuration) {
	for _, v := range cfg.Variables {
		if v.NameToken == nil || v.NameToken.Scope == nil {
			continue
		}
		if v.IsExtern && matcher.SimpleMatch(v.NameToken.Next, "[ ]") && v.NameToken.Scope.Type == "Global" {
			c.reportError(v.NameToken, 8, 11)
		}
	}
}

// Rule 8.12: within an enumerator list, the value of an
// implicitly-specified enumeration constant shall be unique.
func (c *Checker) misra_8_12(cfg *cppcheckdata.Configuration) {
	for _, scope := range cfg.Scopes {
		if scope.Type != "Enum" || scope.BodyStart == nil {
			continue
		}
		var enumValues []int64
		var implicitEnumValues []int64
		eToken := scope.BodyStart.Next
		for eToken != nil && eToken != scope.BodyEnd {
			if eToken.Str == "(" && eToken.Link != nil {
				eToken = eToken.Link
				continue
			}
			if eToken.Previous != nil && eToken.Previous.Str != "," && eToken.Previous.Str != "{" {
				eToken = eToken.Next
				continue
			}
			if eToken.IsName && len(eToken.Values) > 0 && eToken.ValueType != nil &&
				eToken.ValueType.TypeScope == scope {
				for _, v := range eToken.Values {
					if !v.HasIntValue {
						continue
					}
					enumValues = append(enumValues, v.IntValue)
					if eToken.Next != nil && eToken.Next.Str != "=" {
						implicitEnumValues = append(implicitEnumValues, v.IntValue)
					}
				}
			}
			eToken = eToken.Next
		}
		for _, implicit := range implicitEnumValues {
			count := 0
			for _, v := range enumValues {
				if v == implicit {
					count++
				}
			}
			if count != 1 {
				c.reportError(scope.BodyStart, 8, 12)
			}
		}
	}
}

// Rule 18.4: the +, -, += and -= operators should not be applied to an
// expression of pointer type.
func (c *Checker) misra_18_4(cfg *cppcheckdata.Configuration) {
	for _, token := range cfg.TokenList {
		switch token.Str {
		case "+", "-", "+=", "-=":
		default:
			continue
		}
		if token.AstOperand1 == nil || token.AstOperand2 == nil {
			continue
		}
		vt1 := token.AstOperand1.ValueType
		vt2 := token.AstOperand2.ValueType
		if vt1 != nil && vt1.Pointer > 0 {
			c.reportError(token, 18, 4)
		} else if vt2 != nil && vt2.Pointer > 0 {
			c.reportError(token, 18, 4)
		}
	}
}

// Rule 18.5: declarations should contain no more than two levels of
// pointer nesting.
func (c *Checker) misra_18_5(cfg *cppcheckdata.Configuration) {
	for _, v := range cfg.Variables {
		if !v.IsPointer || v.NameToken == nil {
			continue
		}
		count := 0
		for typetok := v.NameToken; typetok != nil; typetok = typetok.Previous {
			if typetok.Str == "*" {
				count++
			} else if !typetok.IsName {
				break
			}
		}
		if count > 2 {
			c.reportError(v.NameToken, 18, 5)
		}
	}
}

// Rule 18.7: flexible array members shall not be declared.
func (c *Checker) misra_18_7(cfg *cppcheckdata.Configuration) {
	for _, scope := range cfg.Scopes {
		if scope.Type != "Struct" || scope.BodyStart == nil {
			continue
		}
		token := scope.BodyStart.Next
		for token != nil && token != scope.BodyEnd {
			// Skip nested structures to not duplicate an error.
			if token.Str == "{" && token.Link != nil {
				token = token.Link
			}
			if matcher.SimpleMatch(token, "[ ]") {
				c.reportError(token, 18, 7)
				break
			}
			token = token.Next
		}
	}
}

// Rule 18.8: variable-length array types shall not be used.
func (c *Checker) misra_18_8(cfg *cppcheckdata.Configuration) {
	for _, v := range cfg.Variables {
		if !v.IsArray || !v.IsLocal || v.NameToken == nil {
			continue
		}
		// Array dimensions are not in the dump, look at the tokens.
		typetok := v.NameToken.Next
		if typetok == nil || typetok.Str != "[" {
			continue
		}
		// Unknown define or syntax error.
		if typetok.AstOperand2 == nil {
			continue
		}
		if !matcher.IsConstantExpression(typetok.AstOperand2) {
			c.reportError(v.NameToken, 18, 8)
		}
	}
}

// Rule 19.2: the union keyword should not be used.
func (c *Checker) misra_19_2(cfg *cppcheckdata.Configuration) {
	for _, token := range cfg.TokenList {
		if token.Str == "union" {
			c.reportError(token, 19, 2)
		}
	}
}
