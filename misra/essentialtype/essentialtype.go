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

// Package essentialtype infers the MISRA essential type model of
// expressions. The inference is deliberately partial: where the category
// or rank of an expression cannot be established, the functions return the
// empty string and width 0, and rules abstain. Downstream rule behavior is
// calibrated against exactly this partiality; widening the inference
// changes which violations are reported.
package essentialtype

import (
	"strings"

	"naive.systems/misracheck/cppcheckdata"
)

// ranks are the standard integer ranks in ascending order.
var ranks = []string{"bool", "char", "short", "int", "long", "long long"}

func rankIndex(t string) int {
	for i, r := range ranks {
		if r == t {
			return i
		}
	}
	return -1
}

// Category computes the essential type category of an expression:
// "bool", "float", "signed", "unsigned", "enum<Name>" or "" when unknown.
func Category(expr *cppcheckdata.Token) string {
	if expr == nil {
		return ""
	}
	if expr.Str == "," {
		return Category(expr.AstOperand2)
	}
	switch expr.Str {
	case "<", "<=", "==", "!=", ">=", ">", "&&", "||", "!":
		return "bool"
	case "<<", ">>":
		// TODO this is incomplete
		return Category(expr.AstOperand1)
	}
	if len(expr.Str) == 1 && strings.ContainsAny(expr.Str, "+-*/%&|^") {
		// TODO this is incomplete
		e1 := Category(expr.AstOperand1)
		e2 := Category(expr.AstOperand2)
		if e1 != "" && e2 != "" && e1 == e2 {
			return e1
		}
		if expr.ValueType != nil {
			return expr.ValueType.Sign
		}
	}
	if expr.ValueType != nil && expr.ValueType.TypeScope != nil {
		return "enum<" + expr.ValueType.TypeScope.ClassName + ">"
	}
	if expr.Variable != nil {
		for typeToken := expr.Variable.TypeStartToken; typeToken != nil; typeToken = typeToken.Next {
			if typeToken.ValueType == nil {
				continue
			}
			if typeToken.ValueType.Type == "bool" {
				return "bool"
			}
			switch typeToken.ValueType.Type {
			case "float", "double", "long double":
				return "float"
			}
			if typeToken.ValueType.Sign != "" {
				return typeToken.ValueType.Sign
			}
		}
	}
	if expr.ValueType != nil {
		return expr.ValueType.Sign
	}
	return ""
}

// CategoryPair computes both operand categories of a binary expression,
// abstaining (both empty) for increment/decrement operands and pointer
// operands.
func CategoryPair(operand1, operand2 *cppcheckdata.Token) (string, string) {
	if operand1 == nil || operand2 == nil {
		return "", ""
	}
	if operand1.Str == "++" || operand1.Str == "--" ||
		operand2.Str == "++" || operand2.Str == "--" {
		return "", ""
	}
	if (operand1.ValueType != nil && operand1.ValueType.Pointer > 0) ||
		(operand2.ValueType != nil && operand2.ValueType.Pointer > 0) {
		return "", ""
	}
	return Category(operand1), Category(operand2)
}

// TypeOf computes the minimal standard integer rank of an expression, one
// of bool/char/short/int/long/long long, or "" when unknown. For binary
// arithmetic the higher rank of both operands wins; pointer operands and
// non-rank operands abstain. A declared-type walk stops at the first rank
// keyword, so it never produces "long long".
func TypeOf(expr *cppcheckdata.Token) string {
	if expr == nil {
		return ""
	}
	if expr.Variable != nil {
		for typeToken := expr.Variable.TypeStartToken; typeToken != nil && typeToken.IsName; typeToken = typeToken.Next {
			switch typeToken.Str {
			case "char", "short", "int", "long", "float", "double":
				return typeToken.Str
			}
		}
		return ""
	}
	if expr.AstOperand1 != nil && expr.AstOperand2 != nil {
		switch expr.Str {
		case "+", "-", "*", "/", "%", "&", "|", "^", ">>", "<<", "?", ":":
			if expr.AstOperand1.ValueType != nil && expr.AstOperand1.ValueType.Pointer > 0 {
				return ""
			}
			if expr.AstOperand2.ValueType != nil && expr.AstOperand2.ValueType.Pointer > 0 {
				return ""
			}
			e1 := TypeOf(expr.AstOperand1)
			e2 := TypeOf(expr.AstOperand2)
			if e1 == "" || e2 == "" {
				return ""
			}
			i1 := rankIndex(e1)
			i2 := rankIndex(e2)
			if i1 < 0 || i2 < 0 {
				return ""
			}
			if i2 >= i1 {
				return ranks[i2]
			}
			return ranks[i1]
		}
		return ""
	}
	if expr.Str == "~" {
		return TypeOf(expr.AstOperand1)
	}
	return ""
}

// RankIndex maps a rank name to its position in the standard rank order,
// or -1 for non-rank names.
func RankIndex(t string) int {
	return rankIndex(t)
}

// TypeBits is the per-platform width table installed from the dump's
// platform element before width-dependent rules run.
type TypeBits struct {
	Char     int
	Short    int
	Int      int
	Long     int
	LongLong int
}

// FromPlatform builds the width table of a dump platform.
func FromPlatform(p cppcheckdata.Platform) TypeBits {
	return TypeBits{
		Char:     p.CharBit,
		Short:    p.ShortBit,
		Int:      p.IntBit,
		Long:     p.LongBit,
		LongLong: p.LongLongBit,
	}
}

// BitsOf computes the width of an expression's essential type on the given
// platform, or 0 when the rank is unknown.
func (tb TypeBits) BitsOf(expr *cppcheckdata.Token) int {
	switch TypeOf(expr) {
	case "char":
		return tb.Char
	case "short":
		return tb.Short
	case "int":
		return tb.Int
	case "long":
		return tb.Long
	case "long long":
		return tb.LongLong
	}
	return 0
}
