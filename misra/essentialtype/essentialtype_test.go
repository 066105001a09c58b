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

package essentialtype

import (
	"testing"

	"naive.systems/misracheck/cppcheckdata"
)

func binary(op string, lhs, rhs *cppcheckdata.Token) *cppcheckdata.Token {
	return &cppcheckdata.Token{Str: op, AstOperand1: lhs, AstOperand2: rhs}
}

// declared builds a variable reference token whose declaration reads as the
// given type keyword sequence.
func declared(name string, typeWords ...string) *cppcheckdata.Token {
	var first, prev *cppcheckdata.Token
	for _, w := range typeWords {
		tok := &cppcheckdata.Token{Str: w, IsName: true}
		sign := ""
		switch w {
		case "unsigned":
			sign = "unsigned"
		case "signed", "char", "short", "int", "long":
			sign = "signed"
		}
		switch w {
		case "bool", "float", "double":
			tok.ValueType = &cppcheckdata.ValueType{Type: w}
		default:
			tok.ValueType = &cppcheckdata.ValueType{Type: "int", Sign: sign}
		}
		if prev != nil {
			prev.Next = tok
		} else {
			first = tok
		}
		prev = tok
	}
	return &cppcheckdata.Token{
		Str:      name,
		IsName:   true,
		Variable: &cppcheckdata.Variable{TypeStartToken: first},
	}
}

func TestCategory(t *testing.T) {
	signedTok := func(s string) *cppcheckdata.Token {
		return &cppcheckdata.Token{Str: s, ValueType: &cppcheckdata.ValueType{Type: "int", Sign: "signed"}}
	}
	unsignedTok := func(s string) *cppcheckdata.Token {
		return &cppcheckdata.Token{Str: s, ValueType: &cppcheckdata.ValueType{Type: "int", Sign: "unsigned"}}
	}
	testcases := []struct {
		name string
		expr *cppcheckdata.Token
		want string
	}{
		{"nil", nil, ""},
		{"comparison", binary("==", signedTok("a"), signedTok("b")), "bool"},
		{"logical", binary("&&", signedTok("a"), signedTok("b")), "bool"},
		{"negation", &cppcheckdata.Token{Str: "!", AstOperand1: signedTok("a")}, "bool"},
		{"shift inherits left", binary("<<", unsignedTok("a"), signedTok("8")), "unsigned"},
		{"arith same category", binary("+", signedTok("a"), signedTok("b")), "signed"},
		{"bool variable", declared("flag", "bool"), "bool"},
		{"float variable", declared("f", "float"), "float"},
		{"unsigned variable", declared("u", "unsigned", "int"), "unsigned"},
	}
	for _, tc := range testcases {
		if got := Category(tc.expr); got != tc.want {
			t.Errorf("%s: Category = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestCategoryBitwiseMismatchFallsBackToSign(t *testing.T) {
	lhs := &cppcheckdata.Token{Str: "a", ValueType: &cppcheckdata.ValueType{Type: "int", Sign: "signed"}}
	rhs := &cppcheckdata.Token{Str: "b", ValueType: &cppcheckdata.ValueType{Type: "int", Sign: "unsigned"}}
	and := binary("&", lhs, rhs)
	and.ValueType = &cppcheckdata.ValueType{Type: "int", Sign: "unsigned"}
	if got := Category(and); got != "unsigned" {
		t.Errorf("Category(signed & unsigned) = %q, want expression sign", got)
	}
}

func TestCategoryEnum(t *testing.T) {
	scope := &cppcheckdata.Scope{Type: "Enum", ClassName: "Color"}
	expr := &cppcheckdata.Token{
		Str:       "RED",
		ValueType: &cppcheckdata.ValueType{Type: "int", Sign: "signed", TypeScope: scope},
	}
	if got := Category(expr); got != "enum<Color>" {
		t.Errorf("Category(enumerator) = %q, want enum<Color>", got)
	}
}

func TestCategoryPair(t *testing.T) {
	a := declared("a", "int")
	b := declared("b", "unsigned", "int")
	e1, e2 := CategoryPair(a, b)
	if e1 != "signed" || e2 != "unsigned" {
		t.Errorf("CategoryPair = %q, %q", e1, e2)
	}
	incr := &cppcheckdata.Token{Str: "++"}
	if e1, e2 := CategoryPair(a, incr); e1 != "" || e2 != "" {
		t.Errorf("CategoryPair with ++ = %q, %q, want abstain", e1, e2)
	}
	ptr := &cppcheckdata.Token{Str: "p", ValueType: &cppcheckdata.ValueType{Type: "int", Pointer: 1}}
	if e1, e2 := CategoryPair(a, ptr); e1 != "" || e2 != "" {
		t.Errorf("CategoryPair with pointer = %q, %q, want abstain", e1, e2)
	}
}

func TestTypeOf(t *testing.T) {
	testcases := []struct {
		name string
		expr *cppcheckdata.Token
		want string
	}{
		{"nil", nil, ""},
		{"char variable", declared("c", "char"), "char"},
		{"long variable", declared("l", "long"), "long"},
		{"unsigned stops at int", declared("u", "unsigned", "int"), "int"},
		{"no rank keyword", declared("s", "size_t"), ""},
		{"binary takes higher rank", binary("+", declared("c", "char"), declared("l", "long")), "long"},
		{"binary other order", binary("+", declared("l", "long"), declared("c", "char")), "long"},
		{"complement passes through", &cppcheckdata.Token{Str: "~", AstOperand1: declared("c", "char")}, "char"},
		{"plain number abstains", &cppcheckdata.Token{Str: "1", IsNumber: true}, ""},
	}
	for _, tc := range testcases {
		if got := TypeOf(tc.expr); got != tc.want {
			t.Errorf("%s: TypeOf = %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestTypeOfPointerOperandAbstains(t *testing.T) {
	ptr := declared("p", "int")
	ptr.ValueType = &cppcheckdata.ValueType{Type: "int", Pointer: 1}
	sum := binary("+", ptr, declared("i", "int"))
	if got := TypeOf(sum); got != "" {
		t.Errorf("TypeOf(pointer + int) = %q, want abstain", got)
	}
}

// The declared-type walk stops at the first rank keyword, so a declaration
// spelled "long long" yields "long".
func TestTypeOfNeverLongLongFromDeclaration(t *testing.T) {
	if got := TypeOf(declared("ll", "long", "long")); got != "long" {
		t.Errorf("TypeOf(long long var) = %q, want first keyword", got)
	}
}

func TestBitsOf(t *testing.T) {
	tb := FromPlatform(cppcheckdata.Platform{
		CharBit: 8, ShortBit: 16, IntBit: 32, LongBit: 64, LongLongBit: 64,
	})
	if got := tb.BitsOf(declared("c", "char")); got != 8 {
		t.Errorf("BitsOf(char) = %d, want 8", got)
	}
	if got := tb.BitsOf(declared("i", "int")); got != 32 {
		t.Errorf("BitsOf(int) = %d, want 32", got)
	}
	if got := tb.BitsOf(declared("s", "size_t")); got != 0 {
		t.Errorf("BitsOf(unknown) = %d, want 0", got)
	}
	if got := tb.BitsOf(nil); got != 0 {
		t.Errorf("BitsOf(nil) = %d, want 0", got)
	}
}
