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
	"reflect"
	"strings"
	"testing"

	"naive.systems/misracheck/cppcheckdata"
	"naive.systems/misracheck/misra/options"
)

func link(tokens []*cppcheckdata.Token) []*cppcheckdata.Token {
	for i := 1; i < len(tokens); i++ {
		tokens[i].Previous = tokens[i-1]
		tokens[i-1].Next = tokens[i]
	}
	return tokens
}

func rawStream(line int, code string) []*cppcheckdata.Token {
	words := strings.Split(code, " ")
	tokens := make([]*cppcheckdata.Token, len(words))
	for i, w := range words {
		tokens[i] = &cppcheckdata.Token{Str: w, File: "test.c", Linenr: line, Column: i}
	}
	return link(tokens)
}

// captureChecker records every report as "<line>:<major>.<minor>" without
// suppression or catalog resolution.
func captureChecker() *Checker {
	return New(&options.Settings{Verify: true, Quiet: true})
}

func TestSwitchClauseFallthrough(t *testing.T) {
	tests := []struct {
		name string
		code string
		want []string
	}{
		{
			"missing break between clauses",
			"switch ( x ) { case 1 : a = 1 ; case 2 : break ; }",
			[]string{"1:16.3"},
		},
		{
			"break terminates every clause",
			"switch ( x ) { case 1 : a = 1 ; break ; case 2 : break ; }",
			nil,
		},
		{
			"fallthrough comment allows the next clause",
			"switch ( x ) { case 1 : a = 1 ; /*fallthrough*/ case 2 : break ; }",
			nil,
		},
		{
			"last clause without break",
			"switch ( x ) { case 1 : a = 1 ; }",
			[]string{"1:16.3"},
		},
		{
			"return terminates a clause",
			"switch ( x ) { case 1 : return a ; case 2 : break ; }",
			nil,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := captureChecker()
			c.misra_16_3(rawStream(1, test.code))
			if !reflect.DeepEqual(c.Verify().Actual, test.want) {
				t.Errorf("got %v, want %v", c.Verify().Actual, test.want)
			}
		})
	}
}

func declaredVar(typ string) *cppcheckdata.Token {
	typeTok := &cppcheckdata.Token{Str: typ, IsName: true}
	return &cppcheckdata.Token{
		Str:       "x",
		IsName:    true,
		Variable:  &cppcheckdata.Variable{TypeStartToken: typeTok},
		ValueType: &cppcheckdata.ValueType{Type: typ, Sign: "signed"},
	}
}

func TestNarrowingAssignment(t *testing.T) {
	assign := func(lhs, rhs *cppcheckdata.Token) *cppcheckdata.Token {
		return &cppcheckdata.Token{
			Str: "=", Linenr: 4, IsAssignmentOp: true,
			AstOperand1: lhs, AstOperand2: rhs,
		}
	}
	sum := func(a, b *cppcheckdata.Token) *cppcheckdata.Token {
		return &cppcheckdata.Token{
			Str: "+", IsOp: true, IsArithmeticalOp: true,
			AstOperand1: a, AstOperand2: b,
			ValueType: &cppcheckdata.ValueType{Type: "long", Sign: "signed"},
		}
	}
	tests := []struct {
		name string
		tok  *cppcheckdata.Token
		want []string
	}{
		{
			"long sum into int narrows",
			assign(declaredVar("int"), sum(declaredVar("long"), declaredVar("long"))),
			[]string{"4:10.3"},
		},
		{
			"int into long widens",
			assign(declaredVar("long"), declaredVar("int")),
			nil,
		},
		{
			"same rank",
			assign(declaredVar("int"), declaredVar("int")),
			nil,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := captureChecker()
			c.misra_10_3(&cppcheckdata.Configuration{TokenList: []*cppcheckdata.Token{test.tok}})
			if !reflect.DeepEqual(c.Verify().Actual, test.want) {
				t.Errorf("got %v, want %v", c.Verify().Actual, test.want)
			}
		})
	}
}

func TestShiftPrecedenceWithoutParentheses(t *testing.T) {
	build := func(withParens bool) []*cppcheckdata.Token {
		a := &cppcheckdata.Token{Str: "a", Linenr: 1}
		shift := &cppcheckdata.Token{Str: "<<", Linenr: 1, IsOp: true}
		b := &cppcheckdata.Token{Str: "b", Linenr: 1}
		plus := &cppcheckdata.Token{Str: "+", Linenr: 1, IsOp: true}
		cc := &cppcheckdata.Token{Str: "c", Linenr: 1}
		shift.AstOperand1, shift.AstOperand2 = a, plus
		plus.AstOperand1, plus.AstOperand2 = b, cc
		if withParens {
			lp := &cppcheckdata.Token{Str: "(", Linenr: 1}
			rp := &cppcheckdata.Token{Str: ")", Linenr: 1}
			return link([]*cppcheckdata.Token{a, shift, lp, b, plus, cc, rp})
		}
		return link([]*cppcheckdata.Token{a, shift, b, plus, cc})
	}

	c := captureChecker()
	c.misra_12_1(&cppcheckdata.Configuration{TokenList: build(false)})
	if want := []string{"1:12.1"}; !reflect.DeepEqual(c.Verify().Actual, want) {
		t.Errorf("a << b + c: got %v, want %v", c.Verify().Actual, want)
	}

	c = captureChecker()
	c.misra_12_1(&cppcheckdata.Configuration{TokenList: build(true)})
	if c.Verify().Actual != nil {
		t.Errorf("a << ( b + c ): got %v, want none", c.Verify().Actual)
	}
}

func unionDump() *cppcheckdata.DumpFile {
	return &cppcheckdata.DumpFile{
		Configurations: []*cppcheckdata.Configuration{{
			TokenList: []*cppcheckdata.Token{
				{Str: "union", File: "test.c", Linenr: 3, IsName: true},
			},
		}},
	}
}

func TestGlobalSuppressionSkipsRule(t *testing.T) {
	c := New(&options.Settings{Quiet: true, SuppressRules: "19.2"})
	if err := c.Check(unionDump(), "test.c.dump"); err != nil {
		t.Fatal(err)
	}
	if got := c.Results().Results.Results; len(got) != 0 {
		t.Errorf("suppressed rule reported %d results", len(got))
	}
	// The rule is not executed at all, so the hit counter stays empty.
	if stats := c.Suppressions.Stats(); len(stats) != 0 {
		t.Errorf("globally suppressed rule counted hits: %v", stats)
	}

	c = New(&options.Settings{Quiet: true})
	if err := c.Check(unionDump(), "test.c.dump"); err != nil {
		t.Fatal(err)
	}
	got := c.Results().Results.Results
	if len(got) != 1 {
		t.Fatalf("got %d results, want 1", len(got))
	}
	if got[0].ErrorId != "c2012-19.2" {
		t.Errorf("error id = %q", got[0].ErrorId)
	}
	if got[0].ErrorMessage != "misra violation (use --rule-texts=<file> to get proper output)" {
		t.Errorf("message = %q", got[0].ErrorMessage)
	}
}

func TestVerifyModeMismatches(t *testing.T) {
	dump := unionDump()
	dump.RawTokens = []*cppcheckdata.Token{
		{Str: "// 19.2", File: "test.c", Linenr: 3},
	}
	c := New(&options.Settings{Verify: true, Quiet: true})
	if err := c.Check(dump, "test.c.dump"); err != nil {
		t.Fatal(err)
	}
	missing, unexpected := c.Verify().Mismatches()
	if len(missing) != 0 || len(unexpected) != 0 {
		t.Errorf("missing %v, unexpected %v", missing, unexpected)
	}

	dump.RawTokens[0].Linenr = 5
	c = New(&options.Settings{Verify: true, Quiet: true})
	if err := c.Check(dump, "test.c.dump"); err != nil {
		t.Fatal(err)
	}
	missing, unexpected = c.Verify().Mismatches()
	if !reflect.DeepEqual(missing, []string{"5:19.2"}) {
		t.Errorf("missing = %v", missing)
	}
	if !reflect.DeepEqual(unexpected, []string{"3:19.2"}) {
		t.Errorf("unexpected = %v", unexpected)
	}
}

func TestVerifySkipsTodoComments(t *testing.T) {
	raw := []*cppcheckdata.Token{
		{Str: "// TODO 19.2", Linenr: 3},
		{Str: "// 19.2 17.7", Linenr: 4},
	}
	got := harvestExpectations(raw)
	want := []string{"4:19.2", "4:17.7"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestCheckIsDeterministic(t *testing.T) {
	run := func() []*Result {
		c := New(&options.Settings{Quiet: true})
		dump := unionDump()
		dump.Configurations[0].TokenList = append(dump.Configurations[0].TokenList,
			&cppcheckdata.Token{Str: "goto", File: "test.c", Linenr: 7})
		if err := c.Check(dump, "test.c.dump"); err != nil {
			t.Fatal(err)
		}
		return c.Results().Results.Results
	}
	first := run()
	second := run()
	if !reflect.DeepEqual(first, second) {
		t.Errorf("two runs differ: %v vs %v", first, second)
	}
}

func preprocConfig(dirs ...*cppcheckdata.Directive) *cppcheckdata.Configuration {
	return &cppcheckdata.Configuration{Directives: dirs}
}

func directive(file string, line int, str string) *cppcheckdata.Directive {
	return &cppcheckdata.Directive{File: file, Linenr: line, Str: str}
}

func TestMacroParameterParentheses(t *testing.T) {
	tests := []struct {
		name string
		def  string
		want []string
	}{
		{
			"parenthesized parameter",
			"#define M(x) ((x) + 1)",
			nil,
		},
		{
			"bare parameter in arithmetic",
			"#define M(x) x + 1",
			[]string{"1:20.7"},
		},
		{
			"stringized parameter",
			"#define M(x) f(#x)",
			[]string{"1:20.7"},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := captureChecker()
			c.misra_20_7(preprocConfig(directive("test.c", 1, test.def)))
			if !reflect.DeepEqual(c.Verify().Actual, test.want) {
				t.Errorf("got %v, want %v", c.Verify().Actual, test.want)
			}
		})
	}
}

func TestUnknownPreprocessorDirective(t *testing.T) {
	tests := []struct {
		name string
		dir  string
		want []string
	}{
		{"pragma is a directive", "#pragma once", nil},
		{"line is not in the directive list", "#line 100", []string{"1:20.13"}},
		{"misspelled directive", "#elfi A", []string{"1:20.13"}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := captureChecker()
			c.misra_20_13(preprocConfig(directive("test.c", 1, test.dir)))
			if !reflect.DeepEqual(c.Verify().Actual, test.want) {
				t.Errorf("got %v, want %v", c.Verify().Actual, test.want)
			}
		})
	}
}

func TestConditionalDirectiveFileMatching(t *testing.T) {
	tests := []struct {
		name string
		dirs []*cppcheckdata.Directive
		want []string
	}{
		{
			"balanced in one file",
			[]*cppcheckdata.Directive{
				directive("a.c", 1, "#if A"),
				directive("a.c", 2, "#else"),
				directive("a.c", 3, "#endif"),
			},
			nil,
		},
		{
			"endif without a matching if",
			[]*cppcheckdata.Directive{
				directive("a.c", 1, "#endif"),
				directive("a.c", 2, "#if A"),
				directive("a.c", 3, "#endif"),
			},
			[]string{"1:20.14"},
		},
		{
			"else and endif in another file",
			[]*cppcheckdata.Directive{
				directive("a.c", 1, "#if A"),
				directive("b.c", 2, "#else"),
				directive("b.c", 3, "#endif"),
			},
			[]string{"2:20.14", "3:20.14"},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := captureChecker()
			c.misra_20_14(preprocConfig(test.dirs...))
			if !reflect.DeepEqual(c.Verify().Actual, test.want) {
				t.Errorf("got %v, want %v", c.Verify().Actual, test.want)
			}
		})
	}
}

func TestOperandCategoryMismatch(t *testing.T) {
	signed := declaredVar("int")
	unsigned := &cppcheckdata.Token{
		Str:       "u",
		IsName:    true,
		ValueType: &cppcheckdata.ValueType{Type: "int", Sign: "unsigned"},
	}
	plus := &cppcheckdata.Token{
		Str:         "+",
		AstOperand1: signed,
		AstOperand2: unsigned,
		ValueType:   &cppcheckdata.ValueType{Type: "int", Sign: "signed"},
	}
	c := captureChecker()
	c.misra_10_4(&cppcheckdata.Configuration{TokenList: []*cppcheckdata.Token{plus}})
	if !reflect.DeepEqual(c.Verify().Actual, []string{"0:10.4"}) {
		t.Errorf("got %v, want one 10.4 report", c.Verify().Actual)
	}

	// A comparison on the left selects the chained branch for both sides,
	// and the right leaf has no inner operand to compare.
	cmp := &cppcheckdata.Token{
		Str:            "<",
		IsComparisonOp: true,
		AstOperand1:    declaredVar("int"),
		AstOperand2:    declaredVar("int"),
		ValueType:      &cppcheckdata.ValueType{Type: "bool"},
	}
	chained := &cppcheckdata.Token{
		Str:         "+",
		AstOperand1: cmp,
		AstOperand2: unsigned,
		ValueType:   &cppcheckdata.ValueType{Type: "int", Sign: "signed"},
	}
	c = captureChecker()
	c.misra_10_4(&cppcheckdata.Configuration{TokenList: []*cppcheckdata.Token{chained}})
	if len(c.Verify().Actual) != 0 {
		t.Errorf("got %v, want no report", c.Verify().Actual)
	}
}
