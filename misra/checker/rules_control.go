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
	"naive.systems/misracheck/misra/utils"
)

// Rule 14.1: a loop counter shall not have essentially floating type.
func (c *Checker) misra_14_1(cfg *cppcheckdata.Configuration) {
	for _, token := range cfg.TokenList {
		if token.Str == "for" {
			exprs := matcher.GetForLoopExpressions(token)
			if exprs == nil {
				continue
			}
			for _, counter := range matcher.FindCounterTokens(exprs[1]) {
				if counter.ValueType != nil && counter.ValueType.IsFloat() {
					c.reportError(token, 14, 1)
				}
			}
		} else if token.Str == "while" {
			if matcher.IsFloatCounterInWhileLoop(token) {
				c.reportError(token, 14, 1)
			}
		}
	}
}

// Rule 14.2: a for loop shall be well-formed.
func (c *Checker) misra_14_2(cfg *cppcheckdata.Configuration) {
	for _, token := range cfg.TokenList {
		expressions := matcher.GetForLoopExpressions(token)
		if expressions == nil {
			continue
		}
		if expressions[0] != nil && !expressions[0].IsAssignmentOp {
			c.reportError(token, 14, 2)
		} else if matcher.HasSideEffectsRecursive(expressions[1]) {
			c.reportError(token, 14, 2)
		}
	}
}

// Rule 14.4: the controlling expression of an if statement or an
// iteration-statement shall have essentially Boolean type.
func (c *Checker) misra_14_4(cfg *cppcheckdata.Configuration) {
	for _, token := range cfg.TokenList {
		if token.Str != "(" {
			continue
		}
		if token.AstOperand1 == nil {
			continue
		}
		if token.AstOperand1.Str != "if" && token.AstOperand1.Str != "while" {
			continue
		}
		if !matcher.IsBoolExpression(token.AstOperand2) {
			c.reportError(token, 14, 4)
		}
	}
}

// Rule 15.1: the goto statement should not be used.
func (c *Checker) misra_15_1(cfg *cppcheckdata.Configuration) {
	for _, token := range cfg.TokenList {
		if token.Str == "goto" {
			c.reportError(token, 15, 1)
		}
	}
}

// Rule 15.2: the goto statement shall jump to a label declared later in
// the same function.
func (c *Checker) misra_15_2(cfg *cppcheckdata.Configuration) {
	for _, token := range cfg.TokenList {
		if token.Str != "goto" {
			continue
		}
		if token.Next == nil || !token.Next.IsName {
			continue
		}
		if matcher.FindGotoLabel(token) == nil {
			c.reportError(token, 15, 2)
		}
	}
}

// Rule 15.3: any label referenced by a goto statement shall be declared
// in the same block, or in any block enclosing the goto statement.
func (c *Checker) misra_15_3(cfg *cppcheckdata.Configuration) {
	for _, token := range cfg.TokenList {
		if token.Str != "goto" {
			continue
		}
		if token.Next == nil || !token.Next.IsName {
			continue
		}
		tok := matcher.FindGotoLabel(token)
		if tok == nil {
			continue
		}
		scope := token.Scope
		for scope != nil && scope != tok.Scope {
			scope = scope.NestedIn
		}
		if scope == nil {
			c.reportError(token, 15, 3)
		}
	}
}

// Rule 15.5: a function should have a single point of exit at the end.
func (c *Checker) misra_15_5(cfg *cppcheckdata.Configuration) {
	for _, token := range cfg.TokenList {
		if token.Str == "return" && token.Scope != nil && token.Scope.Type != "Function" {
			c.reportError(token, 15, 5)
		}
	}
}

// Rule 15.7: all if ... else if constructs shall be terminated with an
// else statement.
func (c *Checker) misra_15_7(cfg *cppcheckdata.Configuration) {
	for _, scope := range cfg.Scopes {
		if scope.Type != "Else" {
			continue
		}
		if !matcher.SimpleMatch(scope.BodyStart, "{ if (") {
			continue
		}
		if scope.BodyStart.Column > 0 {
			continue
		}
		tok := scope.BodyStart.Next.Next.Link
		if !matcher.SimpleMatch(tok, ") {") {
			continue
		}
		tok = tok.Next.Link
		if !matcher.SimpleMatch(tok, "} else") {
			c.reportError(tok, 15, 7)
		}
	}
}

// Rule 16.2: a switch label shall only be used when the most
// closely-enclosing compound statement is the body of a switch statement.
func (c *Checker) misra_16_2(cfg *cppcheckdata.Configuration) {
	for _, token := range cfg.TokenList {
		if token.Str == "case" && token.Scope != nil && token.Scope.Type != "Switch" {
			c.reportError(token, 16, 2)
		}
	}
}

// Rule 16.4: every switch statement shall have a default label.
func (c *Checker) misra_16_4(cfg *cppcheckdata.Configuration) {
	for _, token := range cfg.TokenList {
		if token.Str != "switch" {
			continue
		}
		if !matcher.SimpleMatch(token, "switch (") {
			continue
		}
		if token.Next.Link == nil || !matcher.SimpleMatch(token.Next.Link, ") {") {
			continue
		}
		startTok := token.Next.Link.Next
		tok := startTok.Next
		for tok != nil && tok.Str != "}" {
			if tok.Str == "{" {
				tok = tok.Link
				if tok == nil {
					break
				}
			} else if tok.Str == "default" {
				break
			}
			tok = tok.Next
		}
		if tok != nil && tok.Str != "default" {
			c.reportError(token, 16, 4)
		}
	}
}

// Rule 16.5: a default label shall appear as either the first or the
// last switch label of a switch statement.
func (c *Checker) misra_16_5(cfg *cppcheckdata.Configuration) {
	for _, token := range cfg.TokenList {
		if token.Str != "default" {
			continue
		}
		if token.Previous != nil && token.Previous.Str == "{" {
			continue
		}
		tok2 := token
		for tok2 != nil {
			if tok2.Str == "}" || tok2.Str == "case" {
				break
			}
			if tok2.Str == "{" {
				tok2 = tok2.Link
				if tok2 == nil {
					break
				}
			}
			tok2 = tok2.Next
		}
		if tok2 != nil && tok2.Str == "case" {
			c.reportError(token, 16, 5)
		}
	}
}

// Rule 16.6: every switch statement shall have at least two
// switch-clauses.
func (c *Checker) misra_16_6(cfg *cppcheckdata.Configuration) {
	for _, token := range cfg.TokenList {
		if !(matcher.SimpleMatch(token, "switch (") && token.Next.Link != nil &&
			matcher.SimpleMatch(token.Next.Link, ") {")) {
			continue
		}
		tok := token.Next.Link.Next.Next
		count := 0
		for tok != nil {
			if tok.Str == "break" || tok.Str == "return" || tok.Str == "throw" {
				count++
			} else if tok.Str == "{" {
				tok = tok.Link
				if tok == nil {
					break
				}
				if matcher.IsNoReturnScope(tok) {
					count++
				}
			} else if tok.Str == "}" {
				break
			}
			tok = tok.Next
		}
		if count < 2 {
			c.reportError(token, 16, 6)
		}
	}
}

// Rule 16.7: a switch-expression shall not have essentially Boolean type.
func (c *Checker) misra_16_7(cfg *cppcheckdata.Configuration) {
	for _, token := range cfg.TokenList {
		if matcher.SimpleMatch(token, "switch (") && matcher.IsBoolExpression(token.Next.AstOperand2) {
			c.reportError(token, 16, 7)
		}
	}
}

// Rule 17.1: the features of <stdarg.h> shall not be used.
func (c *Checker) misra_17_1(cfg *cppcheckdata.Configuration) {
	for _, token := range cfg.TokenList {
		if matcher.IsFunctionCall(token) {
			switch token.AstOperand1.Str {
			case "va_list", "va_arg", "va_start", "va_end", "va_copy":
				c.reportError(token, 17, 1)
				continue
			}
		}
		if token.Str == "va_list" {
			c.reportError(token, 17, 1)
		}
	}
}

// Rule 17.2: functions shall not call themselves, either directly or
// indirectly. Mutual recursion is found with strongly connected
// components over the call graph; direct recursion by a self edge.
func (c *Checker) misra_17_2(cfg *cppcheckdata.Configuration) {
	// Call graph keyed by function id.
	graph := map[string]map[string]struct{}{}
	functionScopes := map[string][]*cppcheckdata.Scope{}
	for _, scope := range cfg.Scopes {
		if scope.Type != "Function" || scope.Function == nil {
			continue
		}
		id := scope.Function.Id
		functionScopes[id] = append(functionScopes[id], scope)
		if graph[id] == nil {
			graph[id] = map[string]struct{}{}
		}
		for tok := scope.BodyStart; tok != nil && tok != scope.BodyEnd; tok = tok.Next {
			if !matcher.IsFunctionCall(tok) {
				continue
			}
			f := tok.AstOperand1.Function
			if f != nil {
				graph[id][f.Id] = struct{}{}
			}
		}
	}

	component := map[string]int{}
	for i, scc := range utils.TarjanSCC(graph) {
		for _, id := range scc {
			component[id] = i + 1
		}
	}

	// A call is recursive when the callee can reach the caller again:
	// either a self edge or both ends inside one component.
	for id, scopes := range functionScopes {
		for callee := range graph[id] {
			onCycle := callee == id ||
				(component[id] != 0 && component[id] == component[callee])
			if !onCycle {
				continue
			}
			for _, scope := range scopes {
				for tok := scope.BodyStart; tok != nil && tok != scope.BodyEnd; tok = tok.Next {
					if tok.Function != nil && tok.Function.Id == callee {
						c.reportError(tok, 17, 2)
					}
				}
			}
		}
	}
}

// Rule 17.7: the value returned by a function having non-void return
// type shall be used.
func (c *Checker) misra_17_7(cfg *cppcheckdata.Configuration) {
	for _, token := range cfg.TokenList {
		if token.Scope == nil || !token.Scope.IsExecutable {
			continue
		}
		if token.Str != "(" || token.AstParent != nil {
			continue
		}
		if token.Previous == nil || !token.Previous.IsName || token.Previous.VarId != "" {
			continue
		}
		if token.ValueType == nil {
			continue
		}
		if token.ValueType.Type == "void" && token.ValueType.Pointer == 0 {
			continue
		}
		c.reportError(token, 17, 7)
	}
}

// Rule 17.8: a function parameter should not be modified.
func (c *Checker) misra_17_8(cfg *cppcheckdata.Configuration) {
	for _, token := range cfg.TokenList {
		if !token.IsAssignmentOp && token.Str != "++" && token.Str != "--" {
			continue
		}
		if token.AstOperand1 == nil {
			continue
		}
		v := token.AstOperand1.Variable
		if v != nil && v.IsArgument {
			c.reportError(token, 17, 8)
		}
	}
}
