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

package utils

import (
	"testing"

	"golang.org/x/exp/slices"
)

func edges(to ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(to))
	for _, t := range to {
		m[t] = struct{}{}
	}
	return m
}

func TestTarjanSCCFindsCycle(t *testing.T) {
	graph := map[string]map[string]struct{}{
		"a": edges("b"),
		"b": edges("c"),
		"c": edges("a"),
		"d": edges("a"),
	}
	sccs := TarjanSCC(graph)
	if len(sccs) != 1 {
		t.Fatalf("got %d components, want 1: %v", len(sccs), sccs)
	}
	got := sccs[0]
	slices.Sort(got)
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("component = %v, want [a b c]", got)
	}
}

func TestTarjanSCCSkipsSingletons(t *testing.T) {
	graph := map[string]map[string]struct{}{
		"a": edges("b"),
		"b": edges("c"),
		"c": edges(),
	}
	if sccs := TarjanSCC(graph); len(sccs) != 0 {
		t.Errorf("acyclic graph reported components: %v", sccs)
	}
	// Direct recursion is a singleton component and not reported either;
	// callers check self edges themselves.
	self := map[string]map[string]struct{}{"a": edges("a")}
	if sccs := TarjanSCC(self); len(sccs) != 0 {
		t.Errorf("self edge reported as component: %v", sccs)
	}
}

func TestTarjanSCCMultipleComponents(t *testing.T) {
	graph := map[string]map[string]struct{}{
		"a": edges("b"),
		"b": edges("a"),
		"c": edges("d"),
		"d": edges("c"),
		"e": edges("a", "c"),
	}
	sccs := TarjanSCC(graph)
	if len(sccs) != 2 {
		t.Fatalf("got %d components, want 2: %v", len(sccs), sccs)
	}
	for _, scc := range sccs {
		if len(scc) != 2 {
			t.Errorf("component size = %d, want 2: %v", len(scc), scc)
		}
	}
}

func TestIntMin(t *testing.T) {
	if IntMin(3, 5) != 3 || IntMin(5, 3) != 3 {
		t.Error("IntMin wrong")
	}
}
