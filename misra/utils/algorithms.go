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

// Package utils holds small shared algorithms.
package utils

func IntMin(a, b int) int {
	if a < b {
		return a
	}
	return b
}

type tarjanState struct {
	dfn, low map[string]int
	dfnCnt   int
	onStack  map[string]bool
	stack    []string
	result   [][]string
	graph    map[string]map[string]struct{}
}

// TarjanSCC computes the strongly connected components of a directed
// graph keyed by node name. Components of a single node without a self
// edge are *NOT* reported: the caller gets only the genuine cycles.
func TarjanSCC(graph map[string]map[string]struct{}) [][]string {
	s := &tarjanState{
		dfn:     make(map[string]int),
		low:     make(map[string]int),
		onStack: make(map[string]bool),
		graph:   graph,
	}
	for node := range graph {
		if _, ok := s.dfn[node]; !ok {
			s.visit(node)
		}
	}
	return s.result
}

func (s *tarjanState) visit(u string) {
	s.dfn[u] = s.dfnCnt
	s.low[u] = s.dfnCnt
	s.dfnCnt++
	s.stack = append(s.stack, u)
	s.onStack[u] = true
	for v := range s.graph[u] {
		if _, ok := s.dfn[v]; !ok {
			s.visit(v)
			s.low[u] = IntMin(s.low[u], s.low[v])
		} else if s.onStack[v] {
			s.low[u] = IntMin(s.low[u], s.dfn[v])
		}
	}
	if s.dfn[u] == s.low[u] {
		var chain []string
		for {
			n := len(s.stack) - 1
			v := s.stack[n]
			s.stack = s.stack[:n]
			s.onStack[v] = false
			chain = append(chain, v)
			if v == u {
				break
			}
		}
		if len(chain) > 1 {
			s.result = append(s.result, chain)
		}
	}
}
