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
	"github.com/bmatcuk/doublestar/v4"
	"github.com/golang/glog"
	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

// Result is one reported violation.
type Result struct {
	Id            string `json:"id,omitempty"`
	Path          string `json:"path"`
	LineNumber    int    `json:"line_number"`
	Column        int    `json:"column"`
	Severity      string `json:"severity"`
	ErrorMessage  string `json:"error_message"`
	Addon         string `json:"addon"`
	ErrorId       string `json:"error_id"`
	MisraSeverity string `json:"misra_severity,omitempty"`
}

// ResultsList is the serialized aggregate written to the output file.
type ResultsList struct {
	Results []*Result `json:"results"`
}

type resultBlood struct {
	path         string
	lineNumber   int
	errorMessage string
}

// ResultsSet wraps ResultsList with dedup on (path, line, message). It
// preserves adding order.
type ResultsSet struct {
	// You can manipulate ResultsList beyond the limits.
	ResultsList
	stored map[resultBlood]struct{}
}

func NewResultsSet() *ResultsSet {
	set := ResultsSet{}
	set.stored = make(map[resultBlood]struct{})
	return &set
}

func (rs *ResultsSet) Add(r *Result) {
	blood := resultBlood{
		path:         r.Path,
		lineNumber:   r.LineNumber,
		errorMessage: r.ErrorMessage,
	}
	if _, reported := rs.stored[blood]; !reported {
		rs.stored[blood] = struct{}{}
		rs.Results = append(rs.Results, r)
	}
}

// SortResults orders by path, then line, then message, for stable output.
func SortResults(list *ResultsList) {
	slices.SortFunc(list.Results, func(a, b *Result) bool {
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		if a.LineNumber != b.LineNumber {
			return a.LineNumber < b.LineNumber
		}
		return a.ErrorMessage < b.ErrorMessage
	})
}

// ProcessIgnoreDir drops results whose path matches any ignore pattern. A
// malformed pattern leaves the list unchanged for that pattern.
func ProcessIgnoreDir(allResults *ResultsList, ignoreDirPatterns []string) *ResultsList {
	for _, ignoreDirPattern := range ignoreDirPatterns {
		newResults := []*Result{}
		for _, result := range allResults.Results {
			matched, err := doublestar.Match(ignoreDirPattern, result.Path)
			if err != nil {
				glog.Error("malformed ignore_dir pattern ", ignoreDirPattern)
				newResults = allResults.Results
				break
			}
			if matched {
				glog.Infof("Result in path %s ignored due to pattern %s", result.Path, ignoreDirPattern)
			} else {
				newResults = append(newResults, result)
			}
		}
		allResults.Results = newResults
	}
	return allResults
}

// AddID assigns a random id to every result.
func AddID(allResults *ResultsList) {
	for i := 0; i < len(allResults.Results); i++ {
		id, err := uuid.NewRandom()
		if err != nil {
			glog.Warningf("uuid.NewRandom: %v", err)
			continue
		}
		allResults.Results[i].Id = id.String()
	}
}
