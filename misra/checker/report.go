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
	"fmt"

	"golang.org/x/exp/slices"

	"naive.systems/misracheck/cppcheckdata"
	"naive.systems/misracheck/misra/ruletext"
	"naive.systems/misracheck/misra/suppression"
)

// Location is where a violation was found.
type Location struct {
	File   string
	Linenr int
	Column int
}

func locationOf(tok *cppcheckdata.Token) Location {
	return Location{File: tok.File, Linenr: tok.Linenr, Column: tok.Column}
}

// Reporter is the sink rule implementations report violations into.
type Reporter interface {
	Report(location Location, num1, num2 int)
}

// ResultsReporter is the normal-mode sink: it applies the suppression
// policy, resolves message and severity through the rule text catalog and
// aggregates deduplicated results.
type ResultsReporter struct {
	Suppressions *suppression.Registry
	Catalog      *ruletext.Catalog
	Results      *ResultsSet

	// Violations buckets the reported "misra-c2012-<n>.<n>" names per
	// MISRA severity for the end-of-run summary.
	Violations map[string][]string
}

func NewResultsReporter(suppressions *suppression.Registry, catalog *ruletext.Catalog) *ResultsReporter {
	return &ResultsReporter{
		Suppressions: suppressions,
		Catalog:      catalog,
		Results:      NewResultsSet(),
		Violations:   map[string][]string{},
	}
}

func (r *ResultsReporter) Report(location Location, num1, num2 int) {
	ruleNum := suppression.RuleNum(num1, num2)
	if r.Suppressions.IsSuppressed(ruleNum, location.File, location.Linenr) {
		r.Suppressions.Hit(ruleNum)
		return
	}
	errorId := fmt.Sprintf("c2012-%d.%d", num1, num2)
	misraSeverity := "Undefined"
	cppcheckSeverity := "style"
	var errmsg string
	if rule := r.Catalog.Lookup(num1, num2); rule != nil {
		errmsg = rule.Text
		if rule.MisraSeverity != "" {
			misraSeverity = rule.MisraSeverity
		}
		cppcheckSeverity = rule.CppcheckSeverity()
	} else if r.Catalog.Empty() {
		errmsg = "misra violation (use --rule-texts=<file> to get proper output)"
	} else {
		// A partially loaded catalog silences the rules it omits.
		return
	}
	r.Results.Add(&Result{
		Path:          location.File,
		LineNumber:    location.Linenr,
		Column:        location.Column,
		Severity:      cppcheckSeverity,
		ErrorMessage:  errmsg,
		Addon:         "misra",
		ErrorId:       errorId,
		MisraSeverity: misraSeverity,
	})
	r.Violations[misraSeverity] = append(r.Violations[misraSeverity], "misra-"+errorId)
}

// VerifyReporter is the self-test sink: every report is recorded as
// "<line>:<major>.<minor>", bypassing suppression entirely.
type VerifyReporter struct {
	// Expected holds the annotations harvested from the dump's comments.
	Expected []string
	// Actual holds what the rules reported.
	Actual []string
}

func (r *VerifyReporter) Report(location Location, num1, num2 int) {
	r.Actual = append(r.Actual, fmt.Sprintf("%d:%d.%d", location.Linenr, num1, num2))
}

// Mismatches compares expectations against actuals. The first list is
// "expected but not seen", the second "not expected".
func (r *VerifyReporter) Mismatches() (missing, unexpected []string) {
	for _, e := range r.Expected {
		if !slices.Contains(r.Actual, e) {
			missing = append(missing, e)
		}
	}
	for _, a := range r.Actual {
		if !slices.Contains(r.Expected, a) {
			unexpected = append(unexpected, a)
		}
	}
	return missing, unexpected
}
