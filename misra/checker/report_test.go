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
	"strings"
	"testing"

	"naive.systems/misracheck/misra/ruletext"
	"naive.systems/misracheck/misra/suppression"
)

func TestReporterWithoutCatalog(t *testing.T) {
	r := NewResultsReporter(suppression.NewRegistry(), ruletext.NewCatalog())
	r.Report(Location{File: "a.c", Linenr: 10, Column: 3}, 19, 2)
	results := r.Results.Results
	if len(results) != 1 {
		t.Fatalf("got %d results", len(results))
	}
	got := results[0]
	if got.ErrorMessage != "misra violation (use --rule-texts=<file> to get proper output)" {
		t.Errorf("message = %q", got.ErrorMessage)
	}
	if got.ErrorId != "c2012-19.2" || got.Addon != "misra" {
		t.Errorf("error id = %q, addon = %q", got.ErrorId, got.Addon)
	}
	if got.Severity != "style" || got.MisraSeverity != "Undefined" {
		t.Errorf("severity = %q, misra severity = %q", got.Severity, got.MisraSeverity)
	}
	if v := r.Violations["Undefined"]; len(v) != 1 || v[0] != "misra-c2012-19.2" {
		t.Errorf("violations = %v", r.Violations)
	}
}

func TestReporterWithCatalogText(t *testing.T) {
	catalog := ruletext.NewCatalog()
	catalog.Rules[1902] = &ruletext.Rule{
		Num1: 19, Num2: 2, Text: "The union keyword should not be used",
		MisraSeverity: "Advisory",
	}
	r := NewResultsReporter(suppression.NewRegistry(), catalog)
	r.Report(Location{File: "a.c", Linenr: 10}, 19, 2)
	results := r.Results.Results
	if len(results) != 1 {
		t.Fatalf("got %d results", len(results))
	}
	if results[0].ErrorMessage != "The union keyword should not be used" {
		t.Errorf("message = %q", results[0].ErrorMessage)
	}
	if results[0].MisraSeverity != "Advisory" {
		t.Errorf("misra severity = %q", results[0].MisraSeverity)
	}
}

func TestReporterPartialCatalogDropsUnknownRule(t *testing.T) {
	catalog := ruletext.NewCatalog()
	catalog.Rules[1501] = &ruletext.Rule{Num1: 15, Num2: 1, Text: "no goto"}
	r := NewResultsReporter(suppression.NewRegistry(), catalog)
	r.Report(Location{File: "a.c", Linenr: 10}, 19, 2)
	if got := r.Results.Results; len(got) != 0 {
		t.Errorf("rule missing from a loaded catalog still reported: %v", got)
	}
}

func TestReporterSuppressionCountsHits(t *testing.T) {
	suppressions := suppression.NewRegistry()
	suppressions.AddGlobal(suppression.RuleNum(19, 2))
	r := NewResultsReporter(suppressions, ruletext.NewCatalog())
	r.Report(Location{File: "a.c", Linenr: 10}, 19, 2)
	r.Report(Location{File: "a.c", Linenr: 20}, 19, 2)
	if got := r.Results.Results; len(got) != 0 {
		t.Errorf("suppressed reports leaked: %v", got)
	}
	if hits := suppressions.Stats()[suppression.RuleNum(19, 2)]; hits != 2 {
		t.Errorf("hits = %d, want 2", hits)
	}
	if s := suppressions.Summary(); !strings.Contains(s, "misra-c2012-19.2 suppressed 2 times") {
		t.Errorf("summary = %q", s)
	}
}

func TestVerifyReporterBypassesSuppression(t *testing.T) {
	r := &VerifyReporter{Expected: []string{"10:19.2"}}
	r.Report(Location{File: "a.c", Linenr: 10}, 19, 2)
	missing, unexpected := r.Mismatches()
	if len(missing) != 0 || len(unexpected) != 0 {
		t.Errorf("missing %v, unexpected %v", missing, unexpected)
	}
}
