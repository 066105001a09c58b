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

package suppression

import (
	"strings"
	"testing"
)

func TestRuleNum(t *testing.T) {
	if got := RuleNum(5, 2); got != 502 {
		t.Errorf("RuleNum(5, 2) = %d, want 502", got)
	}
	if got := RuleNum(21, 10); got != 2110 {
		t.Errorf("RuleNum(21, 10) = %d, want 2110", got)
	}
}

func TestAddLineIdempotent(t *testing.T) {
	r := NewRegistry()
	r.AddLine(502, "a.c", 10, "")
	r.AddLine(502, "a.c", 10, "")
	r.AddLine(502, "a.c", 10, "")
	fe := r.rules[502].files["a.c"]
	if len(fe.lines) != 1 {
		t.Errorf("duplicate AddLine produced %d entries, want 1", len(fe.lines))
	}
	r.AddLine(502, "a.c", 10, "x")
	if len(fe.lines) != 2 {
		t.Errorf("distinct symbol entry not added, got %d entries", len(fe.lines))
	}
}

func TestGlobalSuppression(t *testing.T) {
	r := NewRegistry()
	r.AddGlobal(811)
	if !r.IsSuppressed(811, "/any/path/x.c", 123) {
		t.Errorf("globally suppressed rule not suppressed at arbitrary location")
	}
	if !r.IsGloballySuppressed(811) {
		t.Errorf("IsGloballySuppressed(811) = false")
	}
	if r.IsGloballySuppressed(812) {
		t.Errorf("IsGloballySuppressed(812) = true")
	}
}

func TestWholeFileSuppression(t *testing.T) {
	r := NewRegistry()
	r.AddFile(502, "a.c")
	if !r.IsSuppressed(502, "/src/a.c", 1) {
		t.Errorf("whole-file suppression did not match basename")
	}
	if r.IsSuppressed(502, "/src/b.c", 1) {
		t.Errorf("whole-file suppression matched the wrong file")
	}
	if r.IsGloballySuppressed(502) {
		t.Errorf("whole-file suppression reported as global")
	}
}

func TestLineSuppression(t *testing.T) {
	r := NewRegistry()
	r.AddLine(502, "a.c", 10, "")
	if !r.IsSuppressed(502, "/src/a.c", 10) {
		t.Errorf("line suppression missed its line")
	}
	if r.IsSuppressed(502, "/src/a.c", 11) {
		t.Errorf("line suppression matched a different line")
	}
	if r.IsSuppressed(503, "/src/a.c", 10) {
		t.Errorf("line suppression matched a different rule")
	}
}

func TestFilePrefixNormalization(t *testing.T) {
	r := NewRegistry()
	r.FilePrefix = "/workspace/project"
	r.AddFile(502, "src/a.c")
	if !r.IsSuppressed(502, "/workspace/project/src/a.c", 1) {
		t.Errorf("prefix-stripped path did not match")
	}
	if r.IsSuppressed(502, "/elsewhere/src/a.c", 1) {
		t.Errorf("path outside the prefix matched the relative entry")
	}
}

func TestGlobPatternMatching(t *testing.T) {
	r := NewRegistry()
	r.FilePrefix = "/w"
	r.AddFile(502, "src/**/*.c")
	if !r.IsSuppressed(502, "/w/src/deep/nested/a.c", 1) {
		t.Errorf("doublestar pattern did not match nested path")
	}
	if r.IsSuppressed(502, "/w/other/a.c", 1) {
		t.Errorf("doublestar pattern matched outside src")
	}
}

func TestAddDumpSuppression(t *testing.T) {
	r := NewRegistry()
	r.AddDumpSuppression("misra_5_2", "a.c", 10, "")
	if !r.IsSuppressed(502, "a.c", 10) {
		t.Errorf("misra_5_2 dump suppression not installed")
	}
	r.AddDumpSuppression("MISRA.8.11", "b.c", 0, "")
	if !r.IsSuppressed(811, "b.c", 42) {
		t.Errorf("line-less dump suppression not whole-file")
	}
	r.AddDumpSuppression("nullPointer", "a.c", 10, "")
	if r.IsSuppressed(0, "a.c", 10) {
		t.Errorf("non-misra error id installed a suppression")
	}
}

func TestParseRuleList(t *testing.T) {
	r := NewRegistry()
	r.ParseRuleList("5.2, 8.11,bogus,21.3")
	for _, num := range []int{502, 811, 2103} {
		if !r.IsGloballySuppressed(num) {
			t.Errorf("rule %d not globally suppressed after ParseRuleList", num)
		}
	}
	if r.IsGloballySuppressed(503) {
		t.Errorf("rule 503 unexpectedly suppressed")
	}
}

func TestHitsAndSummary(t *testing.T) {
	r := NewRegistry()
	r.Hit(502)
	r.Hit(502)
	r.Hit(811)
	stats := r.Stats()
	if stats[502] != 2 || stats[811] != 1 {
		t.Errorf("Stats = %v", stats)
	}
	summary := r.Summary()
	if !strings.Contains(summary, "misra-c2012-5.2 suppressed 2 times") {
		t.Errorf("summary missing 5.2 line: %q", summary)
	}
	if !strings.Contains(summary, "misra-c2012-8.11 suppressed 1 times") {
		t.Errorf("summary missing 8.11 line: %q", summary)
	}
	if strings.Index(summary, "5.2") > strings.Index(summary, "8.11") {
		t.Errorf("summary not in rule order: %q", summary)
	}
}

func TestSymbolOnlyDumpSuppression(t *testing.T) {
	r := NewRegistry()
	r.AddDumpSuppression("misra_19_2", "test.c", 0, "some_symbol")
	if r.IsSuppressed(1902, "test.c", 42) {
		t.Errorf("suppression with only a symbol matched an unrelated line")
	}
	if r.IsGloballySuppressed(1902) {
		t.Errorf("suppression with only a symbol became global")
	}
}
