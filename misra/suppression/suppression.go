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

// Package suppression keeps the per-run suppression registry. The registry
// is built single-threaded before rule execution and is read-only during
// it, except for the hit counters.
package suppression

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/golang/glog"
	"golang.org/x/exp/slices"
)

// RuleNum encodes a rule number in hundreds format: rule 5.2 is 502.
func RuleNum(num1, num2 int) int {
	return num1*100 + num2
}

// lineEntry is one (line, symbol) suppression. Symbol names are recorded
// but not matched yet.
// TODO: match symbol names once the dump carries reliable symbol ids.
type lineEntry struct {
	line   int
	symbol string
}

// fileEntry holds the suppressed positions of one file. wholeFile set means
// every line of the file.
type fileEntry struct {
	wholeFile bool
	lines     []lineEntry
}

// ruleEntry holds the suppression scope of one rule. global set means every
// file.
type ruleEntry struct {
	global bool
	files  map[string]*fileEntry
}

// Registry maps rule numbers in hundreds format to their suppression
// scopes and counts suppressed reports per rule.
type Registry struct {
	rules map[int]*ruleEntry
	hits  map[int]int

	// FilePrefix, when set, is stripped from report paths before file
	// matching; otherwise the basename is used.
	FilePrefix string
}

func NewRegistry() *Registry {
	return &Registry{
		rules: map[int]*ruleEntry{},
		hits:  map[int]int{},
	}
}

// AddGlobal suppresses a rule in every file.
func (r *Registry) AddGlobal(ruleNum int) {
	entry := r.rule(ruleNum)
	entry.global = true
}

// AddFile suppresses a rule for a whole file. The file name may be a
// doublestar glob pattern.
func (r *Registry) AddFile(ruleNum int, fileName string) {
	entry := r.file(ruleNum, fileName)
	entry.wholeFile = true
}

// AddLine suppresses a rule at one line of a file. The insert is
// idempotent: an existing identical (line, symbol) entry is left alone.
func (r *Registry) AddLine(ruleNum int, fileName string, line int, symbol string) {
	entry := r.file(ruleNum, fileName)
	for _, le := range entry.lines {
		if le.line == line && le.symbol == symbol {
			return
		}
	}
	entry.lines = append(entry.lines, lineEntry{line: line, symbol: symbol})
}

func (r *Registry) rule(ruleNum int) *ruleEntry {
	entry := r.rules[ruleNum]
	if entry == nil {
		entry = &ruleEntry{files: map[string]*fileEntry{}}
		r.rules[ruleNum] = entry
	}
	return entry
}

func (r *Registry) file(ruleNum int, fileName string) *fileEntry {
	rule := r.rule(ruleNum)
	entry := rule.files[fileName]
	if entry == nil {
		entry = &fileEntry{}
		rule.files[fileName] = entry
	}
	return entry
}

// normalizePath reduces a report path to the form file entries are keyed
// by: the configured prefix stripped when it applies, the basename
// otherwise.
func (r *Registry) normalizePath(path string) string {
	if r.FilePrefix != "" && strings.HasPrefix(path, r.FilePrefix) {
		p := strings.TrimPrefix(path, r.FilePrefix)
		return strings.TrimPrefix(p, "/")
	}
	return filepath.Base(path)
}

func matchFile(pattern, normalized string) bool {
	if pattern == normalized {
		return true
	}
	ok, err := doublestar.Match(pattern, normalized)
	if err != nil {
		glog.Warningf("bad suppression file pattern %q: %v", pattern, err)
		return false
	}
	return ok
}

// IsSuppressed reports whether a violation of the rule at the given
// location is suppressed. It does not count the hit; callers record hits
// through Hit when they drop a report.
func (r *Registry) IsSuppressed(ruleNum int, file string, line int) bool {
	entry := r.rules[ruleNum]
	if entry == nil {
		return false
	}
	if entry.global {
		return true
	}
	normalized := r.normalizePath(file)
	for pattern, fe := range entry.files {
		if !matchFile(pattern, normalized) {
			continue
		}
		if fe.wholeFile {
			return true
		}
		for _, le := range fe.lines {
			if le.line == line {
				return true
			}
		}
	}
	return false
}

// IsGloballySuppressed reports whether the rule is suppressed everywhere,
// letting the orchestrator skip executing it at all.
func (r *Registry) IsGloballySuppressed(ruleNum int) bool {
	entry := r.rules[ruleNum]
	return entry != nil && entry.global
}

// Hit counts one suppressed report of a rule.
func (r *Registry) Hit(ruleNum int) {
	r.hits[ruleNum]++
}

// Stats returns the suppressed-report counts keyed by rule number.
func (r *Registry) Stats() map[int]int {
	out := make(map[int]int, len(r.hits))
	for k, v := range r.hits {
		out[k] = v
	}
	return out
}

// Summary renders the end-of-run suppressed-rule report, one line per rule
// in rule-number order.
func (r *Registry) Summary() string {
	nums := make([]int, 0, len(r.hits))
	for num := range r.hits {
		nums = append(nums, num)
	}
	slices.Sort(nums)
	var sb strings.Builder
	for _, num := range nums {
		fmt.Fprintf(&sb, "misra-c2012-%d.%d suppressed %d times\n",
			num/100, num%100, r.hits[num])
	}
	return sb.String()
}

var suppressionIdRe = regexp.MustCompile(`^(misra|MISRA)[_.]([0-9]+)[_.]([0-9]+)$`)

// AddDumpSuppression records one inline suppression extracted upstream.
// Error ids not of the form misra-<n>.<n> are ignored. An entry with a
// symbol but no line is stored as a line entry at line 0: it matches no
// report until symbol matching exists.
func (r *Registry) AddDumpSuppression(errorId, fileName string, line int, symbol string) {
	m := suppressionIdRe.FindStringSubmatch(errorId)
	if m == nil {
		return
	}
	num1, _ := strconv.Atoi(m[2])
	num2, _ := strconv.Atoi(m[3])
	ruleNum := RuleNum(num1, num2)
	switch {
	case fileName == "":
		r.AddGlobal(ruleNum)
	case line == 0 && symbol == "":
		r.AddFile(ruleNum, fileName)
	default:
		r.AddLine(ruleNum, fileName, line, symbol)
	}
}

var ruleListRe = regexp.MustCompile(`([0-9]+)\.([0-9]+)`)

// ParseRuleList installs global suppressions from a comma-separated rule
// list such as "5.2,8.11". Entries without a <n>.<n> part are ignored with
// a warning.
func (r *Registry) ParseRuleList(list string) {
	for _, item := range strings.Split(list, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		m := ruleListRe.FindStringSubmatch(item)
		if m == nil {
			glog.Warningf("ignoring unparsable suppressed rule %q", item)
			continue
		}
		num1, _ := strconv.Atoi(m[1])
		num2, _ := strconv.Atoi(m[2])
		r.AddGlobal(RuleNum(num1, num2))
	}
}
