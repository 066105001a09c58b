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

// Package ruletext loads the "Appendix A Summary of guidelines" rule text
// catalog. The catalog is optional: without it the checker still reports
// every violation with a generic message.
package ruletext

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"golang.org/x/exp/slices"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/transform"
)

// severityLevels are the MISRA guideline categories; anything else parsed
// from the catalog degrades to the empty severity.
var severityLevels = []string{"Required", "Mandatory", "Advisory"}

// Rule is one catalog entry.
type Rule struct {
	Num1          int
	Num2          int
	Text          string
	MisraSeverity string
}

// Num is the rule number in hundreds format (5.2 -> 502).
func (r *Rule) Num() int {
	return r.Num1*100 + r.Num2
}

// CppcheckSeverity is the severity forwarded in the cppcheck-style result
// tuple; the catalog severity is MISRA's, not cppcheck's.
func (r *Rule) CppcheckSeverity() string {
	return "style"
}

func (r *Rule) setSeverity(s string) {
	if slices.Contains(severityLevels, s) {
		r.MisraSeverity = s
	} else {
		r.MisraSeverity = ""
	}
}

// Catalog maps rule numbers in hundreds format to their texts. An empty
// catalog means no file was loaded.
type Catalog struct {
	Rules map[int]*Rule
}

func NewCatalog() *Catalog {
	return &Catalog{Rules: map[int]*Rule{}}
}

func (c *Catalog) Empty() bool {
	return len(c.Rules) == 0
}

// Lookup returns the catalog entry for a rule, or nil.
func (c *Catalog) Lookup(num1, num2 int) *Rule {
	return c.Rules[num1*100+num2]
}

// decodeCatalog converts the raw catalog bytes to UTF-8. MISRA guideline
// documents circulate in windows-125x encodings; an undecodable or unknown
// charset falls back to treating the input as UTF-8.
func decodeCatalog(b []byte, charset string) string {
	if charset == "" {
		return string(b)
	}
	e, err := ianaindex.MIME.Encoding(charset)
	if err != nil || e == nil {
		glog.Warningf("unknown charset %q, reading rule texts as UTF-8", charset)
		return string(b)
	}
	decoded, err := io.ReadAll(transform.NewReader(bytes.NewReader(b), e.NewDecoder()))
	if err != nil {
		glog.Warningf("decoding rule texts as %q failed, falling back to UTF-8: %v", charset, err)
		return string(b)
	}
	return string(decoded)
}

var (
	rulePattern     = regexp.MustCompile(`^Rule ([0-9]+)\.([0-9]+)`)
	severityPattern = regexp.MustCompile(`.*[ ]*(Advisory|Required|Mandatory)$`)
	upperPattern    = regexp.MustCompile(`^[#A-Z].*`)
	lowerPattern    = regexp.MustCompile(`^[a-z].*`)
)

// Load reads an Appendix A rule text file into the catalog. charset names
// the file encoding ("windows-1252" etc.); empty means UTF-8.
func (c *Catalog) Load(filename, charset string) error {
	raw, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read rule texts: %v", err)
	}
	c.parse(decodeCatalog(raw, charset))
	return nil
}

// parse runs the Appendix A line state machine: a "Rule <n>.<n>" heading
// opens an entry, the severity word must appear on the heading line or the
// next non-blank line, an upper-case line starts the text and lower-case
// lines continue it.
func (c *Catalog) parse(content string) {
	appendixA := false
	expectMore := false
	var rule *Rule
	haveSeverity := false
	severityLoc := 0

	scanner := bufio.NewScanner(strings.NewReader(content))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n")

		if !appendixA {
			if strings.Contains(line, "Appendix A") && strings.Index(line, "Summary of guidelines") >= 10 {
				appendixA = true
			}
			continue
		}
		if strings.Contains(line, "Appendix B") {
			break
		}
		if len(line) == 0 {
			continue
		}

		if m := rulePattern.FindStringSubmatch(line); m != nil {
			haveSeverity = false
			expectMore = false
			severityLoc = 0
			num1, _ := strconv.Atoi(m[1])
			num2, _ := strconv.Atoi(m[2])
			rule = &Rule{Num1: num1, Num2: num2}
		}

		if !haveSeverity && rule != nil {
			if m := severityPattern.FindStringSubmatch(line); m != nil {
				rule.setSeverity(m[1])
				haveSeverity = true
			} else {
				severityLoc++
			}
			// The severity may only follow on the heading line or the
			// next non-blank line.
			if severityLoc < 2 {
				continue
			}
			rule.MisraSeverity = ""
			haveSeverity = true
		}

		if rule == nil {
			continue
		}

		if expectMore {
			if lowerPattern.MatchString(line) {
				c.Rules[rule.Num()].Text += " " + line
				continue
			}
			expectMore = false
			continue
		}

		if upperPattern.MatchString(line) {
			rule.Text = line
			c.Rules[rule.Num()] = rule
			expectMore = true
		}
	}
}

// VerifyCoverage returns the "<n>.<n>" names of supported rules the loaded
// catalog has no text for.
func (c *Catalog) VerifyCoverage(supported []string) []string {
	var missing []string
	for _, name := range supported {
		var num1, num2 int
		if _, err := fmt.Sscanf(name, "%d.%d", &num1, &num2); err != nil {
			continue
		}
		if c.Lookup(num1, num2) == nil {
			missing = append(missing, name)
		}
	}
	slices.Sort(missing)
	return missing
}
