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

// Package checker evaluates the MISRA C:2012 rule catalog against cppcheck
// dump files.
package checker

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/golang/glog"

	"naive.systems/misracheck/cppcheckdata"
	"naive.systems/misracheck/misra/essentialtype"
	"naive.systems/misracheck/misra/options"
	"naive.systems/misracheck/misra/ruletext"
	"naive.systems/misracheck/misra/suppression"
)

// Checker runs the rule catalog over dump files. It is a single-threaded
// batch pipeline and not safe for concurrent use: the platform width table
// is installed per dump before the width-dependent rules run.
type Checker struct {
	Settings     *options.Settings
	Suppressions *suppression.Registry
	Catalog      *ruletext.Catalog

	reporter Reporter
	results  *ResultsReporter
	verify   *VerifyReporter

	typeBits essentialtype.TypeBits
}

func New(settings *options.Settings) *Checker {
	c := &Checker{
		Settings:     settings,
		Suppressions: suppression.NewRegistry(),
		Catalog:      ruletext.NewCatalog(),
	}
	c.Suppressions.FilePrefix = settings.FilePrefix
	if settings.SuppressRules != "" {
		c.Suppressions.ParseRuleList(settings.SuppressRules)
	}
	if settings.Verify {
		c.verify = &VerifyReporter{}
		c.reporter = c.verify
	} else {
		c.results = NewResultsReporter(c.Suppressions, c.Catalog)
		c.reporter = c.results
	}
	return c
}

// Results returns the normal-mode reporter, nil in verify mode.
func (c *Checker) Results() *ResultsReporter {
	return c.results
}

// Verify returns the verify-mode reporter, nil in normal mode.
func (c *Checker) Verify() *VerifyReporter {
	return c.verify
}

func (c *Checker) reportError(tok *cppcheckdata.Token, num1, num2 int) {
	// Partial dumps can leave a rule holding a nil token.
	if tok == nil {
		return
	}
	c.reporter.Report(locationOf(tok), num1, num2)
}

func (c *Checker) reportErrorAtDirective(d *cppcheckdata.Directive, num1, num2 int) {
	c.reporter.Report(Location{File: d.File, Linenr: d.Linenr}, num1, num2)
}

func (c *Checker) printStatus(format string, args ...interface{}) {
	if !c.Settings.Quiet {
		fmt.Printf(format+"\n", args...)
	}
}

// significantNamingChars is the number of identifier characters the
// language standard guarantees to be significant.
func significantNamingChars(cfg *cppcheckdata.Configuration) int {
	if cfg.Standards.C == "c99" {
		return 63
	}
	return 31
}

// truncate cuts an identifier to its significant characters.
func truncate(name string, n int) string {
	if len(name) > n {
		return name[:n]
	}
	return name
}

var verifyAnnotationRe = regexp.MustCompile(`^[0-9]+\.[0-9]+$`)

// harvestExpectations collects "// <major>.<minor>" annotations from raw
// comments. Comments containing TODO are skipped.
func harvestExpectations(rawTokens []*cppcheckdata.Token) []string {
	var expected []string
	for _, tok := range rawTokens {
		if !strings.HasPrefix(tok.Str, "//") || strings.Contains(tok.Str, "TODO") {
			continue
		}
		for _, word := range strings.Split(tok.Str[2:], " ") {
			if verifyAnnotationRe.MatchString(word) {
				expected = append(expected, fmt.Sprintf("%d:%s", tok.Linenr, word))
			}
		}
	}
	return expected
}

// CheckDump evaluates the whole rule table against one dump file. Raw
// token rules run only for the first configuration; a rule that is
// globally suppressed is not executed at all.
func (c *Checker) CheckDump(dumpfile string) error {
	dump, err := cppcheckdata.ParseDump(dumpfile)
	if err != nil {
		return fmt.Errorf("failed to check %s: %v", dumpfile, err)
	}
	return c.Check(dump, dumpfile)
}

// Check evaluates the rule table against an already parsed dump.
func (c *Checker) Check(dump *cppcheckdata.DumpFile, dumpfile string) error {
	for _, s := range dump.Suppressions {
		c.Suppressions.AddDumpSuppression(s.ErrorId, s.FileName, s.LineNumber, s.SymbolName)
	}

	c.typeBits = essentialtype.FromPlatform(dump.Platform)

	if c.Settings.Verify {
		c.verify.Expected = append(c.verify.Expected, harvestExpectations(dump.RawTokens)...)
	} else {
		c.printStatus("Checking %s...", dumpfile)
	}

	for cfgNumber, cfg := range dump.Configurations {
		if len(dump.Configurations) > 1 {
			c.printStatus("Checking %s, config %q...", dumpfile, cfg.Name)
		}
		for _, rule := range ruleTable {
			num := suppression.RuleNum(rule.num1, rule.num2)
			if c.Suppressions.IsGloballySuppressed(num) {
				continue
			}
			if rule.rawCheck != nil && cfgNumber == 0 {
				rule.rawCheck(c, dump.RawTokens)
			}
			if rule.cfgCheck != nil {
				rule.cfgCheck(c, cfg)
			}
		}
	}
	glog.Infof("checked %s: %d configurations", dumpfile, len(dump.Configurations))
	return nil
}
