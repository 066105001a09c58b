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

package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"naive.systems/misracheck/atomic"
	"naive.systems/misracheck/misra/checker"
	"naive.systems/misracheck/misra/options"
	"naive.systems/misracheck/misra/utils"
)

const ruleTextsHelp = `path to a text file with the MISRA rule texts.

The file is the chapter "Appendix A Summary of guidelines" of the
MISRA C:2012 document, as plain text:

    <..arbitrary text..>
    Appendix A Summary of guidelines
    Rule 1.1
    Rule text for 1.1
    Rule 1.2
    Rule text for 1.2
    <...>
`

const suppressRulesHelp = `MISRA rules to suppress, comma-separated.

For example, to suppress rules 15.1, 11.3 and 20.13:

    --suppress-rules 15.1,11.3,20.13
`

var (
	configPath          = flag.String("config", "", "path to a YAML settings file; flags override it")
	ruleTexts           = flag.String("rule-texts", "", ruleTextsHelp)
	ruleTextsCharset    = flag.String("rule-texts-charset", "", "encoding of the rule texts file, empty for UTF-8")
	verifyRuleTexts     = flag.Bool("verify-rule-texts", false, "verify that all supported rule texts are present in the given file and exit")
	suppressRules       = flag.String("suppress-rules", "", suppressRulesHelp)
	noSummary           = flag.Bool("no-summary", false, "hide the summary of violations")
	showSuppressedRules = flag.Bool("show-suppressed-rules", false, "print the rule suppression counts")
	filePrefix          = flag.String("P", "", "prefix to strip when matching suppression file rules")
	verify              = flag.Bool("verify", false, "self-test mode: compare reports against // <rule> annotations")
	quiet               = flag.Bool("quiet", false, "do not print status lines")
	resultsPath         = flag.String("results-path", "", "where the JSON results are written, empty for none")
	ignoreDirs          = flag.String("ignore-dirs", "", "comma-separated doublestar patterns; results under matching directories are dropped")
	srcDir              = flag.String("srcdir", "", "source tree root, used for the line-of-code statistics")
)

// loadSettings merges the YAML file (when given) with the command line.
// Flags that were set explicitly win over the file.
func loadSettings() *options.Settings {
	settings := &options.Settings{ShowSummary: true}
	if *configPath != "" {
		if err := settings.LoadYAML(*configPath); err != nil {
			glog.Fatal(err)
		}
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "rule-texts":
			settings.RuleTexts = *ruleTexts
		case "rule-texts-charset":
			settings.RuleTextsCharset = *ruleTextsCharset
		case "suppress-rules":
			settings.SuppressRules = *suppressRules
		case "no-summary":
			settings.ShowSummary = !*noSummary
		case "show-suppressed-rules":
			settings.ShowSuppressedRules = *showSuppressedRules
		case "P":
			settings.FilePrefix = *filePrefix
		case "verify":
			settings.Verify = *verify
		case "quiet":
			settings.Quiet = *quiet
		case "results-path":
			settings.ResultsPath = *resultsPath
		case "ignore-dirs":
			settings.IgnoreDirPatterns = strings.Split(*ignoreDirs, ",")
		}
	})
	return settings
}

var violatedRuleRe = regexp.MustCompile(`misra-c2012-([0-9]+)\.([0-9]+)`)

func printSummary(c *checker.Checker) {
	violations := c.Results().Violations
	var severities []string
	for severity := range violations {
		severities = append(severities, severity)
	}
	sort.Strings(severities)

	var counts []string
	for _, severity := range severities {
		counts = append(counts, fmt.Sprintf("%s: %d", severity, len(violations[severity])))
	}
	fmt.Printf("\nMISRA rules violations found:\n\t%s\n\n", strings.Join(counts, "\n\t"))

	rulesViolated := map[string]int{}
	for _, ids := range violations {
		for _, id := range ids {
			rulesViolated[id]++
		}
	}
	var ids []string
	for id := range rulesViolated {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		mi := violatedRuleRe.FindStringSubmatch(ids[i])
		mj := violatedRuleRe.FindStringSubmatch(ids[j])
		if mi == nil || mj == nil {
			return ids[i] < ids[j]
		}
		ni, _ := strconv.Atoi(mi[1])
		nj, _ := strconv.Atoi(mj[1])
		if ni != nj {
			return ni < nj
		}
		ni, _ = strconv.Atoi(mi[2])
		nj, _ = strconv.Atoi(mj[2])
		return ni < nj
	})
	fmt.Println("MISRA rules violated:")
	for _, id := range ids {
		severity := "-"
		if m := violatedRuleRe.FindStringSubmatch(id); m != nil {
			num1, _ := strconv.Atoi(m[1])
			num2, _ := strconv.Atoi(m[2])
			if rule := c.Catalog.Lookup(num1, num2); rule != nil {
				severity = rule.CppcheckSeverity()
			}
		}
		fmt.Printf("\t%15s (%s): %d\n", id, severity, rulesViolated[id])
	}
}

func writeResults(c *checker.Checker, settings *options.Settings) {
	list := &c.Results().Results.ResultsList
	checker.SortResults(list)
	checker.ProcessIgnoreDir(list, settings.IgnoreDirPatterns)
	checker.AddID(list)
	if settings.ResultsPath == "" {
		return
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		glog.Fatalf("failed to serialize results: %v", err)
	}
	if err := atomic.Write(settings.ResultsPath, data); err != nil {
		glog.Fatalf("failed to write results to %s: %v", settings.ResultsPath, err)
	}
	glog.Infof("results written to %s (%d in total)", settings.ResultsPath, len(list.Results))
}

func main() {
	flag.Parse()
	defer glog.Flush()

	settings := loadSettings()
	c := checker.New(settings)

	if settings.RuleTexts != "" {
		filename := filepath.Clean(settings.RuleTexts)
		if err := c.Catalog.Load(filename, settings.RuleTextsCharset); err != nil {
			fmt.Println("Fatal error: file is not found: " + filename)
			os.Exit(1)
		}
		if *verifyRuleTexts {
			missing := c.Catalog.VerifyCoverage(checker.SupportedRules())
			for _, rule := range missing {
				fmt.Println("Missing rule text: " + rule)
			}
			if len(missing) == 0 {
				fmt.Println("Rule texts are complete.")
			}
			os.Exit(0)
		}
	} else if *verifyRuleTexts {
		fmt.Println("Error: Please specify rule texts file with --rule-texts=<file>")
		os.Exit(1)
	}

	dumpfiles := flag.Args()
	if len(dumpfiles) == 0 {
		if !settings.Quiet {
			fmt.Println("No input files.")
		}
		os.Exit(0)
	}

	if *srcDir != "" {
		lines, err := utils.CountLinesUnderDir(
			[]string{*srcDir}, []string{"C", "C Header"}, settings.IgnoreDirPatterns)
		if err == nil {
			glog.Infof("analyzing %d lines of C code under %s", lines, *srcDir)
		}
	}

	exitCode := 0
	for _, dumpfile := range dumpfiles {
		if err := c.CheckDump(dumpfile); err != nil {
			glog.Error(err)
			exitCode = 1
			continue
		}

		if settings.Verify {
			missing, unexpected := c.Verify().Mismatches()
			for _, expected := range missing {
				fmt.Println("Expected but not seen: " + expected)
				exitCode = 1
			}
			for _, actual := range unexpected {
				fmt.Println("Not expected: " + actual)
				exitCode = 1
			}
			// Verify mode stops at the first file with mismatches.
			if exitCode != 0 {
				os.Exit(exitCode)
			}
		}
	}

	if !settings.Verify {
		numberOfViolations := 0
		for _, ids := range c.Results().Violations {
			numberOfViolations += len(ids)
		}
		if numberOfViolations > 0 {
			exitCode = 1
			if settings.ShowSummary {
				printSummary(c)
			}
		}
		writeResults(c, settings)
	}

	if settings.ShowSuppressedRules {
		fmt.Print(c.Suppressions.Summary())
	}

	os.Exit(exitCode)
}
