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

// Package options holds the checker settings merged from command-line
// flags and an optional YAML configuration file.
package options

import (
	"fmt"
	"os"

	"github.com/golang/glog"
	"gopkg.in/yaml.v2"
)

// Settings controls one checker run. Flag values override the YAML file.
type Settings struct {
	// Verify switches to self-test mode: expectations are harvested from
	// // <major>.<minor> comments and compared against actual reports.
	Verify bool `yaml:"verify"`
	// Quiet drops the informational status lines.
	Quiet bool `yaml:"quiet"`
	// ShowSummary prints violation counts per severity after the run.
	ShowSummary bool `yaml:"show-summary"`
	// ShowSuppressedRules prints the suppressed-report counts per rule.
	ShowSuppressedRules bool `yaml:"show-suppressed-rules"`
	// RuleTexts names the Appendix A rule text file, empty for none.
	RuleTexts string `yaml:"rule-texts"`
	// RuleTextsCharset names the rule text file encoding, empty for UTF-8.
	RuleTextsCharset string `yaml:"rule-texts-charset"`
	// SuppressRules is a comma-separated rule list suppressed globally,
	// e.g. "5.2,8.11".
	SuppressRules string `yaml:"suppress-rules"`
	// FilePrefix is stripped from report paths before suppression file
	// matching.
	FilePrefix string `yaml:"file-prefix"`
	// ResultsPath is where the JSON results file is written, empty for
	// none.
	ResultsPath string `yaml:"results-path"`
	// IgnoreDirPatterns are doublestar patterns; results under matching
	// directories are dropped.
	IgnoreDirPatterns []string `yaml:"ignore-dir-patterns"`
}

// LoadYAML merges a YAML settings file into s. Fields absent from the
// file keep their current values.
func (s *Settings) LoadYAML(path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %v", path, err)
	}
	if err := yaml.Unmarshal(content, s); err != nil {
		return fmt.Errorf("failed to parse config %s: %v", path, err)
	}
	glog.Infof("loaded settings from %s", path)
	return nil
}
