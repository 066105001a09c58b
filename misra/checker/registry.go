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

	"naive.systems/misracheck/cppcheckdata"
)

// ruleCheck binds a rule number to its implementation. rawCheck entries
// run over the undecorated token stream once per file; cfgCheck entries
// run per configuration. Rule 12.1 carries both.
type ruleCheck struct {
	num1, num2 int
	cfgCheck   func(*Checker, *cppcheckdata.Configuration)
	rawCheck   func(*Checker, []*cppcheckdata.Token)
}

// ruleTable is the static catalog of implemented rules, in rule order.
var ruleTable = []ruleCheck{
	{num1: 2, num2: 7, cfgCheck: (*Checker).misra_2_7},
	{num1: 3, num2: 1, rawCheck: (*Checker).misra_3_1},
	{num1: 3, num2: 2, rawCheck: (*Checker).misra_3_2},
	{num1: 4, num2: 1, rawCheck: (*Checker).misra_4_1},
	{num1: 4, num2: 2, rawCheck: (*Checker).misra_4_2},
	{num1: 5, num2: 1, cfgCheck: (*Checker).misra_5_1},
	{num1: 5, num2: 2, cfgCheck: (*Checker).misra_5_2},
	{num1: 5, num2: 3, cfgCheck: (*Checker).misra_5_3},
	{num1: 5, num2: 4, cfgCheck: (*Checker).misra_5_4},
	{num1: 5, num2: 5, cfgCheck: (*Checker).misra_5_5},
	// 6.1 and 6.2 need bitfield type info the dump does not carry.
	{num1: 7, num2: 1, rawCheck: (*Checker).misra_7_1},
	{num1: 7, num2: 3, rawCheck: (*Checker).misra_7_3},
	{num1: 8, num2: 11, cfgCheck: (*Checker).misra_8_11},
	{num1: 8, num2: 12, cfgCheck: (*Checker).misra_8_12},
	{num1: 8, num2: 14, rawCheck: (*Checker).misra_8_14},
	{num1: 9, num2: 5, rawCheck: (*Checker).misra_9_5},
	{num1: 10, num2: 1, cfgCheck: (*Checker).misra_10_1},
	{num1: 10, num2: 3, cfgCheck: (*Checker).misra_10_3},
	{num1: 10, num2: 4, cfgCheck: (*Checker).misra_10_4},
	{num1: 10, num2: 6, cfgCheck: (*Checker).misra_10_6},
	{num1: 10, num2: 8, cfgCheck: (*Checker).misra_10_8},
	{num1: 11, num2: 3, cfgCheck: (*Checker).misra_11_3},
	{num1: 11, num2: 4, cfgCheck: (*Checker).misra_11_4},
	{num1: 11, num2: 5, cfgCheck: (*Checker).misra_11_5},
	{num1: 11, num2: 6, cfgCheck: (*Checker).misra_11_6},
	{num1: 11, num2: 7, cfgCheck: (*Checker).misra_11_7},
	{num1: 11, num2: 8, cfgCheck: (*Checker).misra_11_8},
	{num1: 11, num2: 9, cfgCheck: (*Checker).misra_11_9},
	{num1: 12, num2: 1, cfgCheck: (*Checker).misra_12_1, rawCheck: (*Checker).misra_12_1_sizeof},
	{num1: 12, num2: 2, cfgCheck: (*Checker).misra_12_2},
	{num1: 12, num2: 3, cfgCheck: (*Checker).misra_12_3},
	{num1: 12, num2: 4, cfgCheck: (*Checker).misra_12_4},
	{num1: 13, num2: 1, cfgCheck: (*Checker).misra_13_1},
	{num1: 13, num2: 3, cfgCheck: (*Checker).misra_13_3},
	{num1: 13, num2: 4, cfgCheck: (*Checker).misra_13_4},
	{num1: 13, num2: 5, cfgCheck: (*Checker).misra_13_5},
	{num1: 13, num2: 6, cfgCheck: (*Checker).misra_13_6},
	{num1: 14, num2: 1, cfgCheck: (*Checker).misra_14_1},
	{num1: 14, num2: 2, cfgCheck: (*Checker).misra_14_2},
	{num1: 14, num2: 4, cfgCheck: (*Checker).misra_14_4},
	{num1: 15, num2: 1, cfgCheck: (*Checker).misra_15_1},
	{num1: 15, num2: 2, cfgCheck: (*Checker).misra_15_2},
	{num1: 15, num2: 3, cfgCheck: (*Checker).misra_15_3},
	{num1: 15, num2: 5, cfgCheck: (*Checker).misra_15_5},
	{num1: 15, num2: 6, rawCheck: (*Checker).misra_15_6},
	{num1: 15, num2: 7, cfgCheck: (*Checker).misra_15_7},
	{num1: 16, num2: 2, cfgCheck: (*Checker).misra_16_2},
	{num1: 16, num2: 3, rawCheck: (*Checker).misra_16_3},
	{num1: 16, num2: 4, cfgCheck: (*Checker).misra_16_4},
	{num1: 16, num2: 5, cfgCheck: (*Checker).misra_16_5},
	{num1: 16, num2: 6, cfgCheck: (*Checker).misra_16_6},
	{num1: 16, num2: 7, cfgCheck: (*Checker).misra_16_7},
	{num1: 17, num2: 1, cfgCheck: (*Checker).misra_17_1},
	{num1: 17, num2: 2, cfgCheck: (*Checker).misra_17_2},
	{num1: 17, num2: 6, rawCheck: (*Checker).misra_17_6},
	{num1: 17, num2: 7, cfgCheck: (*Checker).misra_17_7},
	{num1: 17, num2: 8, cfgCheck: (*Checker).misra_17_8},
	{num1: 18, num2: 4, cfgCheck: (*Checker).misra_18_4},
	{num1: 18, num2: 5, cfgCheck: (*Checker).misra_18_5},
	{num1: 18, num2: 7, cfgCheck: (*Checker).misra_18_7},
	{num1: 18, num2: 8, cfgCheck: (*Checker).misra_18_8},
	{num1: 19, num2: 2, cfgCheck: (*Checker).misra_19_2},
	{num1: 20, num2: 1, cfgCheck: (*Checker).misra_20_1},
	{num1: 20, num2: 2, cfgCheck: (*Checker).misra_20_2},
	{num1: 20, num2: 3, rawCheck: (*Checker).misra_20_3},
	{num1: 20, num2: 4, cfgCheck: (*Checker).misra_20_4},
	{num1: 20, num2: 5, cfgCheck: (*Checker).misra_20_5},
	{num1: 20, num2: 7, cfgCheck: (*Checker).misra_20_7},
	{num1: 20, num2: 10, cfgCheck: (*Checker).misra_20_10},
	{num1: 20, num2: 13, cfgCheck: (*Checker).misra_20_13},
	{num1: 20, num2: 14, cfgCheck: (*Checker).misra_20_14},
	{num1: 21, num2: 1, cfgCheck: (*Checker).misra_21_1},
	{num1: 21, num2: 3, cfgCheck: (*Checker).misra_21_3},
	{num1: 21, num2: 4, cfgCheck: (*Checker).misra_21_4},
	{num1: 21, num2: 5, cfgCheck: (*Checker).misra_21_5},
	{num1: 21, num2: 6, cfgCheck: (*Checker).misra_21_6},
	{num1: 21, num2: 7, cfgCheck: (*Checker).misra_21_7},
	{num1: 21, num2: 8, cfgCheck: (*Checker).misra_21_8},
	{num1: 21, num2: 9, cfgCheck: (*Checker).misra_21_9},
	{num1: 21, num2: 10, cfgCheck: (*Checker).misra_21_10},
	{num1: 21, num2: 11, cfgCheck: (*Checker).misra_21_11},
	{num1: 21, num2: 12, cfgCheck: (*Checker).misra_21_12},
}

// SupportedRules lists the implemented rules as "<n>.<n>" names.
func SupportedRules() []string {
	names := make([]string, 0, len(ruleTable))
	for _, r := range ruleTable {
		names = append(names, fmt.Sprintf("%d.%d", r.num1, r.num2))
	}
	return names
}
