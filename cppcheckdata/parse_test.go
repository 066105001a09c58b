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

package cppcheckdata

import (
	"testing"
)

// sampleDump models "int x ; x = 1 ;" the way the upstream analyzer
// serializes it, with one configuration and one unresolved scope id.
const sampleDump = `<?xml version="1.0"?>
<dump>
  <platform name="unix64" char_bit="8" short_bit="16" int_bit="32" long_bit="64" long_long_bit="64" pointer_bit="64"/>
  <rawtokens>
    <file index="0" name="test.c"/>
    <file index="1" name="test.h"/>
    <tok fileIndex="1" linenr="1" col="1" str="extern"/>
    <tok fileIndex="0" linenr="1" col="1" str="int"/>
    <tok fileIndex="0" linenr="1" col="5" str="x"/>
    <tok fileIndex="0" linenr="1" col="6" str=";"/>
  </rawtokens>
  <suppressions>
    <suppression errorId="misra-c2012-10.4" fileName="test.c" lineNumber="7" symbolName="x"/>
  </suppressions>
  <data cfg="">
    <standards>
      <c version="c99"/>
    </standards>
    <directivelist>
      <directive file="test.c" linenr="1" str="#include &lt;stdio.h&gt;"/>
    </directivelist>
    <tokenlist>
      <token id="t1" str="int" file="test.c" linenr="1" column="1" type="name" scope="s1"/>
      <token id="t2" str="x" file="test.c" linenr="1" column="5" type="name" scope="s1" variable="v1" varId="1" valueType-type="int" valueType-sign="signed" valueType-typeScope="missing"/>
      <token id="t3" str=";" file="test.c" linenr="1" column="6" scope="s1"/>
      <token id="t4" str="x" file="test.c" linenr="2" column="1" type="name" scope="s1" variable="v1" varId="1" astParent="t5"/>
      <token id="t5" str="=" file="test.c" linenr="2" column="3" isAssignmentOp="true" scope="s1" astOperand1="t4" astOperand2="t6"/>
      <token id="t6" str="1" file="test.c" linenr="2" column="5" type="number" scope="s1" astParent="t5" values="vf1"/>
    </tokenlist>
    <scopes>
      <scope id="s1" className="" type="Global" nestedIn="dangling"/>
    </scopes>
    <functions>
      <function id="f1" name="main" tokenDef="t1" isStatic="false">
        <arg nr="1" variable="v1"/>
      </function>
    </functions>
    <variables>
      <var id="v1" nameToken="t2" typeStartToken="t1" typeEndToken="t1" isGlobal="true"/>
    </variables>
    <valueflow>
      <values id="vf1">
        <value intvalue="1" known="true"/>
      </values>
    </valueflow>
  </data>
</dump>`

func TestParseDumpBytes(t *testing.T) {
	dump, err := ParseDumpBytes("test.c.dump", []byte(sampleDump))
	if err != nil {
		t.Fatal(err)
	}

	if dump.Platform.IntBit != 32 || dump.Platform.LongBit != 64 {
		t.Errorf("platform = %+v", dump.Platform)
	}

	if len(dump.RawTokens) != 4 {
		t.Fatalf("got %d raw tokens", len(dump.RawTokens))
	}
	if dump.RawTokens[0].File != "test.h" {
		t.Errorf("raw token 0 file = %q", dump.RawTokens[0].File)
	}
	if dump.RawTokens[1].File != "test.c" {
		t.Errorf("raw token 1 file = %q", dump.RawTokens[1].File)
	}
	if dump.RawTokens[1].Next != dump.RawTokens[2] || dump.RawTokens[2].Previous != dump.RawTokens[1] {
		t.Error("raw token sequence links broken")
	}

	if len(dump.Suppressions) != 1 {
		t.Fatalf("got %d suppressions", len(dump.Suppressions))
	}
	s := dump.Suppressions[0]
	if s.ErrorId != "misra-c2012-10.4" || s.FileName != "test.c" || s.LineNumber != 7 || s.SymbolName != "x" {
		t.Errorf("suppression = %+v", s)
	}

	if len(dump.Configurations) != 1 {
		t.Fatalf("got %d configurations", len(dump.Configurations))
	}
	cfg := dump.Configurations[0]
	if cfg.Standards.C != "c99" {
		t.Errorf("standards = %+v", cfg.Standards)
	}
	if len(cfg.Directives) != 1 || cfg.Directives[0].Str != "#include <stdio.h>" {
		t.Errorf("directives = %+v", cfg.Directives)
	}

	if len(cfg.TokenList) != 6 {
		t.Fatalf("got %d tokens", len(cfg.TokenList))
	}
	assign := cfg.TokenList[4]
	if assign.Str != "=" || !assign.IsAssignmentOp || !assign.IsOp {
		t.Errorf("assignment flags = %+v", assign)
	}
	if assign.AstOperand1 != cfg.TokenList[3] || assign.AstOperand2 != cfg.TokenList[5] {
		t.Error("ast operands not resolved")
	}
	if cfg.TokenList[3].AstParent != assign {
		t.Error("ast parent not resolved")
	}

	x := cfg.TokenList[1]
	if x.Variable == nil || x.Variable != cfg.Variables[0] {
		t.Error("variable back reference not resolved")
	}
	if x.Scope == nil || x.Scope.Type != "Global" {
		t.Error("scope back reference not resolved")
	}
	if x.ValueType == nil || x.ValueType.Type != "int" || x.ValueType.Sign != "signed" {
		t.Errorf("value type = %+v", x.ValueType)
	}
	// The scope id is unresolvable but the raw id survives.
	if x.ValueType.TypeScope != nil || x.ValueType.TypeScopeID != "missing" {
		t.Errorf("dangling value type scope = %+v", x.ValueType)
	}

	if cfg.Scopes[0].NestedIn != nil {
		t.Error("dangling nestedIn must stay nil")
	}
	if cfg.Variables[0].NameToken != x || cfg.Variables[0].TypeStartToken != cfg.TokenList[0] {
		t.Error("variable tokens not resolved")
	}
	if cfg.Functions[0].TokenDef != cfg.TokenList[0] {
		t.Error("function tokenDef not resolved")
	}
	if cfg.Functions[0].Argument[1] != cfg.Variables[0] {
		t.Error("function argument not resolved")
	}

	one := cfg.TokenList[5]
	if len(one.Values) != 1 || !one.Values[0].HasIntValue || one.Values[0].IntValue != 1 || !one.Values[0].Known {
		t.Errorf("values = %+v", one.Values)
	}
}

func TestParseDumpBytesMalformed(t *testing.T) {
	if _, err := ParseDumpBytes("bad.dump", []byte("<dump><unclosed")); err == nil {
		t.Error("malformed XML must be an error")
	}
}

func TestParseDumpMissingFile(t *testing.T) {
	if _, err := ParseDump("/nonexistent/path.dump"); err == nil {
		t.Error("missing file must be an error")
	}
}
