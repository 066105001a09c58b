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
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/golang/glog"
)

type xmlPlatform struct {
	Name        string `xml:"name,attr"`
	CharBit     string `xml:"char_bit,attr"`
	ShortBit    string `xml:"short_bit,attr"`
	IntBit      string `xml:"int_bit,attr"`
	LongBit     string `xml:"long_bit,attr"`
	LongLongBit string `xml:"long_long_bit,attr"`
	PointerBit  string `xml:"pointer_bit,attr"`
}

type xmlRawFile struct {
	Index string `xml:"index,attr"`
	Name  string `xml:"name,attr"`
}

type xmlRawToken struct {
	FileIndex string `xml:"fileIndex,attr"`
	Linenr    string `xml:"linenr,attr"`
	Col       string `xml:"col,attr"`
	Str       string `xml:"str,attr"`
}

type xmlSuppression struct {
	ErrorId    string `xml:"errorId,attr"`
	FileName   string `xml:"fileName,attr"`
	LineNumber string `xml:"lineNumber,attr"`
	SymbolName string `xml:"symbolName,attr"`
}

type xmlDirective struct {
	File   string `xml:"file,attr"`
	Linenr string `xml:"linenr,attr"`
	Str    string `xml:"str,attr"`
}

type xmlToken struct {
	Id          string `xml:"id,attr"`
	Str         string `xml:"str,attr"`
	File        string `xml:"file,attr"`
	Linenr      string `xml:"linenr,attr"`
	Column      string `xml:"column,attr"`
	Scope       string `xml:"scope,attr"`
	Variable    string `xml:"variable,attr"`
	Function    string `xml:"function,attr"`
	Values      string `xml:"values,attr"`
	Link        string `xml:"link,attr"`
	AstParent   string `xml:"astParent,attr"`
	AstOperand1 string `xml:"astOperand1,attr"`
	AstOperand2 string `xml:"astOperand2,attr"`
	Type        string `xml:"type,attr"`
	VarId       string `xml:"varId,attr"`
	TypeScope   string `xml:"typeScope,attr"`

	IsArithmeticalOp string `xml:"isArithmeticalOp,attr"`
	IsAssignmentOp   string `xml:"isAssignmentOp,attr"`
	IsComparisonOp   string `xml:"isComparisonOp,attr"`
	IsLogicalOp      string `xml:"isLogicalOp,attr"`

	ValueTypeType      string `xml:"valueType-type,attr"`
	ValueTypeSign      string `xml:"valueType-sign,attr"`
	ValueTypePointer   string `xml:"valueType-pointer,attr"`
	ValueTypeConstness string `xml:"valueType-constness,attr"`
	ValueTypeBits      string `xml:"valueType-bits,attr"`
	ValueTypeTypeScope string `xml:"valueType-typeScope,attr"`
}

type xmlScope struct {
	Id           string `xml:"id,attr"`
	ClassName    string `xml:"className,attr"`
	Type         string `xml:"type,attr"`
	BodyStart    string `xml:"bodyStart,attr"`
	BodyEnd      string `xml:"bodyEnd,attr"`
	NestedIn     string `xml:"nestedIn,attr"`
	Function     string `xml:"function,attr"`
	IsExecutable string `xml:"isExecutable,attr"`
}

type xmlFunctionArg struct {
	Nr       string `xml:"nr,attr"`
	Variable string `xml:"variable,attr"`
}

type xmlFunction struct {
	Id       string           `xml:"id,attr"`
	Name     string           `xml:"name,attr"`
	TokenDef string           `xml:"tokenDef,attr"`
	IsStatic string           `xml:"isStatic,attr"`
	Args     []xmlFunctionArg `xml:"arg"`
}

type xmlVariable struct {
	Id             string `xml:"id,attr"`
	NameToken      string `xml:"nameToken,attr"`
	TypeStartToken string `xml:"typeStartToken,attr"`
	TypeEndToken   string `xml:"typeEndToken,attr"`
	Constness      string `xml:"constness,attr"`
	IsArgument     string `xml:"isArgument,attr"`
	IsArray        string `xml:"isArray,attr"`
	IsConst        string `xml:"isConst,attr"`
	IsExtern       string `xml:"isExtern,attr"`
	IsGlobal       string `xml:"isGlobal,attr"`
	IsLocal        string `xml:"isLocal,attr"`
	IsPointer      string `xml:"isPointer,attr"`
	IsStatic       string `xml:"isStatic,attr"`
}

type xmlValue struct {
	IntValue string `xml:"intvalue,attr"`
	Known    string `xml:"known,attr"`
}

type xmlValues struct {
	Id     string     `xml:"id,attr"`
	Values []xmlValue `xml:"value"`
}

type xmlStandards struct {
	C struct {
		Version string `xml:"version,attr"`
	} `xml:"c"`
	CPP struct {
		Version string `xml:"version,attr"`
	} `xml:"cpp"`
}

type xmlData struct {
	Cfg        string          `xml:"cfg,attr"`
	Standards  xmlStandards    `xml:"standards"`
	Directives []xmlDirective  `xml:"directivelist>directive"`
	Tokens     []xmlToken      `xml:"tokenlist>token"`
	Scopes     []xmlScope      `xml:"scopes>scope"`
	Functions  []xmlFunction   `xml:"functions>function"`
	Variables  []xmlVariable   `xml:"variables>var"`
	ValueFlow  []xmlValues     `xml:"valueflow>values"`
}

type xmlDump struct {
	XMLName      xml.Name         `xml:"dump"`
	Platform     xmlPlatform      `xml:"platform"`
	RawFiles     []xmlRawFile     `xml:"rawtokens>file"`
	RawTokens    []xmlRawToken    `xml:"rawtokens>tok"`
	Suppressions []xmlSuppression `xml:"suppressions>suppression"`
	Data         []xmlData        `xml:"data"`
}

func parseInt(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func parseBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "1":
		return true
	}
	return false
}

// ParseDump deserializes one dump file into the read-only program model.
// Malformed XML is an error; dangling id references are not.
func ParseDump(path string) (*DumpFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read dump %s: %v", path, err)
	}
	return ParseDumpBytes(path, raw)
}

// ParseDumpBytes is ParseDump over in-memory data.
func ParseDumpBytes(path string, raw []byte) (*DumpFile, error) {
	var doc xmlDump
	if err := xml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal dump %s: %v", path, err)
	}

	dump := &DumpFile{
		Filename: path,
		Platform: Platform{
			Name:        doc.Platform.Name,
			CharBit:     parseInt(doc.Platform.CharBit),
			ShortBit:    parseInt(doc.Platform.ShortBit),
			IntBit:      parseInt(doc.Platform.IntBit),
			LongBit:     parseInt(doc.Platform.LongBit),
			LongLongBit: parseInt(doc.Platform.LongLongBit),
			PointerBit:  parseInt(doc.Platform.PointerBit),
		},
	}

	fileNames := map[int]string{}
	for _, f := range doc.RawFiles {
		fileNames[parseInt(f.Index)] = f.Name
	}
	var prev *Token
	for _, rt := range doc.RawTokens {
		tok := &Token{
			Str:    rt.Str,
			File:   fileNames[parseInt(rt.FileIndex)],
			Linenr: parseInt(rt.Linenr),
			Column: parseInt(rt.Col),
		}
		if prev != nil {
			prev.Next = tok
			tok.Previous = prev
		}
		prev = tok
		dump.RawTokens = append(dump.RawTokens, tok)
	}

	for _, s := range doc.Suppressions {
		dump.Suppressions = append(dump.Suppressions, &Suppression{
			ErrorId:    s.ErrorId,
			FileName:   s.FileName,
			LineNumber: parseInt(s.LineNumber),
			SymbolName: s.SymbolName,
		})
	}

	for i := range doc.Data {
		dump.Configurations = append(dump.Configurations, buildConfiguration(&doc.Data[i]))
	}
	if len(dump.Configurations) == 0 {
		glog.Warningf("dump %s contains no configuration data", path)
	}
	return dump, nil
}

func buildConfiguration(data *xmlData) *Configuration {
	cfg := &Configuration{
		Name: data.Cfg,
		Standards: Standards{
			C:   data.Standards.C.Version,
			CPP: data.Standards.CPP.Version,
		},
	}

	for _, d := range data.Directives {
		cfg.Directives = append(cfg.Directives, &Directive{
			File:   d.File,
			Linenr: parseInt(d.Linenr),
			Str:    d.Str,
		})
	}

	values := map[string][]*Value{}
	for _, vs := range data.ValueFlow {
		var list []*Value
		for _, v := range vs.Values {
			val := &Value{Known: parseBool(v.Known)}
			if v.IntValue != "" {
				n, err := strconv.ParseInt(v.IntValue, 10, 64)
				if err == nil {
					val.IntValue = n
					val.HasIntValue = true
				}
			}
			list = append(list, val)
		}
		values[vs.Id] = list
	}

	tokens := map[string]*Token{}
	var prev *Token
	for _, xt := range data.Tokens {
		tok := &Token{
			Id:     xt.Id,
			Str:    xt.Str,
			File:   xt.File,
			Linenr: parseInt(xt.Linenr),
			Column: parseInt(xt.Column),

			VarId:       xt.VarId,
			TypeScopeID: xt.TypeScope,

			IsArithmeticalOp: parseBool(xt.IsArithmeticalOp),
			IsAssignmentOp:   parseBool(xt.IsAssignmentOp),
			IsComparisonOp:   parseBool(xt.IsComparisonOp),
			IsLogicalOp:      parseBool(xt.IsLogicalOp),

			linkID:        xt.Link,
			astParentID:   xt.AstParent,
			astOperand1ID: xt.AstOperand1,
			astOperand2ID: xt.AstOperand2,
			scopeID:       xt.Scope,
			variableID:    xt.Variable,
			functionID:    xt.Function,
			valuesID:      xt.Values,
		}
		switch xt.Type {
		case "name":
			tok.IsName = true
		case "number":
			tok.IsNumber = true
		case "string":
			tok.IsString = true
		case "op":
			tok.IsOp = true
		}
		// Operator subclasses imply the op flag even when the producer
		// tagged the token with the subclass only.
		if tok.IsArithmeticalOp || tok.IsAssignmentOp || tok.IsComparisonOp || tok.IsLogicalOp {
			tok.IsOp = true
		}
		if xt.ValueTypeType != "" || xt.ValueTypeSign != "" {
			tok.ValueType = &ValueType{
				Type:        xt.ValueTypeType,
				Sign:        xt.ValueTypeSign,
				Pointer:     parseInt(xt.ValueTypePointer),
				Constness:   parseInt(xt.ValueTypeConstness),
				Bits:        parseInt(xt.ValueTypeBits),
				TypeScopeID: xt.ValueTypeTypeScope,
			}
		}
		tok.Values = values[tok.valuesID]
		if prev != nil {
			prev.Next = tok
			tok.Previous = prev
		}
		prev = tok
		if tok.Id != "" {
			tokens[tok.Id] = tok
		}
		cfg.TokenList = append(cfg.TokenList, tok)
	}

	scopes := map[string]*Scope{}
	for _, xs := range data.Scopes {
		scope := &Scope{
			Id:           xs.Id,
			ClassName:    xs.ClassName,
			Type:         xs.Type,
			IsExecutable: parseBool(xs.IsExecutable),
			bodyStartID:  xs.BodyStart,
			bodyEndID:    xs.BodyEnd,
			nestedInID:   xs.NestedIn,
			functionID:   xs.Function,
		}
		scopes[scope.Id] = scope
		cfg.Scopes = append(cfg.Scopes, scope)
	}

	functions := map[string]*Function{}
	for _, xf := range data.Functions {
		fn := &Function{
			Id:         xf.Id,
			Name:       xf.Name,
			IsStatic:   parseBool(xf.IsStatic),
			Argument:   map[int]*Variable{},
			tokenDefID: xf.TokenDef,
			argIDs:     map[int]string{},
		}
		for _, a := range xf.Args {
			fn.argIDs[parseInt(a.Nr)] = a.Variable
		}
		functions[fn.Id] = fn
		cfg.Functions = append(cfg.Functions, fn)
	}

	variables := map[string]*Variable{}
	for _, xv := range data.Variables {
		v := &Variable{
			Id:               xv.Id,
			Constness:        parseInt(xv.Constness),
			IsArgument:       parseBool(xv.IsArgument),
			IsArray:          parseBool(xv.IsArray),
			IsConst:          parseBool(xv.IsConst),
			IsExtern:         parseBool(xv.IsExtern),
			IsGlobal:         parseBool(xv.IsGlobal),
			IsLocal:          parseBool(xv.IsLocal),
			IsPointer:        parseBool(xv.IsPointer),
			IsStatic:         parseBool(xv.IsStatic),
			nameTokenID:      xv.NameToken,
			typeStartTokenID: xv.TypeStartToken,
			typeEndTokenID:   xv.TypeEndToken,
		}
		variables[v.Id] = v
		cfg.Variables = append(cfg.Variables, v)
	}

	// Second pass: resolve every id reference through the maps. A dangling
	// id stays nil so that rules degrade to "no opinion".
	for _, tok := range cfg.TokenList {
		tok.Link = tokens[tok.linkID]
		tok.AstParent = tokens[tok.astParentID]
		tok.AstOperand1 = tokens[tok.astOperand1ID]
		tok.AstOperand2 = tokens[tok.astOperand2ID]
		tok.Scope = scopes[tok.scopeID]
		tok.Variable = variables[tok.variableID]
		tok.Function = functions[tok.functionID]
		if tok.ValueType != nil {
			tok.ValueType.TypeScope = scopes[tok.ValueType.TypeScopeID]
		}
	}
	for _, scope := range cfg.Scopes {
		scope.BodyStart = tokens[scope.bodyStartID]
		scope.BodyEnd = tokens[scope.bodyEndID]
		scope.NestedIn = scopes[scope.nestedInID]
		scope.Function = functions[scope.functionID]
	}
	for _, fn := range cfg.Functions {
		fn.TokenDef = tokens[fn.tokenDefID]
		for nr, id := range fn.argIDs {
			if v := variables[id]; v != nil {
				fn.Argument[nr] = v
			}
		}
	}
	for _, v := range cfg.Variables {
		v.NameToken = tokens[v.nameTokenID]
		v.TypeStartToken = tokens[v.typeStartTokenID]
		v.TypeEndToken = tokens[v.typeEndTokenID]
	}
	return cfg
}
