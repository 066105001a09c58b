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

// Package cppcheckdata models the program representation produced by the
// upstream cppcheck analyzer and serialized as an XML dump file. The engine
// consumes this model strictly read-only: entities are created once by
// ParseDump and never mutated afterwards. Every cross reference in the dump
// is an opaque id string; the parser resolves them through per-kind id maps,
// and an id that cannot be resolved becomes a nil reference, never an error.
package cppcheckdata

// Platform holds the integer bit widths of the analyzed target.
type Platform struct {
	Name        string
	CharBit     int
	ShortBit    int
	IntBit      int
	LongBit     int
	LongLongBit int
	PointerBit  int
}

// Standards records the language standard levels the configuration was
// preprocessed for, e.g. "c99".
type Standards struct {
	C   string
	CPP string
}

// Value is one statically-known possible value of a token.
type Value struct {
	IntValue    int64
	HasIntValue bool
	Known       bool
}

// ValueType describes the computed type of an expression token.
type ValueType struct {
	Type      string // "int", "record", "void", "bool", ...
	Sign      string // "signed", "unsigned" or ""
	Pointer   int    // pointer depth
	Constness int    // bitmask, bit 0 is the innermost level
	Bits      int
	TypeScope *Scope // declaring scope for enum/record types

	// TypeScopeID is the raw id of TypeScope; it survives even when the
	// id cannot be resolved, so identity comparisons stay meaningful on
	// partial dumps.
	TypeScopeID string
}

func (vt *ValueType) IsIntegral() bool {
	switch vt.Type {
	case "bool", "char", "short", "int", "long", "long long":
		return true
	}
	return false
}

func (vt *ValueType) IsEnum() bool {
	return vt.TypeScope != nil && vt.TypeScope.Type == "Enum"
}

func (vt *ValueType) IsFloat() bool {
	switch vt.Type {
	case "float", "double", "long double":
		return true
	}
	return false
}

// Token is one lexical token. Raw tokens carry only Str, File, Linenr,
// Column and the sequence links; decorated tokens additionally carry the
// AST edges, scope/variable/function back references, the computed value
// type and the known values.
type Token struct {
	Id     string
	Str    string
	File   string
	Linenr int
	Column int

	Next     *Token
	Previous *Token
	Link     *Token

	AstParent   *Token
	AstOperand1 *Token
	AstOperand2 *Token

	Scope     *Scope
	Variable  *Variable
	Function  *Function
	ValueType *ValueType
	Values    []*Value

	VarId       string
	TypeScopeID string

	IsName           bool
	IsNumber         bool
	IsString         bool
	IsOp             bool
	IsArithmeticalOp bool
	IsAssignmentOp   bool
	IsComparisonOp   bool
	IsLogicalOp      bool

	linkID        string
	astParentID   string
	astOperand1ID string
	astOperand2ID string
	scopeID       string
	variableID    string
	functionID    string
	valuesID      string
}

// Scope is one node of the scope tree.
type Scope struct {
	Id           string
	ClassName    string
	Type         string // Global, Function, Struct, Enum, Switch, Else, ...
	BodyStart    *Token
	BodyEnd      *Token
	NestedIn     *Scope
	Function     *Function
	IsExecutable bool

	bodyStartID string
	bodyEndID   string
	nestedInID  string
	functionID  string
}

// Function maps argument positions (1-based) to the declared parameter
// variables.
type Function struct {
	Id       string
	Name     string
	TokenDef *Token
	IsStatic bool
	Argument map[int]*Variable

	tokenDefID string
	argIDs     map[int]string
}

// Variable is one declared variable.
type Variable struct {
	Id             string
	NameToken      *Token
	TypeStartToken *Token
	TypeEndToken   *Token
	Constness      int

	IsArgument bool
	IsArray    bool
	IsConst    bool
	IsExtern   bool
	IsGlobal   bool
	IsLocal    bool
	IsPointer  bool
	IsStatic   bool

	nameTokenID      string
	typeStartTokenID string
	typeEndTokenID   string
}

// Directive is one raw preprocessor line in original spelling.
type Directive struct {
	File   string
	Linenr int
	Str    string
}

// Suppression is one inline suppression annotation extracted upstream.
type Suppression struct {
	ErrorId    string
	FileName   string
	LineNumber int // 0 when the annotation has no line
	SymbolName string
}

// Configuration is one preprocessor-resolved variant of a translation unit.
type Configuration struct {
	Name       string
	Directives []*Directive
	TokenList  []*Token
	Scopes     []*Scope
	Functions  []*Function
	Variables  []*Variable
	Standards  Standards
}

// DumpFile is the deserialized program model of one translation unit.
// Raw tokens and suppressions are configuration independent.
type DumpFile struct {
	Filename       string
	Platform       Platform
	RawTokens      []*Token
	Suppressions   []*Suppression
	Configurations []*Configuration
}
