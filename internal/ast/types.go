package ast

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// SymbolKind enumerates the kinds of symbols a Parser can extract.
type SymbolKind int

const (
	SymbolUnknown SymbolKind = iota
	SymbolPackage
	SymbolFile
	SymbolFunction
	SymbolMethod
	SymbolInterface
	SymbolStruct
	SymbolType
	SymbolVariable
	SymbolConstant
	SymbolField
	SymbolImport
	SymbolClass
	SymbolDecorator
	SymbolEnum
	SymbolEnumMember
	SymbolParameter
	SymbolProperty
	SymbolCSSClass
	SymbolCSSID
	SymbolCSSVariable
	SymbolAnimation
	SymbolMediaQuery
	SymbolComponent
	SymbolElement
	SymbolForm
)

var symbolKindNames = map[SymbolKind]string{
	SymbolUnknown:     "Unknown",
	SymbolPackage:     "Package",
	SymbolFile:        "File",
	SymbolFunction:    "Function",
	SymbolMethod:      "Method",
	SymbolInterface:   "Interface",
	SymbolStruct:      "Struct",
	SymbolType:        "Type",
	SymbolVariable:    "Variable",
	SymbolConstant:    "Constant",
	SymbolField:       "Field",
	SymbolImport:      "Import",
	SymbolClass:       "Class",
	SymbolDecorator:   "Decorator",
	SymbolEnum:        "Enum",
	SymbolEnumMember:  "EnumMember",
	SymbolParameter:   "Parameter",
	SymbolProperty:    "Property",
	SymbolCSSClass:    "CSSClass",
	SymbolCSSID:       "CSSID",
	SymbolCSSVariable: "CSSVariable",
	SymbolAnimation:   "Animation",
	SymbolMediaQuery:  "MediaQuery",
	SymbolComponent:   "Component",
	SymbolElement:     "Element",
	SymbolForm:        "Form",
}

// String returns the symbol kind's name, or "Unknown" if unrecognized.
func (k SymbolKind) String() string {
	if name, ok := symbolKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// ParseSymbolKind maps a name (as produced by String) back to a SymbolKind.
// Unrecognized names map to SymbolUnknown.
func ParseSymbolKind(name string) SymbolKind {
	for k, n := range symbolKindNames {
		if n == name {
			return k
		}
	}
	return SymbolUnknown
}

// MarshalJSON encodes the kind as its string name.
func (k SymbolKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON accepts either the string name or the raw numeric value,
// so callers that round-trip via encoding/json or persist numerically
// both work.
func (k *SymbolKind) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		*k = ParseSymbolKind(name)
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("symbol kind: %w", err)
	}
	*k = SymbolKind(n)
	return nil
}

// GenerateID builds a deterministic symbol identifier from its location
// and name: "{filePath}:{startLine}:{name}".
func GenerateID(filePath string, startLine int, name string) string {
	return fmt.Sprintf("%s:%d:%s", filePath, startLine, name)
}

// Location pinpoints a symbol's source span.
type Location struct {
	FilePath string
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// String renders "{FilePath}:{StartLine}:{StartCol}".
func (l Location) String() string {
	return fmt.Sprintf("%s:%d:%d", l.FilePath, l.StartLine, l.StartCol)
}

// Symbol is one extracted declaration: a function, class, variable, and
// so on, possibly with nested children (methods within a class, fields
// within a struct).
type Symbol struct {
	Name          string
	FilePath      string
	StartLine     int
	EndLine       int
	StartCol      int
	EndCol        int
	Language      string
	Kind          SymbolKind
	Children      []*Symbol
	ParsedAtMilli int64
	Exported      bool

	// ParamCount is the declared parameter count for function-like
	// symbols, kept separately from any parameter names so that a
	// normalized signature (name(paramCount)) survives parameter
	// renames. Zero for non-callable symbols.
	ParamCount int
}

// Location builds a Location from the symbol's own span fields.
func (s *Symbol) Location() Location {
	return Location{
		FilePath:  s.FilePath,
		StartLine: s.StartLine,
		StartCol:  s.StartCol,
		EndLine:   s.EndLine,
		EndCol:    s.EndCol,
	}
}

// SetParsedAt stamps ParsedAtMilli with the current time.
func (s *Symbol) SetParsedAt() {
	s.ParsedAtMilli = time.Now().UnixMilli()
}

// ValidationError names the offending field alongside a message.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks structural invariants: a non-empty name, a non-empty
// path with no ".." traversal component, a positive start line, EndLine
// >= StartLine, non-negative columns, a non-empty language, and
// recursive validation of children.
func (s *Symbol) Validate() error {
	if s.Name == "" {
		return &ValidationError{Field: "Name", Message: "must not be empty"}
	}
	if s.FilePath == "" {
		return &ValidationError{Field: "FilePath", Message: "must not be empty"}
	}
	if containsTraversal(s.FilePath) {
		return &ValidationError{Field: "FilePath", Message: "must not contain path traversal"}
	}
	if s.StartLine <= 0 {
		return &ValidationError{Field: "StartLine", Message: "must be positive"}
	}
	if s.EndLine < s.StartLine {
		return &ValidationError{Field: "EndLine", Message: "must be >= StartLine"}
	}
	if s.StartCol < 0 {
		return &ValidationError{Field: "StartCol", Message: "must be non-negative"}
	}
	if s.EndCol < 0 {
		return &ValidationError{Field: "EndCol", Message: "must be non-negative"}
	}
	if s.Language == "" {
		return &ValidationError{Field: "Language", Message: "must not be empty"}
	}
	for i, child := range s.Children {
		if err := child.Validate(); err != nil {
			return fmt.Errorf("Children[%d]: %w", i, err)
		}
	}
	return nil
}

func containsTraversal(path string) bool {
	for _, part := range strings.Split(filepathSplit(path), "/") {
		if part == ".." {
			return true
		}
	}
	return false
}

func filepathSplit(path string) string {
	return strings.ReplaceAll(path, `\`, "/")
}

// Import is one import/require/export-from edge found in a source file.
type Import struct {
	Path     string
	Location Location
}

// ParseResult is the uniform output of a Parser.Parse call.
type ParseResult struct {
	FilePath      string
	Language      string
	Hash          string
	ParsedAtMilli int64
	Symbols       []*Symbol
	Imports       []Import
	Errors        []string
}

// SetParsedAt stamps ParsedAtMilli with the current time.
func (r *ParseResult) SetParsedAt() {
	r.ParsedAtMilli = time.Now().UnixMilli()
}

// HasErrors reports whether any syntax errors were recorded.
func (r *ParseResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// SymbolCount counts every symbol including nested children, with no
// depth limit.
func (r *ParseResult) SymbolCount() int {
	count := 0
	for _, sym := range r.Symbols {
		count += 1 + countChildren(sym, -1)
	}
	return count
}

// SymbolCountWithDepth counts symbols down to maxDepth levels of
// nesting; maxDepth 0 counts only top-level symbols.
func (r *ParseResult) SymbolCountWithDepth(maxDepth int) int {
	count := 0
	for _, sym := range r.Symbols {
		count += 1 + countChildren(sym, maxDepth)
	}
	return count
}

func countChildren(sym *Symbol, remainingDepth int) int {
	if remainingDepth == 0 {
		return 0
	}
	next := remainingDepth - 1
	count := 0
	for _, child := range sym.Children {
		count += 1 + countChildren(child, next)
	}
	return count
}

// Validate checks that FilePath is non-empty and traversal-free,
// Language is non-empty, and every Import has a non-empty path and a
// positive start line.
func (r *ParseResult) Validate() error {
	if r.FilePath == "" {
		return &ValidationError{Field: "FilePath", Message: "must not be empty"}
	}
	if containsTraversal(r.FilePath) {
		return &ValidationError{Field: "FilePath", Message: "must not contain path traversal"}
	}
	if r.Language == "" {
		return &ValidationError{Field: "Language", Message: "must not be empty"}
	}
	for i, imp := range r.Imports {
		if imp.Path == "" {
			return fmt.Errorf("Imports[%d]: %w", i, &ValidationError{Field: "Path", Message: "must not be empty"})
		}
		if imp.Location.StartLine <= 0 {
			return fmt.Errorf("Imports[%d]: %w", i, &ValidationError{Field: "Location.StartLine", Message: "must be positive"})
		}
	}
	return nil
}
