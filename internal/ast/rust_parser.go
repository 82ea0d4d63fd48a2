package ast

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/rust"
)

const (
	// DefaultRustMaxFileSize bounds the content a RustParser will
	// attempt to parse.
	DefaultRustMaxFileSize = 10 * 1024 * 1024

	rustNodeModItem           = "mod_item"
	rustNodeUseDeclaration    = "use_declaration"
	rustNodeFunctionItem      = "function_item"
	rustNodeStructItem        = "struct_item"
	rustNodeEnumItem          = "enum_item"
	rustNodeTraitItem         = "trait_item"
	rustNodeImplItem          = "impl_item"
	rustNodeDeclarationList   = "declaration_list"
	rustNodeParameters        = "parameters"
	rustNodeVisibilityModifier = "visibility_modifier"
)

// RustParserOptions tunes RustParser.
type RustParserOptions struct {
	MaxFileSize    int
	IncludePrivate bool
	ExtractBodies  bool
}

type RustParserOption func(*RustParserOptions)

func WithRustMaxFileSize(n int) RustParserOption {
	return func(o *RustParserOptions) { o.MaxFileSize = n }
}

func WithRustIncludePrivate(include bool) RustParserOption {
	return func(o *RustParserOptions) { o.IncludePrivate = include }
}

// RustParser parses Rust source via tree-sitter. Only `mod` declarations
// without an inline body are treated as relative imports (they name a
// sibling file or directory module per Rust's module-resolution rules,
// the closest Rust analogue to the relative-specifier imports the
// import graph resolves). `use` declarations are not recorded as
// imports at all, so unlike bare package specifiers in the other
// supported languages they do not appear in ParseResult.Imports.
type RustParser struct {
	opts RustParserOptions
}

func NewRustParser(opts ...RustParserOption) *RustParser {
	o := RustParserOptions{MaxFileSize: DefaultRustMaxFileSize, IncludePrivate: true}
	for _, apply := range opts {
		apply(&o)
	}
	return &RustParser{opts: o}
}

func (p *RustParser) Language() string     { return "rust" }
func (p *RustParser) Extensions() []string { return []string{".rs"} }

func (p *RustParser) Parse(ctx context.Context, content []byte, filePath string) (*ParseResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, WrapParseError(err, filePath)
	}
	if len(content) > p.opts.MaxFileSize {
		return nil, NewParseErrorWithCause(filePath, 0, 0, "content exceeds max file size", ErrFileTooLarge)
	}
	if !utf8.Valid(content) {
		return nil, NewParseErrorWithCause(filePath, 0, 0, "content is not valid UTF-8", ErrInvalidContent)
	}

	sum := sha256.Sum256(content)
	result := &ParseResult{
		FilePath: filePath,
		Language: p.Language(),
		Hash:     hex.EncodeToString(sum[:]),
	}
	result.ParsedAtMilli = time.Now().UnixMilli()

	parser := sitter.NewParser()
	parser.SetLanguage(rust.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, NewParseErrorWithCause(filePath, 0, 0, "tree-sitter parse failed", err)
	}
	defer tree.Close()

	if err := ctx.Err(); err != nil {
		return nil, WrapParseError(err, filePath)
	}

	root := tree.RootNode()
	if root.HasError() {
		result.Errors = append(result.Errors, "syntax error encountered during parse")
	}

	extractRustSymbols(root, content, filePath, result, p.opts)

	if err := result.Validate(); err != nil {
		result.Errors = append(result.Errors, err.Error())
	}
	return result, nil
}

func extractRustSymbols(node *sitter.Node, source []byte, filePath string, result *ParseResult, opts RustParserOptions) {
	if node == nil {
		return
	}
	count := int(node.NamedChildCount())
	for i := 0; i < count; i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case rustNodeModItem:
			extractRustModImport(child, source, result)
			if body := child.ChildByFieldName("body"); body != nil {
				extractRustSymbols(body, source, filePath, result, opts)
			}
		case rustNodeUseDeclaration:
			// Recorded nowhere: `use` paths are bare/crate-relative
			// specifiers and are skipped here; Ground's import graph
			// only resolves the relative `mod` form above.
		case rustNodeFunctionItem:
			if sym := symbolFromRustFunction(child, source, filePath, opts); sym != nil {
				result.Symbols = append(result.Symbols, sym)
			}
		case rustNodeStructItem:
			if sym := symbolFromRustNamed(child, source, filePath, SymbolStruct, opts); sym != nil {
				result.Symbols = append(result.Symbols, sym)
			}
		case rustNodeEnumItem:
			if sym := symbolFromRustNamed(child, source, filePath, SymbolEnum, opts); sym != nil {
				result.Symbols = append(result.Symbols, sym)
			}
		case rustNodeTraitItem:
			if sym := symbolFromRustNamed(child, source, filePath, SymbolInterface, opts); sym != nil {
				result.Symbols = append(result.Symbols, sym)
			}
		case rustNodeImplItem:
			extractRustImplMethods(child, source, filePath, result, opts)
		default:
			extractRustSymbols(child, source, filePath, result, opts)
		}
	}
}

func extractRustModImport(node *sitter.Node, source []byte, result *ParseResult) {
	if node.ChildByFieldName("body") != nil {
		return // inline module, nothing to resolve
	}
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	pt := node.StartPoint()
	result.Imports = append(result.Imports, Import{
		Path:     "./" + nameNode.Content(source),
		Location: Location{StartLine: int(pt.Row) + 1, StartCol: int(pt.Column)},
	})
}

func symbolFromRustFunction(node *sitter.Node, source []byte, filePath string, opts RustParserOptions) *Symbol {
	nameNode := node.ChildByFieldName("name")
	name := "<anonymous>"
	if nameNode != nil {
		name = nameNode.Content(source)
	}
	exported := isRustPublic(node)
	if !opts.IncludePrivate && !exported {
		return nil
	}
	start, end := node.StartPoint(), node.EndPoint()
	sym := &Symbol{
		Name: name, FilePath: filePath,
		StartLine: int(start.Row) + 1, EndLine: int(end.Row) + 1,
		StartCol: int(start.Column), EndCol: int(end.Column),
		Language: "rust", Kind: SymbolFunction, Exported: exported,
		ParamCount: countRustParams(node),
	}
	sym.SetParsedAt()
	return sym
}

func symbolFromRustNamed(node *sitter.Node, source []byte, filePath string, kind SymbolKind, opts RustParserOptions) *Symbol {
	nameNode := node.ChildByFieldName("name")
	name := "<anonymous>"
	if nameNode != nil {
		name = nameNode.Content(source)
	}
	exported := isRustPublic(node)
	if !opts.IncludePrivate && !exported {
		return nil
	}
	start, end := node.StartPoint(), node.EndPoint()
	sym := &Symbol{
		Name: name, FilePath: filePath,
		StartLine: int(start.Row) + 1, EndLine: int(end.Row) + 1,
		StartCol: int(start.Column), EndCol: int(end.Column),
		Language: "rust", Kind: kind, Exported: exported,
	}
	sym.SetParsedAt()
	return sym
}

func extractRustImplMethods(node *sitter.Node, source []byte, filePath string, result *ParseResult, opts RustParserOptions) {
	body := node.ChildByFieldName("body")
	if body == nil {
		return
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		member := body.NamedChild(i)
		if member.Type() != rustNodeFunctionItem {
			continue
		}
		sym := symbolFromRustFunction(member, source, filePath, opts)
		if sym != nil {
			sym.Kind = SymbolMethod
			result.Symbols = append(result.Symbols, sym)
		}
	}
}

func isRustPublic(node *sitter.Node) bool {
	count := int(node.ChildCount())
	for i := 0; i < count; i++ {
		if node.Child(i).Type() == rustNodeVisibilityModifier {
			return true
		}
	}
	return false
}

func countRustParams(node *sitter.Node) int {
	params := node.ChildByFieldName("parameters")
	if params == nil || params.Type() != rustNodeParameters {
		return 0
	}
	return int(params.NamedChildCount())
}

var _ Parser = (*RustParser)(nil)
