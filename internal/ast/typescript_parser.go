package ast

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
)

const (
	tsNodeInterfaceDeclaration = "interface_declaration"
	tsNodeTypeAliasDeclaration = "type_alias_declaration"
	tsNodeEnumDeclaration      = "enum_declaration"
	tsNodeEnumBody             = "enum_body"
	tsNodeEnumAssignment       = "enum_assignment"
	tsNodePropertyIdentifier   = "property_identifier"
)

// TypeScriptParserOptions tunes TypeScriptParser.
type TypeScriptParserOptions struct {
	MaxFileSize    int
	IncludePrivate bool
	ExtractBodies  bool
}

// TypeScriptParserOption applies one option to TypeScriptParserOptions.
type TypeScriptParserOption func(*TypeScriptParserOptions)

func WithTSMaxFileSize(n int) TypeScriptParserOption {
	return func(o *TypeScriptParserOptions) { o.MaxFileSize = n }
}

func WithTSIncludePrivate(include bool) TypeScriptParserOption {
	return func(o *TypeScriptParserOptions) { o.IncludePrivate = include }
}

func WithTSExtractBodies(extract bool) TypeScriptParserOption {
	return func(o *TypeScriptParserOptions) { o.ExtractBodies = extract }
}

// TypeScriptParser parses TypeScript and TSX source via tree-sitter.
// Grammar selection (.ts vs .tsx) happens per-file based on extension,
// since tree-sitter exposes them as distinct grammars.
type TypeScriptParser struct {
	opts TypeScriptParserOptions
}

// NewTypeScriptParser builds a TypeScriptParser with the given options
// applied over {MaxFileSize: DefaultJSMaxFileSize, IncludePrivate: true}.
func NewTypeScriptParser(opts ...TypeScriptParserOption) *TypeScriptParser {
	o := TypeScriptParserOptions{MaxFileSize: DefaultJSMaxFileSize, IncludePrivate: true}
	for _, apply := range opts {
		apply(&o)
	}
	return &TypeScriptParser{opts: o}
}

func (p *TypeScriptParser) Language() string { return "typescript" }

func (p *TypeScriptParser) Extensions() []string {
	return []string{".ts", ".tsx", ".mts", ".cts"}
}

func (p *TypeScriptParser) Parse(ctx context.Context, content []byte, filePath string) (*ParseResult, error) {
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
	if strings.HasSuffix(filePath, ".tsx") {
		parser.SetLanguage(tsx.GetLanguage())
	} else {
		parser.SetLanguage(typescript.GetLanguage())
	}

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

	extractTSSymbols(root, content, filePath, result, p.opts)

	if err := result.Validate(); err != nil {
		result.Errors = append(result.Errors, err.Error())
	}
	return result, nil
}

func extractTSSymbols(node *sitter.Node, source []byte, filePath string, result *ParseResult, opts TypeScriptParserOptions) {
	if node == nil {
		return
	}
	jsOpts := JavaScriptParserOptions{MaxFileSize: opts.MaxFileSize, IncludePrivate: opts.IncludePrivate, ExtractBodies: opts.ExtractBodies}

	count := int(node.NamedChildCount())
	for i := 0; i < count; i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case jsNodeImportStatement:
			if imp, ok := extractJSStaticImport(child, source); ok {
				result.Imports = append(result.Imports, imp)
			}
		case jsNodeExportStatement:
			extractJSReexport(child, source, result)
			extractTSSymbols(child, source, filePath, result, opts)
		case jsNodeFunctionDeclaration, jsNodeGeneratorFunctionDecl:
			if sym := symbolFromJSFunction(child, source, filePath, SymbolFunction, jsOpts); sym != nil {
				result.Symbols = append(result.Symbols, sym)
			}
		case jsNodeClassDeclaration:
			if sym := symbolFromJSClass(child, source, filePath, jsOpts); sym != nil {
				result.Symbols = append(result.Symbols, sym)
			}
		case tsNodeInterfaceDeclaration:
			if sym := symbolFromTSInterface(child, source, filePath); sym != nil {
				result.Symbols = append(result.Symbols, sym)
			}
		case tsNodeTypeAliasDeclaration:
			if sym := symbolFromTSNamed(child, source, filePath, SymbolType); sym != nil {
				result.Symbols = append(result.Symbols, sym)
			}
		case tsNodeEnumDeclaration:
			if sym := symbolFromTSEnum(child, source, filePath); sym != nil {
				result.Symbols = append(result.Symbols, sym)
			}
		case jsNodeLexicalDeclaration, jsNodeVariableDeclaration:
			extractJSCommonJSImport(child, source, result)
			result.Symbols = append(result.Symbols, symbolsFromJSVariableDeclaration(child, source, filePath, jsOpts)...)
		default:
			extractTSSymbols(child, source, filePath, result, opts)
		}
	}
}

func symbolFromTSNamed(node *sitter.Node, source []byte, filePath string, kind SymbolKind) *Symbol {
	nameNode := node.ChildByFieldName("name")
	name := "<anonymous>"
	if nameNode != nil {
		name = nameNode.Content(source)
	}
	start, end := node.StartPoint(), node.EndPoint()
	sym := &Symbol{
		Name: name, FilePath: filePath,
		StartLine: int(start.Row) + 1, EndLine: int(end.Row) + 1,
		StartCol: int(start.Column), EndCol: int(end.Column),
		Language: "typescript", Kind: kind, Exported: true,
	}
	sym.SetParsedAt()
	return sym
}

func symbolFromTSInterface(node *sitter.Node, source []byte, filePath string) *Symbol {
	return symbolFromTSNamed(node, source, filePath, SymbolInterface)
}

func symbolFromTSEnum(node *sitter.Node, source []byte, filePath string) *Symbol {
	sym := symbolFromTSNamed(node, source, filePath, SymbolEnum)
	if sym == nil {
		return nil
	}
	body := node.ChildByFieldName("body")
	if body == nil {
		return sym
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		member := body.NamedChild(i)
		var nameNode *sitter.Node
		switch member.Type() {
		case tsNodePropertyIdentifier, jsNodeIdentifier:
			nameNode = member
		case tsNodeEnumAssignment:
			nameNode = member.NamedChild(0)
		}
		if nameNode == nil {
			continue
		}
		pt := nameNode.StartPoint()
		memberSym := &Symbol{
			Name: nameNode.Content(source), FilePath: filePath,
			StartLine: int(pt.Row) + 1, EndLine: int(pt.Row) + 1,
			StartCol: int(pt.Column), Language: "typescript", Kind: SymbolEnumMember, Exported: true,
		}
		memberSym.SetParsedAt()
		sym.Children = append(sym.Children, memberSym)
	}
	return sym
}

var _ Parser = (*TypeScriptParser)(nil)
