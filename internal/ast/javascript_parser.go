package ast

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
)

const (
	// DefaultJSMaxFileSize bounds the content a JavaScriptParser will
	// attempt to parse.
	DefaultJSMaxFileSize = 10 * 1024 * 1024

	jsNodeProgram               = "program"
	jsNodeImportStatement       = "import_statement"
	jsNodeExportStatement       = "export_statement"
	jsNodeFunctionDeclaration   = "function_declaration"
	jsNodeGeneratorFunctionDecl = "generator_function_declaration"
	jsNodeClassDeclaration      = "class_declaration"
	jsNodeLexicalDeclaration    = "lexical_declaration"
	jsNodeVariableDeclaration   = "variable_declaration"
	jsNodeMethodDefinition      = "method_definition"
	jsNodeCallExpression        = "call_expression"
	jsNodeString                = "string"
	jsNodeStringFragment        = "string_fragment"
	jsNodeIdentifier            = "identifier"
	jsNodeVariableDeclarator    = "variable_declarator"
	jsNodeFormalParameters      = "formal_parameters"
	jsNodeArrowFunction         = "arrow_function"
	jsNodeFunctionExpression    = "function_expression"
)

// JavaScriptParserOptions tunes JavaScriptParser.
type JavaScriptParserOptions struct {
	MaxFileSize    int
	IncludePrivate bool
	ExtractBodies  bool
}

// JavaScriptParserOption applies one option to JavaScriptParserOptions.
type JavaScriptParserOption func(*JavaScriptParserOptions)

// WithJSMaxFileSize overrides the default max file size.
func WithJSMaxFileSize(n int) JavaScriptParserOption {
	return func(o *JavaScriptParserOptions) { o.MaxFileSize = n }
}

// WithJSIncludePrivate toggles extraction of declarations whose names
// start with an underscore.
func WithJSIncludePrivate(include bool) JavaScriptParserOption {
	return func(o *JavaScriptParserOptions) { o.IncludePrivate = include }
}

// WithJSExtractBodies sets ExtractBodies. The JavaScript parser does not
// read it: no function body source text is extracted either way.
func WithJSExtractBodies(extract bool) JavaScriptParserOption {
	return func(o *JavaScriptParserOptions) { o.ExtractBodies = extract }
}

// JavaScriptParser parses JavaScript and JSX source via tree-sitter.
type JavaScriptParser struct {
	opts JavaScriptParserOptions
}

// NewJavaScriptParser builds a JavaScriptParser with the given options
// applied over {MaxFileSize: DefaultJSMaxFileSize, IncludePrivate: true}.
func NewJavaScriptParser(opts ...JavaScriptParserOption) *JavaScriptParser {
	o := JavaScriptParserOptions{MaxFileSize: DefaultJSMaxFileSize, IncludePrivate: true}
	for _, apply := range opts {
		apply(&o)
	}
	return &JavaScriptParser{opts: o}
}

func (p *JavaScriptParser) Language() string { return "javascript" }

func (p *JavaScriptParser) Extensions() []string {
	return []string{".js", ".mjs", ".cjs", ".jsx"}
}

// Parse implements Parser for JavaScript/JSX content.
func (p *JavaScriptParser) Parse(ctx context.Context, content []byte, filePath string) (*ParseResult, error) {
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
	parser.SetLanguage(javascript.GetLanguage())

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

	extractJSSymbols(root, content, filePath, result, p.opts)

	if err := result.Validate(); err != nil {
		result.Errors = append(result.Errors, err.Error())
	}
	return result, nil
}

func extractJSSymbols(node *sitter.Node, source []byte, filePath string, result *ParseResult, opts JavaScriptParserOptions) {
	if node == nil {
		return
	}
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
			extractJSSymbols(child, source, filePath, result, opts)
		case jsNodeFunctionDeclaration, jsNodeGeneratorFunctionDecl:
			if sym := symbolFromJSFunction(child, source, filePath, SymbolFunction, opts); sym != nil {
				result.Symbols = append(result.Symbols, sym)
			}
		case jsNodeClassDeclaration:
			if sym := symbolFromJSClass(child, source, filePath, opts); sym != nil {
				result.Symbols = append(result.Symbols, sym)
			}
		case jsNodeLexicalDeclaration, jsNodeVariableDeclaration:
			extractJSCommonJSImport(child, source, result)
			result.Symbols = append(result.Symbols, symbolsFromJSVariableDeclaration(child, source, filePath, opts)...)
		default:
			extractJSSymbols(child, source, filePath, result, opts)
		}
	}
}

func extractJSStaticImport(node *sitter.Node, source []byte) (Import, bool) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == jsNodeString {
			path := unquoteJS(child.Content(source))
			pt := node.StartPoint()
			return Import{Path: path, Location: Location{StartLine: int(pt.Row) + 1, StartCol: int(pt.Column)}}, true
		}
	}
	return Import{}, false
}

func extractJSReexport(node *sitter.Node, source []byte, result *ParseResult) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == jsNodeString {
			path := unquoteJS(child.Content(source))
			pt := node.StartPoint()
			result.Imports = append(result.Imports, Import{Path: path, Location: Location{StartLine: int(pt.Row) + 1, StartCol: int(pt.Column)}})
		}
	}
}

// extractJSCommonJSImport scans a variable declaration for a
// `require("...")` call expression, Ground's only recognized CommonJS
// import form.
func extractJSCommonJSImport(node *sitter.Node, source []byte, result *ParseResult) {
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		if n == nil {
			return
		}
		if n.Type() == jsNodeCallExpression {
			fn := n.ChildByFieldName("function")
			if fn != nil && fn.Content(source) == "require" {
				args := n.ChildByFieldName("arguments")
				if args != nil {
					for i := 0; i < int(args.NamedChildCount()); i++ {
						arg := args.NamedChild(i)
						if arg.Type() == jsNodeString {
							path := unquoteJS(arg.Content(source))
							pt := n.StartPoint()
							result.Imports = append(result.Imports, Import{Path: path, Location: Location{StartLine: int(pt.Row) + 1, StartCol: int(pt.Column)}})
						}
					}
				}
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(node)
}

func symbolFromJSFunction(node *sitter.Node, source []byte, filePath string, kind SymbolKind, opts JavaScriptParserOptions) *Symbol {
	nameNode := node.ChildByFieldName("name")
	name := "<anonymous>"
	if nameNode != nil {
		name = nameNode.Content(source)
	}
	if !opts.IncludePrivate && strings.HasPrefix(name, "_") {
		return nil
	}
	start, end := node.StartPoint(), node.EndPoint()
	sym := &Symbol{
		Name:       name,
		FilePath:   filePath,
		StartLine:  int(start.Row) + 1,
		EndLine:    int(end.Row) + 1,
		StartCol:   int(start.Column),
		EndCol:     int(end.Column),
		Language:   "javascript",
		Kind:       kind,
		Exported:   true,
		ParamCount: countJSParams(node, source),
	}
	sym.SetParsedAt()
	return sym
}

func symbolFromJSClass(node *sitter.Node, source []byte, filePath string, opts JavaScriptParserOptions) *Symbol {
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
		Language: "javascript", Kind: SymbolClass, Exported: true,
	}
	sym.SetParsedAt()

	body := node.ChildByFieldName("body")
	if body != nil {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			member := body.NamedChild(i)
			if member.Type() != jsNodeMethodDefinition {
				continue
			}
			if method := symbolFromJSFunction(member, source, filePath, SymbolMethod, opts); method != nil {
				sym.Children = append(sym.Children, method)
			}
		}
	}
	return sym
}

func symbolsFromJSVariableDeclaration(node *sitter.Node, source []byte, filePath string, opts JavaScriptParserOptions) []*Symbol {
	var symbols []*Symbol
	for i := 0; i < int(node.NamedChildCount()); i++ {
		decl := node.NamedChild(i)
		if decl.Type() != jsNodeVariableDeclarator {
			continue
		}
		nameNode := decl.ChildByFieldName("name")
		if nameNode == nil || nameNode.Type() != jsNodeIdentifier {
			continue
		}
		name := nameNode.Content(source)
		if !opts.IncludePrivate && strings.HasPrefix(name, "_") {
			continue
		}
		kind := SymbolVariable
		value := decl.ChildByFieldName("value")
		paramCount := 0
		if value != nil && (value.Type() == jsNodeArrowFunction || value.Type() == jsNodeFunctionExpression) {
			kind = SymbolFunction
			paramCount = countJSParams(value, source)
		}
		start, end := node.StartPoint(), node.EndPoint()
		sym := &Symbol{
			Name: name, FilePath: filePath,
			StartLine: int(start.Row) + 1, EndLine: int(end.Row) + 1,
			StartCol: int(start.Column), EndCol: int(end.Column),
			Language: "javascript", Kind: kind, Exported: true, ParamCount: paramCount,
		}
		sym.SetParsedAt()
		symbols = append(symbols, sym)
	}
	return symbols
}

func countJSParams(node *sitter.Node, source []byte) int {
	params := node.ChildByFieldName("parameters")
	if params == nil || params.Type() != jsNodeFormalParameters {
		return 0
	}
	return int(params.NamedChildCount())
}

func unquoteJS(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) >= 2 {
		first, last := raw[0], raw[len(raw)-1]
		if (first == '"' || first == '\'' || first == '`') && first == last {
			return raw[1 : len(raw)-1]
		}
	}
	return raw
}

var _ Parser = (*JavaScriptParser)(nil)
