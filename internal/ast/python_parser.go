package ast

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

const (
	// DefaultPyMaxFileSize bounds the content a PythonParser will
	// attempt to parse.
	DefaultPyMaxFileSize = 10 * 1024 * 1024

	pyNodeImportStatement     = "import_statement"
	pyNodeImportFromStatement = "import_from_statement"
	pyNodeFunctionDefinition  = "function_definition"
	pyNodeClassDefinition     = "class_definition"
	pyNodeDecoratedDefinition = "decorated_definition"
	pyNodeDottedName          = "dotted_name"
	pyNodeRelativeImport      = "relative_import"
	pyNodeParameters          = "parameters"
	pyNodeBlock               = "block"
)

// PythonParserOptions tunes PythonParser.
type PythonParserOptions struct {
	MaxFileSize    int
	IncludePrivate bool
	ExtractBodies  bool
}

type PythonParserOption func(*PythonParserOptions)

func WithPyMaxFileSize(n int) PythonParserOption {
	return func(o *PythonParserOptions) { o.MaxFileSize = n }
}

func WithPyIncludePrivate(include bool) PythonParserOption {
	return func(o *PythonParserOptions) { o.IncludePrivate = include }
}

func WithPyExtractBodies(extract bool) PythonParserOption {
	return func(o *PythonParserOptions) { o.ExtractBodies = extract }
}

// PythonParser parses Python source via tree-sitter.
type PythonParser struct {
	opts PythonParserOptions
}

// NewPythonParser builds a PythonParser with the given options applied
// over {MaxFileSize: DefaultPyMaxFileSize, IncludePrivate: true}.
func NewPythonParser(opts ...PythonParserOption) *PythonParser {
	o := PythonParserOptions{MaxFileSize: DefaultPyMaxFileSize, IncludePrivate: true}
	for _, apply := range opts {
		apply(&o)
	}
	return &PythonParser{opts: o}
}

func (p *PythonParser) Language() string       { return "python" }
func (p *PythonParser) Extensions() []string   { return []string{".py", ".pyi"} }

func (p *PythonParser) Parse(ctx context.Context, content []byte, filePath string) (*ParseResult, error) {
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
	parser.SetLanguage(python.GetLanguage())

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

	extractPySymbols(root, content, filePath, result, p.opts)

	if err := result.Validate(); err != nil {
		result.Errors = append(result.Errors, err.Error())
	}
	return result, nil
}

func extractPySymbols(node *sitter.Node, source []byte, filePath string, result *ParseResult, opts PythonParserOptions) {
	if node == nil {
		return
	}
	count := int(node.NamedChildCount())
	for i := 0; i < count; i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case pyNodeImportStatement:
			extractPyImport(child, source, result)
		case pyNodeImportFromStatement:
			extractPyImportFrom(child, source, result)
		case pyNodeFunctionDefinition:
			if sym := symbolFromPyFunction(child, source, filePath, SymbolFunction, opts); sym != nil {
				result.Symbols = append(result.Symbols, sym)
			}
		case pyNodeClassDefinition:
			if sym := symbolFromPyClass(child, source, filePath, opts); sym != nil {
				result.Symbols = append(result.Symbols, sym)
			}
		case pyNodeDecoratedDefinition:
			extractPySymbols(child, source, filePath, result, opts)
		default:
			extractPySymbols(child, source, filePath, result, opts)
		}
	}
}

// extractPyImport records each dotted name in a plain `import a, b.c`
// statement as a bare (non-relative) specifier.
func extractPyImport(node *sitter.Node, source []byte, result *ParseResult) {
	pt := node.StartPoint()
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == pyNodeDottedName {
			result.Imports = append(result.Imports, Import{
				Path:     child.Content(source),
				Location: Location{StartLine: int(pt.Row) + 1, StartCol: int(pt.Column)},
			})
		}
	}
}

// extractPyImportFrom records `from X import ...`. Leading-dot module
// names (`from . import x`, `from ..pkg import y`) are relative
// specifiers per §4.A; everything else is a bare specifier.
func extractPyImportFrom(node *sitter.Node, source []byte, result *ParseResult) {
	pt := node.StartPoint()
	moduleNode := node.ChildByFieldName("module_name")
	path := ""
	if moduleNode != nil {
		path = moduleNode.Content(source)
	}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == pyNodeRelativeImport {
			path = child.Content(source) + path
		}
	}
	if path == "" {
		return
	}
	result.Imports = append(result.Imports, Import{
		Path:     path,
		Location: Location{StartLine: int(pt.Row) + 1, StartCol: int(pt.Column)},
	})
}

func symbolFromPyFunction(node *sitter.Node, source []byte, filePath string, kind SymbolKind, opts PythonParserOptions) *Symbol {
	nameNode := node.ChildByFieldName("name")
	name := "<anonymous>"
	if nameNode != nil {
		name = nameNode.Content(source)
	}
	exported := !strings.HasPrefix(name, "_")
	if !opts.IncludePrivate && !exported {
		return nil
	}
	start, end := node.StartPoint(), node.EndPoint()
	sym := &Symbol{
		Name: name, FilePath: filePath,
		StartLine: int(start.Row) + 1, EndLine: int(end.Row) + 1,
		StartCol: int(start.Column), EndCol: int(end.Column),
		Language: "python", Kind: kind, Exported: exported,
		ParamCount: countPyParams(node, source),
	}
	sym.SetParsedAt()
	return sym
}

func symbolFromPyClass(node *sitter.Node, source []byte, filePath string, opts PythonParserOptions) *Symbol {
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
		Language: "python", Kind: SymbolClass, Exported: !strings.HasPrefix(name, "_"),
	}
	sym.SetParsedAt()

	body := node.ChildByFieldName("body")
	if body != nil && body.Type() == pyNodeBlock {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			member := body.NamedChild(i)
			target := member
			if member.Type() == pyNodeDecoratedDefinition {
				target = member.ChildByFieldName("definition")
			}
			if target == nil || target.Type() != pyNodeFunctionDefinition {
				continue
			}
			if method := symbolFromPyFunction(target, source, filePath, SymbolMethod, opts); method != nil {
				sym.Children = append(sym.Children, method)
			}
		}
	}
	return sym
}

func countPyParams(node *sitter.Node, source []byte) int {
	params := node.ChildByFieldName("parameters")
	if params == nil || params.Type() != pyNodeParameters {
		return 0
	}
	count := int(params.NamedChildCount())
	// `self`/`cls` is conventionally excluded from the normalized
	// signature so instance and classmethods with the same remaining
	// parameters still match.
	if count > 0 {
		first := params.NamedChild(0)
		name := first.Content(source)
		if name == "self" || name == "cls" {
			count--
		}
	}
	return count
}

var _ Parser = (*PythonParser)(nil)
