package fingerprint

import (
	"context"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

func languageForExtension(ext string) *sitter.Language {
	switch ext {
	case ".ts", ".mts", ".cts":
		return typescript.GetLanguage()
	case ".tsx":
		return tsx.GetLanguage()
	case ".js", ".mjs", ".cjs", ".jsx":
		return javascript.GetLanguage()
	case ".py", ".pyi":
		return python.GetLanguage()
	case ".rs":
		return rust.GetLanguage()
	default:
		return nil
	}
}

// FingerprintSource parses source with the tree-sitter grammar selected
// by extension (a leading-dot file extension, e.g. ".ts") and returns
// its AstFingerprint. The second result is false when extension names
// an unsupported language.
func FingerprintSource(source []byte, extension string) (AstFingerprint, bool) {
	lang := languageForExtension(extension)
	if lang == nil {
		return AstFingerprint{}, false
	}
	parser := sitter.NewParser()
	parser.SetLanguage(lang)
	tree, err := parser.ParseCtx(context.Background(), nil, source)
	if err != nil || tree == nil {
		return AstFingerprint{}, false
	}
	defer tree.Close()
	return FingerprintNode(tree.RootNode(), source), true
}
