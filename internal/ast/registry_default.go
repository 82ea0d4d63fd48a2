package ast

// NewDefaultRegistry returns a ParserRegistry with all four languages
// required by the source parser component registered: TypeScript/TSX,
// JavaScript/JSX, Python, and Rust.
func NewDefaultRegistry() *ParserRegistry {
	r := NewParserRegistry()
	r.Register(NewTypeScriptParser())
	r.Register(NewJavaScriptParser())
	r.Register(NewPythonParser())
	r.Register(NewRustParser())
	return r
}
