package ast

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJavaScriptParserExtractsFunctionAndImports(t *testing.T) {
	src := []byte(`
import { helper } from "./helper.js";
const fs = require("./util");

export function add(a, b) {
  return a + b;
}

class Greeter {
  greet(name) {
    return "hi " + name;
  }
}
`)
	parser := NewJavaScriptParser()
	result, err := parser.Parse(context.Background(), src, "index.js")
	require.NoError(t, err)
	require.NotNil(t, result)

	assert.Equal(t, "javascript", result.Language)
	assert.NotEmpty(t, result.Hash)
	assert.False(t, result.HasErrors())

	var paths []string
	for _, imp := range result.Imports {
		paths = append(paths, imp.Path)
	}
	assert.Contains(t, paths, "./helper.js")
	assert.Contains(t, paths, "./util")

	var names []string
	for _, sym := range result.Symbols {
		names = append(names, sym.Name)
	}
	assert.Contains(t, names, "add")
	assert.Contains(t, names, "Greeter")
}

func TestJavaScriptParserRejectsOversizedContent(t *testing.T) {
	parser := NewJavaScriptParser(WithJSMaxFileSize(4))
	_, err := parser.Parse(context.Background(), []byte("12345"), "big.js")
	require.Error(t, err)
	assert.True(t, IsParseError(err))
}

func TestJavaScriptParserRejectsInvalidUTF8(t *testing.T) {
	parser := NewJavaScriptParser()
	_, err := parser.Parse(context.Background(), []byte{0xff, 0xfe, 0x00}, "bad.js")
	require.Error(t, err)
}

func TestJavaScriptParserCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	parser := NewJavaScriptParser()
	_, err := parser.Parse(ctx, []byte("const x = 1;"), "x.js")
	require.Error(t, err)
}
