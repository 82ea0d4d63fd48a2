package ast

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRustParserExtractsFunctionsAndModImports(t *testing.T) {
	src := []byte(`
mod util;
use std::collections::HashMap;

pub fn add(a: i32, b: i32) -> i32 {
    a + b
}

struct Point {
    x: i32,
    y: i32,
}
`)
	parser := NewRustParser()
	result, err := parser.Parse(context.Background(), src, "lib.rs")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "rust", result.Language)

	var names []string
	for _, sym := range result.Symbols {
		names = append(names, sym.Name)
	}
	assert.Contains(t, names, "add")
	assert.Contains(t, names, "Point")

	require.Len(t, result.Imports, 1)
	assert.Equal(t, "./util", result.Imports[0].Path)
}

func TestRustParserInlineModNotTreatedAsImport(t *testing.T) {
	src := []byte(`
mod inline {
    pub fn f() {}
}
`)
	parser := NewRustParser()
	result, err := parser.Parse(context.Background(), src, "lib.rs")
	require.NoError(t, err)
	assert.Empty(t, result.Imports)
}
