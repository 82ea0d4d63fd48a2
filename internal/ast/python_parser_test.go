package ast

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPythonParserExtractsFunctionsAndImports(t *testing.T) {
	src := []byte(`
import os
from .helpers import util
from . import sibling

def add(a, b):
    return a + b

class Greeter:
    def greet(self, name):
        return "hi " + name
`)
	parser := NewPythonParser()
	result, err := parser.Parse(context.Background(), src, "main.py")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "python", result.Language)

	var names []string
	for _, sym := range result.Symbols {
		names = append(names, sym.Name)
	}
	assert.Contains(t, names, "add")
	assert.Contains(t, names, "Greeter")

	var paths []string
	for _, imp := range result.Imports {
		paths = append(paths, imp.Path)
	}
	assert.Contains(t, paths, "os")
}

func TestPythonParserSkipsSelfInParamCount(t *testing.T) {
	src := []byte(`
class C:
    def m(self, a, b):
        return a + b
`)
	parser := NewPythonParser()
	result, err := parser.Parse(context.Background(), src, "c.py")
	require.NoError(t, err)
	require.Len(t, result.Symbols, 1)
	require.Len(t, result.Symbols[0].Children, 1)
	assert.Equal(t, 2, result.Symbols[0].Children[0].ParamCount)
}
