package ast

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeScriptParserExtractsInterfaceAndImports(t *testing.T) {
	src := []byte(`
import { Thing } from "./thing";

export interface Widget {
  id: string;
}

export function build(w: Widget): Widget {
  return w;
}
`)
	parser := NewTypeScriptParser()
	result, err := parser.Parse(context.Background(), src, "widget.ts")
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, "typescript", result.Language)

	var names []string
	for _, sym := range result.Symbols {
		names = append(names, sym.Name)
	}
	assert.Contains(t, names, "Widget")
	assert.Contains(t, names, "build")

	var paths []string
	for _, imp := range result.Imports {
		paths = append(paths, imp.Path)
	}
	assert.Contains(t, paths, "./thing")
}

func TestTypeScriptParserSelectsTSXGrammarByExtension(t *testing.T) {
	parser := NewTypeScriptParser()
	result, err := parser.Parse(context.Background(), []byte(`export const x = 1;`), "App.tsx")
	require.NoError(t, err)
	assert.Equal(t, "typescript", result.Language)
}
