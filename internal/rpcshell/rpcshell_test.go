package rpcshell

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/groundlang/ground/internal/registry"
)

func newTestShell(t *testing.T) *Shell {
	t.Helper()
	db, err := registry.OpenDB(registry.InMemoryConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewShell(NewEngine(db))
}

func do(t *testing.T, shell *Shell, req string) map[string]any {
	t.Helper()
	var out bytes.Buffer
	err := shell.Serve(context.Background(), strings.NewReader(req+"\n"), &out)
	require.NoError(t, err)
	if out.Len() == 0 {
		return nil
	}
	var resp map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	return resp
}

func TestInitializeReturnsServerInfo(t *testing.T) {
	shell := newTestShell(t)
	resp := do(t, shell, `{"jsonrpc":"2.0","id":1,"method":"initialize"}`)
	result := resp["result"].(map[string]any)
	serverInfo := result["serverInfo"].(map[string]any)
	assert.Equal(t, "ground", serverInfo["name"])
}

func TestToolsListIncludesAllThirteenTools(t *testing.T) {
	shell := newTestShell(t)
	resp := do(t, shell, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
	result := resp["result"].(map[string]any)
	tools := result["tools"].([]any)
	assert.Len(t, tools, 13)
}

func TestToolsListAttachesUIMetaToDuplicateTools(t *testing.T) {
	shell := newTestShell(t)
	resp := do(t, shell, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
	result := resp["result"].(map[string]any)
	tools := result["tools"].([]any)
	var found bool
	for _, raw := range tools {
		tool := raw.(map[string]any)
		if tool["name"] == "ground_compare" {
			found = true
			assert.Contains(t, tool, "_meta")
		}
	}
	assert.True(t, found)
}

func TestUnknownMethodReturnsMethodNotFound(t *testing.T) {
	shell := newTestShell(t)
	resp := do(t, shell, `{"jsonrpc":"2.0","id":3,"method":"bogus"}`)
	errObj := resp["error"].(map[string]any)
	assert.Equal(t, float64(ErrCodeMethodNotFound), errObj["code"])
}

func TestMalformedJSONReturnsParseError(t *testing.T) {
	shell := newTestShell(t)
	resp := do(t, shell, `not json`)
	errObj := resp["error"].(map[string]any)
	assert.Equal(t, float64(ErrCodeParse), errObj["code"])
}

func TestNotificationsInitializedProducesNoResponse(t *testing.T) {
	shell := newTestShell(t)
	var out bytes.Buffer
	err := shell.Serve(context.Background(), strings.NewReader(`{"jsonrpc":"2.0","method":"notifications/initialized"}`+"\n"), &out)
	require.NoError(t, err)
	assert.Equal(t, 0, out.Len())
}

func TestResourcesListReturnsDuplicateExplorer(t *testing.T) {
	shell := newTestShell(t)
	resp := do(t, shell, `{"jsonrpc":"2.0","id":4,"method":"resources/list"}`)
	result := resp["result"].(map[string]any)
	resources := result["resources"].([]any)
	require.Len(t, resources, 1)
	entry := resources[0].(map[string]any)
	assert.Equal(t, "ui://ground/duplicate-explorer", entry["uri"])
}

func TestResourcesReadUnknownURIReturnsResourceNotFound(t *testing.T) {
	shell := newTestShell(t)
	resp := do(t, shell, `{"jsonrpc":"2.0","id":5,"method":"resources/read","params":{"uri":"ui://nope"}}`)
	errObj := resp["error"].(map[string]any)
	assert.Equal(t, float64(ErrCodeResourceNotFound), errObj["code"])
}

func TestResourcesReadKnownURIReturnsContent(t *testing.T) {
	shell := newTestShell(t)
	resp := do(t, shell, `{"jsonrpc":"2.0","id":6,"method":"resources/read","params":{"uri":"ui://ground/duplicate-explorer"}}`)
	result := resp["result"].(map[string]any)
	contents := result["contents"].([]any)
	require.Len(t, contents, 1)
}

func TestToolsCallMissingArgumentReturnsIsErrorNotProtocolFault(t *testing.T) {
	shell := newTestShell(t)
	resp := do(t, shell, `{"jsonrpc":"2.0","id":7,"method":"tools/call","params":{"name":"ground_count_uses","arguments":{}}}`)
	_, hasError := resp["error"]
	assert.False(t, hasError)
	result := resp["result"].(map[string]any)
	assert.Equal(t, true, result["isError"])
}

func TestToolsCallUnimplementedDriftToolReturnsIsError(t *testing.T) {
	shell := newTestShell(t)
	resp := do(t, shell, `{"jsonrpc":"2.0","id":8,"method":"tools/call","params":{"name":"ground_find_drift","arguments":{"directory":"."}}}`)
	result := resp["result"].(map[string]any)
	assert.Equal(t, true, result["isError"])
}

func TestToolsCallCountUsesSucceeds(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir+"/a.go", "package a\n\nfunc Foo() { Foo() }\n")

	shell := newTestShell(t)
	reqJSON := `{"jsonrpc":"2.0","id":9,"method":"tools/call","params":{"name":"ground_count_uses","arguments":{"symbol":"Foo","search_path":"` + dir + `"}}}`
	resp := do(t, shell, reqJSON)
	result := resp["result"].(map[string]any)
	_, isErr := result["isError"]
	assert.False(t, isErr)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}
