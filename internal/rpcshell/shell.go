package rpcshell

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"strings"
	"time"

	"github.com/groundlang/ground/pkg/logging"
)

// Shell reads newline-delimited JSON-RPC requests from in, dispatches
// them against an Engine, and writes one response per request to out.
// Mirrors ground-mcp.rs's main() read loop; parameterized on
// io.Reader/io.Writer (rather than hardcoded stdin/stdout) so it is
// testable without a subprocess.
type Shell struct {
	Engine *Engine
	UI     *UIRegistry
	Logger *logging.Logger
}

// NewShell returns a Shell with a default UI registry and logger.
func NewShell(engine *Engine) *Shell {
	return &Shell{
		Engine: engine,
		UI:     NewUIRegistry(),
		Logger: logging.Default().With("service", "ground-mcp"),
	}
}

// Serve runs the read-dispatch-write loop until in is exhausted or ctx
// is cancelled. One malformed line yields a parse-error response and
// continues; it never aborts the loop.
func (s *Shell) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var req Request
		if err := json.Unmarshal([]byte(line), &req); err != nil {
			if writeErr := writeResponse(out, errorResponse(nullID, ErrCodeParse, "parse error: "+err.Error())); writeErr != nil {
				return writeErr
			}
			continue
		}

		resp, skip := s.dispatch(ctx, req)
		if skip {
			continue
		}
		if err := writeResponse(out, resp); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func writeResponse(out io.Writer, resp Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	data = append(data, '\n')
	_, err = out.Write(data)
	return err
}

func (s *Shell) dispatch(ctx context.Context, req Request) (Response, bool) {
	id := req.ID
	if id == nil {
		id = nullID
	}

	switch req.Method {
	case "initialize":
		return successResponse(id, map[string]any{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]any{
				"tools":     map[string]any{},
				"resources": map[string]any{"subscribe": false, "listChanged": false},
			},
			"serverInfo": map[string]any{"name": "ground", "version": "0.1.0"},
		}), false

	case "tools/list":
		return successResponse(id, map[string]any{"tools": s.toolsListPayload()}), false

	case "resources/list":
		resources := make([]map[string]any, 0, len(s.UI.List()))
		for _, r := range s.UI.List() {
			resources = append(resources, map[string]any{
				"uri": r.URI, "name": r.Name, "description": r.Description, "mimeType": r.MimeType,
			})
		}
		return successResponse(id, map[string]any{"resources": resources}), false

	case "resources/read":
		var params struct {
			URI string `json:"uri"`
		}
		_ = json.Unmarshal(req.Params, &params)
		resource, ok := s.UI.Get(params.URI)
		if !ok {
			return errorResponse(id, ErrCodeResourceNotFound, "resource not found: "+params.URI), false
		}
		return successResponse(id, map[string]any{
			"contents": []map[string]any{{
				"uri": resource.URI, "mimeType": resource.MimeType, "text": resource.Content,
			}},
		}), false

	case "tools/call":
		return s.handleToolsCall(ctx, id, req.Params), false

	case "notifications/initialized":
		return Response{}, true

	default:
		return errorResponse(id, ErrCodeMethodNotFound, "method not found: "+req.Method), false
	}
}

func (s *Shell) toolsListPayload() []map[string]any {
	specs := ListTools()
	payload := make([]map[string]any, 0, len(specs))
	for _, spec := range specs {
		entry := map[string]any{
			"name":        spec.Name,
			"description": spec.Description,
			"inputSchema": spec.InputSchema,
		}
		if duplicateUIMetaTools[spec.Name] {
			entry["_meta"] = map[string]any{"ui": map[string]any{"resourceUri": "ui://ground/duplicate-explorer"}}
		}
		payload = append(payload, entry)
	}
	return payload
}

func (s *Shell) handleToolsCall(ctx context.Context, id json.RawMessage, params json.RawMessage) Response {
	var call struct {
		Name      string         `json:"name"`
		Arguments map[string]any `json:"arguments"`
	}
	if err := json.Unmarshal(params, &call); err != nil {
		return errorResponse(id, ErrCodeParse, "invalid tools/call params: "+err.Error())
	}

	start := time.Now()
	s.Logger.Info("tool call starting", "tool", call.Name)
	result := s.Engine.HandleToolCall(ctx, call.Name, call.Arguments)
	elapsed := time.Since(start)

	if result.Success {
		s.Logger.Info("tool call completed", "tool", call.Name, "elapsed_ms", elapsed.Milliseconds())
		text, err := json.MarshalIndent(result.Content, "", "  ")
		if err != nil {
			return errorResponse(id, ErrCodeParse, err.Error())
		}
		return successResponse(id, map[string]any{
			"content": []map[string]any{{"type": "text", "text": string(text)}},
		})
	}

	s.Logger.Warn("tool call failed", "tool", call.Name, "elapsed_ms", elapsed.Milliseconds(), "error", result.Error)
	return successResponse(id, map[string]any{
		"content": []map[string]any{{"type": "text", "text": result.Error}},
		"isError": true,
	})
}
