// CLAUDE:SUMMARY Registers intake pipeline tools (process, classify, formats) on an MCP server.
package pipeline

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/moncel/intake/classify"
)

// RegisterMCP registers intake tools on an MCP server.
func (p *Pipeline) RegisterMCP(srv *mcp.Server) {
	p.registerProcessTool(srv)
	p.registerClassifyTool(srv)
	registerFormatsTool(srv)
}

func inputSchema(properties map[string]any, required []string) map[string]any {
	s := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		s["required"] = required
	}
	return s
}

// toolResult marshals a response into a text content result.
func toolResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		var res mcp.CallToolResult
		res.SetError(fmt.Errorf("marshal: %w", err))
		return &res, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil
}

func toolError(err error) (*mcp.CallToolResult, error) {
	var res mcp.CallToolResult
	res.SetError(err)
	return &res, nil
}

// processReq carries one document for the full pipeline. Content is
// either plain text or base64 (set encoding to "base64" for binary
// formats like PDF).
type processReq struct {
	Name     string `json:"name"`
	Hint     string `json:"hint,omitempty"`
	Content  string `json:"content"`
	Encoding string `json:"encoding,omitempty"`
}

func (r *processReq) bytes() ([]byte, error) {
	if r.Encoding == "base64" {
		return base64.StdEncoding.DecodeString(r.Content)
	}
	return []byte(r.Content), nil
}

func (p *Pipeline) registerProcessTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "intake_process",
		Description: "Run a document through the intake pipeline: classify, extract, decide, dispatch, trace.",
		InputSchema: inputSchema(map[string]any{
			"name":     map[string]any{"type": "string", "description": "Document name, extension used as format hint"},
			"hint":     map[string]any{"type": "string", "description": "Explicit format hint (extension or content type)"},
			"content":  map[string]any{"type": "string", "description": "Document content"},
			"encoding": map[string]any{"type": "string", "description": "Set to base64 for binary content"},
		}, []string{"name", "content"}),
	}

	srv.AddTool(tool, func(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var r processReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return toolError(fmt.Errorf("invalid arguments: %w", err))
		}
		content, err := r.bytes()
		if err != nil {
			return toolError(fmt.Errorf("decode content: %w", err))
		}
		rec, err := p.Process(ctx, classify.RawInput{
			ID:         r.Name,
			FormatHint: hintFor(r),
			Content:    content,
		})
		if err != nil {
			return toolError(err)
		}
		return toolResult(rec)
	})
}

func (p *Pipeline) registerClassifyTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "intake_classify",
		Description: "Classify a document's format and business intent without processing it.",
		InputSchema: inputSchema(map[string]any{
			"name":     map[string]any{"type": "string", "description": "Document name, extension used as format hint"},
			"hint":     map[string]any{"type": "string", "description": "Explicit format hint"},
			"content":  map[string]any{"type": "string", "description": "Document content"},
			"encoding": map[string]any{"type": "string", "description": "Set to base64 for binary content"},
		}, []string{"content"}),
	}

	srv.AddTool(tool, func(_ context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		var r processReq
		if err := json.Unmarshal(req.Params.Arguments, &r); err != nil {
			return toolError(fmt.Errorf("invalid arguments: %w", err))
		}
		content, err := r.bytes()
		if err != nil {
			return toolError(fmt.Errorf("decode content: %w", err))
		}
		cls := p.classifier.Classify(classify.RawInput{
			ID:         r.Name,
			FormatHint: hintFor(r),
			Content:    content,
		})
		return toolResult(cls)
	})
}

func registerFormatsTool(srv *mcp.Server) {
	tool := &mcp.Tool{
		Name:        "intake_formats",
		Description: "List the input formats the intake pipeline recognizes.",
		InputSchema: inputSchema(map[string]any{}, nil),
	}

	srv.AddTool(tool, func(_ context.Context, _ *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return toolResult(map[string]any{
			"formats": []classify.Format{
				classify.FormatEmail, classify.FormatPDF, classify.FormatJSON,
			},
		})
	})
}

// hintFor prefers the explicit hint, falling back to the name's
// extension.
func hintFor(r processReq) string {
	if r.Hint != "" {
		return r.Hint
	}
	for i := len(r.Name) - 1; i >= 0; i-- {
		if r.Name[i] == '.' {
			return r.Name[i+1:]
		}
	}
	return ""
}
