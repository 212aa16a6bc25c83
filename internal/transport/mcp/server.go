package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/catalogmcp/internal/domain"
	"github.com/kailas-cloud/catalogmcp/internal/domain/tool"
	"github.com/kailas-cloud/catalogmcp/internal/logger"
	"github.com/kailas-cloud/catalogmcp/internal/metrics"
)

// Handler executes one tool invocation.
type Handler func(ctx context.Context, args map[string]any) (any, error)

// Gate filters the advertised tool list. Gates run in registration order
// on every tools/list call.
type Gate interface {
	Filter(ctx context.Context, tools []tool.Descriptor) []tool.Descriptor
}

// Server dispatches MCP JSON-RPC requests to registered tools.
type Server struct {
	name     string
	version  string
	tools    []tool.Descriptor
	handlers map[string]Handler
	gates    []Gate
	logger   *zap.Logger
}

// NewServer creates an MCP server.
func NewServer(name, version string, logger *zap.Logger) *Server {
	return &Server{
		name:     name,
		version:  version,
		handlers: make(map[string]Handler),
		logger:   logger,
	}
}

// Register adds a tool and its handler. Registration order defines the
// tools/list order.
func (s *Server) Register(desc tool.Descriptor, h Handler) {
	s.tools = append(s.tools, desc)
	s.handlers[desc.Name] = h
}

// AddGate appends a tool-list gate.
func (s *Server) AddGate(g Gate) {
	s.gates = append(s.gates, g)
}

// HandleRequest processes one MCP request and returns its response.
func (s *Server) HandleRequest(ctx context.Context, req Request) Response {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req.ID)
	case "tools/list":
		return s.handleToolsList(ctx, req.ID)
	case "tools/call":
		return s.handleToolsCall(ctx, req.ID, req.Params)
	default:
		return errorResponse(req.ID, ErrCodeMethodNotFound,
			fmt.Sprintf("method %s not found", req.Method))
	}
}

func (s *Server) handleInitialize(id any) Response {
	return resultResponse(id, map[string]any{
		"protocolVersion": ProtocolVersion,
		"capabilities": map[string]any{
			"tools": map[string]any{},
		},
		"serverInfo": map[string]any{
			"name":    s.name,
			"version": s.version,
		},
	})
}

// visibleTools applies every gate, in order, to the registered tools.
func (s *Server) visibleTools(ctx context.Context) []tool.Descriptor {
	tools := s.tools
	for _, g := range s.gates {
		tools = g.Filter(ctx, tools)
	}
	return tools
}

func (s *Server) handleToolsList(ctx context.Context, id any) Response {
	tools := s.visibleTools(ctx)

	mcpTools := make([]map[string]any, 0, len(tools))
	for _, t := range tools {
		mcpTools = append(mcpTools, map[string]any{
			"name":        t.Name,
			"description": t.Description,
			"inputSchema": t.InputSchema,
		})
	}

	return resultResponse(id, map[string]any{"tools": mcpTools})
}

type toolsCallParams struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments"`
}

func (s *Server) handleToolsCall(ctx context.Context, id any, params json.RawMessage) Response {
	var callParams toolsCallParams
	if err := json.Unmarshal(params, &callParams); err != nil {
		return errorResponse(id, ErrCodeInvalidParams, err.Error())
	}

	handler, desc, ok := s.lookupVisible(ctx, callParams.Name)
	if !ok {
		return errorResponse(id, ErrCodeToolNotFound,
			fmt.Sprintf("tool %s not found", callParams.Name))
	}

	if desc.RequiresArgs && len(callParams.Arguments) == 0 {
		return s.renderToolError(ctx, id, callParams.Name,
			fmt.Errorf("%w: tool %s requires arguments", domain.ErrValidation, callParams.Name))
	}

	start := time.Now()
	payload, err := handler(ctx, callParams.Arguments)
	metrics.ToolCallDuration.WithLabelValues(callParams.Name).Observe(time.Since(start).Seconds())

	if err != nil {
		return s.renderToolError(ctx, id, callParams.Name, err)
	}

	metrics.ToolCallsTotal.WithLabelValues(callParams.Name, "success").Inc()
	result, err := textResult(payload, false)
	if err != nil {
		return errorResponse(id, ErrCodeInternal, err.Error())
	}
	return resultResponse(id, result)
}

// lookupVisible resolves a handler only for tools the gates currently
// advertise, so hidden tools cannot be invoked by name.
func (s *Server) lookupVisible(ctx context.Context, name string) (Handler, tool.Descriptor, bool) {
	h, ok := s.handlers[name]
	if !ok {
		return nil, tool.Descriptor{}, false
	}
	for _, t := range s.visibleTools(ctx) {
		if t.Name == name {
			return h, t, true
		}
	}
	return nil, tool.Descriptor{}, false
}

// userMessage strips the internal sentinel wording from an error so the
// agent-visible payload carries only the meaningful part, e.g.
// "validation error: Invalid regex pattern: x" renders as
// "Invalid regex pattern: x".
func userMessage(err error) string {
	msg := err.Error()
	for _, sentinel := range []error{domain.ErrValidation, domain.ErrNotFound} {
		s := sentinel.Error()
		msg = strings.TrimPrefix(msg, s+": ")
		msg = strings.TrimSuffix(msg, ": "+s)
	}
	return msg
}

// renderToolError maps input-shape and not-found failures to structured
// results the agent can read, and everything else to a JSON-RPC error.
// The agent never sees a raw stack trace.
func (s *Server) renderToolError(ctx context.Context, id any, name string, err error) Response {
	var pf *domain.PartialFailureError
	switch {
	case errors.As(err, &pf):
		metrics.ToolCallsTotal.WithLabelValues(name, "partial_failure").Inc()
		outcomes := make([]map[string]any, 0, len(pf.Outcomes))
		for _, o := range pf.Outcomes {
			entry := map[string]any{"target": o.Target, "ok": o.Err == nil}
			if o.Err != nil {
				entry["error"] = userMessage(o.Err)
			}
			outcomes = append(outcomes, entry)
		}
		result, mErr := textResult(map[string]any{
			"error":    pf.Error(),
			"outcomes": outcomes,
		}, true)
		if mErr != nil {
			return errorResponse(id, ErrCodeInternal, mErr.Error())
		}
		return resultResponse(id, result)

	case errors.Is(err, domain.ErrValidation), errors.Is(err, domain.ErrNotFound):
		metrics.ToolCallsTotal.WithLabelValues(name, "invalid").Inc()
		result, mErr := textResult(map[string]any{"error": userMessage(err)}, true)
		if mErr != nil {
			return errorResponse(id, ErrCodeInternal, mErr.Error())
		}
		return resultResponse(id, result)

	default:
		metrics.ToolCallsTotal.WithLabelValues(name, "error").Inc()
		logger.FromContextOr(ctx, s.logger).Error("tool execution failed",
			zap.String("tool", name),
			zap.Error(err))
		return errorResponse(id, ErrCodeToolExecFailed, "backend error")
	}
}

// ServeStdio runs the server over stdio. Blocks until the input stream
// closes or the context is cancelled.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	encoder := json.NewEncoder(out)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			resp := errorResponse(nil, ErrCodeParseError, err.Error())
			if err := encoder.Encode(resp); err != nil {
				return fmt.Errorf("encode error response: %w", err)
			}
			continue
		}

		resp := s.HandleRequest(ctx, req)
		if err := encoder.Encode(resp); err != nil {
			return fmt.Errorf("encode response: %w", err)
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read request stream: %w", err)
	}
	return nil
}

// Handler returns an http.Handler for streamable HTTP transport. POST
// bodies carry one JSON-RPC request each.
func (s *Server) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(errorResponse(nil, ErrCodeParseError, err.Error()))
			return
		}

		resp := s.HandleRequest(r.Context(), req)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})
}
