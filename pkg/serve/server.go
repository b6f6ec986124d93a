// Package serve implements the NDJSON streaming lint protocol used by
// editor integrations: one JSON request per input line, one JSON response
// per output line.
package serve

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/praetorian-inc/lintel/pkg/linter"
	"github.com/praetorian-inc/lintel/pkg/rule"
	"github.com/praetorian-inc/lintel/pkg/types"
)

// Version is the server protocol version
const Version = "1.0.0"

// Server manages the streaming linter
type Server struct {
	engine  *linter.Engine
	base    linter.Config
	encoder *json.Encoder
	decoder *json.Decoder
	logger  *slog.Logger
}

// NewServer creates a new streaming server. base is kept so "configure"
// requests can rebuild the engine with the same filter and logger.
func NewServer(engine *linter.Engine, base linter.Config, in io.Reader, out io.Writer) *Server {
	logger := base.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		engine:  engine,
		base:    base,
		encoder: json.NewEncoder(out),
		decoder: json.NewDecoder(bufio.NewReader(in)),
		logger:  logger,
	}
}

// Run starts the server main loop
func (s *Server) Run(ctx context.Context) error {
	// Send ready signal
	s.sendReady()

	// Use buffered channels for incoming requests
	reqChan := make(chan Request, 1)
	errChan := make(chan error, 1)

	go func() {
		for {
			var req Request
			if err := s.decoder.Decode(&req); err != nil {
				errChan <- err
				return
			}
			select {
			case reqChan <- req:
			case <-ctx.Done():
				return
			}
		}
	}()

	// Process requests until stdin closes or context cancels
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-errChan:
			// Drain any pending requests before handling EOF
			for {
				select {
				case req := <-reqChan:
					if s.processRequest(req) {
						return nil
					}
				default:
					// No more pending requests
					if err == io.EOF {
						return nil
					}
					s.sendError("decode", err.Error())
					return nil
				}
			}
		case req := <-reqChan:
			if s.processRequest(req) {
				return nil
			}
		}
	}
}

// processRequest handles a single request and returns true if the server should exit
func (s *Server) processRequest(req Request) bool {
	s.logger.Debug("request", "type", req.Type)
	switch req.Type {
	case "lint":
		s.handleLint(req.Payload)
	case "lint_batch":
		s.handleLintBatch(req.Payload)
	case "configure":
		s.handleConfigure(req.Payload)
	case "close":
		return true
	default:
		s.sendError("unknown", "unknown request type: "+req.Type)
	}
	return false
}

func (s *Server) sendReady() {
	s.send("ready", ReadyData{Version: Version, Rules: s.engine.RuleIDs()})
}

func (s *Server) lint(p LintPayload) (LintResult, error) {
	diags, err := s.engine.Lint(p.Source, []byte(p.Content))
	if err != nil {
		return LintResult{}, err
	}
	if diags == nil {
		diags = []*types.Diagnostic{}
	}
	return LintResult{
		Source:      p.Source,
		DocumentID:  types.ComputeDocumentID([]byte(p.Content)),
		Diagnostics: diags,
	}, nil
}

func (s *Server) handleLint(payload json.RawMessage) {
	var p LintPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError("lint", err.Error())
		return
	}

	result, err := s.lint(p)
	if err != nil {
		s.sendError("lint", err.Error())
		return
	}
	s.send("lint", result)
}

func (s *Server) handleLintBatch(payload json.RawMessage) {
	var p LintBatchPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError("lint_batch", err.Error())
		return
	}

	batch := BatchLintResult{Results: []LintResult{}}
	for _, item := range p.Items {
		result, err := s.lint(item)
		if err != nil {
			// Skip items that fail to parse
			s.logger.Warn("skipping batch item", "source", item.Source, "error", err)
			continue
		}
		batch.Results = append(batch.Results, result)
		batch.Total += len(result.Diagnostics)
	}
	s.send("lint_batch", batch)
}

func (s *Server) handleConfigure(payload json.RawMessage) {
	var p ConfigurePayload
	if err := json.Unmarshal(payload, &p); err != nil {
		s.sendError("configure", err.Error())
		return
	}

	rules := map[string]rule.Setting{}
	if len(p.Rules) > 0 {
		cfg, err := rule.NewLoader(s.logger).LoadConfig([]byte(fmt.Sprintf(`{"rules": %s}`, p.Rules)))
		if err != nil {
			s.sendError("configure", err.Error())
			return
		}
		rules = cfg.Rules
	}

	cfg := s.base
	cfg.Rules = rules
	engine, err := linter.New(cfg)
	if err != nil {
		s.sendError("configure", err.Error())
		return
	}
	s.engine = engine

	result := ConfigureResult{Rules: engine.RuleIDs()}
	if skipped := engine.Skipped(); len(skipped) > 0 {
		result.Skipped = make(map[string]string, len(skipped))
		for id, err := range skipped {
			result.Skipped[id] = err.Error()
		}
	}
	s.send("configure", result)
}

func (s *Server) send(respType string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.sendError(respType, err.Error())
		return
	}
	if err := s.encoder.Encode(Response{Success: true, Type: respType, Data: data}); err != nil {
		s.logger.Error("writing response", "type", respType, "error", err)
	}
}

func (s *Server) sendError(reqType, msg string) {
	if err := s.encoder.Encode(Response{
		Success: false,
		Type:    reqType,
		Error:   msg,
	}); err != nil {
		s.logger.Error("writing response", "type", reqType, "error", err)
	}
}
