// Package server exposes the pipeline over four thin HTTP endpoints plus
// health and introspection.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/joseph-ayodele/w7-autofill/internal/common"
	"github.com/joseph-ayodele/w7-autofill/internal/fields"
	"github.com/joseph-ayodele/w7-autofill/internal/form"
	"github.com/joseph-ayodele/w7-autofill/internal/llm"
	"github.com/joseph-ayodele/w7-autofill/internal/repository"
	"github.com/joseph-ayodele/w7-autofill/internal/session"
)

// Renderer is what the generate endpoint needs from the form writer.
type Renderer interface {
	Render(ctx context.Context, mapped llm.MappedData) (form.Result, error)
}

// TemplateInspector is the optional introspection surface of the writer.
type TemplateInspector interface {
	ListTemplateFields() ([]form.FieldInfo, error)
}

type Service struct {
	cfg      *common.Config
	sessions *session.Store
	mapper   llm.FieldMapper
	writer   Renderer
	audit    repository.AuditStore
	logger   *slog.Logger
}

func New(cfg *common.Config, sessions *session.Store, mapper llm.FieldMapper, writer Renderer, audit repository.AuditStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		cfg:      cfg,
		sessions: sessions,
		mapper:   mapper,
		writer:   writer,
		audit:    audit,
		logger:   logger,
	}
}

// Routes wires every endpoint behind the CORS and request-ID middleware.
func (s *Service) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/upload", s.handleUpload)
	mux.HandleFunc("POST /api/process-client", s.handleProcessClient)
	mux.HandleFunc("POST /api/generate-pdf", s.handleGeneratePDF)
	mux.HandleFunc("GET /api/download-pdf", s.handleDownloadPDF)
	mux.HandleFunc("GET /api/debug-form", s.handleDebugForm)
	mux.HandleFunc("GET /api/health", s.handleHealth)
	return s.withCORS(s.withRequestID(s.withSession(mux)))
}

// session resolves the operator session for a request; withSession has
// already stashed the ID in the context. Requests that carry no ID share
// one session, preserving single-operator semantics.
func (s *Service) session(r *http.Request) *session.Session {
	id := common.SessionIDFromContext(r.Context())
	if id == "" {
		id = session.DefaultID
	}
	return s.sessions.Get(id)
}

func (s *Service) fieldNames() []string {
	return fields.Names()
}

func (s *Service) recordAudit(ctx context.Context, event, detail string) {
	if err := s.audit.Record(ctx, repository.AuditEvent{
		SessionID: common.SessionIDFromContext(ctx),
		Event:     event,
		Detail:    detail,
	}); err != nil {
		s.logger.Warn("audit.record_error", "event", event, "error", err)
	}
}
