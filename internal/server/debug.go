package server

import (
	"net/http"
	"os"

	"github.com/joseph-ayodele/w7-autofill/internal/fields"
)

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"message": "W-7 form processor API is running",
	})
}

// handleDebugForm reports dictionary and template state. Template field
// enumeration is best-effort: a missing template shows up as an error
// string, not a failed request.
func (s *Service) handleDebugForm(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r)

	clientsLoaded := 0
	if t := sess.Roster(); t != nil {
		clientsLoaded = len(t.Clients)
	}

	_, statErr := os.Stat(s.cfg.Form.TemplatePath)
	info := map[string]any{
		"template_path":        s.cfg.Form.TemplatePath,
		"template_exists":      statErr == nil,
		"field_mapping_count":  fields.Count(),
		"sample_field_mapping": fields.Sample(10),
		"clients_loaded":       clientsLoaded,
		"sessions_active":      s.sessions.Len(),
	}

	if inspector, ok := s.writer.(TemplateInspector); ok && statErr == nil {
		tfs, err := inspector.ListTemplateFields()
		if err != nil {
			info["pdf_error"] = err.Error()
		} else {
			if len(tfs) > 20 {
				info["pdf_form_fields_sample"] = tfs[:20]
			} else {
				info["pdf_form_fields_sample"] = tfs
			}
			info["total_pdf_fields"] = len(tfs)
		}
	}

	if events, err := s.audit.Recent(r.Context(), 10); err == nil && len(events) > 0 {
		info["recent_jobs"] = events
	}

	s.writeJSON(w, http.StatusOK, info)
}
