package server

import (
	"encoding/json"
	"net/http"

	"github.com/joseph-ayodele/w7-autofill/internal/common"
)

func (s *Service) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("http.encode_response_error", "error", err)
	}
}

// writeError surfaces every failure as a structured payload. The message is
// the client-facing description; the cause stays in the log.
func (s *Service) writeError(w http.ResponseWriter, r *http.Request, message string, err error) {
	status := common.HTTPStatus(err)
	s.logger.Error("http.request_error",
		"req_id", common.RequestIDFromContext(r.Context()),
		"path", r.URL.Path,
		"status", status,
		"message", message,
		"error", err,
	)
	s.writeJSON(w, status, map[string]any{"error": message})
}
