package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/joseph-ayodele/w7-autofill/internal/common"
	"github.com/joseph-ayodele/w7-autofill/internal/llm"
)

// maxAuditDetail caps the mapper output stored per audit event.
const maxAuditDetail = 4096

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

type processClientRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	// RowIndex disambiguates duplicate names; optional.
	RowIndex *int `json:"row_index,omitempty"`
}

// handleProcessClient extracts one client's row, sends it to the mapping
// service, and stores the mapped result on the session.
func (s *Service) handleProcessClient(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := s.session(r)

	var req processClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, "no JSON data provided", common.InvalidArgumentError("invalid request body"))
		return
	}
	first := strings.TrimSpace(req.FirstName)
	last := strings.TrimSpace(req.LastName)
	if first == "" || last == "" {
		s.writeError(w, r, "both first_name and last_name are required",
			common.InvalidArgumentError("missing first_name or last_name"))
		return
	}

	table := sess.Roster()
	if table == nil {
		s.writeError(w, r, "no spreadsheet uploaded yet", common.InvalidArgumentError("no roster loaded"))
		return
	}

	client, ok := table.FindClient(first, last, req.RowIndex)
	if !ok {
		s.writeError(w, r, fmt.Sprintf("client %q not found", first+" "+last),
			common.NotFoundErrorf("client %s %s not found", first, last))
		return
	}
	row, err := table.Row(client.RowIndex)
	if err != nil {
		s.writeError(w, r, "failed to read client row", common.InternalError("row extraction failed", err))
		return
	}

	mapCtx, cancel := common.WithTimeout(ctx, s.cfg.LLM.Timeout)
	defer cancel()
	mapped, rawJSON, err := s.mapper.MapFields(mapCtx, llm.MapRequest{
		ClientName: client.FullName,
		RowData:    row,
		FieldNames: s.fieldNames(),
	})
	if err != nil {
		s.writeError(w, r, "failed to map client data", common.UpstreamError("mapping service failed", err))
		return
	}

	sess.SetMapped(client.FullName, mapped)
	s.recordAudit(ctx, "process", fmt.Sprintf("%s: %s", client.FullName, truncate(string(rawJSON), maxAuditDetail)))
	s.logger.Info("process_client.ok",
		"req_id", common.RequestIDFromContext(ctx),
		"session_id", sess.ID(),
		"client", client.FullName,
		"mapped_fields", len(mapped),
	)

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":     true,
		"client_name": client.FullName,
		"excel_data":  row,
		"mapped_data": mapped,
		"message":     "Client processed successfully",
	})
}
