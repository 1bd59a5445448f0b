package server

import (
	"errors"
	"net/http"

	"github.com/joseph-ayodele/w7-autofill/internal/common"
	"github.com/joseph-ayodele/w7-autofill/internal/form"
)

// handleGeneratePDF fills the form template with the session's last mapped
// client and keeps the output path for download.
func (s *Service) handleGeneratePDF(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := s.session(r)

	clientName, mapped, ok := sess.Mapped()
	if !ok {
		s.writeError(w, r, "no form data available, please process a client first",
			common.InvalidArgumentError("no processed client"))
		return
	}

	res, err := s.writer.Render(ctx, mapped)
	if err != nil {
		msg := "failed to generate PDF"
		switch {
		case errors.Is(err, form.ErrTemplateMissing):
			msg = "form template is missing"
		case errors.Is(err, form.ErrNoFieldsWritten):
			msg = "no form fields could be written"
		}
		s.writeError(w, r, msg, common.NewAppError("RENDER_ERROR", msg, http.StatusInternalServerError, err))
		return
	}

	sess.SetOutput(res.OutputPath)
	s.recordAudit(ctx, "generate", clientName)
	s.logger.Info("generate.ok",
		"req_id", common.RequestIDFromContext(ctx),
		"session_id", sess.ID(),
		"client", clientName,
		"fields_written", res.FieldsWritten,
		"unmapped", len(res.Unmapped),
	)

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"message":        "PDF generated successfully",
		"pdf_ready":      true,
		"fields_written": res.FieldsWritten,
		"unmapped_keys":  res.Unmapped,
	})
}
