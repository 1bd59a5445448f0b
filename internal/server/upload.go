package server

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"

	"github.com/joseph-ayodele/w7-autofill/constants"
	"github.com/joseph-ayodele/w7-autofill/internal/common"
	"github.com/joseph-ayodele/w7-autofill/internal/roster"
)

const maxUploadBytes = 32 << 20

// handleUpload parses the uploaded workbook and returns the client roster.
func (s *Service) handleUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess := s.session(r)

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		s.writeError(w, r, "could not parse upload", common.InvalidArgumentError("could not parse upload"))
		return
	}
	file, hdr, err := r.FormFile("file")
	if err != nil {
		s.writeError(w, r, "no file uploaded", common.InvalidArgumentError("no file uploaded"))
		return
	}
	defer file.Close()

	if hdr.Filename == "" {
		s.writeError(w, r, "no file selected", common.InvalidArgumentError("no file selected"))
		return
	}
	ext := constants.NormalizeExt(filepath.Ext(hdr.Filename))
	if !constants.IsSpreadsheet(ext) {
		s.writeError(w, r, "please upload an Excel file (.xlsx or .xls)",
			common.InvalidArgumentErrorf("unsupported extension %q", filepath.Ext(hdr.Filename)))
		return
	}
	if ext == constants.ExtXLS {
		// The xlsx parser cannot read the legacy binary format.
		s.writeError(w, r, "legacy .xls workbooks are not supported, please re-save the file as .xlsx",
			common.InvalidArgumentError("legacy .xls format not supported"))
		return
	}

	table, err := roster.Load(file)
	if err != nil {
		msg := "failed to process Excel file"
		if errors.Is(err, roster.ErrNoNameColumns) {
			msg = "no first/last name columns found in spreadsheet"
		}
		s.writeError(w, r, msg, common.NewAppError("PARSE_ERROR", msg, http.StatusBadRequest, err))
		return
	}
	if len(table.Clients) == 0 {
		s.writeError(w, r, "no clients found in spreadsheet", common.InvalidArgumentError("no clients found"))
		return
	}

	sess.SetRoster(table)
	s.recordAudit(ctx, "upload", fmt.Sprintf("%s: %d clients", hdr.Filename, len(table.Clients)))
	s.logger.Info("upload.ok",
		"req_id", common.RequestIDFromContext(ctx),
		"session_id", sess.ID(),
		"filename", hdr.Filename,
		"clients", len(table.Clients),
	)

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":       true,
		"client_list":   table.Clients,
		"total_clients": len(table.Clients),
		"message":       fmt.Sprintf("File processed successfully. Found %d clients.", len(table.Clients)),
	})
}
