package server

import (
	"net/http"
	"os"

	"github.com/joseph-ayodele/w7-autofill/constants"
	"github.com/joseph-ayodele/w7-autofill/internal/common"
)

// handleDownloadPDF streams the session's generated form as an attachment.
func (s *Service) handleDownloadPDF(w http.ResponseWriter, r *http.Request) {
	sess := s.session(r)

	path := sess.Output()
	if path == "" {
		s.writeError(w, r, "no PDF available, please generate PDF first",
			common.InvalidArgumentError("nothing generated"))
		return
	}
	if _, err := os.Stat(path); err != nil {
		s.writeError(w, r, "no PDF available, please generate PDF first",
			common.InvalidArgumentError("generated file is gone"))
		return
	}

	s.recordAudit(r.Context(), "download", constants.DownloadFilename)

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+constants.DownloadFilename+`"`)
	http.ServeFile(w, r, path)
}
