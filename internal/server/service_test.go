package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/w7-autofill/internal/common"
	"github.com/joseph-ayodele/w7-autofill/internal/form"
	"github.com/joseph-ayodele/w7-autofill/internal/llm"
	"github.com/joseph-ayodele/w7-autofill/internal/repository"
	"github.com/joseph-ayodele/w7-autofill/internal/session"
)

// stubMapper mimics the mapping service deterministically: names come from
// the row, and a 9-digit ITIN is split into its 3/2/4 groups.
type stubMapper struct {
	err error
}

func (m *stubMapper) MapFields(_ context.Context, req llm.MapRequest) (llm.MappedData, []byte, error) {
	if m.err != nil {
		return nil, nil, m.err
	}
	data := llm.MappedData{
		"first_name": req.RowData["first_name"],
		"last_name":  req.RowData["last_name"],
	}
	itin := strings.ReplaceAll(req.RowData["itin"], "-", "")
	if len(itin) == 9 {
		data["previous_itin_yes"] = true
		data["previous_itin_no"] = false
		data["previous_itin_first_3"] = itin[:3]
		data["previous_itin_middle_2"] = itin[3:5]
		data["previous_itin_last_3"] = itin[5:]
	} else {
		data["previous_itin_no"] = true
		data["previous_itin_yes"] = false
	}
	raw, _ := json.Marshal(data)
	return data, raw, nil
}

// stubRenderer stands in for the PDF engine; it writes a small file so the
// download path can be exercised without a real template.
type stubRenderer struct {
	dir string
}

func (r *stubRenderer) Render(_ context.Context, mapped llm.MappedData) (form.Result, error) {
	f, err := os.CreateTemp(r.dir, "w7-*.pdf")
	if err != nil {
		return form.Result{}, err
	}
	defer f.Close()
	if _, err := f.WriteString("%PDF-1.7 stub"); err != nil {
		return form.Result{}, err
	}
	return form.Result{OutputPath: f.Name(), FieldsWritten: len(mapped)}, nil
}

// memAudit records events in memory so tests can inspect the trail.
type memAudit struct {
	mu     sync.Mutex
	events []repository.AuditEvent
}

func (a *memAudit) Record(_ context.Context, ev repository.AuditEvent) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, ev)
	return nil
}

func (a *memAudit) Recent(_ context.Context, limit int) ([]repository.AuditEvent, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if limit > len(a.events) {
		limit = len(a.events)
	}
	return a.events[len(a.events)-limit:], nil
}

func (a *memAudit) Close() error { return nil }

func newTestServer(t *testing.T, mapper llm.FieldMapper, audit repository.AuditStore) *httptest.Server {
	t.Helper()
	cfg := &common.Config{
		LLM:  common.LLMConfig{Timeout: 5 * time.Second},
		Form: common.FormConfig{TemplatePath: "testdata/absent.pdf"},
	}
	if audit == nil {
		var err error
		audit, err = repository.OpenAudit(context.Background(), "", nil)
		if err != nil {
			t.Fatal(err)
		}
	}
	sessions := session.NewStore(time.Hour, nil)
	svc := New(cfg, sessions, mapper, &stubRenderer{dir: t.TempDir()}, audit, nil)
	ts := httptest.NewServer(svc.Routes())
	t.Cleanup(ts.Close)
	return ts
}

func rosterUpload(t *testing.T, filename string) (body *bytes.Buffer, contentType string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	rows := [][]any{
		{"First Name", "Last Name", "ITIN"},
		{"Jane", "Doe", "900-70-1234"},
		{"John", "Smith", ""},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	wb, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}

	body = &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := io.Copy(fw, wb); err != nil {
		t.Fatal(err)
	}
	if err := mw.Close(); err != nil {
		t.Fatal(err)
	}
	return body, mw.FormDataContentType()
}

func doJSON(t *testing.T, ts *httptest.Server, method, path, sessionID string, body io.Reader, contentType string) (*http.Response, map[string]any) {
	t.Helper()
	req, err := http.NewRequest(method, ts.URL+path, body)
	if err != nil {
		t.Fatal(err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if sessionID != "" {
		req.Header.Set("X-Session-ID", sessionID)
	}
	resp, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	var decoded map[string]any
	raw, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("decode %s response: %v (%s)", path, err, raw)
		}
	}
	return resp, decoded
}

func TestPipelineEndToEnd(t *testing.T) {
	ts := newTestServer(t, &stubMapper{}, nil)
	const sid = "e2e"

	// Upload a two-client roster.
	body, ct := rosterUpload(t, "clients.xlsx")
	resp, got := doJSON(t, ts, http.MethodPost, "/api/upload", sid, body, ct)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("upload status %d: %v", resp.StatusCode, got)
	}
	if got["total_clients"] != float64(2) {
		t.Fatalf("total_clients = %v, want 2", got["total_clients"])
	}

	// Process the client carrying a prior ITIN.
	resp, got = doJSON(t, ts, http.MethodPost, "/api/process-client", sid,
		strings.NewReader(`{"first_name":"Jane","last_name":"Doe"}`), "application/json")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("process status %d: %v", resp.StatusCode, got)
	}
	mapped := got["mapped_data"].(map[string]any)
	if mapped["previous_itin_yes"] != true {
		t.Errorf("previous_itin_yes = %v, want true", mapped["previous_itin_yes"])
	}
	for k, want := range map[string]string{
		"previous_itin_first_3":  "900",
		"previous_itin_middle_2": "70",
		"previous_itin_last_3":   "1234",
	} {
		if mapped[k] != want {
			t.Errorf("%s = %v, want %q", k, mapped[k], want)
		}
	}
	excelData := got["excel_data"].(map[string]any)
	if excelData["itin"] != "900-70-1234" {
		t.Errorf("excel_data.itin = %v", excelData["itin"])
	}

	// Generate the form.
	resp, got = doJSON(t, ts, http.MethodPost, "/api/generate-pdf", sid, nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("generate status %d: %v", resp.StatusCode, got)
	}
	if got["pdf_ready"] != true {
		t.Fatalf("pdf_ready = %v, want true", got["pdf_ready"])
	}

	// Download it.
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/download-pdf", nil)
	req.Header.Set("X-Session-ID", sid)
	dl, err := ts.Client().Do(req)
	if err != nil {
		t.Fatal(err)
	}
	defer dl.Body.Close()
	if dl.StatusCode != http.StatusOK {
		t.Fatalf("download status %d", dl.StatusCode)
	}
	if got := dl.Header.Get("Content-Type"); got != "application/pdf" {
		t.Errorf("Content-Type = %q", got)
	}
	if cd := dl.Header.Get("Content-Disposition"); !strings.Contains(cd, "form_w7_filled.pdf") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	pdf, _ := io.ReadAll(dl.Body)
	if len(pdf) == 0 || !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Errorf("unexpected download body: %q", pdf)
	}
}

func TestGenerateBeforeProcess(t *testing.T) {
	ts := newTestServer(t, &stubMapper{}, nil)

	resp, got := doJSON(t, ts, http.MethodPost, "/api/generate-pdf", "fresh", nil, "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d, want 400 (%v)", resp.StatusCode, got)
	}
	if got["error"] == nil {
		t.Error("expected structured error payload")
	}
}

func TestUploadValidation(t *testing.T) {
	ts := newTestServer(t, &stubMapper{}, nil)

	// Wrong extension.
	body, ct := rosterUpload(t, "clients.csv")
	resp, _ := doJSON(t, ts, http.MethodPost, "/api/upload", "v", body, ct)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("csv upload status %d, want 400", resp.StatusCode)
	}

	// Legacy .xls passes the extension gate but cannot be parsed; the
	// error must say so instead of a generic parse failure.
	body, ct = rosterUpload(t, "clients.xls")
	resp, got := doJSON(t, ts, http.MethodPost, "/api/upload", "v", body, ct)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("xls upload status %d, want 400", resp.StatusCode)
	}
	if msg, _ := got["error"].(string); !strings.Contains(msg, ".xlsx") {
		t.Errorf("xls error should point at .xlsx, got %q", msg)
	}

	// No file part at all.
	empty := &bytes.Buffer{}
	mw := multipart.NewWriter(empty)
	mw.Close()
	resp, _ = doJSON(t, ts, http.MethodPost, "/api/upload", "v", empty, mw.FormDataContentType())
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing file status %d, want 400", resp.StatusCode)
	}
}

func TestAuditTrail(t *testing.T) {
	audit := &memAudit{}
	ts := newTestServer(t, &stubMapper{}, audit)
	const sid = "audited"

	body, ct := rosterUpload(t, "clients.xlsx")
	if resp, _ := doJSON(t, ts, http.MethodPost, "/api/upload", sid, body, ct); resp.StatusCode != http.StatusOK {
		t.Fatalf("upload failed: %d", resp.StatusCode)
	}
	if resp, _ := doJSON(t, ts, http.MethodPost, "/api/process-client", sid,
		strings.NewReader(`{"first_name":"Jane","last_name":"Doe"}`), "application/json"); resp.StatusCode != http.StatusOK {
		t.Fatalf("process failed: %d", resp.StatusCode)
	}

	events, err := audit.Recent(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 2 {
		t.Fatalf("recorded %d events, want 2", len(events))
	}
	for _, ev := range events {
		if ev.SessionID != sid {
			t.Errorf("%s event session = %q, want %q", ev.Event, ev.SessionID, sid)
		}
	}
	if events[0].Event != "upload" || events[1].Event != "process" {
		t.Fatalf("event order = %s, %s", events[0].Event, events[1].Event)
	}
	// The process event keeps the mapper's raw JSON for later review.
	if !strings.Contains(events[1].Detail, "Jane Doe") ||
		!strings.Contains(events[1].Detail, `"previous_itin_first_3":"900"`) {
		t.Errorf("process detail should carry the raw mapper output, got %q", events[1].Detail)
	}
}

func TestProcessClientErrors(t *testing.T) {
	ts := newTestServer(t, &stubMapper{}, nil)
	const sid = "errs"

	// Missing names.
	resp, _ := doJSON(t, ts, http.MethodPost, "/api/process-client", sid,
		strings.NewReader(`{"first_name":" "}`), "application/json")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing names status %d, want 400", resp.StatusCode)
	}

	// No roster uploaded yet.
	resp, _ = doJSON(t, ts, http.MethodPost, "/api/process-client", sid,
		strings.NewReader(`{"first_name":"Jane","last_name":"Doe"}`), "application/json")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("no roster status %d, want 400", resp.StatusCode)
	}

	// Unknown client.
	body, ct := rosterUpload(t, "clients.xlsx")
	if resp, _ := doJSON(t, ts, http.MethodPost, "/api/upload", sid, body, ct); resp.StatusCode != http.StatusOK {
		t.Fatalf("upload failed: %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, ts, http.MethodPost, "/api/process-client", sid,
		strings.NewReader(`{"first_name":"Nobody","last_name":"Here"}`), "application/json")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown client status %d, want 404", resp.StatusCode)
	}
}

func TestProcessClientUpstreamFailure(t *testing.T) {
	ts := newTestServer(t, &stubMapper{err: fmt.Errorf("mapping service request: connection refused")}, nil)
	const sid = "down"

	body, ct := rosterUpload(t, "clients.xlsx")
	if resp, _ := doJSON(t, ts, http.MethodPost, "/api/upload", sid, body, ct); resp.StatusCode != http.StatusOK {
		t.Fatalf("upload failed")
	}
	resp, got := doJSON(t, ts, http.MethodPost, "/api/process-client", sid,
		strings.NewReader(`{"first_name":"Jane","last_name":"Doe"}`), "application/json")
	if resp.StatusCode != http.StatusInternalServerError {
		t.Errorf("status %d, want 500 (%v)", resp.StatusCode, got)
	}
}

func TestSessionsDoNotShareState(t *testing.T) {
	ts := newTestServer(t, &stubMapper{}, nil)

	body, ct := rosterUpload(t, "clients.xlsx")
	if resp, _ := doJSON(t, ts, http.MethodPost, "/api/upload", "op-a", body, ct); resp.StatusCode != http.StatusOK {
		t.Fatalf("upload failed")
	}

	// Operator B never uploaded anything.
	resp, _ := doJSON(t, ts, http.MethodPost, "/api/process-client", "op-b",
		strings.NewReader(`{"first_name":"Jane","last_name":"Doe"}`), "application/json")
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status %d, want 400 for session without roster", resp.StatusCode)
	}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, &stubMapper{}, nil)
	resp, got := doJSON(t, ts, http.MethodGet, "/api/health", "", nil, "")
	if resp.StatusCode != http.StatusOK || got["status"] != "healthy" {
		t.Fatalf("health = %d %v", resp.StatusCode, got)
	}
}
