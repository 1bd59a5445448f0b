// Package form translates mapped data onto the W-7 template's interactive
// fields and serializes a filled copy for download.
package form

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfform "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/form"

	"github.com/joseph-ayodele/w7-autofill/internal/fields"
	"github.com/joseph-ayodele/w7-autofill/internal/llm"
)

var (
	// ErrTemplateMissing means the form template file is absent or unreadable.
	ErrTemplateMissing = errors.New("form template missing")
	// ErrNoFieldsWritten means no translated value matched a template field.
	ErrNoFieldsWritten = errors.New("no form fields written")
)

// Result reports one render: where the filled form landed, how many fields
// took a value, and which mapped keys had no dictionary entry.
type Result struct {
	OutputPath    string
	FieldsWritten int
	Unmapped      []string
}

// Writer fills the static template with translated values.
type Writer struct {
	templatePath string
	outputDir    string
	logger       *slog.Logger
}

func NewWriter(templatePath, outputDir string, logger *slog.Logger) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	if outputDir == "" {
		outputDir = os.TempDir()
	}
	return &Writer{templatePath: templatePath, outputDir: outputDir, logger: logger}
}

// Render translates mapped data, fills every matching template field, and
// writes the result to a fresh file in the output directory. The temp file
// is removed on every failure path after its creation.
func (w *Writer) Render(ctx context.Context, mapped llm.MappedData) (Result, error) {
	start := time.Now()
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	tr := Translate(mapped)
	if len(tr.Values) == 0 {
		return Result{Unmapped: tr.Unmapped}, ErrNoFieldsWritten
	}

	tf, err := os.Open(w.templatePath)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s: %v", ErrTemplateMissing, w.templatePath, err)
	}
	defer func() {
		if cerr := tf.Close(); cerr != nil {
			w.logger.Warn("form.render.template_close_error", "error", cerr)
		}
	}()

	templateFields, err := api.FormFields(tf, nil)
	if err != nil {
		return Result{}, fmt.Errorf("read template fields: %w", err)
	}

	doc, written := w.buildFillDoc(templateFields, tr.Values)
	if written == 0 {
		return Result{Unmapped: tr.Unmapped}, ErrNoFieldsWritten
	}
	fillJSON, err := json.Marshal(doc)
	if err != nil {
		return Result{}, fmt.Errorf("encode fill data: %w", err)
	}

	if _, err := tf.Seek(0, io.SeekStart); err != nil {
		return Result{}, fmt.Errorf("rewind template: %w", err)
	}

	out, err := os.CreateTemp(w.outputDir, "w7-*.pdf")
	if err != nil {
		return Result{}, fmt.Errorf("create output file: %w", err)
	}
	if err := api.FillForm(tf, bytes.NewReader(fillJSON), out, nil); err != nil {
		_ = out.Close()
		_ = os.Remove(out.Name())
		return Result{}, fmt.Errorf("fill form: %w", err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(out.Name())
		return Result{}, fmt.Errorf("close output file: %w", err)
	}

	w.logger.Info("form.render.ok",
		"output", out.Name(),
		"fields_written", written,
		"unmapped", len(tr.Unmapped),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return Result{OutputPath: out.Name(), FieldsWritten: written, Unmapped: tr.Unmapped}, nil
}

// pdfcpu form-data document, the shape `pdfcpu form fill` consumes.
type textFieldEntry struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Locked bool   `json:"locked"`
}

type checkBoxEntry struct {
	Name   string `json:"name"`
	Value  bool   `json:"value"`
	Locked bool   `json:"locked"`
}

type formEntry struct {
	TextFields []textFieldEntry `json:"textfield,omitempty"`
	CheckBoxes []checkBoxEntry  `json:"checkbox,omitempty"`
}

type fillDoc struct {
	Forms []formEntry `json:"forms"`
}

// buildFillDoc walks the template's fields and emits a fill entry for every
// one that a translated value addresses. A value whose kind disagrees with
// the widget type is logged and skipped rather than aborting the render.
func (w *Writer) buildFillDoc(templateFields []pdfform.Field, values map[string]FieldValue) (fillDoc, int) {
	var entry formEntry
	written := 0
	for _, f := range templateFields {
		name := f.Name
		if name == "" {
			name = f.ID
		}
		v, ok := matchValue(values, name)
		if !ok {
			continue
		}
		switch f.Typ {
		case pdfform.FTText, pdfform.FTDate:
			if v.Kind != fields.Text {
				w.logger.Warn("form.render.type_mismatch", "field", name, "widget", "text")
				continue
			}
			entry.TextFields = append(entry.TextFields, textFieldEntry{Name: name, Value: v.Text})
			written++
		case pdfform.FTCheckBox:
			if v.Kind != fields.Checkbox {
				w.logger.Warn("form.render.type_mismatch", "field", name, "widget", "checkbox")
				continue
			}
			entry.CheckBoxes = append(entry.CheckBoxes, checkBoxEntry{Name: name, Value: v.Checked})
			written++
		default:
			w.logger.Warn("form.render.unsupported_widget", "field", name)
		}
	}
	return fillDoc{Forms: []formEntry{entry}}, written
}

// matchValue resolves a template field name against the translated values,
// tolerating partial names on either side of the AcroForm hierarchy.
func matchValue(values map[string]FieldValue, name string) (FieldValue, bool) {
	if v, ok := values[name]; ok {
		return v, true
	}
	for target, v := range values {
		if strings.HasSuffix(target, "."+name) || strings.HasSuffix(name, "."+target) {
			return v, true
		}
	}
	return FieldValue{}, false
}

// FieldInfo describes one interactive field on the template, for the
// introspection endpoint.
type FieldInfo struct {
	Pages []int  `json:"pages"`
	Name  string `json:"name"`
	Type  string `json:"type"`
}

// ListTemplateFields dumps the template's interactive fields.
func (w *Writer) ListTemplateFields() ([]FieldInfo, error) {
	tf, err := os.Open(w.templatePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrTemplateMissing, w.templatePath, err)
	}
	defer tf.Close()

	templateFields, err := api.FormFields(tf, nil)
	if err != nil {
		return nil, fmt.Errorf("read template fields: %w", err)
	}
	out := make([]FieldInfo, 0, len(templateFields))
	for _, f := range templateFields {
		name := f.Name
		if name == "" {
			name = f.ID
		}
		out = append(out, FieldInfo{Pages: f.Pages, Name: name, Type: widgetTypeName(f.Typ)})
	}
	return out, nil
}

func widgetTypeName(t pdfform.FieldType) string {
	switch t {
	case pdfform.FTText:
		return "Text"
	case pdfform.FTDate:
		return "Date"
	case pdfform.FTCheckBox:
		return "Checkbox"
	case pdfform.FTRadioButtonGroup:
		return "RadioButtonGroup"
	case pdfform.FTComboBox:
		return "ComboBox"
	case pdfform.FTListBox:
		return "ListBox"
	default:
		return fmt.Sprintf("Type_%d", t)
	}
}
