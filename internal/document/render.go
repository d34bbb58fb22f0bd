// Package document prints a letter submission as a PDF snapshot of its
// current state.
package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"

	"surat-portal/internal/model"
	apperrors "surat-portal/pkg/errors"
)

const (
	fontFamily = "Helvetica"
	lineHeight = 6.0
)

// FileName is the suggested download name for a submission's PDF.
func FileName(submissionID string) string {
	return "surat-" + submissionID + ".pdf"
}

// RenderSubmission lays out sub as a single document: title, template,
// status and timestamps, then every payload entry in stored order, then
// admin notes and attachments when present. Payload keys are printed
// whether or not tpl still declares them.
//
// Only a structurally broken record fails, with *errors.RenderError.
func RenderSubmission(sub *model.LetterSubmission, tpl *model.FormTemplate) ([]byte, error) {
	if err := check(sub, tpl); err != nil {
		return nil, err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(false)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(sub.CreatedAt)
	pdf.SetModificationDate(sub.UpdatedAt)
	pdf.SetTitle(sub.Title, true)
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont(fontFamily, "B", 16)
	pdf.MultiCell(0, 8, tr(sub.Title), "", "C", false)
	pdf.Ln(4)

	pdf.SetFont(fontFamily, "", 11)
	line(pdf, tr, "Template: "+tpl.Title)
	line(pdf, tr, "Status: "+string(sub.Status))
	line(pdf, tr, "Dibuat: "+isoTime(sub.CreatedAt))
	line(pdf, tr, "Diperbarui: "+isoTime(sub.UpdatedAt))

	heading(pdf, tr, "Data Form:")
	for _, e := range sub.Payload.Entries() {
		line(pdf, tr, e.Key+": "+formatValue(e.Value))
	}

	if sub.Notes != nil && *sub.Notes != "" {
		heading(pdf, tr, "Catatan Admin:")
		line(pdf, tr, *sub.Notes)
	}

	if len(sub.Attachments) > 0 {
		heading(pdf, tr, "Lampiran:")
		for _, a := range sub.Attachments {
			line(pdf, tr, a.PublicID+" — "+a.URL)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, &apperrors.RenderError{Reason: "write pdf", Err: err}
	}
	return buf.Bytes(), nil
}

func check(sub *model.LetterSubmission, tpl *model.FormTemplate) error {
	switch {
	case sub == nil:
		return &apperrors.RenderError{Reason: "submission is nil"}
	case sub.ID == "":
		return &apperrors.RenderError{Reason: "submission has no id"}
	case sub.TemplateID == "":
		return &apperrors.RenderError{Reason: fmt.Sprintf("submission %s has no template id", sub.ID)}
	case sub.Status == "":
		return &apperrors.RenderError{Reason: fmt.Sprintf("submission %s has no status", sub.ID)}
	case tpl == nil:
		return &apperrors.RenderError{Reason: fmt.Sprintf("template %s not available", sub.TemplateID)}
	}
	return nil
}

func heading(pdf *fpdf.Fpdf, tr func(string) string, text string) {
	pdf.Ln(4)
	pdf.SetFont(fontFamily, "B", 12)
	pdf.MultiCell(0, lineHeight+1, tr(text), "", "L", false)
	pdf.SetFont(fontFamily, "", 11)
}

func line(pdf *fpdf.Fpdf, tr func(string) string, text string) {
	pdf.MultiCell(0, lineHeight, tr(text), "", "L", false)
}

// formatValue prints strings verbatim and everything else as JSON.
func formatValue(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

func isoTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
