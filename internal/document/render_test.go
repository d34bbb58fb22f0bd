package document

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surat-portal/internal/model"
	apperrors "surat-portal/pkg/errors"
	"surat-portal/pkg/formschema"
)

func testSubmission(t *testing.T, payload string) *model.LetterSubmission {
	t.Helper()
	var p formschema.Payload
	require.NoError(t, json.Unmarshal([]byte(payload), &p))

	created := time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)
	return &model.LetterSubmission{
		ID:          "7f1d5a2e-3c44-4b8e-9d1a-1b2c3d4e5f60",
		TemplateID:  "0a9b8c7d-6e5f-4a3b-2c1d-0e9f8a7b6c5d",
		Title:       "Surat Keterangan Mahasiswa",
		Payload:     p,
		Status:      model.StatusInReview,
		CreatedByID: "u-1",
		Timestamps:  model.Timestamps{CreatedAt: created, UpdatedAt: created.Add(time.Hour)},
	}
}

func testTemplate() *model.FormTemplate {
	return &model.FormTemplate{ID: "0a9b8c7d-6e5f-4a3b-2c1d-0e9f8a7b6c5d", Slug: "skm", Title: "Surat Keterangan Mahasiswa"}
}

func TestRenderSubmission_PayloadLines(t *testing.T) {
	sub := testSubmission(t, `{"nama":"Budi","nim":"123","semester":5}`)

	out, err := RenderSubmission(sub, testTemplate())
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
	assert.Contains(t, string(out), "nama: Budi")
	assert.Contains(t, string(out), "nim: 123")
	assert.Contains(t, string(out), "semester: 5")
	assert.Contains(t, string(out), "Status: IN_REVIEW")
	assert.Contains(t, string(out), "Dibuat: 2024-03-01T08:30:00.000Z")
	assert.NotContains(t, string(out), "Catatan Admin:")
	assert.NotContains(t, string(out), "Lampiran:")
}

func TestRenderSubmission_ListValuesAsJSON(t *testing.T) {
	sub := testSubmission(t, `{"berkas":["a.pdf","b.pdf"]}`)

	out, err := RenderSubmission(sub, testTemplate())
	require.NoError(t, err)
	// fpdf escapes nothing in this string; brackets and quotes pass through.
	assert.Contains(t, string(out), `berkas: ["a.pdf","b.pdf"]`)
}

func TestRenderSubmission_NotesAndAttachments(t *testing.T) {
	sub := testSubmission(t, `{"nama":"Budi"}`)
	notes := "Sudah diverifikasi"
	sub.Notes = &notes
	sub.Attachments = []model.SubmissionAttachment{
		{PublicID: "surat/ktm", URL: "https://res.example.com/ktm.jpg"},
	}

	out, err := RenderSubmission(sub, testTemplate())
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, "Catatan Admin:")
	assert.Contains(t, s, notes)
	assert.Contains(t, s, "Lampiran:")
	assert.Contains(t, s, "surat/ktm")
	assert.Contains(t, s, "https://res.example.com/ktm.jpg")
}

func TestRenderSubmission_Deterministic(t *testing.T) {
	sub := testSubmission(t, `{"nama":"Budi","nim":"123"}`)

	a, err := RenderSubmission(sub, testTemplate())
	require.NoError(t, err)
	b, err := RenderSubmission(sub, testTemplate())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRenderSubmission_EmptyPayload(t *testing.T) {
	sub := testSubmission(t, `{}`)

	out, err := RenderSubmission(sub, testTemplate())
	require.NoError(t, err)
	assert.Contains(t, string(out), "Data Form:")
}

func TestRenderSubmission_Malformed(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.LetterSubmission)
		tpl    *model.FormTemplate
	}{
		{"missing id", func(s *model.LetterSubmission) { s.ID = "" }, testTemplate()},
		{"missing template id", func(s *model.LetterSubmission) { s.TemplateID = "" }, testTemplate()},
		{"missing status", func(s *model.LetterSubmission) { s.Status = "" }, testTemplate()},
		{"missing template", func(*model.LetterSubmission) {}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := testSubmission(t, `{"nama":"Budi"}`)
			tt.mutate(sub)

			_, err := RenderSubmission(sub, tt.tpl)
			require.Error(t, err)
			_, ok := apperrors.AsRender(err)
			assert.True(t, ok, "expected RenderError, got %T", err)
		})
	}

	_, err := RenderSubmission(nil, testTemplate())
	_, ok := apperrors.AsRender(err)
	assert.True(t, ok)
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "surat-abc.pdf", FileName("abc"))
}
