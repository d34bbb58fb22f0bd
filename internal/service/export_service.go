package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"surat-portal/internal/dto"
	"surat-portal/internal/model"
	"surat-portal/internal/repository"
	apperrors "surat-portal/pkg/errors"
)

// ── export errors ──

var (
	ErrExportAdminOnly    = fmt.Errorf("%w: hanya admin yang dapat mengekspor", apperrors.ErrForbidden)
	ErrExportGenerateFail = errors.New("gagal membuat berkas Excel")
)

const exportSheet = "Pengajuan"

// fixed leading columns; payload keys follow in first-seen order
var exportHeaders = []string{
	"ID", "Judul", "Template", "Status", "Pengaju", "Email", "Dibuat", "Diperbarui", "Catatan", "Jumlah Lampiran",
}

// ExportService spreadsheet export of submissions.
//
// One row per submission. Payload values get one column per key seen across
// the exported rows, so templates with different schemas share a sheet.
type ExportService interface {
	ExportSubmissions(ctx context.Context, req *dto.SubmissionListRequest, actor *Actor) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService creates an ExportService.
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger, now: time.Now}
}

func (s *exportService) ExportSubmissions(ctx context.Context, req *dto.SubmissionListRequest, actor *Actor) (*bytes.Buffer, string, error) {
	if actor == nil {
		return nil, "", apperrors.ErrUnauthorized
	}
	if !actor.IsAdmin() {
		return nil, "", ErrExportAdminOnly
	}

	// 1. load rows
	filter := repository.SubmissionFilter{}
	if req != nil {
		filter.TemplateID = strings.TrimSpace(req.TemplateID)
		filter.Status = model.SubmissionStatus(strings.TrimSpace(req.Status))
	}
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, "", apperrors.FieldError("status", "status tidak valid")
	}

	subs, err := s.repo.Submission.List(ctx, filter)
	if err != nil {
		s.logger.Error("list submissions for export failed", zap.Error(err))
		return nil, "", err
	}

	// 2. payload columns
	var payloadKeys []string
	seen := make(map[string]bool)
	for i := range subs {
		for _, k := range subs[i].Payload.Keys() {
			if !seen[k] {
				seen[k] = true
				payloadKeys = append(payloadKeys, k)
			}
		}
	}

	// 3. build workbook
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(exportSheet)
	if err != nil {
		s.logger.Error("create sheet failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	headers := append(append([]string{}, exportHeaders...), payloadKeys...)
	for i, h := range headers {
		f.SetCellValue(exportSheet, cell(colName(i), 1), h)
	}
	f.SetCellStyle(exportSheet, "A1", cell(colName(len(headers)-1), 1), headerStyle)
	f.SetColWidth(exportSheet, "A", "A", 38)
	f.SetColWidth(exportSheet, "B", colName(len(headers)-1), 20)
	f.SetPanes(exportSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})

	for i := range subs {
		sub := &subs[i]
		row := i + 2

		values := []interface{}{
			sub.ID,
			sub.Title,
			templateTitle(sub),
			string(sub.Status),
			creatorName(sub),
			creatorEmail(sub),
			isoTime(sub.CreatedAt),
			isoTime(sub.UpdatedAt),
			derefString(sub.Notes),
			len(sub.Attachments),
		}
		for _, k := range payloadKeys {
			v, _ := sub.Payload.Get(k)
			values = append(values, exportValue(v))
		}
		for c, v := range values {
			f.SetCellValue(exportSheet, cell(colName(c), row), v)
		}
	}

	// 4. write
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("write workbook failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	s.logger.Info("submissions exported", zap.Int("rows", len(subs)), zap.String("by", actor.ID))

	filename := fmt.Sprintf("pengajuan_%s.xlsx", s.now().Format("20060102"))
	return buf, filename, nil
}

// ── helpers ──

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func templateTitle(sub *model.LetterSubmission) string {
	if sub.Template == nil {
		return sub.TemplateID
	}
	return sub.Template.Title
}

func creatorName(sub *model.LetterSubmission) string {
	if sub.CreatedBy == nil {
		return sub.CreatedByID
	}
	return sub.CreatedBy.Name
}

func creatorEmail(sub *model.LetterSubmission) string {
	if sub.CreatedBy == nil {
		return ""
	}
	return sub.CreatedBy.Email
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// exportValue keeps strings as text and writes other values as JSON.
func exportValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case json.Number:
		return t.String()
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}
