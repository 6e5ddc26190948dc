package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/matconsys/matcon-api/internal/domain/entity"
	"github.com/matconsys/matcon-api/internal/domain/enum"
	"github.com/matconsys/matcon-api/internal/domain/repository"
	"github.com/matconsys/matcon-api/pkg/apperror"
	"github.com/matconsys/matcon-api/pkg/money"
	"github.com/matconsys/matcon-api/pkg/pagination"
	"github.com/xuri/excelize/v2"
)

// ImportService moves receivables in and out of spreadsheet files. CSV is
// the import format the store's old system exports; XLSX is what the back
// office wants to read.
type ImportService struct {
	receivableRepo repository.ReceivableRepository
	now            func() time.Time
}

// NewImportService creates a new import service
func NewImportService(receivableRepo repository.ReceivableRepository) *ImportService {
	return &ImportService{
		receivableRepo: receivableRepo,
		now:            time.Now,
	}
}

// ImportRowError describes one rejected row of an import
type ImportRowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// ImportResult summarizes a receivable import. Valid rows are persisted even
// when other rows fail; failures are reported per line.
type ImportResult struct {
	ImportedCount int              `json:"imported_count"`
	Errors        []ImportRowError `json:"errors,omitempty"`
}

const importDateLayout = "2006-01-02"

// ImportReceivablesCSV reads rows of "description,customer,value,due_date"
// (value in major units, date as 2006-01-02), creating a pending receivable
// per valid row. A header row is detected and skipped.
func (s *ImportService) ImportReceivablesCSV(ctx context.Context, userID uuid.UUID, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	result := &ImportResult{}
	var batch []entity.Receivable
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Errors = append(result.Errors, ImportRowError{Line: line, Message: "malformed CSV row"})
			continue
		}
		if line == 1 && looksLikeHeader(record) {
			continue
		}

		rec, msg := parseImportRecord(record)
		if msg != "" {
			result.Errors = append(result.Errors, ImportRowError{Line: line, Message: msg})
			continue
		}
		rec.UserID = userID
		batch = append(batch, *rec)
	}

	return s.persistImport(ctx, result, batch)
}

// ImportReceivablesXLSX reads the first sheet of an XLSX workbook with the
// same columns as the CSV import. Blank rows are skipped, so workbooks with
// trailing empty rows import cleanly; the exported XLSX layout (which adds
// status and payment columns) re-imports as pending receivables.
func (s *ImportService) ImportReceivablesXLSX(ctx context.Context, userID uuid.UUID, r io.Reader) (*ImportResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperror.NewBadRequestError("File is not a valid XLSX workbook")
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, apperror.NewStoreFailureError("read XLSX", err)
	}

	result := &ImportResult{}
	var batch []entity.Receivable
	for i, record := range rows {
		line := i + 1
		if line == 1 && looksLikeHeader(record) {
			continue
		}
		if blankRow(record) {
			continue
		}

		rec, msg := parseImportRecord(record)
		if msg != "" {
			result.Errors = append(result.Errors, ImportRowError{Line: line, Message: msg})
			continue
		}
		rec.UserID = userID
		batch = append(batch, *rec)
	}

	return s.persistImport(ctx, result, batch)
}

// parseImportRecord validates one import row and builds the pending
// receivable from it. The caller fills in the importing user.
func parseImportRecord(record []string) (*entity.Receivable, string) {
	if len(record) < 4 {
		return nil, "expected 4 columns: description, customer, value, due_date"
	}

	description := strings.TrimSpace(record[0])
	customer := strings.TrimSpace(record[1])
	if description == "" || customer == "" {
		return nil, "description and customer are required"
	}

	value, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(record[2]), ",", "."), 64)
	if err != nil || value <= 0 {
		return nil, "value must be a positive number"
	}

	dueDate, err := time.Parse(importDateLayout, strings.TrimSpace(record[3]))
	if err != nil {
		return nil, "due_date must be in 2006-01-02 format"
	}

	return &entity.Receivable{
		Description: description,
		Customer:    customer,
		Value:       money.ToCents(value),
		DueDate:     dueDate,
		Status:      enum.ReceivableStatusPending,
	}, ""
}

func (s *ImportService) persistImport(ctx context.Context, result *ImportResult, batch []entity.Receivable) (*ImportResult, error) {
	if len(batch) > 0 {
		if err := s.receivableRepo.CreateBatch(ctx, batch); err != nil {
			return nil, apperror.NewStoreFailureError("import receivables", err)
		}
		result.ImportedCount = len(batch)
	}
	return result, nil
}

func looksLikeHeader(record []string) bool {
	if len(record) == 0 {
		return false
	}
	first := strings.ToLower(strings.TrimSpace(record[0]))
	return first == "description" || first == "descricao" || first == "descrição"
}

func blankRow(record []string) bool {
	for _, cell := range record {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

var exportHeader = []string{"Descrição", "Cliente", "Valor", "Vencimento", "Status", "Pagamento"}

// ExportReceivablesCSV writes the filtered receivables as CSV
func (s *ImportService) ExportReceivablesCSV(ctx context.Context, filter *repository.ReceivableFilter, w io.Writer) error {
	receivables, err := s.fetchAll(ctx, filter)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return apperror.NewStoreFailureError("write CSV", err)
	}
	today := s.now()
	for i := range receivables {
		r := &receivables[i]
		row := []string{
			r.Description,
			r.Customer,
			fmt.Sprintf("%.2f", money.FromCents(r.Value)),
			r.DueDate.Format(importDateLayout),
			r.DisplayStatus(today),
			"",
		}
		if r.PaymentDate != nil {
			row[5] = r.PaymentDate.Format(importDateLayout)
		}
		if err := writer.Write(row); err != nil {
			return apperror.NewStoreFailureError("write CSV", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return apperror.NewStoreFailureError("write CSV", err)
	}
	return nil
}

// ExportReceivablesXLSX renders the filtered receivables as an XLSX
// workbook and returns its bytes
func (s *ImportService) ExportReceivablesXLSX(ctx context.Context, filter *repository.ReceivableFilter) ([]byte, error) {
	receivables, err := s.fetchAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Recebimentos"
	f.SetSheetName("Sheet1", sheet)

	for col, title := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, title)
	}

	today := s.now()
	var total int64
	for i := range receivables {
		r := &receivables[i]
		row := i + 2
		payment := ""
		if r.PaymentDate != nil {
			payment = r.PaymentDate.Format(importDateLayout)
		}
		values := []interface{}{
			r.Description,
			r.Customer,
			money.FromCents(r.Value),
			r.DueDate.Format(importDateLayout),
			r.DisplayStatus(today),
			payment,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			f.SetCellValue(sheet, cell, v)
		}
		total += r.Value
	}

	totalRow := len(receivables) + 3
	cell, _ := excelize.CoordinatesToCellName(1, totalRow)
	f.SetCellValue(sheet, cell, "Total")
	cell, _ = excelize.CoordinatesToCellName(3, totalRow)
	f.SetCellValue(sheet, cell, money.FormatBRL(total))

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, apperror.NewStoreFailureError("write XLSX", err)
	}
	return buf.Bytes(), nil
}

// fetchAll pages through the repository so exports are not capped by the
// API page size.
func (s *ImportService) fetchAll(ctx context.Context, filter *repository.ReceivableFilter) ([]entity.Receivable, error) {
	if filter != nil && filter.Overdue && filter.Today.IsZero() {
		filter.Today = s.now()
	}

	var all []entity.Receivable
	for page := 1; ; page++ {
		params := &pagination.PaginationParams{Page: page, PerPage: 100}
		receivables, total, err := s.receivableRepo.List(ctx, params, filter)
		if err != nil {
			return nil, apperror.NewStoreFailureError("list receivables", err)
		}
		all = append(all, receivables...)
		if int64(len(all)) >= total || len(receivables) == 0 {
			return all, nil
		}
	}
}
