package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/matconsys/matcon-api/internal/domain/entity"
	"github.com/matconsys/matcon-api/internal/domain/enum"
	"github.com/matconsys/matcon-api/pkg/apperror"
)

func newImportServiceForTest() (*ImportService, *fakeReceivableRepo) {
	repo := newFakeReceivableRepo()
	svc := NewImportService(repo)
	svc.now = func() time.Time { return time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC) }
	return svc, repo
}

func TestImportReceivablesCSV(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("imports valid rows and skips the header", func(t *testing.T) {
		svc, repo := newImportServiceForTest()
		csvData := strings.Join([]string{
			"description,customer,value,due_date",
			"Cimento 50kg x20,Construtora Silva,710.00,2026-04-15",
			"Areia média,João Pedreiro,\"89,90\",2026-04-01",
		}, "\n")

		result, err := svc.ImportReceivablesCSV(ctx, userID, strings.NewReader(csvData))
		require.NoError(t, err)
		assert.Equal(t, 2, result.ImportedCount)
		assert.Empty(t, result.Errors)

		require.Len(t, repo.rows, 2)
		for _, r := range repo.rows {
			assert.Equal(t, enum.ReceivableStatusPending, r.Status)
			assert.Equal(t, userID, r.UserID)
		}
	})

	t.Run("comma decimals are converted to cents", func(t *testing.T) {
		svc, repo := newImportServiceForTest()
		csvData := "Tijolos,Obra Central,\"1234,56\",2026-05-01\n"

		result, err := svc.ImportReceivablesCSV(ctx, userID, strings.NewReader(csvData))
		require.NoError(t, err)
		assert.Equal(t, 1, result.ImportedCount)

		var imported *entity.Receivable
		for _, r := range repo.rows {
			imported = r
		}
		require.NotNil(t, imported)
		assert.Equal(t, int64(123456), imported.Value)
	})

	t.Run("bad rows fail individually with line numbers", func(t *testing.T) {
		svc, repo := newImportServiceForTest()
		csvData := strings.Join([]string{
			"Cimento,Cliente A,100.00,2026-04-01", // ok
			"Areia,Cliente B,abc,2026-04-01",      // bad value
			",Cliente C,50.00,2026-04-01",         // missing description
			"Brita,Cliente D,75.00,15/04/2026",    // bad date
			"Cal,Cliente E,30.00",                 // missing column
			"Telha,Cliente F,-10.00,2026-04-01",   // negative value
		}, "\n")

		result, err := svc.ImportReceivablesCSV(ctx, userID, strings.NewReader(csvData))
		require.NoError(t, err)
		assert.Equal(t, 1, result.ImportedCount)
		require.Len(t, result.Errors, 5)

		lines := make([]int, 0, len(result.Errors))
		for _, e := range result.Errors {
			lines = append(lines, e.Line)
		}
		assert.Equal(t, []int{2, 3, 4, 5, 6}, lines)
		assert.Len(t, repo.rows, 1)
	})

	t.Run("empty file imports nothing", func(t *testing.T) {
		svc, repo := newImportServiceForTest()

		result, err := svc.ImportReceivablesCSV(ctx, userID, strings.NewReader(""))
		require.NoError(t, err)
		assert.Equal(t, 0, result.ImportedCount)
		assert.Empty(t, result.Errors)
		assert.Empty(t, repo.rows)
	})
}

func buildImportWorkbook(t *testing.T, rows [][]interface{}) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return bytes.NewReader(buf.Bytes())
}

func TestImportReceivablesXLSX(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("imports valid rows and skips header and blank rows", func(t *testing.T) {
		svc, repo := newImportServiceForTest()
		workbook := buildImportWorkbook(t, [][]interface{}{
			{"Descrição", "Cliente", "Valor", "Vencimento"},
			{"Cimento 50kg x20", "Construtora Silva", "710.00", "2026-04-15"},
			{"", "", "", ""},
			{"Areia média", "João Pedreiro", "89,90", "2026-04-01"},
		})

		result, err := svc.ImportReceivablesXLSX(ctx, userID, workbook)
		require.NoError(t, err)
		assert.Equal(t, 2, result.ImportedCount)
		assert.Empty(t, result.Errors)

		require.Len(t, repo.rows, 2)
		values := make(map[int64]bool)
		for _, r := range repo.rows {
			assert.Equal(t, enum.ReceivableStatusPending, r.Status)
			assert.Equal(t, userID, r.UserID)
			values[r.Value] = true
		}
		assert.True(t, values[71000])
		assert.True(t, values[8990])
	})

	t.Run("bad rows fail individually with line numbers", func(t *testing.T) {
		svc, repo := newImportServiceForTest()
		workbook := buildImportWorkbook(t, [][]interface{}{
			{"Cimento", "Cliente A", "100.00", "2026-04-01"},
			{"Areia", "Cliente B", "abc", "2026-04-01"},
			{"Brita", "Cliente C", "75.00", "15/04/2026"},
		})

		result, err := svc.ImportReceivablesXLSX(ctx, userID, workbook)
		require.NoError(t, err)
		assert.Equal(t, 1, result.ImportedCount)
		require.Len(t, result.Errors, 2)
		assert.Equal(t, 2, result.Errors[0].Line)
		assert.Equal(t, 3, result.Errors[1].Line)
		assert.Len(t, repo.rows, 1)
	})

	t.Run("rejects a file that is not a workbook", func(t *testing.T) {
		svc, repo := newImportServiceForTest()

		_, err := svc.ImportReceivablesXLSX(ctx, userID, strings.NewReader("description,customer\nnot,xlsx"))
		require.Error(t, err)
		assert.Equal(t, 400, apperror.GetAppError(err).Code)
		assert.Empty(t, repo.rows)
	})

	t.Run("exported workbook re-imports as pending", func(t *testing.T) {
		svc, repo := newImportServiceForTest()
		repo.add(&entity.Receivable{
			Description: "Cimento 50kg",
			Customer:    "Construtora Silva",
			Value:       35550,
			DueDate:     time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC),
			Status:      enum.ReceivableStatusPending,
		})

		data, err := svc.ExportReceivablesXLSX(ctx, nil)
		require.NoError(t, err)

		importSvc, importRepo := newImportServiceForTest()
		result, err := importSvc.ImportReceivablesXLSX(ctx, userID, bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, 1, result.ImportedCount)
		// The trailing totals row is not a receivable and is reported, not imported.
		require.Len(t, result.Errors, 1)

		require.Len(t, importRepo.rows, 1)
		for _, r := range importRepo.rows {
			assert.Equal(t, int64(35550), r.Value)
			assert.Equal(t, enum.ReceivableStatusPending, r.Status)
		}
	})
}

func TestExportReceivablesCSV(t *testing.T) {
	ctx := context.Background()

	t.Run("writes header and derived status", func(t *testing.T) {
		svc, repo := newImportServiceForTest()
		repo.add(&entity.Receivable{
			Description: "Cimento 50kg",
			Customer:    "Construtora Silva",
			Value:       35550,
			DueDate:     time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), // past due
			Status:      enum.ReceivableStatusPending,
		})

		var sb strings.Builder
		err := svc.ExportReceivablesCSV(ctx, nil, &sb)
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "Descrição,Cliente,Valor,Vencimento,Status,Pagamento", lines[0])
		assert.Equal(t, "Cimento 50kg,Construtora Silva,355.50,2026-03-01,Atrasado,", lines[1])
	})

	t.Run("settled rows carry the payment date", func(t *testing.T) {
		svc, repo := newImportServiceForTest()
		paid := time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)
		repo.add(&entity.Receivable{
			Description: "Areia",
			Customer:    "João",
			Value:       10000,
			DueDate:     time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			Status:      enum.ReceivableStatusSettled,
			PaymentDate: &paid,
		})

		var sb strings.Builder
		err := svc.ExportReceivablesCSV(ctx, nil, &sb)
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
		require.Len(t, lines, 2)
		assert.Equal(t, "Areia,João,100.00,2026-03-01,Recebido,2026-03-05", lines[1])
	})
}
