package service

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go-office-inventory/internal/model"
	"go-office-inventory/internal/repository"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const dateLayout = "2006-01-02"

type ReportKind string

const (
	ReportStock        ReportKind = "stock"
	ReportLowStock     ReportKind = "low-stock"
	ReportTransactions ReportKind = "transactions"
	ReportConsumption  ReportKind = "consumption"
)

// ReportQuery only applies to the transaction report. Dates are inclusive, YYYY-MM-DD.
type ReportQuery struct {
	StartDate string
	EndDate   string
	Type      string
}

// Report is a rendered workbook ready to be served as an attachment
type Report struct {
	Filename string
	Content  *bytes.Buffer
}

type ReportService interface {
	Generate(ctx context.Context, kind ReportKind, q ReportQuery) (*Report, error)
}

type reportService struct {
	dashboardRepo repository.DashboardRepository
	txRepo        repository.TransactionRepository
	logger        *zap.Logger
	now           func() time.Time
}

func NewReportService(dashboardRepo repository.DashboardRepository, txRepo repository.TransactionRepository, logger *zap.Logger) ReportService {
	return &reportService{
		dashboardRepo: dashboardRepo,
		txRepo:        txRepo,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *reportService) Generate(ctx context.Context, kind ReportKind, q ReportQuery) (*Report, error) {
	var (
		headers []interface{}
		rows    [][]interface{}
		err     error
	)

	switch kind {
	case ReportStock:
		headers, rows, err = s.stockRows(ctx, false)
	case ReportLowStock:
		headers, rows, err = s.stockRows(ctx, true)
	case ReportTransactions:
		headers, rows, err = s.transactionRows(ctx, q)
	case ReportConsumption:
		headers, rows, err = s.consumptionRows(ctx)
	default:
		return nil, validationError("unknown report '%s'", kind)
	}
	if err != nil {
		return nil, err
	}

	buf, err := writeWorkbook(string(kind), headers, rows)
	if err != nil {
		s.logger.Error("Failed to render report", zap.String("report", string(kind)), zap.Error(err))
		return nil, err
	}

	return &Report{
		Filename: fmt.Sprintf("%s-report-%s.xlsx", kind, s.now().Format(dateLayout)),
		Content:  buf,
	}, nil
}

func (s *reportService) stockRows(ctx context.Context, lowOnly bool) ([]interface{}, [][]interface{}, error) {
	var (
		items []model.ItemListRow
		err   error
	)
	if lowOnly {
		items, err = s.dashboardRepo.LowStockItems(ctx)
	} else {
		items, err = s.dashboardRepo.AllItems(ctx)
	}
	if err != nil {
		return nil, nil, err
	}

	headers := []interface{}{"SKU", "Name", "Category", "Quantity", "Unit", "Low Stock Threshold", "Status"}
	rows := make([][]interface{}, 0, len(items))
	for _, it := range items {
		status := "OK"
		if it.IsLowStock() {
			status = "LOW"
		}
		rows = append(rows, []interface{}{
			it.SKU, it.Name, categoryLabel(it.CategoryName), it.CurrentQuantity, it.UnitOfMeasurement, it.LowStockThreshold, status,
		})
	}
	return headers, rows, nil
}

func (s *reportService) transactionRows(ctx context.Context, q ReportQuery) ([]interface{}, [][]interface{}, error) {
	filter := repository.TransactionFilter{}

	txType, err := parseTransactionType(q.Type)
	if err != nil {
		return nil, nil, err
	}
	filter.Type = txType

	if q.StartDate != "" {
		start, err := time.ParseInLocation(dateLayout, q.StartDate, time.Local)
		if err != nil {
			return nil, nil, validationError("invalid start_date format, use YYYY-MM-DD")
		}
		filter.From = &start
	}
	if q.EndDate != "" {
		end, err := time.ParseInLocation(dateLayout, q.EndDate, time.Local)
		if err != nil {
			return nil, nil, validationError("invalid end_date format, use YYYY-MM-DD")
		}
		before := end.AddDate(0, 0, 1)
		filter.Before = &before
	}
	if filter.From != nil && filter.Before != nil && !filter.From.Before(*filter.Before) {
		return nil, nil, validationError("start_date must not be after end_date")
	}

	entries, err := s.txRepo.ListForReport(ctx, filter)
	if err != nil {
		return nil, nil, err
	}

	headers := []interface{}{"Date", "Item", "Type", "Quantity Change", "User", "Details"}
	rows := make([][]interface{}, 0, len(entries))
	for _, e := range entries {
		details, err := e.Details.Value()
		if err != nil {
			s.logger.Error("Failed to encode transaction details", zap.String("transaction_id", e.ID.String()), zap.Error(err))
			return nil, nil, fmt.Errorf("encode details of transaction %s: %w", e.ID, err)
		}
		if details == nil {
			details = ""
		}
		rows = append(rows, []interface{}{
			e.CreatedAt.Format("2006-01-02 15:04:05"), e.ItemName, string(e.TransactionType), e.QuantityChange, e.UserName, details,
		})
	}
	return headers, rows, nil
}

func (s *reportService) consumptionRows(ctx context.Context) ([]interface{}, [][]interface{}, error) {
	consumption, err := s.dashboardRepo.Consumption(ctx)
	if err != nil {
		return nil, nil, err
	}

	headers := []interface{}{"Item", "Category", "Total Distributed"}
	rows := make([][]interface{}, 0, len(consumption))
	for _, c := range consumption {
		rows = append(rows, []interface{}{c.Name, categoryLabel(c.CategoryName), c.TotalDistributed})
	}
	return headers, rows, nil
}

func categoryLabel(name *string) string {
	if name == nil {
		return "-"
	}
	return *name
}

// writeWorkbook renders one sheet with a bold header row
func writeWorkbook(sheet string, headers []interface{}, rows [][]interface{}) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheet, "A1", lastHeader, bold); err != nil {
		return nil, err
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := row
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}

	lastCol, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return nil, err
	}
	if err := f.SetColWidth(sheet, "A", lastCol, 20); err != nil {
		return nil, err
	}

	return f.WriteToBuffer()
}
