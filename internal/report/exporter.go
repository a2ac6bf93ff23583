package report

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/EmmaDeil/steps-ops-backend/internal/domain/entity"
)

// Exporter writes purchase order spreadsheets for the procurement team.
type Exporter struct {
	outputDir string
	logger    *zap.Logger
}

// NewExporter creates a purchase order exporter. The output directory is
// created if missing.
func NewExporter(outputDir string, logger *zap.Logger) (*Exporter, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	return &Exporter{outputDir: outputDir, logger: logger}, nil
}

var poHeader = []string{
	"PO Number", "Material Request", "Vendor", "Status",
	"Item", "Quantity", "Unit", "Unit Price", "Line Total",
	"Order Total", "Delivery Date", "Paid Date", "Created",
}

// ExportPurchaseOrders writes the given purchase orders to a dated workbook,
// one row per line item, and returns the file path.
func (e *Exporter) ExportPurchaseOrders(orders []*entity.PurchaseOrder, now time.Time) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	for col, title := range poHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return "", fmt.Errorf("failed to build header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, title); err != nil {
			return "", fmt.Errorf("failed to write header: %w", err)
		}
	}

	row := 2
	for _, po := range orders {
		items := po.LineItems
		if len(items) == 0 {
			// Orders with no lines still get one summary row
			items = []entity.POLineItem{{}}
		}
		for _, item := range items {
			values := []interface{}{
				po.PONumber, po.MaterialRequestID, po.Vendor, po.Status,
				item.ItemName, item.Quantity, item.Unit, item.UnitPrice, item.Total,
				po.TotalAmount, formatDate(po.DeliveryDate), formatDate(po.PaidDate),
				po.CreatedAt.Format("2006-01-02"),
			}
			for col, v := range values {
				cell, err := excelize.CoordinatesToCellName(col+1, row)
				if err != nil {
					return "", fmt.Errorf("failed to build cell: %w", err)
				}
				if err := f.SetCellValue(sheet, cell, v); err != nil {
					return "", fmt.Errorf("failed to write row: %w", err)
				}
			}
			row++
		}
	}

	outputPath := filepath.Join(e.outputDir,
		fmt.Sprintf("purchase_orders_%s.xlsx", now.Format("20060102_150405")))
	if err := f.SaveAs(outputPath); err != nil {
		return "", fmt.Errorf("failed to save workbook: %w", err)
	}

	e.logger.Info("Purchase order export written",
		zap.String("path", outputPath),
		zap.Int("orders", len(orders)))
	return outputPath, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02")
}
