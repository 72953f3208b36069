package report

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/jung-kurt/gofpdf"

	"stockyfy/internal/models"
)

// Generator renders stock reports as PDF files. It is a pure consumer of
// already-computed statistics and the current product snapshot.
type Generator struct {
	outputDir string
}

func NewGenerator(outputDir string) *Generator {
	return &Generator{outputDir: outputDir}
}

// StockReport writes a one-page summary of the statistics aggregate followed
// by a per-product stock table, and returns the output path.
func (g *Generator) StockReport(stats *models.Statistics, products []models.Product) (string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, "Stock Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 8, time.Now().Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Summary", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)

	summary := []struct {
		label string
		value string
	}{
		{"Total products", fmt.Sprintf("%d", stats.TotalProducts)},
		{"Out of stock", fmt.Sprintf("%d", stats.OutOfStock)},
		{"Low stock", fmt.Sprintf("%d", stats.LowStock)},
		{"Total stock value", fmt.Sprintf("%.2f", stats.TotalStockValue)},
	}
	for _, row := range summary {
		pdf.CellFormat(60, 7, row.label, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, row.value, "1", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, "Products", "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(60, 7, "Name", "1", 0, "L", false, 0, "")
	pdf.CellFormat(35, 7, "Type", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 7, "Price", "1", 0, "R", false, 0, "")
	pdf.CellFormat(25, 7, "Quantity", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 7, "Value", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for i := range products {
		p := &products[i]
		quantity := 0
		for j := range p.Stocks {
			quantity += p.Stocks[j].Quantity
		}
		pdf.CellFormat(60, 7, p.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 7, p.Type, "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%.2f", p.Price), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 7, fmt.Sprintf("%d", quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, fmt.Sprintf("%.2f", float64(quantity)*p.Price), "1", 1, "R", false, 0, "")
	}

	filename := fmt.Sprintf("stock_report_%s.pdf", time.Now().Format("2006-01-02"))
	path := filepath.Join(g.outputDir, filename)
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}
	return path, nil
}
