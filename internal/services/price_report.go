package services

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"time"

	"krishilink/internal/domain/models"

	"github.com/phpdave11/gofpdf"
)

var reportColumns = []struct {
	title string
	width float64
}{
	{"Date", 22}, {"Crop", 28}, {"Market", 38}, {"State / District", 42},
	{"Min", 20}, {"Max", 20}, {"Modal", 20},
}

func buildPriceReportPDF(prices []models.MarketPrice, total int, params map[string]string, at time.Time) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Market Prices", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "MARKET PRICES")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, "Generated : "+at.UTC().Format("2006-01-02 15:04")+" UTC")
	pdf.Ln(6)
	pdf.Cell(0, 6, "Filters   : "+describeFilters(params))
	pdf.Ln(6)
	shown := fmt.Sprintf("Rows      : %d", len(prices))
	if total > len(prices) {
		shown += fmt.Sprintf(" of %d", total)
	}
	pdf.Cell(0, 6, shown)
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 10)
	for _, c := range reportColumns {
		pdf.CellFormat(c.width, 7, c.title, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	if len(prices) == 0 {
		pdf.CellFormat(190, 7, "No prices match these filters.", "1", 0, "C", false, 0, "")
		pdf.Ln(-1)
	}
	for _, p := range prices {
		cells := []string{
			p.Date.UTC().Format("2006-01-02"),
			fit(p.Crop, 16),
			fit(p.Market, 22),
			fit(p.State+" / "+p.District, 26),
			formatPrice(p.Price.Min),
			formatPrice(p.Price.Max),
			formatPrice(p.Price.Modal),
		}
		for i, c := range reportColumns {
			align := "L"
			if i >= 4 {
				align = "R"
			}
			pdf.CellFormat(c.width, 6, cells[i], "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.MultiCell(0, 5, "Prices are in INR per the unit recorded for each entry (default per quintal).", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), "market-prices-" + at.UTC().Format("2006-01-02") + ".pdf", nil
}

func describeFilters(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if k == "page" || k == "limit" || strings.TrimSpace(v) == "" {
			continue
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return "none"
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+fit(params[k], 30))
	}
	return strings.Join(parts, ", ")
}

func fit(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "."
}

func formatPrice(v float64) string {
	return fmt.Sprintf("%.2f", v)
}
