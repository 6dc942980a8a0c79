package importer

import (
	"fmt"
	"io"
	"strings"
	"time"

	"app/models"
)

// Column layout of an article line in the sales statistics export:
// A (0) customer number on grouping rows, B (1) article number,
// C (2) article name, D (3) quantity, G (6) TB in kr,
// I (8) total sales excl VAT.
const (
	colArticleID   = 1
	colArticleName = 2
	colQuantity    = 3
	colTB          = 6
	colSales       = 8
)

// articleBrand marks where the real article name begins; exports prefix it
// with internal numbering that should not reach the dashboard.
const articleBrand = "silent socks"

// ParseSalesFile parses a hierarchical sales statistics workbook. The file
// groups article lines under customer rows; every extracted record carries
// the period date taken from the filename. Malformed lines are skipped.
func ParseSalesFile(r io.Reader, filename string) ([]models.SaleRecord, error) {
	rows, err := readFirstSheet(r)
	if err != nil {
		return nil, fmt.Errorf("processing sales file: %w", err)
	}

	fileDate := PeriodDateFromFilename(filename, time.Now())

	// Data starts right after the "Kundnr." header row.
	startRow := 0
	for i, row := range rows {
		if cell(row, 0) == "Kundnr." {
			startRow = i + 1
			break
		}
	}
	if startRow == 0 {
		return nil, fmt.Errorf("processing sales file: 'Kundnr.' header not found")
	}

	var records []models.SaleRecord
	currentCustomer := ""

	for _, row := range rows[startRow:] {
		col0 := cell(row, 0)
		col1 := cell(row, colArticleID)

		// "Totalt:" footer rows carry sums we must not double count.
		if strings.Contains(strings.ToLower(col1), "totalt") {
			continue
		}

		// A bare numeric column A with an empty column B starts a new
		// customer block.
		if isAllDigits(col0) && col1 == "" {
			currentCustomer = col0
			continue
		}

		// The article header repeats inside the file on page breaks.
		if strings.Contains(strings.ToLower(col1), "artikelnr") {
			continue
		}

		if currentCustomer == "" || col1 == "" {
			continue
		}

		quantity, ok := parseNumber(cell(row, colQuantity))
		if !ok || quantity == 0 {
			continue
		}
		tb, ok := parseNumber(cell(row, colTB))
		if !ok {
			tb = 0
		}
		sales, ok := parseNumber(cell(row, colSales))
		if !ok {
			sales = 0
		}

		records = append(records, models.SaleRecord{
			Date:           fileDate,
			CustomerNumber: currentCustomer,
			ArticleID:      NormalizeArticleID(col1),
			ArticleName:    cleanArticleName(cell(row, colArticleName)),
			Quantity:       int(quantity),
			TBAmount:       tb,
			SalesAmount:    sales,
		})
	}

	return records, nil
}

// NormalizeArticleID formats article numbers as 'E' plus five digits, so
// "9005", "E9005" and "9005.0" all end up as "E09005". Non-numeric IDs just
// get the E prefix.
func NormalizeArticleID(raw string) string {
	id := strings.TrimSpace(strings.ReplaceAll(strings.ToUpper(raw), "E", ""))
	if i := strings.Index(id, "."); i != -1 {
		id = id[:i]
	}
	if isAllDigits(id) {
		n, _ := parseNumber(id)
		return fmt.Sprintf("E%05d", int(n))
	}
	return "E" + id
}

// cleanArticleName cuts everything before the brand marker.
func cleanArticleName(name string) string {
	if idx := strings.Index(strings.ToLower(name), articleBrand); idx != -1 {
		return name[idx:]
	}
	return name
}
