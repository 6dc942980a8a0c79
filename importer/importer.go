// Package importer parses the two Excel workbook formats the dashboard
// accepts: the customer list ("Kundlista") and the hierarchical sales
// statistics export ("Försäljningsstatistik").
package importer

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// FileType classifies an uploaded workbook by its filename.
type FileType string

const (
	FileTypeCustomers FileType = "customers"
	FileTypeSales     FileType = "sales"
)

// ClassifyFile decides the workbook type from the filename. Anything that is
// not a customer list is treated as a sales export, matching how the
// dashboard has always behaved.
func ClassifyFile(filename string) FileType {
	if IsCustomerFile(filename) {
		return FileTypeCustomers
	}
	return FileTypeSales
}

// IsCustomerFile reports whether the filename looks like a customer list.
func IsCustomerFile(filename string) bool {
	return strings.Contains(strings.ToLower(filename), "kundlista")
}

// IsSalesFile reports whether the filename looks like a sales statistics export.
func IsSalesFile(filename string) bool {
	name := strings.ToLower(filename)
	return strings.Contains(name, "försäljningsstatistik") ||
		strings.Contains(name, "sales") ||
		strings.Contains(name, "statistik")
}

var (
	// "Försäljningsstatistik Silent socks 250101-250131.xlsx" -> 2025-01-01
	periodPattern = regexp.MustCompile(`(?i)Silent socks\s+(\d{2})(\d{2})(\d{2})`)
	// Fallback: any YYMMDD-YYMMDD range in the name
	rangePattern = regexp.MustCompile(`(\d{2})(\d{2})(\d{2})-(\d{2})(\d{2})(\d{2})`)
)

// PeriodDateFromFilename extracts the period start date encoded in a sales
// export filename. When no date is found the current date is used.
func PeriodDateFromFilename(filename string, now time.Time) string {
	if m := periodPattern.FindStringSubmatch(filename); m != nil {
		return fmt.Sprintf("20%s-%s-%s", m[1], m[2], m[3])
	}
	if m := rangePattern.FindStringSubmatch(filename); m != nil {
		return fmt.Sprintf("20%s-%s-%s", m[1], m[2], m[3])
	}
	return now.Format("2006-01-02")
}

// readFirstSheet loads all rows of the first sheet of a workbook.
func readFirstSheet(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening Excel file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in Excel file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("reading rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("Excel file is empty")
	}
	return rows, nil
}

// cell returns the trimmed cell at index i, or "" when the row is shorter.
// excelize drops trailing empty cells, so rows are ragged.
func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseNumber handles the number formats seen in the exports: plain,
// Swedish decimal comma, and thousands separated by spaces.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
