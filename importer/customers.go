package importer

import (
	"fmt"
	"io"
	"strings"

	"app/models"
)

// customerHeaderRow is where the header sits in the "Kundlista" export;
// the five rows above it are report metadata.
const customerHeaderRow = 5

// columnMap translates the Swedish workbook headers to registry fields.
var columnMap = map[string]string{
	"Kundnummer": "customer_number",
	"Namn":       "name",
	"Adress":     "address",
	"Postnummer": "zip_code",
	"Postort":    "city",
	"Land":       "country",
	"Kundgrupp":  "customer_group",
}

// ParseCustomerFile parses a customer list workbook. Rows without a customer
// number are dropped.
func ParseCustomerFile(r io.Reader) ([]models.Customer, error) {
	rows, err := readFirstSheet(r)
	if err != nil {
		return nil, fmt.Errorf("processing customer file: %w", err)
	}

	if len(rows) <= customerHeaderRow {
		return nil, fmt.Errorf("processing customer file: header row %d not present", customerHeaderRow+1)
	}

	// Locate each known header in the header row; columns we don't
	// recognize are ignored.
	colIndex := map[string]int{}
	for i, h := range rows[customerHeaderRow] {
		if field, ok := columnMap[strings.TrimSpace(h)]; ok {
			colIndex[field] = i
		}
	}
	if _, ok := colIndex["customer_number"]; !ok {
		return nil, fmt.Errorf("processing customer file: 'Kundnummer' column not found")
	}

	optional := func(row []string, field string) *string {
		i, ok := colIndex[field]
		if !ok {
			return nil
		}
		v := cell(row, i)
		if v == "" {
			return nil
		}
		return &v
	}

	customers := make([]models.Customer, 0, len(rows)-customerHeaderRow-1)
	for _, row := range rows[customerHeaderRow+1:] {
		number := cell(row, colIndex["customer_number"])
		if number == "" {
			continue
		}
		customers = append(customers, models.Customer{
			CustomerNumber: number,
			Name:           optional(row, "name"),
			Address:        optional(row, "address"),
			ZipCode:        optional(row, "zip_code"),
			City:           optional(row, "city"),
			Country:        optional(row, "country"),
			CustomerGroup:  optional(row, "customer_group"),
		})
	}

	return customers, nil
}
