package handlers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"app/database"
	"app/models"
	"app/utils"

	"github.com/gofiber/fiber/v2"
)

// privatePrefix marks private customers; everything else is a business
// customer. The numbering scheme comes from the ERP the workbooks are
// exported from.
const privatePrefix = "90"

// unknownLabel is the filter value that matches rows whose customer has no
// country or group in the registry.
const unknownLabel = "Unknown"

// salesSelect is the joined view every read endpoint works against.
const salesSelect = `
	SELECT
		s.date,
		s.article_id,
		s.article_name,
		s.customer_number,
		s.quantity,
		s.tb_amount,
		s.sales_amount,
		c.name,
		c.country,
		c.customer_group,
		c.city
	FROM sales s
	LEFT JOIN customers c ON s.customer_number = c.customer_number
`

// filterFromQuery reads the shared filter parameters from the query string.
func filterFromQuery(c *fiber.Ctx) models.SalesFilter {
	return models.SalesFilter{
		StartDate:     c.Query("start_date"),
		EndDate:       c.Query("end_date"),
		Country:       c.Query("country"),
		CustomerGroup: c.Query("customer_group"),
		Customer:      c.Query("customer"),
		Article:       c.Query("article"),
		CustomerType:  c.Query("customer_type"),
	}
}

// buildFilterClause turns a filter into a WHERE clause plus its arguments.
// An empty filter yields an empty clause.
func buildFilterClause(f models.SalesFilter) (string, []interface{}, error) {
	var conditions []string
	var args []interface{}

	for _, d := range []struct {
		value, name, op string
	}{
		{f.StartDate, "start_date", ">="},
		{f.EndDate, "end_date", "<="},
	} {
		if d.value == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", d.value); err != nil {
			return "", nil, fmt.Errorf("invalid %s %q, expected YYYY-MM-DD", d.name, d.value)
		}
		conditions = append(conditions, "s.date "+d.op+" ?")
		args = append(args, d.value)
	}

	if f.Country != "" {
		if f.Country == unknownLabel {
			conditions = append(conditions, "(c.country IS NULL OR c.country = '')")
		} else {
			conditions = append(conditions, "c.country = ?")
			args = append(args, f.Country)
		}
	}

	if f.CustomerGroup != "" {
		if f.CustomerGroup == unknownLabel {
			conditions = append(conditions, "(c.customer_group IS NULL OR c.customer_group = '')")
		} else {
			conditions = append(conditions, "c.customer_group = ?")
			args = append(args, f.CustomerGroup)
		}
	}

	switch f.CustomerType {
	case "":
	case "private":
		conditions = append(conditions, "s.customer_number LIKE ?")
		args = append(args, privatePrefix+"%")
	case "business":
		conditions = append(conditions, "s.customer_number NOT LIKE ?")
		args = append(args, privatePrefix+"%")
	default:
		return "", nil, fmt.Errorf("invalid customer_type %q, expected 'business' or 'private'", f.CustomerType)
	}

	if f.Customer != "" {
		conditions = append(conditions, "c.name = ?")
		args = append(args, f.Customer)
	}

	if f.Article != "" {
		conditions = append(conditions, "(s.article_id || ' - ' || s.article_name) = ?")
		args = append(args, f.Article)
	}

	if len(conditions) == 0 {
		return "", args, nil
	}
	return " WHERE " + strings.Join(conditions, " AND "), args, nil
}

// queryFilteredRows loads the joined sales rows matching the filter,
// oldest first.
func queryFilteredRows(ctx context.Context, f models.SalesFilter) ([]models.SalesRow, error) {
	where, args, err := buildFilterClause(f)
	if err != nil {
		return nil, err
	}

	rows, err := database.GetDB().QueryContext(ctx, salesSelect+where+" ORDER BY s.date, s.id", args...)
	if err != nil {
		return nil, fmt.Errorf("querying sales: %w", err)
	}
	defer rows.Close()

	return scanSalesRows(rows)
}

// filterContext renders the active filters for the AI prompt and responses.
func filterContext(f models.SalesFilter) string {
	var parts []string
	if f.StartDate != "" || f.EndDate != "" {
		parts = append(parts, fmt.Sprintf("Period: %s to %s", orAny(f.StartDate), orAny(f.EndDate)))
	}
	if f.Country != "" {
		parts = append(parts, "Country: "+f.Country)
	}
	if f.CustomerGroup != "" {
		parts = append(parts, "Customer Group: "+f.CustomerGroup)
	}
	if f.CustomerType == "private" {
		parts = append(parts, "Customer Type: Private")
	} else if f.CustomerType == "business" {
		parts = append(parts, "Customer Type: Business")
	}
	if f.Customer != "" {
		parts = append(parts, "Customer: "+f.Customer)
	}
	if f.Article != "" {
		parts = append(parts, "Article: "+f.Article)
	}
	if len(parts) == 0 {
		return "All Data"
	}
	return strings.Join(parts, ", ")
}

func orAny(s string) string {
	if s == "" {
		return "any"
	}
	return s
}

// scanSalesRows converts the joined result set, keeping customer columns
// nullable for sales that reference customers missing from the registry.
func scanSalesRows(rows *sql.Rows) ([]models.SalesRow, error) {
	result := make([]models.SalesRow, 0)
	for rows.Next() {
		var (
			r                          models.SalesRow
			name, country, group, city sql.NullString
		)
		if err := rows.Scan(&r.Date, &r.ArticleID, &r.Article, &r.CustomerNumber,
			&r.Quantity, &r.TBAmount, &r.SalesAmount,
			&name, &country, &group, &city); err != nil {
			return nil, fmt.Errorf("scanning sales row: %w", err)
		}
		r.Customer = utils.NullStringToStringPtr(name)
		r.Country = utils.NullStringToStringPtr(country)
		r.CustomerGroup = utils.NullStringToStringPtr(group)
		r.City = utils.NullStringToStringPtr(city)
		result = append(result, r)
	}
	return result, rows.Err()
}
