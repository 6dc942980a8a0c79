package handlers

import (
	"context"
	"log"

	"app/database"
	"app/models"

	"github.com/gofiber/fiber/v2"
)

// HandleGetDashboardSummary computes the KPI block over the filtered set:
// total revenue excl VAT, total TB (contribution margin), TB margin percent
// and quantity sold.
// GET /api/v1/dashboard/summary
func HandleGetDashboardSummary(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()

	filter := filterFromQuery(c)
	where, args, err := buildFilterClause(filter)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}

	query := `
		SELECT
			COALESCE(SUM(s.sales_amount), 0),
			COALESCE(SUM(s.tb_amount), 0),
			COALESCE(SUM(s.quantity), 0),
			COUNT(*)
		FROM sales s
		LEFT JOIN customers c ON s.customer_number = c.customer_number
	` + where

	var summary models.DashboardSummary
	if err := db.QueryRowContext(ctx, query, args...).Scan(
		&summary.TotalRevenue, &summary.TotalTB, &summary.TotalQuantity, &summary.RecordCount,
	); err != nil {
		log.Printf("Error fetching dashboard summary: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to fetch dashboard summary"})
	}

	if summary.TotalRevenue > 0 {
		summary.TBMarginPct = summary.TotalTB / summary.TotalRevenue * 100
	}

	return c.JSON(fiber.Map{"status": "success", "data": summary})
}

// HandleGetDashboardCharts computes every chart of the dashboard in one
// response: revenue by country, revenue share by customer group, the daily
// revenue trend, the top 10 customers by TB and per-article performance.
// GET /api/v1/dashboard/charts
func HandleGetDashboardCharts(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()

	filter := filterFromQuery(c)
	where, args, err := buildFilterClause(filter)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}

	var charts models.DashboardCharts

	fromJoin := `
		FROM sales s
		LEFT JOIN customers c ON s.customer_number = c.customer_number
	`

	// Revenue by country, largest first. Customers missing from the
	// registry land in the Unknown bucket.
	countryQuery := `
		SELECT COALESCE(NULLIF(c.country, ''), 'Unknown') AS country, SUM(s.sales_amount) AS revenue
	` + fromJoin + where + `
		GROUP BY country
		ORDER BY revenue DESC
	`
	rows, err := db.QueryContext(ctx, countryQuery, args...)
	if err != nil {
		log.Printf("Error fetching revenue by country: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to fetch chart data"})
	}
	charts.RevenueByCountry = make([]models.CountryRevenue, 0)
	for rows.Next() {
		var entry models.CountryRevenue
		if err := rows.Scan(&entry.Country, &entry.Revenue); err != nil {
			rows.Close()
			log.Printf("Error scanning country revenue: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to read chart data"})
		}
		charts.RevenueByCountry = append(charts.RevenueByCountry, entry)
	}
	rows.Close()

	// Revenue share by customer group (the pie chart).
	groupQuery := `
		SELECT COALESCE(NULLIF(c.customer_group, ''), 'Unknown') AS customer_group, SUM(s.sales_amount) AS revenue
	` + fromJoin + where + `
		GROUP BY customer_group
		ORDER BY revenue DESC
	`
	rows, err = db.QueryContext(ctx, groupQuery, args...)
	if err != nil {
		log.Printf("Error fetching revenue by group: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to fetch chart data"})
	}
	charts.RevenueByGroup = make([]models.GroupRevenue, 0)
	for rows.Next() {
		var entry models.GroupRevenue
		if err := rows.Scan(&entry.CustomerGroup, &entry.Revenue); err != nil {
			rows.Close()
			log.Printf("Error scanning group revenue: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to read chart data"})
		}
		charts.RevenueByGroup = append(charts.RevenueByGroup, entry)
	}
	rows.Close()

	// Daily revenue trend.
	trendQuery := `
		SELECT s.date, SUM(s.sales_amount) AS revenue
	` + fromJoin + where + `
		GROUP BY s.date
		ORDER BY s.date
	`
	rows, err = db.QueryContext(ctx, trendQuery, args...)
	if err != nil {
		log.Printf("Error fetching revenue trend: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to fetch chart data"})
	}
	charts.RevenueTrend = make([]models.TrendPoint, 0)
	for rows.Next() {
		var entry models.TrendPoint
		if err := rows.Scan(&entry.Date, &entry.Revenue); err != nil {
			rows.Close()
			log.Printf("Error scanning trend point: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to read chart data"})
		}
		charts.RevenueTrend = append(charts.RevenueTrend, entry)
	}
	rows.Close()

	// Top 10 customers by TB. Sales without a registry entry fall back to
	// the raw customer number.
	customerQuery := `
		SELECT COALESCE(c.name, s.customer_number) AS customer, SUM(s.tb_amount) AS tb
	` + fromJoin + where + `
		GROUP BY customer
		ORDER BY tb DESC
		LIMIT 10
	`
	rows, err = db.QueryContext(ctx, customerQuery, args...)
	if err != nil {
		log.Printf("Error fetching top customers: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to fetch chart data"})
	}
	charts.TopCustomersByTB = make([]models.CustomerTB, 0)
	for rows.Next() {
		var entry models.CustomerTB
		if err := rows.Scan(&entry.Customer, &entry.TBAmount); err != nil {
			rows.Close()
			log.Printf("Error scanning customer TB: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to read chart data"})
		}
		charts.TopCustomersByTB = append(charts.TopCustomersByTB, entry)
	}
	rows.Close()

	// Per-article quantity and revenue, keyed by the "<id> - <name>" label.
	articleQuery := `
		SELECT s.article_id || ' - ' || s.article_name AS article,
		       SUM(s.quantity) AS quantity,
		       SUM(s.sales_amount) AS revenue
	` + fromJoin + where + `
		GROUP BY article
		ORDER BY revenue DESC
	`
	rows, err = db.QueryContext(ctx, articleQuery, args...)
	if err != nil {
		log.Printf("Error fetching article stats: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to fetch chart data"})
	}
	charts.ArticleStats = make([]models.ArticleStat, 0)
	for rows.Next() {
		var entry models.ArticleStat
		if err := rows.Scan(&entry.Article, &entry.Quantity, &entry.Revenue); err != nil {
			rows.Close()
			log.Printf("Error scanning article stat: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to read chart data"})
		}
		charts.ArticleStats = append(charts.ArticleStats, entry)
	}
	rows.Close()

	return c.JSON(fiber.Map{"status": "success", "data": charts})
}
