package handlers

import (
	"context"
	"log"
	"time"

	"app/database"
	"app/forecast"
	"app/models"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultForecastDays = 180 // roughly six months, like the dashboard always showed
	maxForecastDays     = 365
	confidenceLevel     = 0.95
)

// HandleForecast aggregates the filtered data into a daily revenue series,
// fits a regression line and projects it forward. The response interleaves
// the historical series with the typed prediction points.
// POST /api/v1/ai/forecast
func HandleForecast(c *fiber.Ctx) error {
	var req models.ForecastRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}
	if req.DaysAhead <= 0 {
		req.DaysAhead = defaultForecastDays
	}
	if req.DaysAhead > maxForecastDays {
		req.DaysAhead = maxForecastDays
	}

	where, args, err := buildFilterClause(req.SalesFilter)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}

	db := database.GetDB()
	ctx := context.Background()

	query := `
		SELECT s.date, SUM(s.sales_amount) AS revenue
		FROM sales s
		LEFT JOIN customers c ON s.customer_number = c.customer_number
	` + where + `
		GROUP BY s.date
		ORDER BY s.date
	`
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Printf("Error fetching daily revenue: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to fetch daily revenue"})
	}
	defer rows.Close()

	var points []forecast.DataPoint
	var historical []models.ForecastPoint
	for rows.Next() {
		var dateStr string
		var revenue float64
		if err := rows.Scan(&dateStr, &revenue); err != nil {
			log.Printf("Error scanning daily revenue: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to read daily revenue"})
		}
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			// A row with a malformed date cannot be placed on the axis.
			log.Printf("Skipping unparseable sale date %q", dateStr)
			continue
		}
		points = append(points, forecast.DataPoint{
			Date: date,
			X:    float64(date.Unix() / 86400), // day index
			Y:    revenue,
		})
		historical = append(historical, models.ForecastPoint{
			Date:        dateStr,
			SalesAmount: revenue,
			Type:        "historical",
		})
	}
	if err := rows.Err(); err != nil {
		log.Printf("Error iterating daily revenue: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to read daily revenue"})
	}

	if len(points) < 2 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"status":  "error",
			"message": "Not enough data points to predict trend (need at least 2 days of data)",
		})
	}

	result, err := forecast.Fit(points)
	if err != nil {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}

	response := models.ForecastResponse{
		Points:    historical,
		Slope:     result.A,
		Intercept: result.B,
		R2:        result.R2,
		Context:   filterContext(req.SalesFilter),
	}
	for _, fp := range result.Forecast(req.DaysAhead, confidenceLevel) {
		lower, upper := fp.CILower, fp.CIUpper
		response.Points = append(response.Points, models.ForecastPoint{
			Date:        fp.Date.Format("2006-01-02"),
			SalesAmount: fp.ForecastValue,
			Type:        "predicted",
			CILower:     &lower,
			CIUpper:     &upper,
		})
	}

	return c.JSON(fiber.Map{"status": "success", "data": response})
}
