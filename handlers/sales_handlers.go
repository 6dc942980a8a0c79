package handlers

import (
	"context"
	"log"
	"strconv"

	"app/database"
	"app/models"
	"app/utils"

	"github.com/gofiber/fiber/v2"
)

// HandleListSales lists the joined sales rows matching the shared filter
// parameters, paginated.
// GET /api/v1/sales
func HandleListSales(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()

	filter := filterFromQuery(c)
	where, args, err := buildFilterClause(filter)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}

	page, _ := strconv.Atoi(c.Query("page", "1"))
	pageSize, _ := strconv.Atoi(c.Query("page_size", "50"))
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 500 {
		pageSize = 50
	}

	countQuery := `
		SELECT COUNT(*)
		FROM sales s
		LEFT JOIN customers c ON s.customer_number = c.customer_number
	` + where
	var total int
	if err := db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		log.Printf("Error counting sales: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to count sales"})
	}

	query := salesSelect + where + " ORDER BY s.date DESC, s.id DESC LIMIT ? OFFSET ?"
	pagedArgs := append(append([]interface{}{}, args...), pageSize, (page-1)*pageSize)

	rows, err := db.QueryContext(ctx, query, pagedArgs...)
	if err != nil {
		log.Printf("Error fetching sales: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to fetch sales"})
	}
	defer rows.Close()

	data, err := scanSalesRows(rows)
	if err != nil {
		log.Printf("Error scanning sales: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to read sales"})
	}

	return c.JSON(models.PaginatedSalesResponse{
		Data:       data,
		Pagination: utils.CreatePagination(total, page, pageSize),
	})
}
