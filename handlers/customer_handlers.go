package handlers

import (
	"context"
	"database/sql"
	"log"

	"app/database"
	"app/models"
	"app/utils"

	"github.com/gofiber/fiber/v2"
)

// HandleListCustomers lists the customer registry, optionally narrowed by a
// case-insensitive search over number, name and city.
// GET /api/v1/customers
func HandleListCustomers(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()

	query := `
		SELECT customer_number, name, address, zip_code, city, country, customer_group
		FROM customers
	`
	var args []interface{}

	if search := c.Query("search"); search != "" {
		query += `
		WHERE customer_number LIKE ?
		   OR name LIKE ? COLLATE NOCASE
		   OR city LIKE ? COLLATE NOCASE
		`
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern, pattern)
	}

	query += " ORDER BY customer_number"

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Printf("Error fetching customers: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to fetch customers"})
	}
	defer rows.Close()

	customers := make([]models.Customer, 0)
	for rows.Next() {
		var (
			cust                                     models.Customer
			name, address, zip, city, country, group sql.NullString
		)
		if err := rows.Scan(&cust.CustomerNumber, &name, &address, &zip, &city, &country, &group); err != nil {
			log.Printf("Error scanning customer row: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to read customers"})
		}
		cust.Name = utils.NullStringToStringPtr(name)
		cust.Address = utils.NullStringToStringPtr(address)
		cust.ZipCode = utils.NullStringToStringPtr(zip)
		cust.City = utils.NullStringToStringPtr(city)
		cust.Country = utils.NullStringToStringPtr(country)
		cust.CustomerGroup = utils.NullStringToStringPtr(group)
		customers = append(customers, cust)
	}
	if err := rows.Err(); err != nil {
		log.Printf("Error iterating customers: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to read customers"})
	}

	return c.JSON(fiber.Map{"status": "success", "data": customers})
}
