package handlers

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"strings"

	"app/database"
	"app/importer"
	"app/models"

	"github.com/gofiber/fiber/v2"
)

// HandleImportFiles ingests one or more uploaded .xlsx workbooks.
// Customer lists update the registry in place; sales exports append records
// tagged with their source filename. A bad file never aborts the batch.
// POST /api/v1/import
func HandleImportFiles(c *fiber.Ctx) error {
	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Expected multipart form data",
		})
	}

	files := form.File["files"]
	if len(files) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": "Please upload at least one file",
		})
	}

	ctx := context.Background()
	summary := models.ImportSummary{Files: make([]models.ImportFileResult, 0, len(files))}

	for _, fh := range files {
		result := importOneFile(ctx, fh)
		if result.Error == nil {
			switch result.Type {
			case string(importer.FileTypeCustomers):
				summary.CustomerFiles++
			case string(importer.FileTypeSales):
				summary.SalesFiles++
			}
			summary.TotalRecords += result.Records
		}
		summary.Files = append(summary.Files, result)
	}

	return c.JSON(fiber.Map{"status": "success", "data": summary})
}

func importOneFile(ctx context.Context, fh *multipart.FileHeader) models.ImportFileResult {
	result := models.ImportFileResult{
		Filename: fh.Filename,
		Type:     string(importer.ClassifyFile(fh.Filename)),
	}

	if !strings.HasSuffix(strings.ToLower(fh.Filename), ".xlsx") {
		msg := "only .xlsx files are supported"
		result.Error = &msg
		return result
	}

	file, err := fh.Open()
	if err != nil {
		log.Printf("Error opening upload %s: %v", fh.Filename, err)
		msg := "could not open uploaded file"
		result.Error = &msg
		return result
	}
	defer file.Close()

	if result.Type == string(importer.FileTypeCustomers) {
		customers, err := importer.ParseCustomerFile(file)
		if err == nil {
			err = saveCustomers(ctx, customers)
		}
		if err != nil {
			log.Printf("Error processing %s: %v", fh.Filename, err)
			msg := err.Error()
			result.Error = &msg
			return result
		}
		result.Records = len(customers)
		log.Printf("Updated customer registry from %s (%d customers)", fh.Filename, len(customers))
		return result
	}

	records, err := importer.ParseSalesFile(file, fh.Filename)
	if err == nil {
		err = saveSales(ctx, records, fh.Filename)
	}
	if err != nil {
		log.Printf("Error processing %s: %v", fh.Filename, err)
		msg := err.Error()
		result.Error = &msg
		return result
	}
	result.Records = len(records)
	if len(records) == 0 {
		msg := "no valid sales records found"
		result.Error = &msg
		return result
	}
	log.Printf("Imported sales from %s (%d records)", fh.Filename, len(records))
	return result
}

// saveCustomers upserts the registry; re-importing a list refreshes
// existing customers instead of duplicating them.
func saveCustomers(ctx context.Context, customers []models.Customer) error {
	if len(customers) == 0 {
		return nil
	}

	db := database.GetDB()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO customers (customer_number, name, address, zip_code, city, country, customer_group)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(customer_number) DO UPDATE SET
			name=excluded.name,
			address=excluded.address,
			zip_code=excluded.zip_code,
			city=excluded.city,
			country=excluded.country,
			customer_group=excluded.customer_group
	`)
	if err != nil {
		return fmt.Errorf("preparing customer upsert: %w", err)
	}
	defer stmt.Close()

	for _, cust := range customers {
		if _, err := stmt.ExecContext(ctx, cust.CustomerNumber, cust.Name, cust.Address,
			cust.ZipCode, cust.City, cust.Country, cust.CustomerGroup); err != nil {
			return fmt.Errorf("upserting customer %s: %w", cust.CustomerNumber, err)
		}
	}

	return tx.Commit()
}

// saveSales appends the extracted records, each tagged with its source file.
func saveSales(ctx context.Context, records []models.SaleRecord, sourceFile string) error {
	if len(records) == 0 {
		return nil
	}

	db := database.GetDB()
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO sales (date, customer_number, article_id, article_name, quantity, tb_amount, sales_amount, source_file)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing sales insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx, rec.Date, rec.CustomerNumber, rec.ArticleID,
			rec.ArticleName, rec.Quantity, rec.TBAmount, rec.SalesAmount, sourceFile); err != nil {
			return fmt.Errorf("inserting sale record: %w", err)
		}
	}

	return tx.Commit()
}

// HandleClearData deletes all sales and customers. Settings (API keys)
// survive a clear.
// DELETE /api/v1/data
func HandleClearData(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()

	if _, err := db.ExecContext(ctx, "DELETE FROM sales"); err != nil {
		log.Printf("Error clearing sales: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to clear sales"})
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM customers"); err != nil {
		log.Printf("Error clearing customers: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to clear customers"})
	}

	return c.JSON(fiber.Map{"status": "success", "message": "Database cleared"})
}

// HandleGetStats returns the registry and sales record counts shown on the
// import screen.
// GET /api/v1/stats
func HandleGetStats(c *fiber.Ctx) error {
	db := database.GetDB()
	ctx := context.Background()

	var customerCount, salesCount int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM customers").Scan(&customerCount); err != nil {
		log.Printf("Error counting customers: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to count customers"})
	}
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM sales").Scan(&salesCount); err != nil {
		log.Printf("Error counting sales: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"status": "error", "message": "Failed to count sales"})
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"data": fiber.Map{
			"customer_count":     customerCount,
			"sales_record_count": salesCount,
		},
	})
}
