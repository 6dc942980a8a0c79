package database

import (
	"database/sql"
	"log"

	_ "modernc.org/sqlite"
)

// DB is a global variable to hold the database connection pool.
var DB *sql.DB

// InitDB opens the SQLite database file and bootstraps the schema.
// The file is created on first run; later runs reuse it as-is.
func InitDB(path string) {
	var err error
	DB, err = sql.Open("sqlite", path)
	if err != nil {
		log.Fatalf("Unable to open database: %v\n", err)
	}

	// Optional: Check if the connection is actually working
	if err = DB.Ping(); err != nil {
		log.Fatalf("Database ping failed: %v\n", err)
	}

	if err = createTables(); err != nil {
		log.Fatalf("Failed to create tables: %v\n", err)
	}

	log.Println("Successfully opened the database at", path)
}

// GetDB returns the shared connection pool.
func GetDB() *sql.DB {
	return DB
}

// CloseDB closes the database connection pool.
func CloseDB() {
	if DB != nil {
		DB.Close()
		log.Println("Database connection pool closed")
	}
}

func createTables() error {
	// Customer registry, keyed by the customer number from the workbook.
	_, err := DB.Exec(`
		CREATE TABLE IF NOT EXISTS customers (
			customer_number TEXT PRIMARY KEY,
			name TEXT,
			address TEXT,
			zip_code TEXT,
			city TEXT,
			country TEXT,
			customer_group TEXT
		)
	`)
	if err != nil {
		return err
	}

	// One row per article line in a sales statistics workbook.
	// tb_amount is "TB i kr", sales_amount is total sales excl VAT.
	// The customer FK is documentation only: sales exports regularly
	// reference customers missing from the registry, and those rows must
	// still import (they surface as "Unknown" in the dashboard).
	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS sales (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			date TEXT,
			customer_number TEXT,
			article_id TEXT,
			article_name TEXT,
			quantity INTEGER,
			tb_amount REAL,
			sales_amount REAL,
			source_file TEXT,
			FOREIGN KEY (customer_number) REFERENCES customers(customer_number)
		)
	`)
	if err != nil {
		return err
	}

	_, err = DB.Exec(`
		CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT
		)
	`)
	return err
}
