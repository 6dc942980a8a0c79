package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"app/database"
	"app/middleware"
	"app/models"
	"app/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestApp wires a fresh database and the full route table.
func setupTestApp(t *testing.T) *fiber.App {
	t.Helper()

	database.InitDB(filepath.Join(t.TempDir(), "test.db"))
	t.Cleanup(database.CloseDB)

	app := fiber.New()
	middleware.Register(app)
	routes.SetupRoutes(app)
	return app
}

// seedTestData inserts three registry customers and four sales records.
// Customer 777 is deliberately missing from the registry.
func seedTestData(t *testing.T) {
	t.Helper()
	db := database.GetDB()

	customers := []struct {
		number, name, country, group string
	}{
		{"100", "Möbler AB", "Sverige", "Återförsäljare"},
		{"200", "Butik i Norge AS", "Norge", "Butik"},
		{"9001", "Anna Svensson", "Sverige", "Privat"},
	}
	for _, c := range customers {
		_, err := db.Exec(
			"INSERT INTO customers (customer_number, name, country, customer_group) VALUES (?, ?, ?, ?)",
			c.number, c.name, c.country, c.group)
		require.NoError(t, err)
	}

	sales := []struct {
		date, number, articleID, articleName string
		qty                                  int
		tb, amount                           float64
	}{
		{"2025-01-01", "100", "E09005", "Silent Socks 28mm", 10, 500, 1500},
		{"2025-01-02", "200", "E09005", "Silent Socks 28mm", 5, 200, 700},
		{"2025-01-03", "9001", "E00123", "Silent Socks Chair Kit", 2, 50, 300},
		{"2025-01-03", "777", "E09005", "Silent Socks 28mm", 1, 10, 100},
	}
	for _, s := range sales {
		_, err := db.Exec(
			`INSERT INTO sales (date, customer_number, article_id, article_name, quantity, tb_amount, sales_amount, source_file)
			 VALUES (?, ?, ?, ?, ?, ?, ?, 'seed.xlsx')`,
			s.date, s.number, s.articleID, s.articleName, s.qty, s.tb, s.amount)
		require.NoError(t, err)
	}
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, []byte) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, body
}

func TestHealthAndVersion(t *testing.T) {
	app := setupTestApp(t)

	resp, _ := doRequest(t, app, httptest.NewRequest("GET", "/api/v1/health", nil))
	assert.Equal(t, 200, resp.StatusCode)

	resp, body := doRequest(t, app, httptest.NewRequest("GET", "/version", nil))
	assert.Equal(t, 200, resp.StatusCode)
	assert.Contains(t, string(body), "<pre>")
}

func TestGetStats(t *testing.T) {
	app := setupTestApp(t)
	seedTestData(t)

	resp, body := doRequest(t, app, httptest.NewRequest("GET", "/api/v1/stats", nil))
	require.Equal(t, 200, resp.StatusCode)

	var envelope struct {
		Data struct {
			CustomerCount    int `json:"customer_count"`
			SalesRecordCount int `json:"sales_record_count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	assert.Equal(t, 3, envelope.Data.CustomerCount)
	assert.Equal(t, 4, envelope.Data.SalesRecordCount)
}

func listSales(t *testing.T, app *fiber.App, query string) models.PaginatedSalesResponse {
	t.Helper()
	resp, body := doRequest(t, app, httptest.NewRequest("GET", "/api/v1/sales"+query, nil))
	require.Equal(t, 200, resp.StatusCode, "body: %s", body)

	var response models.PaginatedSalesResponse
	require.NoError(t, json.Unmarshal(body, &response))
	return response
}

func TestListSales(t *testing.T) {
	app := setupTestApp(t)
	seedTestData(t)

	all := listSales(t, app, "")
	assert.Len(t, all.Data, 4)
	assert.Equal(t, 4, all.Pagination.TotalItems)

	// Sorted newest first; the orphan sale has no customer fields
	var orphans int
	for _, row := range all.Data {
		if row.Customer == nil {
			orphans++
			assert.Equal(t, "777", row.CustomerNumber)
		}
	}
	assert.Equal(t, 1, orphans)
}

func TestListSalesFilters(t *testing.T) {
	app := setupTestApp(t)
	seedTestData(t)

	assert.Len(t, listSales(t, app, "?country=Sverige").Data, 2)
	assert.Len(t, listSales(t, app, "?country=Unknown").Data, 1)
	assert.Len(t, listSales(t, app, "?customer_group=Butik").Data, 1)
	assert.Len(t, listSales(t, app, "?customer_type=private").Data, 1)
	assert.Len(t, listSales(t, app, "?customer_type=business").Data, 3)
	assert.Len(t, listSales(t, app, "?customer=Anna+Svensson").Data, 1)
	assert.Len(t, listSales(t, app, "?article=E09005+-+Silent+Socks+28mm").Data, 3)
	assert.Len(t, listSales(t, app, "?start_date=2025-01-02").Data, 3)
	assert.Len(t, listSales(t, app, "?start_date=2025-01-02&end_date=2025-01-02").Data, 1)
}

func TestListSalesInvalidFilters(t *testing.T) {
	app := setupTestApp(t)
	seedTestData(t)

	resp, _ := doRequest(t, app, httptest.NewRequest("GET", "/api/v1/sales?start_date=01/02/2025", nil))
	assert.Equal(t, 400, resp.StatusCode)

	resp, _ = doRequest(t, app, httptest.NewRequest("GET", "/api/v1/sales?customer_type=company", nil))
	assert.Equal(t, 400, resp.StatusCode)
}

func TestListSalesPagination(t *testing.T) {
	app := setupTestApp(t)
	seedTestData(t)

	page := listSales(t, app, "?page=1&page_size=3")
	assert.Len(t, page.Data, 3)
	assert.Equal(t, 4, page.Pagination.TotalItems)
	assert.Equal(t, 2, page.Pagination.TotalPages)

	page = listSales(t, app, "?page=2&page_size=3")
	assert.Len(t, page.Data, 1)
}

func TestListCustomers(t *testing.T) {
	app := setupTestApp(t)
	seedTestData(t)

	resp, body := doRequest(t, app, httptest.NewRequest("GET", "/api/v1/customers", nil))
	require.Equal(t, 200, resp.StatusCode)

	var envelope struct {
		Data []models.Customer `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	assert.Len(t, envelope.Data, 3)

	resp, body = doRequest(t, app, httptest.NewRequest("GET", "/api/v1/customers?search=anna", nil))
	require.Equal(t, 200, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &envelope))
	require.Len(t, envelope.Data, 1)
	assert.Equal(t, "9001", envelope.Data[0].CustomerNumber)
}

func TestDashboardSummary(t *testing.T) {
	app := setupTestApp(t)
	seedTestData(t)

	resp, body := doRequest(t, app, httptest.NewRequest("GET", "/api/v1/dashboard/summary", nil))
	require.Equal(t, 200, resp.StatusCode)

	var envelope struct {
		Data models.DashboardSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))

	summary := envelope.Data
	assert.InDelta(t, 2600, summary.TotalRevenue, 1e-9)
	assert.InDelta(t, 760, summary.TotalTB, 1e-9)
	assert.InDelta(t, 760.0/2600.0*100, summary.TBMarginPct, 1e-9)
	assert.Equal(t, 18, summary.TotalQuantity)
	assert.Equal(t, 4, summary.RecordCount)
}

func TestDashboardSummaryEmpty(t *testing.T) {
	app := setupTestApp(t)

	resp, body := doRequest(t, app, httptest.NewRequest("GET", "/api/v1/dashboard/summary", nil))
	require.Equal(t, 200, resp.StatusCode)

	var envelope struct {
		Data models.DashboardSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	assert.Zero(t, envelope.Data.TotalRevenue)
	assert.Zero(t, envelope.Data.TBMarginPct)
	assert.Zero(t, envelope.Data.RecordCount)
}

func TestDashboardCharts(t *testing.T) {
	app := setupTestApp(t)
	seedTestData(t)

	resp, body := doRequest(t, app, httptest.NewRequest("GET", "/api/v1/dashboard/charts", nil))
	require.Equal(t, 200, resp.StatusCode)

	var envelope struct {
		Data models.DashboardCharts `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))
	charts := envelope.Data

	require.Len(t, charts.RevenueByCountry, 3)
	assert.Equal(t, "Sverige", charts.RevenueByCountry[0].Country)
	assert.InDelta(t, 1800, charts.RevenueByCountry[0].Revenue, 1e-9)

	// Orphan sale lands in the Unknown bucket
	countries := map[string]float64{}
	for _, entry := range charts.RevenueByCountry {
		countries[entry.Country] = entry.Revenue
	}
	assert.InDelta(t, 100, countries["Unknown"], 1e-9)

	require.NotEmpty(t, charts.RevenueByGroup)
	require.Len(t, charts.RevenueTrend, 3)
	assert.Equal(t, "2025-01-01", charts.RevenueTrend[0].Date)
	assert.InDelta(t, 1500, charts.RevenueTrend[0].Revenue, 1e-9)
	assert.InDelta(t, 400, charts.RevenueTrend[2].Revenue, 1e-9)

	require.NotEmpty(t, charts.TopCustomersByTB)
	assert.Equal(t, "Möbler AB", charts.TopCustomersByTB[0].Customer)
	assert.InDelta(t, 500, charts.TopCustomersByTB[0].TBAmount, 1e-9)

	require.Len(t, charts.ArticleStats, 2)
	assert.Equal(t, "E09005 - Silent Socks 28mm", charts.ArticleStats[0].Article)
	assert.Equal(t, 16, charts.ArticleStats[0].Quantity)
	assert.InDelta(t, 2300, charts.ArticleStats[0].Revenue, 1e-9)
}

func TestDashboardChartsFiltered(t *testing.T) {
	app := setupTestApp(t)
	seedTestData(t)

	resp, body := doRequest(t, app, httptest.NewRequest("GET", "/api/v1/dashboard/charts?customer_type=private", nil))
	require.Equal(t, 200, resp.StatusCode)

	var envelope struct {
		Data models.DashboardCharts `json:"data"`
	}
	require.NoError(t, json.Unmarshal(body, &envelope))

	require.Len(t, envelope.Data.TopCustomersByTB, 1)
	assert.Equal(t, "Anna Svensson", envelope.Data.TopCustomersByTB[0].Customer)
}
