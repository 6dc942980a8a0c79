package models

// --- Core Models ---

// Customer is one row of the customer registry ("Kundlista" workbook).
type Customer struct {
	CustomerNumber string  `json:"customer_number"`
	Name           *string `json:"name,omitempty"`
	Address        *string `json:"address,omitempty"`
	ZipCode        *string `json:"zip_code,omitempty"`
	City           *string `json:"city,omitempty"`
	Country        *string `json:"country,omitempty"`
	CustomerGroup  *string `json:"customer_group,omitempty"`
}

// SaleRecord is a single article line extracted from a sales statistics
// workbook. Date is the period start in YYYY-MM-DD form.
type SaleRecord struct {
	Date           string  `json:"date"`
	CustomerNumber string  `json:"customer_number"`
	ArticleID      string  `json:"article_id"`
	ArticleName    string  `json:"article_name"`
	Quantity       int     `json:"quantity"`
	TBAmount       float64 `json:"tb_amount"`
	SalesAmount    float64 `json:"sales_amount"`
}

// SalesRow is a sale joined with its customer. Customer fields are nil when
// the sale references a customer number missing from the registry.
type SalesRow struct {
	Date           string  `json:"date"`
	ArticleID      string  `json:"article_id"`
	Article        string  `json:"article"`
	CustomerNumber string  `json:"customer_number"`
	Quantity       int     `json:"quantity"`
	TBAmount       float64 `json:"tb_amount"`
	SalesAmount    float64 `json:"sales_amount"`
	Customer       *string `json:"customer,omitempty"`
	Country        *string `json:"country,omitempty"`
	CustomerGroup  *string `json:"customer_group,omitempty"`
	City           *string `json:"city,omitempty"`
}

// --- Import ---

// ImportFileResult reports the outcome for one uploaded workbook.
type ImportFileResult struct {
	Filename string  `json:"filename"`
	Type     string  `json:"type"` // "customers" or "sales"
	Records  int     `json:"records"`
	Error    *string `json:"error,omitempty"`
}

// ImportSummary is the response body of a bulk import.
type ImportSummary struct {
	Files         []ImportFileResult `json:"files"`
	CustomerFiles int                `json:"customer_files"`
	SalesFiles    int                `json:"sales_files"`
	TotalRecords  int                `json:"total_records"`
}

// --- Dashboard ---

// DashboardSummary holds the KPI block of the dashboard.
type DashboardSummary struct {
	TotalRevenue  float64 `json:"total_revenue"`
	TotalTB       float64 `json:"total_tb"`
	TBMarginPct   float64 `json:"tb_margin_pct"`
	TotalQuantity int     `json:"total_quantity"`
	RecordCount   int     `json:"record_count"`
}

// CountryRevenue is revenue aggregated per country.
type CountryRevenue struct {
	Country string  `json:"country"`
	Revenue float64 `json:"revenue"`
}

// GroupRevenue is revenue aggregated per customer group.
type GroupRevenue struct {
	CustomerGroup string  `json:"customer_group"`
	Revenue       float64 `json:"revenue"`
}

// TrendPoint is revenue aggregated per day.
type TrendPoint struct {
	Date    string  `json:"date"`
	Revenue float64 `json:"revenue"`
}

// CustomerTB is contribution margin aggregated per customer.
type CustomerTB struct {
	Customer string  `json:"customer"`
	TBAmount float64 `json:"tb_amount"`
}

// ArticleStat aggregates one article label ("<id> - <name>").
type ArticleStat struct {
	Article  string  `json:"article"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
}

// DashboardCharts carries every chart the dashboard renders.
type DashboardCharts struct {
	RevenueByCountry []CountryRevenue `json:"revenue_by_country"`
	RevenueByGroup   []GroupRevenue   `json:"revenue_by_group"`
	RevenueTrend     []TrendPoint     `json:"revenue_trend"`
	TopCustomersByTB []CustomerTB     `json:"top_customers_by_tb"`
	ArticleStats     []ArticleStat    `json:"article_stats"`
}

// --- Pagination ---

// Pagination details for paginated responses.
type Pagination struct {
	TotalItems  int `json:"total_items"`
	TotalPages  int `json:"total_pages"`
	CurrentPage int `json:"current_page"`
	PageSize    int `json:"page_size"`
}

// PaginatedSalesResponse for the sales listing.
type PaginatedSalesResponse struct {
	Data       []SalesRow `json:"data"`
	Pagination Pagination `json:"pagination"`
}
