package models

// SalesFilter narrows the joined sales set. Zero values mean "no filter".
// CustomerType is "business" or "private"; private customers are the ones
// whose customer number starts with 90.
type SalesFilter struct {
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Country       string `json:"country"`
	CustomerGroup string `json:"customer_group"`
	Customer      string `json:"customer"`
	Article       string `json:"article"` // "<id> - <name>" label
	CustomerType  string `json:"customer_type"`
}

// AIAnalyzeRequest asks for a narrative analysis of the filtered data.
type AIAnalyzeRequest struct {
	Provider string `json:"provider"` // "gemini" or "openai"
	SalesFilter
}

// AIAnalyzeResponse carries the markdown analysis back to the client.
type AIAnalyzeResponse struct {
	Provider string `json:"provider"`
	Context  string `json:"context"`
	Analysis string `json:"analysis"`
}

// ForecastRequest asks for a revenue projection of the filtered data.
type ForecastRequest struct {
	SalesFilter
	// DaysAhead defaults to 180 (roughly six months).
	DaysAhead int `json:"days_ahead"`
}

// ForecastPoint is one dated value of the combined series. Type is
// "historical" or "predicted"; the confidence bounds are only present on
// predicted points.
type ForecastPoint struct {
	Date        string   `json:"date"`
	SalesAmount float64  `json:"sales_amount"`
	Type        string   `json:"type"`
	CILower     *float64 `json:"ci_lower,omitempty"`
	CIUpper     *float64 `json:"ci_upper,omitempty"`
}

// ForecastResponse is the full projection with the fitted model parameters.
type ForecastResponse struct {
	Points    []ForecastPoint `json:"points"`
	Slope     float64         `json:"slope"`
	Intercept float64         `json:"intercept"`
	R2        float64         `json:"r2"`
	Context   string          `json:"context"`
}

// AIKeyRequest sets an API key for one provider.
type AIKeyRequest struct {
	Provider string `json:"provider"`
	APIKey   string `json:"api_key"`
}

// AIKeyStatus reports whether a key is configured, without revealing it.
type AIKeyStatus struct {
	Provider   string `json:"provider"`
	Configured bool   `json:"configured"`
	MaskedKey  string `json:"masked_key,omitempty"`
}
