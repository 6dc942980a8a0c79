package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sort"
	"strings"
	"time"

	"app/config"
	"app/database"
	"app/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	geminiModelName = "gemini-2.5-flash-preview-09-2025"
	openAIModelName = "gpt-4o"
	openAIEndpoint  = "https://api.openai.com/v1/chat/completions"
)

// HandleAnalyzeData builds a summary of the filtered sales data and asks the
// selected provider for a narrative analysis.
// POST /api/v1/ai/analyze
func HandleAnalyzeData(c *fiber.Ctx) error {
	var req models.AIAnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": "Invalid request body"})
	}
	if req.Provider == "" {
		req.Provider = "gemini"
	}

	apiKey, err := resolveAPIKey(req.Provider)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}
	if apiKey == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": fmt.Sprintf("No API key configured for %s. Save one via the settings endpoint first.", req.Provider),
		})
	}

	ctx := context.Background()
	rows, err := queryFilteredRows(ctx, req.SalesFilter)
	if err != nil {
		log.Printf("Error loading data for AI analysis: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}
	if len(rows) == 0 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"status": "error", "message": "No data matches the selection"})
	}

	contextStr := filterContext(req.SalesFilter)
	prompt := buildAnalysisPrompt(rows, contextStr)

	analysis, err := generateWithProvider(ctx, req.Provider, apiKey, prompt)
	if err != nil {
		log.Printf("AI provider error (%s): %v", req.Provider, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}

	return c.JSON(fiber.Map{"status": "success", "data": models.AIAnalyzeResponse{
		Provider: req.Provider,
		Context:  contextStr,
		Analysis: analysis,
	}})
}

// HandleVerifyAIKey does a minimal round-trip against the configured
// provider so users can check a key without burning a full analysis.
// GET /api/v1/ai/verify
func HandleVerifyAIKey(c *fiber.Ctx) error {
	provider := c.Query("provider", "gemini")

	apiKey, err := resolveAPIKey(provider)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}
	if apiKey == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"status":  "error",
			"message": fmt.Sprintf("No API key configured for %s", provider),
		})
	}

	reply, err := generateWithProvider(context.Background(), provider, apiKey, "Reply with the single word: OK")
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"status": "error", "message": err.Error()})
	}

	return c.JSON(fiber.Map{
		"status": "success",
		"data":   fiber.Map{"provider": provider, "reply": strings.TrimSpace(reply)},
	})
}

// settingKeyForProvider maps a provider name to its settings table key.
func settingKeyForProvider(provider string) (string, error) {
	switch provider {
	case "gemini":
		return "gemini_api_key", nil
	case "openai":
		return "openai_api_key", nil
	default:
		return "", fmt.Errorf("unknown provider %q, expected 'gemini' or 'openai'", provider)
	}
}

// resolveAPIKey prefers a key saved in the settings table and falls back to
// the environment.
func resolveAPIKey(provider string) (string, error) {
	settingKey, err := settingKeyForProvider(provider)
	if err != nil {
		return "", err
	}

	key, err := database.GetSetting(settingKey)
	if err != nil {
		return "", fmt.Errorf("reading stored API key: %w", err)
	}
	if key != "" {
		return key, nil
	}

	if provider == "gemini" {
		return config.AppConfig.GeminiAPIKey, nil
	}
	return config.AppConfig.OpenAIAPIKey, nil
}

// providerTimeout bounds the round-trip so a dead key cannot hang the UI.
const providerTimeout = 60 * time.Second

func generateWithProvider(ctx context.Context, provider, apiKey, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, providerTimeout)
	defer cancel()

	switch provider {
	case "gemini":
		return callGemini(ctx, apiKey, prompt)
	case "openai":
		return callOpenAI(ctx, apiKey, prompt)
	}
	return "", fmt.Errorf("unknown provider %q", provider)
}

// callGemini sends the prompt through the official client and returns the
// first candidate's text.
func callGemini(ctx context.Context, apiKey, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return "", fmt.Errorf("failed to create Gemini client: %w", err)
	}
	defer client.Close()

	model := client.GenerativeModel(geminiModelName)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("Gemini returned an empty response")
	}
	return fmt.Sprint(resp.Candidates[0].Content.Parts[0]), nil
}

// callOpenAI posts a chat completion request. There is no SDK dependency;
// the endpoint is a single stable POST.
func callOpenAI(ctx context.Context, apiKey, prompt string) (string, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"model": openAIModelName,
		"messages": []map[string]string{
			{"role": "system", "content": "You are a business data analyst."},
			{"role": "user", "content": prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("encoding OpenAI request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, openAIEndpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("building OpenAI request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	defer resp.Body.Close()

	var raw struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", fmt.Errorf("decoding OpenAI response: %w", err)
	}
	if raw.Error != nil {
		return "", fmt.Errorf("OpenAI API error: %s", raw.Error.Message)
	}
	if len(raw.Choices) == 0 {
		return "", fmt.Errorf("OpenAI returned no choices")
	}
	return strings.TrimSpace(raw.Choices[0].Message.Content), nil
}

// buildAnalysisPrompt condenses the filtered rows into the summary the
// model sees. Raw rows never leave the process, only aggregates.
func buildAnalysisPrompt(rows []models.SalesRow, contextStr string) string {
	var totalSales, totalTB float64
	totalQty := 0
	articleRevenue := map[string]float64{}
	customerRevenue := map[string]float64{}
	minDate, maxDate := rows[0].Date, rows[0].Date

	for _, r := range rows {
		totalSales += r.SalesAmount
		totalTB += r.TBAmount
		totalQty += r.Quantity
		articleRevenue[r.Article] += r.SalesAmount

		customer := r.CustomerNumber
		if r.Customer != nil {
			customer = *r.Customer
		}
		customerRevenue[customer] += r.SalesAmount

		if r.Date < minDate {
			minDate = r.Date
		}
		if r.Date > maxDate {
			maxDate = r.Date
		}
	}

	margin := 0.0
	if totalSales > 0 {
		margin = totalTB / totalSales * 100
	}

	trendText := "N/A"
	if minDate != maxDate {
		trendText = fmt.Sprintf("Data covers period from %s to %s", minDate, maxDate)
	}

	var b strings.Builder
	b.WriteString("Analyze the following sales data summary and provide strategic insights.\n\n")
	fmt.Fprintf(&b, "**Context**: %s\n\n", contextStr)
	b.WriteString("**Data Summary**:\n")
	fmt.Fprintf(&b, "- Total Records: %d\n", len(rows))
	fmt.Fprintf(&b, "- Total Revenue: %.2f kr\n", totalSales)
	fmt.Fprintf(&b, "- Total Profit (TB): %.2f kr (Margin: %.1f%%)\n", totalTB, margin)
	fmt.Fprintf(&b, "- Total Quantity Sold: %d\n", totalQty)
	fmt.Fprintf(&b, "- Period: %s\n\n", trendText)
	fmt.Fprintf(&b, "**Top 5 Articles (by Revenue)**:\n%s\n\n", formatTopN(articleRevenue, 5))
	fmt.Fprintf(&b, "**Top 5 Customers (by Revenue)**:\n%s\n\n", formatTopN(customerRevenue, 5))
	b.WriteString("**Instructions**:\n")
	b.WriteString("1. Summarize the key performance indicators.\n")
	b.WriteString("2. Identify the most important trends or observations.\n")
	b.WriteString("3. Provide 2-3 actionable recommendations to increase profit or sales.\n")
	b.WriteString("4. Keep the tone professional but accessible to a small business owner. Format with Markdown.\n")
	return b.String()
}

// formatTopN renders the n largest entries of a revenue map as bullet lines.
func formatTopN(m map[string]float64, n int) string {
	type kv struct {
		key   string
		value float64
	}
	entries := make([]kv, 0, len(m))
	for k, v := range m {
		entries = append(entries, kv{k, v})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].value != entries[j].value {
			return entries[i].value > entries[j].value
		}
		return entries[i].key < entries[j].key
	})
	if len(entries) > n {
		entries = entries[:n]
	}

	var b strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&b, "- %s: %.2f kr\n", e.key, e.value)
	}
	return strings.TrimRight(b.String(), "\n")
}
