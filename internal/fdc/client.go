// Package fdc is a client for the USDA FoodData Central API. Food
// detail payloads are normalized through the nutrient pipeline before
// they become formulation foods.
package fdc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"formulator/internal/nutrient"
	"formulator/models"
)

const defaultBaseURL = "https://api.nal.usda.gov/fdc/v1"

// SearchResult is one row of a food search response.
type SearchResult struct {
	FDCID       int64  `json:"fdcId"`
	Description string `json:"description"`
	DataType    string `json:"dataType"`
	BrandOwner  string `json:"brandOwner,omitempty"`
}

// Client talks to the FoodData Central API. The zero value is not
// usable; APIKey is required. Cache is optional and stores raw
// responses keyed by request.
type Client struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Cache      Cache
}

type searchResponse struct {
	Foods []SearchResult `json:"foods"`
}

type foodDetail struct {
	FDCID         int64             `json:"fdcId"`
	Description   string            `json:"description"`
	DataType      string            `json:"dataType"`
	BrandOwner    string            `json:"brandOwner"`
	FoodNutrients []nutrient.Record `json:"foodNutrients"`
}

// Search queries foods by free text. dataTypes filters the result to
// the given source datasets when non-empty.
func (c *Client) Search(ctx context.Context, query string, dataTypes []string, pageSize int) ([]SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("search query must not be empty")
	}
	if pageSize <= 0 {
		pageSize = 25
	}

	reqBody := map[string]any{
		"query":    query,
		"pageSize": pageSize,
	}
	if len(dataTypes) > 0 {
		reqBody["dataType"] = dataTypes
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal search payload: %w", err)
	}

	cacheKey := "search:" + string(payload)
	body, err := c.fetch(ctx, http.MethodPost, "/foods/search", payload, cacheKey)
	if err != nil {
		return nil, err
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	return parsed.Foods, nil
}

// Food fetches one food by FDC ID, runs its nutrient rows through the
// normalization pipeline and returns a formulation-ready food with
// per-100g amounts.
func (c *Client) Food(ctx context.Context, fdcID int64) (*models.Food, error) {
	if fdcID <= 0 {
		return nil, fmt.Errorf("fdc id must be positive: %d", fdcID)
	}

	path := fmt.Sprintf("/food/%d", fdcID)
	body, err := c.fetch(ctx, http.MethodGet, path, nil, "food:"+path)
	if err != nil {
		return nil, err
	}

	var detail foodDetail
	if err := json.Unmarshal(body, &detail); err != nil {
		return nil, fmt.Errorf("decode food %d: %w", fdcID, err)
	}

	food, err := models.NewFood(detail.FDCID, detail.Description, detail.DataType, detail.BrandOwner, nil)
	if err != nil {
		return nil, fmt.Errorf("food %d: %w", fdcID, err)
	}

	normalized := nutrient.Normalize(detail.FoodNutrients, detail.DataType)
	for _, rec := range normalized {
		if rec.Amount == nil {
			continue
		}
		food.Nutrients = append(food.Nutrients, models.Nutrient{
			Name:   rec.Nutrient.Name,
			Unit:   rec.Nutrient.Unit,
			Amount: *rec.Amount,
			ID:     rec.Nutrient.ID,
			Number: rec.Nutrient.Number,
		})
	}
	return food, nil
}

func (c *Client) fetch(ctx context.Context, method, path string, payload []byte, cacheKey string) ([]byte, error) {
	if strings.TrimSpace(c.APIKey) == "" {
		return nil, fmt.Errorf("missing FDC API key")
	}

	if c.Cache != nil {
		if body, ok := c.Cache.Get(cacheKey); ok {
			return body, nil
		}
	}

	baseURL := strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 12 * time.Second}
	}

	url := fmt.Sprintf("%s%s?api_key=%s", baseURL, path, c.APIKey)
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	if c.Cache != nil {
		c.Cache.Set(cacheKey, body)
	}
	return body, nil
}
