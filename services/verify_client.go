// recycle-rewards-system/services/verify_client.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// VerifyServiceClient talks to the AI verification service that classifies
// photos of recyclable items.
type VerifyServiceClient struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

// VerificationResult is the verify service's verdict for one image. Every
// field the award engine consumes is required; Validate rejects partial
// responses so they never reach the ledger.
type VerificationResult struct {
	Recyclable       bool    `json:"recyclable"`
	ItemType         string  `json:"item_type"`
	MaterialCategory string  `json:"material_category"`
	Points           int64   `json:"points"`
	CO2SavedKg       float64 `json:"co2_saved_kg"`
	Confidence       int     `json:"confidence"`
	Tips             string  `json:"tips,omitempty"`
}

func NewVerifyServiceClient(baseURL, token string) *VerifyServiceClient {
	return &VerifyServiceClient{
		BaseURL: baseURL,
		Token:   token,
		Client: &http.Client{
			Timeout: 60 * time.Second, // vision models are slow
		},
	}
}

// VerifyImage asks the verify service to classify the image at imageURL.
// A non-recyclable verdict is a valid result, not an error.
func (c *VerifyServiceClient) VerifyImage(ctx context.Context, imageURL string) (*VerificationResult, error) {
	url := fmt.Sprintf("%s/verify-recyclable", c.BaseURL)

	reqBody := map[string]interface{}{
		"image_url": imageURL,
	}
	jsonData, _ := json.Marshal(reqBody)

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.Token)

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("verify service unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	if resp.StatusCode != http.StatusOK {
		log.Printf("[VERIFY] ❌ verify service returned %d: %s", resp.StatusCode, string(body))
		return nil, fmt.Errorf("verify service returned %d", resp.StatusCode)
	}

	var out VerificationResult
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("failed to decode verify service response: %w", err)
	}

	if err := out.Validate(); err != nil {
		return nil, err
	}

	return &out, nil
}

// Validate enforces the required shape of a verdict. Non-recyclable results
// only need the verdict itself; recyclable ones must carry full award data.
func (v *VerificationResult) Validate() error {
	if !v.Recyclable {
		return nil
	}
	if v.ItemType == "" {
		return &ValidationError{Field: "item_type", Reason: "missing"}
	}
	if v.MaterialCategory == "" {
		return &ValidationError{Field: "material_category", Reason: "missing"}
	}
	if v.Points <= 0 {
		return &ValidationError{Field: "points", Reason: "must be a positive integer"}
	}
	if v.CO2SavedKg < 0 {
		return &ValidationError{Field: "co2_saved_kg", Reason: "must be non-negative"}
	}
	if v.Confidence < 0 || v.Confidence > 100 {
		return &ValidationError{Field: "confidence", Reason: "must be between 0 and 100"}
	}
	return nil
}
