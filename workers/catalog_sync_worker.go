// workers/catalog_sync_worker.go
package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"recycle-rewards-system/models"
	"recycle-rewards-system/utils"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PartnerReward is one catalog entry as the partner rewards service reports
// it. SKU is the partner's stable identifier and our upsert key.
type PartnerReward struct {
	SKU               string  `json:"sku"`
	Title             string  `json:"title"`
	Description       string  `json:"description"`
	Category          string  `json:"category"`
	PartnerName       string  `json:"partner_name"`
	ImageURL          *string `json:"image_url,omitempty"`
	PointsCost        int64   `json:"points_cost"`
	AvailableQuantity *int64  `json:"available_quantity"` // null = unlimited
	Active            bool    `json:"active"`
}

type GetPartnerCatalogResponse struct {
	Rewards []PartnerReward `json:"rewards"`
}

// CatalogSyncClient pulls the partner reward catalog into the local rewards
// table. Inventory decremented by redemptions is authoritative locally, so
// available_quantity is only written when a reward is first seen.
type CatalogSyncClient struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	DB         *gorm.DB
}

func NewCatalogSyncClient(db *gorm.DB, baseURL, serviceToken string) *CatalogSyncClient {
	return &CatalogSyncClient{
		BaseURL:    baseURL,
		Token:      serviceToken,
		DB:         db,
		HTTPClient: utils.HTTPClient,
	}
}

func (c *CatalogSyncClient) FetchCatalog(ctx context.Context) ([]PartnerReward, error) {
	u, err := url.Parse(fmt.Sprintf("%s/api/v1/public/rewards", c.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("X-Service-Token", c.Token)

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call partner catalog service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("partner catalog service returned status %d: %s", resp.StatusCode, string(body))
	}

	var response GetPartnerCatalogResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("failed to decode partner catalog response: %w", err)
	}

	return response.Rewards, nil
}

// UpsertCatalog writes a batch of partner rewards into the rewards table.
func (c *CatalogSyncClient) UpsertCatalog(partnerRewards []PartnerReward) (int, error) {
	if len(partnerRewards) == 0 {
		return 0, nil
	}

	rewards := make([]models.Reward, 0, len(partnerRewards))
	for _, pr := range partnerRewards {
		if pr.SKU == "" || pr.Title == "" || pr.PointsCost <= 0 {
			log.Printf("[CATALOG] ⚠️ Skipping malformed partner reward (sku=%q, title=%q)", pr.SKU, pr.Title)
			continue
		}
		sku := pr.SKU
		rewards = append(rewards, models.Reward{
			ID:                uuid.NewString(),
			Title:             pr.Title,
			Slug:              slug.Make(pr.Title),
			Description:       pr.Description,
			Category:          pr.Category,
			PartnerName:       pr.PartnerName,
			PartnerSKU:        &sku,
			ImageURL:          pr.ImageURL,
			PointsCost:        pr.PointsCost,
			AvailableQuantity: pr.AvailableQuantity,
			IsActive:          pr.Active,
		})
	}
	if len(rewards) == 0 {
		return 0, nil
	}

	// available_quantity deliberately absent from the conflict columns:
	// local redemptions own the remaining stock once a reward exists.
	if err := c.DB.Clauses(
		clause.OnConflict{
			Columns: []clause.Column{{Name: "partner_sku"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"title",
				"slug",
				"description",
				"category",
				"partner_name",
				"image_url",
				"points_cost",
				"is_active",
				"updated_at",
			}),
		},
	).Create(&rewards).Error; err != nil {
		return 0, err
	}

	return len(rewards), nil
}

// PollCatalog refreshes the reward catalog on an interval until ctx ends.
func PollCatalog(ctx context.Context, client *CatalogSyncClient, pollInterval time.Duration) {
	log.Println("Starting partner catalog polling...")

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Catalog polling stopped.")
			return
		case <-ticker.C:
			partnerRewards, err := client.FetchCatalog(ctx)
			if err != nil {
				log.Printf("❌ Error polling partner catalog: %v", err)
				continue
			}

			count, err := client.UpsertCatalog(partnerRewards)
			if err != nil {
				log.Printf("❌ Failed to upsert %d reward(s): %v", len(partnerRewards), err)
				continue
			}
			if count > 0 {
				log.Printf("✅ Upserted %d reward(s) from partner catalog.", count)
			}
		}
	}
}
