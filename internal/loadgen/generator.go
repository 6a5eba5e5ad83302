package loadgen

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"

	"github.com/google/uuid"

	"github.com/okian/adlens/internal/domain/model"
	"github.com/okian/adlens/pkg/logger"
)

const randomFloatDivisor = 1000000

// Ranges for generated traffic.
const (
	impressionsMin = 5000
	impressionsMax = 200000
	ctrMin         = 0.002
	ctrMax         = 0.05
	cvrMin         = 0.005
	cvrMax         = 0.1
	cpcMin         = 0.1
	cpcMax         = 3.0
	orderValueMin  = 10.0
	orderValueMax  = 150.0
	unitsMin       = 2
	unitsMax       = 4
)

// randomFloat returns a random float64 in [0, 1) using crypto/rand.
func randomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

func between(lo, hi float64) float64 {
	return lo + randomFloat()*(hi-lo)
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}

// traffic is one row of generated funnel numbers.
type traffic struct {
	impressions int64
	clicks      int64
	conversions int64
	spend       float64
	revenue     float64
}

func newTraffic(scale float64) traffic {
	t := traffic{impressions: int64(between(impressionsMin, impressionsMax) * scale)}
	t.clicks = int64(float64(t.impressions) * between(ctrMin, ctrMax))
	t.conversions = int64(float64(t.clicks) * between(cvrMin, cvrMax))
	t.spend = round2(float64(t.clicks) * between(cpcMin, cpcMax))
	t.revenue = round2(float64(t.conversions) * between(orderValueMin, orderValueMax))
	return t
}

// generateCampaigns creates cfg.NumCampaigns campaigns cycling through every platform
// and splits them into batches of cfg.BatchSize.
func generateCampaigns(ctx context.Context, cfg *Config, stats *Stats) ([]Batch, error) {
	logger.Get().Info(ctx, "generating campaigns", logger.Int("numCampaigns", cfg.NumCampaigns))

	platforms := model.Platforms()
	var batches []Batch
	for i := 0; i < cfg.NumCampaigns; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled during generation: %w", err)
		}
		if i%cfg.BatchSize == 0 {
			batches = append(batches, Batch{Index: len(batches), failing: map[int]bool{}})
		}
		b := &batches[len(batches)-1]

		p := platforms[i%len(platforms)]
		req := model.CampaignRequest{Platform: string(p), CampaignID: "lg-" + strconv.Itoa(i) + "-" + uuid.NewString()[:8]}

		var err error
		if cfg.FailureEvery > 0 && i%cfg.FailureEvery == cfg.FailureEvery-1 {
			b.failing[len(b.Campaigns)] = true
			req.Analytics, err = json.Marshal(map[string]any{"error": map[string]string{"message": upstreamFailureReason}})
		} else {
			req.Analytics, err = generateAnalytics(p)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to generate campaign %d: %w", i, err)
		}
		b.Campaigns = append(b.Campaigns, req)
	}

	stats.CampaignsGenerated = cfg.NumCampaigns
	logger.Get().Info(ctx, "generated campaigns", logger.Int("count", cfg.NumCampaigns), logger.Int("batches", len(batches)))
	return batches, nil
}

// generateAnalytics renders a payload in the platform's own reporting shape.
func generateAnalytics(p model.Platform) (json.RawMessage, error) {
	switch p.Family() {
	case model.FamilyAuction:
		return json.Marshal(auctionPayload())
	case model.FamilyShortVideo:
		t := newTraffic(1)
		return json.Marshal(map[string]any{
			"impressions":           t.impressions,
			"clicks":                t.clicks,
			"conversion":            t.conversions,
			"cost":                  t.spend,
			"total_purchase_value":  t.revenue,
			"video_completion_rate": round2(between(5, 60)),
		})
	case model.FamilyMarketplace:
		return json.Marshal(marketplacePayload())
	default:
		return nil, fmt.Errorf("no generator for platform %s", p)
	}
}

func auctionRow(t traffic) map[string]any {
	return map[string]any{
		"impressions":       strconv.FormatInt(t.impressions, 10),
		"clicks":            strconv.FormatInt(t.clicks, 10),
		"spend":             strconv.FormatFloat(t.spend, 'f', 2, 64),
		"actions":           []map[string]string{{"action_type": "purchase", "value": strconv.FormatInt(t.conversions, 10)}},
		"conversion_values": []map[string]string{{"action_type": "purchase", "value": strconv.FormatFloat(t.revenue, 'f', 2, 64)}},
	}
}

func auctionPayload() map[string]any {
	var total traffic
	units := make([]map[string]any, 0, unitsMax)
	n := unitsMin + int(randomFloat()*float64(unitsMax-unitsMin+1))
	for u := 0; u < n; u++ {
		t := newTraffic(1 / float64(n))
		total.impressions += t.impressions
		total.clicks += t.clicks
		total.conversions += t.conversions
		total.spend += t.spend
		total.revenue += t.revenue

		row := auctionRow(t)
		row["id"] = "adset-" + strconv.Itoa(u)
		row["name"] = "Ad set " + strconv.Itoa(u)
		units = append(units, row)
	}
	out := auctionRow(total)
	out["units"] = units
	return out
}

func marketplacePayload() map[string]any {
	var views, orders int64
	var value float64
	units := make([]map[string]any, 0, unitsMax)
	n := unitsMin + int(randomFloat()*float64(unitsMax-unitsMin+1))
	for u := 0; u < n; u++ {
		t := newTraffic(1 / float64(n))
		views += t.impressions
		orders += t.conversions
		value += t.revenue
		units = append(units, map[string]any{
			"id":                "sku-" + strconv.Itoa(u),
			"shop_views":        t.impressions,
			"order_count":       t.conversions,
			"total_order_value": t.revenue,
		})
	}
	return map[string]any{
		"shop_views":        views,
		"order_count":       orders,
		"total_order_value": round2(value),
		"units":             units,
	}
}
