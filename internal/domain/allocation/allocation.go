// Package allocation shares a budget across entities in proportion to a
// performance score.
package allocation

import (
	"fmt"
	"math"

	"github.com/okian/adlens/internal/domain/derived"
	"github.com/okian/adlens/internal/domain/model"
)

// DefaultROASCap replaces unbounded ROAS before scoring.
const DefaultROASCap = 100.0

// Promotion types assigned to marketplace entries.
const (
	PromotionDailyDiscover = "daily_discover"
	PromotionFlashSale     = "flash_sale"
)

// Entity is anything a budget share can go to: an ad set, ad group,
// product listing or a whole platform.
type Entity struct {
	ID       string
	Name     string
	Platform model.Platform
	Record   model.PerformanceRecord
}

// Entry is one entity's share of the budget.
type Entry struct {
	EntityID             string         `json:"entity_id"`
	Name                 string         `json:"name,omitempty"`
	Platform             model.Platform `json:"platform,omitempty"`
	CurrentSpend         float64        `json:"current_spend"`
	AllocatedBudget      float64        `json:"allocated_budget"`
	AllocationPercentage float64        `json:"allocation_percentage"`
	Score                float64        `json:"score"`
	ROAS                 derived.ROAS   `json:"roas"`
	CVR                  float64        `json:"cvr"`
	CPA                  float64        `json:"cpa"`
	PromotionType        string         `json:"recommended_promotion_type,omitempty"`
}

// Result is one allocation run. Entries follow input order.
type Result struct {
	TotalBudget float64 `json:"total_budget"`
	EqualSplit  bool    `json:"equal_split"`
	Entries     []Entry `json:"entries"`
}

// Allocate distributes the budget. When every score is zero the budget is
// split equally. Shares are taken on scores scaled by the largest one, so
// scores near the float limit still sum without overflow.
func Allocate(entities []Entity, opts ...Option) (Result, error) {
	if len(entities) == 0 {
		return Result{}, ErrNoEntitiesToAllocate
	}
	s := settings{scorer: ROASScore, roasCap: DefaultROASCap}
	for _, opt := range opts {
		opt(&s)
	}

	var total float64
	if s.totalBudget != nil {
		total = *s.totalBudget
		if total < 0 || math.IsNaN(total) || math.IsInf(total, 0) {
			return Result{}, fmt.Errorf("%w: %v", ErrInvalidBudget, total)
		}
	} else {
		for _, e := range entities {
			total += e.Record.Spend
		}
		if total == 0 {
			total = s.fallbackBudget
		}
	}

	res := Result{TotalBudget: total, Entries: make([]Entry, len(entities))}
	var maxScore float64
	for i, e := range entities {
		m := derived.Compute(e.Record)
		score := s.scorer(ScoreInput{
			Platform: e.Platform,
			Record:   e.Record,
			Metrics:  m,
			ROAS:     m.ROAS.Capped(s.roasCap),
		})
		if score < 0 || math.IsNaN(score) || math.IsInf(score, 0) {
			score = 0
		}
		maxScore = math.Max(maxScore, score)
		res.Entries[i] = Entry{
			EntityID:     e.ID,
			Name:         e.Name,
			Platform:     e.Platform,
			CurrentSpend: e.Record.Spend,
			Score:        score,
			ROAS:         m.ROAS,
			CVR:          m.CVR,
			CPA:          m.CPA,
		}
	}

	var scaledTotal float64
	if maxScore > 0 {
		for _, e := range res.Entries {
			scaledTotal += e.Score / maxScore
		}
	}
	res.EqualSplit = scaledTotal <= 0
	for i := range res.Entries {
		share := 1 / float64(len(res.Entries))
		if !res.EqualSplit {
			share = res.Entries[i].Score / maxScore / scaledTotal
		}
		res.Entries[i].AllocatedBudget = total * share
		res.Entries[i].AllocationPercentage = share * 100
		if s.promotionThreshold > 0 {
			res.Entries[i].PromotionType = PromotionFlashSale
			if share > s.promotionThreshold {
				res.Entries[i].PromotionType = PromotionDailyDiscover
			}
		}
	}
	return res, nil
}
