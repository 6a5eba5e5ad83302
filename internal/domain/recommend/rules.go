package recommend

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/okian/adlens/internal/domain/model"
)

func videoCompletionRule(cfg Config, in Input) []draft {
	if in.Platform.Family() != model.FamilyShortVideo || in.VideoCompletionRate == nil {
		return nil
	}
	if *in.VideoCompletionRate >= cfg.VideoCompletionFloor {
		return nil
	}
	return []draft{{
		typ:      TypeCreative,
		priority: PriorityHigh,
		description: fmt.Sprintf("Only %.2f%% of viewers finish your videos. Cut them shorter and hook viewers in the first three seconds.",
			*in.VideoCompletionRate),
		impact: "Videos that are watched to the end drive more engagement and conversions.",
	}}
}

func lowCTRRule(cfg Config, in Input) []draft {
	if !in.Platform.Family().HasAdSpend() || in.Metrics.CTR >= cfg.CTRFloor {
		return nil
	}
	hint := "Test new creatives with stronger headlines and imagery."
	if in.Platform.Family() == model.FamilyShortVideo {
		hint = "Use trending sounds, effects or challenges to earn the tap."
	}
	return []draft{{
		typ:         TypeCreative,
		priority:    PriorityHigh,
		description: fmt.Sprintf("Click-through rate is %.2f%%, below the %.2f%% floor. %s", in.Metrics.CTR, cfg.CTRFloor, hint),
		impact:      "A higher CTR brings more clicks and more chances to convert.",
	}}
}

func lowCVRRule(cfg Config, in Input) []draft {
	if in.Platform.Family() == model.FamilyMarketplace {
		if in.ViewCVR >= cfg.CVRFloor {
			return nil
		}
		return []draft{{
			typ:      TypeProductListing,
			priority: PriorityHigh,
			description: fmt.Sprintf("Only %.2f%% of shop views turn into orders. Improve listing photos, descriptions and pricing.",
				in.ViewCVR),
			impact: "Better listings convert more of the traffic the shop already gets.",
		}}
	}
	if in.Metrics.CVR >= cfg.CVRFloor {
		return nil
	}
	return []draft{{
		typ:      TypeLandingPage,
		priority: PriorityHigh,
		description: fmt.Sprintf("Conversion rate is %.2f%%, below the %.2f%% floor. Make the landing page faster and its call to action clearer.",
			in.Metrics.CVR, cfg.CVRFloor),
		impact: "A better landing page converts more clicks without extra spend.",
	}}
}

func lowROASRule(cfg Config, in Input) []draft {
	if !in.Platform.Family().HasAdSpend() || !in.Metrics.ROAS.Below(cfg.ROASFloor) {
		return nil
	}
	return []draft{{
		typ:      TypeBudget,
		priority: PriorityMedium,
		description: fmt.Sprintf("Return on ad spend is %s, below the %.2f target. Move budget toward the best performing units.",
			in.Metrics.ROAS, cfg.ROASFloor),
		impact: "Reallocating budget raises the campaign's overall return.",
	}}
}

// spreadRule compares the best and worst unit: CTR for ad campaigns,
// view conversion for marketplace products.
func spreadRule(cfg Config, in Input) []draft {
	if len(in.Units) < 2 {
		return nil
	}
	marketplace := in.Platform.Family() == model.FamilyMarketplace
	value := func(u UnitMetrics) float64 {
		if marketplace {
			return u.ViewCVR
		}
		return u.Metrics.CTR
	}
	best, worst := in.Units[0], in.Units[0]
	for _, u := range in.Units[1:] {
		if value(u) > value(best) {
			best = u
		}
		if value(u) < value(worst) {
			worst = u
		}
	}
	if value(best) <= 0 || value(best) <= value(worst)*cfg.SpreadRatio {
		return nil
	}
	if marketplace {
		return []draft{{
			typ:      TypeProductOptimization,
			priority: PriorityMedium,
			description: fmt.Sprintf("'%s' converts %.2f%% of views while '%s' converts %.2f%%. Rework the weaker listing after the stronger one.",
				label(best), value(best), label(worst), value(worst)),
			impact: "Lifting weak products raises the whole shop's sales.",
		}}
	}
	return []draft{{
		typ:      TypePauseLowPerformer,
		priority: PriorityMedium,
		description: fmt.Sprintf("'%s' reaches a %.2f%% CTR while '%s' reaches %.2f%%. Pause '%s' and move its budget to stronger units.",
			label(best), value(best), label(worst), value(worst), label(worst)),
		impact: "Budget stops flowing to the unit least likely to earn clicks.",
	}}
}

func highCPARule(cfg Config, in Input) []draft {
	if !in.Platform.Family().HasAdSpend() || cfg.CPACeiling <= 0 || in.Conversions == 0 {
		return nil
	}
	if in.Metrics.CPA <= cfg.CPACeiling {
		return nil
	}
	return []draft{{
		typ:      TypeEfficiency,
		priority: PriorityMedium,
		description: fmt.Sprintf("Each conversion costs %.2f, above the %.2f ceiling. Tighten targeting and drop placements that convert poorly.",
			in.Metrics.CPA, cfg.CPACeiling),
		impact: "A lower cost per conversion buys more results from the same budget.",
	}}
}

// audienceRule names the segment with the best CTR. Ties go to the first
// segment in input order.
func audienceRule(_ Config, in Input) []draft {
	if len(in.Audience) == 0 {
		return nil
	}
	best := in.Audience[0]
	for _, s := range in.Audience[1:] {
		if s.CTR > best.CTR {
			best = s
		}
	}
	return []draft{{
		typ:      TypeAudience,
		priority: PriorityMedium,
		description: fmt.Sprintf("Your best performing audience segment is %s at a %.2f%% CTR. Give it a campaign of its own.",
			best.Name, best.CTR),
		impact: "Focusing budget on the segment that responds best lifts the whole campaign.",
	}}
}

func scheduleRule(_ Config, in Input) []draft {
	if in.Schedule == nil {
		return nil
	}
	if in.Platform.Family() == model.FamilyMarketplace {
		out := make([]draft, 0, len(in.Schedule.Promotions))
		for _, w := range in.Schedule.Promotions {
			out = append(out, draft{
				typ:         TypeSchedule,
				priority:    PriorityLow,
				description: fmt.Sprintf("Run %s promotions on %s at %s.", w.Type, strings.Join(w.Days, ", "), clockList(w.Hours)),
				impact:      "Promotions timed to peak traffic get seen and bought more.",
			})
		}
		return out
	}
	s := in.Schedule
	if len(s.TopDays) == 0 || len(s.TopHours) == 0 {
		return nil
	}
	return []draft{{
		typ:      TypeSchedule,
		priority: PriorityLow,
		description: fmt.Sprintf("Ads perform best on %s between %d:00 and %d:00. Concentrate delivery in these windows.",
			strings.Join(s.TopDays, ", "), slices.Min(s.TopHours), slices.Max(s.TopHours)),
		impact: "Serving ads when the audience converts improves efficiency.",
	}}
}

func biddingRule(_ Config, in Input) []draft {
	if in.Bidding == nil {
		return nil
	}
	return []draft{{
		typ:      TypeBidding,
		priority: PriorityMedium,
		description: fmt.Sprintf("Switch to the %s bidding strategy with the %s optimization goal.",
			in.Bidding.Strategy, in.Bidding.OptimizationGoal),
		impact: "Bidding for the outcome the campaign already delivers lowers costs.",
	}}
}

func promotionRule(_ Config, in Input) []draft {
	if in.Promotion == nil {
		return nil
	}
	p := in.Promotion
	return []draft{{
		typ:         TypePromotion,
		priority:    PriorityMedium,
		description: fmt.Sprintf("Run %s promotions %s with a %d%% discount.", p.Type, strings.ReplaceAll(p.Frequency, "_", " "), p.DiscountPercent),
		impact:      "Promotions matched to the shop's conversion level lift sales without over-discounting.",
	}}
}

func playbookRule(_ Config, in Input) []draft {
	return playbooks[in.Platform]
}

func label(u UnitMetrics) string {
	if u.Name != "" {
		return u.Name
	}
	return u.ID
}

func clockList(hours []int) string {
	parts := make([]string, len(hours))
	for i, h := range hours {
		parts[i] = strconv.Itoa(h) + ":00"
	}
	return strings.Join(parts, ", ")
}
