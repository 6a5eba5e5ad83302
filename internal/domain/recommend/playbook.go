package recommend

import "github.com/okian/adlens/internal/domain/model"

// playbooks are standing platform practices, appended after the metric rules.
var playbooks = map[model.Platform][]draft{
	model.PlatformInstagram: {
		{
			typ:         TypeCreative,
			priority:    PriorityMedium,
			description: "Add relevant, popular hashtags to extend reach beyond the targeted audience.",
			impact:      "Hashtags surface ads to people browsing those topics.",
		},
		{
			typ:         TypeCreative,
			priority:    PriorityHigh,
			description: "Lead with high-quality images or video that stand out in a crowded feed.",
			impact:      "Strong visuals are the main driver of engagement on Instagram.",
		},
		{
			typ:         TypePlacement,
			priority:    PriorityMedium,
			description: "Run Stories placements alongside feed ads.",
			impact:      "Stories reach people who scroll past feed content.",
		},
	},
	model.PlatformTikTok: {
		{
			typ:         TypeCreative,
			priority:    PriorityMedium,
			description: "Make ads look like organic TikTok content rather than polished commercials.",
			impact:      "Native-looking content usually outperforms traditional ads on TikTok.",
		},
		{
			typ:         TypeCreative,
			priority:    PriorityMedium,
			description: "Partner with creators and boost their posts as Spark Ads.",
			impact:      "Spark Ads tend to earn higher engagement than brand-made ads.",
		},
	},
	model.PlatformShopee: {
		{
			typ:         TypePromotion,
			priority:    PriorityMedium,
			description: "Join Shopee platform campaigns to ride their traffic peaks.",
			impact:      "Platform campaigns bring large bursts of traffic and sales.",
		},
		{
			typ:         TypeVisibility,
			priority:    PriorityMedium,
			description: "Boost the best-selling products so they rank higher in search.",
			impact:      "Boosted products get more views and more orders.",
		},
		{
			typ:         TypePricing,
			priority:    PriorityMedium,
			description: "Offer bundles or volume discounts to raise the average order value.",
			impact:      "Bundles increase revenue per order.",
		},
	},
}

// platformAdvice is the one-line focus per platform for cross-platform reports.
var platformAdvice = map[model.Platform]draft{
	model.PlatformFacebook: {
		typ:         TypePlatformSpecific,
		priority:    PriorityMedium,
		description: "On Facebook, build custom audiences from site visitors and customer lists and target them in detail.",
		impact:      "Sharper targeting raises relevance and conversion rates.",
	},
	model.PlatformInstagram: {
		typ:         TypePlatformSpecific,
		priority:    PriorityMedium,
		description: "On Instagram, invest in striking visuals and Stories to win attention in the feed.",
		impact:      "Better visuals raise engagement and click-through rates.",
	},
	model.PlatformTikTok: {
		typ:         TypePlatformSpecific,
		priority:    PriorityMedium,
		description: "On TikTok, produce native content that follows current trends.",
		impact:      "Trend-aligned native content performs best on TikTok.",
	},
	model.PlatformShopee: {
		typ:         TypePlatformSpecific,
		priority:    PriorityMedium,
		description: "On Shopee, polish product listings and take part in platform promotions.",
		impact:      "Stronger listings and promotions drive more shop sales.",
	},
}
