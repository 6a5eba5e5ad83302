// Package model contains domain models passed between layers.
package model

import "strings"

// Platform identifies an ad platform whose analytics the engine understands.
type Platform string

// Known platforms.
const (
	PlatformFacebook  Platform = "facebook"
	PlatformInstagram Platform = "instagram"
	PlatformTikTok    Platform = "tiktok"
	PlatformShopee    Platform = "shopee"
)

// Family groups platforms sharing an analytics shape and strategy vocabulary.
type Family string

// Platform families.
const (
	FamilyAuction     Family = "auction"
	FamilyShortVideo  Family = "short_video"
	FamilyMarketplace Family = "marketplace"
)

var families = map[Platform]Family{
	PlatformFacebook:  FamilyAuction,
	PlatformInstagram: FamilyAuction,
	PlatformTikTok:    FamilyShortVideo,
	PlatformShopee:    FamilyMarketplace,
}

// Platforms returns every known platform in a stable order.
func Platforms() []Platform {
	return []Platform{PlatformFacebook, PlatformInstagram, PlatformTikTok, PlatformShopee}
}

// ParsePlatform resolves a platform tag, ignoring case and surrounding space.
func ParsePlatform(tag string) (Platform, bool) {
	p := Platform(strings.ToLower(strings.TrimSpace(tag)))
	_, ok := families[p]
	return p, ok
}

// Family returns the platform family, or "" for unknown platforms.
func (p Platform) Family() Family {
	return families[p]
}

// Valid reports whether p is a known platform.
func (p Platform) Valid() bool {
	_, ok := families[p]
	return ok
}

// HasAdSpend reports whether the platform bills for ad delivery.
func (f Family) HasAdSpend() bool {
	return f == FamilyAuction || f == FamilyShortVideo
}
