package cache

import (
	"context"
	"fmt"
	"time"
)

const (
	UserKeyPrefix           = "user:%d"
	PlatformKeyPrefix       = "platform:%d"
	ProfileKeyPrefix        = "profile:%d"
	HistoricalPageKeyPrefix = "user:%d:history:%d:%d"
	AnalysisStatsKeyPrefix  = "profile:%d:analysis-stats"
)

const (
	UserTTL           = 5 * time.Minute
	PlatformTTL       = 30 * time.Minute
	ProfileTTL        = 10 * time.Minute
	HistoricalPageTTL = 5 * time.Minute
	AnalysisStatsTTL  = 2 * time.Minute
)

func UserKey(userID uint) string {
	return fmt.Sprintf(UserKeyPrefix, userID)
}

func PlatformKey(platformID uint) string {
	return fmt.Sprintf(PlatformKeyPrefix, platformID)
}

func ProfileKey(profileID uint) string {
	return fmt.Sprintf(ProfileKeyPrefix, profileID)
}

func HistoricalPageKey(userID uint, limit, offset int) string {
	return fmt.Sprintf(HistoricalPageKeyPrefix, userID, limit, offset)
}

func AnalysisStatsKey(profileID uint) string {
	return fmt.Sprintf(AnalysisStatsKeyPrefix, profileID)
}

func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}

func InvalidatePlatform(ctx context.Context, platformID uint) {
	Invalidate(ctx, PlatformKey(platformID))
}

func InvalidateProfile(ctx context.Context, profileID uint) {
	Invalidate(ctx, ProfileKey(profileID))
	Invalidate(ctx, AnalysisStatsKey(profileID))
}

// InvalidateHistoricalPages drops every cached history page for the user.
// Pages are keyed by limit/offset so a scan is required.
func InvalidateHistoricalPages(ctx context.Context, userID uint) {
	if client == nil {
		return
	}
	pattern := fmt.Sprintf("user:%d:history:*", userID)
	iter := client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		client.Del(ctx, iter.Val())
	}
}
