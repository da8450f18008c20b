package config

import "strconv"

type QuotaConfig interface {
	GetQuotaEnabled() bool
	GetDailyRequestLimit() int
}

type Quota struct{}

var _ QuotaConfig = Quota{}

func (Quota) GetQuotaEnabled() bool {
	return GetEnv("QUOTA_ENABLED", "true") != "false"
}

func (Quota) GetDailyRequestLimit() int {
	limit, err := strconv.Atoi(GetEnv("QUOTA_DAILY_LIMIT", "25"))
	if err != nil || limit <= 0 {
		return 25
	}
	return limit
}
