package domain

import "math"

type OverallAnalytics struct {
	TotalLeads     int64   `json:"totalLeads"`
	ConvertedLeads int64   `json:"convertedLeads"`
	ConversionRate float64 `json:"conversionRate"`
}

type StatusCount struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type CampaignAnalytics struct {
	ByStatus  []StatusCount `json:"byStatus"`
	TotalSent int64         `json:"totalSent"`
}

type SourceCount struct {
	Source string `json:"source"`
	Count  int64  `json:"count"`
}

// DateCount leads created on one UTC day, Date formatted YYYY-MM-DD.
type DateCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

// ConversionRate is converted/total as a percentage rounded to one decimal
// (round(rate*1000)/10). Zero when total is zero.
func ConversionRate(total, converted int64) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(converted)/float64(total)*1000) / 10
}
