package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the calendar date format used by requests and daily rows.
const DateLayout = "2006-01-02"

// CampaignRequest asks for the analysis of one campaign's raw analytics.
// Platform stays a free-form tag so unknown platforms surface as domain errors.
type CampaignRequest struct {
	Platform    string          `json:"platform"`
	CampaignID  string          `json:"campaign_id"`
	StartDate   string          `json:"start_date,omitempty"`
	EndDate     string          `json:"end_date,omitempty"`
	TotalBudget *float64        `json:"total_budget,omitempty"`
	Analytics   json.RawMessage `json:"analytics"`
}

// Window parses the optional start and end dates. When exactly one bound is
// given the other is placed days-1 days away so the range spans days days.
func (r CampaignRequest) Window(days int) (start, end time.Time, err error) {
	if r.StartDate != "" {
		if start, err = time.Parse(DateLayout, r.StartDate); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: start_date: %v", ErrInvalidRequest, err)
		}
	}
	if r.EndDate != "" {
		if end, err = time.Parse(DateLayout, r.EndDate); err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: end_date: %v", ErrInvalidRequest, err)
		}
	}
	switch {
	case !start.IsZero() && !end.IsZero() && end.Before(start):
		return time.Time{}, time.Time{}, fmt.Errorf("%w: end_date before start_date", ErrInvalidRequest)
	case days > 0 && start.IsZero() && !end.IsZero():
		start = end.AddDate(0, 0, -(days - 1))
	case days > 0 && end.IsZero() && !start.IsZero():
		end = start.AddDate(0, 0, days-1)
	}
	return start, end, nil
}
