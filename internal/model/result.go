// Package model defines the core domain models used throughout the application.
package model

import "encoding/json"

// ResultEntry is one calendar month of a backend calculation.
// All monetary values are computed by the backend and carried as received.
type ResultEntry struct {
	Month           int     `json:"month"`
	Year            int     `json:"year"`
	Demand          float64 `json:"demand"`
	OpeningBalance  float64 `json:"openingBalance"`
	ClosingBalance  float64 `json:"closingBalance"`
	OverdueAmount   float64 `json:"overdueAmount"`
	Interest        float64 `json:"interest"`
	RunningInterest float64 `json:"runningInterest"`
}

// HasOverdue reports whether interest was charged on an overdue amount.
func (e ResultEntry) HasOverdue() bool {
	return e.OverdueAmount > 0
}

// UploadResponse is the result of a calculation request.
// Totals are whatever the backend returned; they are never recomputed.
type UploadResponse struct {
	// Raw is the response body exactly as received, when known.
	Raw                 json.RawMessage `json:"-"`
	Results             []ResultEntry   `json:"results"`
	TotalClosingBalance float64         `json:"totalClosingBalance"`
	TotalInterest       float64         `json:"totalInterest"`
}

// Payload returns the body to post back to the download endpoint: the bytes
// the backend sent when available, otherwise the typed fields re-encoded.
func (r UploadResponse) Payload() ([]byte, error) {
	if len(r.Raw) > 0 {
		return r.Raw, nil
	}
	return json.Marshal(r)
}

// Last returns the final entry of the result set.
func (r UploadResponse) Last() (ResultEntry, bool) {
	if len(r.Results) == 0 {
		return ResultEntry{}, false
	}
	return r.Results[len(r.Results)-1], true
}
