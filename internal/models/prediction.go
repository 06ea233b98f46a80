// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package models

import (
	"encoding/json"
	"time"
)

// RiskLevel is one of the three maternal health risk tiers.
type RiskLevel string

const (
	RiskHigh RiskLevel = "high risk"
	RiskMid  RiskLevel = "mid risk"
	RiskLow  RiskLevel = "low risk"
)

// RiskLevels lists the tiers from most to least severe.
var RiskLevels = []RiskLevel{RiskHigh, RiskMid, RiskLow}

// Valid reports whether r is a known tier.
func (r RiskLevel) Valid() bool {
	return r == RiskHigh || r == RiskMid || r == RiskLow
}

// Prediction is a row of health_predictions. Both the server-side
// classifier and client-submitted diagnoses are stored here.
type Prediction struct {
	ID          string
	UserID      string
	Age         int
	SystolicBP  int
	DiastolicBP int
	BloodSugar  float64
	BodyTemp    float64
	HeartRate   int
	RiskLevel   RiskLevel
	// Result is the opaque prediction payload stored as jsonb.
	Result    json.RawMessage
	CreatedAt time.Time
}

// RiskCounts aggregates predictions per tier.
type RiskCounts struct {
	Total int
	High  int
	Mid   int
	Low   int
}

// Dominant returns the tier with the most predictions, preferring the more
// severe tier on ties. Empty when there are no predictions.
func (c RiskCounts) Dominant() RiskLevel {
	if c.Total == 0 {
		return ""
	}
	best, n := RiskHigh, c.High
	if c.Mid > n {
		best, n = RiskMid, c.Mid
	}
	if c.Low > n {
		best = RiskLow
	}
	return best
}
