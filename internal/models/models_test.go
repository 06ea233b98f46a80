// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package models

import (
	"testing"
	"time"
)

func TestGestationalWeek(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name string
		lmp  time.Time
		want int
	}{
		{"same day", now, 0},
		{"six days", now.AddDate(0, 0, -6), 0},
		{"seven days", now.AddDate(0, 0, -7), 1},
		{"partial day rounds up", now.Add(-(13*24 + 1) * time.Hour), 2},
		{"twenty weeks", now.AddDate(0, 0, -140), 20},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GestationalWeek(tt.lmp, now); got != tt.want {
				t.Errorf("GestationalWeek() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRiskCountsDominant(t *testing.T) {
	tests := []struct {
		counts RiskCounts
		want   RiskLevel
	}{
		{RiskCounts{}, ""},
		{RiskCounts{Total: 3, Low: 2, Mid: 1}, RiskLow},
		{RiskCounts{Total: 4, High: 2, Low: 2}, RiskHigh},
		{RiskCounts{Total: 2, Mid: 1, Low: 1}, RiskMid},
	}
	for _, tt := range tests {
		if got := tt.counts.Dominant(); got != tt.want {
			t.Errorf("%+v.Dominant() = %q, want %q", tt.counts, got, tt.want)
		}
	}
}

func TestAccountUsable(t *testing.T) {
	now := time.Now()
	if !(&Account{IsActive: true}).Usable() {
		t.Error("active account should be usable")
	}
	if (&Account{IsActive: false}).Usable() {
		t.Error("inactive account should not be usable")
	}
	if (&Account{IsActive: true, DeletedAt: &now}).Usable() {
		t.Error("deleted account should not be usable")
	}
}
