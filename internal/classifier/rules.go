// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package classifier

import (
	"github.com/tomtom215/velora/internal/models"
)

// Recommendation is the advice bundle attached to a fallback result.
type Recommendation struct {
	Tindakan   []string `json:"tindakan"`
	Pengawasan string   `json:"pengawasan"`
	Kontrol    string   `json:"kontrol"`
}

// FallbackResult is the body produced when the remote model is unavailable.
type FallbackResult struct {
	RiskLevel       models.RiskLevel `json:"risk_level"`
	Features        Vitals           `json:"features"`
	Recommendations Recommendation   `json:"recommendations"`
	Fallback        bool             `json:"fallback"`
}

var recommendations = map[models.RiskLevel]Recommendation{
	models.RiskHigh: {
		Tindakan: []string{
			"Segera konsultasikan kondisi Anda dengan dokter atau bidan",
			"Lakukan pemeriksaan kesehatan secara menyeluruh",
			"Ikuti semua saran dan petunjuk dari tenaga medis",
		},
		Pengawasan: "Perlu pengawasan medis intensif",
		Kontrol:    "Kontrol mingguan atau sesuai anjuran dokter",
	},
	models.RiskMid: {
		Tindakan: []string{
			"Lakukan pemeriksaan rutin sesuai jadwal",
			"Jaga pola makan dan istirahat yang baik",
			"Pantau tekanan darah secara teratur",
		},
		Pengawasan: "Perlu pengawasan medis reguler",
		Kontrol:    "Kontrol 2 minggu sekali atau sesuai anjuran",
	},
	models.RiskLow: {
		Tindakan: []string{
			"Lanjutkan pemeriksaan kehamilan secara rutin",
			"Pertahankan pola hidup sehat",
			"Tetap waspada terhadap perubahan kondisi",
		},
		Pengawasan: "Pengawasan medis rutin",
		Kontrol:    "Kontrol sesuai jadwal pemeriksaan rutin",
	},
}

// RecommendationsFor returns the bundle for tier, defaulting to low risk.
func RecommendationsFor(tier models.RiskLevel) Recommendation {
	rec, ok := recommendations[tier]
	if !ok {
		rec = recommendations[models.RiskLow]
	}
	out := rec
	out.Tindakan = append([]string(nil), rec.Tindakan...)
	return out
}

// FallbackTier applies the threshold chain. Any single high threshold wins
// over everything else.
func FallbackTier(v Vitals) models.RiskLevel {
	switch {
	case v.SystolicBP > 140 || v.DiastolicBP > 90 || v.BS > 12.0 ||
		v.BodyTemp > 100.4 || v.HeartRate > 100 || v.Age > 40:
		return models.RiskHigh
	case v.SystolicBP > 130 || v.DiastolicBP > 80 || v.BS > 9.0 ||
		v.BodyTemp > 99.5 || v.HeartRate > 90 || v.Age > 35:
		return models.RiskMid
	default:
		return models.RiskLow
	}
}

// Fallback classifies v locally.
func Fallback(v Vitals) FallbackResult {
	tier := FallbackTier(v)
	return FallbackResult{
		RiskLevel:       tier,
		Features:        v,
		Recommendations: RecommendationsFor(tier),
		Fallback:        true,
	}
}
