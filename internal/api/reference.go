// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package api

import "github.com/samber/lo"

// Static reference data served by the public health and timeline routes.

// ValueRange is a labelled preset value.
type ValueRange struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// BloodPressureRange is a labelled systolic/diastolic preset.
type BloodPressureRange struct {
	Label     string `json:"label"`
	Systolic  int    `json:"systolic"`
	Diastolic int    `json:"diastolic"`
}

// HealthParameters are the input presets for the risk form.
type HealthParameters struct {
	AgeRanges           []ValueRange         `json:"age_ranges"`
	BloodPressureRanges []BloodPressureRange `json:"blood_pressure_ranges"`
	BloodSugarRanges    []ValueRange         `json:"blood_sugar_ranges"`
	BodyTempRanges      []ValueRange         `json:"body_temp_ranges"`
	HeartRateRanges     []ValueRange         `json:"heart_rate_ranges"`
}

var healthParameters = HealthParameters{
	AgeRanges: []ValueRange{
		{Label: "10-20 tahun", Value: 15},
		{Label: "21-25 tahun", Value: 23},
		{Label: "26-30 tahun", Value: 28},
		{Label: "31-35 tahun", Value: 33},
		{Label: "36-40 tahun", Value: 38},
		{Label: "41-45 tahun", Value: 43},
		{Label: "46-50 tahun", Value: 48},
		{Label: "> 50 tahun", Value: 55},
	},
	BloodPressureRanges: []BloodPressureRange{
		{Label: "Normal (< 120/80)", Systolic: 110, Diastolic: 70},
		{Label: "Tinggi Normal (120-139/80-89)", Systolic: 130, Diastolic: 85},
		{Label: "Hipertensi Stage 1 (140-159/90-99)", Systolic: 150, Diastolic: 95},
		{Label: "Hipertensi Stage 2 (≥ 160/100)", Systolic: 170, Diastolic: 105},
	},
	BloodSugarRanges: []ValueRange{
		{Label: "Normal (6.0-7.8)", Value: 7.0},
		{Label: "Tinggi (7.9-11.0)", Value: 9.5},
		{Label: "Sangat Tinggi (> 11.0)", Value: 13.0},
	},
	BodyTempRanges: []ValueRange{
		{Label: "Normal (98.0-99.5°F)", Value: 98.6},
		{Label: "Demam Ringan (99.6-100.4°F)", Value: 100.0},
		{Label: "Demam (> 100.4°F)", Value: 101.5},
	},
	HeartRateRanges: []ValueRange{
		{Label: "Rendah (< 60 bpm)", Value: 55},
		{Label: "Normal (60-100 bpm)", Value: 80},
		{Label: "Tinggi (> 100 bpm)", Value: 110},
	},
}

// HealthService is a recommended antenatal check.
type HealthService struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	Description      string `json:"description"`
	RecommendedWeeks []int  `json:"recommendedWeeks"`
}

var everyOtherWeek = []int{4, 6, 8, 10, 12, 14, 16, 18, 20, 22, 24, 26, 28, 30, 32, 34, 36, 38, 40}

var healthServices = []HealthService{
	{
		ID:               "bloodPressure",
		Title:            "Pengukuran Tekanan Darah",
		Description:      "Monitoring tekanan darah secara rutin untuk mendeteksi hipertensi",
		RecommendedWeeks: everyOtherWeek,
	},
	{
		ID:               "weightMeasurement",
		Title:            "Pengukuran Berat Badan",
		Description:      "Monitoring pertambahan berat badan ibu hamil",
		RecommendedWeeks: everyOtherWeek,
	},
	{
		ID:               "urineTest",
		Title:            "Pemeriksaan Urine",
		Description:      "Deteksi protein dalam urine dan infeksi saluran kemih",
		RecommendedWeeks: []int{6, 12, 20, 28, 36},
	},
	{
		ID:               "bloodTest",
		Title:            "Pemeriksaan Darah",
		Description:      "Pemeriksaan kadar hemoglobin dan deteksi anemia",
		RecommendedWeeks: []int{8, 20, 32},
	},
	{
		ID:               "ultrasound",
		Title:            "USG (Ultrasonografi)",
		Description:      "Pemeriksaan perkembangan janin dan deteksi kelainan",
		RecommendedWeeks: []int{8, 20, 32},
	},
	{
		ID:               "fetalHeartRate",
		Title:            "Pemeriksaan Detak Jantung Janin",
		Description:      "Monitoring kesehatan janin melalui detak jantung",
		RecommendedWeeks: []int{12, 16, 20, 24, 28, 32, 36, 40},
	},
	{
		ID:               "immunization",
		Title:            "Imunisasi TT (Tetanus Toxoid)",
		Description:      "Perlindungan terhadap tetanus untuk ibu dan bayi",
		RecommendedWeeks: []int{16, 20},
	},
	{
		ID:               "ironSupplements",
		Title:            "Pemberian Tablet Fe",
		Description:      "Suplemen zat besi untuk mencegah anemia",
		RecommendedWeeks: []int{16, 20, 24, 28, 32, 36},
	},
}

// Symptom is a trackable pregnancy symptom.
type Symptom struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	IsDanger    bool   `json:"isDanger"`
}

var symptoms = []Symptom{
	{ID: "nausea", Title: "Mual dan Muntah", Description: "Morning sickness atau mual sepanjang hari"},
	{ID: "fatigue", Title: "Kelelahan", Description: "Merasa sangat lelah atau mengantuk"},
	{ID: "backPain", Title: "Sakit Punggung", Description: "Nyeri pada punggung bagian bawah"},
	{ID: "swelling", Title: "Pembengkakan", Description: "Pembengkakan pada kaki, tangan, atau wajah", IsDanger: true},
	{ID: "bleeding", Title: "Pendarahan", Description: "Pendarahan dari vagina", IsDanger: true},
	{ID: "severePain", Title: "Nyeri Perut Hebat", Description: "Nyeri perut yang sangat hebat atau kram", IsDanger: true},
	{ID: "headache", Title: "Sakit Kepala Berat", Description: "Sakit kepala hebat yang tidak hilang", IsDanger: true},
	{ID: "visionChanges", Title: "Gangguan Penglihatan", Description: "Penglihatan kabur atau melihat bintik-bintik", IsDanger: true},
	{ID: "reducedMovement", Title: "Gerakan Janin Berkurang", Description: "Gerakan janin yang berkurang drastis", IsDanger: true},
}

// dangerSymptoms is the set of symptom ids counted by the timeline summary.
var dangerSymptoms = lo.Associate(
	lo.Filter(symptoms, func(s Symptom, _ int) bool { return s.IsDanger }),
	func(s Symptom) (string, bool) { return s.ID, true },
)
