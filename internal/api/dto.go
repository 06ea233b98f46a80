// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package api

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/samber/lo"

	"github.com/tomtom215/velora/internal/models"
)

// UserDTO is the public view of an account.
type UserDTO struct {
	ID        string     `json:"id"`
	FullName  string     `json:"fullName"`
	Username  *string    `json:"username"`
	Email     string     `json:"email"`
	Phone     *string    `json:"phone"`
	AvatarURL *string    `json:"avatarUrl"`
	IsActive  bool       `json:"isActive"`
	LastLogin *time.Time `json:"lastLogin"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

func toUserDTO(a *models.Account) UserDTO {
	return UserDTO{
		ID:        a.ID,
		FullName:  a.FullName,
		Username:  a.Username,
		Email:     a.Email,
		Phone:     a.Phone,
		AvatarURL: a.AvatarURL,
		IsActive:  a.IsActive,
		LastLogin: a.LastLogin,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

// AuthDTO is returned by register and login.
type AuthDTO struct {
	User  UserDTO `json:"user"`
	Token string  `json:"token"`
}

// PredictionDTO is one stored prediction.
type PredictionDTO struct {
	ID               string           `json:"id"`
	UserID           string           `json:"userId"`
	Age              int              `json:"age"`
	SystolicBP       int              `json:"systolicBp"`
	DiastolicBP      int              `json:"diastolicBp"`
	BloodSugar       float64          `json:"bloodSugar"`
	BodyTemp         float64          `json:"bodyTemp"`
	HeartRate        int              `json:"heartRate"`
	RiskLevel        models.RiskLevel `json:"riskLevel"`
	PredictionResult json.RawMessage  `json:"predictionResult,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
}

func toPredictionDTO(p *models.Prediction) PredictionDTO {
	return PredictionDTO{
		ID:               p.ID,
		UserID:           p.UserID,
		Age:              p.Age,
		SystolicBP:       p.SystolicBP,
		DiastolicBP:      p.DiastolicBP,
		BloodSugar:       p.BloodSugar,
		BodyTemp:         p.BodyTemp,
		HeartRate:        p.HeartRate,
		RiskLevel:        p.RiskLevel,
		PredictionResult: p.Result,
		CreatedAt:        p.CreatedAt,
	}
}

func toPredictionDTOs(items []*models.Prediction) []PredictionDTO {
	return lo.Map(items, func(p *models.Prediction, _ int) PredictionDTO { return toPredictionDTO(p) })
}

// PhotoDTO is one gallery photo. Storage keys stay server side.
type PhotoDTO struct {
	ID            string    `json:"id"`
	UserID        string    `json:"userId"`
	Title         string    `json:"title"`
	Description   *string   `json:"description"`
	PregnancyWeek *int      `json:"pregnancyWeek"`
	ImageURL      string    `json:"imageUrl"`
	FileSize      int64     `json:"fileSize"`
	FileType      string    `json:"fileType"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func toPhotoDTO(p *models.Photo) PhotoDTO {
	return PhotoDTO{
		ID:            p.ID,
		UserID:        p.UserID,
		Title:         p.Title,
		Description:   p.Description,
		PregnancyWeek: p.PregnancyWeek,
		ImageURL:      p.ImageURL,
		FileSize:      p.FileSize,
		FileType:      p.FileType,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func toPhotoDTOs(items []*models.Photo) []PhotoDTO {
	return lo.Map(items, func(p *models.Photo, _ int) PhotoDTO { return toPhotoDTO(p) })
}

// WeekCountDTO is the number of photos for one pregnancy week.
type WeekCountDTO struct {
	Week  int `json:"week"`
	Count int `json:"count"`
}

// PhotoStatsDTO summarizes a gallery.
type PhotoStatsDTO struct {
	TotalPhotos  int            `json:"totalPhotos"`
	TotalSize    int64          `json:"totalSize"`
	PhotosByWeek []WeekCountDTO `json:"photosByWeek"`
}

func toPhotoStatsDTO(s models.PhotoStats) PhotoStatsDTO {
	return PhotoStatsDTO{
		TotalPhotos: s.TotalPhotos,
		TotalSize:   s.TotalSize,
		PhotosByWeek: lo.Map(s.PhotosByWeek, func(wc models.WeekCount, _ int) WeekCountDTO {
			return WeekCountDTO{Week: wc.Week, Count: wc.Count}
		}),
	}
}

// ProfileDTO is the pregnancy profile. Dates are rendered as YYYY-MM-DD.
type ProfileDTO struct {
	ID                  string    `json:"id"`
	UserID              string    `json:"userId"`
	DueDate             string    `json:"dueDate"`
	LastMenstrualPeriod string    `json:"lastMenstrualPeriod"`
	CurrentWeek         int       `json:"currentWeek"`
	CurrentWeight       *float64  `json:"currentWeight"`
	PrePregnancyWeight  *float64  `json:"prePregnancyWeight"`
	Height              *float64  `json:"height"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`
}

func toProfileDTO(p *models.PregnancyProfile) *ProfileDTO {
	if p == nil {
		return nil
	}
	return &ProfileDTO{
		ID:                  p.ID,
		UserID:              p.UserID,
		DueDate:             p.DueDate.Format(time.DateOnly),
		LastMenstrualPeriod: p.LastMenstrualPeriod.Format(time.DateOnly),
		CurrentWeek:         p.CurrentWeek,
		CurrentWeight:       p.CurrentWeight,
		PrePregnancyWeight:  p.PrePregnancyWeight,
		Height:              p.Height,
		CreatedAt:           p.CreatedAt,
		UpdatedAt:           p.UpdatedAt,
	}
}

// EntryDTO is one weekly timeline entry.
type EntryDTO struct {
	ID                  string          `json:"id"`
	UserID              string          `json:"userId"`
	PregnancyWeek       int             `json:"pregnancyWeek"`
	HealthServices      map[string]bool `json:"healthServices"`
	Symptoms            map[string]bool `json:"symptoms"`
	HealthServicesNotes *string         `json:"healthServicesNotes"`
	SymptomsNotes       *string         `json:"symptomsNotes"`
	CreatedAt           time.Time       `json:"createdAt"`
	UpdatedAt           time.Time       `json:"updatedAt"`
}

func toEntryDTO(e *models.TimelineEntry) EntryDTO {
	return EntryDTO{
		ID:                  e.ID,
		UserID:              e.UserID,
		PregnancyWeek:       e.PregnancyWeek,
		HealthServices:      nonNilFlags(e.HealthServices),
		Symptoms:            nonNilFlags(e.Symptoms),
		HealthServicesNotes: e.HealthServicesNotes,
		SymptomsNotes:       e.SymptomsNotes,
		CreatedAt:           e.CreatedAt,
		UpdatedAt:           e.UpdatedAt,
	}
}

func toEntryDTOs(items []*models.TimelineEntry) []EntryDTO {
	return lo.Map(items, func(e *models.TimelineEntry, _ int) EntryDTO { return toEntryDTO(e) })
}

func nonNilFlags(m map[string]bool) map[string]bool {
	if m == nil {
		return map[string]bool{}
	}
	return m
}

// ArticleDTO is one journal article.
type ArticleDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	Excerpt     string    `json:"excerpt"`
	Category    string    `json:"category"`
	ImageURL    string    `json:"imageUrl"`
	ReadTime    string    `json:"readTime"`
	Views       int       `json:"views"`
	IsPublished bool      `json:"isPublished"`
	AuthorID    *string   `json:"authorId"`
	AuthorName  *string   `json:"authorName"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func toArticleDTO(a *models.Article) ArticleDTO {
	return ArticleDTO{
		ID:          a.ID,
		Title:       a.Title,
		Content:     a.Content,
		Excerpt:     a.Excerpt,
		Category:    a.Category,
		ImageURL:    a.ImageURL,
		ReadTime:    a.ReadTime,
		Views:       a.Views,
		IsPublished: a.IsPublished,
		AuthorID:    a.AuthorID,
		AuthorName:  a.AuthorName,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func toArticleDTOs(items []*models.Article) []ArticleDTO {
	return lo.Map(items, func(a *models.Article, _ int) ArticleDTO { return toArticleDTO(a) })
}

// CategoryDTO is a category with its published article count.
type CategoryDTO struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func toCategoryDTOs(items []models.CategoryCount) []CategoryDTO {
	return lo.Map(items, func(c models.CategoryCount, _ int) CategoryDTO {
		return CategoryDTO{Name: c.Category, Count: c.Count}
	})
}
