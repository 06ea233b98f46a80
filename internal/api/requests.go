// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/velora/internal/validation"
)

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	FullName string `json:"fullName" validate:"required,min=2,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required,idphone"`
	Password string `json:"password" validate:"required,min=8,strongpassword"`
}

// LoginRequest is the body of POST /api/auth/login. Nama matches the email
// or the full name.
type LoginRequest struct {
	Nama     string `json:"nama" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest is the body of POST /api/auth/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyOTPRequest is the body of POST /api/auth/verify-otp.
type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

// ResetPasswordRequest is the body of POST /api/auth/reset-password.
type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,strongpassword"`
}

// UpdateProfileRequest is the body of PUT /api/users/profile.
type UpdateProfileRequest struct {
	FullName *string `json:"fullName" validate:"omitempty,min=2,max=100"`
	Username *string `json:"username" validate:"omitempty,min=3,max=50,username"`
}

// ChangePasswordRequest is the body of PUT /api/users/change-password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,strongpassword"`
}

// ChangeEmailRequest is the body of PUT /api/users/change-email.
type ChangeEmailRequest struct {
	NewEmail string `json:"newEmail" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// DeleteAccountRequest is the body of DELETE /api/users/account.
type DeleteAccountRequest struct {
	Password string `json:"password"`
}

// DiagnosaUserData identifies the patient a diagnosis was computed for.
type DiagnosaUserData struct {
	Nama          string `json:"nama" validate:"required,min=2,max=100"`
	Usia          string `json:"usia" validate:"required,min=1,max=3"`
	GolonganDarah string `json:"golonganDarah" validate:"required,oneof=A B AB O"`
}

// DiagnosaRequest is the body of POST /api/diagnosa/predict.
type DiagnosaRequest struct {
	Age              int              `json:"age" validate:"min=15,max=50"`
	SystolicBP       int              `json:"systolicBp" validate:"min=70,max=200"`
	DiastolicBP      int              `json:"diastolicBp" validate:"min=40,max=120"`
	BloodSugar       float64          `json:"bloodSugar" validate:"min=3,max=25"`
	BodyTemp         float64          `json:"bodyTemp" validate:"min=35,max=42"`
	HeartRate        int              `json:"heartRate" validate:"min=50,max=150"`
	RiskLevel        string           `json:"riskLevel" validate:"required,oneof='low risk' 'mid risk' 'high risk'"`
	UserData         DiagnosaUserData `json:"userData" validate:"required"`
	PredictionResult json.RawMessage  `json:"predictionResult"`
}

// PhotoMetadata holds the multipart fields sent with an upload.
type PhotoMetadata struct {
	Title         string `form:"title" validate:"min=1,max=100"`
	Description   string `form:"description" validate:"max=500"`
	PregnancyWeek *int   `form:"pregnancyWeek" validate:"omitempty,min=1,max=42"`
}

// UpdatePhotoRequest is the body of PUT /api/gallery/photos/{id}.
type UpdatePhotoRequest struct {
	Title         *string `json:"title" validate:"omitempty,min=1,max=100"`
	Description   *string `json:"description" validate:"omitempty,max=500"`
	PregnancyWeek *int    `json:"pregnancyWeek" validate:"omitempty,min=1,max=42"`
}

// ProfileRequest is the body of POST /api/timeline/profile.
type ProfileRequest struct {
	DueDate             string   `json:"dueDate" validate:"required,isodate"`
	LastMenstrualPeriod string   `json:"lastMenstrualPeriod" validate:"required,isodate"`
	CurrentWeight       *float64 `json:"currentWeight" validate:"omitempty,min=30,max=200"`
	PrePregnancyWeight  *float64 `json:"prePregnancyWeight" validate:"omitempty,min=30,max=200"`
	Height              *float64 `json:"height" validate:"omitempty,min=100,max=250"`
}

// EntryRequest is the body of POST /api/timeline/entries.
type EntryRequest struct {
	PregnancyWeek       int             `json:"pregnancyWeek" validate:"min=1,max=42"`
	HealthServices      map[string]bool `json:"healthServices"`
	Symptoms            map[string]bool `json:"symptoms"`
	HealthServicesNotes *string         `json:"healthServicesNotes" validate:"omitempty,max=1000"`
	SymptomsNotes       *string         `json:"symptomsNotes" validate:"omitempty,max=1000"`
}

// ArticleRequest is the body of POST /api/journal/articles.
type ArticleRequest struct {
	Title       string  `json:"title" validate:"required,min=5,max=200"`
	Content     string  `json:"content" validate:"required,min=50"`
	Excerpt     *string `json:"excerpt" validate:"omitempty,max=500"`
	Category    string  `json:"category" validate:"required,max=50"`
	ImageURL    *string `json:"imageUrl" validate:"omitempty,max=500"`
	ReadTime    *string `json:"readTime" validate:"omitempty,max=20"`
	IsPublished *bool   `json:"isPublished"`
}

// ArticleUpdateRequest is the body of PUT /api/journal/articles/{id}.
type ArticleUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=5,max=200"`
	Content     *string `json:"content" validate:"omitempty,min=50"`
	Excerpt     *string `json:"excerpt" validate:"omitempty,max=500"`
	Category    *string `json:"category" validate:"omitempty,min=1,max=50"`
	ImageURL    *string `json:"imageUrl" validate:"omitempty,max=500"`
	ReadTime    *string `json:"readTime" validate:"omitempty,max=20"`
	IsPublished *bool   `json:"isPublished"`
}

// errEmptyBody is returned by decodeJSON when the request has no body.
var errEmptyBody = errors.New("request body is empty")

// decodeJSON reads a bounded JSON body into dst.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	body := r.Body
	if limit := h.maxBodyBytes(); limit > 0 {
		body = http.MaxBytesReader(w, r.Body, limit)
	}
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errEmptyBody
		}
		return fmt.Errorf("decode request body: %w", err)
	}
	return nil
}

// bind decodes and validates a JSON body, writing the 400 response itself.
// It reports whether the handler may continue.
func (h *Handler) bind(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := h.decodeJSON(w, r, dst); err != nil {
		respondError(w, http.StatusBadRequest, MsgInvalidJSON)
		return false
	}
	if verr := validation.ValidateStruct(dst); verr != nil {
		respondValidation(w, MsgInvalidData, verr)
		return false
	}
	return true
}

func (h *Handler) maxBodyBytes() int64 {
	if h.cfg == nil {
		return 0
	}
	return h.cfg.Server.MaxBodyBytes()
}
