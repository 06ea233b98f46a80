// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is shared by all handlers. Field names in
// errors come from the json tag so clients see the keys they sent, and all
// failing fields are reported together.
//
// Custom tags:
//   - strongpassword: at least one lowercase, one uppercase and one digit
//   - username: letters, digits and underscore only
//   - idphone: Indonesian mobile number (08xx or +628xx)
//   - isodate: RFC3339 timestamp or YYYY-MM-DD date
//
// Example:
//
//	type RegisterRequest struct {
//	    FullName string `json:"fullName" validate:"required,min=2,max=100"`
//	    Password string `json:"password" validate:"required,min=8,strongpassword"`
//	}
//
//	if verr := validation.ValidateStruct(&req); verr != nil {
//	    respondValidationError(w, r, verr)
//	    return
//	}
package validation
