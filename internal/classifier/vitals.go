// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package classifier

import (
	"github.com/tomtom215/velora/internal/validation"
)

// MsgDiastolicNotBelowSystolic is reported when diastolic >= systolic.
const MsgDiastolicNotBelowSystolic = "Tekanan darah diastolik harus lebih rendah dari sistolik"

// Vitals are the model features. JSON keys follow the model's contract.
type Vitals struct {
	Age         int     `json:"Age" validate:"min=10,max=80"`
	SystolicBP  int     `json:"SystolicBP" validate:"min=70,max=200"`
	DiastolicBP int     `json:"DiastolicBP" validate:"min=40,max=140"`
	BS          float64 `json:"BS" validate:"min=6,max=19"`
	BodyTemp    float64 `json:"BodyTemp" validate:"min=98,max=103"`
	HeartRate   int     `json:"HeartRate" validate:"min=7,max=122"`
}

var rangeMessages = map[string]string{
	"Age":         "Usia harus antara 10-80 tahun",
	"SystolicBP":  "Tekanan darah sistolik harus antara 70-200 mmHg",
	"DiastolicBP": "Tekanan darah diastolik harus antara 40-140 mmHg",
	"BS":          "Gula darah harus antara 6.0-19.0 mmol/L",
	"BodyTemp":    "Suhu tubuh harus antara 98.0-103.0°F",
	"HeartRate":   "Detak jantung harus antara 7-122 bpm",
}

// Validate checks every range and the diastolic/systolic relation, returning
// all violations together. Nil means the vitals are usable.
func (v Vitals) Validate() *validation.RequestValidationError {
	var fields []validation.FieldError
	if verr := validation.ValidateStruct(v); verr != nil {
		for _, fe := range verr.Errors() {
			msg := fe.Message
			if m, ok := rangeMessages[fe.Field]; ok {
				msg = m
			}
			fields = append(fields, validation.FieldErr(fe.Field, msg))
		}
	}
	if v.DiastolicBP >= v.SystolicBP {
		fields = append(fields, validation.FieldErr("DiastolicBP", MsgDiastolicNotBelowSystolic))
	}
	if len(fields) == 0 {
		return nil
	}
	return validation.NewRequestValidationError(fields...)
}

// BloodPressureInverted reports whether verr contains the diastolic/systolic violation.
func BloodPressureInverted(verr *validation.RequestValidationError) bool {
	if verr == nil {
		return false
	}
	for _, fe := range verr.Errors() {
		if fe.Message == MsgDiastolicNotBelowSystolic {
			return true
		}
	}
	return false
}
