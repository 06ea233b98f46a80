// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVitals_Validate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.Nil(t, normalVitals().Validate())
	})

	t.Run("every violated field is reported", func(t *testing.T) {
		v := Vitals{Age: 5, SystolicBP: 250, DiastolicBP: 30, BS: 20, BodyTemp: 90, HeartRate: 200}
		verr := v.Validate()
		require.NotNil(t, verr)
		for _, field := range []string{"Age", "SystolicBP", "DiastolicBP", "BS", "BodyTemp", "HeartRate"} {
			assert.True(t, verr.Has(field), "missing error for %s", field)
		}
		assert.False(t, BloodPressureInverted(verr))
	})

	t.Run("range messages", func(t *testing.T) {
		v := normalVitals()
		v.Age = 81
		verr := v.Validate()
		require.NotNil(t, verr)
		require.Len(t, verr.Errors(), 1)
		assert.Equal(t, "Usia harus antara 10-80 tahun", verr.Errors()[0].Message)
	})

	t.Run("diastolic not below systolic", func(t *testing.T) {
		v := normalVitals()
		v.SystolicBP, v.DiastolicBP = 100, 100
		verr := v.Validate()
		require.NotNil(t, verr)
		assert.True(t, BloodPressureInverted(verr))
	})

	t.Run("inverted pressure reported with other violations", func(t *testing.T) {
		v := normalVitals()
		v.SystolicBP, v.DiastolicBP, v.Age = 90, 120, 5
		verr := v.Validate()
		require.NotNil(t, verr)
		assert.True(t, BloodPressureInverted(verr))
		assert.True(t, verr.Has("Age"))
	})
}
