//go:build integration_test || all_tests

package test

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/sterrysx/gymai/internal/biometrics"
)

func (s *IntegrationTestSuite) TestBiometrics_AppleHealthToDashboard() {
	today := time.Now().UTC().Format("2006-01-02")

	resp, body := s.doJSON(http.MethodPost, "/webhook/apple-health", map[string]any{
		"date":           today,
		"km_distance":    "6.4",
		"active_energy":  612.5,
		"resting_energy": 1720,
		"steps":          9120,
		"sleep_awake":    0.2,
		"sleep_rem":      1.5,
		"sleep_core":     3.9,
		"sleep_deep":     1.1,
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))

	var upsert biometrics.UpsertResponse
	s.Require().NoError(json.Unmarshal(body, &upsert))
	s.Equal("success", upsert.Status)
	s.Equal(today, upsert.Logged)

	resp, body = s.doJSON(http.MethodGet, "/dashboard/metrics?range=lifetime", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))

	var dashboard biometrics.Dashboard
	s.Require().NoError(json.Unmarshal(body, &dashboard))
	s.Equal("lifetime", dashboard.Range)
	s.Require().NotEmpty(dashboard.Health)
	latest := dashboard.Health[len(dashboard.Health)-1]
	s.Equal(today, latest.Date)
	s.Equal(9120, latest.Steps)
	s.InDelta(6.4, latest.DistanceKm, 0.001)

	_, err := os.Stat(filepath.Join(s.dataDir, biometrics.HealthFile))
	s.NoError(err)

	resp, _ = s.doJSON(http.MethodGet, "/dashboard/metrics?range=decade", nil)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestBiometrics_Targets() {
	resp, body := s.doJSON(http.MethodPut, "/targets", biometrics.Targets{
		WeightKg:   82,
		BodyFatPct: 14,
		MuscleKg:   38.5,
	})
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))

	resp, body = s.doJSON(http.MethodGet, "/targets", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))

	var targets biometrics.Targets
	s.Require().NoError(json.Unmarshal(body, &targets))
	s.Equal(82.0, targets.WeightKg)
	s.Equal(38.5, targets.MuscleKg)
}
