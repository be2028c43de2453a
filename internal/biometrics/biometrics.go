// Package biometrics stores daily health and body composition measurements as
// CSV files in the data dir, next to the body targets.
package biometrics

import (
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

var (
	ErrInvalidRange   = errors.New("invalid range")
	ErrInvalidTargets = errors.New("invalid targets")
	ErrInvalidDate    = errors.New("invalid date")

	ErrInvalidMeasurement = errors.New("invalid measurement")
)

const (
	RangeDay      = "day"
	RangeWeek     = "week"
	RangeMonth    = "month"
	RangeLifetime = "lifetime"
)

// FlexFloat accepts a JSON number or a string using either a decimal point or
// a decimal comma ("1,09"). Anything unparsable decodes to zero.
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == "" {
		*f = 0
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		raw = s
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(raw), ",", "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	*f = FlexFloat(v)
	return nil
}

// HealthPayload is what the watch shortcut posts. Sleep phases come in seconds.
type HealthPayload struct {
	Date          string    `json:"date"`
	KmDistance    FlexFloat `json:"km_distance"`
	ActiveEnergy  float64   `json:"active_energy"`
	RestingEnergy float64   `json:"resting_energy"`
	Steps         float64   `json:"steps"`
	SleepAwake    float64   `json:"sleep_awake"`
	SleepREM      float64   `json:"sleep_rem"`
	SleepCore     float64   `json:"sleep_core"`
	SleepDeep     float64   `json:"sleep_deep"`
}

// HealthRow is one day of activity and sleep.
type HealthRow struct {
	Date          string  `json:"date"`
	ActiveKcal    float64 `json:"activeKcal"`
	RestingKcal   float64 `json:"restingKcal"`
	Steps         int     `json:"steps"`
	DistanceKm    float64 `json:"distanceKm"`
	SleepTotalHrs float64 `json:"sleepTotalHrs"`
	SleepDeepMin  float64 `json:"sleepDeepMin"`
	SleepREMMin   float64 `json:"sleepRemMin"`
	SleepCoreMin  float64 `json:"sleepCoreMin"`
	SleepAwakeMin float64 `json:"sleepAwakeMin"`
}

// BodyComposition is one scale measurement. Zero means not measured.
type BodyComposition struct {
	Date               string  `json:"date"`
	WeightKg           float64 `json:"weightKg"`
	BMI                float64 `json:"bmi"`
	BodyFatPct         float64 `json:"bodyFatPct"`
	WaterPct           float64 `json:"waterPct"`
	MuscleMassKg       float64 `json:"muscleMassKg"`
	BoneMassKg         float64 `json:"boneMassKg"`
	BMRKcal            float64 `json:"bmrKcal"`
	VisceralFat        float64 `json:"visceralFat"`
	SubcutaneousFatPct float64 `json:"subcutaneousFatPct"`
	ProteinPct         float64 `json:"proteinPct"`
	MetabolicAge       int     `json:"metabolicAge"`
}

type Targets struct {
	WeightKg   float64 `json:"weightKg"`
	BodyFatPct float64 `json:"bodyFatPct"`
	MuscleKg   float64 `json:"muscleKg"`
}

func DefaultTargets() Targets {
	return Targets{
		WeightKg:   67.5,
		BodyFatPct: 13.0,
		MuscleKg:   58.0,
	}
}

func (t Targets) Validate() error {
	for _, v := range []float64{t.WeightKg, t.BodyFatPct, t.MuscleKg} {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrInvalidTargets
		}
	}
	if t.BodyFatPct >= 100 {
		return ErrInvalidTargets
	}
	return nil
}

type Dashboard struct {
	Range           string            `json:"range"`
	BodyComposition []BodyComposition `json:"bodyComposition"`
	Health          []HealthRow       `json:"health"`
	Targets         Targets           `json:"targets"`
}

// NewHealthRow converts the raw payload: sleep seconds become minutes (0.1),
// total sleep excludes awake time and is in hours (0.01).
func NewHealthRow(p HealthPayload) HealthRow {
	awake := round(p.SleepAwake/60, 1)
	rem := round(p.SleepREM/60, 1)
	core := round(p.SleepCore/60, 1)
	deep := round(p.SleepDeep/60, 1)

	return HealthRow{
		Date:          NormaliseDate(p.Date),
		ActiveKcal:    round(p.ActiveEnergy, 1),
		RestingKcal:   round(p.RestingEnergy, 1),
		Steps:         int(p.Steps),
		DistanceKm:    round(float64(p.KmDistance), 3),
		SleepTotalHrs: round((rem+core+deep)/60, 2),
		SleepDeepMin:  deep,
		SleepREMMin:   rem,
		SleepCoreMin:  core,
		SleepAwakeMin: awake,
	}
}

var dateLayouts = []string{
	"2 Jan 2006",
	time.DateOnly,
	"02/01/2006",
	"01/02/2006",
}

// NormaliseDate turns the formats the shortcut and the scale app produce
// ("20 Feb 2026 at 16:20", "20/02/2026") into YYYY-MM-DD. Unknown formats are
// returned trimmed but otherwise unchanged.
func NormaliseDate(raw string) string {
	raw = strings.TrimSpace(raw)
	if len(raw) == 10 && raw[4] == '-' {
		return raw
	}
	if before, _, found := strings.Cut(raw, " at "); found {
		raw = strings.TrimSpace(before)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(time.DateOnly)
		}
	}
	return raw
}

// RangeCutoff returns the first date included by a dashboard range, empty for
// the whole history.
func RangeCutoff(rangeName string, today time.Time) (string, error) {
	switch rangeName {
	case "", RangeLifetime:
		return "", nil
	case RangeDay:
		return today.Format(time.DateOnly), nil
	case RangeWeek:
		return today.AddDate(0, 0, -7).Format(time.DateOnly), nil
	case RangeMonth:
		return today.AddDate(0, 0, -30).Format(time.DateOnly), nil
	default:
		return "", ErrInvalidRange
	}
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
