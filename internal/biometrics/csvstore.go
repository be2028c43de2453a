package biometrics

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"

	"github.com/coocood/freecache"
	log "github.com/sirupsen/logrus"

	"github.com/sterrysx/gymai/internal/telemetry/tracing"
)

const (
	HealthFile          = "apple_health.csv"
	BodyCompositionFile = "body_composition.csv"
	TargetsFile         = "targets.json"

	fileCacheExpireSec = 5 * 60
	cacheSize          = 8 * 1024 * 1024
)

var healthHeaders = []string{
	"Date", "Active_Kcal", "Resting_Kcal", "Steps", "Distance_Km",
	"Sleep_Total_Hrs", "Sleep_Deep_Min", "Sleep_REM_Min", "Sleep_Core_Min", "Sleep_Awake_Min",
}

var bodyHeaders = []string{
	"Date", "Weight_kg", "BMI", "BodyFat_pct", "Water_pct", "MuscleMass_kg",
	"BoneMass_kg", "BMR_kcal", "VisceralFat", "SubcutaneousFat_pct",
	"Protein_pct", "MetabolicAge",
}

// CSVStore keeps one CSV per measurement kind, one row per calendar day,
// sorted by date. File contents are cached until the next write.
type CSVStore struct {
	dir   string
	cache *freecache.Cache
	mu    sync.Mutex
}

func NewCSVStore(dir string) (*CSVStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create metrics dir: %w", err)
	}
	return &CSVStore{
		dir:   dir,
		cache: freecache.NewCache(cacheSize),
	}, nil
}

func (s *CSVStore) UpsertHealth(ctx context.Context, row HealthRow) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "biometrics.csv.upserthealth")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return s.upsert(HealthFile, healthHeaders, map[string]string{
		"Date":            row.Date,
		"Active_Kcal":     formatFloat(row.ActiveKcal),
		"Resting_Kcal":    formatFloat(row.RestingKcal),
		"Steps":           strconv.Itoa(row.Steps),
		"Distance_Km":     formatFloat(row.DistanceKm),
		"Sleep_Total_Hrs": formatFloat(row.SleepTotalHrs),
		"Sleep_Deep_Min":  formatFloat(row.SleepDeepMin),
		"Sleep_REM_Min":   formatFloat(row.SleepREMMin),
		"Sleep_Core_Min":  formatFloat(row.SleepCoreMin),
		"Sleep_Awake_Min": formatFloat(row.SleepAwakeMin),
	})
}

func (s *CSVStore) UpsertBodyComposition(ctx context.Context, row BodyComposition) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "biometrics.csv.upsertbody")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	return s.upsert(BodyCompositionFile, bodyHeaders, map[string]string{
		"Date":                row.Date,
		"Weight_kg":           formatFloat(row.WeightKg),
		"BMI":                 formatFloat(row.BMI),
		"BodyFat_pct":         formatFloat(row.BodyFatPct),
		"Water_pct":           formatFloat(row.WaterPct),
		"MuscleMass_kg":       formatFloat(row.MuscleMassKg),
		"BoneMass_kg":         formatFloat(row.BoneMassKg),
		"BMR_kcal":            formatFloat(row.BMRKcal),
		"VisceralFat":         formatFloat(row.VisceralFat),
		"SubcutaneousFat_pct": formatFloat(row.SubcutaneousFatPct),
		"Protein_pct":         formatFloat(row.ProteinPct),
		"MetabolicAge":        strconv.Itoa(row.MetabolicAge),
	})
}

// ListHealth returns the rows sorted by date. A missing or corrupt file reads as empty.
func (s *CSVStore) ListHealth(ctx context.Context) (_ []HealthRow, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "biometrics.csv.listhealth")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	records, err := s.records(HealthFile)
	if err != nil {
		return nil, err
	}
	rows := make([]HealthRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, HealthRow{
			Date:          r["Date"],
			ActiveKcal:    parseFloat(r["Active_Kcal"]),
			RestingKcal:   parseFloat(r["Resting_Kcal"]),
			Steps:         int(parseFloat(r["Steps"])),
			DistanceKm:    parseFloat(r["Distance_Km"]),
			SleepTotalHrs: parseFloat(r["Sleep_Total_Hrs"]),
			SleepDeepMin:  parseFloat(r["Sleep_Deep_Min"]),
			SleepREMMin:   parseFloat(r["Sleep_REM_Min"]),
			SleepCoreMin:  parseFloat(r["Sleep_Core_Min"]),
			SleepAwakeMin: parseFloat(r["Sleep_Awake_Min"]),
		})
	}
	return rows, nil
}

func (s *CSVStore) ListBodyComposition(ctx context.Context) (_ []BodyComposition, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "biometrics.csv.listbody")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	records, err := s.records(BodyCompositionFile)
	if err != nil {
		return nil, err
	}
	rows := make([]BodyComposition, 0, len(records))
	for _, r := range records {
		rows = append(rows, BodyComposition{
			Date:               r["Date"],
			WeightKg:           parseFloat(r["Weight_kg"]),
			BMI:                parseFloat(r["BMI"]),
			BodyFatPct:         parseFloat(r["BodyFat_pct"]),
			WaterPct:           parseFloat(r["Water_pct"]),
			MuscleMassKg:       parseFloat(r["MuscleMass_kg"]),
			BoneMassKg:         parseFloat(r["BoneMass_kg"]),
			BMRKcal:            parseFloat(r["BMR_kcal"]),
			VisceralFat:        parseFloat(r["VisceralFat"]),
			SubcutaneousFatPct: parseFloat(r["SubcutaneousFat_pct"]),
			ProteinPct:         parseFloat(r["Protein_pct"]),
			MetabolicAge:       int(parseFloat(r["MetabolicAge"])),
		})
	}
	return rows, nil
}

// LoadTargets falls back to the defaults when the file is missing or corrupt.
func (s *CSVStore) LoadTargets(ctx context.Context) (_ Targets, err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "biometrics.csv.loadtargets")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	content, err := s.readFile(TargetsFile)
	if err != nil {
		return Targets{}, err
	}
	if content == nil {
		return DefaultTargets(), nil
	}

	var targets Targets
	if err := json.Unmarshal(content, &targets); err != nil {
		log.Warnf("biometrics: corrupt targets file, using defaults: %s", err)
		return DefaultTargets(), nil
	}
	return targets, nil
}

func (s *CSVStore) SaveTargets(ctx context.Context, targets Targets) (err error) {
	_, span := tracing.GlobalTracer.Start(ctx, "biometrics.csv.savetargets")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	content, err := json.MarshalIndent(targets, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal targets: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeFile(TargetsFile, content)
}

func (s *CSVStore) records(name string) ([]map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	content, err := s.readFile(name)
	if err != nil {
		return nil, err
	}
	return dedupeByDate(parseCSV(name, content)), nil
}

func (s *CSVStore) upsert(name string, headers []string, row map[string]string) error {
	if row["Date"] == "" {
		return ErrInvalidDate
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	content, err := s.readFile(name)
	if err != nil {
		return err
	}
	records := parseCSV(name, content)

	found := false
	for i, r := range records {
		if r["Date"] == row["Date"] {
			records[i] = row
			found = true
			break
		}
	}
	if !found {
		records = append(records, row)
	}
	sort.SliceStable(records, func(i, j int) bool {
		return records[i]["Date"] < records[j]["Date"]
	})

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(headers); err != nil {
		return err
	}
	for _, r := range records {
		line := make([]string, len(headers))
		for i, h := range headers {
			line[i] = r[h]
		}
		if err := w.Write(line); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}

	return s.writeFile(name, buf.Bytes())
}

// readFile returns nil content for a missing file. Callers hold s.mu.
func (s *CSVStore) readFile(name string) ([]byte, error) {
	if cached, err := s.cache.Get([]byte(name)); err == nil {
		log.Tracef("biometrics: %s found in cache", name)
		return cached, nil
	}

	content, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	if err := s.cache.Set([]byte(name), content, fileCacheExpireSec); err != nil {
		log.Errorf("biometrics: failed to cache %s: %s", name, err)
	}
	return content, nil
}

// writeFile replaces the file atomically and drops its cache entry. Callers hold s.mu.
func (s *CSVStore) writeFile(name string, content []byte) error {
	path := filepath.Join(s.dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, content, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	s.cache.Del([]byte(name))
	return nil
}

// parseCSV reads records keyed by header with normalised dates. A corrupt
// file is logged and read as empty.
func parseCSV(name string, content []byte) []map[string]string {
	if len(content) == 0 {
		return nil
	}

	lines, err := csv.NewReader(bytes.NewReader(content)).ReadAll()
	if err != nil {
		log.Warnf("biometrics: corrupt %s, ignoring its content: %s", name, err)
		return nil
	}
	if len(lines) < 2 {
		return nil
	}

	headers := lines[0]
	records := make([]map[string]string, 0, len(lines)-1)
	for _, line := range lines[1:] {
		r := make(map[string]string, len(headers))
		for i, h := range headers {
			if i < len(line) {
				r[h] = line[i]
			}
		}
		r["Date"] = NormaliseDate(r["Date"])
		if r["Date"] == "" {
			continue
		}
		records = append(records, r)
	}
	return records
}

// dedupeByDate keeps the last record of each date, sorted by date.
func dedupeByDate(records []map[string]string) []map[string]string {
	byDate := make(map[string]map[string]string, len(records))
	for _, r := range records {
		byDate[r["Date"]] = r
	}
	deduped := make([]map[string]string, 0, len(byDate))
	for _, r := range byDate {
		deduped = append(deduped, r)
	}
	sort.Slice(deduped, func(i, j int) bool {
		return deduped[i]["Date"] < deduped[j]["Date"]
	})
	return deduped
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
