package biometrics

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/sterrysx/gymai/internal/telemetry/metrics"
	"github.com/sterrysx/gymai/internal/telemetry/tracing"
)

type Store interface {
	UpsertHealth(ctx context.Context, row HealthRow) error
	UpsertBodyComposition(ctx context.Context, row BodyComposition) error
	ListHealth(ctx context.Context) ([]HealthRow, error)
	ListBodyComposition(ctx context.Context) ([]BodyComposition, error)
	LoadTargets(ctx context.Context) (Targets, error)
	SaveTargets(ctx context.Context, targets Targets) error
}

type Service struct {
	store          Store
	metricsManager *metrics.Manager
	now            func() time.Time
}

func NewService(store Store, metricsManager *metrics.Manager) *Service {
	return &Service{
		store:          store,
		metricsManager: metricsManager,
		now:            time.Now,
	}
}

// RecordHealth converts and upserts the day of the payload, returning the normalised day.
func (s *Service) RecordHealth(ctx context.Context, payload HealthPayload) (_ *HealthRow, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.biometrics.recordhealth")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	row := NewHealthRow(payload)
	if row.Date == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidDate)
	}
	span.SetAttributes(attribute.String("date", row.Date))

	if err := s.store.UpsertHealth(ctx, row); err != nil {
		return nil, fmt.Errorf("upsert health: %w", err)
	}
	s.metricsManager.CounterBiometricUpserts.WithLabelValues("apple_health").Inc()

	log.Debugf("biometrics: logged watch data for %s", row.Date)
	return &row, nil
}

func (s *Service) RecordBodyComposition(ctx context.Context, row BodyComposition) (_ *BodyComposition, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.biometrics.recordbody")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	row.Date = NormaliseDate(row.Date)
	if row.Date == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidDate)
	}
	if row.WeightKg < 0 || row.BodyFatPct < 0 || row.MuscleMassKg < 0 {
		return nil, fmt.Errorf("%w: negative value on %s", ErrInvalidMeasurement, row.Date)
	}

	if err := s.store.UpsertBodyComposition(ctx, row); err != nil {
		return nil, fmt.Errorf("upsert body composition: %w", err)
	}
	s.metricsManager.CounterBiometricUpserts.WithLabelValues("body_composition").Inc()

	log.Debugf("biometrics: logged body composition for %s", row.Date)
	return &row, nil
}

// Dashboard collects both series from the range's cutoff on, plus the targets.
// Unreadable series degrade to empty.
func (s *Service) Dashboard(ctx context.Context, rangeName string) (_ *Dashboard, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.biometrics.dashboard")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()
	span.SetAttributes(attribute.String("range", rangeName))

	cutoff, err := RangeCutoff(rangeName, s.now())
	if err != nil {
		return nil, fmt.Errorf("%w: %q", err, rangeName)
	}

	targets, err := s.GetTargets(ctx)
	if err != nil {
		return nil, err
	}

	dashboard := &Dashboard{
		Range:           rangeName,
		BodyComposition: []BodyComposition{},
		Health:          []HealthRow{},
		Targets:         targets,
	}
	if dashboard.Range == "" {
		dashboard.Range = RangeLifetime
	}

	if bodyRows, err := s.store.ListBodyComposition(ctx); err != nil {
		log.Errorf("biometrics: list body composition: %s", err)
	} else {
		for _, r := range bodyRows {
			if r.Date >= cutoff {
				dashboard.BodyComposition = append(dashboard.BodyComposition, r)
			}
		}
	}

	if healthRows, err := s.store.ListHealth(ctx); err != nil {
		log.Errorf("biometrics: list health: %s", err)
	} else {
		for _, r := range healthRows {
			if r.Date >= cutoff {
				dashboard.Health = append(dashboard.Health, r)
			}
		}
	}

	return dashboard, nil
}

func (s *Service) GetTargets(ctx context.Context) (Targets, error) {
	targets, err := s.store.LoadTargets(ctx)
	if err != nil {
		log.Errorf("biometrics: load targets, using defaults: %s", err)
		return DefaultTargets(), nil
	}
	return targets, nil
}

func (s *Service) SetTargets(ctx context.Context, targets Targets) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.biometrics.settargets")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if err := targets.Validate(); err != nil {
		return err
	}
	if err := s.store.SaveTargets(ctx, targets); err != nil {
		return fmt.Errorf("save targets: %w", err)
	}
	s.metricsManager.CounterBiometricUpserts.WithLabelValues("targets").Inc()
	return nil
}

// Latest returns the most recent row of each series, nil when there is none.
func (s *Service) Latest(ctx context.Context) (*BodyComposition, *HealthRow) {
	var (
		body   *BodyComposition
		health *HealthRow
	)
	if rows, err := s.store.ListBodyComposition(ctx); err == nil && len(rows) > 0 {
		body = &rows[len(rows)-1]
	}
	if rows, err := s.store.ListHealth(ctx); err == nil && len(rows) > 0 {
		health = &rows[len(rows)-1]
	}
	return body, health
}
