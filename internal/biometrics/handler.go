package biometrics

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"

	"github.com/sterrysx/gymai/internal/telemetry/tracing"
	"github.com/sterrysx/gymai/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=biometrics_test

type biometricsService interface {
	RecordHealth(ctx context.Context, payload HealthPayload) (*HealthRow, error)
	RecordBodyComposition(ctx context.Context, row BodyComposition) (*BodyComposition, error)
	Dashboard(ctx context.Context, rangeName string) (*Dashboard, error)
	GetTargets(ctx context.Context) (Targets, error)
	SetTargets(ctx context.Context, targets Targets) error
}

type UpsertResponse struct {
	Status string `json:"status"`
	Logged string `json:"logged"`
}

type TargetsResponse struct {
	Status  string  `json:"status"`
	Targets Targets `json:"targets"`
}

type Handler struct {
	service biometricsService
}

func NewHandler(service biometricsService) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) HandleAppleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.biometrics.applehealth")
	defer span.End()

	var payload HealthPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		log.Tracef("apple health, unmarshal json params: %s", err)
		http.Error(w, "invalid health payload", http.StatusBadRequest)
		return
	}

	row, err := handler.service.RecordHealth(ctx, payload)
	if err != nil {
		log.Errorf("record apple health for [%s]: %s", payload.Date, err)
		writeServiceError(w, err)
		return
	}

	pkg.WriteJSON(w, UpsertResponse{Status: "success", Logged: row.Date}, http.StatusOK)
}

func (handler *Handler) HandleBodyComposition(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.biometrics.bodycomposition")
	defer span.End()

	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var row BodyComposition
	if err := json.NewDecoder(r.Body).Decode(&row); err != nil {
		log.Tracef("body composition, unmarshal json params: %s", err)
		http.Error(w, "invalid body composition", http.StatusBadRequest)
		return
	}

	added, err := handler.service.RecordBodyComposition(ctx, row)
	if err != nil {
		log.Errorf("record body composition for [%s]: %s", row.Date, err)
		writeServiceError(w, err)
		return
	}

	pkg.WriteJSON(w, UpsertResponse{Status: "success", Logged: added.Date}, http.StatusOK)
}

func (handler *Handler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.biometrics.dashboard")
	defer span.End()

	dashboard, err := handler.service.Dashboard(ctx, r.URL.Query().Get("range"))
	if err != nil {
		log.Errorf("get metrics dashboard: %s", err)
		writeServiceError(w, err)
		return
	}

	pkg.WriteJSON(w, dashboard, http.StatusOK)
}

func (handler *Handler) HandleGetTargets(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.biometrics.gettargets")
	defer span.End()

	targets, err := handler.service.GetTargets(ctx)
	if err != nil {
		log.Errorf("get targets: %s", err)
		writeServiceError(w, err)
		return
	}

	pkg.WriteJSON(w, targets, http.StatusOK)
}

func (handler *Handler) HandleSetTargets(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.biometrics.settargets")
	defer span.End()

	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var targets Targets
	if err := json.NewDecoder(r.Body).Decode(&targets); err != nil {
		log.Tracef("set targets, unmarshal json params: %s", err)
		http.Error(w, "invalid targets", http.StatusBadRequest)
		return
	}

	if err := handler.service.SetTargets(ctx, targets); err != nil {
		log.Errorf("set targets: %s", err)
		writeServiceError(w, err)
		return
	}

	pkg.WriteJSON(w, TargetsResponse{Status: "saved", Targets: targets}, http.StatusOK)
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidDate),
		errors.Is(err, ErrInvalidRange),
		errors.Is(err, ErrInvalidTargets),
		errors.Is(err, ErrInvalidMeasurement):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
