package plans

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"

	"github.com/sterrysx/gymai/internal/telemetry/tracing"
	"github.com/sterrysx/gymai/internal/workout"
	"github.com/sterrysx/gymai/internal/workout/bench"
	"github.com/sterrysx/gymai/pkg"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=plans_test

type plansService interface {
	GetCurrentWeekPlan(ctx context.Context, day int) (*DayPlan, error)
	RecordLog(ctx context.Context, req LogRequest) (*workout.LogEntry, error)
	GetBenchCycleStatus(ctx context.Context) (*bench.Session, error)
	SetOneRepMax(ctx context.Context, oneRepMax float64) error
	GetCompletionStatus(ctx context.Context, week int) ([]workout.DayCompletion, error)
	TransitionToNextWeek(ctx context.Context) (*TransitionResult, error)
	GetArchive(ctx context.Context, week int) (*workout.WeekArchive, error)
	Stats(ctx context.Context) (*Stats, error)
	CompleteDay(ctx context.Context, week, day int) (*DaySummary, error)
	VolumeSeries(ctx context.Context) ([]VolumePoint, error)
}

type ErrorResponse struct {
	Error   string   `json:"error"`
	Week    int      `json:"week,omitempty"`
	Missing []string `json:"missing,omitempty"`
}

type SetOneRepMaxRequest struct {
	OneRepMax float64 `json:"oneRepMax"`
}

type CompletionResponse struct {
	Week int                     `json:"week"`
	Days []workout.DayCompletion `json:"days"`
}

type VolumeResponse struct {
	Series []VolumePoint `json:"series"`
}

type Handler struct {
	service plansService
}

func NewHandler(service plansService) *Handler {
	return &Handler{
		service: service,
	}
}

func (handler *Handler) HandleGetWorkout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.workout")
	defer span.End()

	day, err := strconv.Atoi(mux.Vars(r)["day"])
	if err != nil {
		http.Error(w, "error, day NaN", http.StatusBadRequest)
		return
	}

	dayPlan, err := handler.service.GetCurrentWeekPlan(ctx, day)
	if err != nil {
		log.Errorf("get workout for day %d: %s", day, err)
		writeServiceError(w, err)
		return
	}

	pkg.WriteJSON(w, dayPlan, http.StatusOK)
}

func (handler *Handler) HandleLog(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.log")
	defer span.End()

	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req LogRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("log exercise, unmarshal json params: %s", err)
		http.Error(w, "log exercise failed", http.StatusBadRequest)
		return
	}

	added, err := handler.service.RecordLog(ctx, req)
	if err != nil {
		log.Errorf("log exercise [%s] week %d day %d: %s", req.Exercise, req.Week, req.Day, err)
		writeServiceError(w, err)
		return
	}

	pkg.WriteJSON(w, added, http.StatusCreated)
}

func (handler *Handler) HandleBenchStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.benchstatus")
	defer span.End()

	session, err := handler.service.GetBenchCycleStatus(ctx)
	if err != nil {
		log.Errorf("get bench cycle status: %s", err)
		writeServiceError(w, err)
		return
	}

	pkg.WriteJSON(w, session, http.StatusOK)
}

func (handler *Handler) HandleSetOneRepMax(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.setonerepmax")
	defer span.End()

	if r.Header.Get("Content-Type") != pkg.ContentType.JSON {
		http.Error(w, "invalid content type", http.StatusBadRequest)
		return
	}

	var req SetOneRepMaxRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Tracef("set 1rm, unmarshal json params: %s", err)
		http.Error(w, "set 1rm failed", http.StatusBadRequest)
		return
	}

	if err := handler.service.SetOneRepMax(ctx, req.OneRepMax); err != nil {
		log.Errorf("set 1rm to %v: %s", req.OneRepMax, err)
		writeServiceError(w, err)
		return
	}

	pkg.WriteJSON(w, req, http.StatusOK)
}

func (handler *Handler) HandleCompletion(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.completion")
	defer span.End()

	week, err := strconv.Atoi(mux.Vars(r)["week"])
	if err != nil {
		http.Error(w, "error, week NaN", http.StatusBadRequest)
		return
	}

	days, err := handler.service.GetCompletionStatus(ctx, week)
	if err != nil {
		log.Errorf("get completion of week %d: %s", week, err)
		writeServiceError(w, err)
		return
	}

	pkg.WriteJSON(w, CompletionResponse{Week: week, Days: days}, http.StatusOK)
}

func (handler *Handler) HandleGenerateNextWeek(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.nextweek")
	defer span.End()

	result, err := handler.service.TransitionToNextWeek(ctx)
	if err != nil {
		log.Errorf("generate next week: %s", err)
		writeServiceError(w, err)
		return
	}

	pkg.WriteJSON(w, result, http.StatusOK)
}

func (handler *Handler) HandleStats(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.stats")
	defer span.End()

	stats, err := handler.service.Stats(ctx)
	if err != nil {
		log.Errorf("get stats: %s", err)
		writeServiceError(w, err)
		return
	}

	pkg.WriteJSON(w, stats, http.StatusOK)
}

func (handler *Handler) HandleArchive(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.archive")
	defer span.End()

	week, err := strconv.Atoi(mux.Vars(r)["week"])
	if err != nil {
		http.Error(w, "error, week NaN", http.StatusBadRequest)
		return
	}

	archive, err := handler.service.GetArchive(ctx, week)
	if err != nil {
		log.Errorf("get archive of week %d: %s", week, err)
		writeServiceError(w, err)
		return
	}

	pkg.WriteJSON(w, archive, http.StatusOK)
}

func (handler *Handler) HandleCompleteDay(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.completeday")
	defer span.End()

	week, err := strconv.Atoi(r.URL.Query().Get("week_id"))
	if err != nil {
		http.Error(w, "error, week_id NaN", http.StatusBadRequest)
		return
	}
	day, err := strconv.Atoi(r.URL.Query().Get("day"))
	if err != nil {
		http.Error(w, "error, day NaN", http.StatusBadRequest)
		return
	}

	summary, err := handler.service.CompleteDay(ctx, week, day)
	if err != nil {
		log.Errorf("complete day %d of week %d: %s", day, week, err)
		writeServiceError(w, err)
		return
	}

	pkg.WriteJSON(w, summary, http.StatusOK)
}

func (handler *Handler) HandleVolume(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.plans.volume")
	defer span.End()

	series, err := handler.service.VolumeSeries(ctx)
	if err != nil {
		log.Errorf("get volume series: %s", err)
		writeServiceError(w, err)
		return
	}

	pkg.WriteJSON(w, VolumeResponse{Series: series}, http.StatusOK)
}

// writeServiceError maps service errors to status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	var (
		incomplete *workout.IncompleteWeekError
		aborted    *workout.TransitionAbortedError
		malformed  *workout.MalformedRepTargetError
	)
	switch {
	case errors.As(err, &incomplete):
		pkg.WriteJSON(w, ErrorResponse{
			Error:   "week incomplete",
			Week:    incomplete.Week,
			Missing: incomplete.Missing,
		}, http.StatusConflict)
	case errors.As(err, &aborted):
		pkg.WriteJSON(w, ErrorResponse{
			Error: aborted.Error(),
			Week:  aborted.Week,
		}, http.StatusInternalServerError)
	case errors.Is(err, workout.ErrNoPlanFound),
		errors.Is(err, workout.ErrArchiveNotFound),
		errors.Is(err, ErrNoLogsForDay):
		pkg.WriteJSON(w, ErrorResponse{Error: err.Error()}, http.StatusNotFound)
	case errors.Is(err, workout.ErrInvalidLog),
		errors.Is(err, workout.ErrExerciseNotPlanned),
		errors.Is(err, ErrInvalidDay),
		errors.Is(err, ErrInvalidOneRepMax),
		errors.As(err, &malformed):
		pkg.WriteJSON(w, ErrorResponse{Error: err.Error()}, http.StatusBadRequest)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
