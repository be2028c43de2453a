package plans_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/sterrysx/gymai/internal/workout"
	"github.com/sterrysx/gymai/internal/workout/bench"
	"github.com/sterrysx/gymai/internal/workout/plans"
)

func TestHandler_HandleGetWorkout(t *testing.T) {
	ctrl := gomock.NewController(t)
	serviceMock := NewMockplansService(ctrl)
	h := plans.NewHandler(serviceMock)

	dayPlan := &plans.DayPlan{
		Week:    2,
		Day:     1,
		DayName: "Push",
		Exercises: []workout.Entry{
			{ID: 7, Week: 2, Day: 1, Exercise: "Incline DB Press", Sets: 3, TargetReps: "10", TargetWeights: []float64{22.5, 20, 17.5}, Strategy: workout.StrategyLinear, Rounding: 2.5},
		},
	}
	serviceMock.EXPECT().GetCurrentWeekPlan(gomock.Any(), 1).Return(dayPlan, nil).Times(1)

	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/workout/1", nil), map[string]string{"day": "1"})
	rec := httptest.NewRecorder()
	h.HandleGetWorkout(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got plans.DayPlan
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, *dayPlan, got)
}

func TestHandler_HandleGetWorkout_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)
	serviceMock := NewMockplansService(ctrl)
	h := plans.NewHandler(serviceMock)

	// day not a number
	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/workout/x", nil), map[string]string{"day": "x"})
	rec := httptest.NewRecorder()
	h.HandleGetWorkout(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// day out of range
	serviceMock.EXPECT().GetCurrentWeekPlan(gomock.Any(), 9).
		Return(nil, fmt.Errorf("%w: 9", plans.ErrInvalidDay)).Times(1)
	req = mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/workout/9", nil), map[string]string{"day": "9"})
	rec = httptest.NewRecorder()
	h.HandleGetWorkout(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// no plan yet
	serviceMock.EXPECT().GetCurrentWeekPlan(gomock.Any(), 2).
		Return(nil, fmt.Errorf("current week: %w", workout.ErrNoPlanFound)).Times(1)
	req = mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/workout/2", nil), map[string]string{"day": "2"})
	rec = httptest.NewRecorder()
	h.HandleGetWorkout(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_HandleLog(t *testing.T) {
	ctrl := gomock.NewController(t)
	serviceMock := NewMockplansService(ctrl)
	h := plans.NewHandler(serviceMock)

	logReq := plans.LogRequest{
		Week:          1,
		Day:           2,
		Exercise:      "Lat Pulldown",
		ActualWeights: []float64{50, 45, 40},
		ActualReps:    []int{10, 9, 8},
	}
	logReqJson, err := json.Marshal(logReq)
	require.NoError(t, err)

	serviceMock.EXPECT().
		RecordLog(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, req plans.LogRequest) (*workout.LogEntry, error) {
			assert.Equal(t, logReq, req)
			return &workout.LogEntry{
				ID:            3,
				Week:          req.Week,
				Day:           req.Day,
				ExerciseKey:   "lat_pulldown",
				Exercise:      req.Exercise,
				ActualWeights: req.ActualWeights,
				ActualReps:    req.ActualReps,
			}, nil
		}).Times(1)

	req := httptest.NewRequest(http.MethodPost, "/log", bytes.NewReader(logReqJson))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.HandleLog(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var added workout.LogEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &added))
	assert.Equal(t, int64(3), added.ID)
	assert.Equal(t, "lat_pulldown", added.ExerciseKey)
	assert.Equal(t, []int{10, 9, 8}, added.ActualReps)
}

func TestHandler_HandleLog_BadRequests(t *testing.T) {
	ctrl := gomock.NewController(t)
	serviceMock := NewMockplansService(ctrl)
	h := plans.NewHandler(serviceMock)

	// wrong content type
	req := httptest.NewRequest(http.MethodPost, "/log", bytes.NewReader([]byte(`{}`)))
	rec := httptest.NewRecorder()
	h.HandleLog(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// broken json
	req = httptest.NewRequest(http.MethodPost, "/log", bytes.NewReader([]byte(`{"week":`)))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	h.HandleLog(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// rejected by validation
	serviceMock.EXPECT().RecordLog(gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("%w: weights and reps differ in length", workout.ErrInvalidLog)).Times(1)
	req = httptest.NewRequest(http.MethodPost, "/log", bytes.NewReader([]byte(`{"week":1,"day":1,"exercise":"Dips","actualWeights":[10],"actualReps":[]}`)))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	h.HandleLog(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// exercise not in the plan
	serviceMock.EXPECT().RecordLog(gomock.Any(), gomock.Any()).
		Return(nil, fmt.Errorf("add log: %w", workout.ErrExerciseNotPlanned)).Times(1)
	req = httptest.NewRequest(http.MethodPost, "/log", bytes.NewReader([]byte(`{"week":1,"day":1,"exercise":"Curl","actualWeights":[10],"actualReps":[10]}`)))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	h.HandleLog(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_HandleBenchStatus(t *testing.T) {
	ctrl := gomock.NewController(t)
	serviceMock := NewMockplansService(ctrl)
	h := plans.NewHandler(serviceMock)

	session := bench.SessionFor(2, 90, 2.5)
	serviceMock.EXPECT().GetBenchCycleStatus(gomock.Any()).Return(&session, nil).Times(1)

	rec := httptest.NewRecorder()
	h.HandleBenchStatus(rec, httptest.NewRequest(http.MethodGet, "/bench/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got bench.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 2, got.State)
	assert.Equal(t, 75.0, got.Weight)
	assert.Equal(t, []float64{75, 75, 75, 75}, got.Weights)
}

func TestHandler_HandleSetOneRepMax(t *testing.T) {
	ctrl := gomock.NewController(t)
	serviceMock := NewMockplansService(ctrl)
	h := plans.NewHandler(serviceMock)

	serviceMock.EXPECT().SetOneRepMax(gomock.Any(), 100.0).Return(nil).Times(1)
	req := httptest.NewRequest(http.MethodPut, "/bench/1rm", bytes.NewReader([]byte(`{"oneRepMax":100}`)))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.HandleSetOneRepMax(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"oneRepMax":100}`, rec.Body.String())

	serviceMock.EXPECT().SetOneRepMax(gomock.Any(), -5.0).
		Return(fmt.Errorf("%w: -5", plans.ErrInvalidOneRepMax)).Times(1)
	req = httptest.NewRequest(http.MethodPut, "/bench/1rm", bytes.NewReader([]byte(`{"oneRepMax":-5}`)))
	req.Header.Set("Content-Type", "application/json")
	rec = httptest.NewRecorder()
	h.HandleSetOneRepMax(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_HandleCompletion(t *testing.T) {
	ctrl := gomock.NewController(t)
	serviceMock := NewMockplansService(ctrl)
	h := plans.NewHandler(serviceMock)

	days := workout.CompletionByDay(nil, nil)
	serviceMock.EXPECT().GetCompletionStatus(gomock.Any(), 4).Return(days, nil).Times(1)

	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/completion/4", nil), map[string]string{"week": "4"})
	rec := httptest.NewRecorder()
	h.HandleCompletion(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got plans.CompletionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 4, got.Week)
	require.Len(t, got.Days, 5)
	assert.Equal(t, "Chest & Back", got.Days[3].Name)

	serviceMock.EXPECT().GetCompletionStatus(gomock.Any(), 40).
		Return(nil, fmt.Errorf("week 40: %w", workout.ErrNoPlanFound)).Times(1)
	req = mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/completion/40", nil), map[string]string{"week": "40"})
	rec = httptest.NewRecorder()
	h.HandleCompletion(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_HandleGenerateNextWeek(t *testing.T) {
	ctrl := gomock.NewController(t)
	serviceMock := NewMockplansService(ctrl)
	h := plans.NewHandler(serviceMock)

	result := &plans.TransitionResult{
		FromWeek: 1,
		ToWeek:   2,
		State:    workout.ProgressionState{BenchCycleWeek: 2, BenchOneRepMax: 90},
		Source:   "deterministic",
	}
	serviceMock.EXPECT().TransitionToNextWeek(gomock.Any()).Return(result, nil).Times(1)

	rec := httptest.NewRecorder()
	h.HandleGenerateNextWeek(rec, httptest.NewRequest(http.MethodPost, "/generate-next-week", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got plans.TransitionResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 2, got.ToWeek)
	assert.Equal(t, 2, got.State.BenchCycleWeek)
}

func TestHandler_HandleGenerateNextWeek_Errors(t *testing.T) {
	testCases := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   plans.ErrorResponse
	}{
		{
			name:       "incomplete week",
			err:        &workout.IncompleteWeekError{Week: 3, Missing: []string{"Lat Pulldown", "Dips"}},
			wantStatus: http.StatusConflict,
			wantBody:   plans.ErrorResponse{Error: "week incomplete", Week: 3, Missing: []string{"Lat Pulldown", "Dips"}},
		},
		{
			name:       "no plan",
			err:        workout.ErrNoPlanFound,
			wantStatus: http.StatusNotFound,
			wantBody:   plans.ErrorResponse{Error: workout.ErrNoPlanFound.Error()},
		},
		{
			name:       "aborted",
			err:        &workout.TransitionAbortedError{Week: 3, Err: errors.New("insert plan: connection reset")},
			wantStatus: http.StatusInternalServerError,
			wantBody:   plans.ErrorResponse{Error: "transition of week 3 aborted: insert plan: connection reset", Week: 3},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			serviceMock := NewMockplansService(ctrl)
			h := plans.NewHandler(serviceMock)

			serviceMock.EXPECT().TransitionToNextWeek(gomock.Any()).Return(nil, tc.err).Times(1)

			rec := httptest.NewRecorder()
			h.HandleGenerateNextWeek(rec, httptest.NewRequest(http.MethodPost, "/generate-next-week", nil))

			require.Equal(t, tc.wantStatus, rec.Code)
			var got plans.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tc.wantBody, got)
		})
	}
}

func TestHandler_HandleGenerateNextWeek_UnknownError(t *testing.T) {
	ctrl := gomock.NewController(t)
	serviceMock := NewMockplansService(ctrl)
	h := plans.NewHandler(serviceMock)

	serviceMock.EXPECT().TransitionToNextWeek(gomock.Any()).Return(nil, errors.New("boom")).Times(1)

	rec := httptest.NewRecorder()
	h.HandleGenerateNextWeek(rec, httptest.NewRequest(http.MethodPost, "/generate-next-week", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom")
}

func TestHandler_HandleStats(t *testing.T) {
	ctrl := gomock.NewController(t)
	serviceMock := NewMockplansService(ctrl)
	h := plans.NewHandler(serviceMock)

	stats := &plans.Stats{
		CurrentWeek:    1,
		BenchCycleWeek: 1,
		BenchOneRepMax: 90,
		BenchSession:   bench.SessionFor(1, 90, 2.5),
		DayCompletion:  workout.CompletionByDay(nil, nil),
	}
	serviceMock.EXPECT().Stats(gomock.Any()).Return(stats, nil).Times(1)

	rec := httptest.NewRecorder()
	h.HandleStats(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got plans.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, *stats, got)
}

func TestHandler_HandleArchive(t *testing.T) {
	ctrl := gomock.NewController(t)
	serviceMock := NewMockplansService(ctrl)
	h := plans.NewHandler(serviceMock)

	serviceMock.EXPECT().GetArchive(gomock.Any(), 1).
		Return(&workout.WeekArchive{Week: 1, Plan: []workout.Entry{}, Logs: []workout.LogEntry{}}, nil).Times(1)
	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/archive/1", nil), map[string]string{"week": "1"})
	rec := httptest.NewRecorder()
	h.HandleArchive(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var got workout.WeekArchive
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 1, got.Week)

	serviceMock.EXPECT().GetArchive(gomock.Any(), 5).
		Return(nil, fmt.Errorf("get archive: week 5: %w", workout.ErrArchiveNotFound)).Times(1)
	req = mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/archive/5", nil), map[string]string{"week": "5"})
	rec = httptest.NewRecorder()
	h.HandleArchive(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_HandleCompleteDay(t *testing.T) {
	ctrl := gomock.NewController(t)
	serviceMock := NewMockplansService(ctrl)
	h := plans.NewHandler(serviceMock)

	summary := &plans.DaySummary{
		Week: 1,
		Day:  3,
		Exercises: []plans.DayExercise{
			{Exercise: "Squat", ExerciseKey: "squat", Strategy: workout.StrategyLinear, PlannedSets: 3, PlannedReps: "8", ActualWeights: []float64{80, 75, 70}, ActualReps: []int{8, 8, 7}},
		},
	}
	serviceMock.EXPECT().CompleteDay(gomock.Any(), 1, 3).Return(summary, nil).Times(1)

	rec := httptest.NewRecorder()
	h.HandleCompleteDay(rec, httptest.NewRequest(http.MethodPost, "/complete-day?week_id=1&day=3", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var got plans.DaySummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, summary.Exercises, got.Exercises)

	// missing query params
	rec = httptest.NewRecorder()
	h.HandleCompleteDay(rec, httptest.NewRequest(http.MethodPost, "/complete-day?day=3", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = httptest.NewRecorder()
	h.HandleCompleteDay(rec, httptest.NewRequest(http.MethodPost, "/complete-day?week_id=1", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	serviceMock.EXPECT().CompleteDay(gomock.Any(), 1, 4).
		Return(nil, fmt.Errorf("week 1 day 4: %w", plans.ErrNoLogsForDay)).Times(1)
	rec = httptest.NewRecorder()
	h.HandleCompleteDay(rec, httptest.NewRequest(http.MethodPost, "/complete-day?week_id=1&day=4", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_HandleVolume(t *testing.T) {
	ctrl := gomock.NewController(t)
	serviceMock := NewMockplansService(ctrl)
	h := plans.NewHandler(serviceMock)

	series := []plans.VolumePoint{
		{Date: "2026-10-12", Week: 1, Day: 1, Sets: 9, Reps: 80, TonnageKg: 2310.5},
		{Date: "2026-10-13", Week: 1, Day: 2, Sets: 6, Reps: 54, TonnageKg: 1800},
	}
	serviceMock.EXPECT().VolumeSeries(gomock.Any()).Return(series, nil).Times(1)

	rec := httptest.NewRecorder()
	h.HandleVolume(rec, httptest.NewRequest(http.MethodGet, "/dashboard/volume", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var got plans.VolumeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, series, got.Series)
}
