//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/sterrysx/gymai/internal/workout"
	"github.com/sterrysx/gymai/internal/workout/plans"
)

func (s *IntegrationTestSuite) dayPlan(day int) plans.DayPlan {
	resp, body := s.doJSON(http.MethodGet, fmt.Sprintf("/workout/%d", day), nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))

	var dayPlan plans.DayPlan
	s.Require().NoError(json.Unmarshal(body, &dayPlan))
	return dayPlan
}

// logWholeWeek logs every exercise that must be logged, hitting the targets.
func (s *IntegrationTestSuite) logWholeWeek() int {
	logged := 0
	for day := workout.MinDay; day <= workout.MaxDay; day++ {
		for _, e := range s.dayPlan(day).Exercises {
			if !e.Strategy.RequiresLog() {
				continue
			}
			reps := make([]int, e.Sets)
			target, err := strconv.Atoi(e.TargetReps)
			if err != nil {
				target = 10
			}
			for i := range reps {
				reps[i] = target
			}

			resp, body := s.doJSON(http.MethodPost, "/log", plans.LogRequest{
				Week:          1,
				Day:           day,
				Exercise:      e.Exercise,
				ActualWeights: e.TargetWeights,
				ActualReps:    reps,
			})
			s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))
			logged++
		}
	}
	return logged
}

func (s *IntegrationTestSuite) TestWorkout_DayPlan() {
	dayPlan := s.dayPlan(1)
	s.Equal(1, dayPlan.Week)
	s.Equal("Push", dayPlan.DayName)
	s.Require().NotEmpty(dayPlan.Exercises)

	var bench *workout.Entry
	for i := range dayPlan.Exercises {
		if dayPlan.Exercises[i].Strategy == workout.StrategyPeriodizedBench {
			bench = &dayPlan.Exercises[i]
		}
	}
	s.Require().NotNil(bench)
	s.Equal([]float64{67.5, 67.5, 67.5, 67.5, 67.5}, bench.TargetWeights)

	resp, _ := s.doJSON(http.MethodGet, "/workout/0", nil)
	s.Equal(http.StatusBadRequest, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestWorkout_LogUnplannedExercise() {
	resp, _ := s.doJSON(http.MethodPost, "/log", plans.LogRequest{
		Week:          1,
		Day:           1,
		Exercise:      "Underwater Basket Weaving",
		ActualWeights: []float64{10},
		ActualReps:    []int{10},
	})
	s.Equal(http.StatusBadRequest, resp.StatusCode)

	var count int
	s.Require().NoError(s.DB.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM workout_log`).Scan(&count))
	s.Zero(count)
}

func (s *IntegrationTestSuite) TestWorkout_TransitionToNextWeek() {
	ctx := context.Background()

	resp, body := s.doJSON(http.MethodPost, "/generate-next-week", nil)
	s.Require().Equal(http.StatusConflict, resp.StatusCode, string(body))
	var incomplete plans.ErrorResponse
	s.Require().NoError(json.Unmarshal(body, &incomplete))
	s.Equal(1, incomplete.Week)
	s.NotEmpty(incomplete.Missing)

	logged := s.logWholeWeek()
	s.Positive(logged)

	var logCount int
	s.Require().NoError(s.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM workout_log WHERE week_id = 1`).Scan(&logCount))
	s.Equal(logged, logCount)

	resp, body = s.doJSON(http.MethodPost, "/generate-next-week", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))
	var result plans.TransitionResult
	s.Require().NoError(json.Unmarshal(body, &result))
	s.Equal(1, result.FromWeek)
	s.Equal(2, result.ToWeek)
	s.Equal(2, result.State.BenchCycleWeek)
	s.NotEmpty(result.Decisions)

	var maxWeek int
	s.Require().NoError(s.DB.QueryRowContext(ctx, `SELECT MAX(week_id) FROM workout_plan`).Scan(&maxWeek))
	s.Equal(2, maxWeek)

	var cycleWeek string
	s.Require().NoError(s.DB.QueryRowContext(ctx,
		`SELECT value FROM user_progression_state WHERE key = $1`, workout.StateKeyBenchCycleWeek,
	).Scan(&cycleWeek))
	s.Equal("2", cycleWeek)

	resp, body = s.doJSON(http.MethodGet, "/archive/1", nil)
	s.Require().Equal(http.StatusOK, resp.StatusCode, string(body))
	var archive workout.WeekArchive
	s.Require().NoError(json.Unmarshal(body, &archive))
	s.Equal(1, archive.Week)
	s.Len(archive.Logs, logged)

	next := s.dayPlan(1)
	s.Equal(2, next.Week)
	for _, e := range next.Exercises {
		if e.Strategy == workout.StrategyPeriodizedBench {
			s.Equal([]float64{75, 75, 75, 75}, e.TargetWeights)
		}
	}

	resp, _ = s.doJSON(http.MethodGet, "/stats", nil)
	s.Equal(http.StatusOK, resp.StatusCode)
}
