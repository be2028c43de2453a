package progression

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const adviceTemperature = 0.2

const advicePrompt = `You are a strength coach planning next week's training.
For every exercise below you get the current target weights (kg, one per set),
the rep target, the plate increment ("rounding") and the last logged
performance, if any.

Decide next week's target weights. Keep the number of weights equal to "sets",
never go below zero, and use multiples of "rounding".

Answer with JSON only, in exactly this shape:
{"exercises": [{"key": "<key>", "weights": [<kg>, ...]}]}

Week %d exercises:
%s
`

// Completer turns a prompt into a text completion.
type Completer interface {
	Complete(ctx context.Context, prompt string, temperature float64) (string, error)
}

// LLMAdvisor asks a language model for progression advice and parses its JSON answer.
type LLMAdvisor struct {
	completer Completer
}

func NewLLMAdvisor(completer Completer) *LLMAdvisor {
	return &LLMAdvisor{
		completer: completer,
	}
}

type llmAdvice struct {
	Exercises []struct {
		Key     string    `json:"key"`
		Weights []float64 `json:"weights"`
	} `json:"exercises"`
}

func (a *LLMAdvisor) Advise(ctx context.Context, req AdviceRequest) (*Advice, error) {
	exercisesJSON, err := json.MarshalIndent(req.Exercises, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal exercises: %w", err)
	}

	reply, err := a.completer.Complete(ctx, fmt.Sprintf(advicePrompt, req.Week, exercisesJSON), adviceTemperature)
	if err != nil {
		return nil, fmt.Errorf("complete: %w", err)
	}

	raw, ok := extractJSONObject(reply)
	if !ok {
		return nil, fmt.Errorf("%w: no json object in reply", ErrInvalidAdvice)
	}

	var parsed llmAdvice
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAdvice, err)
	}

	advice := &Advice{
		Weights: make(map[string][]float64, len(parsed.Exercises)),
	}
	for _, ex := range parsed.Exercises {
		if _, dup := advice.Weights[ex.Key]; dup {
			return nil, fmt.Errorf("%w: duplicate exercise %s", ErrInvalidAdvice, ex.Key)
		}
		advice.Weights[ex.Key] = ex.Weights
	}

	return advice, nil
}

// extractJSONObject cuts the outermost {...} out of a model reply, which may
// be wrapped in prose or markdown fences.
func extractJSONObject(reply string) (string, bool) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return "", false
	}
	return reply[start : end+1], true
}
