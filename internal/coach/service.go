package coach

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/sterrysx/gymai/internal/biometrics"
	"github.com/sterrysx/gymai/internal/telemetry/metrics"
	"github.com/sterrysx/gymai/internal/telemetry/tracing"
	"github.com/sterrysx/gymai/internal/workout/plans"
)

const (
	historyWindow         = 20
	summaryEvery          = 10
	minMessagesForSummary = 4

	replyTemperature   = 0.7
	summaryTemperature = 0.3

	systemPrompt = "You are a friendly, expert gym and nutrition coach embedded in a fitness app. " +
		"You have access to the user's current stats below. " +
		"Give concise, actionable advice. Use metric units (kg, km). " +
		"Be motivating but honest."
	summaryPrompt = "Summarise the following gym-coaching conversation in one short paragraph:"
)

type ConversationStore interface {
	Get(ctx context.Context, id string) (*Conversation, error)
	Save(ctx context.Context, conv *Conversation) error
	List(ctx context.Context) ([]ConversationInfo, error)
}

type Generator interface {
	Generate(ctx context.Context, system, prompt string, temperature float64) (string, error)
}

type BodyStats interface {
	Latest(ctx context.Context) (*biometrics.BodyComposition, *biometrics.HealthRow)
	GetTargets(ctx context.Context) (biometrics.Targets, error)
}

type TrainingStats interface {
	Stats(ctx context.Context) (*plans.Stats, error)
}

type ChatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
}

type ChatResponse struct {
	ConversationID string `json:"conversation_id"`
	Reply          string `json:"reply"`
}

type ServiceParams struct {
	Store          ConversationStore
	LLM            Generator
	Body           BodyStats
	Training       TrainingStats
	MetricsManager *metrics.Manager
	// Now and NewID default to time.Now and uuid.NewString
	Now   func() time.Time
	NewID func() string
}

type Service struct {
	store          ConversationStore
	llm            Generator
	body           BodyStats
	training       TrainingStats
	metricsManager *metrics.Manager
	now            func() time.Time
	newID          func() string
}

func NewService(params ServiceParams) *Service {
	s := &Service{
		store:          params.Store,
		llm:            params.LLM,
		body:           params.Body,
		training:       params.Training,
		metricsManager: params.MetricsManager,
		now:            params.Now,
		newID:          params.NewID,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

// Chat appends the message to its conversation (a new one when no id is
// given), asks the model for a reply and stores both. An unreachable model
// produces an apology as the reply.
func (s *Service) Chat(ctx context.Context, req ChatRequest) (_ *ChatResponse, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "service.coach.chat")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	id := req.ConversationID
	if id == "" {
		id = s.newID()
	}
	span.SetAttributes(attribute.String("conversation", id))

	conv, err := s.store.Get(ctx, id)
	if errors.Is(err, ErrConversationNotFound) {
		conv = &Conversation{
			ID:       id,
			Created:  s.now(),
			Messages: []Message{},
		}
	} else if err != nil {
		return nil, fmt.Errorf("load conversation: %w", err)
	}

	conv.Messages = append(conv.Messages, Message{Role: RoleUser, Content: message, Ts: s.now()})

	system := systemPrompt + "\n\nUSER CONTEXT:\n" + s.userContext(ctx)
	reply, err := s.llm.Generate(ctx, system, transcript(recent(conv.Messages))+"\nCoach:", replyTemperature)
	if err != nil {
		log.Errorf("coach: generate reply for %s: %s", id, err)
		reply = fmt.Sprintf("Sorry, I couldn't reach the AI model. (%s)", err)
	}
	conv.Messages = append(conv.Messages, Message{Role: RoleAssistant, Content: reply, Ts: s.now()})

	if len(conv.Messages)%summaryEvery == 0 {
		if summary := s.summarise(ctx, conv.Messages); summary != "" {
			conv.Summary = summary
		}
	}

	if err := s.store.Save(ctx, conv); err != nil {
		return nil, fmt.Errorf("save conversation: %w", err)
	}
	s.metricsManager.CounterChatMessages.Inc()

	return &ChatResponse{
		ConversationID: id,
		Reply:          reply,
	}, nil
}

func (s *Service) History(ctx context.Context) ([]ConversationInfo, error) {
	return s.store.List(ctx)
}

// Conversation returns the full conversation. One without messages does not exist.
func (s *Service) Conversation(ctx context.Context, id string) (*Conversation, error) {
	conv, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(conv.Messages) == 0 {
		return nil, ErrConversationNotFound
	}
	return conv, nil
}

// summarise returns an empty string for short conversations or when the model fails.
func (s *Service) summarise(ctx context.Context, messages []Message) string {
	if len(messages) < minMessagesForSummary {
		return ""
	}
	summary, err := s.llm.Generate(ctx, "", summaryPrompt+"\n\n"+transcript(messages), summaryTemperature)
	if err != nil {
		log.Warnf("coach: summarise conversation: %s", err)
		return ""
	}
	return summary
}

// userContext is a compact description of targets, the latest measurements
// and the current training week. Unavailable parts are left out.
func (s *Service) userContext(ctx context.Context) string {
	var parts []string

	if s.body != nil {
		targets, err := s.body.GetTargets(ctx)
		if err != nil {
			targets = biometrics.DefaultTargets()
		}
		parts = append(parts, fmt.Sprintf("Targets: Weight %gkg, BF %g%%, Muscle %gkg",
			targets.WeightKg, targets.BodyFatPct, targets.MuscleKg))

		body, health := s.body.Latest(ctx)
		if body != nil {
			parts = append(parts, fmt.Sprintf("Latest body comp (%s): Weight %gkg, BF %g%%, Muscle %gkg",
				body.Date, body.WeightKg, body.BodyFatPct, body.MuscleMassKg))
		}
		if health != nil {
			parts = append(parts, fmt.Sprintf("Latest activity (%s): Steps %d, Dist %.2fkm, Sleep %.1fh",
				health.Date, health.Steps, health.DistanceKm, health.SleepTotalHrs))
		}
	}

	if s.training != nil {
		if stats, err := s.training.Stats(ctx); err == nil && stats.CurrentWeek > 0 {
			parts = append(parts, fmt.Sprintf("Current training week: %d", stats.CurrentWeek))
		}
	}

	return strings.Join(parts, "\n")
}

func recent(messages []Message) []Message {
	if len(messages) > historyWindow {
		return messages[len(messages)-historyWindow:]
	}
	return messages
}

func transcript(messages []Message) string {
	lines := make([]string, 0, len(messages))
	for _, m := range messages {
		prefix := "Coach"
		if m.Role == RoleUser {
			prefix = "User"
		}
		lines = append(lines, prefix+": "+m.Content)
	}
	return strings.Join(lines, "\n")
}
