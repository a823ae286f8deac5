package assistant

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
)

// Fixed answers used when the upstream fails.
const (
	FallbackDescription = "Join us for this event! More details will be shared soon."
	FallbackRSVPMessage = "Thank you for the invitation!"
	FallbackChatReply   = "The planning assistant is unavailable right now. Please try again in a moment."
)

// FallbackTasks returns the default task suggestions.
func FallbackTasks() []string {
	return []string{"Plan event details", "Send invitations", "Prepare venue", "Confirm attendance"}
}

// FallbackTiming returns the default timing suggestions.
func FallbackTiming() map[string]any {
	return map[string]any{
		"start_time_suggestion": "Consider your audience's availability",
		"duration_suggestion":   "Plan appropriate duration for your event type",
		"considerations":        []string{"Check for conflicts", "Consider travel time"},
		"schedule_tips":         []string{"Send reminders", "Plan buffer time"},
	}
}

// DescriptionRequest asks for an event description.
type DescriptionRequest struct {
	Title          string
	EventType      string
	Location       string
	AdditionalInfo string
}

// TaskSuggestionRequest asks for planning tasks.
type TaskSuggestionRequest struct {
	Title         string
	EventType     string
	Date          string
	AttendeeCount *int
}

// RSVPMessageRequest asks for an RSVP note.
type RSVPMessageRequest struct {
	EventTitle  string
	Status      string
	UserContext string
}

// EventContext summarises an event for the chat prompt.
type EventContext struct {
	Title       string
	Description string
	Date        string
	Location    string
	TaskCount   int
	RSVPCount   int
}

// ChatRequest is one chat question with optional history and event context.
type ChatRequest struct {
	Message string
	History []Message
	Event   *EventContext
}

// TimingRequest asks for scheduling advice.
type TimingRequest struct {
	Title         string
	Date          string
	EventType     string
	Duration      string
	AttendeeCount *int
}

// Service runs the assistant operations. Each returns a usable answer and
// reports whether it came from the fallback.
type Service struct {
	completer Completer
	logger    *slog.Logger
}

// NewService creates an assistant service.
func NewService(c Completer, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{completer: c, logger: logger}
}

func (s *Service) complete(ctx context.Context, op string, p Prompt) (string, bool) {
	text, err := s.completer.Complete(ctx, p)
	if err != nil {
		s.logger.Warn("assistant upstream failed",
			"operation", op,
			"kind", Kind(err),
			"error", err,
		)
		return "", false
	}
	return strings.TrimSpace(text), true
}

func (s *Service) malformed(op string, err error) {
	s.logger.Warn("assistant upstream failed",
		"operation", op,
		"kind", Kind(ErrMalformedResponse),
		"error", err,
	)
}

// GenerateDescription writes a short event description.
func (s *Service) GenerateDescription(ctx context.Context, r DescriptionRequest) (string, bool) {
	text, ok := s.complete(ctx, "generate_description", Prompt{
		Messages:  []Message{{Role: "user", Content: descriptionPrompt(r)}},
		MaxTokens: 300,
	})
	if !ok {
		return FallbackDescription, true
	}
	return text, false
}

// SuggestTasks proposes planning tasks.
func (s *Service) SuggestTasks(ctx context.Context, r TaskSuggestionRequest) ([]string, bool) {
	text, ok := s.complete(ctx, "suggest_tasks", Prompt{
		Messages:  []Message{{Role: "user", Content: tasksPrompt(r)}},
		MaxTokens: 500,
	})
	if !ok {
		return FallbackTasks(), true
	}

	var tasks []string
	if err := json.Unmarshal([]byte(extractJSON(text, '[', ']')), &tasks); err != nil || len(tasks) == 0 {
		s.malformed("suggest_tasks", err)
		return FallbackTasks(), true
	}
	return tasks, false
}

// GenerateRSVP writes an RSVP note matching the status.
func (s *Service) GenerateRSVP(ctx context.Context, r RSVPMessageRequest) (string, bool) {
	text, ok := s.complete(ctx, "generate_rsvp", Prompt{
		Messages:  []Message{{Role: "user", Content: rsvpPrompt(r)}},
		MaxTokens: 200,
	})
	if !ok {
		return FallbackRSVPMessage, true
	}
	return text, false
}

// Chat answers a planning question.
func (s *Service) Chat(ctx context.Context, r ChatRequest) (string, bool) {
	text, ok := s.complete(ctx, "chat", Prompt{
		System:    chatSystemPrompt,
		Messages:  chatMessages(r),
		MaxTokens: 800,
	})
	if !ok {
		return FallbackChatReply, true
	}
	return text, false
}

// OptimizeTiming suggests scheduling improvements.
func (s *Service) OptimizeTiming(ctx context.Context, r TimingRequest) (map[string]any, bool) {
	text, ok := s.complete(ctx, "optimize_timing", Prompt{
		Messages:  []Message{{Role: "user", Content: timingPrompt(r)}},
		MaxTokens: 600,
	})
	if !ok {
		return FallbackTiming(), true
	}

	var suggestions map[string]any
	if err := json.Unmarshal([]byte(extractJSON(text, '{', '}')), &suggestions); err != nil || len(suggestions) == 0 {
		s.malformed("optimize_timing", err)
		return FallbackTiming(), true
	}
	return suggestions, false
}

// extractJSON trims prose or code fences around the outermost open/close pair.
func extractJSON(text string, openCh, closeCh byte) string {
	start := strings.IndexByte(text, openCh)
	end := strings.LastIndexByte(text, closeCh)
	if start < 0 || end < start {
		return text
	}
	return text[start : end+1]
}
