package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/narvanalabs/eventplanner/internal/api/middleware"
	"github.com/narvanalabs/eventplanner/internal/assistant"
	"github.com/narvanalabs/eventplanner/internal/planner"
)

// AIHandler exposes the planning assistant. Upstream failures never surface
// as errors; responses carry fallback=true instead.
type AIHandler struct {
	assistant *assistant.Service
	planner   *planner.Service
	logger    *slog.Logger
}

// NewAIHandler creates a new assistant handler.
func NewAIHandler(a *assistant.Service, p *planner.Service, logger *slog.Logger) *AIHandler {
	return &AIHandler{assistant: a, planner: p, logger: logger}
}

type descriptionRequest struct {
	Title          string `json:"title" validate:"required"`
	EventType      string `json:"event_type"`
	Location       string `json:"location"`
	AdditionalInfo string `json:"additional_info"`
}

type suggestTasksRequest struct {
	Title         string `json:"title" validate:"required"`
	EventType     string `json:"event_type"`
	Date          string `json:"date"`
	AttendeeCount *int   `json:"attendee_count" validate:"omitnil,min=0"`
}

type generateRSVPRequest struct {
	EventTitle  string `json:"event_title" validate:"required"`
	Status      string `json:"status" validate:"required"`
	UserContext string `json:"user_context"`
}

type chatRequest struct {
	Message             string              `json:"message" validate:"required"`
	EventID             *int64              `json:"event_id"`
	ConversationHistory []assistant.Message `json:"conversation_history" validate:"max=100"`
}

type timingDetails struct {
	Title         string `json:"title" validate:"required"`
	Date          string `json:"date"`
	EventType     string `json:"event_type"`
	Duration      string `json:"duration"`
	AttendeeCount *int   `json:"attendee_count" validate:"omitnil,min=0"`
}

type optimizeTimingRequest struct {
	EventDetails timingDetails `json:"event_details"`
}

// requireUser answers 404 when the token's user no longer exists.
func (h *AIHandler) requireUser(w http.ResponseWriter, r *http.Request) (int64, bool) {
	userID := middleware.GetUserID(r.Context())
	if _, err := h.planner.GetUser(r.Context(), userID); err != nil {
		WriteServiceError(w, r, h.logger, "assistant user lookup", err)
		return 0, false
	}
	return userID, true
}

// GenerateDescription handles POST /ai/generate-description.
func (h *AIHandler) GenerateDescription(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireUser(w, r); !ok {
		return
	}
	var req descriptionRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	text, fallback := h.assistant.GenerateDescription(r.Context(), assistant.DescriptionRequest{
		Title:          req.Title,
		EventType:      req.EventType,
		Location:       req.Location,
		AdditionalInfo: req.AdditionalInfo,
	})
	WriteJSON(w, http.StatusOK, map[string]any{"description": text, "fallback": fallback})
}

// SuggestTasks handles POST /ai/suggest-tasks.
func (h *AIHandler) SuggestTasks(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireUser(w, r); !ok {
		return
	}
	var req suggestTasksRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	tasks, fallback := h.assistant.SuggestTasks(r.Context(), assistant.TaskSuggestionRequest{
		Title:         req.Title,
		EventType:     req.EventType,
		Date:          req.Date,
		AttendeeCount: req.AttendeeCount,
	})
	WriteJSON(w, http.StatusOK, map[string]any{"tasks": tasks, "fallback": fallback})
}

// GenerateRSVP handles POST /ai/generate-rsvp.
func (h *AIHandler) GenerateRSVP(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireUser(w, r); !ok {
		return
	}
	var req generateRSVPRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	message, fallback := h.assistant.GenerateRSVP(r.Context(), assistant.RSVPMessageRequest{
		EventTitle:  req.EventTitle,
		Status:      req.Status,
		UserContext: req.UserContext,
	})
	WriteJSON(w, http.StatusOK, map[string]any{"message": message, "fallback": fallback})
}

// Chat handles POST /ai/chat. Event details are only added to the prompt
// when the caller can access the event; otherwise the event is ignored.
func (h *AIHandler) Chat(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.requireUser(w, r)
	if !ok {
		return
	}
	var req chatRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	chat := assistant.ChatRequest{
		Message: req.Message,
		History: req.ConversationHistory,
	}
	if req.EventID != nil {
		snap, err := h.planner.GetEventSnapshot(r.Context(), userID, *req.EventID)
		switch {
		case err == nil:
			chat.Event = &assistant.EventContext{
				Title:       snap.Event.Title,
				Description: snap.Event.Description,
				Date:        snap.Event.Date.Format(time.RFC3339),
				Location:    snap.Event.Location,
				TaskCount:   len(snap.Tasks),
				RSVPCount:   len(snap.RSVPs),
			}
		case errors.Is(err, planner.ErrNotFound), errors.Is(err, planner.ErrForbidden):
			h.logger.Debug("chat event context skipped", "event_id", *req.EventID, "user_id", userID)
		default:
			h.logger.Warn("chat event context failed", "error", err, "event_id", *req.EventID)
		}
	}

	reply, fallback := h.assistant.Chat(r.Context(), chat)
	WriteJSON(w, http.StatusOK, map[string]any{"response": reply, "fallback": fallback})
}

// OptimizeTiming handles POST /ai/optimize-timing.
func (h *AIHandler) OptimizeTiming(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireUser(w, r); !ok {
		return
	}
	var req optimizeTimingRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	d := req.EventDetails
	suggestions, fallback := h.assistant.OptimizeTiming(r.Context(), assistant.TimingRequest{
		Title:         d.Title,
		Date:          d.Date,
		EventType:     d.EventType,
		Duration:      d.Duration,
		AttendeeCount: d.AttendeeCount,
	})
	WriteJSON(w, http.StatusOK, map[string]any{"suggestions": suggestions, "fallback": fallback})
}
