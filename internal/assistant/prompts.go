package assistant

import (
	"fmt"
	"strings"
)

const chatSystemPrompt = `You are a helpful event planning assistant. Help users plan and organize their events by:

1. Providing specific, actionable advice
2. Suggesting tasks, timelines, and best practices
3. Helping with logistics and coordination
4. Being encouraging and supportive
5. Asking clarifying questions when needed

Keep responses concise and practical. Focus on actionable advice.`

// maxHistoryTurns bounds how much chat history is forwarded upstream.
const maxHistoryTurns = 10

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

func countOrDefault(n *int) string {
	if n == nil {
		return "Not specified"
	}
	return fmt.Sprint(*n)
}

func descriptionPrompt(r DescriptionRequest) string {
	return fmt.Sprintf(`Create an engaging and professional event description for: %q

Event details:
- Type: %s
- Location: %s
- Additional info: %s

Requirements:
- Keep it concise (2-3 sentences)
- Make it engaging and inviting
- Include relevant details that would interest attendees
- Professional but friendly tone

Only return the description text, nothing else.`,
		r.Title,
		orDefault(r.EventType, "Not specified"),
		orDefault(r.Location, "Not specified"),
		orDefault(r.AdditionalInfo, "None"),
	)
}

func tasksPrompt(r TaskSuggestionRequest) string {
	return fmt.Sprintf(`Suggest 5-8 specific, actionable tasks for organizing this event:

Event: %q
Type: %s
Date: %s
Expected attendees: %s

Requirements:
- Tasks should be specific and actionable
- Prioritize the most important tasks
- Consider both planning and execution phases
- Format as a JSON array of strings only
- Each task should be 3-8 words max

Example format: ["Send invitations", "Book venue", "Order catering"]

Return ONLY the JSON array, no other text.`,
		r.Title,
		orDefault(r.EventType, "Not specified"),
		orDefault(r.Date, "Not specified"),
		countOrDefault(r.AttendeeCount),
	)
}

func rsvpPrompt(r RSVPMessageRequest) string {
	return fmt.Sprintf(`Generate a brief, polite RSVP message for:

Event: %q
RSVP Status: %s
User context: %s

Requirements:
- Keep it brief (1-2 sentences)
- Tone should match the status (enthusiastic for "Going", regretful for "Not Going")
- Be polite and personal
- Don't be overly formal unless it's a corporate event

Only return the message text, nothing else.`,
		r.EventTitle,
		r.Status,
		orDefault(r.UserContext, "None provided"),
	)
}

func eventContextBlock(e *EventContext) string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf(`
Current event details:
- Title: %s
- Date: %s
- Location: %s
- Description: %s
- Tasks: %d created
- RSVPs: %d received
`,
		orDefault(e.Title, "Not set"),
		orDefault(e.Date, "Not set"),
		orDefault(e.Location, "Not set"),
		orDefault(e.Description, "Not set"),
		e.TaskCount,
		e.RSVPCount,
	)
}

// chatMessages keeps the most recent history turns and appends the question.
// Turns with roles other than user or assistant are dropped.
func chatMessages(r ChatRequest) []Message {
	history := make([]Message, 0, len(r.History))
	for _, m := range r.History {
		if (m.Role == "user" || m.Role == "assistant") && strings.TrimSpace(m.Content) != "" {
			history = append(history, m)
		}
	}
	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}
	// The upstream requires the conversation to open with a user turn.
	for len(history) > 0 && history[0].Role != "user" {
		history = history[1:]
	}

	question := fmt.Sprintf("%s\n\nUser question: %s", eventContextBlock(r.Event), r.Message)
	return append(history, Message{Role: "user", Content: question})
}

func timingPrompt(r TimingRequest) string {
	return fmt.Sprintf(`Analyze this event and suggest timing optimizations:

Event: %s
Date: %s
Type: %s
Duration: %s
Attendees: %s

Provide suggestions for:
1. Optimal start time
2. Recommended duration
3. Key timing considerations
4. Schedule recommendations

Format as JSON with keys: start_time_suggestion, duration_suggestion, considerations, schedule_tips

Return only valid JSON.`,
		r.Title,
		r.Date,
		orDefault(r.EventType, "Not specified"),
		orDefault(r.Duration, "Not specified"),
		countOrDefault(r.AttendeeCount),
	)
}
