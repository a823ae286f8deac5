package assistant

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// stubCompleter returns a canned reply or error and records the last prompt.
type stubCompleter struct {
	reply string
	err   error
	last  Prompt
}

func (s *stubCompleter) Complete(ctx context.Context, p Prompt) (string, error) {
	s.last = p
	return s.reply, s.err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestServiceSuccess(t *testing.T) {
	ctx := context.Background()

	stub := &stubCompleter{reply: "  A lovely evening.  "}
	svc := NewService(stub, quietLogger())
	desc, fallback := svc.GenerateDescription(ctx, DescriptionRequest{Title: "Gala"})
	if fallback || desc != "A lovely evening." {
		t.Errorf("description = %q, fallback = %v", desc, fallback)
	}
	if !strings.Contains(stub.last.Messages[0].Content, `"Gala"`) || stub.last.MaxTokens != 300 {
		t.Errorf("unexpected prompt: %+v", stub.last)
	}

	stub.reply = "Here you go:\n```json\n[\"Book venue\", \"Order food\"]\n```"
	tasks, fallback := svc.SuggestTasks(ctx, TaskSuggestionRequest{Title: "Gala"})
	if fallback || len(tasks) != 2 || tasks[0] != "Book venue" {
		t.Errorf("tasks = %v, fallback = %v", tasks, fallback)
	}

	stub.reply = `{"start_time_suggestion": "7pm", "considerations": ["parking"]}`
	timing, fallback := svc.OptimizeTiming(ctx, TimingRequest{Title: "Gala"})
	if fallback || timing["start_time_suggestion"] != "7pm" {
		t.Errorf("timing = %v, fallback = %v", timing, fallback)
	}
}

func TestServiceFallbacks(t *testing.T) {
	ctx := context.Background()

	for _, err := range []error{ErrTimeout, ErrTransport, ErrUpstreamStatus, ErrMalformedResponse} {
		svc := NewService(&stubCompleter{err: err}, quietLogger())

		if desc, fb := svc.GenerateDescription(ctx, DescriptionRequest{Title: "x"}); !fb || desc != FallbackDescription {
			t.Errorf("%v: description fallback = %q, %v", err, desc, fb)
		}
		if tasks, fb := svc.SuggestTasks(ctx, TaskSuggestionRequest{Title: "x"}); !fb || len(tasks) != 4 {
			t.Errorf("%v: tasks fallback = %v, %v", err, tasks, fb)
		}
		if msg, fb := svc.GenerateRSVP(ctx, RSVPMessageRequest{EventTitle: "x", Status: "going"}); !fb || msg != FallbackRSVPMessage {
			t.Errorf("%v: rsvp fallback = %q, %v", err, msg, fb)
		}
		if reply, fb := svc.Chat(ctx, ChatRequest{Message: "help"}); !fb || reply != FallbackChatReply {
			t.Errorf("%v: chat fallback = %q, %v", err, reply, fb)
		}
		if timing, fb := svc.OptimizeTiming(ctx, TimingRequest{Title: "x"}); !fb || timing["schedule_tips"] == nil {
			t.Errorf("%v: timing fallback = %v, %v", err, timing, fb)
		}
	}
}

func TestUnparseableStructuredRepliesFallBack(t *testing.T) {
	ctx := context.Background()
	svc := NewService(&stubCompleter{reply: "I would suggest booking a venue."}, quietLogger())

	if tasks, fb := svc.SuggestTasks(ctx, TaskSuggestionRequest{Title: "x"}); !fb || tasks[0] != "Plan event details" {
		t.Errorf("tasks = %v, fallback = %v", tasks, fb)
	}
	if timing, fb := svc.OptimizeTiming(ctx, TimingRequest{Title: "x"}); !fb || timing["start_time_suggestion"] != "Consider your audience's availability" {
		t.Errorf("timing = %v, fallback = %v", timing, fb)
	}
}

func TestKind(t *testing.T) {
	if Kind(ErrTimeout) != "timeout" || Kind(ErrMalformedResponse) != "malformed" || Kind(io.EOF) != "unknown" {
		t.Error("unexpected kind mapping")
	}
}

// **Feature: event-planner, Property: Chat history is bounded**
// For any history, at most ten prior turns are forwarded, the conversation
// opens with a user turn, and the question is always last.
func TestChatHistoryBounded(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	genTurn := gopter.CombineGens(
		gen.OneConstOf("user", "assistant", "system"),
		gen.AlphaString(),
	).Map(func(vals []interface{}) Message {
		return Message{Role: vals[0].(string), Content: vals[1].(string)}
	})

	properties.Property("history trimmed and question last", prop.ForAll(
		func(history []Message) bool {
			msgs := chatMessages(ChatRequest{Message: "what next?", History: history})
			if len(msgs) == 0 || len(msgs) > maxHistoryTurns+1 {
				return false
			}
			if msgs[0].Role != "user" {
				return false
			}
			for _, m := range msgs {
				if m.Role == "system" {
					return false
				}
			}
			last := msgs[len(msgs)-1]
			return last.Role == "user" && strings.HasSuffix(last.Content, "User question: what next?")
		},
		gen.SliceOf(genTurn),
	))

	properties.TestingRun(t)
}

func TestChatIncludesEventContext(t *testing.T) {
	msgs := chatMessages(ChatRequest{
		Message: "ideas?",
		Event:   &EventContext{Title: "Gala", TaskCount: 3, RSVPCount: 2},
	})
	content := msgs[len(msgs)-1].Content
	for _, want := range []string{"Title: Gala", "Tasks: 3 created", "RSVPs: 2 received", "Location: Not set"} {
		if !strings.Contains(content, want) {
			t.Errorf("context missing %q in %q", want, content)
		}
	}
}
