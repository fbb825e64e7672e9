package openai_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Thailung128/whitefoxbot/internal/adapters/llm/openai"
	"github.com/Thailung128/whitefoxbot/internal/domain"
	"github.com/Thailung128/whitefoxbot/internal/ports"
)

func testRequest() ports.InterpretRequest {
	return ports.InterpretRequest{
		Question:    "What should I focus on?",
		SpreadTitle: "Three Cards",
		Cards: []ports.CardContext{
			{Position: "Past", Name: "The Fool", Reversed: false, Theses: domain.Meanings{Upright: "beginnings"}},
			{Position: "Present", Name: "The Tower", Reversed: true, Theses: domain.Meanings{Reversed: "averted"}},
			{Position: "Future", Name: "The Star", Reversed: false},
		},
		Hints: []string{"what shaped it", "what is at work", "where it goes"},
	}
}

func fakeServer(t *testing.T, content string, capture *map[string]any) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if capture != nil {
			_ = json.NewDecoder(r.Body).Decode(capture)
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

const goodJSON = `{"cards":[{"position":"Past","name":"The Fool","meaning":"A start."},` +
	`{"position":"Present","name":"The Tower (reversed)","meaning":"A near miss."},` +
	`{"position":"Future","name":"The Star","meaning":"Hope returns."}],` +
	`"summary":"Focus on the fresh start."}`

func TestInterpret_OfflineFallback(t *testing.T) {
	client := openai.NewClient(http.DefaultClient, "", "https://unused", "model", slog.Default())

	out := client.Interpret(context.Background(), testRequest())

	if len(out.Cards) != 3 {
		t.Fatalf("expected 3 placeholder cards, got %d", len(out.Cards))
	}
	if out.Cards[0].Position != "Past" || out.Cards[2].Position != "Future" {
		t.Errorf("draw order not preserved: %+v", out.Cards)
	}
	if !strings.Contains(out.Cards[1].Name, "(rev.)") {
		t.Errorf("reversed card not annotated: %q", out.Cards[1].Name)
	}
	if out.Summary == "" {
		t.Error("expected placeholder summary")
	}
}

func TestInterpret_OfflineEmptyDraw(t *testing.T) {
	client := openai.NewClient(http.DefaultClient, "", "https://unused", "model", slog.Default())

	out := client.Interpret(context.Background(), ports.InterpretRequest{})
	if len(out.Cards) != 0 {
		t.Errorf("expected no cards, got %d", len(out.Cards))
	}
	if out.Summary == "" {
		t.Error("expected a summary even for an empty draw")
	}
}

func TestInterpret_Success(t *testing.T) {
	var gotReq map[string]any
	srv := fakeServer(t, goodJSON, &gotReq)
	defer srv.Close()

	client := openai.NewClient(srv.Client(), "test-key", srv.URL, "test-model", slog.Default())
	out := client.Interpret(context.Background(), testRequest())

	if len(out.Cards) != 3 {
		t.Fatalf("expected 3 cards, got %d", len(out.Cards))
	}
	if out.Summary != "Focus on the fresh start." {
		t.Errorf("unexpected summary: %q", out.Summary)
	}
	if gotReq["model"] != "test-model" {
		t.Errorf("request model: %v", gotReq["model"])
	}

	// The user message must embed question, spread title and hints.
	msgs, _ := gotReq["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("expected system+user messages, got %d", len(msgs))
	}
	user, _ := msgs[1].(map[string]any)
	content, _ := user["content"].(string)
	for _, want := range []string{"What should I focus on?", "Three Cards", "what shaped it"} {
		if !strings.Contains(content, want) {
			t.Errorf("user prompt missing %q", want)
		}
	}
}

func TestInterpret_FencedResponse(t *testing.T) {
	srv := fakeServer(t, "```json\n"+goodJSON+"\n```", nil)
	defer srv.Close()

	client := openai.NewClient(srv.Client(), "key", srv.URL, "model", slog.Default())
	out := client.Interpret(context.Background(), testRequest())

	if len(out.Cards) != 3 {
		t.Fatalf("fenced response not parsed: %+v", out)
	}
	if out.Summary != "Focus on the fresh start." {
		t.Errorf("unexpected summary: %q", out.Summary)
	}
}

func TestInterpret_NonJSONResponse(t *testing.T) {
	raw := "The cards suggest patience, plainly speaking."
	srv := fakeServer(t, raw, nil)
	defer srv.Close()

	client := openai.NewClient(srv.Client(), "key", srv.URL, "model", slog.Default())
	out := client.Interpret(context.Background(), testRequest())

	if len(out.Cards) != 0 {
		t.Errorf("expected empty card list, got %d", len(out.Cards))
	}
	if out.Summary != raw {
		t.Errorf("expected raw text as summary, got %q", out.Summary)
	}
}

func TestInterpret_SchemaIncompleteResponse(t *testing.T) {
	// Valid JSON but missing the summary string.
	partial := `{"cards":[{"position":"Past","name":"The Fool","meaning":"A start."}]}`
	srv := fakeServer(t, partial, nil)
	defer srv.Close()

	client := openai.NewClient(srv.Client(), "key", srv.URL, "model", slog.Default())
	out := client.Interpret(context.Background(), testRequest())

	if len(out.Cards) != 0 {
		t.Errorf("schema-incomplete response must yield no cards, got %d", len(out.Cards))
	}
	if out.Summary != partial {
		t.Errorf("expected raw text surfaced, got %q", out.Summary)
	}
}

func TestInterpret_LongRawTruncated(t *testing.T) {
	raw := strings.Repeat("x", 2000)
	srv := fakeServer(t, raw, nil)
	defer srv.Close()

	client := openai.NewClient(srv.Client(), "key", srv.URL, "model", slog.Default())
	out := client.Interpret(context.Background(), testRequest())

	if len(out.Summary) != 1500 {
		t.Errorf("expected summary truncated to 1500, got %d", len(out.Summary))
	}
}

func TestInterpret_UpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := openai.NewClient(srv.Client(), "key", srv.URL, "model", slog.Default())
	out := client.Interpret(context.Background(), testRequest())

	if len(out.Cards) != 0 {
		t.Errorf("expected no cards on upstream failure, got %d", len(out.Cards))
	}
	if out.Summary == "" {
		t.Error("expected a failure note in the summary")
	}
}

func TestInterpret_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	client := openai.NewClient(http.DefaultClient, "key", srv.URL, "model", slog.Default())
	out := client.Interpret(context.Background(), testRequest())

	if len(out.Cards) != 0 || out.Summary == "" {
		t.Errorf("expected empty cards and failure summary, got %+v", out)
	}
}
