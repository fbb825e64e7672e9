package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Thailung128/whitefoxbot/internal/domain"
	"github.com/Thailung128/whitefoxbot/internal/ports"
)

// maxRawSummary bounds the raw model text surfaced as a summary when
// the structured response cannot be parsed.
const maxRawSummary = 1500

const systemPrompt = `You are the resident tarot reader of the White Fox studio. Give deep but concise interpretations of tarot cards in the context of the specific question and the card's position in the spread.

Style: thoughtful, calm, honest, without mysticism. Write like an attentive conversation partner, not a fortune teller.

For each card rely on:
- its name, orientation (upright or reversed) and theses when present,
- the meaning of its position in the spread (e.g. "Past", "Advice"),
- the user's overall question.

Answer with JSON only:
{ "cards": [ { "position": "...", "name": "...", "meaning": "... (3-5 sentences, in context, per position)" } ],
  "summary": "... (3-6 sentences synthesizing all cards into one answer)" }

Avoid esoteric cliches and repetition. Write naturally and to the point.`

// Client implements ports.Interpreter against an OpenAI-compatible
// chat completions endpoint. Interpret never fails: every error path
// degrades to a structurally valid interpretation.
type Client struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
	model      string
	logger     *slog.Logger
}

func NewClient(httpClient *http.Client, apiKey, baseURL, model string, logger *slog.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		logger:     logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type userPayload struct {
	Question           string              `json:"question"`
	SpreadTitle        string              `json:"spread_title"`
	Cards              []ports.CardContext `json:"cards"`
	FormatRequirements formatRequirements  `json:"format_requirements"`
}

type formatRequirements struct {
	Type   string         `json:"type"`
	Schema map[string]any `json:"schema"`
	Notes  []string       `json:"notes"`
}

func (c *Client) Interpret(ctx context.Context, req ports.InterpretRequest) domain.Interpretation {
	if c.apiKey == "" {
		return offlineInterpretation(req)
	}

	content, err := c.callLLM(ctx, buildPrompt(req))
	if err != nil {
		c.logger.WarnContext(ctx, "interpretation call failed", "error", err)
		return domain.Interpretation{
			Cards:   []domain.CardReading{},
			Summary: fmt.Sprintf("Could not get an answer from the model: %v", err),
		}
	}

	return parseInterpretation(content)
}

// offlineInterpretation is the deterministic no-credential path: one
// placeholder entry per drawn card, draw order preserved.
func offlineInterpretation(req ports.InterpretRequest) domain.Interpretation {
	cards := make([]domain.CardReading, len(req.Cards))
	for i, card := range req.Cards {
		name := card.Name
		if card.Reversed {
			name += " (rev.)"
		}
		cards[i] = domain.CardReading{
			Position: card.Position,
			Name:     name,
			Meaning:  "A brief card meaning (demo). Configure an API key for a real reading.",
		}
	}
	return domain.Interpretation{
		Cards:   cards,
		Summary: "Overall answer (demo).",
	}
}

func buildPrompt(req ports.InterpretRequest) string {
	cards := make([]ports.CardContext, len(req.Cards))
	copy(cards, req.Cards)
	if len(req.Hints) == len(cards) {
		for i, hint := range req.Hints {
			if cards[i].Hint == "" {
				cards[i].Hint = hint
			}
		}
	}

	payload := userPayload{
		Question:    req.Question,
		SpreadTitle: req.SpreadTitle,
		Cards:       cards,
		FormatRequirements: formatRequirements{
			Type: "json",
			Schema: map[string]any{
				"cards":   []map[string]string{{"position": "string", "name": "string", "meaning": "string"}},
				"summary": "string (3-6 sentences, a coherent answer to the user's question)",
			},
			Notes: []string{
				"Strictly respect position and reversal.",
				"Use theses when present.",
				"If hint is present, take it into account.",
				"Be brief and concrete, no esoteric jargon.",
				"Return JSON only, no surrounding text.",
			},
		},
	}

	data, _ := json.Marshal(payload)
	return "Generate a tarot spread interpretation as JSON per the schema above.\n" +
		"Important: no extra text, JSON only.\n" +
		"Data: " + string(data)
}

func (c *Client) callLLM(ctx context.Context, prompt string) (string, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.6,
		MaxTokens:   900,
	}

	body, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := c.baseURL + "/chat/completions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("http call: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("upstream status %d", resp.StatusCode)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return strings.TrimSpace(chatResp.Choices[0].Message.Content), nil
}

// parseInterpretation validates the model output. Anything that is
// not a JSON object carrying a cards array and a summary string is
// surfaced as raw text, truncated.
func parseInterpretation(content string) domain.Interpretation {
	t := stripCodeFences(content)

	var parsed struct {
		Cards   *[]domain.CardReading `json:"cards"`
		Summary *string               `json:"summary"`
	}
	if err := json.Unmarshal([]byte(t), &parsed); err != nil || parsed.Cards == nil || parsed.Summary == nil {
		return domain.Interpretation{
			Cards:   []domain.CardReading{},
			Summary: truncate(t, maxRawSummary),
		}
	}
	return domain.Interpretation{Cards: *parsed.Cards, Summary: *parsed.Summary}
}

// stripCodeFences removes a ```json ... ``` wrapper when the model
// ignores the no-markdown instruction.
func stripCodeFences(text string) string {
	t := strings.TrimSpace(text)
	if strings.HasPrefix(t, "```") && strings.HasSuffix(t, "```") {
		t = strings.Trim(t, "`")
		if strings.HasPrefix(strings.ToLower(t), "json\n") {
			t = t[5:]
		}
	}
	return t
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
