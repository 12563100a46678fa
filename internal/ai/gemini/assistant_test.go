package gemini

import (
	"context"
	"strings"
	"testing"

	"google.golang.org/genai"

	"github.com/portoedu/porti/internal/ai"
	"github.com/portoedu/porti/internal/profile"
)

type stubHistoryGenerator struct {
	system  string
	history []*genai.Content
	message string
	output  string
	err     error
}

func (s *stubHistoryGenerator) GenerateContentWithHistory(ctx context.Context, system string, history []*genai.Content, message string) (string, error) {
	s.system = system
	s.history = history
	s.message = message
	return s.output, s.err
}

func TestAssistantSendForwardsHistory(t *testing.T) {
	gen := &stubHistoryGenerator{output: "resposta"}
	a := NewAssistant(gen, &profile.Profile{Name: "Ana"}, rankedFixture())

	history := []ai.Message{
		{Role: ai.RoleUser, Content: "quais bolsas existem?"},
		{Role: ai.RoleAssistant, Content: "o ProUni é uma boa opção"},
	}

	out, err := a.Send(context.Background(), history, "  e o prazo?  ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out != "resposta" {
		t.Fatalf("unexpected output: %q", out)
	}

	if gen.message != "e o prazo?" {
		t.Fatalf("expected trimmed message, got %q", gen.message)
	}

	if len(gen.history) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(gen.history))
	}
	if gen.history[0].Role != genai.RoleUser || gen.history[1].Role != genai.RoleModel {
		t.Fatalf("unexpected roles: %q, %q", gen.history[0].Role, gen.history[1].Role)
	}

	if !strings.Contains(gen.system, "ProUni") {
		t.Fatalf("expected system prompt to carry opportunities, got %q", gen.system)
	}
}

func TestAssistantSendRejectsEmptyMessage(t *testing.T) {
	a := NewAssistant(&stubHistoryGenerator{}, &profile.Profile{}, nil)

	if _, err := a.Send(context.Background(), nil, "   "); err == nil {
		t.Fatal("expected error for empty message")
	}
}
