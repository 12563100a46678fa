package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/portoedu/porti/internal/catalog"
	"github.com/portoedu/porti/internal/matching"
	"github.com/portoedu/porti/internal/profile"
)

type stubContentGenerator struct {
	system  string
	message string
	output  string
	err     error
}

func (s *stubContentGenerator) GenerateContent(ctx context.Context, system, message string) (string, error) {
	s.system = system
	s.message = message
	return s.output, s.err
}

func rankedFixture() []matching.Ranked {
	deadline := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	return []matching.Ranked{
		{
			Opportunity: &catalog.Opportunity{
				ID:               "prouni-2027",
				Title:            "ProUni",
				Category:         "bolsa",
				ShortDescription: "Bolsas em universidades privadas",
				OfficialLink:     "https://example.com/prouni",
				Deadline:         deadline,
				HasDeadline:      true,
			},
			Result: matching.Result{
				Percentage: 90,
				Reasons:    []string{"Idade compatível"},
			},
		},
		{
			Opportunity: &catalog.Opportunity{
				ID:       "obmep-2027",
				Title:    "OBMEP",
				Category: "olimpiada",
			},
			Result: matching.Result{Percentage: 70},
		},
	}
}

func TestSummarizeBuildsPromptFromRanking(t *testing.T) {
	gen := &stubContentGenerator{output: "  Olá! Encontrei ótimas opções.  "}
	s := NewSummarizer(gen, zap.NewNop(), 0)

	age := 16
	p := &profile.Profile{Name: "Ana", Age: &age, Interests: []string{"exatas"}}

	out, err := s.Summarize(context.Background(), p, rankedFixture(), 6)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out != "Olá! Encontrei ótimas opções." {
		t.Fatalf("expected trimmed output, got %q", out)
	}

	for _, want := range []string{"Ana", "Idade: 16", "ProUni", "01/03/2025"} {
		if !strings.Contains(gen.system, want) {
			t.Errorf("system prompt missing %q", want)
		}
	}

	if !strings.Contains(gen.message, "6") {
		t.Errorf("prompt missing total, got %q", gen.message)
	}
	if !strings.Contains(gen.message, "Score de compatibilidade: 90%") {
		t.Errorf("prompt missing top entry, got %q", gen.message)
	}
	if !strings.Contains(gen.message, "Sem prazo") {
		t.Errorf("prompt missing deadline fallback, got %q", gen.message)
	}
}

func TestSummarizeEmptyProfileContext(t *testing.T) {
	gen := &stubContentGenerator{output: "oi"}
	s := NewSummarizer(gen, zap.NewNop(), 0)

	if _, err := s.Summarize(context.Background(), &profile.Profile{}, rankedFixture(), 2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(gen.system, "ainda não forneceu informações de perfil") {
		t.Fatalf("expected empty-profile context, got %q", gen.system)
	}
}

func TestSummarizeRequiresRankedEntries(t *testing.T) {
	s := NewSummarizer(&stubContentGenerator{}, zap.NewNop(), 0)

	if _, err := s.Summarize(context.Background(), &profile.Profile{}, nil, 0); err == nil {
		t.Fatal("expected error for empty ranking")
	}
}

func TestSummarizePropagatesGeneratorError(t *testing.T) {
	gen := &stubContentGenerator{err: errors.New("boom")}
	s := NewSummarizer(gen, zap.NewNop(), 0)

	if _, err := s.Summarize(context.Background(), &profile.Profile{}, rankedFixture(), 2); err == nil {
		t.Fatal("expected generator error to propagate")
	}
}
