package gemini

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/portoedu/porti/internal/matching"
	"github.com/portoedu/porti/internal/profile"
	"github.com/portoedu/porti/internal/util"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, system, message string) (string, error)
}

//go:embed persona.md
var personaTemplate string

//go:embed prompt.md
var summaryTemplate string

const defaultMaxLogLength = 200

// Summarizer produces the welcome message for a ranked recommendation set.
type Summarizer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewSummarizer(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Summarizer {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Summarizer{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// Summarize asks Gemini for a short personal message citing the top ranked
// opportunities. It never gets called on the scoring path; callers fall back
// to a canned message when it fails.
func (s *Summarizer) Summarize(ctx context.Context, p *profile.Profile, top []matching.Ranked, total int) (string, error) {
	if len(top) == 0 {
		return "", fmt.Errorf("at least one ranked opportunity is required")
	}

	system := buildPersona(p, formatRanked(top))

	prompt := strings.ReplaceAll(summaryTemplate, "{{TOTAL}}", fmt.Sprintf("%d", total))
	prompt = strings.ReplaceAll(prompt, "{{TOP_OPPORTUNITIES}}", formatRanked(top))

	s.logger.Debug("gemini summary request",
		zap.Int("top_count", len(top)),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", util.TruncateForLog(prompt, s.maxLogLen)),
	)

	raw, err := s.generator.GenerateContent(ctx, system, prompt)
	if err != nil {
		return "", err
	}

	s.logger.Debug("gemini summary response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", util.TruncateForLog(raw, s.maxLogLen)),
	)

	return strings.TrimSpace(raw), nil
}

func buildPersona(p *profile.Profile, opportunitiesContext string) string {
	system := strings.ReplaceAll(personaTemplate, "{{PROFILE_CONTEXT}}", formatProfile(p))

	block := ""
	if opportunitiesContext != "" {
		block = "CONTEXTO DAS OPORTUNIDADES:\n" + opportunitiesContext
	}
	return strings.TrimSpace(strings.ReplaceAll(system, "{{OPPORTUNITIES_CONTEXT}}", block))
}

func formatProfile(p *profile.Profile) string {
	if p.IsEmpty() {
		return "O usuário ainda não forneceu informações de perfil."
	}

	var b strings.Builder
	b.WriteString("Contexto do usuário:\n")
	if p.Name != "" {
		fmt.Fprintf(&b, "- Nome: %s\n", p.Name)
	}
	if p.Age != nil {
		fmt.Fprintf(&b, "- Idade: %d\n", *p.Age)
	} else {
		b.WriteString("- Idade: não informada\n")
	}
	switch {
	case p.PublicSchool == nil:
		b.WriteString("- Escola pública: não informado\n")
	case *p.PublicSchool:
		b.WriteString("- Escola pública: Sim\n")
	default:
		b.WriteString("- Escola pública: Não\n")
	}
	if len(p.Interests) > 0 {
		fmt.Fprintf(&b, "- Interesses: %s\n", strings.Join(p.Interests, ", "))
	} else {
		b.WriteString("- Interesses: não informados\n")
	}

	return strings.TrimRight(b.String(), "\n")
}

func formatRanked(ranked []matching.Ranked) string {
	entries := make([]string, 0, len(ranked))
	for i, entry := range ranked {
		opp := entry.Opportunity

		deadline := "Sem prazo"
		if opp.HasDeadline {
			deadline = opp.Deadline.Format("02/01/2006")
		}

		lines := []string{
			fmt.Sprintf("%d. %s (%s)", i+1, opp.Title, opp.Category),
			fmt.Sprintf("   - Descrição: %s", opp.ShortDescription),
			fmt.Sprintf("   - Score de compatibilidade: %d%%", entry.Result.Percentage),
			fmt.Sprintf("   - Prazo: %s", deadline),
		}
		if len(entry.Result.Reasons) > 0 {
			lines = append(lines, fmt.Sprintf("   - Razões: %s", strings.Join(entry.Result.Reasons, "; ")))
		}
		if opp.OfficialLink != "" {
			lines = append(lines, fmt.Sprintf("   - Link: %s", opp.OfficialLink))
		}

		entries = append(entries, strings.Join(lines, "\n"))
	}

	return strings.Join(entries, "\n")
}
