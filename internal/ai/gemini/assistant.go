package gemini

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/portoedu/porti/internal/ai"
	"github.com/portoedu/porti/internal/matching"
	"github.com/portoedu/porti/internal/profile"
)

type historyGenerator interface {
	GenerateContentWithHistory(ctx context.Context, system string, history []*genai.Content, message string) (string, error)
}

// Assistant answers questions about the scored catalog in the Porti persona.
// The system prompt carries the user's profile and the ranked opportunities
// so answers stay grounded in real catalog data.
type Assistant struct {
	generator historyGenerator
	system    string
}

func NewAssistant(generator historyGenerator, p *profile.Profile, ranked []matching.Ranked) *Assistant {
	return &Assistant{
		generator: generator,
		system:    buildPersona(p, formatRanked(ranked)),
	}
}

func (a *Assistant) Send(ctx context.Context, history []ai.Message, message string) (string, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return "", fmt.Errorf("message must not be empty")
	}

	return a.generator.GenerateContentWithHistory(ctx, a.system, toGenaiHistory(history), message)
}

func toGenaiHistory(history []ai.Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(history))
	for _, msg := range history {
		role := genai.RoleUser
		if msg.Role == ai.RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, &genai.Content{
			Role:  role,
			Parts: []*genai.Part{{Text: msg.Content}},
		})
	}
	return contents
}
