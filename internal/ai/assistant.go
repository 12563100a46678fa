package ai

import (
	"context"

	"github.com/portoedu/porti/internal/matching"
	"github.com/portoedu/porti/internal/profile"
)

// Summarizer turns the top ranked opportunities into a short welcoming
// message for the user. The matching core never depends on it; callers must
// work when no summarizer is configured.
type Summarizer interface {
	Summarize(ctx context.Context, p *profile.Profile, top []matching.Ranked, total int) (string, error)
}

// Message is one turn in an assistant conversation.
type Message struct {
	Role    string
	Content string
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Assistant answers free-form questions about opportunities, grounded in the
// user's profile and the scored catalog.
type Assistant interface {
	Send(ctx context.Context, history []Message, message string) (string, error)
}
