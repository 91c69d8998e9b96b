package services

import (
	"context"
	"fmt"
	"strings"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

// MailboxService fronts the shared suggestion list and the per-user admin
// reply inboxes. Nothing here touches a ledger.
type MailboxService struct {
	repo store.MailboxRepository
}

func NewMailboxService(repo store.MailboxRepository) *MailboxService {
	return &MailboxService{repo: repo}
}

func (s *MailboxService) Suggest(ctx context.Context, author, text string) error {
	if strings.TrimSpace(author) == "" || strings.TrimSpace(text) == "" {
		return core.ErrEmptyDescription
	}
	if err := s.repo.AppendSuggestion(ctx, author, text); err != nil {
		return fmt.Errorf("append suggestion: %w", err)
	}
	return nil
}

func (s *MailboxService) Suggestions(ctx context.Context) ([]core.Suggestion, error) {
	return s.repo.ListSuggestions(ctx)
}

// DeleteSuggestion removes the 1-based line of the current listing and
// reports whether it existed. Later lines shift up.
func (s *MailboxService) DeleteSuggestion(ctx context.Context, index int) (bool, error) {
	return s.repo.DeleteSuggestion(ctx, index)
}

func (s *MailboxService) Reply(ctx context.Context, user, text string) error {
	if strings.TrimSpace(user) == "" || strings.TrimSpace(text) == "" {
		return core.ErrEmptyDescription
	}
	if err := s.repo.AppendReply(ctx, user, text); err != nil {
		return fmt.Errorf("append reply: %w", err)
	}
	return nil
}

func (s *MailboxService) Replies(ctx context.Context, user string) ([]string, error) {
	return s.repo.ListReplies(ctx, user)
}
