package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"fintrack/internal/core"
)

// MailboxStore holds the shared suggestion list and per-user reply inboxes.
// Suggestions keep their insertion order via the sequence column; the listing
// index is still assigned at read time.
type MailboxStore struct {
	db *sql.DB
}

func (s *MailboxStore) AppendSuggestion(ctx context.Context, author, text string) error {
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO suggestions (author, body) VALUES (?, ?)`, author, text); err != nil {
		return fmt.Errorf("append suggestion: %w", err)
	}
	return nil
}

func (s *MailboxStore) ListSuggestions(ctx context.Context) ([]core.Suggestion, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT author, body FROM suggestions ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}
	defer rows.Close()

	var suggestions []core.Suggestion
	for rows.Next() {
		var sg core.Suggestion
		if err := rows.Scan(&sg.Author, &sg.Text); err != nil {
			return nil, fmt.Errorf("scan suggestion: %w", err)
		}
		sg.Index = len(suggestions) + 1
		suggestions = append(suggestions, sg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate suggestions: %w", err)
	}
	return suggestions, nil
}

func (s *MailboxStore) DeleteSuggestion(ctx context.Context, index int) (bool, error) {
	if index < 1 {
		return false, nil
	}
	var seq int64
	err := s.db.QueryRowContext(ctx,
		`SELECT seq FROM suggestions ORDER BY seq LIMIT 1 OFFSET ?`, index-1).Scan(&seq)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("locate suggestion %d: %w", index, err)
	}
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM suggestions WHERE seq = ?`, seq); err != nil {
		return false, fmt.Errorf("delete suggestion %d: %w", index, err)
	}
	return true, nil
}

func (s *MailboxStore) AppendReply(ctx context.Context, user, text string) error {
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO replies (user, body) VALUES (?, ?)`, user, text); err != nil {
		return fmt.Errorf("append reply for %s: %w", user, err)
	}
	return nil
}

func (s *MailboxStore) ListReplies(ctx context.Context, user string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT body FROM replies WHERE user = ? ORDER BY seq`, user)
	if err != nil {
		return nil, fmt.Errorf("list replies for %s: %w", user, err)
	}
	defer rows.Close()

	var lines []string
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan reply: %w", err)
		}
		lines = append(lines, "Admin Reply: "+body)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate replies: %w", err)
	}
	return lines, nil
}
