package file

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"fintrack/internal/core"
)

// MailboxStore holds the shared suggestion file and the per-user reply
// inboxes. Suggestions and replies are append-only; deleting a suggestion
// rewrites the shared file atomically.
type MailboxStore struct {
	paths Paths
}

func NewMailboxStore(paths Paths) *MailboxStore {
	return &MailboxStore{paths: paths}
}

func (s *MailboxStore) AppendSuggestion(ctx context.Context, author, text string) error {
	line := fmt.Sprintf("%s: %s\n", author, text)
	if err := appendLine(s.paths.Suggestions(), line); err != nil {
		return fmt.Errorf("append suggestion: %w", err)
	}
	slog.DebugContext(ctx, "Suggestion appended", "author", author)
	return nil
}

func (s *MailboxStore) ListSuggestions(ctx context.Context) ([]core.Suggestion, error) {
	lines, err := readLines(s.paths.Suggestions())
	if err != nil {
		return nil, fmt.Errorf("list suggestions: %w", err)
	}
	suggestions := make([]core.Suggestion, 0, len(lines))
	for i, line := range lines {
		author, text, found := strings.Cut(line, ": ")
		if !found {
			author, text = "", line
		}
		suggestions = append(suggestions, core.Suggestion{
			Index:  i + 1,
			Author: author,
			Text:   text,
		})
	}
	return suggestions, nil
}

// DeleteSuggestion removes the entry at the given 1-based position of the
// current listing. The position is only as stable as the listing it came
// from; callers accept that a shifted listing can delete a neighbor.
func (s *MailboxStore) DeleteSuggestion(ctx context.Context, index int) (bool, error) {
	lines, err := readLines(s.paths.Suggestions())
	if err != nil {
		return false, fmt.Errorf("delete suggestion: %w", err)
	}
	if index < 1 || index > len(lines) {
		return false, nil
	}
	remaining := append(lines[:index-1:index-1], lines[index:]...)

	var b strings.Builder
	for _, line := range remaining {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	if err := writeFileAtomic(s.paths.Suggestions(), []byte(b.String())); err != nil {
		return false, fmt.Errorf("rewrite suggestions: %w", err)
	}
	slog.DebugContext(ctx, "Suggestion deleted", "index", index)
	return true, nil
}

func (s *MailboxStore) AppendReply(ctx context.Context, user, text string) error {
	line := fmt.Sprintf("Admin Reply: %s\n", text)
	if err := appendLine(s.paths.Replies(user), line); err != nil {
		return fmt.Errorf("append reply for %s: %w", user, err)
	}
	slog.DebugContext(ctx, "Reply appended", "user", user)
	return nil
}

// ListReplies returns the accumulated inbox without clearing it; there is no
// read/unread state.
func (s *MailboxStore) ListReplies(ctx context.Context, user string) ([]string, error) {
	lines, err := readLines(s.paths.Replies(user))
	if err != nil {
		return nil, fmt.Errorf("list replies for %s: %w", user, err)
	}
	return lines, nil
}

func appendLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), " \t\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}
