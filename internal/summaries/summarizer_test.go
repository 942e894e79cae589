package summaries

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type fakeLLM struct {
	lastPrompt string
	response   string
	err        error
}

func (f *fakeLLM) Complete(ctx context.Context, prompt string) (string, error) {
	f.lastPrompt = prompt
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func TestSummarizePromptIncludesContent(t *testing.T) {
	client := &fakeLLM{response: "A summary."}
	s := NewSummarizer(client, time.Second)

	got := s.Summarize(context.Background(), "The quarterly report covers revenue.")
	if got != "A summary." {
		t.Fatalf("got %q", got)
	}
	if !strings.Contains(client.lastPrompt, "Summarize the following document professionally") {
		t.Fatalf("prompt missing task line: %q", client.lastPrompt)
	}
	if !strings.Contains(client.lastPrompt, "The quarterly report covers revenue.") {
		t.Fatalf("prompt missing document content: %q", client.lastPrompt)
	}
}

func TestSummarizeTruncatesLongContent(t *testing.T) {
	client := &fakeLLM{response: "ok"}
	s := NewSummarizer(client, time.Second)

	content := strings.Repeat("a", aiContextLimit+500)
	s.Summarize(context.Background(), content)

	if strings.Contains(client.lastPrompt, content) {
		t.Fatalf("expected content to be truncated")
	}
	if !strings.Contains(client.lastPrompt, strings.Repeat("a", aiContextLimit)+"...") {
		t.Fatalf("expected truncated content with ellipsis marker")
	}
}

func TestSummarizeShortContentUntouched(t *testing.T) {
	client := &fakeLLM{response: "ok"}
	s := NewSummarizer(client, time.Second)

	s.Summarize(context.Background(), "short content")
	if strings.Contains(client.lastPrompt, "...") {
		t.Fatalf("short content should not be truncated")
	}
}

func TestSummarizeProviderFailureReturnsSentinel(t *testing.T) {
	client := &fakeLLM{err: errors.New("upstream 500")}
	s := NewSummarizer(client, time.Second)

	got := s.Summarize(context.Background(), "content")
	if got != MsgSummarizerFailure {
		t.Fatalf("got %q, want %q", got, MsgSummarizerFailure)
	}
}

func TestSummarizeBlankResponse(t *testing.T) {
	client := &fakeLLM{response: "   \n"}
	s := NewSummarizer(client, time.Second)

	got := s.Summarize(context.Background(), "content")
	if got != MsgNoSummary {
		t.Fatalf("got %q, want %q", got, MsgNoSummary)
	}
}

func TestTruncateForContextRuneSafe(t *testing.T) {
	content := strings.Repeat("日", aiContextLimit+10)
	got := truncateForContext(content)
	runes := []rune(strings.TrimSuffix(got, "..."))
	if len(runes) != aiContextLimit {
		t.Fatalf("expected %d runes, got %d", aiContextLimit, len(runes))
	}
}
