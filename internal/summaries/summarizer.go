package summaries

import (
	"context"
	"fmt"
	"strings"
	"time"

	"docsummary-backend/internal/llm"
	"docsummary-backend/internal/shared/metrics"
	"docsummary-backend/internal/shared/telemetry"
)

// aiContextLimit caps how many characters of extracted text reach the model.
const aiContextLimit = 5000

const promptTemplate = `Task: Summarize the following document professionally.

Instructions:
- Write a clear, concise summary in 5-7 sentences.
- Focus on the main ideas, key points, and purpose of the document.
- Use professional, neutral language.

Document Content:
%s
`

// Summarizer produces document summaries through an LLM client. Provider
// failures never propagate as errors; they degrade to a sentinel summary so
// the upload itself still succeeds.
type Summarizer struct {
	LLM     llm.Client
	Timeout time.Duration
}

func NewSummarizer(client llm.Client, timeout time.Duration) *Summarizer {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &Summarizer{LLM: client, Timeout: timeout}
}

// Summarize asks the model for a summary of the content. The content is
// truncated to the context limit before prompting.
func (s *Summarizer) Summarize(ctx context.Context, content string) string {
	prompt := fmt.Sprintf(promptTemplate, truncateForContext(content))

	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	raw, err := s.LLM.Complete(ctx, prompt)
	if err != nil {
		telemetry.Error("summarize.failed", map[string]any{
			"error": err.Error(),
		})
		metrics.IncSummarizeFailed()
		return MsgSummarizerFailure
	}

	summary := strings.TrimSpace(raw)
	if summary == "" {
		return MsgNoSummary
	}
	return summary
}

func truncateForContext(content string) string {
	runes := []rune(content)
	if len(runes) <= aiContextLimit {
		return content
	}
	return string(runes[:aiContextLimit]) + "..."
}
