package retrieval

import (
	"fmt"
	"strings"
)

const (
	contextHeader = "Relevant context from previous migration tasks:"

	contextFooter = "Use this context to avoid suggesting duplicate tasks and to respect " +
		"existing dependencies and epic groupings when judging relevance."

	// maxRelatedInContext bounds how many related tasks a block lists.
	maxRelatedInContext = 3
)

// FormatForLLMContext renders enriched results as a prompt-ready context
// block. Empty input yields an empty string. Relevance is rendered as a
// percentage with one decimal place, related tasks are truncated to the
// first three, and both header and footer are fixed.
func FormatForLLMContext(results []EnrichedResult) string {
	if len(results) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString(contextHeader)
	b.WriteString("\n")

	for i, result := range results {
		fmt.Fprintf(&b, "\n[%d] (relevance: %s)\n", i+1, fmt.Sprintf("%.1f%%", result.RelevanceScore*100))
		b.WriteString(result.Content)
		b.WriteString("\n")

		if result.GraphContext != nil {
			fmt.Fprintf(&b, "Relationships: %s\n", result.GraphContext.ContextSummary)
		}

		if len(result.RelatedTasks) > 0 {
			b.WriteString("Related tasks:\n")
			related := result.RelatedTasks
			if len(related) > maxRelatedInContext {
				related = related[:maxRelatedInContext]
			}
			for _, task := range related {
				fmt.Fprintf(&b, "- %s (%s, %s)\n", task.Title, task.Category, task.Priority)
			}
		}
	}

	b.WriteString("\n")
	b.WriteString(contextFooter)
	return b.String()
}
