package retrieval

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shiftplan-ai/shiftplan/domain/graph"
)

func TestFormatForLLMContextEmpty(t *testing.T) {
	assert.Equal(t, "", FormatForLLMContext(nil))
	assert.Equal(t, "", FormatForLLMContext([]EnrichedResult{}))
}

func TestFormatForLLMContextRelevancePercentage(t *testing.T) {
	out := FormatForLLMContext([]EnrichedResult{
		{DocumentID: "task-t1", Content: "Migrate auth", RelevanceScore: 0.847},
	})
	assert.Contains(t, out, "84.7%")
}

func TestFormatForLLMContextBlocks(t *testing.T) {
	results := []EnrichedResult{
		{
			DocumentID:     "task-t1",
			TaskID:         "t1",
			Content:        "Migrate the auth service",
			RelevanceScore: 0.9,
			GraphContext: &graph.SearchResult{
				ContextSummary: `Depends on: "Provision database"`,
			},
			RelatedTasks: []graph.TaskNode{
				{Title: "Provision database", Category: "infra", Priority: "high"},
				{Title: "Rotate secrets", Category: "security", Priority: "medium"},
				{Title: "Move DNS", Category: "infra", Priority: "low"},
				{Title: "Decommission old cluster", Category: "infra", Priority: "low"},
			},
		},
	}

	out := FormatForLLMContext(results)

	assert.True(t, strings.HasPrefix(out, contextHeader))
	assert.True(t, strings.HasSuffix(out, contextFooter))
	assert.Contains(t, out, "90.0%")
	assert.Contains(t, out, "Migrate the auth service")
	assert.Contains(t, out, `Relationships: Depends on: "Provision database"`)
	assert.Contains(t, out, "- Provision database (infra, high)")
	assert.Contains(t, out, "- Move DNS (infra, low)")
	assert.NotContains(t, out, "Decommission old cluster", "related tasks are truncated to the first three")
}

func TestFormatForLLMContextOmitsAbsentSections(t *testing.T) {
	out := FormatForLLMContext([]EnrichedResult{
		{DocumentID: "note-1", Content: "unenriched hit", RelevanceScore: 0.5},
	})
	assert.NotContains(t, out, "Relationships:")
	assert.NotContains(t, out, "Related tasks:")
}
