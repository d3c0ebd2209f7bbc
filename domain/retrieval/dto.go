package retrieval

import (
	"github.com/shiftplan-ai/shiftplan/domain/graph"
)

// SearchOptions tunes a hybrid search. Zero values mean "use the configured
// default" for numeric fields.
type SearchOptions struct {
	IncludeGraphContext bool `json:"includeGraphContext"`
	IncludeRelatedTasks bool `json:"includeRelatedTasks"`
	RelationshipDepth   int  `json:"relationshipDepth"`
	TopK                int  `json:"topK"`
}

// SearchRequest is the payload for POST /api/retrieval/search.
type SearchRequest struct {
	Query     string        `json:"query"`
	StoreName string        `json:"storeName"`
	ProjectID string        `json:"projectId"`
	Options   SearchOptions `json:"options"`
}

// EnrichedResult is a vector hit augmented with graph context. TaskID is
// empty when the document id does not follow the task naming convention;
// GraphContext and RelatedTasks stay nil when enrichment was not requested,
// found nothing, or failed.
type EnrichedResult struct {
	DocumentID     string             `json:"documentId"`
	TaskID         string             `json:"taskId,omitempty"`
	Content        string             `json:"content"`
	RelevanceScore float64            `json:"relevanceScore"`
	GraphContext   *graph.SearchResult `json:"graphContext,omitempty"`
	RelatedTasks   []graph.TaskNode   `json:"relatedTasks,omitempty"`
}

// SearchResponse wraps the enriched results in vector ranking order.
type SearchResponse struct {
	Results []EnrichedResult `json:"results"`
	Count   int              `json:"count"`
}

// TaskDocument is the dual-write payload for a task's searchable content.
type TaskDocument struct {
	TaskID    string `json:"taskId"`
	ProjectID string `json:"projectId"`
	Content   string `json:"content"`
	Node      graph.TaskNode
}

// UpsertOutcome reports the dual-write asymmetry: the vector index is the
// source of truth, so VectorSynced=false means the write failed outright,
// while GraphSynced=false with a non-nil GraphErr is a degraded success.
type UpsertOutcome struct {
	VectorSynced bool  `json:"vectorSynced"`
	GraphSynced  bool  `json:"graphSynced"`
	GraphErr     error `json:"-"`
}

// DeleteOutcome reports per-store results of a dual delete. Both stores are
// always attempted. A false flag with a nil error means the store simply had
// nothing to delete; a non-nil error means that store's delete threw.
type DeleteOutcome struct {
	VectorDeleted bool  `json:"vectorDeleted"`
	GraphDeleted  bool  `json:"graphDeleted"`
	VectorErr     error `json:"-"`
	GraphErr      error `json:"-"`
}

// HealthStatus reports per-backend reachability.
type HealthStatus struct {
	Vector bool `json:"vector"`
	Graph  bool `json:"graph"`
}

// Healthy reports whether every backend is reachable.
func (h HealthStatus) Healthy() bool {
	return h.Vector && h.Graph
}

// FormatRequest is the payload for POST /api/retrieval/format.
type FormatRequest struct {
	Query     string        `json:"query"`
	StoreName string        `json:"storeName"`
	ProjectID string        `json:"projectId"`
	Options   SearchOptions `json:"options"`
}

// FormatResponse carries the LLM-ready context block.
type FormatResponse struct {
	Context string `json:"context"`
	Count   int    `json:"count"`
}
