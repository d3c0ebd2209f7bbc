package graph

import (
	"fmt"
	"time"

	"github.com/shiftplan-ai/shiftplan/pkg/apperror"
)

// RelationshipType is one of the closed set of typed edges between planning
// nodes. Anything outside this set is rejected before query construction.
type RelationshipType string

const (
	DependsOn  RelationshipType = "DEPENDS_ON"
	Blocks     RelationshipType = "BLOCKS"
	RelatedTo  RelationshipType = "RELATED_TO"
	SimilarTo  RelationshipType = "SIMILAR_TO"
	PartOfEpic RelationshipType = "PART_OF_EPIC"
)

// RelationshipTypes lists all valid types in their fixed summary priority
// order (epic membership first).
var RelationshipTypes = []RelationshipType{PartOfEpic, DependsOn, Blocks, RelatedTo, SimilarTo}

// Valid reports whether t is one of the closed relationship types.
func (t RelationshipType) Valid() bool {
	switch t {
	case DependsOn, Blocks, RelatedTo, SimilarTo, PartOfEpic:
		return true
	}
	return false
}

// ParseRelationshipType validates a caller-supplied type string.
func ParseRelationshipType(s string) (RelationshipType, error) {
	t := RelationshipType(s)
	if !t.Valid() {
		return "", apperror.NewValidation(fmt.Sprintf("unknown relationship type '%s'", s))
	}
	return t, nil
}

// DefaultWeight is applied when an edge is created without an explicit
// weight. Weights are never null.
const DefaultWeight = 1.0

// TaskNode is a planning task stored in the graph. Identity key is
// (ID, ProjectID); re-upserting the same key updates fields in place.
type TaskNode struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description,omitempty"`
	Category         string    `json:"category,omitempty"`
	Priority         string    `json:"priority,omitempty"`
	ArchitectureArea string    `json:"architectureArea,omitempty"`
	ProjectID        string    `json:"projectId"`
	EpicID           string    `json:"epicId,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// EpicNode is a grouping node containing multiple tasks. Same per-project
// identity rule as TaskNode.
type EpicNode struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Priority    string    `json:"priority,omitempty"`
	ProjectID   string    `json:"projectId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Direction of an incident edge relative to the queried task.
type Direction string

const (
	Outgoing Direction = "outgoing"
	Incoming Direction = "incoming"
)

// NodeKind distinguishes task and epic neighbors.
type NodeKind string

const (
	KindTask NodeKind = "task"
	KindEpic NodeKind = "epic"
)

// Neighbor is the resolved node on the far side of an incident edge.
type Neighbor struct {
	Kind     NodeKind `json:"kind"`
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Category string   `json:"category,omitempty"`
	Priority string   `json:"priority,omitempty"`
}

// Relationship is one incident edge of a task, tagged with direction and
// the resolved neighbor.
type Relationship struct {
	Type      RelationshipType `json:"type"`
	Direction Direction        `json:"direction"`
	Weight    float64          `json:"weight"`
	CreatedAt time.Time        `json:"createdAt,omitzero"`
	Neighbor  Neighbor         `json:"neighbor"`
}

// SearchResult is a task plus its full set of incident relationships (both
// directions) and the deterministic, human-readable context summary derived
// from them.
type SearchResult struct {
	Task           TaskNode       `json:"task"`
	Relationships  []Relationship `json:"relationships"`
	ContextSummary string         `json:"contextSummary"`
}
