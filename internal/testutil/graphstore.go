// Package testutil holds in-memory fakes for the backing stores so service
// and coordinator behavior is testable without Neo4j or a vector index.
package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/shiftplan-ai/shiftplan/domain/graph"
)

type nodeKey struct {
	ID        string
	ProjectID string
}

type edge struct {
	SourceID  string
	TargetID  string
	Type      graph.RelationshipType
	ProjectID string
	Weight    float64
}

// GraphStore is an in-memory graph.Store. Every method counts its calls so
// tests can assert on interaction patterns, and FailWith forces every
// subsequent operation to fail.
type GraphStore struct {
	mu    sync.Mutex
	tasks map[nodeKey]graph.TaskNode
	epics map[nodeKey]graph.EpicNode
	edges []edge

	Calls    map[string]int
	FailWith error
}

var _ graph.Store = (*GraphStore)(nil)

func NewGraphStore() *GraphStore {
	return &GraphStore{
		tasks: map[nodeKey]graph.TaskNode{},
		epics: map[nodeKey]graph.EpicNode{},
		Calls: map[string]int{},
	}
}

// TotalCalls sums call counts across every operation.
func (s *GraphStore) TotalCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, n := range s.Calls {
		total += n
	}
	return total
}

func (s *GraphStore) record(op string) error {
	s.Calls[op]++
	return s.FailWith
}

func (s *GraphStore) UpsertTask(_ context.Context, task graph.TaskNode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("UpsertTask"); err != nil {
		return err
	}
	s.tasks[nodeKey{task.ID, task.ProjectID}] = task
	return nil
}

func (s *GraphStore) UpsertEpic(_ context.Context, epic graph.EpicNode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("UpsertEpic"); err != nil {
		return err
	}
	s.epics[nodeKey{epic.ID, epic.ProjectID}] = epic
	return nil
}

func (s *GraphStore) CreateRelationship(_ context.Context, sourceID, targetID string, relType graph.RelationshipType, projectID string, weight float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("CreateRelationship"); err != nil {
		return err
	}
	if weight <= 0 {
		weight = graph.DefaultWeight
	}
	for _, e := range s.edges {
		if e.SourceID == sourceID && e.TargetID == targetID && e.Type == relType && e.ProjectID == projectID {
			return nil
		}
	}
	s.edges = append(s.edges, edge{sourceID, targetID, relType, projectID, weight})
	return nil
}

func (s *GraphStore) DeleteRelationship(_ context.Context, sourceID, targetID string, relType graph.RelationshipType, projectID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("DeleteRelationship"); err != nil {
		return false, err
	}
	for i, e := range s.edges {
		if e.SourceID == sourceID && e.TargetID == targetID && e.Type == relType && e.ProjectID == projectID {
			s.edges = append(s.edges[:i], s.edges[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *GraphStore) GetTaskWithRelationships(_ context.Context, taskID, projectID string) (*graph.SearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("GetTaskWithRelationships"); err != nil {
		return nil, err
	}
	task, ok := s.tasks[nodeKey{taskID, projectID}]
	if !ok {
		return nil, nil
	}

	result := &graph.SearchResult{Task: task, Relationships: []graph.Relationship{}}
	for _, e := range s.edges {
		if e.ProjectID != projectID {
			continue
		}
		switch taskID {
		case e.SourceID:
			result.Relationships = append(result.Relationships, graph.Relationship{
				Type:      e.Type,
				Direction: graph.Outgoing,
				Weight:    e.Weight,
				Neighbor:  s.neighborLocked(e.TargetID, projectID),
			})
		case e.TargetID:
			result.Relationships = append(result.Relationships, graph.Relationship{
				Type:      e.Type,
				Direction: graph.Incoming,
				Weight:    e.Weight,
				Neighbor:  s.neighborLocked(e.SourceID, projectID),
			})
		}
	}
	return result, nil
}

func (s *GraphStore) neighborLocked(id, projectID string) graph.Neighbor {
	if task, ok := s.tasks[nodeKey{id, projectID}]; ok {
		return graph.Neighbor{Kind: graph.KindTask, ID: task.ID, Title: task.Title, Category: task.Category, Priority: task.Priority}
	}
	if epic, ok := s.epics[nodeKey{id, projectID}]; ok {
		return graph.Neighbor{Kind: graph.KindEpic, ID: epic.ID, Title: epic.Title, Priority: epic.Priority}
	}
	return graph.Neighbor{Kind: graph.KindTask, ID: id}
}

func (s *GraphStore) FindRelatedTasks(_ context.Context, taskID, projectID string, depth int) ([]graph.TaskNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("FindRelatedTasks"); err != nil {
		return nil, err
	}
	if depth < 1 {
		depth = 1
	}

	// Breadth-first over undirected edges within the project.
	visited := map[string]bool{taskID: true}
	frontier := []string{taskID}
	var found []string
	for hop := 0; hop < depth && len(frontier) > 0; hop++ {
		var next []string
		for _, id := range frontier {
			for _, e := range s.edges {
				if e.ProjectID != projectID {
					continue
				}
				for _, other := range neighbors(e, id) {
					if visited[other] {
						continue
					}
					visited[other] = true
					if _, ok := s.tasks[nodeKey{other, projectID}]; ok {
						found = append(found, other)
					}
					next = append(next, other)
				}
			}
		}
		frontier = next
	}

	sort.Strings(found)
	tasks := []graph.TaskNode{}
	for _, id := range found {
		if len(tasks) >= graph.MaxRelatedTasks {
			break
		}
		tasks = append(tasks, s.tasks[nodeKey{id, projectID}])
	}
	return tasks, nil
}

func neighbors(e edge, id string) []string {
	switch id {
	case e.SourceID:
		return []string{e.TargetID}
	case e.TargetID:
		return []string{e.SourceID}
	}
	return nil
}

func (s *GraphStore) FindTasksInSameEpic(_ context.Context, taskID, projectID string) ([]graph.TaskNode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("FindTasksInSameEpic"); err != nil {
		return nil, err
	}

	var epicID string
	for _, e := range s.edges {
		if e.ProjectID == projectID && e.SourceID == taskID && e.Type == graph.PartOfEpic {
			epicID = e.TargetID
			break
		}
	}
	tasks := []graph.TaskNode{}
	if epicID == "" {
		return tasks, nil
	}
	for _, e := range s.edges {
		if e.ProjectID == projectID && e.TargetID == epicID && e.Type == graph.PartOfEpic && e.SourceID != taskID {
			if task, ok := s.tasks[nodeKey{e.SourceID, projectID}]; ok {
				tasks = append(tasks, task)
			}
		}
	}
	sort.Slice(tasks, func(i, j int) bool { return tasks[i].ID < tasks[j].ID })
	return tasks, nil
}

func (s *GraphStore) DeleteTask(_ context.Context, taskID, projectID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("DeleteTask"); err != nil {
		return false, err
	}
	key := nodeKey{taskID, projectID}
	if _, ok := s.tasks[key]; !ok {
		return false, nil
	}
	delete(s.tasks, key)
	s.detachLocked(taskID, projectID)
	return true, nil
}

func (s *GraphStore) DeleteEpic(_ context.Context, epicID, projectID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("DeleteEpic"); err != nil {
		return false, err
	}
	key := nodeKey{epicID, projectID}
	if _, ok := s.epics[key]; !ok {
		return false, nil
	}
	delete(s.epics, key)
	s.detachLocked(epicID, projectID)
	return true, nil
}

func (s *GraphStore) detachLocked(id, projectID string) {
	kept := s.edges[:0]
	for _, e := range s.edges {
		if e.ProjectID == projectID && (e.SourceID == id || e.TargetID == id) {
			continue
		}
		kept = append(kept, e)
	}
	s.edges = kept
}

func (s *GraphStore) DeleteProject(_ context.Context, projectID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("DeleteProject"); err != nil {
		return false, err
	}
	deleted := false
	for key := range s.tasks {
		if key.ProjectID == projectID {
			delete(s.tasks, key)
			deleted = true
		}
	}
	for key := range s.epics {
		if key.ProjectID == projectID {
			delete(s.epics, key)
			deleted = true
		}
	}
	kept := s.edges[:0]
	for _, e := range s.edges {
		if e.ProjectID == projectID {
			deleted = true
			continue
		}
		kept = append(kept, e)
	}
	s.edges = kept
	return deleted, nil
}

func (s *GraphStore) HealthCheck(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record("HealthCheck")
}

// TaskExists reports whether a task node is present.
func (s *GraphStore) TaskExists(id, projectID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tasks[nodeKey{id, projectID}]
	return ok
}

// EdgeCount returns the number of edges touching the given node.
func (s *GraphStore) EdgeCount(id, projectID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, e := range s.edges {
		if e.ProjectID == projectID && (e.SourceID == id || e.TargetID == id) {
			n++
		}
	}
	return n
}
