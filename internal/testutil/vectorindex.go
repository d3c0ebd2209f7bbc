package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/shiftplan-ai/shiftplan/pkg/vectorindex"
)

// VectorIndex is an in-memory stand-in for the vector index client. Hits
// are returned verbatim from Query, documents live in a corpus->id map, and
// the Err fields force the corresponding operation to fail.
type VectorIndex struct {
	mu   sync.Mutex
	docs map[string]map[string]string

	Hits      []vectorindex.Hit
	QueryErr  error
	UpsertErr error
	DeleteErr error

	Calls map[string]int
}

func NewVectorIndex() *VectorIndex {
	return &VectorIndex{
		docs:  map[string]map[string]string{},
		Calls: map[string]int{},
	}
}

func (v *VectorIndex) Query(_ context.Context, _, _ string, _ int) ([]vectorindex.Hit, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Calls["Query"]++
	if v.QueryErr != nil {
		return nil, v.QueryErr
	}
	hits := make([]vectorindex.Hit, len(v.Hits))
	copy(hits, v.Hits)
	return hits, nil
}

func (v *VectorIndex) UpsertDocument(_ context.Context, corpusName, documentID, content string) (*vectorindex.Document, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Calls["UpsertDocument"]++
	if v.UpsertErr != nil {
		return nil, v.UpsertErr
	}
	if v.docs[corpusName] == nil {
		v.docs[corpusName] = map[string]string{}
	}
	v.docs[corpusName][documentID] = content
	return &vectorindex.Document{
		ID:          documentID,
		DisplayName: documentID,
		Content:     content,
		UpdatedAt:   time.Now().UTC(),
	}, nil
}

func (v *VectorIndex) DeleteDocumentByDisplayName(_ context.Context, corpusName, documentID string) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Calls["DeleteDocumentByDisplayName"]++
	if v.DeleteErr != nil {
		return false, v.DeleteErr
	}
	if _, ok := v.docs[corpusName][documentID]; !ok {
		return false, nil
	}
	delete(v.docs[corpusName], documentID)
	return true, nil
}

func (v *VectorIndex) DeleteCorpus(_ context.Context, corpusName string) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.Calls["DeleteCorpus"]++
	if v.DeleteErr != nil {
		return false, v.DeleteErr
	}
	if _, ok := v.docs[corpusName]; !ok {
		return false, nil
	}
	delete(v.docs, corpusName)
	return true, nil
}

// Document returns a stored document's content and whether it exists.
func (v *VectorIndex) Document(corpusName, documentID string) (string, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	content, ok := v.docs[corpusName][documentID]
	return content, ok
}
