package vectorindex

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(
		Config{BaseURL: srv.URL, APIKey: "test-key"},
		WithMaxRetries(2),
		WithBaseDelay(time.Millisecond),
	)
	require.NoError(t, err)
	return c
}

func TestNewClient_RequiresBaseURL(t *testing.T) {
	_, err := NewClient(Config{})
	assert.Error(t, err)
}

func TestQuery(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/corpora/migration-tasks/query", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req queryRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "auth migration", req.Query)
		assert.Equal(t, 5, req.TopK)

		json.NewEncoder(w).Encode(queryResponse{Results: []Hit{
			{ID: "task-t1", Content: "Migrate auth service", RelevanceScore: 0.91},
			{ID: "task-t2", Content: "Move sessions to Redis", RelevanceScore: 0.64},
		}})
	}))

	hits, err := c.Query(context.Background(), "auth migration", "migration-tasks", 0)
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, "task-t1", hits[0].ID)
	assert.InDelta(t, 0.91, hits[0].RelevanceScore, 1e-9)
}

func TestQuery_EmptyResultIsNotAnError(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"results": null}`))
	}))

	hits, err := c.Query(context.Background(), "nothing like this", "migration-tasks", 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
	assert.NotNil(t, hits)
}

func TestQuery_RetriesOn503(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(queryResponse{Results: []Hit{{ID: "task-t1", Content: "x", RelevanceScore: 0.5}}})
	}))

	hits, err := c.Query(context.Background(), "q", "s", 5)
	require.NoError(t, err)
	assert.Len(t, hits, 1)
	assert.Equal(t, int32(2), calls.Load())
}

func TestQuery_DoesNotRetryOn400(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))

	_, err := c.Query(context.Background(), "q", "s", 5)
	assert.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestUpsertDocument(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/v1/corpora/project-p1/documents/task-t1", r.URL.Path)

		var req upsertRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Migrate auth service", req.Content)

		json.NewEncoder(w).Encode(Document{ID: "doc-123", DisplayName: "task-t1", Content: req.Content})
	}))

	doc, err := c.UpsertDocument(context.Background(), "project-p1", "task-t1", "Migrate auth service")
	require.NoError(t, err)
	assert.Equal(t, "task-t1", doc.DisplayName)
}

func TestUpsertDocument_FailureIsHard(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	doc, err := c.UpsertDocument(context.Background(), "project-p1", "task-t1", "content")
	assert.Error(t, err)
	assert.Nil(t, doc)
}

func TestDeleteDocumentByDisplayName(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			w.WriteHeader(http.StatusNoContent)
		}))

		ok, err := c.DeleteDocumentByDisplayName(context.Background(), "project-p1", "task-t1")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("missing document is not an error", func(t *testing.T) {
		c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))

		ok, err := c.DeleteDocumentByDisplayName(context.Background(), "project-p1", "task-missing")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestTaskDocID_RoundTrip(t *testing.T) {
	docID := TaskDocID("t1")
	assert.Equal(t, "task-t1", docID)

	taskID, err := TaskIDFromDocID(docID)
	require.NoError(t, err)
	assert.Equal(t, "t1", taskID)
}

func TestTaskIDFromDocID_Malformed(t *testing.T) {
	for _, docID := range []string{"", "task-", "doc-9", "epic-e1"} {
		_, err := TaskIDFromDocID(docID)
		assert.Error(t, err, "docID %q should not yield a task id", docID)
	}
}

func TestCorpusForProject(t *testing.T) {
	assert.Equal(t, "project-p1", CorpusForProject("p1"))
}
