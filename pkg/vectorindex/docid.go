package vectorindex

import (
	"fmt"
	"strings"

	"github.com/shiftplan-ai/shiftplan/pkg/apperror"
)

// taskDocPrefix is the stable naming convention for task documents. The task
// id is recoverable from a query hit's document id without a side lookup.
const taskDocPrefix = "task-"

// TaskDocID returns the vector document id for a task.
func TaskDocID(taskID string) string {
	return taskDocPrefix + taskID
}

// TaskIDFromDocID derives the originating task id from a document id.
// Returns a malformed_reference error when the id does not follow the
// task-{id} convention.
func TaskIDFromDocID(docID string) (string, error) {
	taskID, ok := strings.CutPrefix(docID, taskDocPrefix)
	if !ok || taskID == "" {
		return "", apperror.ErrMalformedReference.
			WithMessage(fmt.Sprintf("no task id derivable from document id '%s'", docID))
	}
	return taskID, nil
}

// CorpusForProject returns the corpus name holding one project's documents.
func CorpusForProject(projectID string) string {
	return "project-" + projectID
}
