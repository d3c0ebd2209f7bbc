package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRelationshipTypeValid(t *testing.T) {
	for _, relType := range RelationshipTypes {
		assert.True(t, relType.Valid(), "expected %s to be valid", relType)
	}

	assert.False(t, RelationshipType("").Valid())
	assert.False(t, RelationshipType("REQUIRES").Valid())
	assert.False(t, RelationshipType("depends_on").Valid(), "types are case-sensitive")
}

func TestParseRelationshipType(t *testing.T) {
	relType, err := ParseRelationshipType("DEPENDS_ON")
	require.NoError(t, err)
	assert.Equal(t, DependsOn, relType)

	_, err = ParseRelationshipType("CHILD_OF")
	require.Error(t, err)

	_, err = ParseRelationshipType("")
	require.Error(t, err)
}
