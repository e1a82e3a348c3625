package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSkillsRoundTrip(t *testing.T) {
	t.Parallel()

	encoded, err := encodeSkills([]string{"a", "b", "c"})
	require.NoError(t, err)
	assert.Equal(t, `["a","b","c"]`, encoded)

	assert.Equal(t, []string{"a", "b", "c"}, decodeSkills(encoded))
}

func TestEncodeSkillsNil(t *testing.T) {
	t.Parallel()

	encoded, err := encodeSkills(nil)
	require.NoError(t, err)
	assert.Equal(t, `[]`, encoded)
}

func TestDecodeSkillsDegradesToEmptyList(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{}, decodeSkills(""))
	assert.Equal(t, []string{}, decodeSkills("not json"))
	assert.Equal(t, []string{}, decodeSkills(`{"wrong": "shape"}`))
	assert.Equal(t, []string{}, decodeSkills(`null`))
}

func TestDecodeSkillsPreservesOrder(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"z", "a", "m"}, decodeSkills(`["z","a","m"]`))
}
