package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore(t *testing.T) {
	s := NewLocalStore()

	_, ok, err := s.GetItem("reportage_vote")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetItem("reportage_vote", `"like"`))
	v, ok, err := s.GetItem("reportage_vote")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `"like"`, v)

	require.NoError(t, s.RemoveItem("reportage_vote"))
	require.NoError(t, s.RemoveItem("reportage_vote"))
	_, ok, _ = s.GetItem("reportage_vote")
	assert.False(t, ok)
}
