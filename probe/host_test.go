package probe

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostProbeListsProcesses(t *testing.T) {
	h := NewHostProbe(true)
	names, err := h.ListProcessNames()
	require.NoError(t, err)
	assert.NotEmpty(t, names)
	assert.True(t, h.IsSecureDisplayFlagSet())
}
