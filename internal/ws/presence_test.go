package ws

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPresenceLastConnectWins(t *testing.T) {
	p := NewPresenceRegistry()

	p.Register("u1", "connA")
	p.Register("u1", "connB")

	got, ok := p.Lookup("u1")
	require.True(t, ok)
	require.Equal(t, "connB", got)
}

func TestPresenceReleaseGuardsNewerConnection(t *testing.T) {
	p := NewPresenceRegistry()

	p.Register("u1", "connA")
	p.Register("u1", "connB")

	// The old connection's disconnect arrives late: it must not evict
	// the entry that now points at the newer connection.
	p.Release("u1", "connA")
	got, ok := p.Lookup("u1")
	require.True(t, ok)
	require.Equal(t, "connB", got)

	p.Release("u1", "connB")
	_, ok = p.Lookup("u1")
	require.False(t, ok)
}

func TestPresenceLookupUnknownUser(t *testing.T) {
	p := NewPresenceRegistry()
	_, ok := p.Lookup("nobody")
	require.False(t, ok)
}
