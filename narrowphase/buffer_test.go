package narrowphase

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/require"
)

func TestContactBufferOverflowPanics(t *testing.T) {
	buf := NewContactBuffer(Config{MaxContacts: 1})
	buf.Push(ContactConstraint{})
	require.Panics(t, func() { buf.Push(ContactConstraint{}) })
}

func TestContactBufferResetReclaims(t *testing.T) {
	buf := NewContactBuffer(Config{MaxContacts: 2})
	buf.Push(ContactConstraint{Normal: mgl32.Vec3{1, 0, 0}})
	require.Equal(t, 1, buf.Count())
	buf.Reset()
	require.Equal(t, 0, buf.Count())
	require.Empty(t, buf.Contacts())
}
