package initchecker

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type dependency interface {
	Name() string
}

type impl struct{}

func (i *impl) Name() string { return "impl" }

func TestCheckInit(t *testing.T) {
	t.Run(`initialized check`, func(t *testing.T) {
		var dep dependency = &impl{}
		require.NotPanics(t, func() { CheckInit("dep", dep, "count", 0) })
	})

	t.Run(`nil check`, func(t *testing.T) {
		var dep dependency
		require.PanicsWithValue(t, "dep dependency not initialized", func() { CheckInit("dep", dep) })

		var typed *impl
		dep = typed
		require.PanicsWithValue(t, "dep dependency not initialized", func() { CheckInit("dep", dep) })
	})

	t.Run(`arguments check`, func(t *testing.T) {
		require.Panics(t, func() { CheckInit("dep") })
		require.Panics(t, func() { CheckInit(1, &impl{}) })
	})
}
