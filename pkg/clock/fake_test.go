package clock_test

import (
	"testing"
	"time"

	"megalodon/pkg/clock"

	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestFake_AfterFunc(t *testing.T) {
	t.Parallel()

	t.Run("fires once the deadline passes", func(t *testing.T) {
		t.Parallel()

		c := clock.NewFake(epoch)
		fired := 0
		c.AfterFunc(10*time.Second, func() { fired++ })

		c.Advance(9 * time.Second)
		require.Equal(t, 0, fired)
		require.Equal(t, 1, c.PendingCount())

		c.Advance(time.Second)
		require.Equal(t, 1, fired)
		require.Equal(t, 0, c.PendingCount())
	})

	t.Run("stopped timers never fire", func(t *testing.T) {
		t.Parallel()

		c := clock.NewFake(epoch)
		fired := false
		timer := c.AfterFunc(time.Second, func() { fired = true })

		require.True(t, timer.Stop())
		require.False(t, timer.Stop())
		c.Advance(time.Minute)

		require.False(t, fired)
		require.Equal(t, 0, c.PendingCount())
	})

	t.Run("callbacks can schedule new timers", func(t *testing.T) {
		t.Parallel()

		c := clock.NewFake(epoch)
		var order []string
		c.AfterFunc(time.Second, func() {
			order = append(order, "first")
			c.AfterFunc(time.Second, func() { order = append(order, "second") })
		})

		c.Advance(time.Second)
		require.Equal(t, []string{"first"}, order)

		c.Advance(time.Second)
		require.Equal(t, []string{"first", "second"}, order)
	})

	t.Run("fires in deadline order", func(t *testing.T) {
		t.Parallel()

		c := clock.NewFake(epoch)
		var order []int
		c.AfterFunc(3*time.Second, func() { order = append(order, 3) })
		c.AfterFunc(1*time.Second, func() { order = append(order, 1) })
		c.AfterFunc(2*time.Second, func() { order = append(order, 2) })

		c.Advance(5 * time.Second)
		require.Equal(t, []int{1, 2, 3}, order)
	})
}

func TestFake_After(t *testing.T) {
	t.Parallel()

	c := clock.NewFake(epoch)
	ch := c.After(time.Minute)

	go c.Advance(time.Minute)

	require.Equal(t, epoch.Add(time.Minute), <-ch)
}

func TestFake_WaitForTimers(t *testing.T) {
	t.Parallel()

	c := clock.NewFake(epoch)
	done := make(chan struct{})

	go func() {
		c.Sleep(time.Second)
		close(done)
	}()

	c.WaitForTimers(1)
	c.Advance(time.Second)
	<-done
	require.Equal(t, epoch.Add(time.Second), c.Now())
}

func TestReal(t *testing.T) {
	t.Parallel()

	c := clock.Real()
	fired := make(chan struct{})
	c.AfterFunc(time.Millisecond, func() { close(fired) })

	<-fired
	require.False(t, c.Now().IsZero())
}
