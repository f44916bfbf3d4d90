package retry_test

import (
	"errors"
	"testing"

	"megalodon/pkg/retry"

	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func always(error, int) bool { return true }

func TestWrapWithRetry(t *testing.T) {
	t.Parallel()

	t.Run("succeeds after failures", func(t *testing.T) {
		t.Parallel()

		calls := 0
		err := retry.WrapWithRetry(func() error {
			calls++
			if calls < 3 {
				return errBoom
			}
			return nil
		}, always, 10)()

		require.NoError(t, err)
		require.Equal(t, 3, calls)
	})

	t.Run("gives up above the error rate", func(t *testing.T) {
		t.Parallel()

		calls := 0
		err := retry.WrapWithRetry(func() error {
			calls++
			return errBoom
		}, always, 3)()

		require.ErrorIs(t, err, errBoom)
		require.Equal(t, 4, calls)
	})

	t.Run("respects shouldRetry", func(t *testing.T) {
		t.Parallel()

		calls := 0
		var attempts []int
		err := retry.WrapWithRetry(func() error {
			calls++
			return errBoom
		}, func(_ error, attempt int) bool {
			attempts = append(attempts, attempt)
			return attempt < 2
		}, 10)()

		require.ErrorIs(t, err, errBoom)
		require.Equal(t, 2, calls)
		require.Equal(t, []int{1, 2}, attempts)
	})
}
