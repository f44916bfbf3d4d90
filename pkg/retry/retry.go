package retry

import (
	"time"
)

type fn func() error
type shouldRetry func(err error, attempt int) bool

// WrapWithRetry - wraps the given function, retries it if it fails and shouldRetry returns true. Exits if errors rate
// per second is above the threshold. The error history is shared by all calls of the returned function.
func WrapWithRetry(f fn, shouldRetry shouldRetry, rate float32,
) func() error {
	size := int(rate) + 1
	var errorTimestamps []time.Time

	return func() error {
		attempt := 0

		for {
			err := f()
			if err == nil {
				return nil
			}

			attempt++
			if !shouldRetry(err, attempt) {
				return err
			}

			now := time.Now()

			errorTimestamps = append(errorTimestamps, now)

			if len(errorTimestamps) > size {
				errorTimestamps = errorTimestamps[1:]
			}
			if len(errorTimestamps) < size {
				continue
			}

			if now.Sub(errorTimestamps[0]) < time.Second {
				return err
			}
		}
	}
}
