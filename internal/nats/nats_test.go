package nats_test

import (
	"testing"

	"megalodon/internal/nats"

	"github.com/stretchr/testify/require"
)

func TestSubject(t *testing.T) {
	t.Parallel()

	require.Equal(t, "megalodon.update", nats.Subject("update"))
	require.Equal(t, "megalodon.*", nats.Subject("*"))
}
