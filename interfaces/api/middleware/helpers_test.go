package middleware

import (
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func readBody(t *testing.T, r io.Reader) string {
	t.Helper()
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(b)
}
