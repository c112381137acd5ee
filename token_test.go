package antlr4

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToken_IsEOF(t *testing.T) {
	require.True(t, (&Token{Type: TokenEOF}).IsEOF())
	require.False(t, (&Token{Type: 1}).IsEOF())
}
