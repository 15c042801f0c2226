package main

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTailArgs(t *testing.T) {
	// a bare "books" command line has nothing after the subcommand slot
	require.Nil(t, tailArgs([]string{"books"}, 2))
	require.Nil(t, tailArgs([]string{"books", "list"}, 2))
	require.Equal(t, []string{"-limit", "5"}, tailArgs([]string{"books", "list", "-limit", "5"}, 2))
	require.Nil(t, tailArgs(nil, 2))
}
