package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmeyers/treatybot/internal/corpus"
)

func TestResolveDocumentIDs(t *testing.T) {
	t.Parallel()

	t.Run("defaults to every document", func(t *testing.T) {
		t.Parallel()

		ids, err := resolveDocumentIDs(nil, nil)
		require.NoError(t, err)
		assert.Equal(t, corpus.AllDocumentIDs(), ids)
	})

	t.Run("explicit documents pass through", func(t *testing.T) {
		t.Parallel()

		ids, err := resolveDocumentIDs(nil, []string{"0", "5"})
		require.NoError(t, err)
		assert.Equal(t, []string{"0", "5"}, ids)
	})

	t.Run("groups expand to their documents", func(t *testing.T) {
		t.Parallel()

		ids, err := resolveDocumentIDs([]int{0}, nil)
		require.NoError(t, err)
		assert.Equal(t, corpus.Groups[0].DocumentIDs, ids)
	})

	t.Run("groups and documents are mutually exclusive", func(t *testing.T) {
		t.Parallel()

		_, err := resolveDocumentIDs([]int{0}, []string{"5"})
		assert.Error(t, err)
	})

	t.Run("out of range group is an error", func(t *testing.T) {
		t.Parallel()

		_, err := resolveDocumentIDs([]int{99}, nil)
		assert.Error(t, err)
	})
}

func TestDocumentsCommand(t *testing.T) {
	var out bytes.Buffer
	documentsCmd.SetOut(&out)
	documentsCmd.Run(documentsCmd, nil)

	for _, g := range corpus.Groups {
		assert.Contains(t, out.String(), g.Label)
	}
}

func TestRootCommandMetadata(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "treatybot", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.Contains(t, rootCmd.Long, "BBNJ")

	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"ask", "serve", "index", "documents", "version"} {
		assert.True(t, names[want], "missing subcommand %q", want)
	}
}
