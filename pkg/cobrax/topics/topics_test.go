package topics

import (
	"bytes"
	"testing"
	"testing/fstest"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDocs() fstest.MapFS {
	return fstest.MapFS{
		"modes.md":            {Data: []byte("# Modes\ncontent about modes\n")},
		"option-strategy.txt": {Data: []byte("strategy flag details\n")},
		"notes.bin":           {Data: []byte("ignored")},
	}
}

func newTestRoot(t *testing.T) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	root := &cobra.Command{Use: "app"}
	root.SetOut(&buf)
	root.SetErr(&buf)
	require.NoError(t, Initialize(root, testDocs(), Options{}))
	return root, &buf
}

func TestManager_ScanAndGet(t *testing.T) {
	m, err := newManager(testDocs(), Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"modes", "option-strategy"}, m.Names(), "unknown extensions are skipped")

	topic, ok := m.Get("modes")
	require.True(t, ok)
	assert.Equal(t, ".md", topic.Ext)
	assert.Contains(t, topic.Content, "content about modes")

	// Flag spellings resolve through the option- prefix.
	for _, name := range []string{"strategy", "--strategy", "-strategy"} {
		topic, ok = m.Get(name)
		require.True(t, ok, name)
		assert.Equal(t, "option-strategy", topic.Name)
	}

	_, ok = m.Get("nope")
	assert.False(t, ok)
}

func TestHelpCommand_ShowsTopic(t *testing.T) {
	root, buf := newTestRoot(t)
	root.SetArgs([]string{"help", "modes"})
	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), "content about modes")
}

func TestHelpCommand_ListsTopics(t *testing.T) {
	root, buf := newTestRoot(t)
	root.SetArgs([]string{"help", "topics"})
	require.NoError(t, root.Execute())

	out := buf.String()
	assert.Contains(t, out, "modes")
	assert.Contains(t, out, "--strategy")
	assert.Contains(t, out, "app help <topic>")
}

func TestHelpCommand_FallsBackToCommandHelp(t *testing.T) {
	root, buf := newTestRoot(t)
	sub := &cobra.Command{Use: "pack", Short: "Pack things", Run: func(*cobra.Command, []string) {}}
	root.AddCommand(sub)

	root.SetArgs([]string{"help", "pack"})
	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), "Pack things")
}

func TestTopicsCommand_ShowsTopic(t *testing.T) {
	root, buf := newTestRoot(t)
	root.SetArgs([]string{"topics", "modes"})
	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), "content about modes")
}

func TestTopicsCommand_ListsWithoutArgs(t *testing.T) {
	root, buf := newTestRoot(t)
	root.SetArgs([]string{"topics"})
	require.NoError(t, root.Execute())
	assert.Contains(t, buf.String(), "Available help topics:")
	assert.Contains(t, buf.String(), "modes")
}

func TestTopicsCommand_UnknownTopicFails(t *testing.T) {
	root, _ := newTestRoot(t)
	root.SetArgs([]string{"topics", "nope"})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}

func TestGlamourRenderer_PassesThroughNonMarkdown(t *testing.T) {
	r := NewGlamourRenderer()
	assert.Equal(t, "plain\n", r.Render("plain\n", ".txt"))
}
