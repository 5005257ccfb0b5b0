package messages

import (
	"testing"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/stretchr/testify/require"
)

func TestSnippetCatalog(t *testing.T) {
	require.Len(t, Snippets, 7)

	seen := make(map[SnippetID]struct{}, len(Snippets))
	for _, s := range Snippets {
		if _, ok := seen[s.ID]; ok {
			t.Fatalf("duplicate snippet ID %s", s.ID)
		}
		seen[s.ID] = struct{}{}

		require.NotEmpty(t, s.Label, "snippet %s has no label", s.ID)
		require.NotEmpty(t, s.Description, "snippet %s has no description", s.ID)
		require.NotEmpty(t, s.Category, "snippet %s has no category", s.ID)
		require.NotEmpty(t, s.Title, "snippet %s has no title", s.ID)
		require.NotEmpty(t, s.Body, "snippet %s has no body", s.ID)
		require.NotEmpty(t, s.PlainText, "snippet %s has no plain text", s.ID)
		require.NotZero(t, s.Color, "snippet %s has no colour", s.ID)
	}
}

func TestSnippetByID(t *testing.T) {
	s := SnippetByID(SnippetEclipseBase)
	require.NotNil(t, s)
	require.Equal(t, "eclipse", s.Category)
	require.Equal(t, ColorInfo, s.Color)

	require.Nil(t, SnippetByID("nope"))
}

func TestSnippetMessage(t *testing.T) {
	s := SnippetByID(SnippetGeneralBase)
	require.NotNil(t, s)

	msg := s.Message()
	require.Len(t, msg.Embeds, 1)
	require.Equal(t, s.Title, msg.Embeds[0].Title)
	require.Equal(t, s.Body, msg.Embeds[0].Description)
	require.Equal(t, ColorPrimary, msg.Embeds[0].Color)
}

func TestSnippetPreview(t *testing.T) {
	s := SnippetByID(SnippetTechniqueVerif)
	require.NotNil(t, s)

	preview := SnippetPreview(s)
	require.NotZero(t, preview.Flags&discordgo.MessageFlagsEphemeral)
	require.Len(t, preview.Embeds, 1)
	require.Equal(t, s.Title, preview.Embeds[0].Title)

	// The preview carries the markdown-free text in a copyable code block.
	require.Contains(t, preview.Embeds[0].Description, "```txt\n"+s.PlainText+"\n```")
	require.NotContains(t, preview.Embeds[0].Description, "**")
}
