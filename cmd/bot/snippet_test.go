package main

import (
	"fmt"
	"testing"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/guichet-bot/guichet/pkg/messages"
	"github.com/stretchr/testify/require"
)

func TestSnippetCmdChoices(t *testing.T) {
	require.Len(t, snippetCmd.Options, 2)

	idOpt := snippetCmd.Options[0]
	require.Equal(t, snippetIDOptName, idOpt.Name)
	require.True(t, idOpt.Required)

	// One choice per catalog snippet, labelled with its category.
	require.Len(t, idOpt.Choices, len(messages.Snippets))
	for i, choice := range idOpt.Choices {
		s := messages.Snippets[i]
		require.Equal(t, fmt.Sprintf("[%s] %s", s.Category, s.Label), choice.Name)
		require.Equal(t, string(s.ID), choice.Value)
	}

	modeOpt := snippetCmd.Options[1]
	require.Equal(t, snippetModeOptName, modeOpt.Name)
	require.False(t, modeOpt.Required)

	modes := make([]string, 0, len(modeOpt.Choices))
	for _, choice := range modeOpt.Choices {
		modes = append(modes, choice.Value.(string))
	}
	require.ElementsMatch(t, []string{snippetModeBot, snippetModeEphemeral}, modes)
}

func TestSnippetCmdRegistered(t *testing.T) {
	require.Contains(t, slashCommands, snippetCmd)
}

func TestTranscriptCmdOptions(t *testing.T) {
	var names []string
	var memberOpt *discordgo.ApplicationCommandOption
	for _, opt := range transcriptCmd.Options {
		names = append(names, opt.Name)
		if opt.Name == transcriptMemberOptName {
			memberOpt = opt
		}
	}

	require.Contains(t, names, transcriptFormatOptName)
	require.Contains(t, names, transcriptMemberOptName)

	// The DM recipient is an optional user option.
	require.NotNil(t, memberOpt)
	require.Equal(t, discordgo.ApplicationCommandOptionUser, memberOpt.Type)
	require.False(t, memberOpt.Required)
}
