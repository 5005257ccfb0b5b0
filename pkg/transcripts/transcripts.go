// Package transcripts renders the full message history of a ticket channel
// into a portable text document.
package transcripts

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/google/uuid"
)

// Format is the transcript output format.
type Format string

const (
	FormatText     Format = "txt"
	FormatMarkdown Format = "md"
)

// fetchPageSize is the platform's maximum page size for message history.
const fetchPageSize = 100

// MessageFetcher is the subset of the platform session needed to page
// through a channel's history. *discordgo.Session satisfies it.
type MessageFetcher interface {
	ChannelMessages(channelID string, limit int, beforeID, afterID, aroundID string, options ...discordgo.RequestOption) ([]*discordgo.Message, error)
}

// FetchAll retrieves the complete history of a channel, oldest first.
func FetchAll(f MessageFetcher, channelID string) ([]*discordgo.Message, error) {
	var all []*discordgo.Message
	beforeID := ""

	for {
		page, err := f.ChannelMessages(channelID, fetchPageSize, beforeID, "", "")
		if err != nil {
			return nil, fmt.Errorf("error fetching channel messages: %w", err)
		}
		if len(page) == 0 {
			break
		}

		all = append(all, page...)
		beforeID = page[len(page)-1].ID

		if len(page) < fetchPageSize {
			break
		}
	}

	// Pages arrive newest first.
	sort.Slice(all, func(i, j int) bool {
		ti, _ := discordgo.SnowflakeTimestamp(all[i].ID)
		tj, _ := discordgo.SnowflakeTimestamp(all[j].ID)
		return ti.Before(tj)
	})
	return all, nil
}

// FileName builds a unique transcript file name for a channel.
func FileName(channelName string, format Format) string {
	return fmt.Sprintf("transcript-%s-%s.%s", channelName, uuid.NewString(), format)
}

// Generate renders the messages into the requested format.
func Generate(msgs []*discordgo.Message, format Format, channelName string) string {
	if format == FormatMarkdown {
		return generateMarkdown(msgs, channelName)
	}
	return generateText(msgs, channelName)
}

func messageTime(msg *discordgo.Message) string {
	t, err := discordgo.SnowflakeTimestamp(msg.ID)
	if err != nil {
		return "unknown"
	}
	return t.UTC().Format(time.RFC3339)
}

func authorTag(msg *discordgo.Message) string {
	if msg.Author == nil {
		return "unknown"
	}
	return msg.Author.Username
}

func generateText(msgs []*discordgo.Message, channelName string) string {
	lines := []string{
		"========================================",
		fmt.Sprintf("TRANSCRIPT - %s", channelName),
		fmt.Sprintf("Généré le %s", time.Now().UTC().Format(time.RFC3339)),
		fmt.Sprintf("Nombre de messages: %d", len(msgs)),
		"========================================",
		"",
	}

	for _, msg := range msgs {
		content := msg.Content
		if content == "" {
			content = "[Aucun contenu textuel]"
		}

		lines = append(lines,
			fmt.Sprintf("[%s] %s:", messageTime(msg), authorTag(msg)),
			content,
		)

		if len(msg.Attachments) > 0 {
			names := make([]string, 0, len(msg.Attachments))
			for _, a := range msg.Attachments {
				names = append(names, a.Filename)
			}
			lines = append(lines, fmt.Sprintf("[Pièces jointes: %s]", strings.Join(names, ", ")))
		}

		if len(msg.Embeds) > 0 {
			lines = append(lines, fmt.Sprintf("[%d embed(s)]", len(msg.Embeds)))
		}

		lines = append(lines, "")
	}

	return strings.Join(lines, "\n")
}

func generateMarkdown(msgs []*discordgo.Message, channelName string) string {
	lines := []string{
		fmt.Sprintf("# Transcript - %s", channelName),
		"",
		fmt.Sprintf("> Généré le %s", time.Now().UTC().Format(time.RFC3339)),
		fmt.Sprintf("> Nombre de messages: %d", len(msgs)),
		"",
		"---",
		"",
	}

	for _, msg := range msgs {
		content := msg.Content
		if content == "" {
			content = "*[Aucun contenu textuel]*"
		}

		lines = append(lines,
			fmt.Sprintf("### %s", authorTag(msg)),
			fmt.Sprintf("*%s*", messageTime(msg)),
			"",
			content,
		)

		if len(msg.Attachments) > 0 {
			lines = append(lines, "", "**Pièces jointes:**")
			for _, a := range msg.Attachments {
				lines = append(lines, fmt.Sprintf("- [%s](%s)", a.Filename, a.URL))
			}
		}

		if len(msg.Embeds) > 0 {
			lines = append(lines, "", fmt.Sprintf("*[%d embed(s)]*", len(msg.Embeds)))
		}

		lines = append(lines, "", "---", "")
	}

	return strings.Join(lines, "\n")
}
