package tickets

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// maxHandleLength is the maximum length of the simplified handle token.
const maxHandleLength = 20

var (
	whitespaceRuns = regexp.MustCompile(`\s+`)
	invalidChars   = regexp.MustCompile(`[^a-z0-9-]`)
	channelName    = regexp.MustCompile(`^([a-z]+)-([a-z0-9-]+?)(?:-(\d+))?$`)
)

// SimplifyHandle derives a channel-name token from a raw user handle. The
// result is lower case, whitespace runs become single hyphens, everything
// outside [a-z0-9-] is stripped and the token is truncated to 20 characters.
func SimplifyHandle(raw string) string {
	s := strings.ToLower(raw)
	s = whitespaceRuns.ReplaceAllString(s, "-")
	s = invalidChars.ReplaceAllString(s, "")
	if len(s) > maxHandleLength {
		s = s[:maxHandleLength]
	}
	return s
}

// CountSiblings counts the channel names matching ^{prefix}-{token}(-\d+)?$.
func CountSiblings(siblingNames []string, prefix, token string) int {
	pattern := regexp.MustCompile(
		`^` + regexp.QuoteMeta(prefix) + `-` + regexp.QuoteMeta(token) + `(-\d+)?$`,
	)

	count := 0
	for _, name := range siblingNames {
		if pattern.MatchString(name) {
			count++
		}
	}
	return count
}

// GenerateChannelName computes the channel name for a new ticket. siblingNames
// are the names of the channels already under the ticket category; pass nil
// when no valid category is available, in which case the un-suffixed name is
// returned.
//
// Collision avoidance is count-based, not slot-filling: when an intermediate
// ticket has been deleted the next suffix can skip numbers. That is accepted
// behaviour, not a bug.
func GenerateChannelName(t *Type, handle string, siblingNames []string) string {
	token := SimplifyHandle(handle)
	base := fmt.Sprintf("%s-%s", t.ChannelPrefix, token)

	if len(siblingNames) == 0 {
		return base
	}

	existing := CountSiblings(siblingNames, t.ChannelPrefix, token)
	if existing == 0 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, existing+1)
}

// ParsedName is the result of parsing a ticket channel name.
type ParsedName struct {
	// Prefix is the ticket type channel prefix.
	Prefix string

	// Token is the simplified user handle.
	Token string

	// Index is the duplicate suffix, or 0 when the name carries none.
	Index int
}

// ParseChannelName is the inverse of GenerateChannelName. It returns nil when
// the name does not look like a ticket channel. It is only used as a fallback
// when the in-memory registry has no entry, e.g. after a restart.
func ParseChannelName(name string) *ParsedName {
	match := channelName.FindStringSubmatch(name)
	if match == nil {
		return nil
	}

	parsed := &ParsedName{
		Prefix: match[1],
		Token:  match[2],
	}
	if match[3] != "" {
		idx, err := strconv.Atoi(match[3])
		if err != nil {
			return nil
		}
		parsed.Index = idx
	}
	return parsed
}
