package tickets

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSimplifyHandle(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "Lowercase",
			raw:  "JeanDupont",
			want: "jeandupont",
		},
		{
			name: "WhitespaceToHyphens",
			raw:  "Jean Dupont",
			want: "jean-dupont",
		},
		{
			name: "WhitespaceRunsCollapse",
			raw:  "jean \t  dupont",
			want: "jean-dupont",
		},
		{
			name: "StripsInvalidCharacters",
			raw:  "j.e_a!n#42",
			want: "jean42",
		},
		{
			name: "StripsAccentedCharacters",
			raw:  "Éloïse",
			want: "lose",
		},
		{
			name: "TruncatesToTwentyCharacters",
			raw:  "abcdefghijklmnopqrstuvwxyz",
			want: "abcdefghijklmnopqrst",
		},
		{
			name: "KeepsHyphens",
			raw:  "jean-dupont",
			want: "jean-dupont",
		},
		{
			name: "Empty",
			raw:  "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SimplifyHandle(tt.raw)
			require.Equal(t, tt.want, got)
			require.LessOrEqual(t, len(got), maxHandleLength)

			// Simplifying an already simplified handle changes nothing.
			require.Equal(t, got, SimplifyHandle(got))
		})
	}
}

func TestCountSiblings(t *testing.T) {
	siblings := []string{
		"eclipse-jean",
		"eclipse-jean-2",
		"eclipse-jeanne",
		"tech-jean",
		"general",
	}

	tests := []struct {
		name   string
		prefix string
		token  string
		want   int
	}{
		{
			name:   "BaseAndSuffixCount",
			prefix: "eclipse",
			token:  "jean",
			want:   2,
		},
		{
			name:   "NoPartialTokenMatch",
			prefix: "eclipse",
			token:  "jea",
			want:   0,
		},
		{
			name:   "OtherPrefix",
			prefix: "tech",
			token:  "jean",
			want:   1,
		},
		{
			name:   "NoMatches",
			prefix: "question",
			token:  "jean",
			want:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, CountSiblings(siblings, tt.prefix, tt.token))
		})
	}
}

func TestGenerateChannelName(t *testing.T) {
	eclipse := TypeByID(TypeEclipse)
	require.NotNil(t, eclipse)

	tests := []struct {
		name     string
		handle   string
		siblings []string
		want     string
	}{
		{
			name:     "NoSiblings",
			handle:   "Jean Dupont",
			siblings: nil,
			want:     "eclipse-jean-dupont",
		},
		{
			name:     "NoMatchingSiblings",
			handle:   "Jean Dupont",
			siblings: []string{"eclipse-other", "general"},
			want:     "eclipse-jean-dupont",
		},
		{
			name:     "OneMatch",
			handle:   "Jean Dupont",
			siblings: []string{"eclipse-jean-dupont"},
			want:     "eclipse-jean-dupont-2",
		},
		{
			name:     "BaseAndSuffixedMatch",
			handle:   "Jean Dupont",
			siblings: []string{"eclipse-jean-dupont", "eclipse-jean-dupont-2"},
			want:     "eclipse-jean-dupont-3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, GenerateChannelName(eclipse, tt.handle, tt.siblings))
		})
	}
}

// Every generated name for every type round-trips through the parser back to
// the prefix and token it was built from.
func TestGenerateChannelNameRoundTrip(t *testing.T) {
	handles := []string{"Jean Dupont", "bob", "User 42"}

	for i := range Types {
		typ := &Types[i]
		for _, handle := range handles {
			name := GenerateChannelName(typ, handle, nil)

			parsed := ParseChannelName(name)
			require.NotNil(t, parsed, "name %q should parse", name)
			require.Equal(t, typ.ChannelPrefix, parsed.Prefix)
			require.Equal(t, SimplifyHandle(handle), parsed.Token)
			require.Zero(t, parsed.Index)
		}
	}
}

func TestParseChannelName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want *ParsedName
	}{
		{
			name: "Base",
			in:   "eclipse-jean-dupont",
			want: &ParsedName{Prefix: "eclipse", Token: "jean-dupont"},
		},
		{
			name: "Suffixed",
			in:   "tech-bob-2",
			want: &ParsedName{Prefix: "tech", Token: "bob", Index: 2},
		},
		{
			name: "TokenWithDigits",
			in:   "question-user42",
			want: &ParsedName{Prefix: "question", Token: "user42"},
		},
		{
			name: "NoHyphen",
			in:   "general",
			want: nil,
		},
		{
			name: "UppercaseRejected",
			in:   "Eclipse-jean",
			want: nil,
		},
		{
			name: "Empty",
			in:   "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ParseChannelName(tt.in))
		})
	}
}
