package main

import (
	"strings"
	"testing"

	"github.com/Jacobbrewer1/discordgo"
	"github.com/stretchr/testify/require"
)

func TestParseStaffRoles(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []string
		wantErr bool
	}{
		{
			name: "SingleID",
			raw:  "123456789",
			want: []string{"123456789"},
		},
		{
			name: "CommaSeparatedIDs",
			raw:  "111, 222,333",
			want: []string{"111", "222", "333"},
		},
		{
			name: "RoleMentions",
			raw:  "<@&111>, <@&222>",
			want: []string{"111", "222"},
		},
		{
			name: "MixedMentionsAndIDs",
			raw:  "<@&111>, 222",
			want: []string{"111", "222"},
		},
		{
			name: "TrailingComma",
			raw:  "111,",
			want: []string{"111"},
		},
		{
			name:    "Empty",
			raw:     "",
			wantErr: true,
		},
		{
			name:    "NotNumeric",
			raw:     "staff",
			wantErr: true,
		},
		{
			name:    "TooManyRoles",
			raw:     strings.Repeat("1,", maxStaffRoles) + "1",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseStaffRoles(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestCheckStaffRoles(t *testing.T) {
	guildRoles := []*discordgo.Role{
		{ID: "111", Name: "Staff"},
		{ID: "222", Name: "Modo"},
	}

	tests := []struct {
		name       string
		configured []string
		want       []string
	}{
		{
			name:       "AllPresent",
			configured: []string{"111", "222"},
			want:       []string{"<@&111>", "<@&222>"},
		},
		{
			name:       "DeletedRoleFlagged",
			configured: []string{"111", "999"},
			want:       []string{"<@&111>", "<@&999> (introuvable)"},
		},
		{
			name:       "NoneConfigured",
			configured: nil,
			want:       []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, checkStaffRoles(tt.configured, guildRoles))
		})
	}
}
