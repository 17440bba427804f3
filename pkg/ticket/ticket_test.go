package ticket

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestChannelName(t *testing.T) {
	tests := []struct {
		name      string
		ownerName string
		createdAt time.Time
		want      string
	}{
		{
			name:      "PlainName",
			ownerName: "alice",
			createdAt: time.UnixMilli(1700000000000),
			want:      "ticket-alice-1700000000000",
		},
		{
			name:      "StripsSpecialCharacters",
			ownerName: "Jane_Doe!!",
			createdAt: time.UnixMilli(1700000000000),
			want:      "ticket-janedoe-1700000000000",
		},
		{
			name:      "StripsSpacesAndUnicode",
			ownerName: "Ünïcode User 42",
			createdAt: time.UnixMilli(1),
			want:      "ticket-ncodeuser42-1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ChannelName(tt.ownerName, tt.createdAt)
			require.Equal(t, tt.want, got)
			require.Regexp(t, regexp.MustCompile(`^ticket-[a-z0-9-]*$`), got)
		})
	}
}

func TestIsTicketChannel(t *testing.T) {
	require.True(t, IsTicketChannel("ticket-wolf-1700000000000"))
	require.False(t, IsTicketChannel("general"))
	require.False(t, IsTicketChannel("tickets"))
}

func TestParseCategory(t *testing.T) {
	for _, c := range Categories() {
		got, err := ParseCategory(string(c))
		require.NoError(t, err)
		require.Equal(t, c, got)
	}

	_, err := ParseCategory("Free Text")
	require.Error(t, err)
}

func TestTicketName(t *testing.T) {
	tk := &Ticket{
		OwnerName: "Jane_Doe!!",
		CreatedAt: time.UnixMilli(1700000000000),
	}
	require.Equal(t, "ticket-janedoe-1700000000000", tk.Name())
}
