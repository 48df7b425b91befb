package msg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniversalIDRoundTrip(t *testing.T) {
	const channelID = int64(42)

	tests := []struct {
		name string
		full FullID
	}{
		{"channel message", FullID{ChannelID: channelID, MessageID: 100}},
		{"channel message large", FullID{ChannelID: channelID, MessageID: ServerMaxMessageID - 1}},
		{"migrated chat message", FullID{ChannelID: 0, MessageID: 7}},
		{"migrated chat message large", FullID{ChannelID: 0, MessageID: ServerMaxMessageID - 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			universal := UniversalFromFull(tt.full)
			back := universal.Full(channelID)
			assert.Equal(t, tt.full, back)
		})
	}
}

func TestUniversalIDOrdering(t *testing.T) {
	// Every migrated-chat message sorts before every current-chat message,
	// and within each chat the message-id order is preserved.
	migratedOld := UniversalFromFull(FullID{ChannelID: 0, MessageID: 1})
	migratedNew := UniversalFromFull(FullID{ChannelID: 0, MessageID: 999})
	channelOld := UniversalFromFull(FullID{ChannelID: 5, MessageID: 1})
	channelNew := UniversalFromFull(FullID{ChannelID: 5, MessageID: 999})

	require.Less(t, migratedOld, migratedNew)
	require.Less(t, migratedNew, channelOld)
	require.Less(t, channelOld, channelNew)
}

func TestFullIDZero(t *testing.T) {
	assert.True(t, FullID{}.Zero())
	assert.False(t, FullID{ChannelID: 1}.Zero())
	assert.False(t, FullID{MessageID: 1}.Zero())
}

func TestParseMediaType(t *testing.T) {
	for _, kind := range []MediaType{
		TypePhoto, TypeVideo, TypeFile, TypeMusicFile,
		TypeVoiceFile, TypeLink, TypeRoundFile,
	} {
		parsed, ok := ParseMediaType(kind.String())
		require.True(t, ok, kind.String())
		assert.Equal(t, kind, parsed)
	}
	_, ok := ParseMediaType("sticker")
	assert.False(t, ok)
}
