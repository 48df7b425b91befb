// Package msg defines the message-level data model shared by the store and
// the gallery engine: universal ids spanning a chat and its migrated
// predecessor, media classification, and the sparse slice window the store
// serves to the gallery.
package msg

// ServerMaxMessageID is an exclusive upper bound on the message ids a single
// chat can contain. Ids of a migrated predecessor chat are shifted below zero
// by this constant so a single int64 axis covers both chats in chronological
// order: predecessor messages occupy the negative range, current-chat
// messages the positive range.
const ServerMaxMessageID = int64(1) << 30

// UniversalID identifies an item within the browsed chat pair. The natural
// integer order of UniversalID values matches chronological order across
// both the current chat and its migrated predecessor.
type UniversalID int64

// FullID is a channel-qualified message id as the store knows it.
// ChannelID zero means the message lives in a plain (non-channel) chat.
type FullID struct {
	ChannelID int64
	MessageID int64
}

// Zero reports whether the id is the zero value.
func (f FullID) Zero() bool {
	return f.ChannelID == 0 && f.MessageID == 0
}

// UniversalFromFull maps a channel-qualified id onto the universal axis.
// Channel messages keep their id; predecessor-chat messages are shifted into
// the negative range.
func UniversalFromFull(id FullID) UniversalID {
	if id.ChannelID != 0 {
		return UniversalID(id.MessageID)
	}
	return UniversalID(id.MessageID - ServerMaxMessageID)
}

// Full converts a universal id back to a channel-qualified id.
// channelID is the id of the currently browsed channel; negative universal
// ids resolve into the migrated predecessor chat.
func (id UniversalID) Full(channelID int64) FullID {
	if id > 0 {
		return FullID{ChannelID: channelID, MessageID: int64(id)}
	}
	return FullID{ChannelID: 0, MessageID: ServerMaxMessageID + int64(id)}
}
