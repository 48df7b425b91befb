package msg

import "time"

// MediaType classifies the media payload of a message. The set is closed:
// gallery geometry rules switch on it exhaustively.
type MediaType int

const (
	TypePhoto MediaType = iota
	TypeVideo
	TypeFile
	TypeMusicFile
	TypeVoiceFile
	TypeLink
	TypeRoundFile
)

// String returns the lowercase name used in logs and CLI flags.
func (t MediaType) String() string {
	switch t {
	case TypePhoto:
		return "photo"
	case TypeVideo:
		return "video"
	case TypeFile:
		return "file"
	case TypeMusicFile:
		return "music"
	case TypeVoiceFile:
		return "voice"
	case TypeLink:
		return "link"
	case TypeRoundFile:
		return "round"
	}
	return "unknown"
}

// ParseMediaType parses the CLI/config spelling of a media type.
func ParseMediaType(s string) (MediaType, bool) {
	for _, t := range []MediaType{
		TypePhoto, TypeVideo, TypeFile, TypeMusicFile,
		TypeVoiceFile, TypeLink, TypeRoundFile,
	} {
		if t.String() == s {
			return t, true
		}
	}
	return 0, false
}

// Item is one message row as resolved from the store. Items are borrowed:
// the gallery must not retain a pointer past the callback that produced it
// and always re-resolves by id.
type Item struct {
	ID       FullID
	Type     MediaType
	Date     time.Time
	Name     string
	Caption  string
	URL      string
	Size     int64
	Duration time.Duration

	CanDelete  bool
	CanForward bool
}
