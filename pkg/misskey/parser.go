package misskey

import (
	"bytes"
	"encoding/json"
	"fmt"

	"megalodon/pkg/streaming"
)

// Channel names of the Misskey streaming API.
const (
	ChannelMain           = "main"
	ChannelHomeTimeline   = "homeTimeline"
	ChannelLocalTimeline  = "localTimeline"
	ChannelHybridTimeline = "hybridTimeline"
	ChannelGlobalTimeline = "globalTimeline"
	ChannelHashtag        = "hashtag"
	ChannelUserList       = "userList"
)

// mainBookkeeping lists main-channel messages that carry no timeline content.
var mainBookkeeping = map[string]bool{
	"readAllNotifications":        true,
	"unreadNotification":          true,
	"unreadMention":               true,
	"readAllUnreadMentions":       true,
	"unreadSpecifiedNote":         true,
	"readAllUnreadSpecifiedNotes": true,
	"unreadMessagingMessage":      true,
	"readAllMessagingMessages":    true,
	"unreadAntenna":               true,
	"readAllAntennas":             true,
	"readAntenna":                 true,
	"renote":                      true,
	"reply":                       true,
	"followed":                    true,
	"follow":                      true,
	"unfollow":                    true,
	"receiveFollowRequest":        true,
	"meUpdated":                   true,
	"pageEvent":                   true,
	"urlUploadFinished":           true,
	"driveFileCreated":            true,
	"registryUpdated":             true,
	"announcementCreated":         true,
	"emojiAdded":                  true,
}

type frame struct {
	Type string          `json:"type"`
	Body json.RawMessage `json:"body"`
}

type channelMessage struct {
	ID   string          `json:"id"`
	Type string          `json:"type"`
	Body json.RawMessage `json:"body"`
}

// ChannelParser decodes {"type": "channel", "body": {"id", "type", "body"}} frames addressed to
// the channels a stream subscribed to. Frames for other channels are discarded.
type ChannelParser struct {
	channels map[string]string
}

// NewChannelParser takes the subscribed channels keyed by connection id.
func NewChannelParser(channels map[string]string) *ChannelParser {
	return &ChannelParser{channels: channels}
}

func (p *ChannelParser) Parse(data []byte, binary bool, emit func(streaming.RawEvent)) {
	if binary {
		emit(streaming.RawEvent{Kind: streaming.EventParserError, Err: streaming.ErrBinaryFrame})
		return
	}
	if len(bytes.TrimSpace(data)) == 0 {
		emit(streaming.RawEvent{Kind: streaming.EventHeartbeat})
		return
	}

	var f frame
	if err := json.Unmarshal(data, &f); err != nil {
		emit(streaming.RawEvent{Kind: streaming.EventError, Err: fmt.Errorf("%w: %w", streaming.ErrMalformedFrame, err)})
		return
	}
	if f.Type != "channel" {
		return
	}

	var msg channelMessage
	if err := json.Unmarshal(f.Body, &msg); err != nil {
		emit(streaming.RawEvent{Kind: streaming.EventError, Err: fmt.Errorf("%w: %w", streaming.ErrMalformedFrame, err)})
		return
	}

	channel, ok := p.channels[msg.ID]
	if !ok {
		return
	}

	switch msg.Type {
	case "note":
		emit(streaming.RawEvent{Kind: streaming.EventUpdate, Payload: msg.Body})
	case "notification":
		emit(streaming.RawEvent{Kind: streaming.EventNotification, Payload: msg.Body})
	case "mention":
		var note struct {
			Visibility string `json:"visibility"`
		}
		if err := json.Unmarshal(msg.Body, &note); err != nil {
			emit(streaming.RawEvent{Kind: streaming.EventParserError, Err: fmt.Errorf("%w: mention: %w", streaming.ErrMalformedPayload, err)})
			return
		}
		if note.Visibility == VisibilitySpecified {
			emit(streaming.RawEvent{Kind: streaming.EventConversation, Payload: msg.Body})
		}
	default:
		if channel == ChannelMain && mainBookkeeping[msg.Type] {
			return
		}
		emit(streaming.RawEvent{Kind: streaming.EventError, Err: &streaming.UnknownEventError{Name: msg.Type}})
	}
}
