package pleroma

import (
	"megalodon/pkg/entity"
	"megalodon/pkg/mastodon"
	"megalodon/pkg/megalodon"
)

const (
	NotificationEmojiReaction = "pleroma:emoji_reaction"
	NotificationMove          = "move"
)

func DecodeNotificationType(native string) (entity.NotificationType, error) {
	switch native {
	case NotificationEmojiReaction:
		return entity.NotificationEmojiReaction, nil
	case NotificationMove:
		return entity.NotificationMove, nil
	}

	t, err := mastodon.DecodeNotificationType(native)
	if err != nil {
		return "", &megalodon.UnknownNotificationTypeError{Platform: megalodon.Pleroma, Type: native}
	}
	return t, nil
}

func EncodeNotificationType(t entity.NotificationType) (string, error) {
	switch t {
	case entity.NotificationEmojiReaction:
		return NotificationEmojiReaction, nil
	case entity.NotificationMove:
		return NotificationMove, nil
	}

	native, err := mastodon.EncodeNotificationType(t)
	if err != nil {
		return "", &megalodon.UnknownNotificationTypeError{Platform: megalodon.Pleroma, Type: string(t)}
	}
	return native, nil
}

func NotificationTypes() []string {
	return append(mastodon.NotificationTypes(), NotificationEmojiReaction, NotificationMove)
}
