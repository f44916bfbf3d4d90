package mastodon

import (
	"megalodon/pkg/entity"
	"megalodon/pkg/megalodon"
)

// NotificationDecoder maps a native notification type onto the unified vocabulary.
type NotificationDecoder func(native string) (entity.NotificationType, error)

// Native notification types.
const (
	NotificationFollow        = "follow"
	NotificationFavourite     = "favourite"
	NotificationReblog        = "reblog"
	NotificationMention       = "mention"
	NotificationFollowRequest = "follow_request"
	NotificationStatus        = "status"
	NotificationPoll          = "poll"
	NotificationUpdate        = "update"
)

func DecodeNotificationType(native string) (entity.NotificationType, error) {
	switch native {
	case NotificationFollow:
		return entity.NotificationFollow, nil
	case NotificationFavourite:
		return entity.NotificationFavourite, nil
	case NotificationReblog:
		return entity.NotificationReblog, nil
	case NotificationMention:
		return entity.NotificationMention, nil
	case NotificationFollowRequest:
		return entity.NotificationFollowRequest, nil
	case NotificationStatus:
		return entity.NotificationStatus, nil
	case NotificationPoll:
		return entity.NotificationPollExpired, nil
	case NotificationUpdate:
		return entity.NotificationUpdate, nil
	default:
		return "", &megalodon.UnknownNotificationTypeError{Platform: megalodon.Mastodon, Type: native}
	}
}

func EncodeNotificationType(t entity.NotificationType) (string, error) {
	switch t {
	case entity.NotificationFollow:
		return NotificationFollow, nil
	case entity.NotificationFavourite:
		return NotificationFavourite, nil
	case entity.NotificationReblog:
		return NotificationReblog, nil
	case entity.NotificationMention:
		return NotificationMention, nil
	case entity.NotificationFollowRequest:
		return NotificationFollowRequest, nil
	case entity.NotificationStatus:
		return NotificationStatus, nil
	case entity.NotificationPollExpired:
		return NotificationPoll, nil
	case entity.NotificationUpdate:
		return NotificationUpdate, nil
	default:
		return "", &megalodon.UnknownNotificationTypeError{Platform: megalodon.Mastodon, Type: string(t)}
	}
}

// NotificationTypes lists the native tokens DecodeNotificationType understands.
func NotificationTypes() []string {
	return []string{
		NotificationFollow,
		NotificationFavourite,
		NotificationReblog,
		NotificationMention,
		NotificationFollowRequest,
		NotificationStatus,
		NotificationPoll,
		NotificationUpdate,
	}
}
