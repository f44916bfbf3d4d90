package friendica

import (
	"megalodon/pkg/entity"
	"megalodon/pkg/megalodon"
)

// Friendica reports the Mastodon notification types it emulates.
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

var decodeTable = map[string]entity.NotificationType{
	NotificationFollow:        entity.NotificationFollow,
	NotificationFavourite:     entity.NotificationFavourite,
	NotificationReblog:        entity.NotificationReblog,
	NotificationMention:       entity.NotificationMention,
	NotificationFollowRequest: entity.NotificationFollowRequest,
	NotificationStatus:        entity.NotificationStatus,
	NotificationPoll:          entity.NotificationPollExpired,
	NotificationUpdate:        entity.NotificationUpdate,
}

var encodeTable = func() map[entity.NotificationType]string {
	out := make(map[entity.NotificationType]string, len(decodeTable))
	for native, unified := range decodeTable {
		out[unified] = native
	}
	return out
}()

func DecodeNotificationType(native string) (entity.NotificationType, error) {
	t, ok := decodeTable[native]
	if !ok {
		return "", &megalodon.UnknownNotificationTypeError{Platform: megalodon.Friendica, Type: native}
	}
	return t, nil
}

func EncodeNotificationType(t entity.NotificationType) (string, error) {
	native, ok := encodeTable[t]
	if !ok {
		return "", &megalodon.UnknownNotificationTypeError{Platform: megalodon.Friendica, Type: string(t)}
	}
	return native, nil
}
