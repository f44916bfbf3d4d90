package misskey

import (
	"megalodon/pkg/entity"
	"megalodon/pkg/megalodon"
)

// Native notification types.
const (
	NotificationFollow                = "follow"
	NotificationFollowRequestAccepted = "followRequestAccepted"
	NotificationRenote                = "renote"
	NotificationQuote                 = "quote"
	NotificationMention               = "mention"
	NotificationReply                 = "reply"
	NotificationReaction              = "reaction"
	NotificationReceiveFollowRequest  = "receiveFollowRequest"
	NotificationPollVote              = "pollVote"
	NotificationPollEnded             = "pollEnded"
)

func DecodeNotificationType(native string) (entity.NotificationType, error) {
	switch native {
	case NotificationFollow, NotificationFollowRequestAccepted:
		return entity.NotificationFollow, nil
	case NotificationRenote, NotificationQuote:
		return entity.NotificationReblog, nil
	case NotificationMention, NotificationReply:
		return entity.NotificationMention, nil
	case NotificationReaction:
		return entity.NotificationEmojiReaction, nil
	case NotificationReceiveFollowRequest:
		return entity.NotificationFollowRequest, nil
	case NotificationPollVote:
		return entity.NotificationPollVote, nil
	case NotificationPollEnded:
		return entity.NotificationPollExpired, nil
	default:
		return "", &megalodon.UnknownNotificationTypeError{Platform: megalodon.Misskey, Type: native}
	}
}

func EncodeNotificationType(t entity.NotificationType) (string, error) {
	switch t {
	case entity.NotificationFollow:
		return NotificationFollow, nil
	case entity.NotificationReblog:
		return NotificationRenote, nil
	case entity.NotificationMention:
		return NotificationMention, nil
	case entity.NotificationEmojiReaction:
		return NotificationReaction, nil
	case entity.NotificationFollowRequest:
		return NotificationReceiveFollowRequest, nil
	case entity.NotificationPollVote:
		return NotificationPollVote, nil
	case entity.NotificationPollExpired:
		return NotificationPollEnded, nil
	default:
		return "", &megalodon.UnknownNotificationTypeError{Platform: megalodon.Misskey, Type: string(t)}
	}
}

// NotificationTypes lists the native tokens DecodeNotificationType understands.
func NotificationTypes() []string {
	return []string{
		NotificationFollow,
		NotificationFollowRequestAccepted,
		NotificationRenote,
		NotificationQuote,
		NotificationMention,
		NotificationReply,
		NotificationReaction,
		NotificationReceiveFollowRequest,
		NotificationPollVote,
		NotificationPollEnded,
	}
}
