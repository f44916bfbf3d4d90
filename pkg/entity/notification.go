package entity

import "time"

type NotificationType string

const (
	NotificationFollow        NotificationType = "follow"
	NotificationFavourite     NotificationType = "favourite"
	NotificationReblog        NotificationType = "reblog"
	NotificationMention       NotificationType = "mention"
	NotificationEmojiReaction NotificationType = "emoji_reaction"
	NotificationFollowRequest NotificationType = "follow_request"
	NotificationStatus        NotificationType = "status"
	NotificationPollVote      NotificationType = "poll_vote"
	NotificationPollExpired   NotificationType = "poll_expired"
	NotificationUpdate        NotificationType = "update"
	NotificationMove          NotificationType = "move"
)

// NotificationTypes lists the closed set of unified notification types.
func NotificationTypes() []NotificationType {
	return []NotificationType{
		NotificationFollow,
		NotificationFavourite,
		NotificationReblog,
		NotificationMention,
		NotificationEmojiReaction,
		NotificationFollowRequest,
		NotificationStatus,
		NotificationPollVote,
		NotificationPollExpired,
		NotificationUpdate,
		NotificationMove,
	}
}

type Notification struct {
	ID        string           `json:"id"`
	Type      NotificationType `json:"type"`
	CreatedAt time.Time        `json:"created_at"`
	Account   *Account         `json:"account"`
	Status    *Status          `json:"status,omitempty"`
	Reaction  *Reaction        `json:"reaction,omitempty"`
	Target    *Account         `json:"target,omitempty"`
}
