package srcom

import (
	"context"
	"fmt"
	"time"
)

// NotificationStatus tells whether a notification has been read.
type NotificationStatus string

const (
	NotificationRead   NotificationStatus = "read"
	NotificationUnread NotificationStatus = "unread"
)

// NotificationType is the kind of element a notification is about.
type NotificationType string

const (
	NotificationTypePost      NotificationType = "post"
	NotificationTypeRun       NotificationType = "run"
	NotificationTypeGame      NotificationType = "game"
	NotificationTypeGuide     NotificationType = "guide"
	NotificationTypeThread    NotificationType = "thread"
	NotificationTypeResource  NotificationType = "resource"
	NotificationTypeModerator NotificationType = "moderator"
)

// Notification is a message to the authenticated user.
type Notification struct {
	ID      string             `json:"id"                yaml:"id"`
	Created *time.Time         `json:"created,omitempty" yaml:"created,omitempty"`
	Status  NotificationStatus `json:"status"            yaml:"status"`
	Text    string             `json:"text"              yaml:"text"`
	Type    NotificationType   `json:"type"              yaml:"type"`
	WebLink string             `json:"weblink"           yaml:"weblink"`
	RunID   string             `json:"run_id,omitempty"  yaml:"run_id,omitempty"`
	GameID  string             `json:"game_id,omitempty" yaml:"game_id,omitempty"`

	run  *Deferred[*Run]
	game *Deferred[*Game]
}

// ParseNotification parses a notification element.
func ParseNotification(c Client, element Node) (*Notification, error) {
	id, err := element.Str("id")
	if err != nil {
		return nil, err
	}

	notification := &Notification{
		ID:      id,
		Created: element.OptTime("created"),
		Status:  NotificationStatus(element.OptStr("status")),
		Text:    element.OptStr("text"),
		Type:    NotificationType(element.Get("item").OptStr("rel")),
		WebLink: element.Get("item").OptStr("uri"),
	}

	switch notification.Status {
	case NotificationRead, NotificationUnread:
	default:
		return nil, fmt.Errorf("%w: notification status %q", ErrUnknownEnumValue, notification.Status)
	}

	if uri, ok := findLink(element, "run"); ok {
		notification.RunID = linkID(uri)
		notification.run = Defer(func(ctx context.Context) (*Run, error) {
			return c.Runs().Get(ctx, notification.RunID, nil)
		})
	} else {
		notification.run = Absent[*Run]()
	}

	if uri, ok := findLink(element, "game"); ok {
		notification.GameID = linkID(uri)
		notification.game = Defer(func(ctx context.Context) (*Game, error) {
			return c.Games().Get(ctx, notification.GameID, nil)
		})
	} else {
		notification.game = Absent[*Game]()
	}

	return notification, nil
}

// Run returns the run the notification is about, or nil.
func (n *Notification) Run(ctx context.Context) (*Run, error) {
	return n.run.Get(ctx)
}

// Game returns the game the notification is about, or nil.
func (n *Notification) Game(ctx context.Context) (*Game, error) {
	return n.game.Get(ctx)
}

// IsRead reports whether the notification has been read.
func (n *Notification) IsRead() bool {
	return n.Status == NotificationRead
}

// Key implements Keyed.
func (n *Notification) Key() string {
	return n.ID
}
