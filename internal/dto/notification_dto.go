package dto

import (
	"time"

	"github.com/google/uuid"
)

// OutboundNotificationMessage is the payload enqueued on the in-process
// notification queue. Delivery is best effort and never blocks the request
// that produced it.
type OutboundNotificationMessage struct {
	RecipientUserId uuid.UUID              `json:"recipient_user_id"`
	TypeCode        string                 `json:"type_code"`
	Title           string                 `json:"title"`
	Message         string                 `json:"message"`
	EntityType      string                 `json:"entity_type,omitempty"`
	EntityId        *uuid.UUID             `json:"entity_id,omitempty"`
	Metadata        map[string]interface{} `json:"metadata,omitempty"`
	EmailTo         string                 `json:"email_to,omitempty"`
}

type NotificationResponse struct {
	Id        uuid.UUID `json:"id"`
	TypeCode  string    `json:"type_code"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []*NotificationResponse `json:"notifications"`
	Total         int64                   `json:"total"`
	UnreadCount   int64                   `json:"unread_count"`
}
