package model

import "time"

// Notification is a reminder held by the device notification center.
type Notification struct {
	// Handle is the identifier the notification center issued for this
	// reminder. It is used to cancel it.
	Handle string `json:"handle"`

	// Payload carries the ID of the departure the reminder belongs to.
	Payload string `json:"payload"`

	// Title is the short reminder heading.
	Title string `json:"title"`

	// Body is the human-readable reminder text.
	Body string `json:"body"`

	// FireAt is when the reminder is due to be delivered.
	FireAt time.Time `json:"fire_at"`

	// CreatedAt is when the reminder was scheduled.
	CreatedAt time.Time `json:"created_at"`
}
