package model

import "time"

// Message is a user-to-admin (ReceiverID nil) or admin-to-user message.
type Message struct {
	ID               int       `json:"id"`
	SenderID         int       `json:"sender_id"`
	SenderUsername   string    `json:"sender_username,omitempty"`
	ReceiverID       *int      `json:"receiver_id"`
	ReceiverUsername string    `json:"receiver_username,omitempty"`
	Subject          string    `json:"subject"`
	MessageText      string    `json:"message_text"`
	SentAt           time.Time `json:"sent_at"`
	IsRead           bool      `json:"is_read"`
}

// AddressedTo reports whether userID is the explicit receiver.
func (m Message) AddressedTo(userID int) bool {
	return m.ReceiverID != nil && *m.ReceiverID == userID
}
