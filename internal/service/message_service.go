package service

import (
	"context"
	"strings"
	"sync"

	"fsanano/storefront/internal/event"
	"fsanano/storefront/internal/model"
	"fsanano/storefront/internal/service/storeapi"
)

type MessageAPI interface {
	SendMessage(ctx context.Context, req storeapi.SendMessageRequest) error
	ListMessages(ctx context.Context) ([]model.Message, error)
	GetMessage(ctx context.Context, id int) (*model.Message, error)
	MarkMessageRead(ctx context.Context, id int) error
	DeleteMessage(ctx context.Context, id int) error
}

// MessageList is an inbox: the caller's own messages, or all messages for
// the admin list.
type MessageList struct {
	api       MessageAPI
	session   SessionReader
	adminOnly bool

	mu   sync.RWMutex
	rows []model.Message
}

func NewInbox(api MessageAPI, session SessionReader) *MessageList {
	return &MessageList{api: api, session: session}
}

func NewAdminMessages(api MessageAPI, session SessionReader) *MessageList {
	return &MessageList{api: api, session: session, adminOnly: true}
}

func (l *MessageList) Refresh(ctx context.Context) error {
	sess, ok := l.session.Current()
	if !ok || (l.adminOnly && !sess.IsAdmin()) {
		l.setRows(nil)
		return nil
	}
	msgs, err := l.api.ListMessages(ctx)
	if err != nil {
		return err
	}
	l.setRows(msgs)
	return nil
}

func (l *MessageList) Rows() []model.Message {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return clone(l.rows)
}

func (l *MessageList) setRows(rows []model.Message) {
	l.mu.Lock()
	l.rows = rows
	l.mu.Unlock()
}

// ReplyDraft pre-fills the admin reply form.
type ReplyDraft struct {
	ReceiverID int    `json:"receiver_id"`
	Subject    string `json:"subject"`
}

type MessageDetail struct {
	Message    model.Message `json:"message"`
	MarkedRead bool          `json:"marked_read"`
	Reply      *ReplyDraft   `json:"reply,omitempty"`
}

// MessagePortal holds the message actions shared by the inbox and the admin
// list.
type MessagePortal struct {
	api     MessageAPI
	session SessionReader
	bus     *event.Bus
}

func NewMessagePortal(api MessageAPI, session SessionReader, bus *event.Bus) *MessagePortal {
	return &MessagePortal{api: api, session: session, bus: bus}
}

// Open fetches a message. An unread message is marked read when the caller
// is its receiver or an admin, after which both lists fetch again.
func (p *MessagePortal) Open(ctx context.Context, id int) (*MessageDetail, error) {
	sess, ok := p.session.Current()
	if !ok {
		return nil, ErrNotLoggedIn
	}

	msg, err := p.api.GetMessage(ctx, id)
	if err != nil {
		return nil, err
	}
	detail := &MessageDetail{Message: *msg}

	if sess.IsAdmin() && msg.SenderID != sess.ID {
		subject := msg.Subject
		if subject == "" {
			subject = "Your Inquiry"
		}
		detail.Reply = &ReplyDraft{ReceiverID: msg.SenderID, Subject: "Re: " + subject}
	}

	if !msg.IsRead && (msg.AddressedTo(sess.ID) || sess.IsAdmin()) {
		if err := p.api.MarkMessageRead(ctx, id); err != nil {
			return nil, err
		}
		detail.MarkedRead = true
		_ = p.bus.Publish(ctx, event.MessagesChanged)
	}
	return detail, nil
}

// Compose sends a message. Regular users always write to the admin group
// (no receiver); admins must name a receiver.
func (p *MessagePortal) Compose(ctx context.Context, receiverID *int, subject, text string) error {
	sess, ok := p.session.Current()
	if !ok {
		return ErrNotLoggedIn
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}

	req := storeapi.SendMessageRequest{Subject: strings.TrimSpace(subject), MessageText: text}
	if sess.IsAdmin() {
		if receiverID == nil {
			return ErrMissingReceiver
		}
		id := *receiverID
		req.ReceiverID = &id
	}

	if err := p.api.SendMessage(ctx, req); err != nil {
		return err
	}
	_ = p.bus.Publish(ctx, event.MessagesChanged)
	return nil
}

func (p *MessagePortal) Reply(ctx context.Context, receiverID int, subject, text string) error {
	if err := requireAdmin(p.session); err != nil {
		return err
	}
	return p.Compose(ctx, &receiverID, subject, text)
}

func (p *MessagePortal) Delete(ctx context.Context, id int) error {
	if err := requireAdmin(p.session); err != nil {
		return err
	}
	if err := p.api.DeleteMessage(ctx, id); err != nil {
		return err
	}
	_ = p.bus.Publish(ctx, event.MessagesChanged)
	return nil
}

func requireAdmin(session SessionReader) error {
	sess, ok := session.Current()
	if !ok {
		return ErrNotLoggedIn
	}
	if !sess.IsAdmin() {
		return ErrNotAdmin
	}
	return nil
}
