package handler

import (
	"net/http"

	"fsanano/storefront/internal/service"
)

func (h *Handler) listMessages(list *service.MessageList) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := h.sf.Session.Current(); !ok {
			h.fail(w, r, service.ErrNotLoggedIn)
			return
		}
		if err := list.Refresh(r.Context()); err != nil {
			h.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, list.Rows())
	}
}

func (h *Handler) ListInbox(w http.ResponseWriter, r *http.Request) {
	h.listMessages(h.sf.Inbox)(w, r)
}

func (h *Handler) AdminListMessages(w http.ResponseWriter, r *http.Request) {
	h.listMessages(h.sf.AdminMessages)(w, r)
}

func (h *Handler) OpenMessage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	detail, err := h.sf.Messages.Open(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

type SendMessageRequest struct {
	ReceiverID  *int   `json:"receiver_id"`
	Subject     string `json:"subject"`
	MessageText string `json:"message_text"`
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var req SendMessageRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.sf.Messages.Compose(r.Context(), req.ReceiverID, req.Subject, req.MessageText); err != nil {
		h.fail(w, r, err)
		return
	}
	h.toaster.Info("Message sent!")
	w.WriteHeader(http.StatusCreated)
}

type ReplyRequest struct {
	Subject     string `json:"subject"`
	MessageText string `json:"message_text"`
}

// ReplyMessage answers the sender of message {id}. The subject defaults to
// the reply draft built when the message is opened.
func (h *Handler) ReplyMessage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req ReplyRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	detail, err := h.sf.Messages.Open(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if detail.Reply == nil {
		h.fail(w, r, service.ErrMissingReceiver)
		return
	}
	subject := req.Subject
	if subject == "" {
		subject = detail.Reply.Subject
	}

	if err := h.sf.Messages.Reply(r.Context(), detail.Reply.ReceiverID, subject, req.MessageText); err != nil {
		h.fail(w, r, err)
		return
	}
	h.toaster.Info("Reply sent!")
	w.WriteHeader(http.StatusCreated)
}

func (h *Handler) AdminDeleteMessage(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.sf.Messages.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.toaster.Info("Message deleted")
	writeJSON(w, http.StatusOK, h.sf.AdminMessages.Rows())
}
