package gateway

import (
	"encoding/json"
	"log"
	"net/http"
)

// MessageHandler is called with the normalized sender phone (digits only)
// and the message text, which may be empty.
type MessageHandler func(phone, text string)

type WebhookHandler struct {
	onMessage MessageHandler
}

func NewWebhookHandler(onMessage MessageHandler) *WebhookHandler {
	return &WebhookHandler{onMessage: onMessage}
}

// HandleIncoming processes inbound webhook POSTs. The gateway retries on
// non-2xx responses, so anything short of an internal panic answers 200 —
// including payload shapes we do not recognize.
func (h *WebhookHandler) HandleIncoming(w http.ResponseWriter, r *http.Request) {
	var env inboundEnvelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		log.Printf("webhook: failed to decode payload: %v", err)
		w.WriteHeader(http.StatusOK)
		return
	}

	phone, text, ok := normalize(env)
	if !ok {
		log.Printf("webhook: ignoring unrecognized payload shape")
		w.WriteHeader(http.StatusOK)
		return
	}

	h.onMessage(phone, text)
	w.WriteHeader(http.StatusOK)
}

// normalize maps any of the webhook formats the gateway emits onto
// (digits-only phone, text). Formats, newest first:
//
//	{message: {chatId, type, body|selectedButtonId|selectedButtonText}}
//	{type: "message", from, body: {text}|message}
//	{sender, message}
//	{phone, text}            (legacy instances)
func normalize(env inboundEnvelope) (phone, text string, ok bool) {
	if len(env.Message) > 0 && env.Message[0] == '{' {
		var msg messageContent
		if err := json.Unmarshal(env.Message, &msg); err == nil && msg.ChatID != "" {
			switch {
			case msg.Body != "":
				text = msg.Body
			case msg.SelectedButtonText != "":
				text = msg.SelectedButtonText
			default:
				text = msg.SelectedButtonID
			}
			return normalized(msg.ChatID, text)
		}
	}

	if env.Type == "message" && env.From != "" {
		if len(env.Body) > 0 && env.Body[0] == '{' {
			var body bodyContent
			if err := json.Unmarshal(env.Body, &body); err == nil {
				return normalized(env.From, body.Text)
			}
		}
		var s string
		if len(env.Body) > 0 && json.Unmarshal(env.Body, &s) == nil && s != "" {
			return normalized(env.From, s)
		}
		if len(env.Message) > 0 && json.Unmarshal(env.Message, &s) == nil {
			return normalized(env.From, s)
		}
		return normalized(env.From, "")
	}

	if env.Sender != "" && len(env.Message) > 0 {
		var s string
		if json.Unmarshal(env.Message, &s) == nil {
			return normalized(env.Sender, s)
		}
	}

	if env.Phone != "" && env.Text != nil {
		return normalized(env.Phone, *env.Text)
	}

	return "", "", false
}

// normalized strips JID suffixes like @c.us along with any other
// non-digit characters. A phone with no digits is not a usable sender.
func normalized(rawPhone, text string) (string, string, bool) {
	p := digitsOnly(rawPhone)
	if p == "" {
		return "", "", false
	}
	return p, text, true
}

func digitsOnly(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			out = append(out, s[i])
		}
	}
	return string(out)
}
