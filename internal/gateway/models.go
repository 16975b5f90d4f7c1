package gateway

import "encoding/json"

// --- Outgoing send payloads ---
// The wpp-store API takes the instance and token on the URL path and
// plain JSON bodies per message kind.

type sendTextRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// Option is one selectable row of an interactive option list.
type Option struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type sendOptionListRequest struct {
	Phone      string     `json:"phone"`
	OptionList optionList `json:"optionList"`
}

type optionList struct {
	Title       string   `json:"title"`
	ButtonLabel string   `json:"buttonLabel"`
	Options     []Option `json:"options"`
}

// --- Incoming webhook payload ---
// The gateway has shipped several webhook formats over time and forwards
// whichever one the connected instance produces, so a single permissive
// envelope covers all of them. Fields that can be either a string or an
// object stay raw until normalization.
type inboundEnvelope struct {
	Type    string          `json:"type"`
	From    string          `json:"from"`
	Body    json.RawMessage `json:"body"`
	Message json.RawMessage `json:"message"`
	Sender  string          `json:"sender"`
	Phone   string          `json:"phone"`
	Text    *string         `json:"text"`
}

// bodyContent is the object form of the "body" field in type:"message" payloads.
type bodyContent struct {
	Text string `json:"text"`
}

// messageContent is the object form of the "message" field.
type messageContent struct {
	ChatID             string `json:"chatId"`
	Type               string `json:"type"`
	Body               string `json:"body"`
	SelectedButtonID   string `json:"selectedButtonId"`
	SelectedButtonText string `json:"selectedButtonText"`
}
