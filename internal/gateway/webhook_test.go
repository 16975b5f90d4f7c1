package gateway

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captured struct {
	phone, text string
}

func post(t *testing.T, h *WebhookHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body))
	w := httptest.NewRecorder()
	h.HandleIncoming(w, req)
	return w
}

func TestHandleIncomingShapes(t *testing.T) {
	cases := []struct {
		name, body string
		want       captured
	}{
		{
			name: "type message with body object",
			body: `{"type":"message","from":"5511999999999@c.us","body":{"text":"oi"}}`,
			want: captured{"5511999999999", "oi"},
		},
		{
			name: "type message with string body",
			body: `{"type":"message","from":"5511999999999","body":"bom dia"}`,
			want: captured{"5511999999999", "bom dia"},
		},
		{
			name: "type message with message field",
			body: `{"type":"message","from":"+55 11 99999-9999","message":"oi"}`,
			want: captured{"5511999999999", "oi"},
		},
		{
			name: "type message with empty text",
			body: `{"type":"message","from":"5511999999999","body":{"text":""}}`,
			want: captured{"5511999999999", ""},
		},
		{
			name: "message object with body",
			body: `{"message":{"chatId":"5511999999999@c.us","type":"chat","body":"Fazer pedido"}}`,
			want: captured{"5511999999999", "Fazer pedido"},
		},
		{
			name: "message object with selected button text",
			body: `{"message":{"chatId":"5511999999999@c.us","type":"list_response","selectedButtonId":"pedido","selectedButtonText":"Fazer pedido"}}`,
			want: captured{"5511999999999", "Fazer pedido"},
		},
		{
			name: "message object with only button id",
			body: `{"message":{"chatId":"5511999999999","type":"list_response","selectedButtonId":"pedido"}}`,
			want: captured{"5511999999999", "pedido"},
		},
		{
			name: "sender and message",
			body: `{"sender":"5511999999999","message":"Voltar"}`,
			want: captured{"5511999999999", "Voltar"},
		},
		{
			name: "legacy phone and text",
			body: `{"phone":"5511999999999","text":"oi"}`,
			want: captured{"5511999999999", "oi"},
		},
		{
			name: "legacy with empty text",
			body: `{"phone":"5511999999999","text":""}`,
			want: captured{"5511999999999", ""},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got []captured
			h := NewWebhookHandler(func(phone, text string) {
				got = append(got, captured{phone, text})
			})

			w := post(t, h, tc.body)

			assert.Equal(t, http.StatusOK, w.Code)
			require.Len(t, got, 1)
			assert.Equal(t, tc.want, got[0])
		})
	}
}

func TestHandleIncomingIgnoresUnrecognized(t *testing.T) {
	cases := []struct{ name, body string }{
		{"empty object", `{}`},
		{"status update", `{"type":"status","id":"abc","status":"delivered"}`},
		{"no digits in phone", `{"phone":"@c.us","text":"oi"}`},
		{"not json", `not json at all`},
		{"array", `[1,2,3]`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			called := false
			h := NewWebhookHandler(func(phone, text string) { called = true })

			w := post(t, h, tc.body)

			// Ignorable payloads are still acknowledged with 200.
			assert.Equal(t, http.StatusOK, w.Code)
			assert.False(t, called)
		})
	}
}
