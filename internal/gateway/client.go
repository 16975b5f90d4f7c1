package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

// Client talks to the wpp-store messaging API on behalf of one instance.
type Client struct {
	baseURL  string
	instance string
	token    string
	http     *http.Client
}

func NewClient(baseURL, instance, token string) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		instance: instance,
		token:    token,
		http:     &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *Client) SendText(phone, message string) error {
	return c.post("send-text", sendTextRequest{Phone: phone, Message: message})
}

// SendOptionList sends an interactive list. When the structured call fails
// (older instances reject it), it falls back to a plain enumerated text so
// the customer still sees the choices.
func (c *Client) SendOptionList(phone, prompt string, options []Option) error {
	req := sendOptionListRequest{
		Phone: phone,
		OptionList: optionList{
			Title:       prompt,
			ButtonLabel: "Escolher",
			Options:     options,
		},
	}
	err := c.post("send-option-list", req)
	if err == nil {
		return nil
	}
	log.Printf("gateway: option list to %s failed, falling back to text: %v", phone, err)

	var b strings.Builder
	b.WriteString(prompt)
	b.WriteString("\n")
	for i, opt := range options {
		fmt.Fprintf(&b, "\n%d. %s", i+1, opt.Title)
	}
	return c.SendText(phone, b.String())
}

func (c *Client) post(endpoint string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling %s payload: %w", endpoint, err)
	}

	url := fmt.Sprintf("%s/instances/%s/token/%s/%s", c.baseURL, c.instance, c.token, endpoint)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("posting %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("gateway %s status %d: %s", endpoint, resp.StatusCode, respBody)
	}
	return nil
}
