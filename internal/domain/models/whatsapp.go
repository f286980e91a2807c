package models

// WebhookPayload mirrors the Meta WhatsApp Cloud API webhook callback body,
// trimmed to the fields the bot consumes.
type WebhookPayload struct {
	Object string         `json:"object"`
	Entry  []WebhookEntry `json:"entry"`
}

// WebhookEntry is one notification entry inside the callback.
type WebhookEntry struct {
	ID      string          `json:"id"`
	Changes []WebhookChange `json:"changes"`
}

// WebhookChange wraps the notification value.
type WebhookChange struct {
	Field string       `json:"field"`
	Value WebhookValue `json:"value"`
}

// WebhookValue carries the inbound messages and the business phone metadata.
type WebhookValue struct {
	MessagingProduct string           `json:"messaging_product"`
	Metadata         WebhookMetadata  `json:"metadata"`
	Messages         []InboundMessage `json:"messages"`
}

// WebhookMetadata identifies the business phone number receiving the event.
type WebhookMetadata struct {
	DisplayPhoneNumber string `json:"display_phone_number"`
	PhoneNumberID      string `json:"phone_number_id"`
}

// InboundMessage is one user message; only text and interactive replies are
// interpreted as commands.
type InboundMessage struct {
	From        string              `json:"from"`
	ID          string              `json:"id"`
	Timestamp   string              `json:"timestamp"`
	Type        string              `json:"type"`
	Text        *TextContent        `json:"text,omitempty"`
	Interactive *InteractiveContent `json:"interactive,omitempty"`
}

// TextContent holds the text message body.
type TextContent struct {
	Body string `json:"body"`
}

// InteractiveContent holds button or list reply payloads.
type InteractiveContent struct {
	Type        string          `json:"type"`
	ButtonReply *InteractiveRef `json:"button_reply,omitempty"`
	ListReply   *InteractiveRef `json:"list_reply,omitempty"`
}

// InteractiveRef identifies the selected button or list item.
type InteractiveRef struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// OutboundMessageRequest is the body of the manual send endpoint.
type OutboundMessageRequest struct {
	To         string `json:"to" binding:"required"`
	Message    string `json:"message" binding:"required"`
	PreviewURL bool   `json:"preview_url"`
}
