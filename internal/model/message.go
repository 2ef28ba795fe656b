package model

// InboundMessage is one inbound webhook event from the messaging provider.
// Fields the provider omitted arrive as empty strings.
type InboundMessage struct {
	From string
	To   string
	Body string
}
