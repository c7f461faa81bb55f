package pubsub

import "cloud.google.com/go/pubsub"

type client struct {
	client *pubsub.Client
}

// EventType represents the type of event/message sent via pubsub.
// It doubles as the topic name.
type EventType string

const (
	EventMatchCompleted EventType = "match-completed"
)

// PushRequest is the envelope Pub/Sub push subscriptions POST to the service.
type PushRequest struct {
	Message struct {
		Data       []byte            `json:"data"`
		MessageID  string            `json:"messageId"`
		Attributes map[string]string `json:"attributes"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}
