package domain

import "time"

// Configuration change actions broadcast over the event stream.
const (
	ActionCreated = "created"
	ActionUpdated = "updated"
	ActionDeleted = "deleted"
)

// ConfigurationEvent notifies watchers that a stored configuration changed.
// The payload itself is never included; watchers re-fetch through the API.
type ConfigurationEvent struct {
	ID     string    `json:"id"`
	Action string    `json:"action"`
	At     time.Time `json:"at"`
}

// EventBroadcaster publishes change events to whoever is watching.
type EventBroadcaster interface {
	Broadcast(ev ConfigurationEvent)
}

// ConfigurationStream hands out per-configuration event channels for the
// websocket layer.
type ConfigurationStream interface {
	Subscribe(id string) chan ConfigurationEvent
	Unsubscribe(id string, ch chan ConfigurationEvent)
}
