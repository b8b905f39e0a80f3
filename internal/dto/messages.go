package dto

const (
	CollectionEvents        = "events"
	CollectionRegistrations = "registrations"
)

// Notice tells other consoles that a collection changed on the backend.
type Notice struct {
	Collection string `json:"collection"`
	EventID    int    `json:"event_id,omitempty"`
	Origin     string `json:"origin,omitempty"`
}
