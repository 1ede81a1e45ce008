package dialogue

import (
	"context"

	"github.com/Belphemur/MediaFinder/internal/models"
)

// EventKind distinguishes free text from a pressed button.
type EventKind int

const (
	EventText EventKind = iota
	EventChoice
)

// String returns the string representation of the event kind
func (k EventKind) String() string {
	if k == EventChoice {
		return "choice"
	}
	return "text"
}

// Event is one inbound user action. For EventChoice the payload is the Token
// of one of the choices last presented.
type Event struct {
	UserID  int64
	Kind    EventKind
	Payload string
}

// TextEvent builds a free-text event.
func TextEvent(userID int64, text string) Event {
	return Event{UserID: userID, Kind: EventText, Payload: text}
}

// ChoiceEvent builds a button event.
func ChoiceEvent(userID int64, token string) Event {
	return Event{UserID: userID, Kind: EventChoice, Payload: token}
}

// Presenter renders replies on the transport. Each call reports its own
// outcome; a failed call never aborts unrelated deliveries.
type Presenter interface {
	PresentChoices(ctx context.Context, caption string, options []models.Choice) error
	PresentText(ctx context.Context, text string) error
	PresentImage(ctx context.Context, path, caption string) error
	PresentVideo(ctx context.Context, path, caption string) error
	PresentDocument(ctx context.Context, path, caption string) error
}
