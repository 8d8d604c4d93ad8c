package taste

import (
	"fmt"
	"time"

	"github.com/atelier-cloud/curator/internal/domain"
)

// InteractionType labels one kind of collector action.
type InteractionType string

const (
	InteractionView     InteractionType = "view"
	InteractionLike     InteractionType = "like"
	InteractionShare    InteractionType = "share"
	InteractionSave     InteractionType = "save"
	InteractionInquiry  InteractionType = "inquiry"
	InteractionPurchase InteractionType = "purchase"
	InteractionReject   InteractionType = "reject"
)

// Interaction is one append-only collector event. Immutable once stored.
type Interaction struct {
	ID         string            `json:"id"`
	UserID     string            `json:"user_id"`
	Type       InteractionType   `json:"type"`
	TargetType string            `json:"target_type"`
	TargetID   string            `json:"target_id"`
	Timestamp  time.Time         `json:"timestamp"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// Validate checks the event is well-formed enough to feed the taste model.
func (i Interaction) Validate() error {
	if i.UserID == "" {
		return fmt.Errorf("%w: user_id is required", domain.ErrInvalidInteraction)
	}
	if i.TargetID == "" {
		return fmt.Errorf("%w: target_id is required", domain.ErrInvalidInteraction)
	}
	switch i.Type {
	case InteractionView, InteractionLike, InteractionShare, InteractionSave,
		InteractionInquiry, InteractionPurchase, InteractionReject:
		return nil
	default:
		return fmt.Errorf("%w: unknown interaction type %q", domain.ErrInvalidInteraction, i.Type)
	}
}

// EvolutionEvent records one detected taste shift. Appended by shift
// detection, never edited retroactively.
type EvolutionEvent struct {
	Timestamp      time.Time `json:"timestamp"`
	PreferenceType string    `json:"preference_type"` // medium, style, color, price
	OldValue       string    `json:"old_value"`
	NewValue       string    `json:"new_value"`
	Confidence     float64   `json:"confidence"`
	TriggerEvent   string    `json:"trigger_event"`
}
