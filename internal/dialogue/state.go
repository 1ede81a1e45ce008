package dialogue

// State is the position of a session in the conversation.
type State int

const (
	StateIdle State = iota
	StateAwaitingTypeChoice
	StateAwaitingQueryName
	StateAwaitingResultChoice
	StateAwaitingDeliveryPolicy
	StateAwaitingInstagramURL
)

// String returns the metric label of the state
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAwaitingTypeChoice:
		return "awaiting_type_choice"
	case StateAwaitingQueryName:
		return "awaiting_query_name"
	case StateAwaitingResultChoice:
		return "awaiting_result_choice"
	case StateAwaitingDeliveryPolicy:
		return "awaiting_delivery_policy"
	case StateAwaitingInstagramURL:
		return "awaiting_instagram_url"
	default:
		return "unknown"
	}
}

// AwaitsChoice reports whether the state is answered by picking a presented
// option rather than by free text.
func (s State) AwaitsChoice() bool {
	switch s {
	case StateAwaitingTypeChoice, StateAwaitingResultChoice, StateAwaitingDeliveryPolicy:
		return true
	default:
		return false
	}
}
