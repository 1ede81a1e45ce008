package models

// Choice is one button offered to the user. Token comes back verbatim in the
// payload of a choice event.
type Choice struct {
	Token string
	Label string
}
