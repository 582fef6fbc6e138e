package tmpl

// Item is a unit of content: an identifier plus an opaque body value. Items
// are owned by the caller and passed through the evaluator unmodified.
type Item[B any] struct {
	ID   string
	Body B
}

// MakeItem constructs an item from an identifier and body.
func MakeItem[B any](id string, body B) Item[B] {
	return Item[B]{ID: id, Body: body}
}
