package model

// All lists every persisted model in migration order.
func All() []any {
	return []any{&Tag{}, &URL{}, &Admin{}, &ClickEvent{}}
}
