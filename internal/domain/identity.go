package domain

// Identity is the authenticated principal resolved from a verified token.
type Identity struct {
	AccountID int64
	Email     string
}

// Owns reports whether the identity owns the given task item.
func (i Identity) Owns(item *TaskItem) bool {
	return item != nil && i.AccountID > 0 && item.AccountID == i.AccountID
}
