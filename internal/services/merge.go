package services

import "promptforge/internal/models"

// messageBefore is the canonical ordering of messages inside a
// conversation: creation time ascending, id as the tiebreak so equal
// timestamps still order deterministically.
func messageBefore(a, b models.Message) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

// mergeMessage reconciles one message into an ordered list, deduplicating
// by identity. It is the single merge rule shared by the optimistic local
// write and the push channel: because it is idempotent and commutative,
// any interleaving of the two paths yields the same list.
//
// The returned bool reports whether the list changed.
func mergeMessage(list []models.Message, msg models.Message) ([]models.Message, bool) {
	for _, existing := range list {
		if existing.ID == msg.ID {
			return list, false
		}
	}

	at := len(list)
	for i := range list {
		if messageBefore(msg, list[i]) {
			at = i
			break
		}
	}

	merged := make([]models.Message, 0, len(list)+1)
	merged = append(merged, list[:at]...)
	merged = append(merged, msg)
	merged = append(merged, list[at:]...)
	return merged, true
}
