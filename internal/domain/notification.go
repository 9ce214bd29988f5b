package domain

import "errors"

// Item kinds a notification can point at. ItemKindMessage is the chat kind:
// its item id is the message id, which is what MarkReadForItems matches on.
const (
	ItemKindDonation = "donation"
	ItemKindEvent    = "event"
	ItemKindInNeed   = "inNeed"
	ItemKindPayment  = "payment"
	ItemKindComment  = "comment"
	ItemKindGeneral  = "general"
	ItemKindMessage  = "message"
)

var (
	ErrInvalidItemKind = errors.New("invalid item kind")
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("forbidden")
	ErrEmptyContent    = errors.New("empty content")
)

func IsValidItemKind(value string) bool {
	switch value {
	case ItemKindDonation, ItemKindEvent, ItemKindInNeed,
		ItemKindPayment, ItemKindComment, ItemKindGeneral, ItemKindMessage:
		return true
	default:
		return false
	}
}
