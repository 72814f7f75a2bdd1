package listing

// Item is anything a list can hold. Two items are the same iff their
// identifiers match, regardless of the other fields.
type Item interface {
	Identifier() int
}

// Same reports whether a and b refer to the same item.
func Same[T Item](a, b T) bool {
	return a.Identifier() == b.Identifier()
}

// SameItems reports whether a and b hold the same items in the same order.
func SameItems[T Item](a, b []T) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Same(a[i], b[i]) {
			return false
		}
	}
	return true
}
