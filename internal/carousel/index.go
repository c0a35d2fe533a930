package carousel

// NextIndex returns the index after current. An empty collection leaves the
// index unchanged; without loop the last index is sticky.
func NextIndex(current, length int, loop bool) int {
	if length == 0 {
		return current
	}
	if loop {
		return (current + 1) % length
	}
	return min(current+1, length-1)
}

// PreviousIndex returns the index before current. An empty collection leaves
// the index unchanged; without loop the first index is sticky.
func PreviousIndex(current, length int, loop bool) int {
	if length == 0 {
		return current
	}
	if loop {
		if current == 0 {
			return length - 1
		}
		return current - 1
	}
	return max(current-1, 0)
}

// HasNext reports whether NextIndex would move to a different item.
func HasNext(current, length int, loop bool) bool {
	if loop {
		return length > 1
	}
	return current < length-1
}

// HasPrevious reports whether PreviousIndex would move to a different item.
func HasPrevious(current, length int, loop bool) bool {
	if loop {
		return length > 1
	}
	return current > 0
}

// ClampIndex forces index into [0, length-1], or 0 for an empty collection.
func ClampIndex(index, length int) int {
	if length <= 0 || index < 0 {
		return 0
	}
	if index >= length {
		return length - 1
	}
	return index
}
