package reorder

// Commit returns seq with the element at source moved to target.
//
// The element is removed first and then inserted at target, clamped to the
// shortened length. Because target is resolved against the layout the user
// sees with the source slot vacated, one code path serves both directions.
// seq is never modified. When source == target, or source is out of range,
// seq itself is returned.
func Commit[T any](seq []T, source, target int) []T {
	if source < 0 || source >= len(seq) || source == target {
		return seq
	}

	moved := seq[source]
	out := make([]T, 0, len(seq))
	out = append(out, seq[:source]...)
	out = append(out, seq[source+1:]...)

	target = clamp(target, 0, len(out))
	out = append(out, moved) // grow by one, then shift the tail right
	copy(out[target+1:], out[target:len(out)-1])
	out[target] = moved
	return out
}
