package chain

// FirstOf runs attempts in order and returns the first present value.
func FirstOf[T any](attempts ...func() (T, bool)) (T, bool) {
	for _, attempt := range attempts {
		if v, ok := attempt(); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}
