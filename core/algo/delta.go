package algo

// ClampedDelta returns cur - prev, or 0 when the counter went backwards.
func ClampedDelta(prev, cur int64) int64 {
	if cur < prev {
		return 0
	}
	return cur - prev
}
