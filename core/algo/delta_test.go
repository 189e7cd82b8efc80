package algo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClampedDelta(t *testing.T) {
	assert.Equal(t, int64(13), ClampedDelta(7, 20))
	assert.Equal(t, int64(0), ClampedDelta(10, 10))
	assert.Equal(t, int64(0), ClampedDelta(10, 7), "counter reset is clamped")
	assert.Equal(t, int64(5), ClampedDelta(0, 5))
}
