package clock

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSim(t *testing.T) {
	c := NewSim()
	assert.Zero(t, c.Now())

	c.Advance(1.5)
	c.Advance(0.25)
	assert.InDelta(t, 1.75, c.Now(), 1e-9)

	c.Advance(-5)
	assert.InDelta(t, 1.75, c.Now(), 1e-9, "negative dt is ignored")

	c.Set(100)
	assert.InDelta(t, 100, c.Now(), 1e-9)
}
