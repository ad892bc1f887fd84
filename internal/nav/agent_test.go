package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/zsurvive/internal/model"
	"github.com/udisondev/zsurvive/internal/world"
)

func newBody(pos model.Vec3) *model.Enemy {
	return model.NewEnemy(1, model.EnemySpec{MaxHealth: 10}, pos)
}

func TestAgent_MovesAndArrives(t *testing.T) {
	body := newBody(model.Vec3{})
	a := NewAgent(body, nil, 2)

	assert.True(t, a.HasArrived(), "idle agent counts as arrived")
	assert.False(t, a.HasPath())

	a.RequestMoveTo(model.V(10, 0, 0))
	require.True(t, a.HasPath())
	assert.False(t, a.HasArrived())

	a.Step(1)
	assert.InDelta(t, 2, body.Position().X, 1e-9)
	assert.InDelta(t, 2, a.Velocity().Len(), 1e-9)
	assert.InDelta(t, 1, body.Forward().X, 1e-9, "body faces movement direction")
	assert.InDelta(t, 8, a.RemainingDistance(), 1e-9)

	for range 4 {
		a.Step(1)
	}
	assert.True(t, a.HasArrived())
	assert.False(t, a.HasPath(), "reaching the destination clears the path")
	assert.Equal(t, model.V(10, 0, 0), body.Position())

	a.Step(1)
	assert.True(t, a.Velocity().IsZero())
}

func TestAgent_Stop(t *testing.T) {
	body := newBody(model.Vec3{})
	a := NewAgent(body, nil, 5)

	a.RequestMoveTo(model.V(0, 0, 50))
	a.Step(0.5)
	a.Stop()
	a.Step(1)

	assert.InDelta(t, 2.5, body.Position().Z, 1e-9)
	assert.False(t, a.HasPath())
	assert.True(t, a.Velocity().IsZero())
}

func TestAgent_GroundAgentKeepsAltitude(t *testing.T) {
	body := newBody(model.V(0, 0, 0))
	a := NewAgent(body, nil, 100)

	a.RequestMoveTo(model.V(3, 7, 4))
	assert.Equal(t, model.V(3, 0, 4), a.Destination())
}

func TestAgent_HoverClampedToBounds(t *testing.T) {
	w := world.New(model.V(-10, -5, -10), model.V(10, 20, 10), 4, nil)
	body := newBody(model.V(0, 6, 0))
	a := NewAgent(body, w, 100)
	a.SetHoverHeight(6)

	a.RequestMoveTo(model.V(50, 0, -3))
	assert.Equal(t, model.V(10, 6, -3), a.Destination())

	a.Step(1)
	assert.Equal(t, model.V(10, 6, -3), body.Position())
}

func TestAgent_StoppingDistance(t *testing.T) {
	body := newBody(model.Vec3{})
	a := NewAgent(body, nil, 1)
	a.SetStoppingDistance(1)

	a.RequestMoveTo(model.V(1.5, 0, 0))
	assert.False(t, a.HasArrived())

	a.Step(0.6)
	assert.True(t, a.HasArrived())
	assert.False(t, a.HasPath())
}

func TestAgent_FaceToward(t *testing.T) {
	body := newBody(model.Vec3{})
	a := NewAgent(body, nil, 1)

	a.FaceToward(model.V(0, 10, -5))
	assert.Equal(t, model.V(0, 0, -1), body.Forward())

	// target straight above: forward unchanged
	a.FaceToward(model.V(0, 3, 0))
	assert.Equal(t, model.V(0, 0, -1), body.Forward())
}
