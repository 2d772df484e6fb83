package simulation

import (
	"fmt"
	"robot-sim/internal/common"

	"github.com/google/uuid"
)

// Obstacle is a static axis-aligned rectangle. Only the editing layer moves
// or resizes it, through SetHitbox.
type Obstacle struct {
	id      string
	hitbox  common.Rect
	grabbed bool
}

// NewObstacle creates a new obstacle covering hitbox.
func NewObstacle(hitbox common.Rect) *Obstacle {
	return &Obstacle{
		id:     fmt.Sprintf("obstacle-%s", uuid.NewString()[:8]),
		hitbox: hitbox,
	}
}

// GetID returns the unique identifier of the obstacle.
func (o *Obstacle) GetID() string {
	return o.id
}

// Hitbox returns the rectangle covered by the obstacle.
func (o *Obstacle) Hitbox() common.Rect {
	return o.hitbox
}

// SetHitbox moves or resizes the obstacle.
func (o *Obstacle) SetHitbox(hitbox common.Rect) {
	o.hitbox = hitbox
}

func (o *Obstacle) IsGrabbed() bool {
	return o.grabbed
}

func (o *Obstacle) SetGrabbed(grabbed bool) {
	o.grabbed = grabbed
}

// String representation for logging
func (o *Obstacle) String() string {
	return fmt.Sprintf("Obstacle[%s] %s", o.id, o.hitbox)
}
