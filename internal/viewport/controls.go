package viewport

import (
	"github.com/charmbracelet/harmonica"

	"github.com/taigrr/hares/internal/events"
	"github.com/taigrr/hares/pkg/math3d"
	"github.com/taigrr/hares/pkg/render"
)

// Step is how far one key press moves the cube or the camera.
const Step = 0.1

// Controls maps key presses onto the scene:
//
//	w/s - movable object up/down
//	a/d - camera left/right
//
// After every key the first point light and the wireframe are moved onto
// the movable object.
type Controls struct {
	camera *render.Camera
	rig    *cameraRig
	actors Actors
}

// newControls creates controls for camera. With a rig, a/d move the rig's
// target and the camera follows it frame by frame.
func newControls(camera *render.Camera, rig *cameraRig) *Controls {
	return &Controls{camera: camera, rig: rig}
}

// Bind sets the nodes the controls move.
func (c *Controls) Bind(a Actors) {
	c.actors = a
	c.sync()
}

// Handle applies a key event. Other events are ignored.
func (c *Controls) Handle(e events.Event) error {
	k, ok := e.(events.KeyDown)
	if !ok {
		return nil
	}
	switch k.Key {
	case "w":
		c.moveObject(Step)
	case "s":
		c.moveObject(-Step)
	case "a":
		c.moveCamera(-Step)
	case "d":
		c.moveCamera(Step)
	}
	c.sync()
	return nil
}

func (c *Controls) moveObject(dy float64) {
	if c.actors.Movable != nil {
		c.actors.Movable.Position.Y += dy
	}
}

func (c *Controls) moveCamera(dx float64) {
	if c.rig != nil {
		c.rig.targetX += dx
		return
	}
	c.camera.Translate(math3d.V3(dx, 0, 0))
}

func (c *Controls) sync() {
	m := c.actors.Movable
	if m == nil {
		return
	}
	if c.actors.Light != nil {
		c.actors.Light.Position = m.Position
	}
	if c.actors.Follower != nil {
		c.actors.Follower.Position = m.Position
	}
}

// cameraRig eases the camera's X toward a target with a critically damped spring.
type cameraRig struct {
	spring   harmonica.Spring
	targetX  float64
	velocity float64
}

func newCameraRig(fps int, x float64) *cameraRig {
	return &cameraRig{
		spring:  harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
		targetX: x,
	}
}

// Update advances the spring one frame and moves cam.
func (r *cameraRig) Update(cam *render.Camera) {
	pos := cam.Position
	pos.X, r.velocity = r.spring.Update(pos.X, r.velocity, r.targetX)
	cam.SetPosition(pos)
}
