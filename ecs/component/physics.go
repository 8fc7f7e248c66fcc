package component

import "github.com/milk9111/climber/physics"

// PhysicsBody attaches a simulated body to an entity. The body pointer is
// also the identity the collision pass reports back.
type PhysicsBody struct {
	Body *physics.Body
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
