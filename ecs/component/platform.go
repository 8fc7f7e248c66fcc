package component

import "github.com/jakecoffman/cp"

// Platform is the level data of a platform entity. Synced is where the body
// was when its waypoint nodes were last moved.
type Platform struct {
	Index    int
	Material string
	Synced   cp.Vector
}

var PlatformComponent = NewComponent[Platform]()
