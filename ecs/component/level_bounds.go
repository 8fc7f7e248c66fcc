package component

// LevelBounds stores the world-space bounds of the current level. Bodies
// whose top passes KillLine are culled.
type LevelBounds struct {
	Width    float64
	Height   float64
	KillLine float64
}

var LevelBoundsComponent = NewComponent[LevelBounds]()
