package ai

// State is the controller's high-level mode.
type State uint8

const (
	AtGoal State = iota
	SelectingNode
	TravellingToNode
)

func (s State) String() string {
	switch s {
	case AtGoal:
		return "at_goal"
	case SelectingNode:
		return "selecting_node"
	case TravellingToNode:
		return "travelling_to_node"
	default:
		return "unknown"
	}
}

// SubState is the movement strategy used while travelling.
type SubState uint8

const (
	NoSubState SubState = iota
	SamePlatform
	DifferentPlatformHorizontal
	DifferentPlatformVertical
	Lost
)

func (s SubState) String() string {
	switch s {
	case NoSubState:
		return "none"
	case SamePlatform:
		return "same_platform"
	case DifferentPlatformHorizontal:
		return "different_platform_horizontal"
	case DifferentPlatformVertical:
		return "different_platform_vertical"
	case Lost:
		return "lost"
	default:
		return "unknown"
	}
}
