package common

const (
	// TPS is the fixed simulation rate.
	TPS = 60
	// FixedDT is the duration of one simulation tick in seconds.
	FixedDT = 1.0 / TPS

	ScreenWidth  = 600
	ScreenHeight = 800
)
