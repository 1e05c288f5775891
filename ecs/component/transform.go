package component

// Transform is a world-space pose in units. Y grows downward, like the screen.
type Transform struct {
	X        float64
	Y        float64
	Rotation float64
}

var TransformComponent = NewComponent[Transform]()
