package component

import "image/color"

// Render draws an entity's collider shape in a flat color. Lower layers draw
// first.
type Render struct {
	Color color.Color
	Layer int
}

var RenderComponent = NewComponent[Render]()
