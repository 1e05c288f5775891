package component

type PlanetTag struct{}

var PlanetTagComponent = NewComponent[PlanetTag]()

type BowlTag struct{}

var BowlTagComponent = NewComponent[BowlTag]()
