package component

// Name identifies a scene object for lookups such as the setup utility's
// planet and bowl search.
type Name struct {
	Value string
}

var NameComponent = NewComponent[Name]()
