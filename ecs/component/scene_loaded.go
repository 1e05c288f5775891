package component

// SceneLoaded is a transient marker added after every scene load. Sequence
// increases with each load.
type SceneLoaded struct {
	Sequence uint64
}

var SceneLoadedComponent = NewComponent[SceneLoaded]()
