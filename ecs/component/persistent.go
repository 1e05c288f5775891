package component

// Persistent marks an entity that survives scene reloads. Entities sharing an
// ID are singletons: after a reload only the surviving one is kept.
type Persistent struct {
	ID           string
	KeepOnReload bool
}

var PersistentComponent = NewComponent[Persistent]()
