package component

// ReloadRequest is a marker used to ask the persistence system to reload the
// current scene. Systems create a short-lived entity carrying it.
type ReloadRequest struct{}

var ReloadRequestComponent = NewComponent[ReloadRequest]()
