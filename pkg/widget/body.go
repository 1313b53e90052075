package widget

// Container is the region a widget body renders into.
type Container struct {
	Width, Height int
	Focused       bool
}

// SaveFunc persists the body's settings after it mutated them.
type SaveFunc func(settings map[string]any)

// Body is the capability interface every widget type implements.
//
// Mount hands the body its container and its instance's settings map. The
// body may mutate the map and must call save afterwards. Render returns the
// current content of the container. Unmount releases anything Mount
// acquired.
type Body interface {
	Mount(c Container, settings map[string]any, save SaveFunc) error
	Render() string
	Unmount()
}

// FocusRenderer is implemented by bodies that have a dedicated enlarged
// presentation. Bodies without it are rendered with Render in a larger
// container.
type FocusRenderer interface {
	RenderFocused(c Container) string
}

// Factory builds a new, unmounted body.
type Factory func() Body

// Activator is implemented by bodies with a primary action, such as
// incrementing a counter. Activation mutates settings and saves them.
type Activator interface {
	Activate()
}
