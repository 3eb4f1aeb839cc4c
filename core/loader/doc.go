// Package loader provides the plugin-like feature loading system.
//
// Each feature implements the Feature interface, which defines its name, whether it is
// enabled, and its route registration logic.
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// The Manager holds the registry of features. Register adds one, LoadAll loads every
// enabled feature in registration order.
package loader
