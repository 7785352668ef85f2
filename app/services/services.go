// Package services holds the demo components managed by the container.
// Each component lives in a file named after it so the scanner's qualified
// names match the type index.
package services

import "time"

// Greeter produces a greeting for a name.
type Greeter interface {
	Greet(name string) Greeting
}

// Clock tells the current time.
type Clock interface {
	Now() time.Time
}

// IDGenerator issues opaque request tags.
type IDGenerator interface {
	NextID() string
}

// Greeting is the demo payload.
type Greeting struct {
	ID      string    `json:"id"`
	Message string    `json:"message"`
	At      time.Time `json:"at"`
}
