package services

import (
	"fmt"

	"github.com/km-arc/go-spring/framework/component"
)

// GreetingService is the demo Greeter; the container injects its Clock and
// IDGenerator through the constructor.
type GreetingService struct {
	clock Clock
	ids   IDGenerator
}

func NewGreetingService(clock Clock, ids IDGenerator) *GreetingService {
	return &GreetingService{clock: clock, ids: ids}
}

func (*GreetingService) ComponentMarker() {}

func (s *GreetingService) Greet(name string) Greeting {
	if name == "" {
		name = "world"
	}
	return Greeting{
		ID:      s.ids.NextID(),
		Message: fmt.Sprintf("Hello, %s!", name),
		At:      s.clock.Now(),
	}
}

func init() {
	component.MustDefine(&GreetingService{},
		component.Implements[Greeter](),
		component.Constructor(NewGreetingService),
	)
}
