package services

import (
	"github.com/google/uuid"

	"github.com/km-arc/go-spring/framework/component"
)

// RequestTagger issues UUID request tags.
type RequestTagger struct{}

func NewRequestTagger() *RequestTagger { return &RequestTagger{} }

func (*RequestTagger) ComponentMarker() {}

func (*RequestTagger) NextID() string { return uuid.NewString() }

func init() {
	component.MustDefine(&RequestTagger{},
		component.Implements[IDGenerator](),
		component.Constructor(NewRequestTagger),
	)
}
