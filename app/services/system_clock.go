package services

import (
	"time"

	"github.com/km-arc/go-spring/framework/component"
)

// SystemClock is the wall-clock Clock implementation. It has no dependencies
// and no declared constructor, so the container builds it from the zero value.
type SystemClock struct{}

func (*SystemClock) ComponentMarker() {}

func (*SystemClock) Now() time.Time { return time.Now() }

func init() {
	component.MustDefine(&SystemClock{},
		component.Implements[Clock](),
	)
}
