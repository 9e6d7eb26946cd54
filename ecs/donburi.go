package ecs

import (
	"github.com/phanxgames/canopy"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// BoundsEvent reports a node entering or leaving the bounds margin band.
type BoundsEvent struct {
	Node    *canopy.Node
	NodeID  uint32
	Entered bool
	Bounds  canopy.Rect // the node's bounding box at the time of the change
}

// BoundsEventType is the Donburi event type for canopy bounds events.
var BoundsEventType = events.NewEventType[BoundsEvent]()

type donburiObserver struct {
	world donburi.World
}

// NewDonburiObserver creates a BoundsObserver backed by a Donburi world.
// Events are published to BoundsEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiObserver(world donburi.World) canopy.BoundsObserver {
	return &donburiObserver{world: world}
}

func (o *donburiObserver) EnterBounds(n *canopy.Node) {
	BoundsEventType.Publish(o.world, BoundsEvent{Node: n, NodeID: n.ID, Entered: true, Bounds: n.Bounds()})
}

func (o *donburiObserver) ExitBounds(n *canopy.Node) {
	BoundsEventType.Publish(o.world, BoundsEvent{Node: n, NodeID: n.ID, Entered: false, Bounds: n.Bounds()})
}
