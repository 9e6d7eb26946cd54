// Package ecs provides ECS adapters for canopy's bounds notifications.
//
// The primary adapter is [NewDonburiObserver], which bridges nodes entering
// and leaving the bounds margin around the viewport into a [Donburi] world as
// typed events. Subscribe to [BoundsEventType] in your ECS systems to receive
// them.
//
// Usage:
//
//	stage.SetBoundsObserver(ecs.NewDonburiObserver(world))
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs
