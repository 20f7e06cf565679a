package component

import "github.com/milk9111/hideseek/inventory"

// Pickup is an item lying in the world, collected on overlap.
type Pickup struct {
	Prefab string
	Item   inventory.Item
}

var PickupComponent = NewComponent[Pickup]()
