package ecs

import "github.com/milk9111/hoprope/common"

// DefaultPickupDelay is the number of ticks before a dropped item can be
// collected.
const DefaultPickupDelay = 10

// ItemEntity is a dropped item stack.
type ItemEntity struct {
	Base
	Stack       ItemStack
	PickupDelay int
}

func NewItemEntity(pos common.Vec3, stack ItemStack) *ItemEntity {
	return &ItemEntity{Base: NewBase(KindItem, pos), Stack: stack}
}

func (e *ItemEntity) SetDefaultPickupDelay() {
	e.PickupDelay = DefaultPickupDelay
}
