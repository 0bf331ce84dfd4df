package ecs

import "github.com/milk9111/hoprope/common"

// PlayerHandHeight is where a held rope attaches above the player's feet.
const PlayerHandHeight = 1.2

type Hand int

const (
	MainHand Hand = iota
	OffHand
)

type InteractionResult int

const (
	Pass InteractionResult = iota
	Success
	Consume
)

func (r InteractionResult) String() string {
	switch r {
	case Success:
		return "success"
	case Consume:
		return "consume"
	default:
		return "pass"
	}
}

// ItemStack is a count of one item.
type ItemStack struct {
	Item  string
	Count int
}

func (s ItemStack) Empty() bool {
	return s.Item == "" || s.Count <= 0
}

// Player is a connected observer that can hold items.
type Player struct {
	Base
	Name     string
	Creative bool

	hands     [2]ItemStack
	inventory []ItemStack
}

func NewPlayer(name string, pos common.Vec3) *Player {
	p := &Player{Base: NewBase(KindPlayer, pos), Name: name}
	p.SetLeashOffset(common.Vec3{Y: PlayerHandHeight})
	return p
}

func (p *Player) ItemInHand(h Hand) ItemStack {
	if h != MainHand && h != OffHand {
		return ItemStack{}
	}
	return p.hands[h]
}

func (p *Player) SetItemInHand(h Hand, s ItemStack) {
	if h != MainHand && h != OffHand {
		return
	}
	p.hands[h] = s
}

// ShrinkHand removes n items from the stack in h.
func (p *Player) ShrinkHand(h Hand, n int) {
	if h != MainHand && h != OffHand {
		return
	}
	s := p.hands[h]
	s.Count -= n
	if s.Count <= 0 {
		s = ItemStack{}
	}
	p.hands[h] = s
}

// AddItem merges s into the inventory.
func (p *Player) AddItem(s ItemStack) {
	if s.Empty() {
		return
	}
	for i := range p.inventory {
		if p.inventory[i].Item == s.Item {
			p.inventory[i].Count += s.Count
			return
		}
	}
	p.inventory = append(p.inventory, s)
}

func (p *Player) Inventory() []ItemStack {
	return append([]ItemStack(nil), p.inventory...)
}

// CountItem totals item across both hands and the inventory.
func (p *Player) CountItem(item string) int {
	n := 0
	for _, s := range p.hands {
		if s.Item == item {
			n += s.Count
		}
	}
	for _, s := range p.inventory {
		if s.Item == item {
			n += s.Count
		}
	}
	return n
}
