package ecs

import (
	"sort"

	"github.com/charmbracelet/log"
	"github.com/milk9111/hoprope/common"
	"github.com/milk9111/hoprope/config"
	"github.com/milk9111/hoprope/network"
)

// World owns entities, blocks, game rules, and system order. All methods
// must be called from the tick goroutine.
type World struct {
	entities SparseSet[Entity]
	byBlock  map[common.BlockPos][]Entity
	nextID   EntityID
	systems  []System
	events   EventQueue
	ticks    uint64

	blocks map[common.BlockPos]string
	tags   map[Tag]map[string]struct{}
	rules  *GameRules

	client      bool
	minBuild    int
	maxBuild    int
	maxEntities int
	ropeCfg     config.Rope

	physicsWorld *PhysicsWorld
	sender       network.Sender
	logger       *log.Logger
}

// NewWorld creates an empty server world with the default configuration.
func NewWorld() *World {
	w := &World{
		byBlock:      make(map[common.BlockPos][]Entity),
		blocks:       make(map[common.BlockPos]string),
		tags:         defaultTags(),
		rules:        NewGameRules(),
		physicsWorld: NewPhysicsWorld(),
		logger:       log.Default(),
	}
	w.Configure(config.Default())
	return w
}

// Configure applies world limits and rope tuning.
func (w *World) Configure(cfg config.Config) {
	if w == nil {
		return
	}
	w.minBuild = cfg.World.MinBuildHeight
	w.maxBuild = cfg.World.MaxBuildHeight
	w.maxEntities = cfg.World.MaxEntities
	w.ropeCfg = cfg.Rope
}

// SetRopeConfig replaces the rope tuning, e.g. after a config reload.
func (w *World) SetRopeConfig(cfg config.Rope) {
	if w == nil {
		return
	}
	w.ropeCfg = cfg
}

func (w *World) RopeConfig() config.Rope {
	return w.ropeCfg
}

// SetBuildLimits sets the [min, max) Y range entities may be added in.
func (w *World) SetBuildLimits(minY, maxY int) {
	w.minBuild = minY
	w.maxBuild = maxY
}

func (w *World) SetMaxEntities(n int) {
	w.maxEntities = n
}

// SetClient marks the world as a client-side mirror.
func (w *World) SetClient(client bool) {
	w.client = client
}

func (w *World) IsClient() bool {
	return w != nil && w.client
}

func (w *World) SetSender(s network.Sender) {
	w.sender = s
}

func (w *World) SetLogger(l *log.Logger) {
	if l == nil {
		l = log.Default()
	}
	w.logger = l
}

func (w *World) Logger() *log.Logger {
	if w == nil || w.logger == nil {
		return log.Default()
	}
	return w.logger
}

// SetPhysicsWorld attaches a physics world to this world.
func (w *World) SetPhysicsWorld(pw *PhysicsWorld) {
	if w == nil {
		return
	}
	w.physicsWorld = pw
}

// PhysicsWorld returns the attached physics world, if any.
func (w *World) PhysicsWorld() *PhysicsWorld {
	if w == nil {
		return nil
	}
	return w.physicsWorld
}

// AddSystem appends a system to the update order.
func (w *World) AddSystem(s System) {
	if s == nil {
		return
	}
	w.systems = append(w.systems, s)
}

// Update runs one tick: previous positions are captured, systems run in
// order, then pending events are flushed.
func (w *World) Update() {
	if w == nil {
		return
	}
	w.ticks++
	for _, e := range w.entities.Values() {
		b := e.base()
		b.prevPos = b.pos
	}
	for _, s := range w.systems {
		if s != nil {
			s.Update(w)
		}
	}
	w.events.flush()
}

func (w *World) Ticks() uint64 {
	return w.ticks
}

// Events returns the world event queue.
func (w *World) Events() *EventQueue {
	if w == nil {
		return nil
	}
	return &w.events
}

// AddFreshEntity inserts e and assigns it an id. It reports false when the
// host refuses the entity: nil, removed, already present, outside the build
// height, or over the entity cap.
func (w *World) AddFreshEntity(e Entity) bool {
	if w == nil || e == nil {
		return false
	}
	b := e.base()
	if b.removal != NotRemoved || b.world != nil || b.id < 0 {
		return false
	}
	if b.id != 0 && w.entities.Has(int(b.id)) {
		return false
	}
	y := e.Position().Y
	if y < float64(w.minBuild) || y >= float64(w.maxBuild) {
		w.Logger().Debug("refusing entity outside build height", "kind", e.Kind(), "y", y)
		return false
	}
	if w.maxEntities > 0 && w.entities.Len() >= w.maxEntities {
		w.Logger().Debug("refusing entity over cap", "kind", e.Kind(), "cap", w.maxEntities)
		return false
	}

	if b.id == 0 {
		w.nextID++
		b.id = w.nextID
	} else if b.id > w.nextID {
		w.nextID = b.id
	}
	b.world = w
	b.self = e
	b.prevPos = b.pos

	w.entities.Set(int(b.id), e)
	w.index(e)
	if l, ok := e.(AddListener); ok {
		l.OnAddedToWorld(w)
	}
	w.events.Push(Event{Type: EventEntityAdded, Data: b.id})
	return true
}

// RemoveEntity removes e from the world. RemoveListener hooks run before the
// removed flag is set; removing an entity twice is a no-op.
func (w *World) RemoveEntity(e Entity, reason RemovalReason) {
	if w == nil || e == nil || reason == NotRemoved {
		return
	}
	b := e.base()
	if b.world != w || b.removal != NotRemoved || b.removing {
		return
	}
	b.removing = true
	if l, ok := e.(RemoveListener); ok {
		l.OnRemove(w, reason)
	}
	b.removing = false
	b.removal = reason

	w.unindex(e)
	w.entities.Remove(int(b.id))
	b.world = nil
	w.events.Push(Event{Type: EventEntityRemoved, Data: b.id})
}

// Entity looks up a live entity by id.
func (w *World) Entity(id EntityID) Entity {
	if w == nil {
		return nil
	}
	e, ok := w.entities.Get(int(id))
	if !ok {
		return nil
	}
	return e
}

func (w *World) EntityCount() int {
	return w.entities.Len()
}

// Entities returns every live entity ordered by id.
func (w *World) Entities() []Entity {
	out := append([]Entity(nil), w.entities.Values()...)
	sortByID(out)
	return out
}

// EntitiesOfKind returns the live entities of kind ordered by id.
func (w *World) EntitiesOfKind(kind Kind) []Entity {
	var out []Entity
	for _, e := range w.entities.Values() {
		if e.Kind() == kind {
			out = append(out, e)
		}
	}
	sortByID(out)
	return out
}

// EntitiesInBlock returns the live entities whose BlockPos is pos.
func (w *World) EntitiesInBlock(pos common.BlockPos) []Entity {
	if w == nil {
		return nil
	}
	out := append([]Entity(nil), w.byBlock[pos]...)
	sortByID(out)
	return out
}

// Players returns the connected players ordered by id.
func (w *World) Players() []*Player {
	var out []*Player
	for _, e := range w.EntitiesOfKind(KindPlayer) {
		if p, ok := e.(*Player); ok {
			out = append(out, p)
		}
	}
	return out
}

// SendToPlayer hands payload to the configured sender.
func (w *World) SendToPlayer(p *Player, id network.PacketID, payload []byte) {
	if w == nil || w.sender == nil || p == nil {
		return
	}
	w.sender.Send(int32(p.ID()), id, payload)
}

func (w *World) GameRules() *GameRules {
	return w.rules
}

// GameRule reads a boolean game rule.
func (w *World) GameRule(name string) bool {
	return w.rules.Bool(name)
}

func (w *World) index(e Entity) {
	pos := e.BlockPos()
	w.byBlock[pos] = append(w.byBlock[pos], e)
}

func (w *World) unindex(e Entity) {
	pos := e.BlockPos()
	list := w.byBlock[pos]
	for i, other := range list {
		if other == e {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(w.byBlock, pos)
		return
	}
	w.byBlock[pos] = list
}

func sortByID(es []Entity) {
	sort.Slice(es, func(i, j int) bool { return es[i].ID() < es[j].ID() })
}
