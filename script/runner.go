// Package script drives a rope world from tengo scenario scripts.
package script

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/hoprope/common"
	"github.com/milk9111/hoprope/ecs"
	"github.com/milk9111/hoprope/network"
	"github.com/milk9111/hoprope/rope"
)

// Runner executes scripts against one world. Scripts see a single global,
// world, holding the functions built by engine.
type Runner struct {
	world    *ecs.World
	loopback *network.Loopback
	players  map[string]*ecs.Player
}

// NewRunner wraps w and installs the rope and item pickup systems. Packets are recorded by
// lb, which is also installed as the world's sender.
func NewRunner(w *ecs.World, lb *network.Loopback) *Runner {
	if lb == nil {
		lb = network.NewLoopback()
	}
	w.SetSender(lb)
	w.AddSystem(rope.NewSystem())
	w.AddSystem(ecs.NewPickupSystem())
	return &Runner{world: w, loopback: lb, players: map[string]*ecs.Player{}}
}

func (r *Runner) World() *ecs.World { return r.world }

func (r *Runner) Loopback() *network.Loopback { return r.loopback }

// Player returns a player created by a script.
func (r *Runner) Player(name string) *ecs.Player { return r.players[name] }

// RunFile runs the script at path.
func (r *Runner) RunFile(ctx context.Context, path string) error {
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("script: read %s: %w", path, err)
	}
	return r.Run(ctx, src)
}

// Run compiles and runs src.
func (r *Runner) Run(ctx context.Context, src []byte) error {
	s := tengo.NewScript(src)
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	if err := s.Add("world", r.engine()); err != nil {
		return fmt.Errorf("script: bind world: %w", err)
	}
	compiled, err := s.Compile()
	if err != nil {
		return fmt.Errorf("script: compile: %w", err)
	}
	if err := compiled.RunContext(ctx); err != nil {
		return fmt.Errorf("script: run: %w", err)
	}
	return nil
}

func (r *Runner) engine() *tengo.ImmutableMap {
	values := map[string]tengo.Object{}
	fn := func(name string, f tengo.CallableFunc) {
		values[name] = &tengo.UserFunction{Name: name, Value: f}
	}

	fn("fence", func(args ...tengo.Object) (tengo.Object, error) {
		pos, rest, err := blockArgs(args)
		if err != nil {
			return nil, err
		}
		block := "oak_fence"
		if len(rest) > 0 {
			block = objectAsString(rest[0])
		}
		r.world.SetBlock(pos, block)
		return tengo.TrueValue, nil
	})

	fn("clear", func(args ...tengo.Object) (tengo.Object, error) {
		pos, _, err := blockArgs(args)
		if err != nil {
			return nil, err
		}
		r.world.SetBlock(pos, ecs.BlockAir)
		return tengo.TrueValue, nil
	})

	fn("player", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 4 {
			return nil, tengo.ErrWrongNumArguments
		}
		name := objectAsString(args[0])
		pos, err := vecArgs(args[1:4])
		if err != nil {
			return nil, err
		}
		if _, ok := r.players[name]; ok {
			return nil, fmt.Errorf("player %q already exists", name)
		}
		p := ecs.NewPlayer(name, pos)
		if len(args) > 4 {
			p.Creative = !args[4].IsFalsy()
		}
		if !r.world.AddFreshEntity(p) {
			return tengo.UndefinedValue, nil
		}
		r.players[name] = p
		return &tengo.Int{Value: int64(p.ID())}, nil
	})

	fn("give", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		p, err := r.player(args[0])
		if err != nil {
			return nil, err
		}
		n, ok := tengo.ToInt(args[1])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "count", Expected: "int", Found: args[1].TypeName()}
		}
		p.SetItemInHand(ecs.MainHand, ecs.ItemStack{Item: rope.ItemHopRope, Count: n})
		return tengo.TrueValue, nil
	})

	fn("held", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		p, err := r.player(args[0])
		if err != nil {
			return nil, err
		}
		return &tengo.Int{Value: int64(p.CountItem(rope.ItemHopRope))}, nil
	})

	fn("move", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 4 {
			return nil, tengo.ErrWrongNumArguments
		}
		p, err := r.player(args[0])
		if err != nil {
			return nil, err
		}
		pos, err := vecArgs(args[1:4])
		if err != nil {
			return nil, err
		}
		p.SetPosition(pos)
		return tengo.TrueValue, nil
	})

	fn("use", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 4 {
			return nil, tengo.ErrWrongNumArguments
		}
		p, err := r.player(args[0])
		if err != nil {
			return nil, err
		}
		pos, _, err := blockArgs(args[1:])
		if err != nil {
			return nil, err
		}
		res := rope.UseItemOn(r.world, p, ecs.MainHand, pos)
		return &tengo.String{Value: res.String()}, nil
	})

	fn("attack", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 4 {
			return nil, tengo.ErrWrongNumArguments
		}
		p, err := r.player(args[0])
		if err != nil {
			return nil, err
		}
		pos, _, err := blockArgs(args[1:])
		if err != nil {
			return nil, err
		}
		k := rope.KnotAt(r.world, pos)
		if k == nil {
			return tengo.FalseValue, nil
		}
		k.Attack(p)
		return tengo.TrueValue, nil
	})

	fn("tick", func(args ...tengo.Object) (tengo.Object, error) {
		n := 1
		if len(args) > 0 {
			v, ok := tengo.ToInt(args[0])
			if !ok {
				return nil, tengo.ErrInvalidArgumentType{Name: "n", Expected: "int", Found: args[0].TypeName()}
			}
			n = v
		}
		for i := 0; i < n; i++ {
			r.world.Update()
		}
		return &tengo.Int{Value: int64(r.world.Ticks())}, nil
	})

	fn("remove", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		id, ok := tengo.ToInt(args[0])
		if !ok {
			return nil, tengo.ErrInvalidArgumentType{Name: "id", Expected: "int", Found: args[0].TypeName()}
		}
		reason := ecs.Killed
		if len(args) > 1 {
			var err error
			if reason, err = parseReason(objectAsString(args[1])); err != nil {
				return nil, err
			}
		}
		e := r.world.Entity(ecs.EntityID(id))
		if e == nil {
			return tengo.FalseValue, nil
		}
		r.world.RemoveEntity(e, reason)
		return tengo.TrueValue, nil
	})

	fn("knot_at", func(args ...tengo.Object) (tengo.Object, error) {
		pos, _, err := blockArgs(args)
		if err != nil {
			return nil, err
		}
		k := rope.KnotAt(r.world, pos)
		if k == nil {
			return tengo.UndefinedValue, nil
		}
		return &tengo.Int{Value: int64(k.ID())}, nil
	})

	fn("ropes", func(args ...tengo.Object) (tengo.Object, error) {
		pos, _, err := blockArgs(args)
		if err != nil {
			return nil, err
		}
		k := rope.KnotAt(r.world, pos)
		if k == nil {
			return &tengo.Int{Value: 0}, nil
		}
		return &tengo.Int{Value: int64(len(k.Connections()))}, nil
	})

	fn("count", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		kind := ecs.Kind(objectAsString(args[0]))
		return &tengo.Int{Value: int64(len(r.world.EntitiesOfKind(kind)))}, nil
	})

	fn("packets", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		p, err := r.player(args[0])
		if err != nil {
			return nil, err
		}
		var id network.PacketID
		if len(args) > 1 {
			id = network.PacketID(objectAsString(args[1]))
		}
		n := 0
		for _, pkt := range r.loopback.SentTo(int32(p.ID())) {
			if id == "" || pkt.ID == id {
				n++
			}
		}
		return &tengo.Int{Value: int64(n)}, nil
	})

	fn("rule", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) != 2 {
			return nil, tengo.ErrWrongNumArguments
		}
		r.world.GameRules().SetBool(objectAsString(args[0]), !args[1].IsFalsy())
		return tengo.TrueValue, nil
	})

	fn("log", func(args ...tengo.Object) (tengo.Object, error) {
		parts := make([]string, 0, len(args))
		for _, a := range args {
			parts = append(parts, objectAsString(a))
		}
		r.world.Logger().Info(strings.Join(parts, " "), "tick", r.world.Ticks())
		return tengo.UndefinedValue, nil
	})

	values["KNOT"] = &tengo.String{Value: string(rope.KindKnot)}
	values["COLLISION"] = &tengo.String{Value: string(rope.KindCollision)}
	values["HANGING"] = &tengo.String{Value: string(rope.KindHanging)}
	values["ITEM"] = &tengo.String{Value: string(ecs.KindItem)}
	values["ATTACH"] = &tengo.String{Value: string(network.AttachRopeS2C)}
	values["DETACH"] = &tengo.String{Value: string(network.DetachRopeS2C)}

	return &tengo.ImmutableMap{Value: values}
}

func (r *Runner) player(obj tengo.Object) (*ecs.Player, error) {
	name := objectAsString(obj)
	p, ok := r.players[name]
	if !ok {
		return nil, fmt.Errorf("unknown player %q", name)
	}
	return p, nil
}

func blockArgs(args []tengo.Object) (common.BlockPos, []tengo.Object, error) {
	if len(args) < 3 {
		return common.BlockPos{}, nil, tengo.ErrWrongNumArguments
	}
	var xyz [3]int
	for i := 0; i < 3; i++ {
		v, ok := tengo.ToInt(args[i])
		if !ok {
			return common.BlockPos{}, nil, tengo.ErrInvalidArgumentType{Name: "xyz"[i : i+1], Expected: "int", Found: args[i].TypeName()}
		}
		xyz[i] = v
	}
	return common.BlockPos{X: xyz[0], Y: xyz[1], Z: xyz[2]}, args[3:], nil
}

func vecArgs(args []tengo.Object) (common.Vec3, error) {
	var xyz [3]float64
	for i := 0; i < 3; i++ {
		v, ok := tengo.ToFloat64(args[i])
		if !ok {
			return common.Vec3{}, tengo.ErrInvalidArgumentType{Name: "xyz"[i : i+1], Expected: "float", Found: args[i].TypeName()}
		}
		xyz[i] = v
	}
	return common.Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}, nil
}

func parseReason(s string) (ecs.RemovalReason, error) {
	for _, r := range []ecs.RemovalReason{ecs.Killed, ecs.Discarded, ecs.UnloadedToChunk, ecs.ChangedDimension} {
		if r.String() == s {
			return r, nil
		}
	}
	return ecs.NotRemoved, fmt.Errorf("unknown removal reason %q", s)
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	switch v := obj.(type) {
	case *tengo.String:
		return v.Value
	default:
		return strings.Trim(v.String(), "\"")
	}
}
