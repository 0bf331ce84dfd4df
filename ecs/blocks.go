package ecs

import "github.com/milk9111/hoprope/common"

// Tag groups block names.
type Tag string

const TagFences Tag = "fences"

const BlockAir = "air"

// BlockState is the content of one voxel cell.
type BlockState struct {
	Block string
}

func (s BlockState) IsAir() bool {
	return s.Block == "" || s.Block == BlockAir
}

func defaultTags() map[Tag]map[string]struct{} {
	fences := map[string]struct{}{}
	for _, name := range []string{
		"oak_fence", "spruce_fence", "birch_fence", "jungle_fence",
		"acacia_fence", "dark_oak_fence", "mangrove_fence", "cherry_fence",
		"bamboo_fence", "crimson_fence", "warped_fence", "nether_brick_fence",
	} {
		fences[name] = struct{}{}
	}
	return map[Tag]map[string]struct{}{TagFences: fences}
}

// SetBlock places a block; an empty name or "air" clears the cell.
func (w *World) SetBlock(pos common.BlockPos, name string) {
	if name == "" || name == BlockAir {
		delete(w.blocks, pos)
		return
	}
	w.blocks[pos] = name
}

func (w *World) BlockState(pos common.BlockPos) BlockState {
	name, ok := w.blocks[pos]
	if !ok {
		return BlockState{Block: BlockAir}
	}
	return BlockState{Block: name}
}

// TagBlock adds a block name to a tag.
func (w *World) TagBlock(tag Tag, name string) {
	set, ok := w.tags[tag]
	if !ok {
		set = map[string]struct{}{}
		w.tags[tag] = set
	}
	set[name] = struct{}{}
}

// BlockHasTag reports whether the block at pos belongs to tag.
func (w *World) BlockHasTag(pos common.BlockPos, tag Tag) bool {
	name, ok := w.blocks[pos]
	if !ok {
		return false
	}
	_, ok = w.tags[tag][name]
	return ok
}
