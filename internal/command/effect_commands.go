package command

import (
	"fmt"

	"github.com/john-paul-ruf/nft-studio-sub010/internal/effect"
	"github.com/john-paul-ruf/nft-studio-sub010/internal/project"
)

// AddEffect appends a new top-level effect to the project.
type AddEffect struct {
	added *effect.Effect
	index int
}

// NewAddEffect creates an add command. The effect is deep-copied at
// construction; the caller's instance is never referenced again.
func NewAddEffect(added *effect.Effect) (*AddEffect, error) {
	if added == nil {
		return nil, ErrNilEffect
	}
	return &AddEffect{added: added.Copy()}, nil
}

// Type implements Command.
func (c *AddEffect) Type() Type { return TypeEffectAdd }

// Execute appends a copy of the captured effect to the end of the list.
func (c *AddEffect) Execute(state *project.State) error {
	if state == nil {
		return ErrNilState
	}
	effects := append(copyEffectList(state.Effects()), c.added.Copy())
	c.index = len(effects) - 1
	return state.SetEffects(effects)
}

// Undo removes the added effect by position.
func (c *AddEffect) Undo(state *project.State) error {
	if state == nil {
		return ErrNilState
	}
	effects := copyEffectList(state.Effects())
	if err := checkIndex(c.index, len(effects)); err != nil {
		return fmt.Errorf("undo %s: %w", c.Type(), err)
	}
	effects = append(effects[:c.index], effects[c.index+1:]...)
	return state.SetEffects(effects)
}

// UpdateEffect replaces the top-level effect at a given position.
type UpdateEffect struct {
	index  int
	before *effect.Effect
	after  *effect.Effect
}

// NewUpdateEffect creates an update command, capturing a deep copy of the
// current effect at index as the undo snapshot and a deep copy of replacement
// as the redo snapshot.
func NewUpdateEffect(state *project.State, index int, replacement *effect.Effect) (*UpdateEffect, error) {
	if state == nil {
		return nil, ErrNilState
	}
	if replacement == nil {
		return nil, ErrNilEffect
	}
	current, ok := state.EffectAt(index)
	if !ok {
		return nil, fmt.Errorf("%s: %w", TypeEffectUpdate, ErrIndexOutOfRange)
	}
	return &UpdateEffect{
		index:  index,
		before: current.Copy(),
		after:  replacement.Copy(),
	}, nil
}

// Type implements Command.
func (c *UpdateEffect) Type() Type { return TypeEffectUpdate }

// Execute replaces the effect at the captured position with the replacement.
func (c *UpdateEffect) Execute(state *project.State) error {
	return replaceEffectAt(state, c.Type(), c.index, c.after)
}

// Undo restores the pre-update effect captured at construction time.
func (c *UpdateEffect) Undo(state *project.State) error {
	return replaceEffectAt(state, c.Type(), c.index, c.before)
}

// DeleteEffect removes the top-level effect at a given position.
type DeleteEffect struct {
	index   int
	removed *effect.Effect
}

// NewDeleteEffect creates a delete command, capturing a deep copy of the
// effect at index so undo can restore it at its original position.
func NewDeleteEffect(state *project.State, index int) (*DeleteEffect, error) {
	if state == nil {
		return nil, ErrNilState
	}
	current, ok := state.EffectAt(index)
	if !ok {
		return nil, fmt.Errorf("%s: %w", TypeEffectDelete, ErrIndexOutOfRange)
	}
	return &DeleteEffect{index: index, removed: current.Copy()}, nil
}

// Type implements Command.
func (c *DeleteEffect) Type() Type { return TypeEffectDelete }

// Execute removes the effect at the captured position.
func (c *DeleteEffect) Execute(state *project.State) error {
	if state == nil {
		return ErrNilState
	}
	effects := copyEffectList(state.Effects())
	if err := checkIndex(c.index, len(effects)); err != nil {
		return fmt.Errorf("%s: %w", c.Type(), err)
	}
	effects = append(effects[:c.index], effects[c.index+1:]...)
	return state.SetEffects(effects)
}

// Undo re-inserts a copy of the removed effect at its original position.
func (c *DeleteEffect) Undo(state *project.State) error {
	if state == nil {
		return ErrNilState
	}
	effects := copyEffectList(state.Effects())
	if c.index < 0 || c.index > len(effects) {
		return fmt.Errorf("undo %s: %w", c.Type(), ErrIndexOutOfRange)
	}
	effects = append(effects, nil)
	copy(effects[c.index+1:], effects[c.index:])
	effects[c.index] = c.removed.Copy()
	return state.SetEffects(effects)
}

// ReorderEffect moves a top-level effect from one position to another with
// splice semantics.
type ReorderEffect struct {
	from int
	to   int
}

// NewReorderEffect creates a reorder command.
func NewReorderEffect(from, to int) *ReorderEffect {
	return &ReorderEffect{from: from, to: to}
}

// Type implements Command.
func (c *ReorderEffect) Type() Type { return TypeEffectReorder }

// Execute moves the effect at from to position to.
func (c *ReorderEffect) Execute(state *project.State) error {
	return reorderEffects(state, c.Type(), c.from, c.to)
}

// Undo performs the inverse move.
func (c *ReorderEffect) Undo(state *project.State) error {
	return reorderEffects(state, c.Type(), c.to, c.from)
}

func copyEffectList(effects []*effect.Effect) []*effect.Effect {
	duplicate := make([]*effect.Effect, len(effects))
	copy(duplicate, effects)
	return duplicate
}

func replaceEffectAt(state *project.State, commandType Type, index int, snapshot *effect.Effect) error {
	if state == nil {
		return ErrNilState
	}
	effects := copyEffectList(state.Effects())
	if err := checkIndex(index, len(effects)); err != nil {
		return fmt.Errorf("%s: %w", commandType, err)
	}
	effects[index] = snapshot.Copy()
	return state.SetEffects(effects)
}

func reorderEffects(state *project.State, commandType Type, from, to int) error {
	if state == nil {
		return ErrNilState
	}
	effects := copyEffectList(state.Effects())
	if err := checkIndex(from, len(effects)); err != nil {
		return fmt.Errorf("%s: from: %w", commandType, err)
	}
	if err := checkIndex(to, len(effects)); err != nil {
		return fmt.Errorf("%s: to: %w", commandType, err)
	}
	return state.SetEffects(spliceMove(effects, from, to))
}
