package command

import (
	"fmt"

	"github.com/john-paul-ruf/nft-studio-sub010/internal/effect"
	"github.com/john-paul-ruf/nft-studio-sub010/internal/project"
)

// Secondary commands address a child list through the parent's current
// position. The parent is re-fetched from the state on every execute and
// undo; only effect data is captured, as deep copies.

// parentAt resolves the live parent effect for a child-list command.
func parentAt(state *project.State, commandType Type, parentIndex int) (*effect.Effect, error) {
	if state == nil {
		return nil, ErrNilState
	}
	parent, ok := state.EffectAt(parentIndex)
	if !ok {
		return nil, fmt.Errorf("%s: %w", commandType, ErrParentIndexOutOfRange)
	}
	if !parent.Kind.AllowsChildren() {
		return nil, fmt.Errorf("%s: %w: %s", commandType, ErrParentKindMismatch, parent.Kind)
	}
	return parent, nil
}

// AddSecondary appends a secondary effect to a parent's child list.
type AddSecondary struct {
	parentIndex int
	added       *effect.Effect
	index       int
}

// NewAddSecondary creates an add command for a secondary child.
func NewAddSecondary(parentIndex int, added *effect.Effect) (*AddSecondary, error) {
	if added == nil {
		return nil, ErrNilEffect
	}
	if !added.Is(effect.KindSecondary) {
		return nil, fmt.Errorf("%s: %w: %s", TypeSecondaryAdd, ErrChildKindMismatch, added.Kind)
	}
	return &AddSecondary{parentIndex: parentIndex, added: added.Copy()}, nil
}

// Type implements Command.
func (c *AddSecondary) Type() Type { return TypeSecondaryAdd }

// Execute appends a copy of the captured effect to the parent's list.
func (c *AddSecondary) Execute(state *project.State) error {
	parent, err := parentAt(state, c.Type(), c.parentIndex)
	if err != nil {
		return err
	}
	parent.SecondaryEffects = append(copyEffectList(parent.SecondaryEffects), c.added.Copy())
	c.index = len(parent.SecondaryEffects) - 1
	return nil
}

// Undo removes the added child by position.
func (c *AddSecondary) Undo(state *project.State) error {
	parent, err := parentAt(state, c.Type(), c.parentIndex)
	if err != nil {
		return err
	}
	children := copyEffectList(parent.SecondaryEffects)
	if err := checkIndex(c.index, len(children)); err != nil {
		return fmt.Errorf("undo %s: %w", c.Type(), err)
	}
	parent.SecondaryEffects = append(children[:c.index], children[c.index+1:]...)
	return nil
}

// UpdateSecondary replaces the secondary effect at a given position.
type UpdateSecondary struct {
	parentIndex int
	index       int
	before      *effect.Effect
	after       *effect.Effect
}

// NewUpdateSecondary creates an update command, capturing deep copies of both
// the current child and the replacement.
func NewUpdateSecondary(state *project.State, parentIndex, index int, replacement *effect.Effect) (*UpdateSecondary, error) {
	if replacement == nil {
		return nil, ErrNilEffect
	}
	if !replacement.Is(effect.KindSecondary) {
		return nil, fmt.Errorf("%s: %w: %s", TypeSecondaryUpdate, ErrChildKindMismatch, replacement.Kind)
	}
	parent, err := parentAt(state, TypeSecondaryUpdate, parentIndex)
	if err != nil {
		return nil, err
	}
	if err := checkIndex(index, len(parent.SecondaryEffects)); err != nil {
		return nil, fmt.Errorf("%s: %w", TypeSecondaryUpdate, err)
	}
	return &UpdateSecondary{
		parentIndex: parentIndex,
		index:       index,
		before:      parent.SecondaryEffects[index].Copy(),
		after:       replacement.Copy(),
	}, nil
}

// Type implements Command.
func (c *UpdateSecondary) Type() Type { return TypeSecondaryUpdate }

// Execute replaces the child at the captured position with the replacement.
func (c *UpdateSecondary) Execute(state *project.State) error {
	return c.replace(state, c.after)
}

// Undo restores the pre-update child captured at construction time.
func (c *UpdateSecondary) Undo(state *project.State) error {
	return c.replace(state, c.before)
}

func (c *UpdateSecondary) replace(state *project.State, snapshot *effect.Effect) error {
	parent, err := parentAt(state, c.Type(), c.parentIndex)
	if err != nil {
		return err
	}
	children := copyEffectList(parent.SecondaryEffects)
	if err := checkIndex(c.index, len(children)); err != nil {
		return fmt.Errorf("%s: %w", c.Type(), err)
	}
	children[c.index] = snapshot.Copy()
	parent.SecondaryEffects = children
	return nil
}

// DeleteSecondary removes the secondary effect at a given position.
type DeleteSecondary struct {
	parentIndex int
	index       int
	removed     *effect.Effect
}

// NewDeleteSecondary creates a delete command, capturing a deep copy of the
// child for undo.
func NewDeleteSecondary(state *project.State, parentIndex, index int) (*DeleteSecondary, error) {
	parent, err := parentAt(state, TypeSecondaryDelete, parentIndex)
	if err != nil {
		return nil, err
	}
	if err := checkIndex(index, len(parent.SecondaryEffects)); err != nil {
		return nil, fmt.Errorf("%s: %w", TypeSecondaryDelete, err)
	}
	return &DeleteSecondary{
		parentIndex: parentIndex,
		index:       index,
		removed:     parent.SecondaryEffects[index].Copy(),
	}, nil
}

// Type implements Command.
func (c *DeleteSecondary) Type() Type { return TypeSecondaryDelete }

// Execute removes the child at the captured position.
func (c *DeleteSecondary) Execute(state *project.State) error {
	parent, err := parentAt(state, c.Type(), c.parentIndex)
	if err != nil {
		return err
	}
	children := copyEffectList(parent.SecondaryEffects)
	if err := checkIndex(c.index, len(children)); err != nil {
		return fmt.Errorf("%s: %w", c.Type(), err)
	}
	parent.SecondaryEffects = append(children[:c.index], children[c.index+1:]...)
	return nil
}

// Undo re-inserts a copy of the removed child at its original position.
func (c *DeleteSecondary) Undo(state *project.State) error {
	parent, err := parentAt(state, c.Type(), c.parentIndex)
	if err != nil {
		return err
	}
	children := copyEffectList(parent.SecondaryEffects)
	if c.index < 0 || c.index > len(children) {
		return fmt.Errorf("undo %s: %w", c.Type(), ErrIndexOutOfRange)
	}
	children = append(children, nil)
	copy(children[c.index+1:], children[c.index:])
	children[c.index] = c.removed.Copy()
	parent.SecondaryEffects = children
	return nil
}

// ReorderSecondary moves a secondary effect within its parent's list with
// splice semantics.
type ReorderSecondary struct {
	parentIndex int
	from        int
	to          int
}

// NewReorderSecondary creates a reorder command.
func NewReorderSecondary(parentIndex, from, to int) *ReorderSecondary {
	return &ReorderSecondary{parentIndex: parentIndex, from: from, to: to}
}

// Type implements Command.
func (c *ReorderSecondary) Type() Type { return TypeSecondaryReorder }

// Execute moves the child at from to position to.
func (c *ReorderSecondary) Execute(state *project.State) error {
	return c.move(state, c.from, c.to)
}

// Undo performs the inverse move.
func (c *ReorderSecondary) Undo(state *project.State) error {
	return c.move(state, c.to, c.from)
}

func (c *ReorderSecondary) move(state *project.State, from, to int) error {
	parent, err := parentAt(state, c.Type(), c.parentIndex)
	if err != nil {
		return err
	}
	children := copyEffectList(parent.SecondaryEffects)
	if err := checkIndex(from, len(children)); err != nil {
		return fmt.Errorf("%s: from: %w", c.Type(), err)
	}
	if err := checkIndex(to, len(children)); err != nil {
		return fmt.Errorf("%s: to: %w", c.Type(), err)
	}
	parent.SecondaryEffects = spliceMove(children, from, to)
	return nil
}
