package command

import (
	"fmt"

	"github.com/john-paul-ruf/nft-studio-sub010/internal/effect"
	"github.com/john-paul-ruf/nft-studio-sub010/internal/project"
)

// AddKeyframe appends a keyframe effect, carrying its bound frame, to a
// parent's keyframe list.
type AddKeyframe struct {
	parentIndex int
	added       *effect.Effect
	index       int
}

// NewAddKeyframe creates an add command for a keyframe child. The effect's
// Frame is carried along with it and must not be negative.
func NewAddKeyframe(parentIndex int, added *effect.Effect) (*AddKeyframe, error) {
	if added == nil {
		return nil, ErrNilEffect
	}
	if !added.Is(effect.KindKeyframe) {
		return nil, fmt.Errorf("%s: %w: %s", TypeKeyframeAdd, ErrChildKindMismatch, added.Kind)
	}
	if added.Frame < 0 {
		return nil, fmt.Errorf("%s: %w", TypeKeyframeAdd, effect.ErrNegativeFrame)
	}
	return &AddKeyframe{parentIndex: parentIndex, added: added.Copy()}, nil
}

// Type implements Command.
func (c *AddKeyframe) Type() Type { return TypeKeyframeAdd }

// Execute appends a copy of the captured effect to the parent's list.
func (c *AddKeyframe) Execute(state *project.State) error {
	parent, err := parentAt(state, c.Type(), c.parentIndex)
	if err != nil {
		return err
	}
	parent.KeyframeEffects = append(copyEffectList(parent.KeyframeEffects), c.added.Copy())
	c.index = len(parent.KeyframeEffects) - 1
	return nil
}

// Undo removes the added child by position.
func (c *AddKeyframe) Undo(state *project.State) error {
	parent, err := parentAt(state, c.Type(), c.parentIndex)
	if err != nil {
		return err
	}
	children := copyEffectList(parent.KeyframeEffects)
	if err := checkIndex(c.index, len(children)); err != nil {
		return fmt.Errorf("undo %s: %w", c.Type(), err)
	}
	parent.KeyframeEffects = append(children[:c.index], children[c.index+1:]...)
	return nil
}

// UpdateKeyframe replaces the keyframe effect at a given position.
type UpdateKeyframe struct {
	parentIndex int
	index       int
	before      *effect.Effect
	after       *effect.Effect
}

// NewUpdateKeyframe creates an update command, capturing deep copies of both
// the current child and the replacement.
func NewUpdateKeyframe(state *project.State, parentIndex, index int, replacement *effect.Effect) (*UpdateKeyframe, error) {
	if replacement == nil {
		return nil, ErrNilEffect
	}
	if !replacement.Is(effect.KindKeyframe) {
		return nil, fmt.Errorf("%s: %w: %s", TypeKeyframeUpdate, ErrChildKindMismatch, replacement.Kind)
	}
	if replacement.Frame < 0 {
		return nil, fmt.Errorf("%s: %w", TypeKeyframeUpdate, effect.ErrNegativeFrame)
	}
	parent, err := parentAt(state, TypeKeyframeUpdate, parentIndex)
	if err != nil {
		return nil, err
	}
	if err := checkIndex(index, len(parent.KeyframeEffects)); err != nil {
		return nil, fmt.Errorf("%s: %w", TypeKeyframeUpdate, err)
	}
	return &UpdateKeyframe{
		parentIndex: parentIndex,
		index:       index,
		before:      parent.KeyframeEffects[index].Copy(),
		after:       replacement.Copy(),
	}, nil
}

// Type implements Command.
func (c *UpdateKeyframe) Type() Type { return TypeKeyframeUpdate }

// Execute replaces the child at the captured position with the replacement.
func (c *UpdateKeyframe) Execute(state *project.State) error {
	return c.replace(state, c.after)
}

// Undo restores the pre-update child captured at construction time.
func (c *UpdateKeyframe) Undo(state *project.State) error {
	return c.replace(state, c.before)
}

func (c *UpdateKeyframe) replace(state *project.State, snapshot *effect.Effect) error {
	parent, err := parentAt(state, c.Type(), c.parentIndex)
	if err != nil {
		return err
	}
	children := copyEffectList(parent.KeyframeEffects)
	if err := checkIndex(c.index, len(children)); err != nil {
		return fmt.Errorf("%s: %w", c.Type(), err)
	}
	children[c.index] = snapshot.Copy()
	parent.KeyframeEffects = children
	return nil
}

// DeleteKeyframe removes the keyframe effect at a given position.
type DeleteKeyframe struct {
	parentIndex int
	index       int
	removed     *effect.Effect
}

// NewDeleteKeyframe creates a delete command, capturing a deep copy of the
// child for undo.
func NewDeleteKeyframe(state *project.State, parentIndex, index int) (*DeleteKeyframe, error) {
	parent, err := parentAt(state, TypeKeyframeDelete, parentIndex)
	if err != nil {
		return nil, err
	}
	if err := checkIndex(index, len(parent.KeyframeEffects)); err != nil {
		return nil, fmt.Errorf("%s: %w", TypeKeyframeDelete, err)
	}
	return &DeleteKeyframe{
		parentIndex: parentIndex,
		index:       index,
		removed:     parent.KeyframeEffects[index].Copy(),
	}, nil
}

// Type implements Command.
func (c *DeleteKeyframe) Type() Type { return TypeKeyframeDelete }

// Execute removes the child at the captured position.
func (c *DeleteKeyframe) Execute(state *project.State) error {
	parent, err := parentAt(state, c.Type(), c.parentIndex)
	if err != nil {
		return err
	}
	children := copyEffectList(parent.KeyframeEffects)
	if err := checkIndex(c.index, len(children)); err != nil {
		return fmt.Errorf("%s: %w", c.Type(), err)
	}
	parent.KeyframeEffects = append(children[:c.index], children[c.index+1:]...)
	return nil
}

// Undo re-inserts a copy of the removed child at its original position.
func (c *DeleteKeyframe) Undo(state *project.State) error {
	parent, err := parentAt(state, c.Type(), c.parentIndex)
	if err != nil {
		return err
	}
	children := copyEffectList(parent.KeyframeEffects)
	if c.index < 0 || c.index > len(children) {
		return fmt.Errorf("undo %s: %w", c.Type(), ErrIndexOutOfRange)
	}
	children = append(children, nil)
	copy(children[c.index+1:], children[c.index:])
	children[c.index] = c.removed.Copy()
	parent.KeyframeEffects = children
	return nil
}

// ReorderKeyframe moves a keyframe effect within its parent's list with
// splice semantics.
type ReorderKeyframe struct {
	parentIndex int
	from        int
	to          int
}

// NewReorderKeyframe creates a reorder command.
func NewReorderKeyframe(parentIndex, from, to int) *ReorderKeyframe {
	return &ReorderKeyframe{parentIndex: parentIndex, from: from, to: to}
}

// Type implements Command.
func (c *ReorderKeyframe) Type() Type { return TypeKeyframeReorder }

// Execute moves the child at from to position to.
func (c *ReorderKeyframe) Execute(state *project.State) error {
	return c.move(state, c.from, c.to)
}

// Undo performs the inverse move.
func (c *ReorderKeyframe) Undo(state *project.State) error {
	return c.move(state, c.to, c.from)
}

func (c *ReorderKeyframe) move(state *project.State, from, to int) error {
	parent, err := parentAt(state, c.Type(), c.parentIndex)
	if err != nil {
		return err
	}
	children := copyEffectList(parent.KeyframeEffects)
	if err := checkIndex(from, len(children)); err != nil {
		return fmt.Errorf("%s: from: %w", c.Type(), err)
	}
	if err := checkIndex(to, len(children)); err != nil {
		return fmt.Errorf("%s: to: %w", c.Type(), err)
	}
	parent.KeyframeEffects = spliceMove(children, from, to)
	return nil
}
