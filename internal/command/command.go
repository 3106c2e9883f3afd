// Package command implements reversible mutations of a project state and the
// service that executes them with exact undo/redo.
//
// Every command is constructed with everything it needs to both apply and
// reverse its change. Effect data is always captured as a deep copy, never as
// a reference into the live tree, so a later structural operation can never
// retroactively change what a command will restore on undo.
//
// Commands trust the positions they are given. A caller that captured an
// index before a reorder must re-resolve it by id immediately before
// constructing a command; the command layer cannot distinguish a stale index
// from a legitimate one.
package command

import (
	"errors"

	"github.com/john-paul-ruf/nft-studio-sub010/internal/project"
)

// Type identifies a command kind with a namespaced tag.
type Type string

// Top-level effect commands.
const (
	TypeEffectAdd     Type = "effect.add"
	TypeEffectUpdate  Type = "effect.update"
	TypeEffectDelete  Type = "effect.delete"
	TypeEffectReorder Type = "effect.reorder"
)

// Secondary effect commands, scoped to a parent position.
const (
	TypeSecondaryAdd     Type = "effect.secondary.add"
	TypeSecondaryUpdate  Type = "effect.secondary.update"
	TypeSecondaryDelete  Type = "effect.secondary.delete"
	TypeSecondaryReorder Type = "effect.secondary.reorder"
)

// Keyframe effect commands, scoped to a parent position.
const (
	TypeKeyframeAdd     Type = "effect.keyframe.add"
	TypeKeyframeUpdate  Type = "effect.keyframe.update"
	TypeKeyframeDelete  Type = "effect.keyframe.delete"
	TypeKeyframeReorder Type = "effect.keyframe.reorder"
)

// Scalar project setting commands.
const (
	TypeResolutionChange  Type = "project.resolution.change"
	TypeOrientationChange Type = "project.orientation.change"
	TypeFramesChange      Type = "project.frames.change"
	TypeColorSchemeChange Type = "project.colorscheme.change"
)

var (
	// ErrNilState indicates a nil project state.
	ErrNilState = errors.New("project state is required")
	// ErrNilEffect indicates a nil effect argument.
	ErrNilEffect = errors.New("effect is required")
	// ErrIndexOutOfRange indicates a position outside the target list.
	ErrIndexOutOfRange = errors.New("index is out of range")
	// ErrParentIndexOutOfRange indicates a parent position outside the effect list.
	ErrParentIndexOutOfRange = errors.New("parent index is out of range")
	// ErrParentKindMismatch indicates a parent that cannot carry child effects.
	ErrParentKindMismatch = errors.New("parent effect kind does not allow children")
	// ErrChildKindMismatch indicates an effect of the wrong kind for the target list.
	ErrChildKindMismatch = errors.New("effect kind does not match the target list")
	// ErrInvalidResolution indicates a non-positive target resolution.
	ErrInvalidResolution = errors.New("target resolution must be positive")
	// ErrInvalidFrameCount indicates a non-positive frame count.
	ErrInvalidFrameCount = errors.New("frame count must be positive")
)

// Command is a reversible unit of mutation against a project state. Undo
// exactly reverses the effect of Execute on the same state.
type Command interface {
	Type() Type
	Execute(state *project.State) error
	Undo(state *project.State) error
}

// spliceMove removes the element at from and reinserts it at to, with to
// interpreted against the shortened list. This is a move, not a swap; the
// inverse move with the indices exchanged restores the original order.
func spliceMove[T any](list []T, from, to int) []T {
	moved := list[from]
	list = append(list[:from], list[from+1:]...)
	list = append(list, *new(T))
	copy(list[to+1:], list[to:])
	list[to] = moved
	return list
}

func checkIndex(index, length int) error {
	if index < 0 || index >= length {
		return ErrIndexOutOfRange
	}
	return nil
}
