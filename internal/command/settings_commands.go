package command

import (
	"fmt"

	"github.com/john-paul-ruf/nft-studio-sub010/internal/effect"
	"github.com/john-paul-ruf/nft-studio-sub010/internal/project"
)

// ChangeResolution replaces the project's target resolution.
//
// Position-valued effect config fields may need proportional rescaling when
// the resolution changes; that rescaling is a separate utility owned by the
// render collaborator, not part of this command's transactional contract.
type ChangeResolution struct {
	prev int
	next int
}

// NewChangeResolution creates a resolution change command, capturing the
// current resolution for undo.
func NewChangeResolution(state *project.State, next int) (*ChangeResolution, error) {
	if state == nil {
		return nil, ErrNilState
	}
	if next < 1 {
		return nil, fmt.Errorf("%s: %w: %d", TypeResolutionChange, ErrInvalidResolution, next)
	}
	return &ChangeResolution{prev: state.TargetResolution(), next: next}, nil
}

// Type implements Command.
func (c *ChangeResolution) Type() Type { return TypeResolutionChange }

// Execute applies the new resolution.
func (c *ChangeResolution) Execute(state *project.State) error {
	if state == nil {
		return ErrNilState
	}
	if c.next < 1 {
		return fmt.Errorf("%s: %w: %d", c.Type(), ErrInvalidResolution, c.next)
	}
	state.SetTargetResolution(c.next)
	return nil
}

// Undo restores the prior resolution.
func (c *ChangeResolution) Undo(state *project.State) error {
	if state == nil {
		return ErrNilState
	}
	state.SetTargetResolution(c.prev)
	return nil
}

// ChangeOrientation flips the project between horizontal and vertical.
type ChangeOrientation struct {
	prev bool
	next bool
}

// NewChangeOrientation creates an orientation change command.
func NewChangeOrientation(state *project.State, horizontal bool) (*ChangeOrientation, error) {
	if state == nil {
		return nil, ErrNilState
	}
	return &ChangeOrientation{prev: state.IsHorizontal(), next: horizontal}, nil
}

// Type implements Command.
func (c *ChangeOrientation) Type() Type { return TypeOrientationChange }

// Execute applies the new orientation.
func (c *ChangeOrientation) Execute(state *project.State) error {
	if state == nil {
		return ErrNilState
	}
	state.SetIsHorizontal(c.next)
	return nil
}

// Undo restores the prior orientation.
func (c *ChangeOrientation) Undo(state *project.State) error {
	if state == nil {
		return ErrNilState
	}
	state.SetIsHorizontal(c.prev)
	return nil
}

// ChangeFrameCount replaces the project's total frame count.
type ChangeFrameCount struct {
	prev int
	next int
}

// NewChangeFrameCount creates a frame count change command. Counts below one
// are rejected before any mutation.
func NewChangeFrameCount(state *project.State, next int) (*ChangeFrameCount, error) {
	if state == nil {
		return nil, ErrNilState
	}
	if next < 1 {
		return nil, fmt.Errorf("%s: %w: %d", TypeFramesChange, ErrInvalidFrameCount, next)
	}
	return &ChangeFrameCount{prev: state.NumFrames(), next: next}, nil
}

// Type implements Command.
func (c *ChangeFrameCount) Type() Type { return TypeFramesChange }

// Execute applies the new frame count.
func (c *ChangeFrameCount) Execute(state *project.State) error {
	if state == nil {
		return ErrNilState
	}
	if c.next < 1 {
		return fmt.Errorf("%s: %w: %d", c.Type(), ErrInvalidFrameCount, c.next)
	}
	state.SetNumFrames(c.next)
	return nil
}

// Undo restores the prior frame count.
func (c *ChangeFrameCount) Undo(state *project.State) error {
	if state == nil {
		return ErrNilState
	}
	state.SetNumFrames(c.prev)
	return nil
}

// ChangeColorScheme replaces the project's color scheme name and payload.
type ChangeColorScheme struct {
	prevName string
	prevData map[string]any
	nextName string
	nextData map[string]any
}

// NewChangeColorScheme creates a color scheme change command, capturing deep
// copies of both the prior and the new payload.
func NewChangeColorScheme(state *project.State, name string, data map[string]any) (*ChangeColorScheme, error) {
	if state == nil {
		return nil, ErrNilState
	}
	return &ChangeColorScheme{
		prevName: state.ColorScheme(),
		prevData: state.ColorSchemeData(),
		nextName: name,
		nextData: effect.CopyConfig(data),
	}, nil
}

// Type implements Command.
func (c *ChangeColorScheme) Type() Type { return TypeColorSchemeChange }

// Execute applies the new color scheme.
func (c *ChangeColorScheme) Execute(state *project.State) error {
	if state == nil {
		return ErrNilState
	}
	state.SetColorScheme(c.nextName, c.nextData)
	return nil
}

// Undo restores the prior color scheme.
func (c *ChangeColorScheme) Undo(state *project.State) error {
	if state == nil {
		return ErrNilState
	}
	state.SetColorScheme(c.prevName, c.prevData)
	return nil
}
