// Package project defines the in-memory project document: the ordered
// top-level effect list plus scalar project settings.
package project

import (
	"errors"

	"github.com/john-paul-ruf/nft-studio-sub010/internal/effect"
)

var (
	// ErrNilEffects indicates a nil effects slice passed to SetEffects.
	ErrNilEffects = errors.New("effects slice is required")
)

// Settings holds the scalar project settings.
type Settings struct {
	TargetResolution int
	IsHorizontal     bool
	NumFrames        int
	ColorScheme      string
	ColorSchemeData  map[string]any
}

// DefaultSettings returns the settings for a freshly created project.
func DefaultSettings() Settings {
	return Settings{
		TargetResolution: 1920,
		IsHorizontal:     true,
		NumFrames:        100,
		ColorScheme:      "default",
	}
}

// State is the mutable project document. It is owned by a single session and
// mutated exclusively through commands; the setters below exist for commands
// to call, not for ad hoc callers. Readers use Snapshot.
type State struct {
	targetResolution int
	isHorizontal     bool
	numFrames        int
	colorScheme      string
	colorSchemeData  map[string]any
	effects          []*effect.Effect
}

// NewState creates a project document with the given settings and no effects.
func NewState(settings Settings) *State {
	return &State{
		targetResolution: settings.TargetResolution,
		isHorizontal:     settings.IsHorizontal,
		numFrames:        settings.NumFrames,
		colorScheme:      settings.ColorScheme,
		colorSchemeData:  effect.CopyConfig(settings.ColorSchemeData),
	}
}

// Snapshot is a deep structural copy of the project state. Mutating a
// snapshot never affects the live document.
type Snapshot struct {
	TargetResolution int
	IsHorizontal     bool
	NumFrames        int
	ColorScheme      string
	ColorSchemeData  map[string]any
	Effects          []*effect.Effect
}

// Snapshot returns a deep copy of the current state. No live mutable
// sub-object escapes through the returned value.
func (s *State) Snapshot() Snapshot {
	snapshot := Snapshot{
		TargetResolution: s.targetResolution,
		IsHorizontal:     s.isHorizontal,
		NumFrames:        s.numFrames,
		ColorScheme:      s.colorScheme,
		ColorSchemeData:  effect.CopyConfig(s.colorSchemeData),
		Effects:          make([]*effect.Effect, len(s.effects)),
	}
	for i, e := range s.effects {
		snapshot.Effects[i] = e.Copy()
	}
	return snapshot
}

// Effects returns the live top-level effect list. It exists for commands and
// identity resolution; all other readers must use Snapshot.
func (s *State) Effects() []*effect.Effect { return s.effects }

// EffectCount returns the number of top-level effects.
func (s *State) EffectCount() int { return len(s.effects) }

// EffectAt returns the live effect at the given position.
func (s *State) EffectAt(index int) (*effect.Effect, bool) {
	if index < 0 || index >= len(s.effects) {
		return nil, false
	}
	return s.effects[index], true
}

// TargetResolution returns the longest-edge resolution in pixels.
func (s *State) TargetResolution() int { return s.targetResolution }

// IsHorizontal reports the project orientation.
func (s *State) IsHorizontal() bool { return s.isHorizontal }

// NumFrames returns the total frame count.
func (s *State) NumFrames() int { return s.numFrames }

// ColorScheme returns the active color scheme name.
func (s *State) ColorScheme() string { return s.colorScheme }

// ColorSchemeData returns a deep copy of the color scheme payload.
func (s *State) ColorSchemeData() map[string]any {
	return effect.CopyConfig(s.colorSchemeData)
}

// SetEffects replaces the top-level effect list. Command use only.
func (s *State) SetEffects(effects []*effect.Effect) error {
	if effects == nil {
		return ErrNilEffects
	}
	s.effects = effects
	return nil
}

// SetTargetResolution replaces the target resolution. Command use only; range
// validation is the command's responsibility.
func (s *State) SetTargetResolution(resolution int) { s.targetResolution = resolution }

// SetIsHorizontal replaces the orientation. Command use only.
func (s *State) SetIsHorizontal(horizontal bool) { s.isHorizontal = horizontal }

// SetNumFrames replaces the frame count. Command use only; range validation
// is the command's responsibility.
func (s *State) SetNumFrames(frames int) { s.numFrames = frames }

// SetColorScheme replaces the color scheme name and payload. Command use only.
func (s *State) SetColorScheme(name string, data map[string]any) {
	s.colorScheme = name
	s.colorSchemeData = effect.CopyConfig(data)
}
