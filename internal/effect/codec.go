package effect

import (
	"errors"
	"fmt"
)

// SchemaVersion is the current serialized effect schema version.
const SchemaVersion = 1

// ErrNilSnapshot indicates a nil snapshot passed to FromSnapshot.
var ErrNilSnapshot = errors.New("effect snapshot is required")

// Snapshot is the plain serialized form of an effect used at persistence and
// transport boundaries. It carries no behavior and no live references.
//
// AttachedEffects is the deprecated wire name for the keyframe child list.
// Decoding reads KeyframeEffects when the field is present and falls back to
// AttachedEffects only when it is absent; the two are never merged. Encoding
// always writes KeyframeEffects.
type Snapshot struct {
	SchemaVersion    int            `json:"schemaVersion,omitempty"`
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	ClassName        string         `json:"className,omitempty"`
	RegistryKey      string         `json:"registryKey,omitempty"`
	Kind             string         `json:"type"`
	Config           map[string]any `json:"config"`
	PercentChance    *float64       `json:"percentChance,omitempty"`
	Visible          *bool          `json:"visible,omitempty"`
	Frame            int            `json:"frame,omitempty"`
	SecondaryEffects []Snapshot     `json:"secondaryEffects,omitempty"`
	KeyframeEffects  []Snapshot     `json:"keyframeEffects,omitempty"`
	// Deprecated: retained for decoding documents written before the
	// keyframeEffects rename.
	AttachedEffects []Snapshot `json:"attachedEffects,omitempty"`
}

// FromSnapshot reconstructs an effect tree from its serialized form,
// recursively reconstructing child lists with strict validation.
func FromSnapshot(snapshot *Snapshot) (*Effect, error) {
	if snapshot == nil {
		return nil, ErrNilSnapshot
	}
	reconstructed, err := New(NewEffectInput{
		ID:            snapshot.ID,
		Name:          snapshot.Name,
		ClassName:     snapshot.ClassName,
		RegistryKey:   snapshot.RegistryKey,
		Kind:          Kind(snapshot.Kind),
		Config:        snapshot.Config,
		PercentChance: snapshot.PercentChance,
		Visible:       snapshot.Visible,
		Frame:         snapshot.Frame,
	})
	if err != nil {
		return nil, err
	}

	for i := range snapshot.SecondaryEffects {
		child, err := FromSnapshot(&snapshot.SecondaryEffects[i])
		if err != nil {
			return nil, fmt.Errorf("secondaryEffects[%d]: %w", i, err)
		}
		reconstructed.SecondaryEffects = append(reconstructed.SecondaryEffects, child)
	}

	keyframes := snapshot.KeyframeEffects
	if keyframes == nil {
		keyframes = snapshot.AttachedEffects
	}
	for i := range keyframes {
		child, err := FromSnapshot(&keyframes[i])
		if err != nil {
			return nil, fmt.Errorf("keyframeEffects[%d]: %w", i, err)
		}
		reconstructed.KeyframeEffects = append(reconstructed.KeyframeEffects, child)
	}

	return reconstructed, nil
}

// Snapshot produces the serialized form of the effect. The result shares no
// references with the live node; round-tripping through FromSnapshot yields a
// deep-equal effect.
func (e *Effect) Snapshot() Snapshot {
	if e == nil {
		return Snapshot{}
	}
	percentChance := e.PercentChance
	visible := e.Visible
	snapshot := Snapshot{
		SchemaVersion: SchemaVersion,
		ID:            e.ID,
		Name:          e.Name,
		ClassName:     e.ClassName,
		RegistryKey:   e.RegistryKey,
		Kind:          string(e.Kind),
		Config:        CopyConfig(e.Config),
		PercentChance: &percentChance,
		Visible:       &visible,
		Frame:         e.Frame,
	}
	for _, child := range e.SecondaryEffects {
		snapshot.SecondaryEffects = append(snapshot.SecondaryEffects, child.Snapshot())
	}
	for _, child := range e.KeyframeEffects {
		snapshot.KeyframeEffects = append(snapshot.KeyframeEffects, child.Snapshot())
	}
	return snapshot
}
