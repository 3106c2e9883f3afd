// Package effect defines the effect tree node: a configurable visual unit
// with a stable identity and optional secondary and keyframe children.
package effect

import (
	"errors"
	"fmt"
	"strings"

	"github.com/john-paul-ruf/nft-studio-sub010/internal/id"
)

// Kind identifies the role of an effect within the tree.
type Kind string

const (
	// KindPrimary is a top-level effect rendered per frame.
	KindPrimary Kind = "primary"
	// KindSecondary is a child effect applied after its parent.
	KindSecondary Kind = "secondary"
	// KindFinalImage is a post-processing effect applied to the finished frame.
	KindFinalImage Kind = "finalImage"
	// KindSpecialty is a primary-family effect with non-standard rendering.
	KindSpecialty Kind = "specialty"
	// KindKeyframe is a child effect bound to a specific frame number.
	KindKeyframe Kind = "keyframe"
)

// IsValid reports whether the kind is one of the five known values.
func (k Kind) IsValid() bool {
	switch k {
	case KindPrimary, KindSecondary, KindFinalImage, KindSpecialty, KindKeyframe:
		return true
	}
	return false
}

// AllowsChildren reports whether effects of this kind may carry secondary
// and keyframe child lists. Only the primary family does.
func (k Kind) AllowsChildren() bool {
	switch k {
	case KindPrimary, KindFinalImage, KindSpecialty:
		return true
	}
	return false
}

var (
	// ErrMissingID indicates a missing effect id.
	ErrMissingID = errors.New("effect id is required")
	// ErrMissingName indicates a missing effect name.
	ErrMissingName = errors.New("effect name is required")
	// ErrInvalidKind indicates an unknown effect kind.
	ErrInvalidKind = errors.New("effect kind is invalid")
	// ErrMissingConfig indicates a missing config map.
	ErrMissingConfig = errors.New("effect config is required")
	// ErrPercentChanceRange indicates a percent chance outside [0,100].
	ErrPercentChanceRange = errors.New("percent chance must be between 0 and 100")
	// ErrNegativeFrame indicates a negative keyframe frame number.
	ErrNegativeFrame = errors.New("keyframe frame must not be negative")
	// ErrNilPatch indicates a nil config patch.
	ErrNilPatch = errors.New("config patch is required")
)

// Effect is a node in the effect tree. The ID is assigned at creation and
// never changes for the node's lifetime; it is the only safe handle across
// structural mutation. Config is exclusively owned by the node and must never
// be shared by reference with another node or with command history.
type Effect struct {
	ID            string
	Name          string
	ClassName     string
	RegistryKey   string
	Kind          Kind
	Config        map[string]any
	PercentChance float64
	Visible       bool
	// Frame is the bound frame number for keyframe effects; ignored otherwise.
	Frame            int
	SecondaryEffects []*Effect
	KeyframeEffects  []*Effect
}

// NewEffectInput describes the fields needed to construct an effect.
// ClassName and RegistryKey default to Name. PercentChance defaults to 100
// and Visible to true when left nil.
type NewEffectInput struct {
	ID            string
	Name          string
	ClassName     string
	RegistryKey   string
	Kind          Kind
	Config        map[string]any
	PercentChance *float64
	Visible       *bool
	Frame         int
}

// New constructs an effect from the provided input. The config map is
// deep-copied so the caller's map is never aliased.
func New(input NewEffectInput) (*Effect, error) {
	input.ID = strings.TrimSpace(input.ID)
	if input.ID == "" {
		return nil, ErrMissingID
	}
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return nil, ErrMissingName
	}
	if !input.Kind.IsValid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, input.Kind)
	}
	if input.Config == nil {
		return nil, ErrMissingConfig
	}

	percentChance := 100.0
	if input.PercentChance != nil {
		percentChance = *input.PercentChance
	}
	if percentChance < 0 || percentChance > 100 {
		return nil, fmt.Errorf("%w: %v", ErrPercentChanceRange, percentChance)
	}

	visible := true
	if input.Visible != nil {
		visible = *input.Visible
	}

	if input.Kind == KindKeyframe && input.Frame < 0 {
		return nil, fmt.Errorf("%w: %d", ErrNegativeFrame, input.Frame)
	}

	className := strings.TrimSpace(input.ClassName)
	if className == "" {
		className = input.Name
	}
	registryKey := strings.TrimSpace(input.RegistryKey)
	if registryKey == "" {
		registryKey = input.Name
	}

	return &Effect{
		ID:            input.ID,
		Name:          input.Name,
		ClassName:     className,
		RegistryKey:   registryKey,
		Kind:          input.Kind,
		Config:        CopyConfig(input.Config),
		PercentChance: percentChance,
		Visible:       visible,
		Frame:         input.Frame,
	}, nil
}

// Create constructs an effect with a freshly generated id. A nil idGenerator
// defaults to id.NewID.
func Create(input NewEffectInput, idGenerator func() (string, error)) (*Effect, error) {
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	generated, err := idGenerator()
	if err != nil {
		return nil, fmt.Errorf("generate effect id: %w", err)
	}
	input.ID = generated
	return New(input)
}

// Copy returns an exact deep copy of the effect, preserving every id.
// Commands and snapshots use Copy so that no live reference ever escapes
// into command history or out of a state read.
func (e *Effect) Copy() *Effect {
	if e == nil {
		return nil
	}
	duplicate := &Effect{
		ID:            e.ID,
		Name:          e.Name,
		ClassName:     e.ClassName,
		RegistryKey:   e.RegistryKey,
		Kind:          e.Kind,
		Config:        CopyConfig(e.Config),
		PercentChance: e.PercentChance,
		Visible:       e.Visible,
		Frame:         e.Frame,
	}
	if e.SecondaryEffects != nil {
		duplicate.SecondaryEffects = make([]*Effect, len(e.SecondaryEffects))
		for i, child := range e.SecondaryEffects {
			duplicate.SecondaryEffects[i] = child.Copy()
		}
	}
	if e.KeyframeEffects != nil {
		duplicate.KeyframeEffects = make([]*Effect, len(e.KeyframeEffects))
		for i, child := range e.KeyframeEffects {
			duplicate.KeyframeEffects[i] = child.Copy()
		}
	}
	return duplicate
}

// Clone returns a deep copy of the effect with a freshly generated id for the
// node and, recursively, for every descendant. The original's ids never
// appear anywhere in the result.
func (e *Effect) Clone() (*Effect, error) {
	return e.CloneWithIDGenerator(id.NewID)
}

// CloneWithIDGenerator is Clone with an injectable id generator.
func (e *Effect) CloneWithIDGenerator(idGenerator func() (string, error)) (*Effect, error) {
	if e == nil {
		return nil, fmt.Errorf("clone: %w", ErrMissingID)
	}
	if idGenerator == nil {
		idGenerator = id.NewID
	}
	duplicate := e.Copy()
	if err := regenerateIDs(duplicate, idGenerator); err != nil {
		return nil, err
	}
	return duplicate, nil
}

func regenerateIDs(e *Effect, idGenerator func() (string, error)) error {
	generated, err := idGenerator()
	if err != nil {
		return fmt.Errorf("generate clone id: %w", err)
	}
	e.ID = generated
	for _, child := range e.SecondaryEffects {
		if err := regenerateIDs(child, idGenerator); err != nil {
			return err
		}
	}
	for _, child := range e.KeyframeEffects {
		if err := regenerateIDs(child, idGenerator); err != nil {
			return err
		}
	}
	return nil
}

// MergeConfig shallow-merges patch into the effect's config. Patch values are
// deep-copied before merging. The receiver is returned for chaining.
func (e *Effect) MergeConfig(patch map[string]any) (*Effect, error) {
	if patch == nil {
		return nil, ErrNilPatch
	}
	if e.Config == nil {
		e.Config = make(map[string]any, len(patch))
	}
	for key, value := range patch {
		e.Config[key] = copyValue(value)
	}
	return e, nil
}

// Is reports whether the effect has the given kind.
func (e *Effect) Is(kind Kind) bool { return e != nil && e.Kind == kind }

// IsPrimary reports whether the effect is a primary effect.
func (e *Effect) IsPrimary() bool { return e.Is(KindPrimary) }

// IsSecondary reports whether the effect is a secondary effect.
func (e *Effect) IsSecondary() bool { return e.Is(KindSecondary) }

// IsFinalImage reports whether the effect is a final-image effect.
func (e *Effect) IsFinalImage() bool { return e.Is(KindFinalImage) }

// HasSecondaryEffects reports whether the effect carries secondary children.
func (e *Effect) HasSecondaryEffects() bool {
	return e != nil && len(e.SecondaryEffects) > 0
}

// HasKeyframeEffects reports whether the effect carries keyframe children.
func (e *Effect) HasKeyframeEffects() bool {
	return e != nil && len(e.KeyframeEffects) > 0
}

// AllNestedEffects returns the secondary children followed by the keyframe
// children, preserving list order. The returned slice is freshly allocated
// but holds the live child references.
func (e *Effect) AllNestedEffects() []*Effect {
	if e == nil {
		return nil
	}
	nested := make([]*Effect, 0, len(e.SecondaryEffects)+len(e.KeyframeEffects))
	nested = append(nested, e.SecondaryEffects...)
	nested = append(nested, e.KeyframeEffects...)
	return nested
}

// CopyConfig deep-copies an opaque config map. Nested maps and slices are
// copied recursively; scalar values are copied as-is.
func CopyConfig(config map[string]any) map[string]any {
	if config == nil {
		return nil
	}
	duplicate := make(map[string]any, len(config))
	for key, value := range config {
		duplicate[key] = copyValue(value)
	}
	return duplicate
}

func copyValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return CopyConfig(typed)
	case []any:
		duplicate := make([]any, len(typed))
		for i, element := range typed {
			duplicate[i] = copyValue(element)
		}
		return duplicate
	default:
		return value
	}
}
