package app

import (
	"errors"
	"fmt"

	"github.com/john-paul-ruf/nft-studio-sub010/internal/command"
	"github.com/john-paul-ruf/nft-studio-sub010/internal/effect"
	"github.com/john-paul-ruf/nft-studio-sub010/internal/id"
	"github.com/john-paul-ruf/nft-studio-sub010/internal/project"
)

var (
	// ErrUnknownCommandType indicates a dispatch request with an
	// unrecognized command type.
	ErrUnknownCommandType = errors.New("unknown command type")
	// ErrMissingEffectPayload indicates an add or update request without an
	// effect payload.
	ErrMissingEffectPayload = errors.New("effect payload is required")
	// ErrEffectNotFound indicates a request addressing an effect ID that is
	// not in the current state.
	ErrEffectNotFound = errors.New("effect not found")
	// ErrParentNotFound indicates a request addressing a parent effect ID
	// that is not in the current state.
	ErrParentNotFound = errors.New("parent effect not found")
)

// DispatchRequest is the wire form of a command. Clients address effects by
// ID; positions are resolved against the live state when the command is
// built, immediately before execution, so positions captured by a stale
// client view are never trusted.
type DispatchRequest struct {
	Type string `json:"type"`

	// Effect carries the payload for add and update commands.
	Effect *effect.Snapshot `json:"effect,omitempty"`
	// EffectID addresses the target of update, delete, and reorder
	// commands. For child commands it addresses the child.
	EffectID string `json:"effectId,omitempty"`
	// ParentID addresses the parent of secondary and keyframe commands.
	ParentID string `json:"parentId,omitempty"`
	// To is the destination position for reorder commands.
	To int `json:"to,omitempty"`

	// Scalar setting payloads.
	Resolution      int            `json:"resolution,omitempty"`
	Horizontal      *bool          `json:"horizontal,omitempty"`
	NumFrames       int            `json:"numFrames,omitempty"`
	ColorScheme     string         `json:"colorScheme,omitempty"`
	ColorSchemeData map[string]any `json:"colorSchemeData,omitempty"`
}

// BuildCommand translates a dispatch request into an executable command,
// resolving effect IDs to positions against the current state.
func BuildCommand(state *project.State, req DispatchRequest) (command.Command, error) {
	if state == nil {
		return nil, command.ErrNilState
	}

	switch command.Type(req.Type) {
	case command.TypeEffectAdd:
		added, err := decodeEffectPayload(req.Effect)
		if err != nil {
			return nil, err
		}
		return command.NewAddEffect(added)

	case command.TypeEffectUpdate:
		index, err := resolveEffect(state, req.EffectID)
		if err != nil {
			return nil, err
		}
		replacement, err := decodeEffectPayload(req.Effect)
		if err != nil {
			return nil, err
		}
		return command.NewUpdateEffect(state, index, replacement)

	case command.TypeEffectDelete:
		index, err := resolveEffect(state, req.EffectID)
		if err != nil {
			return nil, err
		}
		return command.NewDeleteEffect(state, index)

	case command.TypeEffectReorder:
		index, err := resolveEffect(state, req.EffectID)
		if err != nil {
			return nil, err
		}
		return command.NewReorderEffect(index, req.To), nil

	case command.TypeSecondaryAdd:
		parentIndex, err := resolveEffect(state, req.ParentID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrParentNotFound, req.ParentID)
		}
		added, err := decodeEffectPayload(req.Effect)
		if err != nil {
			return nil, err
		}
		return command.NewAddSecondary(parentIndex, added)

	case command.TypeSecondaryUpdate:
		parentIndex, index, err := resolveSecondary(state, req.ParentID, req.EffectID)
		if err != nil {
			return nil, err
		}
		replacement, err := decodeEffectPayload(req.Effect)
		if err != nil {
			return nil, err
		}
		return command.NewUpdateSecondary(state, parentIndex, index, replacement)

	case command.TypeSecondaryDelete:
		parentIndex, index, err := resolveSecondary(state, req.ParentID, req.EffectID)
		if err != nil {
			return nil, err
		}
		return command.NewDeleteSecondary(state, parentIndex, index)

	case command.TypeSecondaryReorder:
		parentIndex, index, err := resolveSecondary(state, req.ParentID, req.EffectID)
		if err != nil {
			return nil, err
		}
		return command.NewReorderSecondary(parentIndex, index, req.To), nil

	case command.TypeKeyframeAdd:
		parentIndex, err := resolveEffect(state, req.ParentID)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrParentNotFound, req.ParentID)
		}
		added, err := decodeEffectPayload(req.Effect)
		if err != nil {
			return nil, err
		}
		return command.NewAddKeyframe(parentIndex, added)

	case command.TypeKeyframeUpdate:
		parentIndex, index, err := resolveKeyframe(state, req.ParentID, req.EffectID)
		if err != nil {
			return nil, err
		}
		replacement, err := decodeEffectPayload(req.Effect)
		if err != nil {
			return nil, err
		}
		return command.NewUpdateKeyframe(state, parentIndex, index, replacement)

	case command.TypeKeyframeDelete:
		parentIndex, index, err := resolveKeyframe(state, req.ParentID, req.EffectID)
		if err != nil {
			return nil, err
		}
		return command.NewDeleteKeyframe(state, parentIndex, index)

	case command.TypeKeyframeReorder:
		parentIndex, index, err := resolveKeyframe(state, req.ParentID, req.EffectID)
		if err != nil {
			return nil, err
		}
		return command.NewReorderKeyframe(parentIndex, index, req.To), nil

	case command.TypeResolutionChange:
		return command.NewChangeResolution(state, req.Resolution)

	case command.TypeOrientationChange:
		horizontal := false
		if req.Horizontal != nil {
			horizontal = *req.Horizontal
		}
		return command.NewChangeOrientation(state, horizontal)

	case command.TypeFramesChange:
		return command.NewChangeFrameCount(state, req.NumFrames)

	case command.TypeColorSchemeChange:
		return command.NewChangeColorScheme(state, req.ColorScheme, req.ColorSchemeData)

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCommandType, req.Type)
	}
}

// decodeEffectPayload reconstructs an effect from its wire form, assigning
// fresh IDs to any nodes the client left unidentified.
func decodeEffectPayload(snapshot *effect.Snapshot) (*effect.Effect, error) {
	if snapshot == nil {
		return nil, ErrMissingEffectPayload
	}
	if err := ensureIDs(snapshot); err != nil {
		return nil, err
	}
	return effect.FromSnapshot(snapshot)
}

func ensureIDs(snapshot *effect.Snapshot) error {
	if snapshot.ID == "" {
		generated, err := id.NewID()
		if err != nil {
			return fmt.Errorf("assign effect id: %w", err)
		}
		snapshot.ID = generated
	}
	for i := range snapshot.SecondaryEffects {
		if err := ensureIDs(&snapshot.SecondaryEffects[i]); err != nil {
			return err
		}
	}
	for i := range snapshot.KeyframeEffects {
		if err := ensureIDs(&snapshot.KeyframeEffects[i]); err != nil {
			return err
		}
	}
	for i := range snapshot.AttachedEffects {
		if err := ensureIDs(&snapshot.AttachedEffects[i]); err != nil {
			return err
		}
	}
	return nil
}

func resolveEffect(state *project.State, effectID string) (int, error) {
	if effectID == "" {
		return 0, fmt.Errorf("%w: effect id is required", ErrEffectNotFound)
	}
	index, ok := state.IndexOfEffect(effectID)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrEffectNotFound, effectID)
	}
	return index, nil
}

func resolveSecondary(state *project.State, parentID, effectID string) (int, int, error) {
	parentIndex, ok := state.IndexOfEffect(parentID)
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s", ErrParentNotFound, parentID)
	}
	index, ok := state.IndexOfSecondary(parentIndex, effectID)
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s", ErrEffectNotFound, effectID)
	}
	return parentIndex, index, nil
}

func resolveKeyframe(state *project.State, parentID, effectID string) (int, int, error) {
	parentIndex, ok := state.IndexOfEffect(parentID)
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s", ErrParentNotFound, parentID)
	}
	index, ok := state.IndexOfKeyframe(parentIndex, effectID)
	if !ok {
		return 0, 0, fmt.Errorf("%w: %s", ErrEffectNotFound, effectID)
	}
	return parentIndex, index, nil
}
