package project

import (
	"errors"
	"fmt"

	"github.com/john-paul-ruf/nft-studio-sub010/internal/effect"
)

// SchemaVersion is the current serialized project schema version.
const SchemaVersion = 1

// ErrNilDocument indicates a nil document passed to FromDocument.
var ErrNilDocument = errors.New("project document is required")

// Document is the plain serialized form of a project used at persistence and
// transport boundaries.
type Document struct {
	SchemaVersion    int               `json:"schemaVersion"`
	TargetResolution int               `json:"targetResolution"`
	IsHorizontal     bool              `json:"isHorizontal"`
	NumFrames        int               `json:"numFrames"`
	ColorScheme      string            `json:"colorScheme,omitempty"`
	ColorSchemeData  map[string]any    `json:"colorSchemeData,omitempty"`
	Effects          []effect.Snapshot `json:"effects"`
}

// Document produces the serialized form of the current state. The result
// shares no references with the live document.
func (s *State) Document() Document {
	doc := Document{
		SchemaVersion:    SchemaVersion,
		TargetResolution: s.targetResolution,
		IsHorizontal:     s.isHorizontal,
		NumFrames:        s.numFrames,
		ColorScheme:      s.colorScheme,
		ColorSchemeData:  effect.CopyConfig(s.colorSchemeData),
	}
	for _, e := range s.effects {
		doc.Effects = append(doc.Effects, e.Snapshot())
	}
	return doc
}

// FromDocument reconstructs a project state from its serialized form with
// strict effect validation.
func FromDocument(doc *Document) (*State, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	state := NewState(Settings{
		TargetResolution: doc.TargetResolution,
		IsHorizontal:     doc.IsHorizontal,
		NumFrames:        doc.NumFrames,
		ColorScheme:      doc.ColorScheme,
		ColorSchemeData:  doc.ColorSchemeData,
	})
	for i := range doc.Effects {
		decoded, err := effect.FromSnapshot(&doc.Effects[i])
		if err != nil {
			return nil, fmt.Errorf("effects[%d]: %w", i, err)
		}
		state.effects = append(state.effects, decoded)
	}
	return state, nil
}
