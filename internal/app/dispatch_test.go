package app

import (
	"context"
	"errors"
	"testing"

	"github.com/john-paul-ruf/nft-studio-sub010/internal/command"
	"github.com/john-paul-ruf/nft-studio-sub010/internal/effect"
	"github.com/john-paul-ruf/nft-studio-sub010/internal/project"
)

func primarySnapshot(id, name string) *effect.Snapshot {
	return &effect.Snapshot{
		ID:        id,
		Name:      name,
		ClassName: "FuzzFlareEffect",
		Kind:      string(effect.KindPrimary),
		Config:    map[string]any{"intensity": 0.5},
	}
}

func newDispatchState(t *testing.T, snapshots ...*effect.Snapshot) *project.State {
	t.Helper()
	state := project.NewState(project.DefaultSettings())
	effects := make([]*effect.Effect, 0, len(snapshots))
	for _, snapshot := range snapshots {
		decoded, err := effect.FromSnapshot(snapshot)
		if err != nil {
			t.Fatalf("decode snapshot %s: %v", snapshot.ID, err)
		}
		effects = append(effects, decoded)
	}
	if err := state.SetEffects(effects); err != nil {
		t.Fatalf("seed state: %v", err)
	}
	return state
}

func TestBuildCommandAddEffect(t *testing.T) {
	state := newDispatchState(t)

	cmd, err := BuildCommand(state, DispatchRequest{
		Type:   string(command.TypeEffectAdd),
		Effect: primarySnapshot("root-1", "flare"),
	})
	if err != nil {
		t.Fatalf("build add command: %v", err)
	}
	if cmd.Type() != command.TypeEffectAdd {
		t.Fatalf("expected add command, got %s", cmd.Type())
	}
	if err := cmd.Execute(state); err != nil {
		t.Fatalf("execute add command: %v", err)
	}
	if state.EffectCount() != 1 {
		t.Fatalf("expected 1 effect after add, got %d", state.EffectCount())
	}
}

func TestBuildCommandAssignsMissingIDs(t *testing.T) {
	state := newDispatchState(t)

	payload := primarySnapshot("", "flare")
	payload.SecondaryEffects = []effect.Snapshot{
		{
			Name:   "glow",
			Kind:   string(effect.KindSecondary),
			Config: map[string]any{"radius": 2.0},
		},
	}

	cmd, err := BuildCommand(state, DispatchRequest{
		Type:   string(command.TypeEffectAdd),
		Effect: payload,
	})
	if err != nil {
		t.Fatalf("build add command without ids: %v", err)
	}
	if err := cmd.Execute(state); err != nil {
		t.Fatalf("execute add command: %v", err)
	}

	added, ok := state.EffectAt(0)
	if !ok {
		t.Fatal("expected added effect")
	}
	if added.ID == "" {
		t.Fatal("expected generated root id")
	}
	if len(added.SecondaryEffects) != 1 || added.SecondaryEffects[0].ID == "" {
		t.Fatal("expected generated child id")
	}
}

func TestBuildCommandResolvesIDsAgainstLiveState(t *testing.T) {
	state := newDispatchState(t,
		primarySnapshot("root-1", "alpha"),
		primarySnapshot("root-2", "beta"),
	)

	// A stale client view would have beta at position 1; move it first, then
	// dispatch an update addressed by ID.
	reorder, err := BuildCommand(state, DispatchRequest{
		Type:     string(command.TypeEffectReorder),
		EffectID: "root-2",
		To:       0,
	})
	if err != nil {
		t.Fatalf("build reorder: %v", err)
	}
	if err := reorder.Execute(state); err != nil {
		t.Fatalf("execute reorder: %v", err)
	}

	replacement := primarySnapshot("root-2", "beta-renamed")
	update, err := BuildCommand(state, DispatchRequest{
		Type:     string(command.TypeEffectUpdate),
		EffectID: "root-2",
		Effect:   replacement,
	})
	if err != nil {
		t.Fatalf("build update: %v", err)
	}
	if err := update.Execute(state); err != nil {
		t.Fatalf("execute update: %v", err)
	}

	moved, ok := state.EffectAt(0)
	if !ok || moved.ID != "root-2" {
		t.Fatalf("expected root-2 at position 0")
	}
	if moved.Name != "beta-renamed" {
		t.Fatalf("expected update to follow the moved effect, got %q", moved.Name)
	}
	untouched, _ := state.EffectAt(1)
	if untouched.Name != "alpha" {
		t.Fatalf("expected alpha untouched, got %q", untouched.Name)
	}
}

func TestBuildCommandSecondaryByParentID(t *testing.T) {
	parent := primarySnapshot("root-1", "alpha")
	parent.SecondaryEffects = []effect.Snapshot{
		{
			ID:     "sec-1",
			Name:   "glow",
			Kind:   string(effect.KindSecondary),
			Config: map[string]any{"radius": 2.0},
		},
	}
	state := newDispatchState(t, parent)

	cmd, err := BuildCommand(state, DispatchRequest{
		Type:     string(command.TypeSecondaryDelete),
		ParentID: "root-1",
		EffectID: "sec-1",
	})
	if err != nil {
		t.Fatalf("build secondary delete: %v", err)
	}
	if err := cmd.Execute(state); err != nil {
		t.Fatalf("execute secondary delete: %v", err)
	}
	live, _ := state.EffectAt(0)
	if len(live.SecondaryEffects) != 0 {
		t.Fatalf("expected secondary removed, got %d", len(live.SecondaryEffects))
	}
}

func TestBuildCommandScalarSettings(t *testing.T) {
	state := newDispatchState(t)

	horizontal := false
	cases := []DispatchRequest{
		{Type: string(command.TypeResolutionChange), Resolution: 1080},
		{Type: string(command.TypeOrientationChange), Horizontal: &horizontal},
		{Type: string(command.TypeFramesChange), NumFrames: 250},
		{Type: string(command.TypeColorSchemeChange), ColorScheme: "neon", ColorSchemeData: map[string]any{"hue": 0.3}},
	}
	for _, req := range cases {
		cmd, err := BuildCommand(state, req)
		if err != nil {
			t.Fatalf("build %s: %v", req.Type, err)
		}
		if err := cmd.Execute(state); err != nil {
			t.Fatalf("execute %s: %v", req.Type, err)
		}
	}

	if state.TargetResolution() != 1080 {
		t.Fatalf("expected resolution 1080, got %d", state.TargetResolution())
	}
	if state.IsHorizontal() {
		t.Fatal("expected vertical orientation")
	}
	if state.NumFrames() != 250 {
		t.Fatalf("expected 250 frames, got %d", state.NumFrames())
	}
	if state.ColorScheme() != "neon" {
		t.Fatalf("expected neon scheme, got %q", state.ColorScheme())
	}
}

func TestBuildCommandRejectsUnknownType(t *testing.T) {
	state := newDispatchState(t)

	_, err := BuildCommand(state, DispatchRequest{Type: "effect.sparkle"})
	if !errors.Is(err, ErrUnknownCommandType) {
		t.Fatalf("expected ErrUnknownCommandType, got %v", err)
	}
}

func TestBuildCommandRejectsMissingPayload(t *testing.T) {
	state := newDispatchState(t)

	_, err := BuildCommand(state, DispatchRequest{Type: string(command.TypeEffectAdd)})
	if !errors.Is(err, ErrMissingEffectPayload) {
		t.Fatalf("expected ErrMissingEffectPayload, got %v", err)
	}
}

func TestBuildCommandRejectsUnknownEffectID(t *testing.T) {
	state := newDispatchState(t, primarySnapshot("root-1", "alpha"))

	_, err := BuildCommand(state, DispatchRequest{
		Type:     string(command.TypeEffectDelete),
		EffectID: "root-9",
	})
	if !errors.Is(err, ErrEffectNotFound) {
		t.Fatalf("expected ErrEffectNotFound, got %v", err)
	}

	_, err = BuildCommand(state, DispatchRequest{
		Type:     string(command.TypeSecondaryDelete),
		ParentID: "root-9",
		EffectID: "sec-1",
	})
	if !errors.Is(err, ErrParentNotFound) {
		t.Fatalf("expected ErrParentNotFound, got %v", err)
	}
}

func TestDispatchFailureLeavesStateUntouched(t *testing.T) {
	app, err := New(context.Background(), Options{ProjectName: "studio"})
	if err != nil {
		t.Fatalf("create app: %v", err)
	}

	result, doc := app.Dispatch(context.Background(), DispatchRequest{Type: "effect.sparkle"})
	if result.Success {
		t.Fatal("expected dispatch failure")
	}
	if result.Err == nil {
		t.Fatal("expected dispatch error")
	}
	if len(doc.Effects) != 0 {
		t.Fatalf("expected untouched document, got %d effects", len(doc.Effects))
	}
	if app.Status().CanUndo {
		t.Fatal("expected empty undo stack after failed dispatch")
	}
}
