package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/john-paul-ruf/nft-studio-sub010/internal/command"
	"github.com/john-paul-ruf/nft-studio-sub010/internal/storage/sqlite"
)

func newTestApp(t *testing.T) (*App, *httptest.Server) {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "studio.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close store: %v", err)
		}
	})

	app, err := New(context.Background(), Options{ProjectName: "studio", Store: store})
	if err != nil {
		t.Fatalf("create app: %v", err)
	}
	srv := httptest.NewServer(app.Handler())
	t.Cleanup(srv.Close)
	return app, srv
}

func postJSON(t *testing.T, url string, payload any) *http.Response {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("encode request: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeDispatchResponse(t *testing.T, resp *http.Response) DispatchResponse {
	t.Helper()
	var decoded DispatchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		t.Fatalf("decode dispatch response: %v", err)
	}
	return decoded
}

func TestHandlerDispatchAndUndoRoundTrip(t *testing.T) {
	_, srv := newTestApp(t)

	resp := postJSON(t, srv.URL+"/commands", DispatchRequest{
		Type:   string(command.TypeEffectAdd),
		Effect: primarySnapshot("root-1", "flare"),
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from dispatch, got %d", resp.StatusCode)
	}
	dispatched := decodeDispatchResponse(t, resp)
	if !dispatched.Success {
		t.Fatalf("expected dispatch success, got error %q", dispatched.Error)
	}
	if len(dispatched.Document.Effects) != 1 {
		t.Fatalf("expected 1 effect in document, got %d", len(dispatched.Document.Effects))
	}

	resp = postJSON(t, srv.URL+"/undo", nil)
	undone := decodeDispatchResponse(t, resp)
	if !undone.Success {
		t.Fatalf("expected undo success, got error %q", undone.Error)
	}
	if len(undone.Document.Effects) != 0 {
		t.Fatalf("expected empty document after undo, got %d effects", len(undone.Document.Effects))
	}

	resp = postJSON(t, srv.URL+"/redo", nil)
	redone := decodeDispatchResponse(t, resp)
	if !redone.Success {
		t.Fatalf("expected redo success, got error %q", redone.Error)
	}
	if len(redone.Document.Effects) != 1 {
		t.Fatalf("expected restored document after redo, got %d effects", len(redone.Document.Effects))
	}
}

func TestHandlerRejectsFailedDispatch(t *testing.T) {
	_, srv := newTestApp(t)

	resp := postJSON(t, srv.URL+"/commands", DispatchRequest{Type: "effect.sparkle"})
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for failed dispatch, got %d", resp.StatusCode)
	}
	decoded := decodeDispatchResponse(t, resp)
	if decoded.Success {
		t.Fatal("expected dispatch failure")
	}
	if decoded.Error == "" {
		t.Fatal("expected error message in response")
	}
}

func TestHandlerUndoOnEmptyStackFails(t *testing.T) {
	_, srv := newTestApp(t)

	resp := postJSON(t, srv.URL+"/undo", nil)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for empty undo, got %d", resp.StatusCode)
	}
}

func TestHandlerProjectStatus(t *testing.T) {
	_, srv := newTestApp(t)

	postJSON(t, srv.URL+"/commands", DispatchRequest{
		Type:   string(command.TypeEffectAdd),
		Effect: primarySnapshot("root-1", "flare"),
	})

	resp, err := http.Get(srv.URL + "/project")
	if err != nil {
		t.Fatalf("get project: %v", err)
	}
	defer resp.Body.Close()

	var status ProjectStatus
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode project status: %v", err)
	}
	if status.Name != "studio" {
		t.Fatalf("expected project name studio, got %q", status.Name)
	}
	if !status.CanUndo || status.CanRedo {
		t.Fatalf("expected undo-only stacks, got canUndo=%v canRedo=%v", status.CanUndo, status.CanRedo)
	}
	if len(status.Document.Effects) != 1 {
		t.Fatalf("expected 1 effect in status document, got %d", len(status.Document.Effects))
	}
}

func TestHandlerHistoryJournalsDispatches(t *testing.T) {
	_, srv := newTestApp(t)

	postJSON(t, srv.URL+"/commands", DispatchRequest{
		Type:   string(command.TypeEffectAdd),
		Effect: primarySnapshot("root-1", "flare"),
	})
	postJSON(t, srv.URL+"/undo", nil)

	resp, err := http.Get(srv.URL + "/history")
	if err != nil {
		t.Fatalf("get history: %v", err)
	}
	defer resp.Body.Close()

	var history historyResponse
	if err := json.NewDecoder(resp.Body).Decode(&history); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(history.Events) != 2 {
		t.Fatalf("expected 2 journaled events, got %d", len(history.Events))
	}
	if history.Events[0].Origin != "execute" || history.Events[1].Origin != "undo" {
		t.Fatalf("expected execute then undo origins, got %s then %s",
			history.Events[0].Origin, history.Events[1].Origin)
	}
	if history.Events[0].Topic != "effect.add" {
		t.Fatalf("expected effect.add topic, got %s", history.Events[0].Topic)
	}
}

func TestAppReloadsPersistedProject(t *testing.T) {
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "studio.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	first, err := New(context.Background(), Options{ProjectName: "studio", Store: store})
	if err != nil {
		t.Fatalf("create first app: %v", err)
	}
	result, _ := first.Dispatch(context.Background(), DispatchRequest{
		Type:   string(command.TypeEffectAdd),
		Effect: primarySnapshot("root-1", "flare"),
	})
	if !result.Success {
		t.Fatalf("dispatch add: %v", result.Err)
	}

	second, err := New(context.Background(), Options{ProjectName: "studio", Store: store})
	if err != nil {
		t.Fatalf("create second app: %v", err)
	}
	doc := second.Status().Document
	if len(doc.Effects) != 1 || doc.Effects[0].ID != "root-1" {
		t.Fatalf("expected persisted effect to survive reload, got %#v", doc.Effects)
	}
}
