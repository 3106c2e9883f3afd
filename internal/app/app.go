// Package app assembles the studio runtime: project state, command service,
// notification bus, websocket bridge, and persistence.
package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"github.com/john-paul-ruf/nft-studio-sub010/internal/command"
	"github.com/john-paul-ruf/nft-studio-sub010/internal/events"
	"github.com/john-paul-ruf/nft-studio-sub010/internal/project"
	"github.com/john-paul-ruf/nft-studio-sub010/internal/storage"
	"github.com/john-paul-ruf/nft-studio-sub010/internal/transport/ws"
)

// Store combines the persistence contracts the app depends on.
type Store interface {
	storage.ProjectStore
	storage.EventStore
}

// Options configures an App.
type Options struct {
	// ProjectName names the project to load and persist.
	ProjectName string
	// Store persists the project document and journals dispatch events.
	// Optional; a nil store keeps the project in memory only.
	Store Store
}

// App owns one open project and the services operating on it. HTTP access is
// serialized through an internal mutex: the project has exactly one logical
// owner, so concurrent dispatches take turns.
type App struct {
	mu          sync.Mutex
	projectName string
	store       Store
	state       *project.State
	service     *command.Service
	bus         *events.Bus
	hub         *ws.Hub
}

// New loads or creates the named project and wires the runtime around it.
func New(ctx context.Context, opts Options) (*App, error) {
	projectName := strings.TrimSpace(opts.ProjectName)
	if projectName == "" {
		return nil, fmt.Errorf("project name is required")
	}

	state, err := loadState(ctx, opts.Store, projectName)
	if err != nil {
		return nil, err
	}

	bus := events.NewBus()
	hub := ws.NewHub()
	hub.Attach(bus)

	app := &App{
		projectName: projectName,
		store:       opts.Store,
		state:       state,
		bus:         bus,
		hub:         hub,
	}
	app.service = command.NewService(state, command.WithBus(bus))

	if opts.Store != nil {
		bus.SubscribeAll(app.persist)
	}
	return app, nil
}

// Bus returns the notification bus for additional subscribers.
func (a *App) Bus() *events.Bus { return a.bus }

// Dispatch builds a command from the request and executes it.
func (a *App) Dispatch(ctx context.Context, req DispatchRequest) (command.Result, project.Document) {
	a.mu.Lock()
	defer a.mu.Unlock()

	cmd, err := BuildCommand(a.state, req)
	if err != nil {
		return command.Result{Err: err}, a.state.Document()
	}
	result := a.service.Execute(ctx, cmd)
	return result, a.state.Document()
}

// Undo reverses the most recent command.
func (a *App) Undo(ctx context.Context) (command.Result, project.Document) {
	a.mu.Lock()
	defer a.mu.Unlock()
	result := a.service.Undo(ctx)
	return result, a.state.Document()
}

// Redo re-applies the most recently undone command.
func (a *App) Redo(ctx context.Context) (command.Result, project.Document) {
	a.mu.Lock()
	defer a.mu.Unlock()
	result := a.service.Redo(ctx)
	return result, a.state.Document()
}

// ProjectStatus is the read surface served to clients.
type ProjectStatus struct {
	Name      string           `json:"name"`
	Document  project.Document `json:"document"`
	CanUndo   bool             `json:"canUndo"`
	CanRedo   bool             `json:"canRedo"`
	UndoDepth int              `json:"undoDepth"`
	RedoDepth int              `json:"redoDepth"`
}

// Status returns the current document and stack depths.
func (a *App) Status() ProjectStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	return ProjectStatus{
		Name:      a.projectName,
		Document:  a.state.Document(),
		CanUndo:   a.service.CanUndo(),
		CanRedo:   a.service.CanRedo(),
		UndoDepth: a.service.UndoDepth(),
		RedoDepth: a.service.RedoDepth(),
	}
}

// History returns one page of journaled dispatch events.
func (a *App) History(ctx context.Context, afterSeq uint64, pageSize int) (storage.EventPage, error) {
	if a.store == nil {
		return storage.EventPage{}, nil
	}
	return a.store.ListEvents(ctx, a.projectName, afterSeq, pageSize)
}

// persist saves the document and journals the event after every successful
// dispatch. Persistence failures are reported through the bus error path,
// where they are logged but never roll back the state change.
func (a *App) persist(evt events.Event) error {
	ctx := context.Background()
	var errs []error
	if err := a.store.SaveProject(ctx, storage.ProjectRecord{
		Name:      a.projectName,
		Document:  evt.Document,
		UpdatedAt: evt.Timestamp,
	}); err != nil {
		errs = append(errs, fmt.Errorf("save project: %w", err))
	}
	if _, err := a.store.AppendEvent(ctx, storage.EventRecord{
		ProjectName: a.projectName,
		Topic:       string(evt.Topic),
		Origin:      string(evt.Origin),
		CommandType: evt.CommandType,
		Timestamp:   evt.Timestamp,
		Document:    evt.Document,
	}); err != nil {
		errs = append(errs, fmt.Errorf("journal event: %w", err))
	}
	return errors.Join(errs...)
}

func loadState(ctx context.Context, store Store, projectName string) (*project.State, error) {
	if store == nil {
		return project.NewState(project.DefaultSettings()), nil
	}
	record, err := store.GetProject(ctx, projectName)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Printf("project %s not found, starting fresh", projectName)
			return project.NewState(project.DefaultSettings()), nil
		}
		return nil, fmt.Errorf("load project %s: %w", projectName, err)
	}
	state, err := project.FromDocument(&record.Document)
	if err != nil {
		return nil, fmt.Errorf("decode project %s: %w", projectName, err)
	}
	return state, nil
}
