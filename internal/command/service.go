package command

import (
	"context"
	"errors"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/john-paul-ruf/nft-studio-sub010/internal/events"
	"github.com/john-paul-ruf/nft-studio-sub010/internal/project"
)

const tracerName = "github.com/john-paul-ruf/nft-studio-sub010/internal/command"

var (
	// ErrNilCommand indicates a nil command passed to Execute.
	ErrNilCommand = errors.New("command is required")
	// ErrNothingToUndo indicates an empty undo stack.
	ErrNothingToUndo = errors.New("nothing to undo")
	// ErrNothingToRedo indicates an empty redo stack.
	ErrNothingToRedo = errors.New("nothing to redo")
)

// Result reports the outcome of a dispatch. Command failures are values,
// never panics; a failed dispatch leaves the project state untouched.
type Result struct {
	Success bool
	Err     error
}

func success() Result          { return Result{Success: true} }
func failure(err error) Result { return Result{Err: err} }

// Service owns the undo and redo stacks and executes commands against a
// single project state. All dispatch runs synchronously to completion; the
// state is never observable in a partially updated condition. The service is
// not safe for concurrent use: the project has exactly one logical owner.
type Service struct {
	state     *project.State
	bus       *events.Bus
	tracer    trace.Tracer
	clock     func() time.Time
	undoStack []Command
	redoStack []Command
}

// Option configures a Service.
type Option func(*Service)

// WithBus attaches a notification bus. Notifications are fire-and-forget;
// publish failures are logged and never roll back the state mutation.
func WithBus(bus *events.Bus) Option {
	return func(s *Service) { s.bus = bus }
}

// WithClock injects the timestamp source for notifications.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// NewService creates a command service bound to the given project state.
func NewService(state *project.State, opts ...Option) *Service {
	service := &Service{
		state:  state,
		tracer: otel.Tracer(tracerName),
		clock:  time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(service)
		}
	}
	return service
}

// State returns the project state owned by this service.
func (s *Service) State() *project.State { return s.state }

// Execute runs the command, and on success pushes it onto the undo stack and
// clears the redo stack.
func (s *Service) Execute(ctx context.Context, cmd Command) Result {
	if cmd == nil {
		return failure(ErrNilCommand)
	}
	if s.state == nil {
		return failure(ErrNilState)
	}

	ctx, span := s.startSpan(ctx, "command.execute", cmd)
	defer span.End()

	if err := cmd.Execute(s.state); err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		return failure(err)
	}

	s.undoStack = append(s.undoStack, cmd)
	s.redoStack = nil
	s.notify(ctx, cmd, events.OriginExecute)
	return success()
}

// Undo reverses the most recently executed command and moves it to the redo
// stack. An empty undo stack is an inert failure.
func (s *Service) Undo(ctx context.Context) Result {
	if len(s.undoStack) == 0 {
		return failure(ErrNothingToUndo)
	}
	cmd := s.undoStack[len(s.undoStack)-1]

	ctx, span := s.startSpan(ctx, "command.undo", cmd)
	defer span.End()

	if err := cmd.Undo(s.state); err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		return failure(err)
	}

	s.undoStack = s.undoStack[:len(s.undoStack)-1]
	s.redoStack = append(s.redoStack, cmd)
	s.notify(ctx, cmd, events.OriginUndo)
	return success()
}

// Redo re-runs the most recently undone command and moves it back to the
// undo stack. An empty redo stack is an inert failure.
func (s *Service) Redo(ctx context.Context) Result {
	if len(s.redoStack) == 0 {
		return failure(ErrNothingToRedo)
	}
	cmd := s.redoStack[len(s.redoStack)-1]

	ctx, span := s.startSpan(ctx, "command.redo", cmd)
	defer span.End()

	if err := cmd.Execute(s.state); err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		return failure(err)
	}

	s.redoStack = s.redoStack[:len(s.redoStack)-1]
	s.undoStack = append(s.undoStack, cmd)
	s.notify(ctx, cmd, events.OriginRedo)
	return success()
}

// CanUndo reports whether the undo stack is non-empty.
func (s *Service) CanUndo() bool { return len(s.undoStack) > 0 }

// CanRedo reports whether the redo stack is non-empty.
func (s *Service) CanRedo() bool { return len(s.redoStack) > 0 }

// UndoDepth returns the undo stack depth.
func (s *Service) UndoDepth() int { return len(s.undoStack) }

// RedoDepth returns the redo stack depth.
func (s *Service) RedoDepth() int { return len(s.redoStack) }

func (s *Service) startSpan(ctx context.Context, name string, cmd Command) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("command.type", string(cmd.Type())),
	))
}

func (s *Service) notify(_ context.Context, cmd Command, origin events.Origin) {
	if s.bus == nil {
		return
	}
	evt := events.Event{
		Topic:       topicFor(cmd.Type()),
		Origin:      origin,
		CommandType: string(cmd.Type()),
		Timestamp:   s.clock().UTC(),
		Document:    s.state.Document(),
	}
	if err := s.bus.Publish(evt); err != nil {
		log.Printf("notify %s: %v", evt.Topic, err)
	}
}

// topicFor maps a command type to its notification topic. Effect commands
// notify under their own tag; scalar setting changes notify in past tense.
func topicFor(commandType Type) events.Topic {
	switch commandType {
	case TypeResolutionChange:
		return events.TopicResolutionChanged
	case TypeOrientationChange:
		return events.TopicOrientationChanged
	case TypeFramesChange:
		return events.TopicFramesChanged
	case TypeColorSchemeChange:
		return events.TopicColorSchemeChanged
	default:
		return events.Topic(commandType)
	}
}
