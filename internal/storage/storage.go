// Package storage defines persistence contracts for studio project state and
// the dispatch event journal.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/john-paul-ruf/nft-studio-sub010/internal/project"
)

// ErrNotFound indicates a requested record is missing.
var ErrNotFound = errors.New("record not found")

// ProjectRecord stores one named project document.
type ProjectRecord struct {
	Name      string
	Document  project.Document
	CreatedAt time.Time
	UpdatedAt time.Time
}

// EventRecord stores one journaled dispatch event for a project. Seq is
// assigned per project on append, starting at 1.
type EventRecord struct {
	ProjectName string
	Seq         uint64
	Topic       string
	Origin      string
	CommandType string
	Timestamp   time.Time
	Document    project.Document
}

// EventPage stores one page of journaled events.
type EventPage struct {
	Events  []EventRecord
	NextSeq uint64
}

// ProjectStore persists project documents keyed by name.
type ProjectStore interface {
	SaveProject(ctx context.Context, record ProjectRecord) error
	GetProject(ctx context.Context, name string) (ProjectRecord, error)
	ListProjectNames(ctx context.Context) ([]string, error)
	DeleteProject(ctx context.Context, name string) error
}

// EventStore journals dispatch events per project in append order.
type EventStore interface {
	AppendEvent(ctx context.Context, record EventRecord) (EventRecord, error)
	ListEvents(ctx context.Context, projectName string, afterSeq uint64, pageSize int) (EventPage, error)
}
