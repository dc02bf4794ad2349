// Package memory is an in-process implementation of the custody ports. A Store keeps
// committed state as aggregate snapshots; every unit of work takes the store-wide lock in
// Begin and holds it until Commit or Rollback, so units of work are fully serialized.
// Writes go to a private copy of the data that replaces the committed data on Commit.
//
// It backs STORAGE=memory runs and the scenario tests of the application layer.
package memory

import (
	"context"
	"time"

	"custody/internal/core/domain/model/droptag"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/listing"
	"custody/internal/core/domain/model/packaging"
	"custody/internal/core/domain/model/trace"
	"custody/internal/core/ports"
)

type identifierRecord struct {
	id        kernel.UUID
	dropTagID kernel.UUID
	kind      droptag.IdentifierType
	value     string
	createdAt time.Time
}

type eventRecord struct {
	seq         int
	id          kernel.UUID
	fields      trace.Fields
	hash        string
	publishedAt *time.Time
}

type data struct {
	packages    map[kernel.UUID]packaging.State
	tags        map[kernel.UUID]droptag.State
	listings    map[kernel.UUID]listing.State
	identifiers []identifierRecord
	events      []eventRecord
	archives    map[kernel.UUID]ports.CustodyArchive
}

func newData() *data {
	return &data{
		packages: make(map[kernel.UUID]packaging.State),
		tags:     make(map[kernel.UUID]droptag.State),
		listings: make(map[kernel.UUID]listing.State),
		archives: make(map[kernel.UUID]ports.CustodyArchive),
	}
}

// clone copies the containers. Snapshots are never mutated in place, so they are shared.
func (d *data) clone() *data {
	out := &data{
		packages:    make(map[kernel.UUID]packaging.State, len(d.packages)),
		tags:        make(map[kernel.UUID]droptag.State, len(d.tags)),
		listings:    make(map[kernel.UUID]listing.State, len(d.listings)),
		identifiers: append([]identifierRecord(nil), d.identifiers...),
		events:      append([]eventRecord(nil), d.events...),
		archives:    make(map[kernel.UUID]ports.CustodyArchive, len(d.archives)),
	}
	for k, v := range d.packages {
		out.packages[k] = v
	}
	for k, v := range d.tags {
		out.tags[k] = v
	}
	for k, v := range d.listings {
		out.listings[k] = v
	}
	for k, v := range d.archives {
		out.archives[k] = v
	}
	return out
}

// Store holds the committed data.
type Store struct {
	sem  chan struct{}
	data *data
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		sem:  make(chan struct{}, 1),
		data: newData(),
	}
}

func (s *Store) lock(ctx context.Context) error {
	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) unlock() {
	<-s.sem
}

// UnitOfWorkFactory hands out units of work bound to one store.
type UnitOfWorkFactory struct {
	store *Store
}

// NewUnitOfWorkFactory creates a factory whose units of work share store.
func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

// Create returns a new unit of work over the shared store.
func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{store: f.store}
}
