// Package commands contains the business operations that change custody state.
// Every handler validates its command, opens one unit of work, locks the rows it changes,
// applies the domain transition, appends exactly one trace event and commits.
package commands

import (
	"context"

	"custody/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	PackageRepoFactory interface {
		PackageRepository() ports.PackageRepository
	}

	DropTagRepoFactory interface {
		DropTagRepository() ports.DropTagRepository
	}

	TagIdentifierRepoFactory interface {
		TagIdentifierRepository() ports.TagIdentifierRepository
	}

	ListingRepoFactory interface {
		ListingRepository() ports.ListingRepository
	}

	TraceRepoFactory interface {
		TraceEventRepository() ports.TraceEventRepository
	}

	// UoW spans every aggregate a custody transition can touch, plus the trace log.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   tag, err := uow.DropTagRepository().GetForUpdate(ctx, id)
	//   pkg, err := uow.PackageRepository().GetForUpdate(ctx, tag.PackageID())
	//   // ... transition, update, append the trace event
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		PackageRepoFactory
		DropTagRepoFactory
		TagIdentifierRepoFactory
		ListingRepoFactory
		TraceRepoFactory
	}

	UoWFactory interface {
		Create() UoW
	}

	// OutboxUoW is used by the relay of committed trace events.
	OutboxUoW interface {
		TxManager
		TraceOutbox() ports.TraceOutbox
	}

	OutboxUoWFactory interface {
		Create() OutboxUoW
	}

	// ArchiveUoW reads closed listings with their trace history and records archives.
	ArchiveUoW interface {
		TxManager
		ListingRepoFactory
		DropTagRepoFactory
		TraceRepoFactory
		CustodyArchiveRepository() ports.CustodyArchiveRepository
	}

	ArchiveUoWFactory interface {
		Create() ArchiveUoW
	}
)
