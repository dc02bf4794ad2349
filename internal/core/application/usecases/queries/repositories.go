// Package queries contains read operations over custody state. Queries never write and
// never open a transaction; repositories read committed data.
package queries

import (
	"custody/internal/core/application/resolver"
	"custody/internal/core/ports"
)

type (
	// Repositories is the read surface shared by query handlers.
	Repositories interface {
		resolver.Repositories
		ListingRepository() ports.ListingRepository
		TraceEventRepository() ports.TraceEventRepository
	}

	RepositoriesFactory interface {
		Create() Repositories
	}
)
