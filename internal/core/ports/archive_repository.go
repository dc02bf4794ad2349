package ports

import (
	"context"
	"time"

	"custody/internal/core/domain/model/kernel"
)

// CustodyArchive records where the custody chain of a closed listing was exported to.
type CustodyArchive struct {
	ListingID  kernel.UUID
	URI        string
	EventCount int
	ArchivedAt time.Time
}

type CustodyArchiveRepository interface {
	Add(ctx context.Context, archive CustodyArchive) error
}
