package commands

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/listing"
	"custody/internal/core/domain/model/trace"
	"custody/internal/core/ports"
)

// CustodyDocument is the archived custody chain of one closed listing.
type CustodyDocument struct {
	ListingID   string         `json:"listingId"`
	ListingCode string         `json:"listingCode"`
	ShipmentRef string         `json:"shipmentRef"`
	ClosedAt    *time.Time     `json:"closedAt,omitempty"`
	DropTags    []string       `json:"dropTags"`
	Events      []trace.Record `json:"events"`
}

// ArchiveKey is the object key a listing's custody chain is stored under.
func ArchiveKey(code kernel.Code) string {
	return "custody/" + code.String() + ".json"
}

// ArchiveClosedListingsCommandHandler exports closed listings one by one. The trace history is
// read in one unit of work, uploaded outside any transaction and recorded in a second one.
// A failure on one listing does not stop the others.
type ArchiveClosedListingsCommandHandler struct {
	uowFactory ArchiveUoWFactory
	archiver   ports.CustodyArchiver
	clock      ports.Clock
}

// NewArchiveClosedListingsCommandHandler creates a ArchiveClosedListingsCommandHandler with its dependencies.
func NewArchiveClosedListingsCommandHandler(
	uowFactory ArchiveUoWFactory,
	archiver ports.CustodyArchiver,
	clock ports.Clock,
) ArchiveClosedListingsCommandHandler {
	return ArchiveClosedListingsCommandHandler{uowFactory: uowFactory, archiver: archiver, clock: clock}
}

// Handle returns the number of listings archived.
func (h ArchiveClosedListingsCommandHandler) Handle(ctx context.Context, cmd ArchiveClosedListingsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	pending, err := h.pending(ctx, cmd.BatchSize())
	if err != nil {
		return 0, err
	}

	archived := 0
	var failures []error
	for _, l := range pending {
		if err = h.archive(ctx, l); err != nil {
			failures = append(failures, fmt.Errorf("archive listing %s: %w", l.Code(), err))
			continue
		}
		archived++
	}
	return archived, errors.Join(failures...)
}

func (h ArchiveClosedListingsCommandHandler) pending(ctx context.Context, limit int) ([]*listing.Listing, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()
	return uow.ListingRepository().FindClosedUnarchived(ctx, limit)
}

func (h ArchiveClosedListingsCommandHandler) archive(ctx context.Context, l *listing.Listing) error {
	doc, err := h.document(ctx, l)
	if err != nil {
		return err
	}

	uri, err := h.archiver.Archive(ctx, ArchiveKey(l.Code()), doc)
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.CustodyArchiveRepository().Add(ctx, ports.CustodyArchive{
		ListingID:  l.ID(),
		URI:        uri,
		EventCount: len(doc.Events),
		ArchivedAt: h.clock.Now(),
	}); err != nil {
		return err
	}
	return uow.Commit(ctx)
}

// document gathers the listing's own events with those of its tags and their packages.
func (h ArchiveClosedListingsCommandHandler) document(ctx context.Context, l *listing.Listing) (CustodyDocument, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return CustodyDocument{}, err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	members, err := uow.DropTagRepository().FindByListing(ctx, l.ID(), false)
	if err != nil {
		return CustodyDocument{}, err
	}

	listingID := l.ID()
	filters := []trace.Filter{{ResourceID: &listingID}}
	seenPackages := make(map[kernel.UUID]bool)
	for _, tag := range members {
		tagID := tag.ID()
		filters = append(filters, trace.Filter{DropTagID: &tagID})
		if packageID := tag.PackageID(); !seenPackages[packageID] {
			seenPackages[packageID] = true
			filters = append(filters, trace.Filter{ResourceType: trace.ResourcePackage, ResourceID: &packageID})
		}
	}

	seen := make(map[kernel.UUID]bool)
	var events []*trace.Event
	for _, f := range filters {
		found, findErr := uow.TraceEventRepository().Find(ctx, f)
		if findErr != nil {
			return CustodyDocument{}, findErr
		}
		for _, e := range found {
			if !seen[e.ID()] {
				seen[e.ID()] = true
				events = append(events, e)
			}
		}
	}
	slices.SortFunc(events, func(a, b *trace.Event) int {
		if c := a.OccurredAt().Compare(b.OccurredAt()); c != 0 {
			return c
		}
		return strings.Compare(a.ID().String(), b.ID().String())
	})

	return CustodyDocument{
		ListingID:   l.ID().String(),
		ListingCode: l.Code().String(),
		ShipmentRef: l.ShipmentRef(),
		ClosedAt:    l.ClosedAt(),
		DropTags:    tagCodes(members),
		Events:      trace.NewRecords(events),
	}, nil
}
