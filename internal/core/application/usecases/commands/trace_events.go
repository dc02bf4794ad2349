package commands

import (
	"context"
	"strings"
	"time"

	"custody/internal/core/domain/model/droptag"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/listing"
	"custody/internal/core/domain/model/packaging"
	"custody/internal/core/domain/model/trace"
	"custody/internal/core/ports"
)

// appendEvent records the single trace event of a command. Cascades go into the metadata.
func appendEvent(ctx context.Context, traces ports.TraceEventRepository, fields trace.Fields, cascades []trace.Cascade) (*trace.Event, error) {
	if fields.Metadata == nil {
		fields.Metadata = make(map[string]any)
	}
	if len(cascades) > 0 {
		fields.Metadata[trace.MetadataCascade] = cascades
	}

	event, err := trace.NewEvent(kernel.NewUUID(), fields)
	if err != nil {
		return nil, err
	}
	if err = traces.Append(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

func packageEvent(pkg *packaging.Package, eventType trace.EventType, actor kernel.Actor, previous string, now time.Time) trace.Fields {
	return trace.Fields{
		Type:          eventType,
		Category:      trace.CategoryPackage,
		Actor:         actor,
		ResourceType:  trace.ResourcePackage,
		ResourceID:    pkg.ID(),
		PreviousState: previous,
		NewState:      pkg.Status().String(),
		LocationID:    optional(pkg.Location()),
		Metadata:      map[string]any{"packageCode": pkg.Code().String()},
		OccurredAt:    now,
	}
}

func tagEvent(tag *droptag.DropTag, eventType trace.EventType, actor kernel.Actor, previous string, now time.Time) trace.Fields {
	id := tag.ID()
	return trace.Fields{
		Type:          eventType,
		Category:      trace.CategoryDropTag,
		Actor:         actor,
		ResourceType:  trace.ResourceDropTag,
		ResourceID:    id,
		PreviousState: previous,
		NewState:      tag.Status().String(),
		DropTagID:     &id,
		Metadata:      map[string]any{"dropTagCode": tag.Code().String(), "packageId": tag.PackageID().String()},
		OccurredAt:    now,
	}
}

func listingEvent(l *listing.Listing, eventType trace.EventType, actor kernel.Actor, previous string, now time.Time) trace.Fields {
	return trace.Fields{
		Type:          eventType,
		Category:      trace.CategoryListing,
		Actor:         actor,
		ResourceType:  trace.ResourceListing,
		ResourceID:    l.ID(),
		PreviousState: previous,
		NewState:      l.Status().String(),
		LocationID:    optional(l.OriginLocation()),
		ShipmentID:    optional(l.ShipmentRef()),
		Metadata: map[string]any{
			"listingCode": l.Code().String(),
			"tagCount":    len(l.TagIDs()),
			"pieces":      l.Totals().Pieces,
			"weight":      l.Totals().Weight.String(),
		},
		OccurredAt: now,
	}
}

func listingCascade(l *listing.Listing, from listing.Status) trace.Cascade {
	return trace.Cascade{
		ResourceType: trace.ResourceListing,
		ResourceID:   l.ID().String(),
		Code:         l.Code().String(),
		From:         from.String(),
		To:           l.Status().String(),
	}
}

func tagCodes(tags []*droptag.DropTag) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		out = append(out, tag.Code().String())
	}
	return out
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// updateTags writes every tag back, each under its own compare-and-set.
func updateTags(ctx context.Context, repo ports.DropTagRepository, tags []*droptag.DropTag) error {
	for _, tag := range tags {
		if err := repo.Update(ctx, tag); err != nil {
			return err
		}
	}
	return nil
}
