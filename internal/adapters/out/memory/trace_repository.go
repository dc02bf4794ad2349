package memory

import (
	"context"
	"slices"
	"time"

	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/trace"
	"custody/internal/core/ports"
	"custody/internal/pkg/errs"
)

type traceEventRepository struct {
	uow *UnitOfWork
}

// Append stores an event. Events are never changed afterwards except for their publish mark.
func (r *traceEventRepository) Append(ctx context.Context, event *trace.Event) error {
	if err := event.Validate(); err != nil {
		return err
	}
	return r.uow.with(ctx, func(d *data) error {
		for _, rec := range d.events {
			if rec.id.IsEqual(event.ID()) {
				return errs.NewAlreadyExistsErrorWithCause("trace event", event.ID(), ports.ErrDuplicateKey)
			}
		}
		if err := event.AssignHash(); err != nil {
			return err
		}
		d.events = append(d.events, eventRecord{
			seq:    len(d.events) + 1,
			id:     event.ID(),
			fields: event.Fields(),
			hash:   event.Hash(),
		})
		return nil
	})
}

// Find returns the events matching filter, oldest first.
func (r *traceEventRepository) Find(ctx context.Context, filter trace.Filter) ([]*trace.Event, error) {
	var records []eventRecord
	err := r.uow.with(ctx, func(d *data) error {
		records = append(records, d.events...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortRecords(records)

	limit := filter.EffectiveLimit()
	out := make([]*trace.Event, 0)
	for _, rec := range records {
		e, err := trace.RestoreEvent(rec.id, rec.fields, rec.hash)
		if err != nil {
			return nil, err
		}
		if !filter.Matches(e) {
			continue
		}
		out = append(out, e)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

// ListUnpublished returns up to limit events not yet relayed, in append order.
func (r *traceEventRepository) ListUnpublished(ctx context.Context, limit int) ([]*trace.Event, error) {
	var records []eventRecord
	err := r.uow.with(ctx, func(d *data) error {
		for _, rec := range d.events {
			if rec.publishedAt == nil {
				records = append(records, rec)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sortRecords(records)
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}

	out := make([]*trace.Event, 0, len(records))
	for _, rec := range records {
		e, err := trace.RestoreEvent(rec.id, rec.fields, rec.hash)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// MarkPublished stamps the events as relayed at the given time.
func (r *traceEventRepository) MarkPublished(ctx context.Context, ids []kernel.UUID, at time.Time) error {
	return r.uow.with(ctx, func(d *data) error {
		for i := range d.events {
			if d.events[i].publishedAt == nil && slices.Contains(ids, d.events[i].id) {
				published := at
				d.events[i].publishedAt = &published
			}
		}
		return nil
	})
}

// sortRecords orders by occurredAt, then by append order.
func sortRecords(records []eventRecord) {
	slices.SortStableFunc(records, func(a, b eventRecord) int {
		if c := a.fields.OccurredAt.Compare(b.fields.OccurredAt); c != 0 {
			return c
		}
		return a.seq - b.seq
	})
}
