package tracerepo

import (
	"context"
	"fmt"
	"time"

	"custody/internal/adapters/out/postgres/pgerr"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/trace"
	"custody/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTraceEventRepository implements ports.TraceEventRepository and ports.TraceOutbox.
type GormTraceEventRepository struct {
	db *gorm.DB
}

// NewGormTraceEventRepository creates a trace log repository over db.
func NewGormTraceEventRepository(db *gorm.DB) *GormTraceEventRepository {
	return &GormTraceEventRepository{db: db}
}

// Append inserts the row with an empty hash, then computes the hash from the inserted
// content and writes it with a guard on the still-empty column.
func (r *GormTraceEventRepository) Append(ctx context.Context, event *trace.Event) error {
	if err := event.Validate(); err != nil {
		return err
	}
	db := r.db.WithContext(ctx)
	dto := fromDomain(event)
	if err := db.Create(&dto).Error; err != nil {
		return pgerr.Insert(err, "trace event", event.ID())
	}

	if err := event.AssignHash(); err != nil {
		return err
	}
	result := db.Model(&TraceEventDTO{}).
		Where("id = ? AND event_hash = ''", dto.ID).
		Update("event_hash", event.Hash())
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected != 1 {
		return errs.NewIntegrityFaultErrorWithCause(fmt.Sprintf("event %s already hashed", event.ID()), trace.ErrHashAlreadyAssigned)
	}
	return nil
}

// Find retrieves the events matching filter in occurrence order, append order within an instant.
func (r *GormTraceEventRepository) Find(ctx context.Context, filter trace.Filter) ([]*trace.Event, error) {
	q := r.db.WithContext(ctx).Model(&TraceEventDTO{})
	if filter.ResourceType != "" {
		q = q.Where("resource_type = ?", string(filter.ResourceType))
	}
	if filter.ResourceID != nil {
		q = q.Where("resource_id = ?", filter.ResourceID.Bytes())
	}
	if filter.DropTagID != nil {
		q = q.Where("drop_tag_id = ?", filter.DropTagID.Bytes())
	}
	if filter.ShipmentID != "" {
		q = q.Where("shipment_id = ?", filter.ShipmentID)
	}
	if filter.StationID != "" {
		q = q.Where("station_id = ?", filter.StationID)
	}
	if filter.From != nil {
		q = q.Where("occurred_at >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("occurred_at < ?", *filter.To)
	}

	var dtos []TraceEventDTO
	if err := q.Order("occurred_at, seq").Limit(filter.EffectiveLimit()).Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toEvents(dtos)
}

// ListUnpublished locks the oldest unpublished rows, skipping rows another relay holds.
func (r *GormTraceEventRepository) ListUnpublished(ctx context.Context, limit int) ([]*trace.Event, error) {
	q := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("published_at IS NULL").
		Order("occurred_at, seq")
	if limit > 0 {
		q = q.Limit(limit)
	}

	var dtos []TraceEventDTO
	if err := q.Find(&dtos).Error; err != nil {
		return nil, err
	}
	return toEvents(dtos)
}

// MarkPublished stamps the relayed events; no other column of a trace row is ever updated.
func (r *GormTraceEventRepository) MarkPublished(ctx context.Context, ids []kernel.UUID, at time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Bytes())
	}
	return r.db.WithContext(ctx).
		Model(&TraceEventDTO{}).
		Where("id IN ? AND published_at IS NULL", raw).
		Update("published_at", at).Error
}

func toEvents(dtos []TraceEventDTO) ([]*trace.Event, error) {
	out := make([]*trace.Event, 0, len(dtos))
	for _, dto := range dtos {
		e, err := toDomain(dto)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}
