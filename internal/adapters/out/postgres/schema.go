package postgres

import (
	"fmt"

	"custody/internal/adapters/out/postgres/archiverepo"
	"custody/internal/adapters/out/postgres/droptagrepo"
	"custody/internal/adapters/out/postgres/listingrepo"
	"custody/internal/adapters/out/postgres/packagerepo"
	"custody/internal/adapters/out/postgres/tracerepo"

	"gorm.io/gorm"
)

// Models lists every table of the custody schema in dependency order.
func Models() []any {
	return []any{
		&packagerepo.PackageDTO{},
		&packagerepo.ItemDTO{},
		&droptagrepo.DropTagDTO{},
		&droptagrepo.TagIdentifierDTO{},
		&listingrepo.ListingDTO{},
		&listingrepo.StopDTO{},
		&tracerepo.TraceEventDTO{},
		&archiverepo.CustodyArchiveDTO{},
	}
}

// appendOnlyTrigger lets an UPDATE change only published_at and the first write of
// event_hash. DELETE always fails.
var appendOnlyTrigger = []string{`
CREATE OR REPLACE FUNCTION trace_events_append_only() RETURNS trigger AS $$
BEGIN
	IF TG_OP = 'DELETE' THEN
		RAISE EXCEPTION 'trace_events is append-only';
	END IF;
	IF OLD.event_hash <> '' AND NEW.event_hash IS DISTINCT FROM OLD.event_hash THEN
		RAISE EXCEPTION 'event_hash of % is already set', OLD.id;
	END IF;
	IF (NEW.event_type, NEW.event_category, NEW.actor_user_id, NEW.actor_role, NEW.resource_type,
	    NEW.resource_id, NEW.previous_state, NEW.new_state, NEW.station_id, NEW.location_id,
	    NEW.shipment_id, NEW.drop_tag_id, NEW.metadata, NEW.occurred_at, NEW.seq)
	   IS DISTINCT FROM
	   (OLD.event_type, OLD.event_category, OLD.actor_user_id, OLD.actor_role, OLD.resource_type,
	    OLD.resource_id, OLD.previous_state, OLD.new_state, OLD.station_id, OLD.location_id,
	    OLD.shipment_id, OLD.drop_tag_id, OLD.metadata, OLD.occurred_at, OLD.seq) THEN
		RAISE EXCEPTION 'trace event % is immutable', OLD.id;
	END IF;
	RETURN NEW;
END
$$ LANGUAGE plpgsql`,
	`DROP TRIGGER IF EXISTS trace_events_append_only ON trace_events`,
	`CREATE TRIGGER trace_events_append_only
	BEFORE UPDATE OR DELETE ON trace_events
	FOR EACH ROW EXECUTE FUNCTION trace_events_append_only()`,
}

// Migrate creates or updates the schema and installs the trace log guard.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	for _, stmt := range appendOnlyTrigger {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("install trace_events guard: %w", err)
		}
	}
	return nil
}
