package trace

// Category groups event types for reporting.
type Category string

const (
	CategoryPackage  Category = "PACKAGE_LIFECYCLE"
	CategoryDropTag  Category = "TAG_LIFECYCLE"
	CategoryListing  Category = "LISTING_LIFECYCLE"
	CategoryStation  Category = "STATION_SCAN"
	CategoryIdentity Category = "IDENTITY"
)

// ResourceType is the kind of entity an event is about.
type ResourceType string

const (
	ResourcePackage ResourceType = "PACKAGE"
	ResourceDropTag ResourceType = "DROP_TAG"
	ResourceListing ResourceType = "LISTING"
)

// EventType names the transition an event records.
type EventType string

const (
	PackageCreated      EventType = "PACKAGE_CREATED"
	PackageItemAdded    EventType = "PACKAGE_ITEM_ADDED"
	PackageSubmittedQC  EventType = "PACKAGE_SUBMITTED_FOR_QC"
	PackageQCDecided    EventType = "PACKAGE_QC_DECISION"
	PackageSealed       EventType = "PACKAGE_SEALED"
	DropTagGenerated    EventType = "DROP_TAG_GENERATED"
	DropTagReadyToPrint EventType = "DROP_TAG_READY_TO_PRINT"
	DropTagPrinted      EventType = "DROP_TAG_PRINTED"
	DropTagReprinted    EventType = "DROP_TAG_REPRINTED"
	DropTagApplied      EventType = "DROP_TAG_APPLIED"
	DropTagVoided       EventType = "DROP_TAG_VOIDED"
	IdentifierBound     EventType = "TAG_IDENTIFIER_REGISTERED"
	ListingCreated      EventType = "LISTING_CREATED"
	ListingTagsAdded    EventType = "LISTING_TAGS_ADDED"
	ListingTagsRemoved  EventType = "LISTING_TAGS_REMOVED"
	ListingStopsSet     EventType = "LISTING_STOPS_SET"
	ListingFinalized    EventType = "LISTING_FINALIZED"
	ListingPrinted      EventType = "LISTING_PRINTED"
	ListingLoaded       EventType = "LISTING_LOADED"
	ListingDeparted     EventType = "LISTING_DEPARTED"
	ListingDelivered    EventType = "LISTING_DELIVERED"
	ListingClosed       EventType = "LISTING_CLOSED"
)

// ScanEventType is the event type recorded for a station scan, e.g. STATION_SCAN_LOAD.
func ScanEventType(station string) EventType {
	return EventType("STATION_SCAN_" + station)
}

// Cascade records a secondary entity moved by the same operation.
type Cascade struct {
	ResourceType ResourceType `json:"resourceType"`
	ResourceID   string       `json:"resourceId"`
	Code         string       `json:"code"`
	From         string       `json:"from"`
	To           string       `json:"to"`
}

// MetadataCascade is the metadata key cascades are recorded under.
const MetadataCascade = "cascade"
