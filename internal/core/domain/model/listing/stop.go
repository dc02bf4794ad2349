package listing

import "custody/internal/core/domain/model/kernel"

// Stop is one delivery point on the route.
type Stop struct {
	Number     int
	LocationID string
	TagIDs     []kernel.UUID
}

func (s Stop) contains(id kernel.UUID) bool {
	for _, tagID := range s.TagIDs {
		if tagID.IsEqual(id) {
			return true
		}
	}
	return false
}

func (s Stop) clone() Stop {
	out := s
	out.TagIDs = append([]kernel.UUID(nil), s.TagIDs...)
	return out
}

// Totals are the aggregate counts over the member tags.
type Totals struct {
	Packages int
	Pieces   int
	Weight   kernel.Weight
}

// Documents are the ids of the rendered manifest, certificate of conformance and mill test report.
type Documents struct {
	ManifestID string
	COCID      string
	MTRID      string
}

// ProofOfDelivery is captured at the customer.
type ProofOfDelivery struct {
	Signature  string
	SignerName string
	DocumentID string
}
