package http

import (
	"context"
	"net/http"

	"custody/internal/core/application/usecases/commands"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/listing"

	"github.com/labstack/echo/v4"
)

type CreateListingRequest struct {
	ShipmentRef string `json:"shipmentRef"`
	Origin      string `json:"origin"`
}

type ListingTagsRequest struct {
	TagIDs []string `json:"tagIds"`
}

type StopRequest struct {
	Number     int      `json:"number"`
	LocationID string   `json:"locationId"`
	TagIDs     []string `json:"tagIds"`
}

type SetListingStopsRequest struct {
	Stops []StopRequest `json:"stops"`
}

type PrintListingRequest struct {
	ManifestID string `json:"manifestId"`
	COCID      string `json:"cocId"`
	MTRID      string `json:"mtrId"`
}

type ConfirmDeliveredRequest struct {
	Signature  string `json:"signature"`
	SignerName string `json:"signerName"`
	DocumentID string `json:"documentId"`
}

// transition runs a listing command that carries nothing but the listing id and the actor.
func transition[C any](
	c echo.Context,
	newCmd func(kernel.UUID, kernel.Actor) (C, error),
	handle func(context.Context, C) error,
) error {
	listingID, err := pathID(c)
	if err != nil {
		return err
	}
	cmd, err := newCmd(listingID, ActorFrom(c))
	if err != nil {
		return err
	}
	if err = handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateListing handles POST /api/v1/listings.
func (s *Server) CreateListing(c echo.Context) error {
	var req CreateListingRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	id := kernel.NewUUID()
	cmd, err := commands.NewCreateListingCommand(id, req.ShipmentRef, req.Origin, ActorFrom(c))
	if err != nil {
		return err
	}
	code, err := s.h.CreateListing.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, Created{ID: id.String(), Code: code.String()})
}

// AddListingTags handles POST /api/v1/listings/:id/tags.
func (s *Server) AddListingTags(c echo.Context) error {
	listingID, tagIDs, err := listingTags(c)
	if err != nil {
		return err
	}
	cmd, err := commands.NewAddListingTagsCommand(listingID, tagIDs, ActorFrom(c))
	if err != nil {
		return err
	}
	if err = s.h.AddListingTags.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// RemoveListingTags handles DELETE /api/v1/listings/:id/tags.
func (s *Server) RemoveListingTags(c echo.Context) error {
	listingID, tagIDs, err := listingTags(c)
	if err != nil {
		return err
	}
	cmd, err := commands.NewRemoveListingTagsCommand(listingID, tagIDs, ActorFrom(c))
	if err != nil {
		return err
	}
	if err = s.h.RemoveListingTags.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func listingTags(c echo.Context) (kernel.UUID, []kernel.UUID, error) {
	listingID, err := pathID(c)
	if err != nil {
		return kernel.UUID{}, nil, err
	}
	var req ListingTagsRequest
	if err = bind(c, &req); err != nil {
		return kernel.UUID{}, nil, err
	}
	tagIDs, err := parseIDs(req.TagIDs)
	if err != nil {
		return kernel.UUID{}, nil, err
	}
	return listingID, tagIDs, nil
}

// SetListingStops handles PUT /api/v1/listings/:id/stops.
func (s *Server) SetListingStops(c echo.Context) error {
	listingID, err := pathID(c)
	if err != nil {
		return err
	}
	var req SetListingStopsRequest
	if err = bind(c, &req); err != nil {
		return err
	}

	stops := make([]listing.Stop, 0, len(req.Stops))
	for _, st := range req.Stops {
		tagIDs, parseErr := parseIDs(st.TagIDs)
		if parseErr != nil {
			return parseErr
		}
		stops = append(stops, listing.Stop{Number: st.Number, LocationID: st.LocationID, TagIDs: tagIDs})
	}

	cmd, err := commands.NewSetListingStopsCommand(listingID, stops, ActorFrom(c))
	if err != nil {
		return err
	}
	if err = s.h.SetListingStops.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// FinalizeListing handles POST /api/v1/listings/:id/finalize.
func (s *Server) FinalizeListing(c echo.Context) error {
	return transition(c, commands.NewFinalizeListingCommand, s.h.FinalizeListing.Handle)
}

// PrintListing handles POST /api/v1/listings/:id/print.
func (s *Server) PrintListing(c echo.Context) error {
	listingID, err := pathID(c)
	if err != nil {
		return err
	}
	var req PrintListingRequest
	if err = bind(c, &req); err != nil {
		return err
	}
	docs := listing.Documents{ManifestID: req.ManifestID, COCID: req.COCID, MTRID: req.MTRID}
	cmd, err := commands.NewPrintListingCommand(listingID, docs, ActorFrom(c))
	if err != nil {
		return err
	}
	if err = s.h.PrintListing.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ConfirmListingLoaded handles POST /api/v1/listings/:id/loaded.
func (s *Server) ConfirmListingLoaded(c echo.Context) error {
	return transition(c, commands.NewConfirmListingLoadedCommand, s.h.ConfirmListingLoaded.Handle)
}

// LockAndDepartListing handles POST /api/v1/listings/:id/depart.
func (s *Server) LockAndDepartListing(c echo.Context) error {
	return transition(c, commands.NewLockAndDepartListingCommand, s.h.LockAndDepartListing.Handle)
}

// ConfirmListingDelivered handles POST /api/v1/listings/:id/delivered.
func (s *Server) ConfirmListingDelivered(c echo.Context) error {
	listingID, err := pathID(c)
	if err != nil {
		return err
	}
	var req ConfirmDeliveredRequest
	if err = bind(c, &req); err != nil {
		return err
	}
	pod := listing.ProofOfDelivery{Signature: req.Signature, SignerName: req.SignerName, DocumentID: req.DocumentID}
	cmd, err := commands.NewConfirmListingDeliveredCommand(listingID, pod, ActorFrom(c))
	if err != nil {
		return err
	}
	if err = s.h.ConfirmListingDelivered.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// CloseListing handles POST /api/v1/listings/:id/close.
func (s *Server) CloseListing(c echo.Context) error {
	return transition(c, commands.NewCloseListingCommand, s.h.CloseListing.Handle)
}
