package http

import (
	"net/http"

	"custody/internal/core/application/usecases/commands"
	"custody/internal/core/domain/model/kernel"
	"custody/internal/core/domain/model/packaging"

	"github.com/labstack/echo/v4"
)

type CreatePackageRequest struct {
	OrderRef string `json:"orderRef"`
	Location string `json:"location"`
}

type AddPackageItemRequest struct {
	ItemID     string `json:"itemId"`
	Grade      string `json:"grade"`
	Form       string `json:"form"`
	HeatNumber string `json:"heatNumber"`
	Pieces     int    `json:"pieces"`
	Weight     string `json:"weight"`
	Dimensions string `json:"dimensions"`
}

type QCDecisionRequest struct {
	Decision string `json:"decision"`
	Notes    string `json:"notes"`
}

type SealPackageRequest struct {
	SealID string `json:"sealId"`
}

// CreatePackage handles POST /api/v1/packages.
func (s *Server) CreatePackage(c echo.Context) error {
	var req CreatePackageRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	id := kernel.NewUUID()
	cmd, err := commands.NewCreatePackageCommand(id, req.OrderRef, req.Location, ActorFrom(c))
	if err != nil {
		return err
	}
	code, err := s.h.CreatePackage.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, Created{ID: id.String(), Code: code.String()})
}

// AddPackageItem handles POST /api/v1/packages/:id/items.
func (s *Server) AddPackageItem(c echo.Context) error {
	packageID, err := pathID(c)
	if err != nil {
		return err
	}
	var req AddPackageItemRequest
	if err = bind(c, &req); err != nil {
		return err
	}

	itemID := kernel.NewUUID()
	if req.ItemID != "" {
		if itemID, err = kernel.UUIDFromString(req.ItemID); err != nil {
			return badRequest("invalid itemId")
		}
	}
	weight, err := kernel.WeightFromString(req.Weight)
	if err != nil {
		return err
	}

	cmd, err := commands.NewAddPackageItemCommand(packageID, commands.ItemInput{
		ItemID:     itemID,
		Grade:      req.Grade,
		Form:       req.Form,
		HeatNumber: req.HeatNumber,
		Pieces:     req.Pieces,
		Weight:     weight,
		Dimensions: req.Dimensions,
	}, ActorFrom(c))
	if err != nil {
		return err
	}
	if err = s.h.AddPackageItem.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, Created{ID: itemID.String()})
}

// SubmitPackageForQC handles POST /api/v1/packages/:id/submit-qc.
func (s *Server) SubmitPackageForQC(c echo.Context) error {
	packageID, err := pathID(c)
	if err != nil {
		return err
	}
	cmd, err := commands.NewSubmitPackageForQCCommand(packageID, ActorFrom(c))
	if err != nil {
		return err
	}
	if err = s.h.SubmitPackageForQC.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// RecordQCDecision handles POST /api/v1/packages/:id/qc-decision.
func (s *Server) RecordQCDecision(c echo.Context) error {
	packageID, err := pathID(c)
	if err != nil {
		return err
	}
	var req QCDecisionRequest
	if err = bind(c, &req); err != nil {
		return err
	}
	decision, err := packaging.ParseQCDecision(req.Decision)
	if err != nil {
		return err
	}
	cmd, err := commands.NewRecordQCDecisionCommand(packageID, decision, req.Notes, ActorFrom(c))
	if err != nil {
		return err
	}
	if err = s.h.RecordQCDecision.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// SealPackage handles POST /api/v1/packages/:id/seal.
func (s *Server) SealPackage(c echo.Context) error {
	packageID, err := pathID(c)
	if err != nil {
		return err
	}
	var req SealPackageRequest
	if err = bind(c, &req); err != nil {
		return err
	}
	cmd, err := commands.NewSealPackageCommand(packageID, req.SealID, ActorFrom(c))
	if err != nil {
		return err
	}
	if err = s.h.SealPackage.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
