package http

import (
	"net/http"

	"custody/internal/core/application/usecases/commands"
	"custody/internal/core/domain/model/droptag"
	"custody/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

type ReprintDropTagRequest struct {
	Reason string `json:"reason"`
}

type ApplyDropTagRequest struct {
	PackageScan string `json:"packageScan"`
}

type VoidDropTagRequest struct {
	Reason  string `json:"reason"`
	ClaimID string `json:"claimId"`
}

type RegisterTagIdentifierRequest struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// PrintJob is returned by print and reprint.
type PrintJob struct {
	PrintJobID string `json:"printJobId"`
}

// GenerateDropTag handles POST /api/v1/packages/:id/drop-tags.
func (s *Server) GenerateDropTag(c echo.Context) error {
	packageID, err := pathID(c)
	if err != nil {
		return err
	}
	cmd, err := commands.NewGenerateDropTagCommand(packageID, kernel.NewUUID(), ActorFrom(c))
	if err != nil {
		return err
	}
	res, err := s.h.GenerateDropTag.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, Created{ID: res.DropTagID.String(), Code: res.Code.String(), Warnings: res.Warnings})
}

// ReadyDropTagToPrint handles POST /api/v1/drop-tags/:id/ready.
func (s *Server) ReadyDropTagToPrint(c echo.Context) error {
	tagID, err := pathID(c)
	if err != nil {
		return err
	}
	cmd, err := commands.NewReadyDropTagToPrintCommand(tagID, ActorFrom(c))
	if err != nil {
		return err
	}
	if err = s.h.ReadyDropTagToPrint.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// PrintDropTag handles POST /api/v1/drop-tags/:id/print.
func (s *Server) PrintDropTag(c echo.Context) error {
	tagID, err := pathID(c)
	if err != nil {
		return err
	}
	cmd, err := commands.NewPrintDropTagCommand(tagID, ActorFrom(c))
	if err != nil {
		return err
	}
	job, err := s.h.PrintDropTag.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, PrintJob{PrintJobID: job})
}

// ReprintDropTag handles POST /api/v1/drop-tags/:id/reprint.
func (s *Server) ReprintDropTag(c echo.Context) error {
	tagID, err := pathID(c)
	if err != nil {
		return err
	}
	var req ReprintDropTagRequest
	if err = bind(c, &req); err != nil {
		return err
	}
	reason, err := droptag.ParseReprintReason(req.Reason)
	if err != nil {
		return err
	}
	cmd, err := commands.NewReprintDropTagCommand(tagID, reason, ActorFrom(c))
	if err != nil {
		return err
	}
	job, err := s.h.ReprintDropTag.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, PrintJob{PrintJobID: job})
}

// ApplyDropTag handles POST /api/v1/drop-tags/:id/apply.
func (s *Server) ApplyDropTag(c echo.Context) error {
	tagID, err := pathID(c)
	if err != nil {
		return err
	}
	var req ApplyDropTagRequest
	if err = bind(c, &req); err != nil {
		return err
	}
	cmd, err := commands.NewApplyDropTagCommand(tagID, req.PackageScan, ActorFrom(c))
	if err != nil {
		return err
	}
	if err = s.h.ApplyDropTag.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// VoidDropTag handles POST /api/v1/drop-tags/:id/void.
func (s *Server) VoidDropTag(c echo.Context) error {
	tagID, err := pathID(c)
	if err != nil {
		return err
	}
	var req VoidDropTagRequest
	if err = bind(c, &req); err != nil {
		return err
	}
	cmd, err := commands.NewVoidDropTagCommand(tagID, req.Reason, req.ClaimID, ActorFrom(c))
	if err != nil {
		return err
	}
	if err = s.h.VoidDropTag.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// RegisterTagIdentifier handles POST /api/v1/drop-tags/:id/identifiers.
func (s *Server) RegisterTagIdentifier(c echo.Context) error {
	tagID, err := pathID(c)
	if err != nil {
		return err
	}
	var req RegisterTagIdentifierRequest
	if err = bind(c, &req); err != nil {
		return err
	}
	kind, err := droptag.ParseIdentifierType(req.Type)
	if err != nil {
		return err
	}
	id := kernel.NewUUID()
	cmd, err := commands.NewRegisterTagIdentifierCommand(id, tagID, kind, req.Value, ActorFrom(c))
	if err != nil {
		return err
	}
	if err = s.h.RegisterTagIdentifier.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, Created{ID: id.String()})
}
