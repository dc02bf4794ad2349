// Package http is the REST boundary of the custody engine. Handlers bind requests, attach the
// acting user from ActorMiddleware and delegate to the application layer.
package http

import (
	"log/slog"
	"net/http"

	"custody/internal/core/application/usecases/commands"
	"custody/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// Handlers groups the use cases exposed over HTTP.
type Handlers struct {
	CreatePackage      commands.CreatePackageCommandHandler
	AddPackageItem     commands.AddPackageItemCommandHandler
	SubmitPackageForQC commands.SubmitPackageForQCCommandHandler
	RecordQCDecision   commands.RecordQCDecisionCommandHandler
	SealPackage        commands.SealPackageCommandHandler

	GenerateDropTag       commands.GenerateDropTagCommandHandler
	ReadyDropTagToPrint   commands.ReadyDropTagToPrintCommandHandler
	PrintDropTag          commands.PrintDropTagCommandHandler
	ReprintDropTag        commands.ReprintDropTagCommandHandler
	ApplyDropTag          commands.ApplyDropTagCommandHandler
	VoidDropTag           commands.VoidDropTagCommandHandler
	RegisterTagIdentifier commands.RegisterTagIdentifierCommandHandler

	CreateListing           commands.CreateListingCommandHandler
	AddListingTags          commands.AddListingTagsCommandHandler
	RemoveListingTags       commands.RemoveListingTagsCommandHandler
	SetListingStops         commands.SetListingStopsCommandHandler
	FinalizeListing         commands.FinalizeListingCommandHandler
	PrintListing            commands.PrintListingCommandHandler
	ConfirmListingLoaded    commands.ConfirmListingLoadedCommandHandler
	LockAndDepartListing    commands.LockAndDepartListingCommandHandler
	ConfirmListingDelivered commands.ConfirmListingDeliveredCommandHandler
	CloseListing            commands.CloseListingCommandHandler

	ProcessScan commands.ProcessScanCommandHandler

	ResolveIdentifier queries.ResolveIdentifierQueryHandler
	GetTraceHistory   queries.GetTraceHistoryQueryHandler
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	h Handlers
}

// NewServer creates a server over the application handlers.
func NewServer(h Handlers) *Server {
	return &Server{h: h}
}

// NewEcho builds the echo instance with middleware and every route registered.
func NewEcho(s *Server, jwtSecret []byte, logger *slog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = ErrorHandler
	e.Use(middleware.RequestID())
	e.Use(RequestLogger(logger))
	e.Use(middleware.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	api := e.Group("/api/v1", ActorMiddleware(jwtSecret))
	s.Register(api)
	return e
}

// Register mounts the custody routes on g.
func (s *Server) Register(g *echo.Group) {
	g.POST("/packages", s.CreatePackage)
	g.POST("/packages/:id/items", s.AddPackageItem)
	g.POST("/packages/:id/submit-qc", s.SubmitPackageForQC)
	g.POST("/packages/:id/qc-decision", s.RecordQCDecision)
	g.POST("/packages/:id/seal", s.SealPackage)
	g.POST("/packages/:id/drop-tags", s.GenerateDropTag)

	g.POST("/drop-tags/:id/ready", s.ReadyDropTagToPrint)
	g.POST("/drop-tags/:id/print", s.PrintDropTag)
	g.POST("/drop-tags/:id/reprint", s.ReprintDropTag)
	g.POST("/drop-tags/:id/apply", s.ApplyDropTag)
	g.POST("/drop-tags/:id/void", s.VoidDropTag)
	g.POST("/drop-tags/:id/identifiers", s.RegisterTagIdentifier)

	g.POST("/listings", s.CreateListing)
	g.POST("/listings/:id/tags", s.AddListingTags)
	g.DELETE("/listings/:id/tags", s.RemoveListingTags)
	g.PUT("/listings/:id/stops", s.SetListingStops)
	g.POST("/listings/:id/finalize", s.FinalizeListing)
	g.POST("/listings/:id/print", s.PrintListing)
	g.POST("/listings/:id/loaded", s.ConfirmListingLoaded)
	g.POST("/listings/:id/depart", s.LockAndDepartListing)
	g.POST("/listings/:id/delivered", s.ConfirmListingDelivered)
	g.POST("/listings/:id/close", s.CloseListing)

	g.POST("/scans", s.ProcessScan)

	g.GET("/identifiers/resolve", s.ResolveIdentifier)
	g.GET("/trace-events", s.GetTraceHistory)
}
