package http

import (
	"custody/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

func pathID(c echo.Context) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(c.Param("id"))
	if err != nil {
		return kernel.UUID{}, badRequest("invalid id in path")
	}
	return id, nil
}

func parseIDs(raw []string) ([]kernel.UUID, error) {
	out := make([]kernel.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := kernel.UUIDFromString(s)
		if err != nil {
			return nil, badRequest("invalid id " + s)
		}
		out = append(out, id)
	}
	return out, nil
}

func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return badRequest("invalid request body")
	}
	return nil
}

// Created is returned by every handler that creates an aggregate.
type Created struct {
	ID       string   `json:"id"`
	Code     string   `json:"code"`
	Warnings []string `json:"warnings,omitempty"`
}
