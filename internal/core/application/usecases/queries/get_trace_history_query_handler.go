package queries

import (
	"context"

	"custody/internal/core/domain/model/trace"
)

type GetTraceHistoryQueryHandler struct {
	repos RepositoriesFactory
}

// NewGetTraceHistoryQueryHandler creates a handler reading through repos.
func NewGetTraceHistoryQueryHandler(repos RepositoriesFactory) GetTraceHistoryQueryHandler {
	return GetTraceHistoryQueryHandler{repos: repos}
}

// Handle reads the matching events and counts the ones whose hash no longer verifies.
func (h GetTraceHistoryQueryHandler) Handle(ctx context.Context, query GetTraceHistoryQuery) (GetTraceHistoryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetTraceHistoryQueryResponse{}, err
	}

	events, err := h.repos.Create().TraceEventRepository().Find(ctx, query.Filter())
	if err != nil {
		return GetTraceHistoryQueryResponse{}, err
	}

	resp := GetTraceHistoryQueryResponse{Events: trace.NewRecords(events)}
	for _, rec := range resp.Events {
		if !rec.Verified {
			resp.Tampered++
		}
	}
	return resp, nil
}
