package handlers

import (
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"
	"github.com/lromero/smartlink/internal/tracker"
	"go.uber.org/zap"
)

// TrackerHandler handles the application pipeline endpoints.
type TrackerHandler struct {
	store  *tracker.Store
	logger *zap.Logger
}

// NewTrackerHandler creates a new tracker handler.
func NewTrackerHandler(store *tracker.Store, logger *zap.Logger) *TrackerHandler {
	return &TrackerHandler{store: store, logger: logger}
}

// AddApplication tracks a new job application for the calling user.
func (h *TrackerHandler) AddApplication(ctx context.Context, req *AddApplicationRequest) (*AddApplicationResponse, error) {
	meta := RequestMetaFromContext(ctx)
	if meta.UserID == "" {
		return nil, huma.Error401Unauthorized("missing user identity")
	}

	app, err := h.store.Add(ctx, meta.UserID, req.Body.Company, req.Body.Role, req.Body.Platform)
	if err != nil {
		h.logger.Error("failed to add application",
			zap.String("userId", meta.UserID),
			zap.Error(err),
		)

		return nil, huma.Error500InternalServerError("failed to add application")
	}

	return &AddApplicationResponse{Body: applicationBody(app)}, nil
}

// ListApplications returns the caller's applications, optionally filtered by
// a company/role substring.
func (h *TrackerHandler) ListApplications(ctx context.Context, req *ListApplicationsRequest) (*ListApplicationsResponse, error) {
	meta := RequestMetaFromContext(ctx)
	if meta.UserID == "" {
		return nil, huma.Error401Unauthorized("missing user identity")
	}

	apps, err := h.store.Search(ctx, meta.UserID, req.Query)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list applications")
	}

	resp := &ListApplicationsResponse{}
	resp.Body.Applications = make([]ApplicationBody, 0, len(apps))

	for _, app := range apps {
		resp.Body.Applications = append(resp.Body.Applications, applicationBody(app))
	}

	return resp, nil
}

// UpdateApplication moves an application to a new pipeline status.
func (h *TrackerHandler) UpdateApplication(ctx context.Context, req *UpdateApplicationRequest) (*UpdateApplicationResponse, error) {
	meta := RequestMetaFromContext(ctx)
	if meta.UserID == "" {
		return nil, huma.Error401Unauthorized("missing user identity")
	}

	if err := h.store.UpdateStatus(ctx, meta.UserID, req.ID, req.Body.Status); err != nil {
		if errors.Is(err, tracker.ErrNotFound) {
			return nil, huma.Error404NotFound("application not found")
		}

		return nil, huma.Error500InternalServerError("failed to update application")
	}

	resp := &UpdateApplicationResponse{}
	resp.Body.ID = req.ID
	resp.Body.Status = req.Body.Status

	return resp, nil
}

// DeleteApplication removes an application record.
func (h *TrackerHandler) DeleteApplication(ctx context.Context, req *DeleteApplicationRequest) (*struct{}, error) {
	meta := RequestMetaFromContext(ctx)
	if meta.UserID == "" {
		return nil, huma.Error401Unauthorized("missing user identity")
	}

	if err := h.store.Delete(ctx, meta.UserID, req.ID); err != nil {
		if errors.Is(err, tracker.ErrNotFound) {
			return nil, huma.Error404NotFound("application not found")
		}

		return nil, huma.Error500InternalServerError("failed to delete application")
	}

	return nil, nil
}

func applicationBody(app *tracker.Application) ApplicationBody {
	return ApplicationBody{
		ID:        app.ID,
		Company:   app.Company,
		Role:      app.Role,
		Platform:  app.Platform,
		Status:    app.Status,
		AppliedAt: app.AppliedAt,
	}
}
