package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"mythos-backend/application/queries"
	querybus "mythos-backend/application/queries/bus"
	"mythos-backend/application/registry"
	"mythos-backend/domain/core/valueobjects"
	"mythos-backend/pkg/common"
	pkgerrors "mythos-backend/pkg/errors"
	"mythos-backend/pkg/utils"
)

// ViewHandler handles working-set HTTP requests: the recent list and the
// split view pairing
type ViewHandler struct {
	queryBus *querybus.QueryBus
	registry *registry.Registry
	logger   *zap.Logger
}

// NewViewHandler creates a new view handler
func NewViewHandler(queryBus *querybus.QueryBus, reg *registry.Registry, logger *zap.Logger) *ViewHandler {
	return &ViewHandler{queryBus: queryBus, registry: reg, logger: logger}
}

// GetRecent handles GET /artifacts/recent
func (h *ViewHandler) GetRecent(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetRecentQuery{ProjectID: projectID(r)})
	if err != nil {
		h.respondAppError(w, err, "Failed to get recent artifacts")
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// SetSplitViewRequest represents the request body for pairing two artifacts
type SetSplitViewRequest struct {
	Left  string `json:"left" validate:"required"`
	Right string `json:"right" validate:"required"`
}

// SetSplitView handles PUT /split-view
func (h *ViewHandler) SetSplitView(w http.ResponseWriter, r *http.Request) {
	var req SetSplitViewRequest
	if err := common.ParseJSONBody(r, &req, maxRequestBody); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, err.Error())
		return
	}

	left, err := valueobjects.NewArtifactKeyFromString(req.Left)
	if err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Invalid left artifact key")
		return
	}
	right, err := valueobjects.NewArtifactKeyFromString(req.Right)
	if err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Invalid right artifact key")
		return
	}

	if err := h.registry.SetSplitView(left, right); err != nil {
		h.respondAppError(w, err, "Failed to set split view")
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "Split view set"})
}

// ClearSplitView handles DELETE /split-view
func (h *ViewHandler) ClearSplitView(w http.ResponseWriter, r *http.Request) {
	h.registry.ClearSplitView()
	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "Split view cleared"})
}

// GetSplitView handles GET /split-view
func (h *ViewHandler) GetSplitView(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.GetSplitViewQuery{ProjectID: projectID(r)})
	if err != nil {
		h.respondAppError(w, err, "Failed to get split view")
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

func (h *ViewHandler) respondAppError(w http.ResponseWriter, err error, fallback string) {
	var appErr *pkgerrors.AppError
	if errors.As(err, &appErr) {
		code := appErr.Code
		if code == "" {
			code = string(appErr.Type)
		}
		common.RespondError(w, appErr.HTTPStatus, code, appErr.Message)
		return
	}
	h.logger.Error(fallback, zap.Error(err))
	common.RespondError(w, http.StatusInternalServerError, common.StandardErrorCodes.InternalError, fallback)
}
