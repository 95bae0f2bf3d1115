package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"mythos-backend/application/commands"
	cmdhandlers "mythos-backend/application/commands/handlers"
	"mythos-backend/application/queries"
	querybus "mythos-backend/application/queries/bus"
	"mythos-backend/pkg/common"
	pkgerrors "mythos-backend/pkg/errors"
	"mythos-backend/pkg/utils"
)

// VersionHandler handles version-history HTTP requests
type VersionHandler struct {
	queryBus       *querybus.QueryBus
	restoreHandler *cmdhandlers.RestoreVersionHandler
	logger         *zap.Logger
}

// NewVersionHandler creates a new version handler
func NewVersionHandler(queryBus *querybus.QueryBus, restoreHandler *cmdhandlers.RestoreVersionHandler, logger *zap.Logger) *VersionHandler {
	return &VersionHandler{
		queryBus:       queryBus,
		restoreHandler: restoreHandler,
		logger:         logger,
	}
}

// GetVersions handles GET /artifacts/{key}/versions
func (h *VersionHandler) GetVersions(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Artifact key is required")
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetVersionsQuery{
		ProjectID: projectID(r),
		Key:       key,
	})
	if err != nil {
		h.respondAppError(w, err, "Failed to get versions")
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// RestoreVersion handles POST /artifacts/{key}/versions/{versionID}/restore
func (h *VersionHandler) RestoreVersion(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	versionID := chi.URLParam(r, "versionID")
	if key == "" || versionID == "" {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Artifact key and version ID are required")
		return
	}

	cmd := commands.RestoreVersionCommand{
		ProjectID: projectID(r),
		Key:       key,
		VersionID: versionID,
	}

	artifact, err := h.restoreHandler.Handle(r.Context(), cmd)
	if err != nil {
		h.respondAppError(w, err, "Failed to restore version")
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"content":          artifact.Content(),
		"currentVersionId": artifact.CurrentVersionID(),
		"restoredAt":       utils.NowRFC3339(),
	})
}

func (h *VersionHandler) respondAppError(w http.ResponseWriter, err error, fallback string) {
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
