package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"mythos-backend/application/commands"
	"mythos-backend/application/commands/bus"
	cmdhandlers "mythos-backend/application/commands/handlers"
	"mythos-backend/application/queries"
	querybus "mythos-backend/application/queries/bus"
	"mythos-backend/pkg/auth"
	"mythos-backend/pkg/common"
	pkgerrors "mythos-backend/pkg/errors"
	"mythos-backend/pkg/utils"
)

const maxRequestBody = 4 << 20

// ArtifactHandler handles artifact-related HTTP requests
type ArtifactHandler struct {
	commandBus     *bus.CommandBus
	queryBus       *querybus.QueryBus
	createHandler  *cmdhandlers.CreateArtifactHandler
	applyHandler   *cmdhandlers.ApplyOperationHandler
	iterateHandler *cmdhandlers.IterateArtifactHandler
	logger         *zap.Logger
}

// NewArtifactHandler creates a new artifact handler
func NewArtifactHandler(
	commandBus *bus.CommandBus,
	queryBus *querybus.QueryBus,
	createHandler *cmdhandlers.CreateArtifactHandler,
	applyHandler *cmdhandlers.ApplyOperationHandler,
	iterateHandler *cmdhandlers.IterateArtifactHandler,
	logger *zap.Logger,
) *ArtifactHandler {
	return &ArtifactHandler{
		commandBus:     commandBus,
		queryBus:       queryBus,
		createHandler:  createHandler,
		applyHandler:   applyHandler,
		iterateHandler: iterateHandler,
		logger:         logger,
	}
}

// CreateArtifactRequest represents the request body for creating an artifact
type CreateArtifactRequest struct {
	Title   string `json:"title" validate:"required,min=1,max=300"`
	Kind    string `json:"kind" validate:"required"`
	Format  string `json:"format,omitempty" validate:"omitempty,oneof=json markdown plain"`
	Content string `json:"content"`
}

// CreateArtifact handles POST /artifacts
func (h *ArtifactHandler) CreateArtifact(w http.ResponseWriter, r *http.Request) {
	var req CreateArtifactRequest
	if err := common.ParseJSONBody(r, &req, maxRequestBody); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, err.Error())
		return
	}

	userCtx, err := auth.GetUserFromContext(r.Context())
	if err != nil {
		common.RespondError(w, http.StatusUnauthorized, common.StandardErrorCodes.Unauthorized, "Unauthorized")
		return
	}

	cmd := commands.CreateArtifactCommand{
		ProjectID: projectID(r),
		Title:     req.Title,
		Kind:      req.Kind,
		Format:    req.Format,
		Content:   req.Content,
		CreatedBy: userCtx.UserID,
	}

	artifact, err := h.createHandler.Handle(r.Context(), cmd)
	if err != nil {
		h.respondAppError(w, err, "Failed to create artifact")
		return
	}

	common.RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"key":              artifact.Key().String(),
		"currentVersionId": artifact.CurrentVersionID(),
		"createdAt":        utils.FormatRFC3339(artifact.CreatedAt()),
	})
}

// GetArtifact handles GET /artifacts/{key}
func (h *ArtifactHandler) GetArtifact(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Artifact key is required")
		return
	}

	result, err := h.queryBus.Ask(r.Context(), queries.GetArtifactQuery{
		ProjectID: projectID(r),
		Key:       key,
	})
	if err != nil {
		h.respondAppError(w, err, "Failed to get artifact")
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// ListArtifacts handles GET /artifacts
func (h *ArtifactHandler) ListArtifacts(w http.ResponseWriter, r *http.Request) {
	result, err := h.queryBus.Ask(r.Context(), queries.ListArtifactsQuery{
		ProjectID: projectID(r),
		Limit:     queryLimit(r),
	})
	if err != nil {
		h.respondAppError(w, err, "Failed to list artifacts")
		return
	}
	common.RespondJSON(w, http.StatusOK, result)
}

// DeleteArtifact handles DELETE /artifacts/{key}
func (h *ArtifactHandler) DeleteArtifact(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Artifact key is required")
		return
	}

	cmd := commands.DeleteArtifactCommand{ProjectID: projectID(r), Key: key}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.respondAppError(w, err, "Failed to delete artifact")
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"message": "Artifact deleted"})
}

// ApplyOperation handles POST /artifacts/{key}/ops
func (h *ArtifactHandler) ApplyOperation(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Artifact key is required")
		return
	}

	var op json.RawMessage
	if err := common.ParseJSONBody(r, &op, maxRequestBody); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Invalid request body: "+err.Error())
		return
	}

	cmd := commands.ApplyOperationCommand{
		ProjectID: projectID(r),
		Key:       key,
		Operation: op,
	}
	if err := cmd.Validate(); err != nil {
		h.respondAppError(w, err, "Invalid operation")
		return
	}

	result, err := h.applyHandler.Handle(r.Context(), cmd)
	if err != nil {
		h.respondAppError(w, err, "Failed to apply operation")
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"changed":          result.Changed,
		"content":          result.Artifact.Content(),
		"currentVersionId": result.Artifact.CurrentVersionID(),
	})
}

// IterateRequest represents the request body for an AI refinement round
type IterateRequest struct {
	Prompt  string `json:"prompt" validate:"required,min=1,max=10000"`
	Context string `json:"context,omitempty" validate:"max=50000"`
}

// IterateArtifact handles POST /artifacts/{key}/iterate
func (h *ArtifactHandler) IterateArtifact(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Artifact key is required")
		return
	}

	var req IterateRequest
	if err := common.ParseJSONBody(r, &req, maxRequestBody); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := utils.ValidateStruct(req); err != nil {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.ValidationError, err.Error())
		return
	}

	cmd := commands.IterateArtifactCommand{
		ProjectID: projectID(r),
		Key:       key,
		Prompt:    req.Prompt,
		Context:   req.Context,
	}

	result, err := h.iterateHandler.Handle(r.Context(), cmd)
	if err != nil {
		h.respondAppError(w, err, "Iteration failed")
		return
	}

	common.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"content":          result.Artifact.Content(),
		"currentVersionId": result.Version.ID,
		"message":          result.Message.Content,
	})
}

// SaveArtifact handles POST /artifacts/{key}/save
func (h *ArtifactHandler) SaveArtifact(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if key == "" {
		common.RespondError(w, http.StatusBadRequest, common.StandardErrorCodes.BadRequest, "Artifact key is required")
		return
	}

	cmd := commands.SaveArtifactCommand{ProjectID: projectID(r), Key: key}
	if err := h.commandBus.Send(r.Context(), cmd); err != nil {
		h.respondAppError(w, err, "Failed to save artifact")
		return
	}
	common.RespondJSON(w, http.StatusOK, map[string]string{"status": "saved"})
}

// respondAppError maps application errors onto HTTP responses
func (h *ArtifactHandler) respondAppError(w http.ResponseWriter, err error, fallback string) {
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

// projectID resolves the project scope for a request
func projectID(r *http.Request) string {
	if id := r.Header.Get("X-Project-ID"); id != "" {
		return id
	}
	if id := r.URL.Query().Get("project"); id != "" {
		return id
	}
	return "default"
}

func queryLimit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	limit := 0
	for _, c := range raw {
		if c < '0' || c > '9' {
			return 0
		}
		limit = limit*10 + int(c-'0')
		if limit > 1000 {
			return 1000
		}
	}
	return limit
}
