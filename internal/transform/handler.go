package transform

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/contra-ai/contra-api/internal/auth"
	"github.com/contra-ai/contra-api/internal/httputil"
	"github.com/contra-ai/contra-api/internal/logging"
)

// Handler exposes the pipeline over HTTP. The four modes share one handler
// per operation, parameterized by mode, so the response shapes cannot drift
// between modes.
type Handler struct {
	service *Service
	logger  *logging.Logger
}

func NewHandler(service *Service, logger *logging.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// createRequest uses a pointer so a missing or non-string originalContent is
// distinguishable from an empty one.
type createRequest struct {
	OriginalContent *string `json:"originalContent"`
}

// CreateResponse is the success envelope for POST /api/{mode}
type CreateResponse struct {
	Success   bool   `json:"success"`
	Content   string `json:"content"`
	WordCount int    `json:"wordCount"`
	Message   string `json:"message"`
}

// Create returns the handler for POST /api/{mode}
func (h *Handler) Create(mode Mode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := logging.GetLoggerFromContext(r.Context())

		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			httputil.RespondErrorWithCode(w, "Unauthorized user, please login", httputil.CodeMissingAuth, http.StatusUnauthorized)
			return
		}

		var req createRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.OriginalContent == nil {
			respondModeError(w, fmt.Sprintf("Content is required to %s it", mode), httputil.CodeContentRequired, http.StatusBadRequest)
			return
		}

		record, err := h.service.Create(r.Context(), userID, mode, *req.OriginalContent)
		if err != nil {
			var vErr *ValidationError
			switch {
			case errors.As(err, &vErr):
				logger.Warn("content validation failed", "mode", mode.String(), "error", vErr.Error())
				respondModeError(w, vErr.Error(), httputil.CodeContentInvalid, http.StatusBadRequest)
			case errors.Is(err, ErrUpstream):
				respondModeError(w, fmt.Sprintf("Failed to generate the transformed %s content", lower(mode.Label())), httputil.CodeUpstreamFailure, http.StatusBadGateway)
			case errors.Is(err, ErrOwnerNotFound):
				respondModeError(w, "User not found", httputil.CodeUserNotFound, http.StatusNotFound)
			case errors.Is(err, ErrPersistFailed):
				respondModeError(w, fmt.Sprintf("Failed to save the %s content", lower(mode.Label())), httputil.CodeInternalError, http.StatusInternalServerError)
			default:
				logger.Error("transformation failed", "mode", mode.String(), "error", err.Error())
				respondModeError(w, fmt.Sprintf("Error generating the %s content", lower(mode.Label())), httputil.CodeInternalError, http.StatusInternalServerError)
			}
			return
		}

		logger.Info("transformation created", "mode", mode.String(), "record_id", record.ID, "word_count", record.TransformedWordCount)

		httputil.RespondJSON(w, CreateResponse{
			Success:   true,
			Content:   record.TransformedContent,
			WordCount: record.TransformedWordCount,
			Message:   fmt.Sprintf("Successfully generated the %s content", lower(mode.Label())),
		}, http.StatusCreated)
	}
}

// History returns the handler for GET /api/history/... The fixed mode of the
// endpoint must be repeated in the `mode` query parameter; any mismatch is
// rejected before the store is touched.
func (h *Handler) History(mode Mode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := logging.GetLoggerFromContext(r.Context())

		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			httputil.RespondErrorWithCode(w, "Unauthorized access, please login", httputil.CodeMissingAuth, http.StatusUnauthorized)
			return
		}

		if r.URL.Query().Get("mode") != mode.String() {
			respondModeError(w, fmt.Sprintf("To get the content history, %s mode is required", mode), httputil.CodeModeMismatch, http.StatusBadRequest)
			return
		}

		records, err := h.service.History(r.Context(), userID, mode)
		if err != nil {
			logger.Error("failed to list history", "mode", mode.String(), "error", err.Error())
			respondModeError(w, fmt.Sprintf("Error while retrieving the %s content history", lower(mode.Label())), httputil.CodeInternalError, http.StatusInternalServerError)
			return
		}

		listField := mode.HistoryListField()

		if len(records) == 0 {
			httputil.RespondJSON(w, map[string]any{
				"success": true,
				"message": fmt.Sprintf("You have no history content for %s mode", lower(mode.Label())),
				listField: []any{},
			}, http.StatusOK)
			return
		}

		items := make([]map[string]any, 0, len(records))
		for _, record := range records {
			items = append(items, map[string]any{
				"_idTransformed" + mode.Label() + "Content": record.ID,
				"transformed" + mode.Label() + "Content":    record.TransformedContent,
				"transformed" + mode.Label() + "WordCount":  record.TransformedWordCount,
			})
		}

		httputil.RespondJSON(w, map[string]any{
			"success": true,
			"message": fmt.Sprintf("Successfully retrieved the %s content history", lower(mode.Label())),
			listField: items,
		}, http.StatusOK)
	}
}

// Delete returns the handler for DELETE /api/delete/.../{id}. The delete is
// scoped to the exact (id, owner, mode) triple.
func (h *Handler) Delete(mode Mode) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logger := logging.GetLoggerFromContext(r.Context())

		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			httputil.RespondErrorWithCode(w, "Unauthorized access, please login to perform the action", httputil.CodeMissingAuth, http.StatusUnauthorized)
			return
		}

		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			respondModeError(w, fmt.Sprintf("A valid record id is required to delete %s content history", lower(mode.Label())), httputil.CodeInvalidRequestBody, http.StatusBadRequest)
			return
		}

		if err := h.service.Delete(r.Context(), id, userID, mode); err != nil {
			if errors.Is(err, ErrRecordNotFound) {
				respondModeError(w, fmt.Sprintf("Failed to delete the %s content history", lower(mode.Label())), httputil.CodeRecordNotFound, http.StatusNotFound)
				return
			}
			logger.Error("failed to delete history record", "mode", mode.String(), "record_id", id, "error", err.Error())
			respondModeError(w, fmt.Sprintf("Error while deleting the %s content history, please try again", lower(mode.Label())), httputil.CodeInternalError, http.StatusInternalServerError)
			return
		}

		logger.Info("history record deleted", "mode", mode.String(), "record_id", id)

		httputil.RespondSuccess(w, fmt.Sprintf("Successfully deleted the %s content history", lower(mode.Label())), http.StatusOK)
	}
}

func respondModeError(w http.ResponseWriter, message, code string, statusCode int) {
	httputil.RespondErrorWithCode(w, message, code, statusCode)
}

// lower downcases the first rune of a mode label for use mid-sentence
func lower(label string) string {
	if label == "" {
		return label
	}
	return string(label[0]|0x20) + label[1:]
}
