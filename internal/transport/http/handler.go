package http

import (
	"errors"
	"io"
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	authzdomain "github.com/snapser-community/snapser-byosnaps/internal/domain/authz"
	"github.com/snapser-community/snapser-byosnaps/internal/domain/game"
	"github.com/snapser-community/snapser-byosnaps/internal/domain/profile"
	"github.com/snapser-community/snapser-byosnaps/internal/infra/profiles"
	"github.com/snapser-community/snapser-byosnaps/pkg/logger"
	"github.com/snapser-community/snapser-byosnaps/pkg/tracer"
	"go.opentelemetry.io/otel/attribute"
)

const (
	msgSuccess          = "success"
	msgInternalError    = "internal server error"
	msgBadBody          = "Error un-marshalling request body"
	msgProfilesNoAnswer = "Error calling snapser"
	msgBodyTooLarge     = "Request body too large"
)

// maxBodyBytes bounds game and profile payloads.
const maxBodyBytes = 1 << 20

type Handler struct {
	gameService    game.Service
	profileService profile.Service
	headerKeys     authzdomain.HeaderKeys
}

func NewHandler(gameService game.Service, profileService profile.Service, headerKeys authzdomain.HeaderKeys) *Handler {
	return &Handler{
		gameService:    gameService,
		profileService: profileService,
		headerKeys:     headerKeys,
	}
}

// byName maps route table names to handlers.
func (h *Handler) byName() map[string]gin.HandlerFunc {
	return map[string]gin.HandlerFunc{
		"GetGame":           h.GetGame,
		"SaveGame":          h.SaveGame,
		"DeleteUser":        h.DeleteUser,
		"UpdateUserProfile": h.UpdateUserProfile,
	}
}

func (h *Handler) Healthz(c *gin.Context) {
	c.String(http.StatusOK, "Ok")
}

func (h *Handler) Preflight(c *gin.Context) {
	c.String(http.StatusOK, "Ok")
}

func (h *Handler) success(c *gin.Context, api, message string, data any) {
	c.JSON(http.StatusOK, SuccessResponse{
		API:          api,
		AuthType:     orNotAvailable(c.GetHeader(h.headerKeys.AuthType)),
		HeaderUserID: orNotAvailable(c.GetHeader(h.headerKeys.UserID)),
		PathUserID:   c.GetString(pathUserIDKey),
		Message:      message,
		Data:         data,
	})
}

func abortWithError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{ErrorMessage: message})
}

func (h *Handler) GetGame(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "transport.http.GetGame")
	defer span.End()

	userID := c.GetString(pathUserIDKey)
	span.SetAttributes(attribute.String("game.user_id", userID))

	state, err := h.gameService.GetGame(ctx, userID)
	if errors.Is(err, game.ErrNotFound) {
		h.success(c, "GetGame", msgSuccess, nil)
		return
	}
	if err != nil {
		span.RecordError(err)
		logger.ErrorContext(ctx, "failed to get game", slog.String("error", err.Error()))
		abortWithError(c, http.StatusInternalServerError, msgInternalError)
		return
	}

	h.success(c, "GetGame", msgSuccess, state)
}

func (h *Handler) SaveGame(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "transport.http.SaveGame")
	defer span.End()

	userID := c.GetString(pathUserIDKey)
	span.SetAttributes(attribute.String("game.user_id", userID))

	data, err := readGameBody(c)
	if err != nil {
		logger.WarnContext(ctx, "rejected game body", slog.String("error", err.Error()))
		if isBodyTooLarge(err) {
			abortWithError(c, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
			return
		}
		if errors.Is(err, game.ErrInvalidState) {
			abortWithError(c, http.StatusBadRequest, err.Error())
			return
		}
		abortWithError(c, http.StatusBadRequest, msgBadBody)
		return
	}

	state, err := h.gameService.SaveGame(ctx, userID, data)
	if err != nil {
		span.RecordError(err)
		logger.ErrorContext(ctx, "failed to save game", slog.String("error", err.Error()))
		abortWithError(c, http.StatusInternalServerError, msgInternalError)
		return
	}

	h.success(c, "SaveGame", msgSuccess, state)
}

// readGameBody accepts an empty body or a JSON object.
func readGameBody(c *gin.Context) (map[string]any, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, nil
	}

	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, game.ErrInvalidState
	}
	return obj, nil
}

func (h *Handler) DeleteUser(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "transport.http.DeleteUser")
	defer span.End()

	userID := c.GetString(pathUserIDKey)
	span.SetAttributes(attribute.String("game.user_id", userID))

	if err := h.gameService.DeleteUser(ctx, userID); err != nil {
		span.RecordError(err)
		logger.ErrorContext(ctx, "failed to delete user", slog.String("error", err.Error()))
		abortWithError(c, http.StatusInternalServerError, msgInternalError)
		return
	}

	h.success(c, "DeleteUser", msgSuccess, nil)
}

func (h *Handler) UpdateUserProfile(c *gin.Context) {
	ctx, span := tracer.Start(c.Request.Context(), "transport.http.UpdateUserProfile")
	defer span.End()

	userID := c.GetString(pathUserIDKey)
	span.SetAttributes(attribute.String("profile.user_id", userID))

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes)

	var payload ProfilePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		if isBodyTooLarge(err) {
			abortWithError(c, http.StatusRequestEntityTooLarge, msgBodyTooLarge)
			return
		}
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			abortWithError(c, http.StatusBadRequest, profile.ErrProfileRequired.Error())
			return
		}
		abortWithError(c, http.StatusBadRequest, msgBadBody)
		return
	}

	message, err := h.profileService.UpdateProfile(ctx, userID, payload.Profile)
	if err != nil {
		span.RecordError(err)
		h.profileError(c, err)
		return
	}

	h.success(c, "UpdateUserProfile", message, nil)
}

func isBodyTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

// profileError relays a Profiles rejection unchanged.
func (h *Handler) profileError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	var statusErr *profiles.StatusError
	switch {
	case errors.As(err, &statusErr):
		c.Data(statusErr.StatusCode, "application/json", statusErr.Body)
		c.Abort()
	case errors.Is(err, profiles.ErrNoResponse):
		logger.ErrorContext(ctx, "profiles service unreachable", slog.String("error", err.Error()))
		abortWithError(c, http.StatusBadGateway, msgProfilesNoAnswer)
	case errors.Is(err, profile.ErrProfileRequired):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		logger.ErrorContext(ctx, "failed to update profile", slog.String("error", err.Error()))
		abortWithError(c, http.StatusInternalServerError, msgInternalError)
	}
}
