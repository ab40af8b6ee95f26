package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xihads/snaptasker/internal/store"
)

func (h *handlerImpl) HandleListApplications(c *gin.Context) {
	claimedEmail, ok := getStringFromContext(c, emailCtxKey)
	if !ok {
		h.logger.Error().Msg("no session email found in context")
		abort(c, newUnauthorizedError(errMissingSessionToken.Error()))
		return
	}

	// Callers may only list their own applications. An omitted email
	// query falls back to the session's email.
	email := c.Query("email")
	if email == "" {
		email = claimedEmail
	} else if email != claimedEmail {
		h.logger.Warn().
			Str("query_email", email).
			Msg("email does not match session claim")
		abort(c, newForbiddenError("forbidden: email does not match session"))
		return
	}

	docs, err := h.applications.Find(c, email, c.Query("taskId"))
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list applications")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, docs)
}

func (h *handlerImpl) HandleApplicationsByTask(c *gin.Context) {
	taskID := c.Param("taskId")

	docs, err := h.applications.FindByTask(c, taskID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list applications by task")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	c.JSON(http.StatusOK, docs)
}

func (h *handlerImpl) HandleCreateApplication(c *gin.Context) {
	var application store.Document
	err := c.ShouldBindJSON(&application)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	result, err := h.applications.Insert(c, application)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create application")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	h.logger.Info().
		Str("id", result.InsertedID).
		Msg("created application")
	c.JSON(http.StatusOK, result)
}

func (h *handlerImpl) HandleDeleteApplication(c *gin.Context) {
	id := c.Param("id")

	result, err := h.applications.Delete(c, id)
	if err != nil {
		if errors.Is(err, store.ErrInvalidID) {
			abort(c, newBadRequestError(store.ErrInvalidID.Error()))
			return
		}

		h.logger.Error().
			Err(err).
			Str("id", id).
			Msg("failed to delete application")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	h.logger.Info().
		Str("id", id).
		Msg("deleted application")
	c.JSON(http.StatusOK, result)
}
