package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/xihads/snaptasker/internal/store"
)

const recentTaskLimit = 6

func (h *handlerImpl) HandleListTasks(c *gin.Context) {
	email := c.Query("email")

	docs, err := h.tasks.Find(c, email)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list tasks")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	for _, doc := range docs {
		store.RenderDeadline(doc)
	}
	c.JSON(http.StatusOK, docs)
}

func (h *handlerImpl) HandleGetTask(c *gin.Context) {
	id := c.Param("id")

	doc, err := h.tasks.FindByID(c, id)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrInvalidID):
			abort(c, newBadRequestError(store.ErrInvalidID.Error()))
		case errors.Is(err, store.ErrNoDocuments):
			abort(c, newNotFoundError("task not found"))
		default:
			h.logger.Error().
				Err(err).
				Str("id", id).
				Msg("failed to get task")
			abort(c, newStatusTextError(http.StatusInternalServerError))
		}
		return
	}

	c.JSON(http.StatusOK, store.RenderDeadline(doc))
}

func (h *handlerImpl) HandleRecentTasks(c *gin.Context) {
	docs, err := h.tasks.Recent(c, recentTaskLimit)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list recent tasks")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	for _, doc := range docs {
		store.RenderDeadline(doc)
	}
	c.JSON(http.StatusOK, docs)
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	var task store.Document
	err := c.ShouldBindJSON(&task)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	// A deadline arriving as an ISO date string is persisted as a real
	// timestamp; anything else goes through untouched.
	if raw, ok := task["deadline"].(string); ok {
		if deadline, ok := store.ParseDeadlineString(raw); ok {
			task["deadline"] = deadline
		}
	}

	result, err := h.tasks.Insert(c, task)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to create task")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	h.logger.Info().
		Str("id", result.InsertedID).
		Msg("created task")
	c.JSON(http.StatusOK, result)
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	id := c.Param("id")

	var fields store.Document
	err := c.ShouldBindJSON(&fields)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	if raw, ok := fields["deadline"].(string); ok {
		if deadline, ok := store.ParseDeadlineString(raw); ok {
			fields["deadline"] = deadline
		}
	}

	result, err := h.tasks.Update(c, id, fields)
	if err != nil {
		if errors.Is(err, store.ErrInvalidID) {
			abort(c, newBadRequestError(store.ErrInvalidID.Error()))
			return
		}

		h.logger.Error().
			Err(err).
			Str("id", id).
			Msg("failed to update task")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	h.logger.Info().
		Str("id", id).
		Msg("updated task")
	c.JSON(http.StatusOK, result)
}

func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	id := c.Param("id")

	result, err := h.tasks.Delete(c, id)
	if err != nil {
		if errors.Is(err, store.ErrInvalidID) {
			abort(c, newBadRequestError(store.ErrInvalidID.Error()))
			return
		}

		h.logger.Error().
			Err(err).
			Str("id", id).
			Msg("failed to delete task")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	h.logger.Info().
		Str("id", id).
		Msg("deleted task")
	c.JSON(http.StatusOK, result)
}
