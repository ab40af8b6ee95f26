package v1

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/xihads/snaptasker/internal/store"
)

func (h *handlerImpl) HandleCreateBid(c *gin.Context) {
	var bid store.Document
	err := c.ShouldBindJSON(&bid)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	taskID, _ := bid["taskId"].(string)
	userEmail, _ := bid["userEmail"].(string)
	if taskID == "" || userEmail == "" {
		h.logger.Error().Msg("bid missing taskId or userEmail")
		abort(c, newBadRequestError("taskId and userEmail are required"))
		return
	}

	if _, ok := bid["bidDate"]; !ok {
		bid["bidDate"] = time.Now()
	}

	result, err := h.bids.Insert(c, bid)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateBid) {
			h.logger.Warn().
				Str("taskId", taskID).
				Str("userEmail", userEmail).
				Msg("duplicate bid rejected")
			abort(c, newBadRequestError("You have already placed a bid on this task"))
			return
		}

		h.logger.Error().
			Err(err).
			Msg("failed to create bid")
		abort(c, newAPIError(http.StatusInternalServerError, "Failed to create bid"))
		return
	}

	h.logger.Info().
		Str("id", result.InsertedID).
		Str("taskId", taskID).
		Msg("created bid")
	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"insertedId": result.InsertedID,
	})
}

func (h *handlerImpl) HandleBidExists(c *gin.Context) {
	email := c.Param("email")
	taskID := c.Param("taskId")

	exists, err := h.bids.Exists(c, email, taskID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to check bid existence")
		abort(c, newAPIError(http.StatusInternalServerError, "Failed to check bid existence"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"exists": exists})
}

func (h *handlerImpl) HandleBidCount(c *gin.Context) {
	email := c.Param("email")

	count, err := h.bids.CountByUser(c, email)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to count bids")
		abort(c, newAPIError(http.StatusInternalServerError, "Failed to get bid count"))
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (h *handlerImpl) HandleBidsByTask(c *gin.Context) {
	taskID := c.Param("taskId")

	docs, err := h.bids.FindByTask(c, taskID)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list bids by task")
		abort(c, newAPIError(http.StatusInternalServerError, "Failed to get task bids"))
		return
	}

	c.JSON(http.StatusOK, docs)
}

func (h *handlerImpl) HandleBidsByUser(c *gin.Context) {
	email := c.Param("email")

	docs, err := h.bids.FindByUser(c, email)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to list bids by user")
		abort(c, newAPIError(http.StatusInternalServerError, "Failed to get user bids"))
		return
	}

	c.JSON(http.StatusOK, docs)
}
