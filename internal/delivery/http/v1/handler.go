package v1

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/xihads/snaptasker/internal/store"
)

type Handler interface {
	HandleLiveness(c *gin.Context)
	HandleIssueSession(c *gin.Context)
	HandleRegister(c *gin.Context)
	HandleAuthMiddleware(c *gin.Context)

	HandleListTasks(c *gin.Context)
	HandleGetTask(c *gin.Context)
	HandleRecentTasks(c *gin.Context)
	HandleCreateTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)

	HandleCreateBid(c *gin.Context)
	HandleBidExists(c *gin.Context)
	HandleBidCount(c *gin.Context)
	HandleBidsByTask(c *gin.Context)
	HandleBidsByUser(c *gin.Context)

	HandleListApplications(c *gin.Context)
	HandleApplicationsByTask(c *gin.Context)
	HandleCreateApplication(c *gin.Context)
	HandleDeleteApplication(c *gin.Context)
}

// SessionConfig carries everything session issuance and verification need.
// SecureCookies switches the cookie to Secure + SameSite=None for
// cross-site deployments.
type SessionConfig struct {
	Issuer        string
	SigningKey    []byte
	TTL           time.Duration
	SecureCookies bool
}

type handlerImpl struct {
	logger       zerolog.Logger
	tasks        store.TaskStore
	bids         store.BidStore
	applications store.ApplicationStore
	users        store.UserStore
	session      SessionConfig
}

func New(
	logger zerolog.Logger,
	tasks store.TaskStore,
	bids store.BidStore,
	applications store.ApplicationStore,
	users store.UserStore,
	session SessionConfig,
) Handler {
	return &handlerImpl{
		logger:       logger,
		tasks:        tasks,
		bids:         bids,
		applications: applications,
		users:        users,
		session:      session,
	}
}
