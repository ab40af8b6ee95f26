package v1

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/xihads/snaptasker/internal/store"
)

const sessionCookie = "token"

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

type issueSessionRequest struct {
	Email string `json:"email" binding:"required,email,max=255"`
	// Password is only checked when the email has registered credentials.
	Password string `json:"password"`
}

func (h *handlerImpl) HandleIssueSession(c *gin.Context) {
	var req issueSessionRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	user, err := h.users.FindByEmail(c, req.Email)
	if err != nil && !errors.Is(err, store.ErrUserNotFound) {
		h.logger.Error().
			Err(err).
			Msg("failed to look up user")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	if user != nil {
		match, err := argon2id.ComparePasswordAndHash(req.Password, user.PasswordHash)
		if err != nil {
			h.logger.Error().
				Err(err).
				Msg("failed to compare password")
			abort(c, newStatusTextError(http.StatusInternalServerError))
			return
		} else if !match {
			h.logger.Warn().
				Str("email", req.Email).
				Msg("password mismatch")
			abort(c, newUnauthorizedError("wrong password"))
			return
		}
	}

	signed, err := h.signSessionToken(req.Email)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to sign session token")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	h.setSessionCookie(c, signed)
	h.logger.Info().
		Str("email", req.Email).
		Msg("issued session")
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=6,max=255"`
}

func (h *handlerImpl) HandleRegister(c *gin.Context) {
	var req registerRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(errInvalidRequestBody.Error()))
		return
	}

	hash, err := argon2id.CreateHash(req.Password, argon2id.DefaultParams)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to hash password")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	err = h.users.SaveCredentials(c, store.User{
		Email:        req.Email,
		PasswordHash: hash,
	})
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to save credentials")
		abort(c, newStatusTextError(http.StatusInternalServerError))
		return
	}

	h.logger.Info().
		Str("email", req.Email).
		Msg("registered credentials")
	c.JSON(http.StatusCreated, gin.H{"success": true})
}

func (h *handlerImpl) signSessionToken(email string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    h.session.Issuer,
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(now.Add(h.session.TTL)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	})

	signed, err := token.SignedString(h.session.SigningKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

func (h *handlerImpl) parseSessionToken(tokenString string) (*sessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (any, error) {
		return h.session.SigningKey, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok {
		return nil, fmt.Errorf("failed to parse token claims")
	}
	return claims, nil
}

func (h *handlerImpl) setSessionCookie(c *gin.Context, token string) {
	// Cross-site frontends need SameSite=None, which browsers
	// only accept together with Secure.
	if h.session.SecureCookies {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}

	const httpOnly = true
	c.SetCookie(sessionCookie, token, int(h.session.TTL.Seconds()),
		"/", "", h.session.SecureCookies, httpOnly)
}
