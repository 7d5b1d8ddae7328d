package petguardserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	principals "github.com/Apurer/petguard-api/internal/domains/principals/domain"
	principalsports "github.com/Apurer/petguard-api/internal/domains/principals/ports"
)

// AccountAPI exposes registration and session management.
type AccountAPI struct {
	service principalsports.Service
}

// NewAccountAPI wires dependencies.
func NewAccountAPI(service principalsports.Service) AccountAPI {
	return AccountAPI{service: service}
}

// RegisterRequest is the payload of POST /v1/accounts.
type RegisterRequest struct {
	Kind               string `json:"kind"`
	Username           string `json:"username"`
	Email              string `json:"email"`
	Name               string `json:"name"`
	Phone              string `json:"phone"`
	Password           string `json:"password"`
	RegistrationNumber string `json:"registration_number"`
}

// LoginRequest is the payload of POST /v1/sessions. Identity is an email or a username.
type LoginRequest struct {
	Identity string `json:"identity"`
	Password string `json:"password"`
}

// SessionResponse carries an issued bearer token.
type SessionResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Post /v1/accounts
// Registers an account acting as an individual or an organization.
func (api *AccountAPI) Register(c *gin.Context) {
	var payload RegisterRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	account, err := api.service.Register(c.Request.Context(), principalsports.RegisterInput{
		Kind:               principals.Kind(strings.ToUpper(strings.TrimSpace(payload.Kind))),
		Username:           payload.Username,
		Email:              payload.Email,
		Name:               payload.Name,
		Phone:              payload.Phone,
		Password:           payload.Password,
		RegistrationNumber: payload.RegistrationNumber,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, account)
}

// Post /v1/sessions
// Logs in and issues a bearer token.
func (api *AccountAPI) Login(c *gin.Context) {
	var payload LoginRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, err)
		return
	}
	session, err := api.service.Login(c.Request.Context(), payload.Identity, payload.Password)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, SessionResponse{Token: session.Token, ExpiresAt: session.ExpiresAt})
}

// Delete /v1/sessions
// Revokes the bearer token of the request.
func (api *AccountAPI) Logout(c *gin.Context) {
	token := c.GetString(tokenKey)
	if token == "" {
		respondError(c, http.StatusUnauthorized, errors.New("bearer token required"))
		return
	}
	if err := api.service.Logout(c.Request.Context(), token); err != nil {
		respondServiceError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
