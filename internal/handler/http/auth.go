package http

import (
	"net/http"

	"github.com/cmlabs-hris/paycheck-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/paycheck-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

type AuthHandler interface {
	Logout(w http.ResponseWriter, r *http.Request)
}

type authHandlerImpl struct {
	jwtService jwt.Service
}

func NewAuthHandler(jwtService jwt.Service) AuthHandler {
	return &authHandlerImpl{jwtService: jwtService}
}

// Logout revokes the access token that authenticated the request.
func (h *authHandlerImpl) Logout(w http.ResponseWriter, r *http.Request) {
	token, _, err := jwtauth.FromContext(r.Context())
	if err != nil || token == nil || token.JwtID() == "" {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	h.jwtService.RevokeToken(token.JwtID(), token.Expiration())
	response.SuccessWithMessage(w, "Logged out", nil)
}
