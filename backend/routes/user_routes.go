package routes

import (
	"net/http"

	"github.com/ravigill3969/resource-tracker/backend/handlers"
	middleware "github.com/ravigill3969/resource-tracker/backend/middlewares"
)

func RegisterUserRoutes(mux *http.ServeMux, uh *handlers.UserHandler, authMw *middleware.Authenticator) {
	mux.HandleFunc("POST /auth/register", uh.Register)
	mux.HandleFunc("POST /auth/token", uh.Login)
	mux.Handle("GET /auth/verify-token", authMw.AuthMiddleware(http.HandlerFunc(uh.VerifyToken)))
}
