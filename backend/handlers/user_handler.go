package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/ravigill3969/resource-tracker/backend/database"
	middleware "github.com/ravigill3969/resource-tracker/backend/middlewares"
	"github.com/ravigill3969/resource-tracker/backend/models"
	"github.com/ravigill3969/resource-tracker/backend/utils"
)

const invalidLoginMessage = "Invalid username or password"

type UserHandler struct {
	Users  *database.UserStore
	Tokens *utils.TokenService
}

func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var form models.RegisterForm
	if !decodeJSON(w, r, &form) {
		return
	}

	if problems := form.Validate(); len(problems) > 0 {
		utils.RespondFieldErrors(w, problems)
		return
	}

	passwordHash, err := utils.HashPassword(form.Password)
	if err != nil {
		respondInternal(w, r, err, "Could not process password")
		return
	}

	user := models.User{
		Username:     form.Username,
		Email:        form.Email,
		FirstName:    form.FirstName,
		LastName:     form.LastName,
		PasswordHash: passwordHash,
	}
	err = h.Users.Create(r.Context(), &user)
	if errors.Is(err, database.ErrDuplicateUser) {
		log.Printf("Register rejected: username %q or email already in use", form.Username)
		utils.RespondError(w, http.StatusConflict, "Username or email already registered")
		return
	}
	if err != nil {
		respondInternal(w, r, err, "Unable to create account")
		return
	}

	utils.RespondCreated(w, user.Profile())
}

func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var loginForm models.LoginForm
	if !decodeJSON(w, r, &loginForm) {
		return
	}
	loginForm.Normalize()

	if loginForm.Username == "" || loginForm.Password == "" {
		utils.RespondValidationError(w, "username and password are required", []string{"username", "password"})
		return
	}

	storedUser, err := h.Users.GetByUsername(r.Context(), loginForm.Username)
	if errors.Is(err, database.ErrUserNotFound) {
		utils.CheckPasswordNoUser(loginForm.Password)
		log.Printf("Login attempt failed: no user %q request_id=%s", loginForm.Username, middleware.RequestIDFromContext(r.Context()))
		rejectLogin(w)
		return
	}
	if err != nil {
		respondInternal(w, r, err, "Unable to process login")
		return
	}

	if !utils.CheckPasswordHash(loginForm.Password, storedUser.PasswordHash) {
		log.Printf("Login attempt failed: password mismatch for user %s request_id=%s", storedUser.Username, middleware.RequestIDFromContext(r.Context()))
		rejectLogin(w)
		return
	}

	token, expiresAt, err := h.Tokens.Issue(storedUser.Username)
	if err != nil {
		respondInternal(w, r, err, "Could not create session")
		return
	}

	utils.RespondSuccess(w, http.StatusOK, models.TokenRes{
		AccessToken: token,
		TokenType:   "bearer",
		Username:    storedUser.Username,
		ExpiresAt:   expiresAt,
	})
}

// VerifyToken runs behind AuthMiddleware, so reaching it means the token is good.
func (h *UserHandler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	username, ok := middleware.UsernameFromContext(r.Context())
	if !ok {
		utils.RespondUnauthorized(w)
		return
	}

	utils.RespondSuccess(w, http.StatusOK, models.VerifyTokenRes{
		Message:  "Token is valid",
		Username: username,
	})
}

func rejectLogin(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	utils.RespondError(w, http.StatusUnauthorized, invalidLoginMessage)
}
