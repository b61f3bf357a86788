package v1

import (
	"log/slog"
	"net/http"
	"time"

	"wishlist-backend/internal/domain"
	"wishlist-backend/internal/usecase"
	"wishlist-backend/pkg/utils"

	"github.com/goccy/go-json"
)

type AuthHandler struct {
	authUC     *usecase.AuthUsecase
	wishlistUC *usecase.WishlistUsecase
}

func NewAuthHandler(authUC *usecase.AuthUsecase, wishlistUC *usecase.WishlistUsecase) *AuthHandler {
	return &AuthHandler{authUC: authUC, wishlistUC: wishlistUC}
}

type credentialsReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.authUC.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		slog.Error("Registration failed", "error", err, "email", req.Email)
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.WriteJSON(w, http.StatusCreated, domain.Response{Success: true, Data: user})
}

// Login authenticates, then folds the caller's guest wishlist into the
// account before the session cookie is issued. The merge happening first
// means a request racing the login response still sees a consistent list.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	accessToken, user, err := h.authUC.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		slog.Error("Login failed", "error", err, "email", req.Email)
		utils.WriteError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if cookie, err := r.Cookie(domain.GuestCookieName); err == nil && cookie.Value != "" {
		if err := h.wishlistUC.Merge(r.Context(), user.ID, cookie.Value); err != nil {
			// The guest list stays intact on failure; the next login retries.
			slog.Error("Guest wishlist merge failed", "error", err, "user_id", user.ID)
		} else {
			http.SetCookie(w, &http.Cookie{
				Name:   domain.GuestCookieName,
				MaxAge: -1,
				Path:   "/",
			})
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		Value:    accessToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.authUC.AccessTokenExpiry() / time.Second),
	})

	slog.Info("User authenticated", "user_id", user.ID, "email", user.Email)

	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: map[string]interface{}{
		"accessToken": accessToken,
		"user":        user,
	}})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userCtx, ok := r.Context().Value(domain.UserContextKey).(*domain.User)
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.authUC.Me(r.Context(), userCtx.ID)
	if err != nil {
		utils.WriteError(w, http.StatusNotFound, "User not found")
		return
	}

	utils.WriteJSON(w, http.StatusOK, domain.Response{Success: true, Data: user})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		MaxAge:   -1,
		Path:     "/",
		HttpOnly: true,
		Secure:   true,
	})
	w.WriteHeader(http.StatusOK)
}
