package api

import (
	"net/http"
	"time"

	"github.com/garnizeh/aerocode/internal/app"
	ierr "github.com/garnizeh/aerocode/internal/errors"
	"github.com/garnizeh/aerocode/pkg/models"
	"github.com/golang-jwt/jwt/v5"
)

type AuthHandler struct {
	employees     *app.EmployeeService
	jwtSecret     string
	tokenDuration time.Duration
}

// NewAuthHandler creates a new AuthHandler with required dependencies.
func NewAuthHandler(employees *app.EmployeeService, jwtSecret string, tokenDuration time.Duration) *AuthHandler {
	return &AuthHandler{employees: employees, jwtSecret: jwtSecret, tokenDuration: tokenDuration}
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type loginResponse struct {
	Login bool             `json:"login"`
	Token string           `json:"token"`
	User  *models.Employee `json:"user"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	e, err := h.employees.Authenticate(r.Context(), req.Login, req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"employee_id": e.ID,
		"role":        string(e.Role),
		"exp":         time.Now().Add(h.tokenDuration).Unix(),
	})
	tokenStr, err := token.SignedString([]byte(h.jwtSecret))
	if err != nil {
		writeError(w, r, ierr.WithError(err).WithHint("error signing token").Mark(ierr.ErrSystem))
		return
	}

	writeJSON(w, loginResponse{Login: true, Token: tokenStr, User: e}, http.StatusOK)
}

func (h *AuthHandler) Signout(w http.ResponseWriter, r *http.Request) {
	// tokens are stateless; the client drops its copy
	writeJSON(w, map[string]string{"message": "signed out"}, http.StatusOK)
}
