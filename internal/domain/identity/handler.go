package identity

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/medisched/medisched/internal/platform/apperr"
	"github.com/medisched/medisched/internal/platform/respond"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// RegisterRoutes mounts the login endpoint. It is the only unauthenticated
// route besides the health checks.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.POST("/login", h.login)
}

func (h *Handler) login(c echo.Context) error {
	var creds Credentials
	if err := c.Bind(&creds); err != nil {
		return apperr.Validationf("cuerpo de la solicitud inválido")
	}
	result, err := h.svc.Login(c.Request().Context(), creds)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			return echo.NewHTTPError(http.StatusUnauthorized, "credenciales inválidas")
		}
		return err
	}
	return respond.OK(c, http.StatusOK, "Inicio de sesión exitoso", result)
}
