package availability

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medisched/medisched/internal/platform/apperr"
	"github.com/medisched/medisched/internal/platform/auth"
	"github.com/medisched/medisched/internal/platform/respond"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/horarios", h.list, auth.RequireRole(auth.RoleAdmin, auth.RoleDoctor))
	g.GET("/horarios/:id", h.listForDoctor, auth.RequireRole(auth.RoleAdmin))
	g.PUT("/horarios/:id", h.replace, auth.RequireRole(auth.RoleAdmin))
}

func (h *Handler) list(c echo.Context) error {
	identity := auth.IdentityFromContext(c.Request().Context())
	items, err := h.svc.List(c.Request().Context(), identity)
	if err != nil {
		return err
	}
	return respond.OK(c, http.StatusOK, "Horarios obtenidos correctamente", items)
}

func (h *Handler) listForDoctor(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validationf("id de médico inválido")
	}
	items, err := h.svc.ListForDoctor(c.Request().Context(), doctorID, c.QueryParam("dia"))
	if err != nil {
		return err
	}
	return respond.OK(c, http.StatusOK, "Horarios obtenidos correctamente", items)
}

type replaceRequest struct {
	Windows []WindowParams `json:"horarios"`
}

func (h *Handler) replace(c echo.Context) error {
	doctorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validationf("id de médico inválido")
	}
	var req replaceRequest
	if err := c.Bind(&req); err != nil {
		return apperr.Validationf("cuerpo de la solicitud inválido")
	}
	items, err := h.svc.Replace(c.Request().Context(), doctorID, req.Windows)
	if err != nil {
		return err
	}
	return respond.OK(c, http.StatusOK, "Horarios actualizados correctamente", items)
}
