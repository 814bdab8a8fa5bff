package staff

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medisched/medisched/internal/platform/apperr"
	"github.com/medisched/medisched/internal/platform/auth"
	"github.com/medisched/medisched/internal/platform/respond"
	"github.com/medisched/medisched/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(g *echo.Group) {
	admin := auth.RequireRole(auth.RoleAdmin)
	g.POST("/trabajadores", h.create, admin)
	g.GET("/trabajadores", h.list, admin)
	g.GET("/trabajadores/:id", h.get, admin)
	g.PUT("/trabajadores/:id", h.update, admin)
	g.DELETE("/trabajadores/:id", h.remove, admin)
}

func (h *Handler) create(c echo.Context) error {
	var params CreateParams
	if err := c.Bind(&params); err != nil {
		return apperr.Validationf("cuerpo de la solicitud inválido")
	}
	w, err := h.svc.Create(c.Request().Context(), params)
	if err != nil {
		return err
	}
	return respond.OK(c, http.StatusCreated, "Trabajador registrado correctamente", w)
}

func (h *Handler) list(c echo.Context) error {
	filters := map[string]string{}
	for _, key := range []string{"tipo", "nombre", "apellidos", "curp", "especialidad"} {
		if v := c.QueryParam(key); v != "" {
			filters[key] = v
		}
	}
	page := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), filters, page.Limit, page.Offset)
	if err != nil {
		return err
	}
	return respond.OK(c, http.StatusOK, "Trabajadores obtenidos correctamente",
		pagination.NewResponse(items, total, page.Limit, page.Offset))
}

func (h *Handler) get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validationf("id de trabajador inválido")
	}
	w, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond.OK(c, http.StatusOK, "Trabajador obtenido correctamente", w)
}

func (h *Handler) update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validationf("id de trabajador inválido")
	}
	var params UpdateParams
	if err := c.Bind(&params); err != nil {
		return apperr.Validationf("cuerpo de la solicitud inválido")
	}
	w, err := h.svc.Update(c.Request().Context(), id, params)
	if err != nil {
		return err
	}
	return respond.OK(c, http.StatusOK, "Trabajador actualizado correctamente", w)
}

func (h *Handler) remove(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validationf("id de trabajador inválido")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return respond.OK(c, http.StatusOK, "Trabajador eliminado correctamente", nil)
}
