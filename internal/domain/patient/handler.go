package patient

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medisched/medisched/internal/platform/apperr"
	"github.com/medisched/medisched/internal/platform/auth"
	"github.com/medisched/medisched/internal/platform/respond"
	"github.com/medisched/medisched/pkg/pagination"
)

// Handler exposes the patient directory over HTTP.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.POST("/pacientes", h.create, auth.RequireRole(auth.RoleAdmin))
	g.GET("/pacientes", h.list, auth.RequireRole(auth.RoleAdmin, auth.RoleDoctor))
	g.GET("/pacientes/:id", h.get, auth.RequireRole(auth.RoleAdmin, auth.RoleDoctor))
	g.PUT("/pacientes/:id", h.update, auth.RequireRole(auth.RoleAdmin))
	g.DELETE("/pacientes/:id", h.remove, auth.RequireRole(auth.RoleAdmin))
}

func (h *Handler) create(c echo.Context) error {
	var params CreateParams
	if err := c.Bind(&params); err != nil {
		return apperr.Validationf("cuerpo de la solicitud inválido")
	}
	p, err := h.svc.Create(c.Request().Context(), params)
	if err != nil {
		return err
	}
	return respond.OK(c, http.StatusCreated, "Paciente registrado correctamente", p)
}

func (h *Handler) list(c echo.Context) error {
	filters := map[string]string{}
	for _, key := range []string{"nombre", "apellidos", "curp", "medico_id"} {
		if v := c.QueryParam(key); v != "" {
			filters[key] = v
		}
	}
	page := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), filters, page.Limit, page.Offset)
	if err != nil {
		return err
	}
	return respond.OK(c, http.StatusOK, "Pacientes obtenidos correctamente",
		pagination.NewResponse(items, total, page.Limit, page.Offset))
}

func (h *Handler) get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validationf("id de paciente inválido")
	}
	p, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return respond.OK(c, http.StatusOK, "Paciente obtenido correctamente", p)
}

func (h *Handler) update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validationf("id de paciente inválido")
	}
	var params UpdateParams
	if err := c.Bind(&params); err != nil {
		return apperr.Validationf("cuerpo de la solicitud inválido")
	}
	p, err := h.svc.Update(c.Request().Context(), id, params)
	if err != nil {
		return err
	}
	return respond.OK(c, http.StatusOK, "Paciente actualizado correctamente", p)
}

func (h *Handler) remove(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validationf("id de paciente inválido")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return respond.OK(c, http.StatusOK, "Paciente eliminado correctamente", nil)
}
