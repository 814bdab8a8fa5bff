package booking

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
	g.POST("/citas", h.create, auth.RequireRole(auth.RolePatient, auth.RoleAssistant))
	g.GET("/citas", h.list, auth.RequireRole(auth.RolePatient, auth.RoleDoctor, auth.RoleAssistant))
	g.GET("/citas/:id", h.get, auth.RequireRole(auth.RolePatient, auth.RoleDoctor, auth.RoleAssistant))
	g.PUT("/citas/:id", h.update, auth.RequireRole(auth.RolePatient, auth.RoleAssistant))
	g.DELETE("/citas/:id", h.cancel, auth.RequireRole(auth.RolePatient, auth.RoleAssistant))
}

func (h *Handler) create(c echo.Context) error {
	var params CreateParams
	if err := c.Bind(&params); err != nil {
		return apperr.Validationf("cuerpo de la solicitud inválido")
	}
	identity := auth.IdentityFromContext(c.Request().Context())
	a, err := h.svc.Create(c.Request().Context(), identity, params)
	if err != nil {
		return err
	}
	return respond.OK(c, http.StatusCreated, "Cita registrada correctamente",
		map[string]interface{}{"cita_id": a.ID})
}

func (h *Handler) list(c echo.Context) error {
	filters := map[string]string{}
	for _, key := range []string{"medico_id", "paciente_id", "fecha", "estado"} {
		if v := c.QueryParam(key); v != "" {
			filters[key] = v
		}
	}
	identity := auth.IdentityFromContext(c.Request().Context())
	page := pagination.FromContext(c)
	items, total, err := h.svc.List(c.Request().Context(), identity, filters, page.Limit, page.Offset)
	if err != nil {
		return err
	}
	return respond.OK(c, http.StatusOK, "Citas obtenidas correctamente",
		pagination.NewResponse(items, total, page.Limit, page.Offset))
}

func (h *Handler) get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validationf("id de cita inválido")
	}
	identity := auth.IdentityFromContext(c.Request().Context())
	a, err := h.svc.Get(c.Request().Context(), identity, id)
	if err != nil {
		return err
	}
	return respond.OK(c, http.StatusOK, "Cita obtenida correctamente", a)
}

func (h *Handler) update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validationf("id de cita inválido")
	}
	var params UpdateParams
	if err := c.Bind(&params); err != nil {
		return apperr.Validationf("cuerpo de la solicitud inválido")
	}
	identity := auth.IdentityFromContext(c.Request().Context())
	a, err := h.svc.Update(c.Request().Context(), identity, id, params)
	if err != nil {
		return err
	}
	return respond.OK(c, http.StatusOK, "Cita actualizada correctamente", a)
}

func (h *Handler) cancel(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validationf("id de cita inválido")
	}
	identity := auth.IdentityFromContext(c.Request().Context())
	if err := h.svc.Cancel(c.Request().Context(), identity, id); err != nil {
		return err
	}
	return respond.OK(c, http.StatusOK, "Cita cancelada correctamente", nil)
}
