package medicalrecord

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
	g.POST("/expedientes", h.create, auth.RequireRole(auth.RoleDoctor))
	g.GET("/expedientes", h.list, auth.RequireRole(auth.RoleDoctor, auth.RoleAdmin))
	g.GET("/expedientes/:id", h.get, auth.RequireRole(auth.RoleDoctor, auth.RoleAdmin))
	g.PUT("/expedientes/:id", h.update, auth.RequireRole(auth.RoleDoctor))
	g.DELETE("/expedientes/:id", h.remove, auth.RequireRole(auth.RoleAdmin))
}

func (h *Handler) create(c echo.Context) error {
	var params CreateParams
	if err := c.Bind(&params); err != nil {
		return apperr.Validationf("cuerpo de la solicitud inválido")
	}
	identity := auth.IdentityFromContext(c.Request().Context())
	rec, err := h.svc.Create(c.Request().Context(), identity, params)
	if err != nil {
		return err
	}
	return respond.OK(c, http.StatusCreated, "Expediente registrado correctamente", rec)
}

func (h *Handler) list(c echo.Context) error {
	filters := map[string]string{}
	for _, key := range []string{"paciente_id", "fecha", "nombre", "apellidos"} {
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
	return respond.OK(c, http.StatusOK, "Expedientes obtenidos correctamente",
		pagination.NewResponse(items, total, page.Limit, page.Offset))
}

func (h *Handler) get(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validationf("id de expediente inválido")
	}
	identity := auth.IdentityFromContext(c.Request().Context())
	rec, err := h.svc.Get(c.Request().Context(), identity, id)
	if err != nil {
		return err
	}
	return respond.OK(c, http.StatusOK, "Expediente obtenido correctamente", rec)
}

func (h *Handler) update(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validationf("id de expediente inválido")
	}
	var params UpdateParams
	if err := c.Bind(&params); err != nil {
		return apperr.Validationf("cuerpo de la solicitud inválido")
	}
	identity := auth.IdentityFromContext(c.Request().Context())
	rec, err := h.svc.Update(c.Request().Context(), identity, id, params)
	if err != nil {
		return err
	}
	return respond.OK(c, http.StatusOK, "Expediente actualizado correctamente", rec)
}

func (h *Handler) remove(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.Validationf("id de expediente inválido")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return respond.OK(c, http.StatusOK, "Expediente eliminado correctamente", nil)
}
