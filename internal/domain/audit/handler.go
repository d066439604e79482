package audit

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/medinote/medinote/internal/domain/identity"
	"github.com/medinote/medinote/internal/platform/auth"
	"github.com/medinote/medinote/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// The trail is read-only over HTTP and admins are the only readers.
func (h *Handler) RegisterRoutes(api *echo.Group) {
	g := api.Group("/audit", auth.RequireRole(identity.RoleAdmin))
	g.GET("", h.ListEntries)
}

func (h *Handler) ListEntries(c echo.Context) error {
	var f Filter
	if v := c.QueryParam("actor_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid actor_id")
		}
		f.ActorID = id
	}
	if v := c.QueryParam("entity_id"); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid entity_id")
		}
		f.EntityID = id
	}
	if v := c.QueryParam("action"); v != "" {
		if v != ActionCreate && v != ActionUpdate && v != ActionDelete {
			return echo.NewHTTPError(http.StatusBadRequest, "action must be C, U or D")
		}
		f.Action = v
	}
	f.EntityType = c.QueryParam("entity_type")

	pg := pagination.FromContext(c)
	entries, total, err := h.svc.List(c.Request().Context(), f, pg.Limit(), pg.Offset())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(entries, total, pg))
}
