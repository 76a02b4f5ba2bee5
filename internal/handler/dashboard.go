package handler

import (
	"net/http"
	"time"

	"github.com/saadmalik-333/business-insight-pos/internal/apierror"
	"github.com/saadmalik-333/business-insight-pos/internal/service"

	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	svc service.MetricsService
	loc *time.Location
	now func() time.Time
}

func NewDashboardHandler(svc service.MetricsService, loc *time.Location) *DashboardHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &DashboardHandler{svc: svc, loc: loc, now: time.Now}
}

// Metrics godoc
// @Summary      Dashboard metrics
// @Description  Today's completed sales, low stock count, active product count and the five most recent sales.
// @Description  Sections that could not be read are zero/empty and listed in "degraded".
// @Tags         dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        date query string false "YYYY-MM-DD (default: today, store time zone)"
// @Success      200  {object} dto.DashboardMetrics
// @Failure      422  {object} apierror.ValidationError
// @Router       /v1/dashboard/metrics [get]
func (h *DashboardHandler) Metrics(c *gin.Context) {
	asOf := h.now()
	if raw := c.Query("date"); raw != "" {
		d, err := time.ParseInLocation("2006-01-02", raw, h.loc)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, apierror.NewValidation(map[string]string{"date": "must be YYYY-MM-DD"}))
			return
		}
		asOf = d
	}
	c.JSON(http.StatusOK, h.svc.GetDashboardMetrics(c.Request.Context(), asOf))
}
