package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/madaris-ops-api/internal/dto"
	"github.com/noah-isme/madaris-ops-api/internal/service"
	appErrors "github.com/noah-isme/madaris-ops-api/pkg/errors"
	"github.com/noah-isme/madaris-ops-api/pkg/response"
)

// CalendarHandler exposes working-week date range expansion.
type CalendarHandler struct {
	service *service.CalendarService
}

// NewCalendarHandler constructs the handler.
func NewCalendarHandler(svc *service.CalendarService) *CalendarHandler {
	return &CalendarHandler{service: svc}
}

// Expand godoc
// @Summary Expand a date range over the working week
// @Description Returns every Sunday-to-Thursday calendar date in the inclusive range, optionally collapsed into schedule columns.
// @Tags Calendar
// @Produce json
// @Param start query string true "Start date (YYYY-MM-DD)"
// @Param end query string true "End date (YYYY-MM-DD)"
// @Param mode query string false "Column mode (all_weeks or per_date)"
// @Success 200 {object} response.Envelope{data=[]models.SchoolDay}
// @Router /calendar/expand [get]
func (h *CalendarHandler) Expand(c *gin.Context) {
	start, err := time.Parse("2006-01-02", c.Query("start"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "start must be a YYYY-MM-DD date"))
		return
	}
	end, err := time.Parse("2006-01-02", c.Query("end"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "end must be a YYYY-MM-DD date"))
		return
	}

	days, err := h.service.Expand(start, end)
	if err != nil {
		response.Error(c, err)
		return
	}

	switch c.Query("mode") {
	case "":
		response.JSON(c, http.StatusOK, days, nil)
	case dto.ModeAllWeeks:
		response.JSON(c, http.StatusOK, h.service.WeekdayColumns(days), nil)
	case dto.ModePerDate:
		response.JSON(c, http.StatusOK, h.service.DateColumns(days), nil)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "mode must be all_weeks or per_date"))
	}
}
