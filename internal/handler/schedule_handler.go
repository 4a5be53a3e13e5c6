package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/madaris-ops-api/internal/service"
	appErrors "github.com/noah-isme/madaris-ops-api/pkg/errors"
	"github.com/noah-isme/madaris-ops-api/pkg/response"
)

// ScheduleHandler exposes read-only lookups over a normalized timetable.
type ScheduleHandler struct {
	service *service.ScheduleService
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(svc *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

// SlotForClass godoc
// @Summary Find the slot for a class at a day and period
// @Tags Schedules
// @Produce json
// @Param id path string true "Timetable ID"
// @Param classId path string true "Class ID"
// @Param dayId query string true "Day ID"
// @Param periodId query string true "Period ID"
// @Success 200 {object} response.Envelope{data=models.ScheduleSlot}
// @Router /timetables/{id}/classes/{classId}/slot [get]
func (h *ScheduleHandler) SlotForClass(c *gin.Context) {
	dayID := c.Query("dayId")
	periodID := c.Query("periodId")
	if dayID == "" || periodID == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "dayId and periodId are required"))
		return
	}
	slot, err := h.service.SlotForClass(c.Request.Context(), c.Param("id"), c.Param("classId"), dayID, periodID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slot, nil)
}

// SlotsForTeacher godoc
// @Summary List a teacher's slots
// @Tags Schedules
// @Produce json
// @Param id path string true "Timetable ID"
// @Param teacherId path string true "Teacher ID"
// @Param subjectId query string false "Narrow to one subject"
// @Success 200 {object} response.Envelope{data=[]models.ScheduleSlot}
// @Router /timetables/{id}/teachers/{teacherId}/slots [get]
func (h *ScheduleHandler) SlotsForTeacher(c *gin.Context) {
	slots, err := h.service.SlotsForTeacher(c.Request.Context(), c.Param("id"), c.Param("teacherId"), c.Query("subjectId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// SubjectsForTeacher godoc
// @Summary List the subjects a teacher teaches
// @Tags Schedules
// @Produce json
// @Param id path string true "Timetable ID"
// @Param teacherId path string true "Teacher ID"
// @Success 200 {object} response.Envelope{data=[]models.Subject}
// @Router /timetables/{id}/teachers/{teacherId}/subjects [get]
func (h *ScheduleHandler) SubjectsForTeacher(c *gin.Context) {
	subjects, err := h.service.SubjectsForTeacher(c.Request.Context(), c.Param("id"), c.Param("teacherId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, subjects, nil)
}

// TeachersForSubject godoc
// @Summary List the teachers of a subject
// @Tags Schedules
// @Produce json
// @Param id path string true "Timetable ID"
// @Param subjectId path string true "Subject ID"
// @Success 200 {object} response.Envelope{data=[]models.Teacher}
// @Router /timetables/{id}/subjects/{subjectId}/teachers [get]
func (h *ScheduleHandler) TeachersForSubject(c *gin.Context) {
	teachers, err := h.service.TeachersForSubject(c.Request.Context(), c.Param("id"), c.Param("subjectId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, teachers, nil)
}
