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

// SubstitutionHandler drives the calculate, check and save workflow for
// substitutions.
type SubstitutionHandler struct {
	substitutions *service.SubstitutionService
	conflicts     *service.ConflictService
	metrics       *service.MetricsService
}

// NewSubstitutionHandler constructs the handler.
func NewSubstitutionHandler(substitutions *service.SubstitutionService, conflicts *service.ConflictService, metrics *service.MetricsService) *SubstitutionHandler {
	return &SubstitutionHandler{substitutions: substitutions, conflicts: conflicts, metrics: metrics}
}

// Calculate godoc
// @Summary Calculate the coverage grid for an absence
// @Tags Substitutions
// @Accept json
// @Produce json
// @Param payload body dto.CalculateSubstitutionRequest true "Absence period"
// @Success 200 {object} response.Envelope{data=dto.SubstitutionPlan}
// @Router /substitutions/calculate [post]
func (h *SubstitutionHandler) Calculate(c *gin.Context) {
	var req dto.CalculateSubstitutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	plan, err := h.substitutions.Calculate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan, nil)
}

// CheckConflicts godoc
// @Summary Check a candidate substitute for conflicts
// @Description Scans the candidate's weekly schedule and active substitution assignments. A lookup failure is reported as an error, never as an empty result.
// @Tags Substitutions
// @Accept json
// @Produce json
// @Param payload body dto.ConflictCheckRequest true "Proposed assignment"
// @Success 200 {object} response.Envelope{data=dto.ConflictReport}
// @Router /substitutions/conflicts/check [post]
func (h *SubstitutionHandler) CheckConflicts(c *gin.Context) {
	var req dto.ConflictCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	start := time.Now()
	report, err := h.conflicts.Detect(c.Request.Context(), req)
	if h.metrics != nil {
		result := service.CheckResultClean
		switch {
		case err != nil:
			result = service.CheckResultFailed
		case report.Count > 0:
			result = service.CheckResultConflicted
		}
		h.metrics.ObserveConflictCheck(result, time.Since(start))
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Create godoc
// @Summary Save a calculated substitution
// @Tags Substitutions
// @Accept json
// @Produce json
// @Param payload body dto.CreateSubstitutionRequest true "Substitution payload"
// @Success 201 {object} response.Envelope{data=models.Substitution}
// @Router /substitutions [post]
func (h *SubstitutionHandler) Create(c *gin.Context) {
	var req dto.CreateSubstitutionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	sub, err := h.substitutions.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, sub)
}

// UpdateAssignments godoc
// @Summary Replace the assignments of a substitution
// @Tags Substitutions
// @Accept json
// @Produce json
// @Param id path string true "Substitution ID"
// @Param payload body dto.UpdateAssignmentsRequest true "Assignments payload"
// @Success 200 {object} response.Envelope{data=models.Substitution}
// @Router /substitutions/{id}/assignments [put]
func (h *SubstitutionHandler) UpdateAssignments(c *gin.Context) {
	var req dto.UpdateAssignmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	sub, err := h.substitutions.UpdateAssignments(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sub, nil)
}

// Deactivate godoc
// @Summary Deactivate a substitution
// @Tags Substitutions
// @Produce json
// @Param id path string true "Substitution ID"
// @Success 204
// @Router /substitutions/{id}/deactivate [post]
func (h *SubstitutionHandler) Deactivate(c *gin.Context) {
	if err := h.substitutions.Deactivate(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Delete godoc
// @Summary Delete a substitution permanently
// @Tags Substitutions
// @Produce json
// @Param id path string true "Substitution ID"
// @Success 204
// @Router /substitutions/{id} [delete]
func (h *SubstitutionHandler) Delete(c *gin.Context) {
	if err := h.substitutions.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListForTeacher godoc
// @Summary List a teacher's active substitution assignments
// @Tags Substitutions
// @Produce json
// @Param userId path string true "User ID"
// @Success 200 {object} response.Envelope{data=[]models.ActiveAssignment}
// @Router /teachers/{userId}/substitutions [get]
func (h *SubstitutionHandler) ListForTeacher(c *gin.Context) {
	assignments, err := h.substitutions.ListActiveForTeacher(c.Request.Context(), c.Param("userId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, nil)
}
