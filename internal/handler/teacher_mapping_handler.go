package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/madaris-ops-api/internal/dto"
	"github.com/noah-isme/madaris-ops-api/internal/service"
	appErrors "github.com/noah-isme/madaris-ops-api/pkg/errors"
	"github.com/noah-isme/madaris-ops-api/pkg/response"
)

// TeacherMappingHandler manages the links between source teacher ids and user
// accounts.
type TeacherMappingHandler struct {
	service *service.TeacherMappingService
}

// NewTeacherMappingHandler constructs the handler.
func NewTeacherMappingHandler(svc *service.TeacherMappingService) *TeacherMappingHandler {
	return &TeacherMappingHandler{service: svc}
}

// List godoc
// @Summary List teacher mappings
// @Tags TeacherMappings
// @Produce json
// @Success 200 {object} response.Envelope{data=[]models.TeacherMapping}
// @Router /teacher-mappings [get]
func (h *TeacherMappingHandler) List(c *gin.Context) {
	mappings, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mappings, nil)
}

// Get godoc
// @Summary Get the mapping for a source teacher id
// @Tags TeacherMappings
// @Produce json
// @Param sourceTeacherId path string true "Source teacher ID"
// @Success 200 {object} response.Envelope{data=models.TeacherMapping}
// @Router /teacher-mappings/{sourceTeacherId} [get]
func (h *TeacherMappingHandler) Get(c *gin.Context) {
	mapping, err := h.service.Get(c.Request.Context(), c.Param("sourceTeacherId"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "teacher mapping not found"))
			return
		}
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mapping, nil)
}

// Upsert godoc
// @Summary Create or replace a teacher mapping
// @Tags TeacherMappings
// @Accept json
// @Produce json
// @Param payload body dto.UpsertTeacherMappingRequest true "Mapping payload"
// @Success 200 {object} response.Envelope{data=models.TeacherMapping}
// @Router /teacher-mappings [put]
func (h *TeacherMappingHandler) Upsert(c *gin.Context) {
	var req dto.UpsertTeacherMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	mapping, err := h.service.Upsert(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mapping, nil)
}

// Delete godoc
// @Summary Delete a teacher mapping
// @Tags TeacherMappings
// @Produce json
// @Param sourceTeacherId path string true "Source teacher ID"
// @Success 204
// @Router /teacher-mappings/{sourceTeacherId} [delete]
func (h *TeacherMappingHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("sourceTeacherId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
