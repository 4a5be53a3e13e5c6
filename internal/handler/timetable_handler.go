package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/madaris-ops-api/internal/service"
	appErrors "github.com/noah-isme/madaris-ops-api/pkg/errors"
	"github.com/noah-isme/madaris-ops-api/pkg/response"
)

// TimetableHandler manages timetable import and retrieval endpoints.
type TimetableHandler struct {
	service *service.TimetableService
	metrics *service.MetricsService
}

// NewTimetableHandler constructs the handler.
func NewTimetableHandler(svc *service.TimetableService, metrics *service.MetricsService) *TimetableHandler {
	return &TimetableHandler{service: svc, metrics: metrics}
}

// Import godoc
// @Summary Import a timetable export file
// @Description Parses a timetable XML export, repairs legacy text encoding and activates the resulting timetable.
// @Tags Timetables
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Timetable XML export"
// @Success 201 {object} response.Envelope{data=dto.ImportTimetableResponse}
// @Router /timetables/import [post]
func (h *TimetableHandler) Import(c *gin.Context) {
	raw, err := h.readUpload(c)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.service.Import(c.Request.Context(), raw)
	if h.metrics != nil {
		h.metrics.RecordImport(err == nil)
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// readUpload accepts either a multipart "file" field or a raw request body.
func (h *TimetableHandler) readUpload(c *gin.Context) ([]byte, error) {
	if fileHeader, err := c.FormFile("file"); err == nil {
		src, err := fileHeader.Open()
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open file")
		}
		defer src.Close()
		raw, err := io.ReadAll(src)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read file")
		}
		return raw, nil
	}

	raw, err := c.GetRawData()
	if err != nil || len(raw) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "timetable file is required")
	}
	return raw, nil
}

// GetActive godoc
// @Summary Get the active timetable
// @Tags Timetables
// @Produce json
// @Success 200 {object} response.Envelope{data=models.Timetable}
// @Router /timetables/active [get]
func (h *TimetableHandler) GetActive(c *gin.Context) {
	tt, err := h.service.GetActive(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tt, nil)
}

// Get godoc
// @Summary Get a timetable by id
// @Tags Timetables
// @Produce json
// @Param id path string true "Timetable ID"
// @Success 200 {object} response.Envelope{data=models.Timetable}
// @Router /timetables/{id} [get]
func (h *TimetableHandler) Get(c *gin.Context) {
	tt, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, tt, nil)
}
