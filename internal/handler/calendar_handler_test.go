package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/madaris-ops-api/internal/dto"
	"github.com/noah-isme/madaris-ops-api/internal/models"
	"github.com/noah-isme/madaris-ops-api/internal/service"
	"github.com/noah-isme/madaris-ops-api/pkg/response"
)

func TestCalendarHandlerExpand(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewCalendarHandler(service.NewCalendarService(0, nil))

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/calendar/expand?start=2025-01-12&end=2025-01-16", nil)

	handler.Expand(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data []models.SchoolDay `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.Len(t, envelope.Data, 5)
	assert.Equal(t, "الأحد", envelope.Data[0].WeekdayName)
}

func TestCalendarHandlerExpandWeekdayMode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewCalendarHandler(service.NewCalendarService(0, nil))

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/calendar/expand?start=2025-01-12&end=2025-01-23&mode=all_weeks", nil)

	handler.Expand(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data []dto.ScheduleColumn `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	// Two calendar weeks collapse to the five weekday columns.
	require.Len(t, envelope.Data, 5)
	assert.Equal(t, "الأحد", envelope.Data[0].WeekdayName)
	assert.Nil(t, envelope.Data[0].Date)
}

func TestCalendarHandlerExpandUnknownMode(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewCalendarHandler(service.NewCalendarService(0, nil))

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/calendar/expand?start=2025-01-12&end=2025-01-16&mode=weekly", nil)

	handler.Expand(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCalendarHandlerExpandInvalidDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewCalendarHandler(service.NewCalendarService(0, nil))

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/calendar/expand?start=12-01-2025&end=2025-01-16", nil)

	handler.Expand(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCalendarHandlerExpandInvertedRange(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewCalendarHandler(service.NewCalendarService(0, nil))

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/calendar/expand?start=2025-01-16&end=2025-01-12", nil)

	handler.Expand(c)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "INVALID_DATE_RANGE", envelope.Error.Code)
}
