package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

func TestParseInstant(t *testing.T) {
	got, err := parseInstant("startAt", "2025-03-10T10:00:00-04:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 14, 0, 0, 0, time.UTC), got)
	assert.Equal(t, time.UTC, got.Location())

	got, err = parseInstant("startAt", " 2025-03-10T14:00:00.000Z ")
	require.NoError(t, err)
	assert.Equal(t, 14, got.Hour())

	for _, bad := range []string{"", "2025-03-10 10:00", "2025-03-10T10:00:00", "tomorrow"} {
		_, err := parseInstant("startAt", bad)
		assert.True(t, httperr.Is(err, "invalid_input"), bad)
	}
}

func TestParseOptionalInstant(t *testing.T) {
	got, err := parseOptionalInstant("endAt", nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	raw := "2025-11-02T05:30:00Z"
	got, err = parseOptionalInstant("endAt", &raw)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 30, got.Minute())
}

func TestIsoStringsAlwaysUTCWithMillis(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	out := isoStrings([]time.Time{time.Date(2025, 3, 10, 9, 0, 0, 0, ny)})
	assert.Equal(t, []string{"2025-03-10T13:00:00.000Z"}, out)
	assert.Equal(t, []string{}, isoStrings(nil))
}

func TestBindJSONRejectsMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json"))
	c.Request.Header.Set("Content-Type", "application/json")

	var req CreateAppointmentRequest
	assert.False(t, bindJSON(c, &req))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid_input")
}
