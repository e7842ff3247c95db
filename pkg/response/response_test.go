package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	apperrors "github.com/nikhil00shinde/pokemon-api/pkg/errors"
)

func TestJSONWritesPayloadVerbatim(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	JSON(c, http.StatusCreated, gin.H{"name": "Squirtle", "level": 5})

	require.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "Squirtle", body["name"])
	require.NotContains(t, body, "success", "no envelope around endpoint payloads")
}

func TestErrorMapsAppErrorStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	Error(c, apperrors.ErrNotFound)

	require.Equal(t, http.StatusNotFound, rec.Code)

	var body ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "NOT_FOUND", body.Error.Code)
	require.NotEmpty(t, body.Error.Message)
}

func TestErrorHidesInternalDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	Error(c, errors.New("pq: password authentication failed"))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.NotContains(t, rec.Body.String(), "password")
}

func TestErrorNilDefaultsTo500(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	Error(c, nil)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
}
