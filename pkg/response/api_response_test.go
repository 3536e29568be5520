package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimestamp_MarshalsSecondsUTC(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	ts := NewTimestamp(time.Date(2024, 5, 17, 13, 4, 5, 987_000_000, loc))

	data, err := json.Marshal(ts)
	require.NoError(t, err)
	assert.Equal(t, `"2024-05-17T10:04:05Z"`, string(data))
}

func TestTimestamp_UnmarshalRoundTrip(t *testing.T) {
	var ts Timestamp
	require.NoError(t, json.Unmarshal([]byte(`"2024-05-17T10:04:05Z"`), &ts))
	assert.True(t, ts.Time().Equal(time.Date(2024, 5, 17, 10, 4, 5, 0, time.UTC)))

	assert.Error(t, json.Unmarshal([]byte(`"17/05/2024"`), &ts))
}

func TestSendNoContent_EmptyBody(t *testing.T) {
	rec := httptest.NewRecorder()
	SendNoContent(rec)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestSendError_WritesEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()
	SendError(rec, http.StatusConflict, ApiErrorResponse{
		Code:      "PRODUCT_ALREADY_EXISTS",
		Message:   "Product already exists in wishlist",
		Timestamp: NewTimestamp(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)),
		Path:      "/api/v1/customers/cust-001/wishlist/products/prod-001",
	})

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "PRODUCT_ALREADY_EXISTS", body["code"])
	assert.Equal(t, "2024-01-02T03:04:05Z", body["timestamp"])
	assert.Equal(t, "/api/v1/customers/cust-001/wishlist/products/prod-001", body["path"])
}
