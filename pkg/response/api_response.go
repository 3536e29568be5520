package response

import (
	"encoding/json"
	"net/http"
	"time"
)

// TimestampLayout is the wire format for every instant the API emits.
const TimestampLayout = "2006-01-02T15:04:05Z"

// Timestamp serializes as a UTC instant with second precision and a trailing Z.
type Timestamp time.Time

func NewTimestamp(t time.Time) Timestamp {
	return Timestamp(t)
}

func (t Timestamp) Time() time.Time {
	return time.Time(t)
}

func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).UTC().Format(TimestampLayout))
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return err
	}
	*t = Timestamp(parsed)
	return nil
}

// ApiErrorResponse is the uniform error envelope returned on every route
type ApiErrorResponse struct {
	Code      string    `json:"code"`
	Message   string    `json:"message"`
	Timestamp Timestamp `json:"timestamp"`
	Path      string    `json:"path"`
}

// SendJSON writes v as JSON with the given status code
func SendJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}

// SendSuccess sends a 200 OK response
func SendSuccess(w http.ResponseWriter, data interface{}) {
	SendJSON(w, http.StatusOK, data)
}

// SendCreated sends a 201 Created response
func SendCreated(w http.ResponseWriter, data interface{}) {
	SendJSON(w, http.StatusCreated, data)
}

// SendNoContent sends a 204 No Content response with an empty body
func SendNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// SendError sends the error envelope
func SendError(w http.ResponseWriter, statusCode int, body ApiErrorResponse) {
	SendJSON(w, statusCode, body)
}
