package httputil

import (
	"encoding/json"
	"log"
	"net/http"
)

// APIResponse is the envelope every endpoint answers with. Success responses
// may embed extra fields alongside it; error responses carry only these.
type APIResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// RespondJSON sends a JSON response with the given status code.
// Logs encoding errors to avoid silent failures.
func RespondJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}

// RespondSuccess sends a `{success:true, message}` envelope.
func RespondSuccess(w http.ResponseWriter, message string, statusCode int) {
	RespondJSON(w, APIResponse{Success: true, Message: message}, statusCode)
}

// RespondError sends a `{success:false, message}` envelope.
func RespondError(w http.ResponseWriter, message string, statusCode int) {
	RespondJSON(w, APIResponse{Success: false, Message: message}, statusCode)
}

// RespondErrorWithCode sends an error envelope with a machine-readable code.
func RespondErrorWithCode(w http.ResponseWriter, message string, code string, statusCode int) {
	RespondJSON(w, APIResponse{Success: false, Message: message, Code: code}, statusCode)
}
