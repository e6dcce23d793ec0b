package model

// ========== Recipient DTOs ==========

type RegisterEmailRequest struct {
	Email string `json:"email"`
}

// ========== Alert DTOs ==========

type AlertAcceptedResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ========== Device Command DTOs ==========

type SetCommandRequest struct {
	Action DeviceAction `json:"action"`
}

// ========== Live Feed DTOs ==========

type WSEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}

// Live feed event types
const (
	WSEventAlertLogged    = "alert_logged"
	WSEventAlertEmailSent = "alert_email_sent"
)

// ========== Common ==========

// ErrorResponse is the error body for every non-2xx reply. Field names the
// offending input field when known.
type ErrorResponse struct {
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}
