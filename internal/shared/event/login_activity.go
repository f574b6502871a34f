package event

const LoginActivityDestination string = "login_activity"
const LoginActivityDestinationConsumerSecurity string = "login_activity_security"

type LoginActivityMessage struct {
	UserID        *int64 `json:"user_id,omitempty"`
	Email         string `json:"email"`
	IPAddress     string `json:"ip_address"`
	UserAgent     string `json:"user_agent"`
	Success       bool   `json:"success"`
	FailureReason string `json:"failure_reason,omitempty"`
	OccurredAt    int64  `json:"occurred_at"`
}
