package middleware

// Echo context keys. The JWT middleware fills the user keys; handlers read
// ContextKeyUserID to scope preps, profiles and outcomes to their owner.
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUserEmail = "user_email"
	ContextKeyUserRole  = "user_role"
	ContextKeyRequestID = "request_id"
)
