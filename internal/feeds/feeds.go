package feeds

import "time"

// Config configures one feed subscriber.
type Config struct {
	Endpoint         string        // WebSocket URL
	Token            string        // bearer token (authenticated feeds only)
	ReconnectDelay   time.Duration // fixed per-subscriber reconnect delay
	HeartbeatTimeout time.Duration
	PollInterval     time.Duration // fallback refresh cadence
	PollTimeout      time.Duration
}

// Backoffice event types (the connection layer already swallows
// "heartbeat"; "connected" is an application-level hello).
const (
	eventConnected           = "connected"
	eventNewRequest          = "new_request"
	eventRequestUpdated      = "request_updated"
	eventKYCDocumentUploaded = "kyc_document_uploaded"
	eventKYCDocumentReviewed = "kyc_document_reviewed"
	eventKYCDocumentDeleted  = "kyc_document_deleted"
)

// Client feed event types.
const (
	eventRoleUpdated = "role_updated"
)
