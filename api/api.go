// Package api is the wire contract between the client-side collaborator
// adapters and the dev backend that stands in for the managed services.
package api

const (
	HealthEndpoint  = "/health"
	SignUpEndpoint  = "/api/v1/auth/signup"
	LoginEndpoint   = "/api/v1/auth/login"
	ResetEndpoint   = "/api/v1/auth/reset"
	ProfileEndpoint = "/api/v1/auth/profile"
	DocsEndpoint    = "/api/v1/docs"
	MediaEndpoint   = "/api/v1/media"
)

// Collections and field names shared by both sides of the wire.
const (
	ReportsCollection = "reports"
	UsersCollection   = "users"

	FieldCreatedAt        = "createdAt"
	FieldUpdatedAt        = "updatedAt"
	FieldReportsSubmitted = "reportsSubmitted"
)

// IncrementKey marks a merge-update value as a server-side counter
// increment: {"reportsSubmitted": {"$increment": 1}}.
const IncrementKey = "$increment"

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	UserID    string `json:"userId"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatarUrl"`
	Token     string `json:"token"`
}

type ResetArgs struct {
	Email string `json:"email"`
}

type ProfileArgs struct {
	Name string `json:"name"`
}

type InsertResponse struct {
	ID string `json:"id"`
}

type QueryResponse struct {
	Records []map[string]any `json:"records"`
}

type UploadResponse struct {
	URL string `json:"url"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
