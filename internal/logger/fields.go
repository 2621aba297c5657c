package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// Standard tracing fields, propagated through the call chain via context.
const (
	// FieldRequestID is the HTTP request ID (UUID)
	FieldRequestID = "request_id"

	// FieldComponent is the component/module name
	FieldComponent = "component"

	// FieldUserID is the acting user's ID
	FieldUserID = "user_id"

	// FieldActivity is the point-awarding activity type
	FieldActivity = "activity"

	// FieldCategory is the recommendation category
	FieldCategory = "category"

	// FieldCacheKey is the recommendation cache key
	FieldCacheKey = "cache_key"
)

// Standard metric fields, attached at the log entry level.
const (
	// FieldDurationMs is the execution duration in milliseconds
	FieldDurationMs = "duration_ms"

	// FieldCount is a generic count field
	FieldCount = "count"

	// FieldStatus is the operation status
	FieldStatus = "status"
)
