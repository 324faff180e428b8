package models

// HealthStatus is the payload returned by the health check endpoint.
// Uptime is seconds since the server started; Timestamp is Unix milliseconds.
type HealthStatus struct {
	Message    string  `json:"message"`
	Uptime     float64 `json:"uptime"`
	DatabaseUp bool    `json:"databaseUp"`
	Timestamp  int64   `json:"timestamp"`
}
