package common

// RequestIDHeader is the HTTP header carrying the request correlation id.
const RequestIDHeader = "X-Request-ID"

// DefaultPageSize is the number of entries returned per listing page.
const DefaultPageSize = 10
