// Package http holds thin request/response helpers used by the container
// inspector. JSON responses use the {"data": ...} / {"message": ...} envelope.
package http
