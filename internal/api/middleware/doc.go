// Package middleware contains the HTTP middleware of the API: request
// tracing, bearer authentication and idempotent replay of submissions.
package middleware
