// Package api handles incoming HTTP requests, request validation and
// response formatting. Handlers translate HTTP concerns into calls on the
// lesson, review and user services and map their errors onto status codes
// without exposing internal details.
package api
