// Package store defines the persistence interfaces the services depend on,
// the errors their implementations return, and the transaction helper that
// lets a service span several stores in one unit of work.
//
// Implementations live under internal/platform.
package store
