// Package service holds the application use cases: registering users,
// browsing lessons and tracking lesson progress. The practice and review
// flow lives in the review subpackage and token handling in auth.
//
// Services receive stores through their constructors and open a
// transaction with store.RunInTransaction whenever a use case writes to
// more than one store. Expected failures are returned as the sentinel
// errors below so the API layer can map them to status codes.
package service
