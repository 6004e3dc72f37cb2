// Package mocks provides shared test doubles for the store and service
// interfaces.
//
// Store mocks embed testify's mock.Mock so tests can set expectations per
// call. Their WithTx methods return the mock itself, so a service running
// inside store.RunInTransaction sees the same expectations.
//
// Service mocks use function fields with default return values, which
// keeps handler tests short:
//
//	svc := &mocks.MockReviewService{
//	    StatsFn: func(ctx context.Context, userID uuid.UUID) (domain.ReviewStats, error) {
//	        return domain.ReviewStats{Total: 3}, nil
//	    },
//	}
//
// Packages whose own tests use these mocks must test from an external
// _test package to avoid an import cycle.
package mocks
