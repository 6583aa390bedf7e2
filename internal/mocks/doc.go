// Package mocks provides centralized mock implementations for testing.
//
// Two styles are offered. The Mock* types carry ...Fn function fields that
// override a working in-memory default, which suits HTTP handler tests that
// need realistic store behavior. The TestifyMock* types embed testify's
// mock.Mock for tests that assert on exact calls:
//
//	tasks := mocks.NewMockTaskStore()
//	tasks.FindOneFn = func(ctx context.Context, owner, id primitive.ObjectID) (*domain.Task, error) {
//	    return nil, store.ErrTaskNotFound
//	}
package mocks
