// Package mocks provides function-field mocks of the service interfaces,
// shared by the handler and server tests.
//
// Each mock has one XxxFn field per method. A nil field returns zero
// values, so tests only set what they exercise:
//
//	items := &mocks.MockItemService{
//	    ListItemsFn: func(ctx context.Context, storeID uuid.UUID) ([]*domain.Item, error) {
//	        return nil, store.ErrItemNotFound
//	    },
//	}
package mocks
