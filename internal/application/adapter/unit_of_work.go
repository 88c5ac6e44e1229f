// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import "context"

// TxRepositories is the set of repositories bound to one storage transaction.
// Only the entities touched by multi-row invariants are exposed here:
// balance + transaction row, and the goal activate/complete updates.
type TxRepositories struct {
	Accounts     AccountRepository
	Transactions TransactionRepository
	Goals        GoalRepository
}

// UnitOfWork runs a function atomically against the store. If fn returns an
// error every write made inside it is rolled back.
type UnitOfWork interface {
	Run(ctx context.Context, fn func(repos TxRepositories) error) error
}
