package repositories

// RepositoryProvider aggregates the repository facades handed to the
// service layer.
type RepositoryProvider struct {
	AccountRepo     AccountRepositoryFacade
	BudgetRepo      BudgetRepositoryFacade
	TransactionRepo TransactionRepositoryFacade
	UserRepo        UserRepositoryFacade
}
