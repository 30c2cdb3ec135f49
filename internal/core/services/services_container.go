package services

import (
	portsrepo "github.com/casafin/casafin_backend/internal/core/ports/repositories"
	portssvc "github.com/casafin/casafin_backend/internal/core/ports/services"
)

// NewServiceContainer wires every service against the repository provider.
func NewServiceContainer(repos portsrepo.RepositoryProvider, strictConsistency bool) *portssvc.ServiceContainer {
	budgetSvc := NewBudgetService(repos.BudgetRepo)

	return &portssvc.ServiceContainer{
		User:        NewUserService(repos.UserRepo),
		Account:     NewAccountService(repos.AccountRepo, repos.TransactionRepo, repos.BudgetRepo),
		Budget:      budgetSvc,
		Transaction: NewTransactionService(repos.TransactionRepo, repos.AccountRepo, repos.BudgetRepo, budgetSvc, strictConsistency),
		Reporting:   NewReportingService(repos.BudgetRepo, repos.TransactionRepo),
		Settlement:  NewSettlementService(repos.TransactionRepo, repos.AccountRepo, repos.UserRepo),
	}
}
