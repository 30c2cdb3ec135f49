package services

// ServiceContainer aggregates the service facades for route registration.
type ServiceContainer struct {
	User        UserSvcFacade
	Account     AccountSvcFacade
	Budget      BudgetSvcFacade
	Transaction TransactionSvcFacade
	Reporting   ReportingSvcFacade
	Settlement  SettlementSvcFacade
}
