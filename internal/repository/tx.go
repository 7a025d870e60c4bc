package repository

import "gorm.io/gorm"

// Repos bundles every repository bound to the same database handle.
// Inside TxScope.Atomic all of them share one transaction.
type Repos struct {
	Organizations OrganizationRepository
	Users         UserRepository
	Products      ProductRepository
	StockLogs     StockLogRepository
	Procurements  ProcurementRepository
}

// TxScope runs a function with all repositories bound to a single
// database transaction. If the function returns an error the
// transaction is rolled back, otherwise committed.
type TxScope interface {
	Atomic(fn func(r Repos) error) error
}

// NewRepos builds the repository bundle on top of a gorm handle
// (either the root *gorm.DB or a transaction).
func NewRepos(db *gorm.DB) Repos {
	return Repos{
		Organizations: NewOrganizationRepo(db),
		Users:         NewUserRepo(db),
		Products:      NewProductRepo(db),
		StockLogs:     NewStockLogRepo(db),
		Procurements:  NewProcurementRepo(db),
	}
}

type gormScope struct {
	db *gorm.DB
}

func NewTxScope(db *gorm.DB) TxScope {
	return &gormScope{db}
}

func (s *gormScope) Atomic(fn func(r Repos) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewRepos(tx))
	})
}
