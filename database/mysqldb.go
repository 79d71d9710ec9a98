package database

import (
	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"market/model"
)

// Open connects the MySQL database and synchronizes the table structure,
// comparing the structures in the database and the code and executing DDL.
// reset drops every table first.
func Open(dsn string, reset bool) (*Store, error) {
	db, err := gorm.Open(mysql.Open(dsn+"?charset=utf8mb4&parseTime=True&loc=Local"), &gorm.Config{PrepareStmt: true})
	if err != nil {
		return nil, err
	}
	if reset {
		if err = model.DropTable(db); err != nil {
			return nil, err
		}
	}
	if err = model.Migrate(db); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Store write-through persistence for the listing ledger and fund balances
type Store struct {
	db *gorm.DB
}

func (s *Store) SaveItem(item *model.MarketItem) error {
	return s.db.Save(item).Error
}

func (s *Store) LoadItems() (items []*model.MarketItem, err error) {
	err = s.db.Order("item_id").Find(&items).Error
	return
}

func (s *Store) SaveBalance(balance *model.Balance) error {
	return s.db.Save(balance).Error
}

func (s *Store) LoadBalances() (balances []*model.Balance, err error) {
	err = s.db.Find(&balances).Error
	return
}
