package controller

import (
	"context"
	"fmt"

	"github.com/goydb/goyreport/pkg/model"
	"github.com/goydb/goyreport/pkg/port"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const DefaultBankCollection = "bank_data"

// BankDemo walks a customer document through insert, update,
// find and remove.
type BankDemo struct {
	DB         port.Database
	Collection string
	Logger     *zap.Logger
}

type BankDemoResult struct {
	ID       string              `json:"id"`
	Updated  int                 `json:"updated"`
	Customer *model.BankCustomer `json:"customer"`
	Removed  int                 `json:"removed"`
}

func (c BankDemo) Run(ctx context.Context) (*BankDemoResult, error) {
	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	coll := c.Collection
	if coll == "" {
		coll = DefaultBankCollection
	}

	customer := model.BankCustomer{
		FirstName: "Steven",
		LastName:  "Edouard",
		Accounts: []model.Account{
			{Balance: "50000000", Type: "Investment", Currency: "USD"},
		},
	}
	doc := customer.Document()
	_, err := c.DB.Insert(ctx, coll, doc)
	if err != nil {
		return nil, fmt.Errorf("insert: %w", err)
	}
	logger.Info("inserted customer", zap.String("id", doc.ID))
	result := &BankDemoResult{ID: doc.ID}

	inserted, err := c.DB.FindOne(ctx, coll, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("find inserted: %w", err)
	}
	err = customer.FromDocument(inserted)
	if err != nil {
		return nil, err
	}
	err = customer.Accounts[0].Deposit(decimal.NewFromInt(100000))
	if err != nil {
		return nil, err
	}

	result.Updated, err = c.DB.Update(ctx, coll, customer.Document())
	if err != nil {
		return nil, fmt.Errorf("update: %w", err)
	}
	logger.Info("updated customers", zap.Int("count", result.Updated))

	found, err := c.DB.FindOne(ctx, coll, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("find: %w", err)
	}
	result.Customer = new(model.BankCustomer)
	err = result.Customer.FromDocument(found)
	if err != nil {
		return nil, err
	}
	logger.Info("retrieved customer", zap.String("name", result.Customer.FirstName+" "+result.Customer.LastName))
	for _, a := range result.Customer.Accounts {
		logger.Info("account", zap.String("type", a.Type), zap.String("balance", a.Balance))
	}

	result.Removed, err = c.DB.Remove(ctx, coll, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("remove: %w", err)
	}
	logger.Info("removed customers", zap.Int("count", result.Removed))

	return result, nil
}
