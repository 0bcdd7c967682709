package model

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"
)

type Account struct {
	Balance  string `mapstructure:"account_balance" json:"account_balance"`
	Type     string `mapstructure:"account_type" json:"account_type"`
	Currency string `mapstructure:"currency" json:"currency"`
}

// Deposit adds amount to the balance. Balances are kept as decimal
// strings so no precision is lost in storage.
func (a *Account) Deposit(amount decimal.Decimal) error {
	balance, err := decimal.NewFromString(a.Balance)
	if err != nil {
		return fmt.Errorf("invalid balance %q: %w", a.Balance, err)
	}
	a.Balance = balance.Add(amount).String()
	return nil
}

type BankCustomer struct {
	ID        string    `mapstructure:"_id" json:"_id,omitempty"`
	Rev       string    `mapstructure:"_rev" json:"_rev,omitempty"`
	FirstName string    `mapstructure:"first_name" json:"first_name"`
	LastName  string    `mapstructure:"last_name" json:"last_name"`
	Accounts  []Account `mapstructure:"accounts" json:"accounts"`
}

func (c *BankCustomer) FromDocument(doc *Document) error {
	err := mapstructure.Decode(doc.Data, c)
	if err != nil {
		return err
	}
	c.ID = doc.ID
	c.Rev = doc.Rev
	return nil
}

func (c BankCustomer) Document() *Document {
	accounts := make([]interface{}, len(c.Accounts))
	for i, a := range c.Accounts {
		accounts[i] = map[string]interface{}{
			"account_balance": a.Balance,
			"account_type":    a.Type,
			"currency":        a.Currency,
		}
	}

	return &Document{
		ID:  c.ID,
		Rev: c.Rev,
		Data: map[string]interface{}{
			"first_name": c.FirstName,
			"last_name":  c.LastName,
			"accounts":   accounts,
		},
	}
}
