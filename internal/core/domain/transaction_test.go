package domain_test

import (
	"testing"

	"github.com/casafin/casafin_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestIsInflow(t *testing.T) {
	testCases := []struct {
		name        string
		amount      decimal.Decimal
		accountType domain.AccountType
		want        bool
	}{
		{"negative amount on checking is income", decimal.NewFromInt(-500), domain.Checking, true},
		{"negative amount on investment is income", decimal.NewFromInt(-100), domain.Investment, true},
		{"positive amount on checking is an expense", decimal.NewFromInt(250), domain.Checking, false},
		{"credit card never produces inflows", decimal.NewFromInt(-500), domain.CreditCard, false},
		{"zero is not an inflow", decimal.Zero, domain.Checking, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, domain.IsInflow(tc.amount, tc.accountType))
		})
	}
}

func TestBalanceDelta(t *testing.T) {
	spend := decimal.NewFromInt(150)
	income := decimal.NewFromInt(-500)

	// Checking: spending decreases the balance, income increases it.
	assert.True(t, domain.Checking.BalanceDelta(spend).Equal(decimal.NewFromInt(-150)))
	assert.True(t, domain.Checking.BalanceDelta(income).Equal(decimal.NewFromInt(500)))

	// Investment follows the checking convention.
	assert.True(t, domain.Investment.BalanceDelta(spend).Equal(decimal.NewFromInt(-150)))

	// Credit card: spending increases the debt, a payment decreases it.
	assert.True(t, domain.CreditCard.BalanceDelta(spend).Equal(decimal.NewFromInt(150)))
	assert.True(t, domain.CreditCard.BalanceDelta(income).Equal(decimal.NewFromInt(-500)))
}

func TestBalanceDeltaRoundTrip(t *testing.T) {
	// Applying a delta and then the delta of the negated amount must cancel
	// out for every account type; delete relies on this.
	for _, at := range []domain.AccountType{domain.Checking, domain.CreditCard, domain.Investment} {
		amount := decimal.NewFromFloat(123.45)
		sum := at.BalanceDelta(amount).Add(at.BalanceDelta(amount.Neg()))
		assert.True(t, sum.IsZero(), "account type %s", at)
	}
}
