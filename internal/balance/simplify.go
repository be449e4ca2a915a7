package balance

import (
	"github.com/shopspring/decimal"

	"github.com/fkhayef/splitledger/internal/money"
)

// Transfer is a suggested payment from a debtor to a creditor.
type Transfer struct {
	From   string
	To     string
	Amount decimal.Decimal
}

type position struct {
	memberID string
	amount   decimal.Decimal // always positive
}

// Simplify matches debtors to creditors greedily. Both sides keep their input
// order, so the same balances always produce the same transfers. A balance
// within money.Tolerance of zero is treated as settled. The result never has
// more than debtors+creditors-1 transfers.
func Simplify(balances []MemberBalance) []Transfer {
	var creditors, debtors []position
	for _, b := range balances {
		switch {
		case b.Balance.GreaterThan(money.Tolerance):
			creditors = append(creditors, position{memberID: b.MemberID, amount: b.Balance})
		case b.Balance.LessThan(money.Tolerance.Neg()):
			debtors = append(debtors, position{memberID: b.MemberID, amount: b.Balance.Neg()})
		}
	}

	transfers := []Transfer{}
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor := &debtors[i]
		creditor := &creditors[j]

		amount := money.Min(debtor.amount, creditor.amount)
		transfers = append(transfers, Transfer{
			From:   debtor.memberID,
			To:     creditor.memberID,
			Amount: money.Round(amount),
		})

		debtor.amount = debtor.amount.Sub(amount)
		creditor.amount = creditor.amount.Sub(amount)

		if debtor.amount.LessThanOrEqual(money.Tolerance) {
			i++
		}
		if creditor.amount.LessThanOrEqual(money.Tolerance) {
			j++
		}
	}

	return transfers
}
