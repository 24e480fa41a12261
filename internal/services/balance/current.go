package balance

import (
	"sort"

	"github.com/bobmcallan/tally/internal/models"
)

// CurrentBalances sums every signed amount per account over the whole ledger,
// i.e. the balance as of the latest transaction. Sorted by balance descending,
// then account name.
func (s *Service) CurrentBalances(txs []models.SignedTransaction) []models.AccountBalance {
	totals := make(map[string]float64)
	for _, tx := range txs {
		totals[tx.Account] += tx.SignedAmount
	}

	out := make([]models.AccountBalance, 0, len(totals))
	for acct, bal := range totals {
		out = append(out, models.AccountBalance{Account: acct, Balance: bal})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Balance != out[j].Balance {
			return out[i].Balance > out[j].Balance
		}
		return out[i].Account < out[j].Account
	})
	return out
}
