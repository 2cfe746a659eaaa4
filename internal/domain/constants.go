package domain

const RoleAdmin = "ADMIN"

// Transaction types. Amounts are stored as magnitudes; the type carries the
// sign (earning adds, expense subtracts). A legacy "deposit" type existed in
// an early revision and is deliberately not accepted.
const (
	TypeEarning = "earning"
	TypeExpense = "expense"
)

// InitialBalanceDescription marks the seed transaction created when a client
// is opened with a nonzero balance.
const InitialBalanceDescription = "Initial balance"

func ValidTransactionType(t string) bool {
	return t == TypeEarning || t == TypeExpense
}
