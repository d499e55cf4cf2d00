package payment

// Method represents a payment method
type Method string

const (
	MethodMoney       Method = "MONEY"
	MethodBill        Method = "BILL"
	MethodCheck       Method = "CHECK"
	MethodCard        Method = "CARD"
	MethodStoreCredit Method = "STORE_CREDIT"
	MethodMultiple    Method = "MULTIPLE"
)

// IsValid checks if the method is valid
func (m Method) IsValid() bool {
	switch m {
	case MethodMoney, MethodBill, MethodCheck, MethodCard, MethodStoreCredit, MethodMultiple:
		return true
	}
	return false
}

// String returns the string representation of the method
func (m Method) String() string {
	return string(m)
}

// DisplayName returns the human-readable name used in payment descriptions
func (m Method) DisplayName() string {
	switch m {
	case MethodMoney:
		return "Money"
	case MethodBill:
		return "Bill"
	case MethodCheck:
		return "Check"
	case MethodCard:
		return "Card"
	case MethodStoreCredit:
		return "Store Credit"
	case MethodMultiple:
		return "Multiple"
	}
	return string(m)
}

// MaxInstallments returns the maximum number of installments the method
// accepts. Cash is always a single payment.
func (m Method) MaxInstallments() int {
	switch m {
	case MethodMoney:
		return 1
	case MethodMultiple:
		return 30
	default:
		return 12
	}
}

// Installable reports whether the method can split a total into
// scheduled installments at all.
func (m Method) Installable() bool {
	return m != MethodMoney
}
