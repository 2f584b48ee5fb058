package enum

// PaymentMode represents how a bill was settled
type PaymentMode string

const (
	PaymentModeCash   PaymentMode = "cash"
	PaymentModeOnline PaymentMode = "online"
	PaymentModeSplit  PaymentMode = "split"
)

// Valid reports whether the mode is one of the known payment modes.
func (m PaymentMode) Valid() bool {
	switch m {
	case PaymentModeCash, PaymentModeOnline, PaymentModeSplit:
		return true
	}
	return false
}

func (m PaymentMode) String() string {
	return string(m)
}
