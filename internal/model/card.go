package model

// CardNetwork is a payment network accepted when registering a card.
type CardNetwork string

const (
	// NetworkVisa is the Visa network.
	NetworkVisa CardNetwork = "VISA"
	// NetworkMastercard is the Mastercard network.
	NetworkMastercard CardNetwork = "MASTERCARD"
	// NetworkRupay is the RuPay network.
	NetworkRupay CardNetwork = "RUPAY"
	// NetworkAmex is the American Express network.
	NetworkAmex CardNetwork = "AMEX"
)

// Card is a payment card registered in the user's wallet.
type Card struct {
	ID             int64       `json:"id"`
	CardName       string      `json:"cardName"`
	Issuer         string      `json:"issuer"`
	Network        CardNetwork `json:"network"`
	LastFourDigits string      `json:"lastFourDigits"`
	Active         bool        `json:"active"`
	DocStatus      string      `json:"docStatus,omitempty"`
}

// DocStatusChip maps the card's document status to the display chip. An
// empty or unrecognized status means no document was ever uploaded.
func (c Card) DocStatusChip() string {
	switch JobStatus(c.DocStatus) {
	case JobCompleted:
		return "COMPLETED"
	case JobSubmitted, JobProcessing:
		return "PROCESSING"
	case JobFailed:
		return "FAILED"
	default:
		return "NOT_UPLOADED"
	}
}

// KnowledgeCoverage maps card IDs to whether reward-rule documents have
// been indexed for that card.
type KnowledgeCoverage map[int64]bool

// SupportedCurrencies lists the ISO 4217 codes the advisor accepts.
var SupportedCurrencies = []string{"INR", "USD", "EUR", "GBP", "AED", "SGD"}

// DefaultCurrency is used when no currency is configured or selected.
const DefaultCurrency = "INR"

// IsSupportedCurrency reports whether code is one of SupportedCurrencies.
func IsSupportedCurrency(code string) bool {
	for _, c := range SupportedCurrencies {
		if c == code {
			return true
		}
	}
	return false
}
