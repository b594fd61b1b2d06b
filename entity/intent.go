package entity

import "fmt"

// TransactionIntent selects which canonical field set a request is signed with.
type TransactionIntent int

const (
	// IntentAuthorization reserves funds; a later capture settles them.
	IntentAuthorization TransactionIntent = iota
	// IntentSale authorizes and settles in one step.
	IntentSale
	// IntentCreateToken stores the card with the provider and returns a payment token.
	IntentCreateToken
	// IntentPayWithToken charges a previously created payment token.
	IntentPayWithToken
)

// TransactionType returns the wire value sent as transaction_type.
// Token reuse requests carry "authorization" or "sale" themselves and
// never send this value directly.
func (i TransactionIntent) TransactionType() string {
	switch i {
	case IntentAuthorization:
		return "authorization"
	case IntentSale:
		return "sale"
	case IntentCreateToken:
		return "create_payment_token"
	default:
		return ""
	}
}

func (i TransactionIntent) String() string {
	switch i {
	case IntentAuthorization:
		return "authorization"
	case IntentSale:
		return "sale"
	case IntentCreateToken:
		return "create_token"
	case IntentPayWithToken:
		return "pay_with_token"
	default:
		return fmt.Sprintf("intent(%d)", int(i))
	}
}

// ParseIntent reads a transaction type supplied by the HTTP layer.
// An empty value defaults to sale, matching the hosted-page default of
// immediate capture.
func ParseIntent(transactionType string) (TransactionIntent, error) {
	switch transactionType {
	case "":
		return IntentSale, nil
	case "authorization":
		return IntentAuthorization, nil
	case "sale":
		return IntentSale, nil
	default:
		return 0, &ValidationError{Field: "transaction_type", Reason: fmt.Sprintf("unsupported value %q", transactionType)}
	}
}
