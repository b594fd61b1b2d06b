package entity

import (
	"net/url"
	"time"
)

// CallbackResponse is the raw field map the provider posts back after the
// customer completes the hosted page. Values are taken as-is; validation
// happens once, in the response validator.
type CallbackResponse map[string]string

// CallbackFromValues flattens form values into a CallbackResponse.
// The provider sends each field exactly once; extra occurrences are ignored.
func CallbackFromValues(values url.Values) CallbackResponse {
	response := make(CallbackResponse, len(values))
	for name := range values {
		response[name] = values.Get(name)
	}
	return response
}

// Decision is the normalized provider decision.
type Decision string

const (
	DecisionAccepted Decision = "accepted"
	DecisionDeclined Decision = "declined"
	DecisionReview   Decision = "review"
	DecisionErrored  Decision = "errored"
	DecisionUnknown  Decision = "unknown"
)

// DecisionFromWire maps the provider's decision value to a Decision.
// Unrecognized values map to DecisionUnknown; the raw string is kept on the
// outcome so new provider decisions are never dropped.
func DecisionFromWire(raw string) Decision {
	switch raw {
	case "ACCEPT":
		return DecisionAccepted
	case "DECLINE":
		return DecisionDeclined
	case "REVIEW":
		return DecisionReview
	case "ERROR":
		return DecisionErrored
	default:
		return DecisionUnknown
	}
}

// PaymentOutcome is a validated, normalized callback result. It is derived
// once by the response validator and never mutated afterwards.
type PaymentOutcome struct {
	Decision        Decision          `json:"decision" bson:"decision"`
	RawDecision     string            `json:"raw_decision" bson:"raw_decision"`
	TransactionId   string            `json:"transaction_id,omitempty" bson:"transaction_id"`
	TransactionUuid string            `json:"transaction_uuid,omitempty" bson:"transaction_uuid"`
	AuthCode        string            `json:"auth_code,omitempty" bson:"auth_code"`
	AuthAmount      string            `json:"auth_amount,omitempty" bson:"auth_amount"`
	AuthTime        string            `json:"auth_time,omitempty" bson:"auth_time"`
	ReasonCode      string            `json:"reason_code,omitempty" bson:"reason_code"`
	Message         string            `json:"message,omitempty" bson:"message"`
	Extensions      map[string]string `json:"extensions,omitempty" bson:"extensions"`
	TimeReceived    time.Time         `json:"time_received" bson:"time_received"`
}

// StatusDescription renders a short human-readable summary of the outcome.
// The echoed req_transaction_type extension, when present, distinguishes
// an authorization hold from an immediate sale.
func (o *PaymentOutcome) StatusDescription() string {
	transactionType := o.Extensions["req_transaction_type"]
	switch o.Decision {
	case DecisionAccepted:
		if transactionType == "authorization" {
			return "payment authorized, funds reserved, capture required to settle"
		}
		return "payment completed, funds captured"
	case DecisionDeclined:
		return "payment declined, no funds reserved or captured"
	case DecisionReview:
		return "payment under review, manual verification required"
	case DecisionErrored:
		return "payment error, transaction failed"
	default:
		return "payment status: " + o.RawDecision
	}
}
