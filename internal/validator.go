package internal

import (
	"strings"

	"cyberpay/entity"
)

// recognizedResponseFields are the callback keys mapped onto named
// PaymentOutcome fields or consumed by signature plumbing. Every other key
// is carried verbatim in the outcome's Extensions map.
var recognizedResponseFields = map[string]bool{
	"decision":             true,
	"reason_code":          true,
	"transaction_id":       true,
	"req_transaction_uuid": true,
	"auth_code":            true,
	"auth_amount":          true,
	"auth_time":            true,
	"message":              true,
	"invalid_fields":       true,
	fieldSignature:         true,
	fieldSignedFieldNames:  true,
}

// Validator authenticates provider callbacks and normalizes them into
// payment outcomes. It is stateless and safe for concurrent use.
type Validator struct {
	signer *Signer
}

func NewValidator(signer *Signer) *Validator {
	return &Validator{signer: signer}
}

// Validate checks a raw callback and produces a normalized outcome.
//
// ERROR responses reporting invalid request fields are classified as a
// SemanticError before any signature check: the provider signs that one
// response shape inconsistently, so verification would reject genuine
// responses. Every other shape must verify, and a failure is a
// SignatureError, never downgraded.
func (v *Validator) Validate(raw entity.CallbackResponse) (*entity.PaymentOutcome, error) {
	decision := raw["decision"]

	if decision == "ERROR" {
		if invalid := raw["invalid_fields"]; invalid != "" {
			return nil, &entity.SemanticError{
				InvalidFields: strings.Split(invalid, ","),
				ReasonCode:    raw["reason_code"],
				Message:       raw["message"],
			}
		}
	}

	if !v.signer.Verify(raw) {
		return nil, &entity.SignatureError{Reason: "callback signature verification failed"}
	}

	outcome := &entity.PaymentOutcome{
		Decision:        entity.DecisionFromWire(decision),
		RawDecision:     decision,
		TransactionId:   raw["transaction_id"],
		TransactionUuid: raw["req_transaction_uuid"],
		AuthCode:        raw["auth_code"],
		AuthAmount:      raw["auth_amount"],
		AuthTime:        raw["auth_time"],
		ReasonCode:      raw["reason_code"],
		Message:         raw["message"],
		Extensions:      make(map[string]string),
	}
	for name, value := range raw {
		if !recognizedResponseFields[name] {
			outcome.Extensions[name] = value
		}
	}
	return outcome, nil
}

// NeedsCapture reports whether the transaction holds funds awaiting a
// server-side capture. The intent is the one the caller originally
// requested; it is never trusted from the response itself.
func NeedsCapture(outcome *entity.PaymentOutcome, requestedIntent entity.TransactionIntent) bool {
	return requestedIntent == entity.IntentAuthorization && outcome.Decision == entity.DecisionAccepted
}

// IsSettled reports whether funds were captured immediately.
func IsSettled(outcome *entity.PaymentOutcome, requestedIntent entity.TransactionIntent) bool {
	return requestedIntent == entity.IntentSale && outcome.Decision == entity.DecisionAccepted
}
