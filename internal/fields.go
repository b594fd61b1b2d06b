package internal

import "cyberpay/entity"

// Well-known wire field names used across the signing core.
const (
	fieldSignature          = "signature"
	fieldSignedFieldNames   = "signed_field_names"
	fieldUnsignedFieldNames = "unsigned_field_names"
)

// baseSignedFields is the provider's required signed-field order for
// card-entry requests (authorization, sale, token creation). The order is a
// byte-for-byte contract: the provider recomputes the signature over these
// names in this exact sequence.
var baseSignedFields = []string{
	"access_key",
	"profile_id",
	"transaction_uuid",
	"signed_date_time",
	"locale",
	"transaction_type",
	"reference_number",
	"amount",
	"currency",
	"payment_method",
	"bill_to_forename",
	"bill_to_surname",
	"bill_to_email",
	"bill_to_address_line1",
	"bill_to_address_city",
	"bill_to_address_state",
	"bill_to_address_country",
	"bill_to_address_postal_code",
}

// tokenSignedFields is the reduced order for charging a stored payment
// token: no billing block, the token stands in for the card.
var tokenSignedFields = []string{
	"access_key",
	"profile_id",
	"transaction_uuid",
	"signed_date_time",
	"locale",
	"transaction_type",
	"reference_number",
	"amount",
	"currency",
	"payment_method",
	"payment_token",
}

// cardUnsignedFields are entered by the customer on the hosted page and are
// transmitted but never signed; they never reach this system's servers.
var cardUnsignedFields = []string{
	"card_type",
	"card_number",
	"card_expiry_date",
	"card_cvn",
}

// SignedFieldOrder returns the signed-field names for an intent, in signing
// order. The optional bill_to_phone entry sits immediately before the two
// meta fields; its presence here must mirror its presence in the field map
// exactly or remote verification fails.
func SignedFieldOrder(intent entity.TransactionIntent, withPhone bool) []string {
	var base []string
	if intent == entity.IntentPayWithToken {
		base = tokenSignedFields
	} else {
		base = baseSignedFields
	}
	order := make([]string, 0, len(base)+3)
	order = append(order, base...)
	if withPhone && intent != entity.IntentPayWithToken {
		order = append(order, "bill_to_phone")
	}
	order = append(order, fieldSignedFieldNames, fieldUnsignedFieldNames)
	return order
}

// UnsignedFieldOrder returns the unsigned-field names for an intent.
// Token reuse requests carry no card entry, so their list is empty.
func UnsignedFieldOrder(intent entity.TransactionIntent) []string {
	if intent == entity.IntentPayWithToken {
		return nil
	}
	order := make([]string, len(cardUnsignedFields))
	copy(order, cardUnsignedFields)
	return order
}
