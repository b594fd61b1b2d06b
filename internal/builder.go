package internal

import (
	"strings"
	"time"

	"cyberpay/config"
	"cyberpay/entity"
)

// Builder assembles and signs hosted-page field sets. It holds only the
// immutable merchant credentials and a clock; every call is independent and
// safe for concurrent use.
type Builder struct {
	accessKey string
	profileId string
	locale    string
	signer    *Signer
	now       func() time.Time
}

// NewBuilder validates the merchant credentials and returns a ready builder.
// A missing access key, profile id or secret key is a ConfigurationError
// listing every absent name, so operators can fix the config in one pass.
func NewBuilder(conf *config.Config, signer *Signer) (*Builder, error) {
	var missing []string
	if conf.Merchant.AccessKey == "" {
		missing = append(missing, "access_key")
	}
	if conf.Merchant.ProfileId == "" {
		missing = append(missing, "profile_id")
	}
	if conf.Merchant.SecretKey == "" {
		missing = append(missing, "secret_key")
	}
	if len(missing) > 0 {
		return nil, &entity.ConfigurationError{Missing: missing}
	}

	locale := conf.Merchant.Locale
	if locale == "" {
		locale = "en"
	}

	return &Builder{
		accessKey: conf.Merchant.AccessKey,
		profileId: conf.Merchant.ProfileId,
		locale:    locale,
		signer:    signer,
		now:       time.Now,
	}, nil
}

// BuildPaymentRequest produces a signed payload for a card-entry intent:
// authorization, sale or token creation. Each call generates a fresh
// transaction uuid and timestamp, so identical inputs yield distinct
// payloads; a payload is single-use by design.
func (b *Builder) BuildPaymentRequest(input *entity.PaymentInput, intent entity.TransactionIntent) (*entity.SignedPayload, error) {
	if intent.TransactionType() == "" {
		return nil, &entity.ValidationError{Field: "transaction_type", Reason: "token payments use BuildTokenPaymentRequest"}
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	transactionUuid, err := NewTransactionUuid()
	if err != nil {
		return nil, err
	}
	signedDateTime := Timestamp(b.now())
	// Self-check against a misconfigured clock: a payload signed with a
	// stale timestamp would be rejected by the provider anyway.
	if !IsFresh(signedDateTime, b.now()) {
		return nil, &entity.ValidationError{Field: "signed_date_time", Reason: "generated timestamp failed freshness check, system clock misconfigured"}
	}

	locale := input.Locale
	if locale == "" {
		locale = b.locale
	}
	paymentMethod := input.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "card"
	}

	fields := entity.NewFieldMap()
	fields.Set("access_key", b.accessKey)
	fields.Set("profile_id", b.profileId)
	fields.Set("transaction_uuid", transactionUuid)
	fields.Set("signed_date_time", signedDateTime)
	fields.Set("locale", locale)
	fields.Set("transaction_type", intent.TransactionType())
	fields.Set("reference_number", input.ReferenceNumber)
	fields.Set("amount", input.Amount)
	fields.Set("currency", input.Currency)
	fields.Set("payment_method", paymentMethod)
	fields.Set("bill_to_forename", input.BillToForename)
	fields.Set("bill_to_surname", input.BillToSurname)
	fields.Set("bill_to_email", input.BillToEmail)
	fields.Set("bill_to_address_line1", input.BillToAddressLine1)
	fields.Set("bill_to_address_city", input.BillToAddressCity)
	fields.Set("bill_to_address_state", input.BillToAddressState)
	fields.Set("bill_to_address_country", input.BillToAddressCountry)
	fields.Set("bill_to_address_postal_code", input.BillToAddressPostalCode)

	// Presence in the map and in the signed-field list must mirror each
	// other exactly, or the provider's verification fails.
	withPhone := input.BillToPhone != ""
	if withPhone {
		fields.Set("bill_to_phone", input.BillToPhone)
	}

	return b.seal(fields, intent, withPhone), nil
}

// BuildTokenPaymentRequest produces a signed payload charging a stored
// payment token. The intent selects authorization or sale semantics; the
// field set is the reduced token order with an empty unsigned list.
func (b *Builder) BuildTokenPaymentRequest(token, amount, currency, referenceNumber string, intent entity.TransactionIntent) (*entity.SignedPayload, error) {
	if intent != entity.IntentAuthorization && intent != entity.IntentSale {
		return nil, &entity.ValidationError{Field: "transaction_type", Reason: "token payments support authorization and sale only"}
	}
	input := entity.TokenPaymentInput{
		PaymentToken:    token,
		Amount:          amount,
		Currency:        currency,
		ReferenceNumber: referenceNumber,
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	transactionUuid, err := NewTransactionUuid()
	if err != nil {
		return nil, err
	}
	signedDateTime := Timestamp(b.now())
	if !IsFresh(signedDateTime, b.now()) {
		return nil, &entity.ValidationError{Field: "signed_date_time", Reason: "generated timestamp failed freshness check, system clock misconfigured"}
	}

	fields := entity.NewFieldMap()
	fields.Set("access_key", b.accessKey)
	fields.Set("profile_id", b.profileId)
	fields.Set("transaction_uuid", transactionUuid)
	fields.Set("signed_date_time", signedDateTime)
	fields.Set("locale", b.locale)
	fields.Set("transaction_type", intent.TransactionType())
	fields.Set("reference_number", referenceNumber)
	fields.Set("amount", amount)
	fields.Set("currency", currency)
	fields.Set("payment_method", "card")
	fields.Set("payment_token", token)

	payload := b.sealAs(fields, entity.IntentPayWithToken, intent, false)
	return payload, nil
}

func (b *Builder) seal(fields *entity.FieldMap, intent entity.TransactionIntent, withPhone bool) *entity.SignedPayload {
	return b.sealAs(fields, intent, intent, withPhone)
}

// sealAs appends the two meta list-fields, signs the map over the canonical
// order for orderIntent, and freezes the result. The payload reports
// reportedIntent, which for token payments is the authorization/sale intent
// the caller requested rather than the field-set selector.
func (b *Builder) sealAs(fields *entity.FieldMap, orderIntent, reportedIntent entity.TransactionIntent, withPhone bool) *entity.SignedPayload {
	order := SignedFieldOrder(orderIntent, withPhone)
	unsigned := UnsignedFieldOrder(orderIntent)

	fields.Set(fieldSignedFieldNames, strings.Join(order, ","))
	fields.Set(fieldUnsignedFieldNames, strings.Join(unsigned, ","))
	fields.Set(fieldSignature, b.signer.Sign(fields, order))

	return entity.NewSignedPayload(reportedIntent, fields)
}
