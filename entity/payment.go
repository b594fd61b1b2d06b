// Package entity defines data models for the cyberpay service.
package entity

// PaymentInput carries the customer and order data needed to build a signed
// hosted-page request. Card data is never part of it: the customer enters
// card fields directly on the provider's page.
type PaymentInput struct {
	Amount                  string `json:"amount"`
	Currency                string `json:"currency"`
	ReferenceNumber         string `json:"reference_number"`
	BillToForename          string `json:"bill_to_forename"`
	BillToSurname           string `json:"bill_to_surname"`
	BillToEmail             string `json:"bill_to_email"`
	BillToAddressLine1      string `json:"bill_to_address_line1"`
	BillToAddressCity       string `json:"bill_to_address_city"`
	BillToAddressState      string `json:"bill_to_address_state"`
	BillToAddressCountry    string `json:"bill_to_address_country"`
	BillToAddressPostalCode string `json:"bill_to_address_postal_code"`
	BillToPhone             string `json:"bill_to_phone,omitempty"`
	Locale                  string `json:"locale,omitempty"`
	PaymentMethod           string `json:"payment_method,omitempty"`
	TransactionType         string `json:"transaction_type,omitempty"`
}

// Validate checks the fields every hosted-page request must carry.
func (p *PaymentInput) Validate() error {
	switch {
	case p.Amount == "":
		return &ValidationError{Field: "amount", Reason: "required"}
	case p.Currency == "":
		return &ValidationError{Field: "currency", Reason: "required"}
	case p.ReferenceNumber == "":
		return &ValidationError{Field: "reference_number", Reason: "required"}
	}
	return nil
}

// TokenPaymentInput charges a stored payment token. The token is opaque to
// this system and passed through as received from the provider.
type TokenPaymentInput struct {
	PaymentToken    string `json:"payment_token"`
	Amount          string `json:"amount"`
	Currency        string `json:"currency"`
	ReferenceNumber string `json:"reference_number"`
	TransactionType string `json:"transaction_type,omitempty"`
}

func (p *TokenPaymentInput) Validate() error {
	switch {
	case p.PaymentToken == "":
		return &ValidationError{Field: "payment_token", Reason: "required"}
	case p.Amount == "":
		return &ValidationError{Field: "amount", Reason: "required"}
	case p.Currency == "":
		return &ValidationError{Field: "currency", Reason: "required"}
	case p.ReferenceNumber == "":
		return &ValidationError{Field: "reference_number", Reason: "required"}
	}
	return nil
}

// SignedPayload is a complete, signed hosted-page field set. It is built
// once, handed to the rendering collaborator for a single browser POST to
// the provider, and never reused.
type SignedPayload struct {
	intent TransactionIntent
	fields *FieldMap
}

func NewSignedPayload(intent TransactionIntent, fields *FieldMap) *SignedPayload {
	return &SignedPayload{intent: intent, fields: fields}
}

// Intent reports the transaction intent the payload was built for.
func (p *SignedPayload) Intent() TransactionIntent {
	return p.intent
}

func (p *SignedPayload) Get(name string) string {
	return p.fields.Get(name)
}

func (p *SignedPayload) Names() []string {
	return p.fields.Names()
}

// TransactionUuid returns the generated one-time transaction identifier.
func (p *SignedPayload) TransactionUuid() string {
	return p.fields.Get("transaction_uuid")
}

func (p *SignedPayload) Signature() string {
	return p.fields.Get("signature")
}

func (p *SignedPayload) MarshalJSON() ([]byte, error) {
	return p.fields.MarshalJSON()
}
