package internal

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strings"

	"cyberpay/entity"
)

// Signer computes and verifies hosted-page signatures. The shared secret
// never leaves this type: it is not logged, not wrapped into errors, and
// not exposed through any accessor.
type Signer struct {
	secret string
}

func NewSigner(secret string) *Signer {
	return &Signer{secret: secret}
}

// Sign builds the canonical string for the given field order and returns the
// base64-encoded HMAC-SHA256 digest. The canonical form is name=value pairs
// joined by commas with no escaping or trimming; values containing "," or
// "=" pass through untouched. This is the provider's contract, byte for byte.
func (s *Signer) Sign(fields *entity.FieldMap, order []string) string {
	pairs := make([]string, 0, len(order))
	for _, name := range order {
		pairs = append(pairs, name+"="+fields.Get(name))
	}
	return s.mac256(strings.Join(pairs, ","))
}

// Verify recomputes the signature of a callback over the order the sender
// declared in signed_field_names and compares it to the received signature
// in constant time. Missing signature or field names fail verification;
// Verify never panics.
func (s *Signer) Verify(response entity.CallbackResponse) bool {
	received := response[fieldSignature]
	declared := response[fieldSignedFieldNames]
	if received == "" || declared == "" {
		return false
	}
	order := strings.Split(declared, ",")
	pairs := make([]string, 0, len(order))
	for _, name := range order {
		pairs = append(pairs, name+"="+response[name])
	}
	expected := s.mac256(strings.Join(pairs, ","))
	return hmac.Equal([]byte(expected), []byte(received))
}

func (s *Signer) mac256(message string) string {
	mac := hmac.New(sha256.New, []byte(s.secret))
	mac.Write([]byte(message))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}
