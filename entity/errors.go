package entity

import (
	"fmt"
	"strings"
)

// ConfigurationError reports missing merchant credentials. It is fatal at
// startup: no signed operation may run without a complete credential set.
type ConfigurationError struct {
	Missing []string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("missing required merchant configuration: %s", strings.Join(e.Missing, ", "))
}

// ValidationError reports malformed caller input or a stale timestamp.
// The caller must fix the input before retrying.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// SignatureError reports a callback whose signature did not verify.
// Treated as a potential forgery or replay, never silently accepted.
type SignatureError struct {
	Reason string
}

func (e *SignatureError) Error() string {
	return e.Reason
}

// SemanticError carries the provider's own report of invalid request fields.
// The provider signs these responses inconsistently, so they bypass
// signature verification.
type SemanticError struct {
	InvalidFields []string
	ReasonCode    string
	Message       string
}

func (e *SemanticError) Error() string {
	msg := fmt.Sprintf("provider rejected fields: %s", strings.Join(e.InvalidFields, ", "))
	if e.Message != "" {
		msg = msg + "; " + e.Message
	}
	return msg
}
