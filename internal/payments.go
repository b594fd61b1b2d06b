package internal

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"cyberpay/config"
	"cyberpay/entity"
	"cyberpay/services"
)

// Payments is the service facade over the signing core. It builds signed
// hosted-page payloads, validates provider callbacks, persists outcomes
// through the database collaborator and logs with redaction. All methods
// are safe for concurrent use: the only shared state is the immutable
// credential set loaded at startup.
type Payments struct {
	conf      *config.Config
	builder   *Builder
	validator *Validator
	database  services.Database
	logger    services.LogHandler
}

// NewPayments wires the signing core from configuration. Missing merchant
// credentials surface as a ConfigurationError and must abort startup.
func NewPayments(conf *config.Config) (*Payments, error) {
	signer := NewSigner(conf.Merchant.SecretKey)
	builder, err := NewBuilder(conf, signer)
	if err != nil {
		return nil, err
	}
	return &Payments{
		conf:      conf,
		builder:   builder,
		validator: NewValidator(signer),
	}, nil
}

func (p *Payments) SetDatabase(database services.Database) {
	p.database = database
}

func (p *Payments) SetLogger(logger services.LogHandler) {
	p.logger = logger
	if p.conf.DisablePayment {
		p.logger.Warn("service disabled")
	} else {
		p.logger.Info("service enabled")
	}
}

// CreatePayment builds a signed authorization or sale payload. The intent
// comes from the input's transaction_type, defaulting to sale.
func (p *Payments) CreatePayment(_ context.Context, input *entity.PaymentInput) (*entity.SignedPayload, error) {
	if p.conf.DisablePayment {
		return nil, fmt.Errorf("payment service disabled")
	}
	intent, err := entity.ParseIntent(input.TransactionType)
	if err != nil {
		return nil, err
	}
	payload, err := p.builder.BuildPaymentRequest(input, intent)
	if err != nil {
		p.logger.Warn(fmt.Sprintf("create %s payload: %v", intent, err))
		return nil, err
	}
	p.logger.Info(fmt.Sprintf("%s payload %s created; reference %s; amount %s %s",
		intent, secret(payload.TransactionUuid()), input.ReferenceNumber, input.Amount, input.Currency))
	return payload, nil
}

// CreateToken builds a signed tokenization payload. The provider stores the
// card entered on the hosted page and returns a reusable payment token.
func (p *Payments) CreateToken(_ context.Context, input *entity.PaymentInput) (*entity.SignedPayload, error) {
	if p.conf.DisablePayment {
		return nil, fmt.Errorf("payment service disabled")
	}
	payload, err := p.builder.BuildPaymentRequest(input, entity.IntentCreateToken)
	if err != nil {
		p.logger.Warn(fmt.Sprintf("create token payload: %v", err))
		return nil, err
	}
	p.logger.Info(fmt.Sprintf("token payload %s created; reference %s", secret(payload.TransactionUuid()), input.ReferenceNumber))
	return payload, nil
}

// PayWithToken builds a signed payload charging a stored payment token.
func (p *Payments) PayWithToken(_ context.Context, input *entity.TokenPaymentInput) (*entity.SignedPayload, error) {
	if p.conf.DisablePayment {
		return nil, fmt.Errorf("payment service disabled")
	}
	intent, err := entity.ParseIntent(input.TransactionType)
	if err != nil {
		return nil, err
	}
	payload, err := p.builder.BuildTokenPaymentRequest(input.PaymentToken, input.Amount, input.Currency, input.ReferenceNumber, intent)
	if err != nil {
		p.logger.Warn(fmt.Sprintf("token %s payload: %v", intent, err))
		return nil, err
	}
	p.logger.Info(fmt.Sprintf("token %s payload %s created; identifier %s; amount %s %s",
		intent, secret(payload.TransactionUuid()), secret(input.PaymentToken), input.Amount, input.Currency))
	return payload, nil
}

// Notify processes a provider callback POST. The body is form-encoded field
// data. A failed signature check is logged as a security event; a validated
// outcome is persisted when a database is configured.
func (p *Payments) Notify(ctx context.Context, data []byte) (*entity.PaymentOutcome, error) {
	params, err := url.ParseQuery(string(data))
	if err != nil {
		return nil, fmt.Errorf("parse callback body: %w", err)
	}
	raw := entity.CallbackFromValues(params)

	outcome, err := p.validator.Validate(raw)
	if err != nil {
		var sigErr *entity.SignatureError
		var semErr *entity.SemanticError
		switch {
		case errors.As(err, &sigErr):
			p.logger.Warn(fmt.Sprintf("security: rejected callback for %s: %v", secret(raw["req_transaction_uuid"]), err))
		case errors.As(err, &semErr):
			p.logger.Info(fmt.Sprintf("provider reported invalid fields for %s: %v", secret(raw["req_transaction_uuid"]), err))
		default:
			p.logger.Error("validate callback", err)
		}
		return nil, err
	}

	outcome.TimeReceived = time.Now()
	p.logger.Info(fmt.Sprintf("callback: decision %s; reason %s; transaction %s",
		outcome.RawDecision, outcome.ReasonCode, secret(outcome.TransactionUuid)))
	p.logger.Debug(outcome.StatusDescription())

	if p.database != nil {
		if err := p.database.SavePaymentResult(ctx, outcome); err != nil {
			p.logger.Error("save payment result", err)
		}
	}
	return outcome, nil
}

// GetPaymentResult returns a previously persisted outcome by transaction uuid.
func (p *Payments) GetPaymentResult(ctx context.Context, transactionUuid string) (*entity.PaymentOutcome, error) {
	if p.database == nil {
		return nil, fmt.Errorf("database not set")
	}
	return p.database.GetPaymentResult(ctx, transactionUuid)
}

// EndpointUrl returns the hosted-page URL the browser posts the signed
// fields to, selected by the configured environment.
func (p *Payments) EndpointUrl() string {
	if p.conf.Merchant.Environment == "production" {
		return p.conf.Merchant.ProductionUrl
	}
	return p.conf.Merchant.TestUrl
}

// secret shortens identifiers for logging. Full transaction identifiers and
// payment tokens never appear in logs.
func secret(some string) string {
	if len(some) > 5 {
		return fmt.Sprintf("%s***", some[0:5])
	}
	if some == "" {
		return "?"
	}
	return "***"
}
