package services

import (
	"context"
	"cyberpay/entity"
)

// Payments builds signed hosted-page requests and validates provider callbacks.
type Payments interface {
	CreatePayment(ctx context.Context, input *entity.PaymentInput) (*entity.SignedPayload, error)
	CreateToken(ctx context.Context, input *entity.PaymentInput) (*entity.SignedPayload, error)
	PayWithToken(ctx context.Context, input *entity.TokenPaymentInput) (*entity.SignedPayload, error)
	Notify(ctx context.Context, data []byte) (*entity.PaymentOutcome, error)
	GetPaymentResult(ctx context.Context, transactionUuid string) (*entity.PaymentOutcome, error)
	EndpointUrl() string
}
