package services

import (
	"context"
	"cyberpay/entity"
)

type Database interface {
	WriteLogMessage(data Data) error

	SavePaymentResult(ctx context.Context, outcome *entity.PaymentOutcome) error
	GetPaymentResult(ctx context.Context, transactionUuid string) (*entity.PaymentOutcome, error)
}

type Data interface {
	DataType() string
}
