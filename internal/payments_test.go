package internal

import (
	"context"
	"net/url"
	"testing"

	"cyberpay/entity"
	"cyberpay/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockDatabase records persisted outcomes for assertions.
type mockDatabase struct {
	logMessages []services.Data
	outcomes    map[string]*entity.PaymentOutcome
	saveErr     error
}

func newMockDatabase() *mockDatabase {
	return &mockDatabase{outcomes: make(map[string]*entity.PaymentOutcome)}
}

func (m *mockDatabase) WriteLogMessage(data services.Data) error {
	m.logMessages = append(m.logMessages, data)
	return nil
}

func (m *mockDatabase) SavePaymentResult(_ context.Context, outcome *entity.PaymentOutcome) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.outcomes[outcome.TransactionUuid] = outcome
	return nil
}

func (m *mockDatabase) GetPaymentResult(_ context.Context, transactionUuid string) (*entity.PaymentOutcome, error) {
	outcome, ok := m.outcomes[transactionUuid]
	if !ok {
		return nil, assert.AnError
	}
	return outcome, nil
}

// nopLogger satisfies LogHandler without output noise in tests.
type nopLogger struct{}

func (nopLogger) Debug(string)        {}
func (nopLogger) Info(string)         {}
func (nopLogger) Warn(string)         {}
func (nopLogger) Error(string, error) {}

func testPayments(t *testing.T, db services.Database) *Payments {
	t.Helper()
	payments, err := NewPayments(testConfig())
	require.NoError(t, err)
	payments.SetLogger(nopLogger{})
	payments.SetDatabase(db)
	return payments
}

func encodeCallback(response entity.CallbackResponse) []byte {
	values := url.Values{}
	for name, value := range response {
		values.Set(name, value)
	}
	return []byte(values.Encode())
}

func TestNewPayments(t *testing.T) {
	t.Run("refuses to start without credentials", func(t *testing.T) {
		conf := testConfig()
		conf.Merchant.SecretKey = ""
		_, err := NewPayments(conf)
		var configErr *entity.ConfigurationError
		require.ErrorAs(t, err, &configErr)
		assert.Equal(t, []string{"secret_key"}, configErr.Missing)
	})
}

func TestPaymentsCreate(t *testing.T) {
	t.Run("intent comes from the transaction type, defaulting to sale", func(t *testing.T) {
		payments := testPayments(t, nil)
		input := testInput()

		payload, err := payments.CreatePayment(context.Background(), input)
		require.NoError(t, err)
		assert.Equal(t, "sale", payload.Get("transaction_type"))

		input.TransactionType = "authorization"
		payload, err = payments.CreatePayment(context.Background(), input)
		require.NoError(t, err)
		assert.Equal(t, "authorization", payload.Get("transaction_type"))
	})

	t.Run("rejects unsupported transaction types", func(t *testing.T) {
		payments := testPayments(t, nil)
		input := testInput()
		input.TransactionType = "refund"
		_, err := payments.CreatePayment(context.Background(), input)
		var validationErr *entity.ValidationError
		assert.ErrorAs(t, err, &validationErr)
	})

	t.Run("refuses while the service is disabled", func(t *testing.T) {
		conf := testConfig()
		conf.DisablePayment = true
		payments, err := NewPayments(conf)
		require.NoError(t, err)
		payments.SetLogger(nopLogger{})

		_, err = payments.CreatePayment(context.Background(), testInput())
		assert.Error(t, err)
		_, err = payments.CreateToken(context.Background(), testInput())
		assert.Error(t, err)
	})

	t.Run("token payload via the facade", func(t *testing.T) {
		payments := testPayments(t, nil)
		payload, err := payments.PayWithToken(context.Background(), &entity.TokenPaymentInput{
			PaymentToken:    "tok_123",
			Amount:          "25.00",
			Currency:        "EUR",
			ReferenceNumber: "REF-7",
		})
		require.NoError(t, err)
		assert.Equal(t, "tok_123", payload.Get("payment_token"))
		assert.Equal(t, "sale", payload.Get("transaction_type"))
	})
}

func TestPaymentsNotify(t *testing.T) {
	t.Run("valid callback is normalized and persisted", func(t *testing.T) {
		db := newMockDatabase()
		payments := testPayments(t, db)

		response := callbackOf("test-secret",
			[2]string{"decision", "ACCEPT"},
			[2]string{"reason_code", "100"},
			[2]string{"req_transaction_uuid", "a1b2c3"})
		outcome, err := payments.Notify(context.Background(), encodeCallback(response))
		require.NoError(t, err)
		assert.Equal(t, entity.DecisionAccepted, outcome.Decision)
		assert.False(t, outcome.TimeReceived.IsZero())

		saved, err := payments.GetPaymentResult(context.Background(), "a1b2c3")
		require.NoError(t, err)
		assert.Equal(t, entity.DecisionAccepted, saved.Decision)
	})

	t.Run("tampered callback is rejected and not persisted", func(t *testing.T) {
		db := newMockDatabase()
		payments := testPayments(t, db)

		response := callbackOf("test-secret",
			[2]string{"decision", "DECLINE"},
			[2]string{"req_transaction_uuid", "a1b2c3"})
		response["decision"] = "ACCEPT"
		_, err := payments.Notify(context.Background(), encodeCallback(response))
		var signatureErr *entity.SignatureError
		require.ErrorAs(t, err, &signatureErr)
		assert.Empty(t, db.outcomes)
	})

	t.Run("provider-reported invalid fields surface as semantic error", func(t *testing.T) {
		payments := testPayments(t, newMockDatabase())
		response := entity.CallbackResponse{
			"decision":       "ERROR",
			"invalid_fields": "card_number",
			"message":        "invalid card number",
		}
		_, err := payments.Notify(context.Background(), encodeCallback(response))
		var semanticErr *entity.SemanticError
		require.ErrorAs(t, err, &semanticErr)
		assert.Equal(t, []string{"card_number"}, semanticErr.InvalidFields)
	})

	t.Run("callback survives values containing separators", func(t *testing.T) {
		payments := testPayments(t, nil)
		response := callbackOf("test-secret",
			[2]string{"decision", "ACCEPT"},
			[2]string{"message", "Request was processed, successfully=true"})
		outcome, err := payments.Notify(context.Background(), encodeCallback(response))
		require.NoError(t, err)
		assert.Equal(t, "Request was processed, successfully=true", outcome.Message)
	})

	t.Run("result lookup without a database is an error", func(t *testing.T) {
		payments := testPayments(t, nil)
		_, err := payments.GetPaymentResult(context.Background(), "a1b2c3")
		assert.Error(t, err)
	})
}

func TestEndpointUrl(t *testing.T) {
	conf := testConfig()
	conf.Merchant.TestUrl = "https://test.example/pay"
	conf.Merchant.ProductionUrl = "https://live.example/pay"

	payments, err := NewPayments(conf)
	require.NoError(t, err)
	payments.SetLogger(nopLogger{})
	assert.Equal(t, "https://test.example/pay", payments.EndpointUrl())

	conf.Merchant.Environment = "production"
	assert.Equal(t, "https://live.example/pay", payments.EndpointUrl())
}
