package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"cyberpay/config"
	"cyberpay/entity"
	"cyberpay/services"

	"github.com/julienschmidt/httprouter"
)

const (
	createPayment = "/payment"
	createToken   = "/token"
	payWithToken  = "/token/payment"
	paymentNotify = "/notify"
	paymentResult = "/payment/result/:transaction_uuid"
)

// checkoutResponse is handed to the rendering collaborator: the hosted-page
// URL to post to and the signed fields in signing order.
type checkoutResponse struct {
	Action string                `json:"action"`
	Fields *entity.SignedPayload `json:"fields"`
}

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	payments   services.Payments
	logger     services.LogHandler
}

func NewServer(conf *config.Config) *Server {

	server := Server{
		conf: conf,
	}

	// register itself as a router for httpServer handler
	router := httprouter.New()
	server.Register(router)
	server.httpServer = &http.Server{
		Handler: router,
	}

	return &server
}

func (s *Server) Register(router *httprouter.Router) {
	router.POST(createPayment, s.createPayment)
	router.POST(createToken, s.createToken)
	router.POST(payWithToken, s.payWithToken)
	router.POST(paymentNotify, s.paymentNotify)
	router.GET(paymentResult, s.paymentResult)
}

func (s *Server) SetPaymentsService(payments services.Payments) {
	s.payments = payments
}

func (s *Server) SetLogger(logger services.LogHandler) {
	s.logger = logger
}

func (s *Server) Start() error {
	if s.conf == nil {
		return fmt.Errorf("configuration not loaded")
	}

	serverAddress := fmt.Sprintf("%s:%s", s.conf.Listen.BindIP, s.conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	if s.conf.Listen.TLS {
		s.logger.Info(fmt.Sprintf("starting https TLS on %s", serverAddress))
		err = s.httpServer.ServeTLS(listener, s.conf.Listen.CertFile, s.conf.Listen.KeyFile)
	} else {
		s.logger.Info(fmt.Sprintf("starting http on %s", serverAddress))
		err = s.httpServer.Serve(listener)
	}

	return err
}

func (s *Server) createPayment(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := WithRequestID(r.Context())
	reqID := GetRequestID(ctx)

	var input entity.PaymentInput
	if !s.readBody(w, r, reqID, &input) {
		return
	}

	payload, err := s.payments.CreatePayment(ctx, &input)
	if err != nil {
		s.writeError(w, reqID, "create payment", err)
		return
	}
	s.writePayload(w, reqID, payload)
}

func (s *Server) createToken(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := WithRequestID(r.Context())
	reqID := GetRequestID(ctx)

	var input entity.PaymentInput
	if !s.readBody(w, r, reqID, &input) {
		return
	}

	payload, err := s.payments.CreateToken(ctx, &input)
	if err != nil {
		s.writeError(w, reqID, "create token", err)
		return
	}
	s.writePayload(w, reqID, payload)
}

func (s *Server) payWithToken(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := WithRequestID(r.Context())
	reqID := GetRequestID(ctx)

	var input entity.TokenPaymentInput
	if !s.readBody(w, r, reqID, &input) {
		return
	}

	payload, err := s.payments.PayWithToken(ctx, &input)
	if err != nil {
		s.writeError(w, reqID, "pay with token", err)
		return
	}
	s.writePayload(w, reqID, payload)
}

// paymentNotify receives the provider's callback POST. The provider expects
// a 200 regardless of how processing went; rejections are logged and
// persisted on our side only.
func (s *Server) paymentNotify(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx := WithRequestID(r.Context())
	reqID := GetRequestID(ctx)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.logger.Error(fmt.Sprintf("[%s] payment notify: get body", reqID), err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	if _, err = s.payments.Notify(ctx, body); err != nil {
		s.logger.Error(fmt.Sprintf("[%s] payment notify: process body", reqID), err)
	}
	w.WriteHeader(http.StatusOK)
}

func (s *Server) paymentResult(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx := WithRequestID(r.Context())
	reqID := GetRequestID(ctx)

	transactionUuid := ps.ByName("transaction_uuid")
	if transactionUuid == "" {
		s.logger.Warn(fmt.Sprintf("[%s] empty transaction uuid", reqID))
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	outcome, err := s.payments.GetPaymentResult(ctx, transactionUuid)
	if err != nil {
		s.logger.Warn(fmt.Sprintf("[%s] payment result %s: %v", reqID, secret(transactionUuid), err))
		w.WriteHeader(http.StatusNotFound)
		return
	}
	s.writeJSON(w, reqID, http.StatusOK, outcome)
}

func (s *Server) readBody(w http.ResponseWriter, r *http.Request, reqID string, target interface{}) bool {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.logger.Error(fmt.Sprintf("[%s] read request body", reqID), err)
		w.WriteHeader(http.StatusBadRequest)
		return false
	}
	if err = json.Unmarshal(body, target); err != nil {
		s.logger.Error(fmt.Sprintf("[%s] decode request body", reqID), err)
		w.WriteHeader(http.StatusBadRequest)
		return false
	}
	return true
}

func (s *Server) writePayload(w http.ResponseWriter, reqID string, payload *entity.SignedPayload) {
	s.writeJSON(w, reqID, http.StatusOK, &checkoutResponse{
		Action: s.payments.EndpointUrl(),
		Fields: payload,
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, reqID string, status int, body interface{}) {
	data, err := json.Marshal(body)
	if err != nil {
		s.logger.Error(fmt.Sprintf("[%s] encode response", reqID), err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err = w.Write(data); err != nil {
		s.logger.Error(fmt.Sprintf("[%s] write response", reqID), err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, reqID, operation string, err error) {
	var validationErr *entity.ValidationError
	var configErr *entity.ConfigurationError
	switch {
	case errors.As(err, &validationErr):
		s.logger.Warn(fmt.Sprintf("[%s] %s: %v", reqID, operation, err))
		w.WriteHeader(http.StatusBadRequest)
	case errors.As(err, &configErr):
		s.logger.Error(fmt.Sprintf("[%s] %s", reqID, operation), err)
		w.WriteHeader(http.StatusInternalServerError)
	case s.conf.DisablePayment:
		s.logger.Warn(fmt.Sprintf("[%s] %s: service disabled", reqID, operation))
		w.WriteHeader(http.StatusServiceUnavailable)
	default:
		s.logger.Error(fmt.Sprintf("[%s] %s", reqID, operation), err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}
