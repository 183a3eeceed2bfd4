package services

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sophisticated-cleaners/booking-backend/internal/config"
	"github.com/sophisticated-cleaners/booking-backend/internal/database"
	"github.com/sophisticated-cleaners/booking-backend/internal/models"
)

const stripeAPIBase = "https://api.stripe.com/v1"

// PaymentService creates Stripe PaymentIntents for bookings and records
// payment outcomes. Talks to the Stripe REST API directly with the secret
// key; the client only ever sees the intent's client_secret.
type PaymentService struct {
	cfg      *config.StripeConfig
	bookings *database.BookingRepository
	logger   *logrus.Logger
	client   *http.Client
	baseURL  string
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(cfg *config.StripeConfig, bookings *database.BookingRepository, logger *logrus.Logger) *PaymentService {
	return &PaymentService{
		cfg:      cfg,
		bookings: bookings,
		logger:   logger,
		client:   &http.Client{Timeout: 15 * time.Second},
		baseURL:  stripeAPIBase,
	}
}

// PaymentIntent is the subset of Stripe's PaymentIntent object we use
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

type stripeError struct {
	Error struct {
		Type    string `json:"type"`
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreateIntentForBooking creates a PaymentIntent for the booking's quoted
// price. The caller must own the booking. Amounts are sent in cents.
func (s *PaymentService) CreateIntentForBooking(booking *models.Booking) (*PaymentIntent, error) {
	if s.cfg.SecretKey == "" {
		return nil, fmt.Errorf("payments are not configured")
	}
	if booking.PaymentStatus == models.PaymentStatusPaid {
		return nil, fmt.Errorf("booking is already paid")
	}
	if booking.Status == models.BookingStatusCancelled {
		return nil, fmt.Errorf("booking is cancelled")
	}

	amountCents := int64(math.Round(booking.Details.Price * 100))
	if amountCents <= 0 {
		return nil, fmt.Errorf("booking has no payable amount")
	}

	form := url.Values{}
	form.Set("amount", fmt.Sprintf("%d", amountCents))
	form.Set("currency", s.cfg.Currency)
	form.Set("metadata[booking_id]", booking.ID)
	form.Set("metadata[client_id]", booking.ClientID)
	form.Set("automatic_payment_methods[enabled]", "true")

	intent, err := s.postForm("/payment_intents", form)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"intent_id":  intent.ID,
		"amount":     amountCents,
	}).Info("Payment intent created")

	return intent, nil
}

// ConfirmPayment checks an intent's status with Stripe and, if it succeeded,
// marks the booking paid. Called by the client after completing the payment
// flow; the intent's metadata binds it to the booking.
func (s *PaymentService) ConfirmPayment(booking *models.Booking, intentID string) error {
	intent, err := s.getIntent(intentID)
	if err != nil {
		return err
	}

	if intent.Status != "succeeded" {
		return fmt.Errorf("payment not completed (status: %s)", intent.Status)
	}

	amount := float64(intent.Amount) / 100
	if err := s.bookings.UpdatePaymentStatus(booking.ID, models.PaymentStatusPaid, amount); err != nil {
		return fmt.Errorf("payment succeeded but booking update failed: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"intent_id":  intentID,
	}).Info("Booking paid")

	return nil
}

func (s *PaymentService) postForm(path string, form url.Values) (*PaymentIntent, error) {
	req, err := http.NewRequest(http.MethodPost, s.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to build payment request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.SetBasicAuth(s.cfg.SecretKey, "")

	return s.doIntentRequest(req)
}

func (s *PaymentService) getIntent(intentID string) (*PaymentIntent, error) {
	req, err := http.NewRequest(http.MethodGet, s.baseURL+"/payment_intents/"+intentID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build payment request: %w", err)
	}
	req.SetBasicAuth(s.cfg.SecretKey, "")

	return s.doIntentRequest(req)
}

func (s *PaymentService) doIntentRequest(req *http.Request) (*PaymentIntent, error) {
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("payment provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read payment response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var se stripeError
		if err := json.Unmarshal(body, &se); err == nil && se.Error.Message != "" {
			return nil, fmt.Errorf("payment provider error: %s", se.Error.Message)
		}
		return nil, fmt.Errorf("payment provider returned status %d", resp.StatusCode)
	}

	var intent PaymentIntent
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, fmt.Errorf("failed to decode payment response: %w", err)
	}

	return &intent, nil
}
