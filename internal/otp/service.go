package otp

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/config"
	pkgerrors "github.com/ataullahmesbah/sooqra-one-sub003/pkg/errors"
	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/logger"
)

// CodeStore is the Redis surface the OTP flow needs: code storage with TTL
// plus a request counter for throttling.
type CodeStore interface {
	StoreOTP(ctx context.Context, phone, code string, ttl time.Duration) error
	GetOTP(ctx context.Context, phone string) (string, error)
	ConsumeOTP(ctx context.Context, phone string) error
	IncrWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
	OTPRequestKey(phone string) string
}

// Sender delivers the verification code to the customer's phone.
type Sender interface {
	Send(ctx context.Context, phone, message string) error
}

// PhoneVerifier flips the verified flag on the matching user account, if any.
type PhoneVerifier interface {
	MarkPhoneVerified(ctx context.Context, phone string) error
}

// RequestInput asks for a verification code.
type RequestInput struct {
	Phone string `json:"phone" validate:"required,len=11,numeric"`
}

// VerifyInput submits the received code.
type VerifyInput struct {
	Phone string `json:"phone" validate:"required,len=11,numeric"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

// Service drives phone number verification.
type Service interface {
	RequestCode(ctx context.Context, input RequestInput) error
	VerifyCode(ctx context.Context, input VerifyInput) error
}

type service struct {
	store    CodeStore
	sender   Sender
	verifier PhoneVerifier
	cfg      config.OTPConfig
	logg     *logger.Logger
}

// NewService constructs an OTP service instance.
func NewService(store CodeStore, sender Sender, verifier PhoneVerifier, cfg config.OTPConfig, logg *logger.Logger) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("code store required")
	}
	if sender == nil {
		return nil, fmt.Errorf("sms sender required")
	}
	if verifier == nil {
		return nil, fmt.Errorf("phone verifier required")
	}
	return &service{store: store, sender: sender, verifier: verifier, cfg: cfg, logg: logg}, nil
}

// RequestCode issues a fresh code for the phone. Requests are throttled per
// phone number so the SMS gateway cannot be used as a spam cannon.
func (s *service) RequestCode(ctx context.Context, input RequestInput) error {
	phone := strings.TrimSpace(input.Phone)

	count, err := s.store.IncrWithTTL(ctx, s.store.OTPRequestKey(phone), s.cfg.RequestWindow)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: otp request counter")
	}
	if count > int64(s.cfg.RequestsPerWindow) {
		return pkgerrors.New(pkgerrors.CodeRateLimit, "too many verification requests, try again later")
	}

	code, err := generateCode()
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate otp code")
	}
	if err := s.store.StoreOTP(ctx, phone, code, s.cfg.CodeTTL); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: store otp code")
	}

	message := fmt.Sprintf("Your Sooqra verification code is %s. It expires in %d minutes.",
		code, int(s.cfg.CodeTTL.Minutes()))
	if err := s.sender.Send(ctx, phone, message); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sms: send otp")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "phone", maskPhone(phone)), "otp code issued")
	}
	return nil
}

// VerifyCode compares and consumes the stored code, then marks the matching
// user account as phone-verified.
func (s *service) VerifyCode(ctx context.Context, input VerifyInput) error {
	phone := strings.TrimSpace(input.Phone)

	stored, err := s.store.GetOTP(ctx, phone)
	if err != nil {
		if err == redis.Nil {
			return pkgerrors.New(pkgerrors.CodeValidation, "verification code expired or never requested")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: load otp code")
	}
	if stored != strings.TrimSpace(input.Code) {
		return pkgerrors.New(pkgerrors.CodeValidation, "verification code does not match")
	}

	if err := s.store.ConsumeOTP(ctx, phone); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis: consume otp code")
	}
	if err := s.verifier.MarkPhoneVerified(ctx, phone); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: mark phone verified")
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "phone", maskPhone(phone)), "phone verified")
	}
	return nil
}

func generateCode() (string, error) {
	max := big.NewInt(1000000)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

func maskPhone(phone string) string {
	if len(phone) < 4 {
		return "****"
	}
	return strings.Repeat("*", len(phone)-4) + phone[len(phone)-4:]
}
