package otp

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ataullahmesbah/sooqra-one-sub003/pkg/config"
	pkgerrors "github.com/ataullahmesbah/sooqra-one-sub003/pkg/errors"
)

type stubCodeStore struct {
	codes    map[string]string
	counters map[string]int64
}

func newStubCodeStore() *stubCodeStore {
	return &stubCodeStore{
		codes:    make(map[string]string),
		counters: make(map[string]int64),
	}
}

func (s *stubCodeStore) StoreOTP(_ context.Context, phone, code string, _ time.Duration) error {
	s.codes[phone] = code
	return nil
}

func (s *stubCodeStore) GetOTP(_ context.Context, phone string) (string, error) {
	code, ok := s.codes[phone]
	if !ok {
		return "", redis.Nil
	}
	return code, nil
}

func (s *stubCodeStore) ConsumeOTP(_ context.Context, phone string) error {
	delete(s.codes, phone)
	return nil
}

func (s *stubCodeStore) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	s.counters[key]++
	return s.counters[key], nil
}

func (s *stubCodeStore) OTPRequestKey(phone string) string {
	return "sooqra:otp:requests:" + phone
}

type recordingSender struct {
	messages []string
	phones   []string
}

func (r *recordingSender) Send(_ context.Context, phone, message string) error {
	r.phones = append(r.phones, phone)
	r.messages = append(r.messages, message)
	return nil
}

type stubVerifier struct {
	verified []string
}

func (v *stubVerifier) MarkPhoneVerified(_ context.Context, phone string) error {
	v.verified = append(v.verified, phone)
	return nil
}

func testOTPConfig() config.OTPConfig {
	return config.OTPConfig{
		CodeTTL:           5 * time.Minute,
		RequestWindow:     15 * time.Minute,
		RequestsPerWindow: 3,
	}
}

func newTestOTPService(t *testing.T, store CodeStore, sender Sender, verifier PhoneVerifier) Service {
	t.Helper()
	svc, err := NewService(store, sender, verifier, testOTPConfig(), nil)
	require.NoError(t, err)
	return svc
}

func TestRequestCode_storesAndSends(t *testing.T) {
	store := newStubCodeStore()
	sender := &recordingSender{}
	svc := newTestOTPService(t, store, sender, &stubVerifier{})

	require.NoError(t, svc.RequestCode(context.Background(), RequestInput{Phone: "01712345678"}))

	code, ok := store.codes["01712345678"]
	require.True(t, ok)
	assert.Len(t, code, 6)
	require.Len(t, sender.messages, 1)
	assert.Contains(t, sender.messages[0], code)
	assert.Equal(t, "01712345678", sender.phones[0])
}

func TestRequestCode_throttledPerPhone(t *testing.T) {
	store := newStubCodeStore()
	sender := &recordingSender{}
	svc := newTestOTPService(t, store, sender, &stubVerifier{})

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.RequestCode(context.Background(), RequestInput{Phone: "01712345678"}))
	}

	err := svc.RequestCode(context.Background(), RequestInput{Phone: "01712345678"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeRateLimit, pkgerrors.As(err).Code())
	assert.Len(t, sender.messages, 3)

	// A different phone is not affected.
	require.NoError(t, svc.RequestCode(context.Background(), RequestInput{Phone: "01898765432"}))
}

func TestVerifyCode_consumesAndMarksVerified(t *testing.T) {
	store := newStubCodeStore()
	verifier := &stubVerifier{}
	svc := newTestOTPService(t, store, &recordingSender{}, verifier)

	store.codes["01712345678"] = "123456"

	require.NoError(t, svc.VerifyCode(context.Background(), VerifyInput{Phone: "01712345678", Code: "123456"}))
	assert.Equal(t, []string{"01712345678"}, verifier.verified)

	// Consumed: a replay of the same code fails.
	err := svc.VerifyCode(context.Background(), VerifyInput{Phone: "01712345678", Code: "123456"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestVerifyCode_wrongCode(t *testing.T) {
	store := newStubCodeStore()
	verifier := &stubVerifier{}
	svc := newTestOTPService(t, store, &recordingSender{}, verifier)

	store.codes["01712345678"] = "123456"

	err := svc.VerifyCode(context.Background(), VerifyInput{Phone: "01712345678", Code: "654321"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
	assert.Empty(t, verifier.verified)

	// The code survives a wrong guess.
	assert.Equal(t, "123456", store.codes["01712345678"])
}

func TestVerifyCode_missingCode(t *testing.T) {
	svc := newTestOTPService(t, newStubCodeStore(), &recordingSender{}, &stubVerifier{})

	err := svc.VerifyCode(context.Background(), VerifyInput{Phone: "01712345678", Code: "123456"})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}
