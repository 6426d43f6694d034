// Package otp issues and verifies the one-time codes that gate registration.
// Codes are delivered over Telegram to the chat a phone number was bound to.
package otp

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"fmt"
	"math/big"
	"time"

	"go.uber.org/zap"
)

var (
	ErrChannelNotLinked = errors.New("phone has no linked telegram chat")
	ErrDeliveryFailed   = errors.New("failed to deliver code")
)

const sendTimeout = 5 * time.Second

type Store interface {
	ChatID(ctx context.Context, phone string) (int64, error)
	SaveCode(ctx context.Context, phone, code string, expiresAt time.Time) (int64, error)
	Consume(ctx context.Context, phone, code string) (int64, error)
}

type Sender interface {
	SendCode(ctx context.Context, chatID int64, code string) error
}

type Service struct {
	store  Store
	sender Sender
	ttl    time.Duration
	log    *zap.SugaredLogger
}

func NewService(store Store, sender Sender, ttl time.Duration, log *zap.SugaredLogger) *Service {
	return &Service{
		store:  store,
		sender: sender,
		ttl:    ttl,
		log:    log,
	}
}

// Issue generates a fresh six-digit code for the phone and sends it to the
// bound chat. Re-issuing overwrites the previous code, so only the latest one
// verifies. Delivery is timeout-bound and happens before any wallet state is
// touched.
func (s *Service) Issue(ctx context.Context, phone string) error {
	chatID, err := s.store.ChatID(ctx, phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrChannelNotLinked
		}
		return err
	}
	code, err := generateCode()
	if err != nil {
		return err
	}
	rows, err := s.store.SaveCode(ctx, phone, code, time.Now().Add(s.ttl))
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrChannelNotLinked
	}
	sendCtx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()
	if err := s.sender.SendCode(sendCtx, chatID, code); err != nil {
		s.log.Errorw("otp delivery failed", "phone", phone, "error", err)
		return ErrDeliveryFailed
	}
	return nil
}

// Verify consumes the code. A matching, unexpired code verifies exactly once;
// everything else returns false.
func (s *Service) Verify(ctx context.Context, phone, code string) (bool, error) {
	rows, err := s.store.Consume(ctx, phone, code)
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
