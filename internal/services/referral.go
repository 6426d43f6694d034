package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"datawallet/internal/db"
	"datawallet/internal/store"
)

const (
	referralMilestone = 50
	referralBonusKobo = 5_000_00
)

type ReferralUserStore interface {
	GetByReferralCode(ctx context.Context, code string) (store.User, error)
	GetForUpdate(ctx context.Context, tx store.Getter, userID string) (store.User, error)
	UpdateReferralProgress(ctx context.Context, tx store.Execer, userID string, count int, earningsKobo int64, lastMilestone int) error
}

// ReferralService counts signups per referrer and pays the milestone bonus.
// The persisted last_milestone counter makes crediting exactly-once per
// crossed multiple of 50, even if counts are replayed or updated twice.
type ReferralService struct {
	txRunner db.TxRunner
	users    ReferralUserStore
	ledger   Ledger
	log      *zap.SugaredLogger
}

func NewReferralService(txRunner db.TxRunner, users ReferralUserStore, ledger Ledger, log *zap.SugaredLogger) *ReferralService {
	return &ReferralService{
		txRunner: txRunner,
		users:    users,
		ledger:   ledger,
		log:      log,
	}
}

// RecordSignup increments the referrer's count and credits 5000 naira for
// each newly crossed milestone of 50 referrals. Count increment, bonus credit
// and milestone bump commit atomically.
func (s *ReferralService) RecordSignup(ctx context.Context, referralCode string) error {
	referrer, err := s.users.GetByReferralCode(ctx, referralCode)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		locked, err := s.users.GetForUpdate(ctx, tx, referrer.ID)
		if err != nil {
			return err
		}
		count := locked.ReferralCount + 1
		earnings := locked.ReferralEarningsKobo
		milestone := locked.LastMilestone
		for milestone < count/referralMilestone {
			milestone++
			description := fmt.Sprintf("Referral Bonus (%d referrals)", milestone*referralMilestone)
			if _, err := s.ledger.ApplyTx(ctx, tx, referrer.ID, EntryReferralBonus, referralBonusKobo, description); err != nil {
				return err
			}
			earnings += referralBonusKobo
			s.log.Infow("referral milestone credited",
				"user_id", referrer.ID, "milestone", milestone*referralMilestone)
		}
		return s.users.UpdateReferralProgress(ctx, tx, referrer.ID, count, earnings, milestone)
	})
}
