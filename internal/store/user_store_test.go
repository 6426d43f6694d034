package store

import (
	"context"
	"database/sql"
	"strings"
	"testing"
)

func TestUserStoreCreate(t *testing.T) {
	ctx := context.Background()
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "INSERT INTO users") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 6 || args[0] != "user-1" || args[1] != "chidi" {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	store := NewUserStore(stubDB{})
	err := store.Create(ctx, execer, UserInput{
		ID: "user-1", Username: "chidi", Phone: "+2348012345678",
		PasswordHash: "hash", ReferralCode: "ABCD1234",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUserStoreGetByUsername(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore(stubDB{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "WHERE username = $1") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 1 || args[0] != "chidi" {
				t.Fatalf("unexpected args: %#v", args)
			}
			row := dest.(*User)
			*row = User{ID: "user-1", Username: "chidi"}
			return nil
		},
	})
	row, err := store.GetByUsername(ctx, "chidi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.ID != "user-1" {
		t.Fatalf("unexpected row: %#v", row)
	}
}

func TestUserStoreGetByReferralCode(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore(stubDB{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "WHERE referral_code = $1") {
				t.Fatalf("unexpected query: %s", query)
			}
			row := dest.(*User)
			*row = User{ID: "user-1", ReferralCode: "ABCD1234"}
			return nil
		},
	})
	row, err := store.GetByReferralCode(ctx, "ABCD1234")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.ReferralCode != "ABCD1234" {
		t.Fatalf("unexpected row: %#v", row)
	}
}

func TestUserStoreGetForUpdateLocksRow(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore(stubDB{})
	getter := stubGetter{
		getFn: func(_ context.Context, dest any, query string, args ...any) error {
			if !strings.Contains(query, "FOR UPDATE") {
				t.Fatalf("expected row lock, got: %s", query)
			}
			row := dest.(*User)
			*row = User{ID: "user-1", BalanceKobo: 1000}
			return nil
		},
	}
	row, err := store.GetForUpdate(ctx, getter, "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.BalanceKobo != 1000 {
		t.Fatalf("unexpected row: %#v", row)
	}
}

func TestUserStoreUpdateReferralProgress(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore(stubDB{})
	execer := stubExecer{
		execFn: func(_ context.Context, query string, args ...any) (sql.Result, error) {
			if !strings.Contains(query, "referral_count = $1") {
				t.Fatalf("unexpected query: %s", query)
			}
			if len(args) != 4 || args[0] != 50 || args[1] != int64(5_000_00) || args[2] != 1 {
				t.Fatalf("unexpected args: %#v", args)
			}
			return stubResult{rows: 1}, nil
		},
	}
	if err := store.UpdateReferralProgress(ctx, execer, "user-1", 50, 5_000_00, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
