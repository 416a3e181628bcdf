package store

import (
	"context"
	"errors"
	"testing"

	"github.com/rewear/rewear/internal/db"
	"github.com/rewear/rewear/internal/model"
)

func TestRecordTransactionInvalidInput(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := testUser(t, database, "alice@example.com")

	cases := []struct {
		name   string
		kind   string
		amount int64
	}{
		{"zero amount", model.PointsEarned, 0},
		{"negative amount", model.PointsEarned, -5},
		{"unknown kind", "LOYALTY", 10},
	}
	for _, tc := range cases {
		err := RecordTransaction(ctx, database, alice.ID, tc.kind, tc.amount, "", nil, nil)
		if !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("%s: expected ErrInvalidAmount, got %v", tc.name, err)
		}
	}
}

func TestRecordTransactionUpdatesBalance(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := testUser(t, database, "alice@example.com")

	RecordTransaction(ctx, database, alice.ID, model.PointsBonus, 100, "signup bonus", nil, nil)
	RecordTransaction(ctx, database, alice.ID, model.PointsSpent, 30, "redemption", nil, nil)
	RecordTransaction(ctx, database, alice.ID, model.PointsRefunded, 5, "refund", nil, nil)

	balance, err := UserBalance(ctx, database, alice.ID)
	if err != nil {
		t.Fatalf("UserBalance: %v", err)
	}
	if balance != 75 {
		t.Errorf("expected balance 75, got %d", balance)
	}
}

func TestCachedBalanceMatchesLedger(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := testUser(t, database, "alice@example.com")
	bob := testUser(t, database, "bob@example.com")
	item := testItem(t, database, bob.ID, "Sweater", 20)

	RecordTransaction(ctx, database, alice.ID, model.PointsBonus, 50, "signup bonus", nil, nil)
	if _, err := RedeemItem(ctx, database, alice.ID, item.ID); err != nil {
		t.Fatalf("RedeemItem: %v", err)
	}

	for _, userID := range []int64{alice.ID, bob.ID} {
		cached, err := UserBalance(ctx, database, userID)
		if err != nil {
			t.Fatalf("UserBalance(%d): %v", userID, err)
		}
		replayed, err := LedgerBalance(ctx, database, userID)
		if err != nil {
			t.Fatalf("LedgerBalance(%d): %v", userID, err)
		}
		if cached != replayed {
			t.Errorf("user %d: cached balance %d disagrees with ledger %d", userID, cached, replayed)
		}
	}
}

func TestRedeemBoundary(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := testUser(t, database, "alice@example.com")
	bob := testUser(t, database, "bob@example.com")

	// One point short.
	short := testItem(t, database, bob.ID, "Sweater", 20)
	RecordTransaction(ctx, database, alice.ID, model.PointsBonus, 19, "", nil, nil)
	_, err := RedeemItem(ctx, database, alice.ID, short.ID)
	if !errors.Is(err, ErrInsufficientPoints) {
		t.Errorf("expected ErrInsufficientPoints, got %v", err)
	}

	// Exactly enough.
	RecordTransaction(ctx, database, alice.ID, model.PointsEarned, 1, "", nil, nil)
	events, err := RedeemItem(ctx, database, alice.ID, short.ID)
	if err != nil {
		t.Fatalf("RedeemItem: %v", err)
	}
	if len(events) != 1 || events[0].UserID != bob.ID {
		t.Errorf("expected redemption notification for owner, got %v", events)
	}

	balance, _ := UserBalance(ctx, database, alice.ID)
	if balance != 0 {
		t.Errorf("expected balance 0 after redemption, got %d", balance)
	}

	item, _ := GetItem(ctx, database, short.ID)
	if item.Available {
		t.Error("redeemed item must be off the market")
	}
}

func TestRedeemOwnItemRejected(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := testUser(t, database, "alice@example.com")
	item := testItem(t, database, alice.ID, "Jacket", 10)
	RecordTransaction(ctx, database, alice.ID, model.PointsBonus, 100, "", nil, nil)

	_, err := RedeemItem(ctx, database, alice.ID, item.ID)
	if !errors.Is(err, ErrSelfRedemption) {
		t.Errorf("expected ErrSelfRedemption, got %v", err)
	}
}

func TestRedeemTwiceRejected(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := testUser(t, database, "alice@example.com")
	bob := testUser(t, database, "bob@example.com")
	carol := testUser(t, database, "carol@example.com")
	item := testItem(t, database, alice.ID, "Jacket", 10)

	RecordTransaction(ctx, database, bob.ID, model.PointsBonus, 50, "", nil, nil)
	RecordTransaction(ctx, database, carol.ID, model.PointsBonus, 50, "", nil, nil)

	if _, err := RedeemItem(ctx, database, bob.ID, item.ID); err != nil {
		t.Fatalf("first redemption: %v", err)
	}
	_, err := RedeemItem(ctx, database, carol.ID, item.ID)
	if !errors.Is(err, ErrInvalidItem) {
		t.Errorf("expected ErrInvalidItem for unavailable item, got %v", err)
	}
}

func TestRedeemFreeItemSkipsLedger(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := testUser(t, database, "alice@example.com")
	bob := testUser(t, database, "bob@example.com")
	item := testItem(t, database, alice.ID, "Scarf", 0)

	if _, err := RedeemItem(ctx, database, bob.ID, item.ID); err != nil {
		t.Fatalf("RedeemItem: %v", err)
	}

	txs, _ := ListTransactions(ctx, database, bob.ID)
	if len(txs) != 0 {
		t.Errorf("expected no ledger entries for a free item, got %d", len(txs))
	}
}

func TestListTransactionsNewestFirst(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := testUser(t, database, "alice@example.com")
	RecordTransaction(ctx, database, alice.ID, model.PointsBonus, 10, "first", nil, nil)
	RecordTransaction(ctx, database, alice.ID, model.PointsEarned, 20, "second", nil, nil)

	txs, err := ListTransactions(ctx, database, alice.ID)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txs))
	}
	if txs[0].Description != "second" {
		t.Errorf("expected newest transaction first, got %q", txs[0].Description)
	}
}
