package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/rewear/rewear/internal/db"
	"github.com/rewear/rewear/internal/model"
)

func testAdmin(t *testing.T, database *sql.DB) *model.User {
	t.Helper()
	admin, err := CreateUser(context.Background(), database, "admin@example.com", "hash", "Admin", "", true)
	if err != nil {
		t.Fatalf("CreateUser(admin): %v", err)
	}
	return admin
}

func TestApproveItem(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	admin := testAdmin(t, database)
	alice := testUser(t, database, "alice@example.com")
	item, _ := CreateItem(ctx, database, alice.ID, 1, "Jacket", "", "M", model.ConditionGood, model.TypeTop, 0, true)

	events, err := ApproveItem(ctx, database, admin.ID, item.ID, "looks fine")
	if err != nil {
		t.Fatalf("ApproveItem: %v", err)
	}
	if len(events) != 1 || events[0].UserID != alice.ID || events[0].Type != model.NotifyItemApproved {
		t.Errorf("expected approval notification for owner, got %v", events)
	}

	got, _ := GetItem(ctx, database, item.ID)
	if !got.Approved || got.Flagged {
		t.Errorf("expected approved and unflagged, got approved=%v flagged=%v", got.Approved, got.Flagged)
	}

	actions, _ := ListAdminActions(ctx, database)
	if len(actions) != 1 || actions[0].ActionType != model.ActionApproveItem {
		t.Errorf("expected one APPROVE_ITEM action, got %v", actions)
	}
}

func TestRejectItemSoftDeletes(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	admin := testAdmin(t, database)
	alice := testUser(t, database, "alice@example.com")
	item, _ := CreateItem(ctx, database, alice.ID, 1, "Spam", "", "M", model.ConditionGood, model.TypeTop, 0, true)

	events, err := RejectItem(ctx, database, admin.ID, item.ID, "spam listing")
	if err != nil {
		t.Fatalf("RejectItem: %v", err)
	}
	if len(events) != 1 || events[0].Type != model.NotifyItemRejected {
		t.Errorf("expected rejection notification, got %v", events)
	}

	got, _ := GetItem(ctx, database, item.ID)
	if got == nil || got.DeletedAt == nil {
		t.Error("rejected item should be soft-deleted, not gone")
	}

	// The moderation trail still points at the item.
	actions, _ := ListAdminActions(ctx, database)
	if len(actions) != 1 || actions[0].TargetItemID == nil || *actions[0].TargetItemID != item.ID {
		t.Errorf("expected REJECT_ITEM action targeting item %d, got %v", item.ID, actions)
	}

	// Rejecting again fails: the listing is gone.
	if _, err := RejectItem(ctx, database, admin.ID, item.ID, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestBanAndUnbanUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	admin := testAdmin(t, database)
	alice := testUser(t, database, "alice@example.com")

	if err := BanUser(ctx, database, admin.ID, alice.ID, "abusive listings"); err != nil {
		t.Fatalf("BanUser: %v", err)
	}
	got, _ := GetUser(ctx, database, alice.ID)
	if !got.Banned {
		t.Error("expected user to be banned")
	}

	if err := UnbanUser(ctx, database, admin.ID, alice.ID, "appeal accepted"); err != nil {
		t.Fatalf("UnbanUser: %v", err)
	}
	got, _ = GetUser(ctx, database, alice.ID)
	if got.Banned {
		t.Error("expected ban to be lifted")
	}

	actions, _ := ListAdminActions(ctx, database)
	if len(actions) != 2 {
		t.Fatalf("expected 2 admin actions, got %d", len(actions))
	}
	if actions[0].ActionType != model.ActionUnbanUser {
		t.Errorf("expected newest action first, got %s", actions[0].ActionType)
	}
}

func TestBanMissingUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	admin := testAdmin(t, database)

	if err := BanUser(ctx, database, admin.ID, 9999, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
