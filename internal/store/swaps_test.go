package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/rewear/rewear/internal/db"
	"github.com/rewear/rewear/internal/model"
)

func testUser(t *testing.T, database *sql.DB, email string) *model.User {
	t.Helper()
	user, err := CreateUser(context.Background(), database, email, "hash", "Test", "User", false)
	if err != nil {
		t.Fatalf("CreateUser(%s): %v", email, err)
	}
	return user
}

func testItem(t *testing.T, database *sql.DB, ownerID int64, title string, points int64) *model.Item {
	t.Helper()
	ctx := context.Background()
	item, err := CreateItem(ctx, database, ownerID, 1, title, "", "M", model.ConditionGood, model.TypeTop, points, false)
	if err != nil {
		t.Fatalf("CreateItem(%s): %v", title, err)
	}
	// Listings start unapproved; put them straight on the market for tests.
	if _, err := database.Exec(`UPDATE items SET approved = 1 WHERE id = ?`, item.ID); err != nil {
		t.Fatalf("approving item: %v", err)
	}
	item.Approved = true
	return item
}

func TestSwapLifecycleComplete(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := testUser(t, database, "alice@example.com")
	bob := testUser(t, database, "bob@example.com")
	aliceItem := testItem(t, database, alice.ID, "Denim Jacket", 30)
	bobItem := testItem(t, database, bob.ID, "Wool Sweater", 25)

	// Give Alice points to sweeten the offer with.
	if err := RecordTransaction(ctx, database, alice.ID, model.PointsBonus, 50, "signup bonus", nil, nil); err != nil {
		t.Fatalf("RecordTransaction: %v", err)
	}

	swap, events, err := ProposeSwap(ctx, database, alice.ID, aliceItem.ID, bobItem.ID, 10)
	if err != nil {
		t.Fatalf("ProposeSwap: %v", err)
	}
	if swap.Status != model.SwapPending {
		t.Errorf("expected PENDING, got %s", swap.Status)
	}
	if len(events) != 1 || events[0].UserID != bob.ID {
		t.Errorf("expected one notification for recipient, got %v", events)
	}

	if _, _, err := TransitionSwap(ctx, database, swap.ID, bob.ID, model.SwapAccepted); err != nil {
		t.Fatalf("accept: %v", err)
	}

	swap, events, err = TransitionSwap(ctx, database, swap.ID, alice.ID, model.SwapCompleted)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if swap.Status != model.SwapCompleted {
		t.Errorf("expected COMPLETED, got %s", swap.Status)
	}
	if len(events) != 2 {
		t.Errorf("expected notifications for both parties, got %d", len(events))
	}

	// Ownership exchanged, both items back on the market.
	got, _ := GetItem(ctx, database, aliceItem.ID)
	if got.OwnerID != bob.ID || !got.Available {
		t.Errorf("expected Bob to own item %d and it to be available, got owner %d available %v",
			aliceItem.ID, got.OwnerID, got.Available)
	}
	got, _ = GetItem(ctx, database, bobItem.ID)
	if got.OwnerID != alice.ID || !got.Available {
		t.Errorf("expected Alice to own item %d and it to be available, got owner %d available %v",
			bobItem.ID, got.OwnerID, got.Available)
	}

	// Points settled as a matched pair.
	aliceBalance, _ := UserBalance(ctx, database, alice.ID)
	if aliceBalance != 40 {
		t.Errorf("expected Alice balance 40, got %d", aliceBalance)
	}
	bobBalance, _ := UserBalance(ctx, database, bob.ID)
	if bobBalance != 10 {
		t.Errorf("expected Bob balance 10, got %d", bobBalance)
	}
}

func TestSwapAcceptReservesItems(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := testUser(t, database, "alice@example.com")
	bob := testUser(t, database, "bob@example.com")
	aliceItem := testItem(t, database, alice.ID, "Jacket", 0)
	bobItem := testItem(t, database, bob.ID, "Sweater", 0)

	swap, _, err := ProposeSwap(ctx, database, alice.ID, aliceItem.ID, bobItem.ID, 0)
	if err != nil {
		t.Fatalf("ProposeSwap: %v", err)
	}

	if _, _, err := TransitionSwap(ctx, database, swap.ID, bob.ID, model.SwapAccepted); err != nil {
		t.Fatalf("accept: %v", err)
	}

	for _, id := range []int64{aliceItem.ID, bobItem.ID} {
		item, _ := GetItem(ctx, database, id)
		if item.Available {
			t.Errorf("expected item %d to be reserved", id)
		}
	}
}

func TestSwapRejectLeavesItemsAvailable(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := testUser(t, database, "alice@example.com")
	bob := testUser(t, database, "bob@example.com")
	aliceItem := testItem(t, database, alice.ID, "Jacket", 0)
	bobItem := testItem(t, database, bob.ID, "Sweater", 0)

	swap, _, err := ProposeSwap(ctx, database, alice.ID, aliceItem.ID, bobItem.ID, 0)
	if err != nil {
		t.Fatalf("ProposeSwap: %v", err)
	}

	updated, events, err := TransitionSwap(ctx, database, swap.ID, bob.ID, model.SwapRejected)
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if updated.Status != model.SwapRejected {
		t.Errorf("expected REJECTED, got %s", updated.Status)
	}
	if len(events) != 1 || events[0].UserID != alice.ID {
		t.Errorf("expected rejection notification for initiator, got %v", events)
	}

	item, _ := GetItem(ctx, database, aliceItem.ID)
	if !item.Available {
		t.Error("rejecting a proposal must not reserve items")
	}
}

func TestSwapCancelFromAcceptedReleasesItems(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := testUser(t, database, "alice@example.com")
	bob := testUser(t, database, "bob@example.com")
	aliceItem := testItem(t, database, alice.ID, "Jacket", 0)
	bobItem := testItem(t, database, bob.ID, "Sweater", 0)

	swap, _, _ := ProposeSwap(ctx, database, alice.ID, aliceItem.ID, bobItem.ID, 0)
	if _, _, err := TransitionSwap(ctx, database, swap.ID, bob.ID, model.SwapAccepted); err != nil {
		t.Fatalf("accept: %v", err)
	}

	if _, _, err := TransitionSwap(ctx, database, swap.ID, alice.ID, model.SwapCancelled); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	for _, id := range []int64{aliceItem.ID, bobItem.ID} {
		item, _ := GetItem(ctx, database, id)
		if !item.Available {
			t.Errorf("expected item %d to be released after cancellation", id)
		}
	}
}

func TestSwapTerminalStateRejectsTransitions(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := testUser(t, database, "alice@example.com")
	bob := testUser(t, database, "bob@example.com")
	aliceItem := testItem(t, database, alice.ID, "Jacket", 0)
	bobItem := testItem(t, database, bob.ID, "Sweater", 0)

	swap, _, _ := ProposeSwap(ctx, database, alice.ID, aliceItem.ID, bobItem.ID, 0)
	TransitionSwap(ctx, database, swap.ID, bob.ID, model.SwapRejected)

	_, _, err := TransitionSwap(ctx, database, swap.ID, alice.ID, model.SwapCancelled)
	if !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
}

func TestSwapRoleRules(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := testUser(t, database, "alice@example.com")
	bob := testUser(t, database, "bob@example.com")
	carol := testUser(t, database, "carol@example.com")
	aliceItem := testItem(t, database, alice.ID, "Jacket", 0)
	bobItem := testItem(t, database, bob.ID, "Sweater", 0)

	swap, _, _ := ProposeSwap(ctx, database, alice.ID, aliceItem.ID, bobItem.ID, 0)

	// Initiator cannot answer their own proposal.
	if _, _, err := TransitionSwap(ctx, database, swap.ID, alice.ID, model.SwapAccepted); !errors.Is(err, ErrForbidden) {
		t.Errorf("initiator accept: expected ErrForbidden, got %v", err)
	}

	// Third parties cannot touch the swap at all.
	if _, _, err := TransitionSwap(ctx, database, swap.ID, carol.ID, model.SwapCancelled); !errors.Is(err, ErrForbidden) {
		t.Errorf("stranger cancel: expected ErrForbidden, got %v", err)
	}

	TransitionSwap(ctx, database, swap.ID, bob.ID, model.SwapAccepted)

	// Only the initiator confirms completion.
	if _, _, err := TransitionSwap(ctx, database, swap.ID, bob.ID, model.SwapCompleted); !errors.Is(err, ErrForbidden) {
		t.Errorf("recipient complete: expected ErrForbidden, got %v", err)
	}
}

func TestSwapDuplicateProposal(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := testUser(t, database, "alice@example.com")
	bob := testUser(t, database, "bob@example.com")
	aliceItem := testItem(t, database, alice.ID, "Jacket", 0)
	bobItem := testItem(t, database, bob.ID, "Sweater", 0)

	if _, _, err := ProposeSwap(ctx, database, alice.ID, aliceItem.ID, bobItem.ID, 0); err != nil {
		t.Fatalf("ProposeSwap: %v", err)
	}
	_, _, err := ProposeSwap(ctx, database, alice.ID, aliceItem.ID, bobItem.ID, 0)
	if !errors.Is(err, ErrDuplicateRequest) {
		t.Errorf("expected ErrDuplicateRequest, got %v", err)
	}
}

func TestSwapItemAlreadyInOpenSwap(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := testUser(t, database, "alice@example.com")
	bob := testUser(t, database, "bob@example.com")
	carol := testUser(t, database, "carol@example.com")
	aliceItem := testItem(t, database, alice.ID, "Jacket", 0)
	bobItem := testItem(t, database, bob.ID, "Sweater", 0)
	carolItem := testItem(t, database, carol.ID, "Scarf", 0)

	if _, _, err := ProposeSwap(ctx, database, alice.ID, aliceItem.ID, bobItem.ID, 0); err != nil {
		t.Fatalf("ProposeSwap: %v", err)
	}

	_, _, err := ProposeSwap(ctx, database, carol.ID, carolItem.ID, bobItem.ID, 0)
	if !errors.Is(err, ErrConflict) {
		t.Errorf("expected ErrConflict, got %v", err)
	}
}

func TestSwapSelfRejected(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := testUser(t, database, "alice@example.com")
	item1 := testItem(t, database, alice.ID, "Jacket", 0)
	item2 := testItem(t, database, alice.ID, "Sweater", 0)

	_, _, err := ProposeSwap(ctx, database, alice.ID, item1.ID, item2.ID, 0)
	if !errors.Is(err, ErrSelfSwap) {
		t.Errorf("expected ErrSelfSwap, got %v", err)
	}
}

func TestSwapUnapprovedItemRejected(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := testUser(t, database, "alice@example.com")
	bob := testUser(t, database, "bob@example.com")
	aliceItem := testItem(t, database, alice.ID, "Jacket", 0)

	// Still waiting on moderation.
	pending, err := CreateItem(ctx, database, bob.ID, 1, "Sweater", "", "M", model.ConditionGood, model.TypeTop, 0, false)
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	_, _, err = ProposeSwap(ctx, database, alice.ID, aliceItem.ID, pending.ID, 0)
	if !errors.Is(err, ErrInvalidItem) {
		t.Errorf("expected ErrInvalidItem, got %v", err)
	}
}

func TestListSwapsForUser(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := testUser(t, database, "alice@example.com")
	bob := testUser(t, database, "bob@example.com")
	carol := testUser(t, database, "carol@example.com")
	aliceItem := testItem(t, database, alice.ID, "Jacket", 0)
	bobItem := testItem(t, database, bob.ID, "Sweater", 0)
	carolItem := testItem(t, database, carol.ID, "Scarf", 0)

	swap1, _, _ := ProposeSwap(ctx, database, alice.ID, aliceItem.ID, bobItem.ID, 0)
	TransitionSwap(ctx, database, swap1.ID, bob.ID, model.SwapRejected)
	ProposeSwap(ctx, database, carol.ID, carolItem.ID, aliceItem.ID, 0)

	all, err := ListSwapsForUser(ctx, database, alice.ID, "")
	if err != nil {
		t.Fatalf("ListSwapsForUser: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 swaps for Alice, got %d", len(all))
	}

	pending, _ := ListSwapsForUser(ctx, database, alice.ID, model.SwapPending)
	if len(pending) != 1 {
		t.Errorf("expected 1 pending swap for Alice, got %d", len(pending))
	}

	none, _ := ListSwapsForUser(ctx, database, bob.ID, model.SwapCompleted)
	if len(none) != 0 {
		t.Errorf("expected no completed swaps for Bob, got %d", len(none))
	}
}
