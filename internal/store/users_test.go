package store

import (
	"context"
	"testing"

	"github.com/rewear/rewear/internal/db"
)

func TestUserCRUD(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user, err := CreateUser(ctx, database, "alice@example.com", "hash", "Alice", "Smith", false)
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if user.Admin || user.Banned {
		t.Error("new users start as regular members")
	}
	if user.PointsBalance != 0 {
		t.Errorf("expected zero balance, got %d", user.PointsBalance)
	}

	byEmail, err := GetUserByEmail(ctx, database, "alice@example.com")
	if err != nil || byEmail == nil || byEmail.ID != user.ID {
		t.Fatalf("GetUserByEmail: %v, %v", byEmail, err)
	}

	if err := UpdateUser(ctx, database, user.ID, "Alicia", "Smith", true); err != nil {
		t.Fatalf("UpdateUser: %v", err)
	}
	got, _ := GetUser(ctx, database, user.ID)
	if got.FirstName != "Alicia" || !got.Admin {
		t.Errorf("update not applied: %+v", got)
	}
}

func TestDeleteUserHidesFromLookups(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	user := testUser(t, database, "alice@example.com")

	if err := DeleteUser(ctx, database, user.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	byEmail, err := GetUserByEmail(ctx, database, "alice@example.com")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if byEmail != nil {
		t.Error("deleted user should not resolve by email")
	}

	users, _ := ListUsers(ctx, database)
	for _, u := range users {
		if u.ID == user.ID {
			t.Error("deleted user listed")
		}
	}
}

func TestEmailReusableAfterDelete(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	first := testUser(t, database, "alice@example.com")
	if err := DeleteUser(ctx, database, first.ID); err != nil {
		t.Fatalf("DeleteUser: %v", err)
	}

	// The unique index only covers live rows.
	second, err := CreateUser(ctx, database, "alice@example.com", "hash", "Alice", "", false)
	if err != nil {
		t.Fatalf("CreateUser after delete: %v", err)
	}
	if second.ID == first.ID {
		t.Error("expected a fresh user row")
	}
}
