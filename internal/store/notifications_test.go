package store

import (
	"context"
	"errors"
	"testing"

	"github.com/rewear/rewear/internal/db"
	"github.com/rewear/rewear/internal/model"
)

func TestNotificationReadFlow(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := testUser(t, database, "alice@example.com")

	for _, title := range []string{"first", "second", "third"} {
		err := CreateNotification(ctx, database, model.Notification{
			UserID: alice.ID, Type: model.NotifySwapProposed, Title: title, Message: "m",
		})
		if err != nil {
			t.Fatalf("CreateNotification: %v", err)
		}
	}

	unread, _ := ListNotifications(ctx, database, alice.ID, true)
	if len(unread) != 3 {
		t.Fatalf("expected 3 unread, got %d", len(unread))
	}

	if err := MarkNotificationRead(ctx, database, alice.ID, unread[0].ID); err != nil {
		t.Fatalf("MarkNotificationRead: %v", err)
	}
	unread, _ = ListNotifications(ctx, database, alice.ID, true)
	if len(unread) != 2 {
		t.Errorf("expected 2 unread, got %d", len(unread))
	}

	if err := MarkAllNotificationsRead(ctx, database, alice.ID); err != nil {
		t.Fatalf("MarkAllNotificationsRead: %v", err)
	}
	unread, _ = ListNotifications(ctx, database, alice.ID, true)
	if len(unread) != 0 {
		t.Errorf("expected no unread, got %d", len(unread))
	}

	all, _ := ListNotifications(ctx, database, alice.ID, false)
	if len(all) != 3 {
		t.Errorf("expected 3 notifications total, got %d", len(all))
	}
}

func TestMarkReadForeignNotification(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	alice := testUser(t, database, "alice@example.com")
	bob := testUser(t, database, "bob@example.com")

	CreateNotification(ctx, database, model.Notification{
		UserID: alice.ID, Type: model.NotifySwapProposed, Title: "t", Message: "m",
	})
	notifications, _ := ListNotifications(ctx, database, alice.ID, false)

	// Bob cannot mark Alice's notification as read.
	err := MarkNotificationRead(ctx, database, bob.ID, notifications[0].ID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
