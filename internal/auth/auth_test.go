package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/fitlife/backend/internal/apierror"
	"github.com/fitlife/backend/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*gorm.DB, *Sessions, *miniredis.Miniredis) {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&model.AppSetting{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	mr := miniredis.RunT(t)
	sessions, err := NewSessions(context.Background(), "redis://"+mr.Addr())
	if err != nil {
		t.Fatalf("failed to connect to redis: %v", err)
	}
	return db, sessions, mr
}

func wantKind(t *testing.T, err error, kind apierror.Kind) {
	t.Helper()
	var ae *apierror.Error
	if !errors.As(err, &ae) {
		t.Fatalf("expected api error, got %v", err)
	}
	if ae.Kind != kind {
		t.Fatalf("expected error kind %v, got %v (%s)", kind, ae.Kind, ae.Message)
	}
}

func TestEnsureDefaultPassword(t *testing.T) {
	db, sessions, _ := setup(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := EnsureDefaultPassword(db); err != nil {
			t.Fatalf("seed run %d: %v", i, err)
		}
	}
	var n int64
	db.Model(&model.AppSetting{}).Count(&n)
	if n != 1 {
		t.Fatalf("expected one setting row, got %d", n)
	}

	token, err := VerifyPassword(ctx, db, sessions, "fitlife2025")
	if err != nil {
		t.Fatal(err)
	}
	if token == "" {
		t.Fatal("expected a session token")
	}
}

func TestVerifyPassword(t *testing.T) {
	db, sessions, _ := setup(t)
	ctx := context.Background()

	_, err := VerifyPassword(ctx, db, sessions, "anything")
	wantKind(t, err, apierror.KindNotFound)

	if err := EnsureDefaultPassword(db); err != nil {
		t.Fatal(err)
	}

	_, err = VerifyPassword(ctx, db, sessions, "")
	wantKind(t, err, apierror.KindValidation)
	_, err = VerifyPassword(ctx, db, sessions, "wrong")
	wantKind(t, err, apierror.KindValidation)

	token, err := VerifyPassword(ctx, db, sessions, "fitlife2025")
	if err != nil {
		t.Fatal(err)
	}
	ok, err := sessions.Valid(ctx, token)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Error("issued token should be valid")
	}

	ok, _ = sessions.Valid(ctx, "bogus")
	if ok {
		t.Error("unknown token should not be valid")
	}
	ok, _ = sessions.Valid(ctx, "")
	if ok {
		t.Error("empty token should not be valid")
	}
}

func TestSessionExpiry(t *testing.T) {
	_, sessions, mr := setup(t)
	ctx := context.Background()

	token, err := sessions.Issue(ctx)
	if err != nil {
		t.Fatal(err)
	}

	mr.FastForward(sessionTTL / 2)
	ok, _ := sessions.Valid(ctx, token)
	if !ok {
		t.Error("token should still be valid before the TTL")
	}

	mr.FastForward(sessionTTL)
	ok, _ = sessions.Valid(ctx, token)
	if ok {
		t.Error("token should expire after the TTL")
	}
}

func TestChangePassword(t *testing.T) {
	db, sessions, _ := setup(t)
	ctx := context.Background()
	if err := EnsureDefaultPassword(db); err != nil {
		t.Fatal(err)
	}

	wantKind(t, ChangePassword(ctx, db, sessions, "bogus", "newpassword"), apierror.KindValidation)

	token, err := VerifyPassword(ctx, db, sessions, "fitlife2025")
	if err != nil {
		t.Fatal(err)
	}

	wantKind(t, ChangePassword(ctx, db, sessions, token, "short"), apierror.KindValidation)

	if err := ChangePassword(ctx, db, sessions, token, "newpassword"); err != nil {
		t.Fatal(err)
	}
	if _, err := VerifyPassword(ctx, db, sessions, "fitlife2025"); err == nil {
		t.Error("old password should no longer verify")
	}
	if _, err := VerifyPassword(ctx, db, sessions, "newpassword"); err != nil {
		t.Errorf("new password should verify: %v", err)
	}
}
