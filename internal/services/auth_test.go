package services

import (
	"context"
	"errors"
	"testing"

	types "github.com/ampolabs/batchweigh-backend/internal/domain"
	"github.com/ampolabs/batchweigh-backend/internal/pkg/apperrors"
	"github.com/ampolabs/batchweigh-backend/internal/platform/ctxutil"
)

func TestRegisterCreatesProfileWithUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	email := uniqueCode("op") + "@plant.local"
	user, err := env.auth.Register(ctx, RegisterInput{
		Email:    email,
		Password: "weighwell1",
		Name:     "Maria Souza",
		Badge:    "B-17",
		Sector:   "mixing",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	t.Cleanup(func() {
		env.db.Exec(`DELETE FROM operator_profile WHERE user_id = ?`, user.ID)
		env.db.Exec(`DELETE FROM app_user WHERE id = ?`, user.ID)
	})

	if user.Role != types.RoleOperator {
		t.Fatalf("role = %s, want operator default", user.Role)
	}

	var profile types.OperatorProfile
	if err := env.db.Where("user_id = ?", user.ID).First(&profile).Error; err != nil {
		t.Fatalf("profile not created with user: %v", err)
	}
	if profile.Badge != "B-17" || profile.Sector != "mixing" {
		t.Fatalf("profile = %+v", profile)
	}

	// Duplicate email is a conflict, and must not leave a second profile.
	if _, err := env.auth.Register(ctx, RegisterInput{
		Email: email, Password: "weighwell1", Name: "Other",
	}); !errors.Is(err, apperrors.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestLoginRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	email := uniqueCode("op") + "@plant.local"
	user, err := env.auth.Register(ctx, RegisterInput{
		Email:    email,
		Password: "weighwell1",
		Name:     "Joao Lima",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	t.Cleanup(func() {
		env.db.Exec(`DELETE FROM operator_profile WHERE user_id = ?`, user.ID)
		env.db.Exec(`DELETE FROM app_user WHERE id = ?`, user.ID)
	})

	token, logged, err := env.auth.Login(ctx, email, "weighwell1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if logged.ID != user.ID {
		t.Fatalf("logged user = %s, want %s", logged.ID, user.ID)
	}

	authedCtx, err := env.auth.ContextFromToken(ctx, token)
	if err != nil {
		t.Fatalf("context from token: %v", err)
	}
	rd := ctxutil.GetRequestData(authedCtx)
	if rd == nil || rd.UserID != user.ID || rd.Name != "Joao Lima" {
		t.Fatalf("request data = %+v", rd)
	}

	if _, _, err := env.auth.Login(ctx, email, "wrong-password"); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if _, err := env.auth.ContextFromToken(ctx, "not-a-token"); !errors.Is(err, apperrors.ErrUnauthorized) {
		t.Fatalf("expected unauthorized for garbage token, got %v", err)
	}
}
