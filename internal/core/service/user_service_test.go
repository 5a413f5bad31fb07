package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/criticdb/review-api/internal/core/domain"
	"github.com/criticdb/review-api/internal/core/ports"
)

var (
	adminActor = domain.Actor{Username: "root", Role: domain.RoleAdmin, Authenticated: true}
	userActor  = domain.Actor{Username: "alice", Role: domain.RoleUser, Authenticated: true}
	modActor   = domain.Actor{Username: "mia", Role: domain.RoleModerator, Authenticated: true}
	anonActor  = domain.Anonymous()
)

func newUserService(repo *stubUserRepo) *UserService {
	return NewUserService(repo, fixedClock{t: testNow}, zerolog.Nop())
}

func seedUser(t *testing.T, repo *stubUserRepo, username string, role domain.Role) *domain.User {
	t.Helper()
	u, err := repo.Create(context.Background(), &domain.User{
		Username: username,
		Email:    username + "@example.com",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("seed %s: %v", username, err)
	}
	return u
}

func TestUserService_AdminOnly(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserService(repo)
	ctx := context.Background()

	for _, actor := range []domain.Actor{anonActor, userActor, modActor} {
		if _, _, err := svc.List(ctx, actor, ports.UserFilter{}); !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("List as %q: expected ErrForbidden, got %v", actor.Username, err)
		}
		if _, err := svc.Get(ctx, actor, "someone"); !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("Get as %q: expected ErrForbidden, got %v", actor.Username, err)
		}
		if err := svc.Delete(ctx, actor, "someone"); !errors.Is(err, domain.ErrForbidden) {
			t.Errorf("Delete as %q: expected ErrForbidden, got %v", actor.Username, err)
		}
	}
}

func TestUserService_Create(t *testing.T) {
	repo := newStubUserRepo()
	svc := newUserService(repo)
	ctx := context.Background()

	user, err := svc.Create(ctx, adminActor, ports.CreateUserInput{
		Username: "bob",
		Email:    "bob@example.com",
	})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("empty role must default to user, got %s", user.Role)
	}

	if _, err := svc.Create(ctx, adminActor, ports.CreateUserInput{
		Username: "carol",
		Email:    "carol@example.com",
		Role:     "wizard",
	}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for unknown role, got %v", err)
	}

	if _, err := svc.Create(ctx, adminActor, ports.CreateUserInput{
		Username: "me",
		Email:    "me@example.com",
	}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error for reserved username, got %v", err)
	}
}

func TestUserService_Update_RoleMutable(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "bob", domain.RoleUser)
	svc := newUserService(repo)

	role := domain.RoleModerator
	updated, err := svc.Update(context.Background(), adminActor, "bob", ports.UserPatch{Role: &role})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Role != domain.RoleModerator {
		t.Fatalf("admin update must apply role, got %s", updated.Role)
	}
}

func TestUserService_Me(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "alice", domain.RoleUser)
	svc := newUserService(repo)
	ctx := context.Background()

	me, err := svc.Me(ctx, userActor)
	if err != nil {
		t.Fatalf("Me returned error: %v", err)
	}
	if me.Username != "alice" {
		t.Fatalf("unexpected profile: %s", me.Username)
	}

	if _, err := svc.Me(ctx, anonActor); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("anonymous Me must fail with ErrInvalidToken, got %v", err)
	}
}

func TestUserService_UpdateMe_RoleIgnored(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "alice", domain.RoleUser)
	svc := newUserService(repo)

	bio := "casual reviewer"
	role := domain.RoleAdmin
	updated, err := svc.UpdateMe(context.Background(), userActor, ports.UserPatch{Bio: &bio, Role: &role})
	if err != nil {
		t.Fatalf("UpdateMe returned error: %v", err)
	}
	if updated.Bio != bio {
		t.Fatalf("bio not applied: %q", updated.Bio)
	}
	if updated.Role != domain.RoleUser {
		t.Fatalf("self-service must never change role, got %s", updated.Role)
	}
}

func TestUserService_UpdateMe_EmptyEmailRejected(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "alice", domain.RoleUser)
	svc := newUserService(repo)

	empty := ""
	if _, err := svc.UpdateMe(context.Background(), userActor, ports.UserPatch{Email: &empty}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUserService_List_Search(t *testing.T) {
	repo := newStubUserRepo()
	seedUser(t, repo, "alice", domain.RoleUser)
	seedUser(t, repo, "alfred", domain.RoleUser)
	seedUser(t, repo, "bob", domain.RoleUser)
	svc := newUserService(repo)

	users, total, err := svc.List(context.Background(), adminActor, ports.UserFilter{Search: "al"})
	if err != nil {
		t.Fatalf("List returned error: %v", err)
	}
	if total != 2 || len(users) != 2 {
		t.Fatalf("expected 2 matches, got %d", total)
	}
}
