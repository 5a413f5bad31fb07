package permission

import (
	"testing"

	"github.com/criticdb/review-api/internal/core/domain"
)

var (
	anon      = domain.Anonymous()
	plainUser = domain.Actor{Username: "alice", Role: domain.RoleUser, Authenticated: true}
	moderator = domain.Actor{Username: "mia", Role: domain.RoleModerator, Authenticated: true}
	admin     = domain.Actor{Username: "adam", Role: domain.RoleAdmin, Authenticated: true}
	staff     = domain.Actor{Username: "stan", Role: domain.RoleUser, Authenticated: true, Staff: true}
	superuser = domain.Actor{Username: "sue", Role: domain.RoleUser, Authenticated: true, Superuser: true}
)

func TestCatalog(t *testing.T) {
	cases := []struct {
		name   string
		actor  domain.Actor
		action Action
		want   bool
	}{
		{"anon list", anon, ActionList, true},
		{"anon retrieve", anon, ActionRetrieve, true},
		{"anon create", anon, ActionCreate, false},
		{"user list", plainUser, ActionList, true},
		{"user create", plainUser, ActionCreate, false},
		{"user delete", plainUser, ActionDelete, false},
		{"moderator create", moderator, ActionCreate, false},
		{"admin create", admin, ActionCreate, true},
		{"admin delete", admin, ActionDelete, true},
		{"staff update", staff, ActionUpdate, true},
		{"superuser delete", superuser, ActionDelete, true},
	}
	for _, tc := range cases {
		if got := Catalog(tc.actor, tc.action); got != tc.want {
			t.Errorf("%s: Catalog = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestUsers(t *testing.T) {
	cases := []struct {
		name   string
		actor  domain.Actor
		action Action
		want   bool
	}{
		{"anon list", anon, ActionList, false},
		{"user list", plainUser, ActionList, false},
		{"user retrieve", plainUser, ActionRetrieve, false},
		{"moderator list", moderator, ActionList, false},
		{"admin list", admin, ActionList, true},
		{"admin delete", admin, ActionDelete, true},
		{"staff create", staff, ActionCreate, true},
		{"superuser update", superuser, ActionUpdate, true},
	}
	for _, tc := range cases {
		if got := Users(tc.actor, tc.action); got != tc.want {
			t.Errorf("%s: Users = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestReviewCollection(t *testing.T) {
	cases := []struct {
		name   string
		actor  domain.Actor
		action Action
		want   bool
	}{
		{"anon list", anon, ActionList, true},
		{"anon retrieve", anon, ActionRetrieve, true},
		{"anon create", anon, ActionCreate, false},
		{"user create", plainUser, ActionCreate, true},
		{"moderator create", moderator, ActionCreate, true},
		{"admin create", admin, ActionCreate, true},
	}
	for _, tc := range cases {
		if got := ReviewCollection(tc.actor, tc.action); got != tc.want {
			t.Errorf("%s: ReviewCollection = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestReviewObject(t *testing.T) {
	const owner = "alice"
	cases := []struct {
		name   string
		actor  domain.Actor
		action Action
		want   bool
	}{
		{"anon retrieve", anon, ActionRetrieve, true},
		{"anon update", anon, ActionUpdate, false},
		{"anon delete", anon, ActionDelete, false},
		{"owner update", plainUser, ActionUpdate, true},
		{"owner delete", plainUser, ActionDelete, true},
		{"stranger update", domain.Actor{Username: "bob", Role: domain.RoleUser, Authenticated: true}, ActionUpdate, false},
		{"stranger delete", domain.Actor{Username: "bob", Role: domain.RoleUser, Authenticated: true}, ActionDelete, false},
		{"moderator update", moderator, ActionUpdate, true},
		{"moderator delete", moderator, ActionDelete, true},
		{"admin delete", admin, ActionDelete, true},
		{"staff delete", staff, ActionDelete, true},
		{"superuser delete", superuser, ActionDelete, true},
	}
	for _, tc := range cases {
		if got := ReviewObject(tc.actor, tc.action, owner); got != tc.want {
			t.Errorf("%s: ReviewObject = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestRequireRole(t *testing.T) {
	collection, object := RequireRole(domain.RoleModerator)

	if !collection(moderator, ActionCreate) {
		t.Fatalf("expected moderator to pass the collection phase")
	}
	if collection(plainUser, ActionCreate) {
		t.Fatalf("expected plain user to fail the collection phase")
	}
	if collection(admin, ActionCreate) {
		t.Fatalf("role match is exact; admin must not pass a moderator gate")
	}
	if !object(plainUser, ActionRetrieve, "x") {
		t.Fatalf("safe actions are open at the object phase")
	}
	if object(plainUser, ActionDelete, "x") {
		t.Fatalf("mutations still require the role at the object phase")
	}
}

func TestAnyAll(t *testing.T) {
	deny := func(domain.Actor, Action) bool { return false }
	grant := func(domain.Actor, Action) bool { return true }

	if !Any(deny, grant)(anon, ActionDelete) {
		t.Fatalf("Any: one grant should be enough")
	}
	if Any(deny, deny)(anon, ActionDelete) {
		t.Fatalf("Any: all-deny should deny")
	}

	odeny := func(domain.Actor, Action, string) bool { return false }
	ogrant := func(domain.Actor, Action, string) bool { return true }

	if All(ogrant, odeny)(anon, ActionDelete, "") {
		t.Fatalf("All: one deny should be enough")
	}
	if !All(ogrant, ogrant)(anon, ActionDelete, "") {
		t.Fatalf("All: all-grant should grant")
	}
}
