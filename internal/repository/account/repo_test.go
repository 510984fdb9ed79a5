package account

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/siaa-cloud/siaa/internal/db/sqlite"
	"github.com/siaa-cloud/siaa/internal/domain"
)

func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	conn, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return New(conn)
}

func seekerAccount(email string) domain.Account {
	return domain.Account{
		Type:         domain.AccountSeeker,
		Email:        email,
		PasswordHash: "deadbeef",
		FirstName:    "Amina",
		LastName:     "Hassan",
		Phone:        "+252611234567",
	}
}

func TestCreateAndGet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	a := seekerAccount("amina@example.com")
	if err := repo.Create(ctx, &a); err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.ID == 0 {
		t.Fatal("expected assigned ID")
	}
	if a.CreatedAt == 0 {
		t.Fatal("expected CreatedAt to be set")
	}

	got, err := repo.GetByEmail(ctx, "amina@example.com")
	if err != nil {
		t.Fatalf("get by email: %v", err)
	}
	if got.ID != a.ID || got.Type != domain.AccountSeeker || got.FirstName != "Amina" {
		t.Fatalf("unexpected account: %+v", got)
	}

	byID, err := repo.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if byID.Email != a.Email {
		t.Fatalf("unexpected account by id: %+v", byID)
	}
}

func TestCreate_DuplicateEmail(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	first := seekerAccount("dup@example.com")
	if err := repo.Create(ctx, &first); err != nil {
		t.Fatalf("create: %v", err)
	}

	second := seekerAccount("dup@example.com")
	if err := repo.Create(ctx, &second); !errors.Is(err, domain.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if _, err := repo.GetByEmail(ctx, "nobody@example.com"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.GetByID(ctx, 42); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCreate_ProviderFields(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	p := domain.Account{
		Type:         domain.AccountProvider,
		Email:        "warehouse@example.com",
		PasswordHash: "cafe",
		FirstName:    "Omar",
		BusinessName: "Al-Salama Storage",
	}
	if err := repo.Create(ctx, &p); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Type != domain.AccountProvider || got.BusinessName != "Al-Salama Storage" {
		t.Fatalf("unexpected provider account: %+v", got)
	}
}
