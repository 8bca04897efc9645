package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/nahid/user-auth-api/internal/apperror"
	"github.com/nahid/user-auth-api/internal/auth"
	"github.com/nahid/user-auth-api/internal/model"
	"github.com/nahid/user-auth-api/internal/repository"
)

// =========================================================================
// FAKES AND HELPERS
// =========================================================================

// fakeUserRepo is an in-memory implementation of repository.UserRepository.
// Using a fake (not a mock framework) keeps tests dependency-free and easy
// to read — you can see exactly what the fake does.
type fakeUserRepo struct {
	users []*model.User
	// set to a non-nil error to simulate a store failure
	findErr   error
	insertErr error
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*model.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, u := range f.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*model.User, error) {
	for _, u := range f.users {
		if u.ID.Hex() == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("user", id)
}

func (f *fakeUserRepo) FindByEmailAndID(_ context.Context, email, id string) (*model.User, error) {
	for _, u := range f.users {
		if u.Email == email && u.ID.Hex() == id {
			copied := *u
			return &copied, nil
		}
	}
	return nil, apperror.NotFound("user", id)
}

func (f *fakeUserRepo) Insert(_ context.Context, user *model.User) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	// Simulate the store assigning the ID, like MongoDB does on InsertOne
	user.ID = bson.NewObjectID()
	user.CreatedAt = time.Now()
	copied := *user
	f.users = append(f.users, &copied)
	return nil
}

func (f *fakeUserRepo) List(_ context.Context, _ repository.ListOptions) ([]model.User, error) {
	out := make([]model.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

var _ repository.UserRepository = (*fakeUserRepo)(nil)

// newTestAuthService returns an AuthService wired with fake dependencies.
// The TokenService uses a short fixed secret and the PasswordService runs
// at bcrypt cost 4 — both suitable for tests only.
func newTestAuthService(t *testing.T, repo *fakeUserRepo) *AuthService {
	t.Helper()

	ts, err := auth.NewTokenService("test-secret-at-least-16-chars!!")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	ps := auth.NewPasswordServiceForTest(4)

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	return NewAuthService(repo, ts, ps, logger, 0)
}

// =========================================================================
// Register TESTS
// =========================================================================

func TestRegister_NewUser(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := newTestAuthService(t, repo)

	summary, err := svc.Register(context.Background(), "Ada", "ada@x.com", "secret123")
	if err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	if summary.Name != "Ada" || summary.Email != "ada@x.com" {
		t.Errorf("summary = %+v, want {Ada ada@x.com}", summary)
	}

	if len(repo.users) != 1 {
		t.Fatalf("store holds %d records, want 1", len(repo.users))
	}

	stored := repo.users[0]
	if stored.PasswordHash == "" || stored.PasswordHash == "secret123" {
		t.Error("password must be stored as a hash, never as plaintext")
	}
	if stored.ID.IsZero() {
		t.Error("stored user should carry a store-assigned ID")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := newTestAuthService(t, repo)

	if _, err := svc.Register(context.Background(), "Ada", "ada@x.com", "secret123"); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}

	_, err := svc.Register(context.Background(), "Not Ada", "ada@x.com", "other-password")
	if !errors.Is(err, apperror.ErrDuplicateEmail) {
		t.Fatalf("second Register() error = %v, want ErrDuplicateEmail", err)
	}

	// The rejected attempt must not have persisted anything.
	if len(repo.users) != 1 {
		t.Errorf("store holds %d records after duplicate, want 1", len(repo.users))
	}
}

func TestRegister_EmailsAreCaseSensitive(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := newTestAuthService(t, repo)

	if _, err := svc.Register(context.Background(), "Ada", "ada@x.com", "secret123"); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	// Different byte sequence → different account, by policy.
	if _, err := svc.Register(context.Background(), "Ada2", "Ada@x.com", "secret123"); err != nil {
		t.Fatalf("Register() with differently-cased email error = %v", err)
	}
	if len(repo.users) != 2 {
		t.Errorf("store holds %d records, want 2", len(repo.users))
	}
}

func TestRegister_StoreErrorOnLookup(t *testing.T) {
	repo := &fakeUserRepo{findErr: errors.New("store is on fire")}
	svc := newTestAuthService(t, repo)

	_, err := svc.Register(context.Background(), "Ada", "ada@x.com", "secret123")
	if err == nil {
		t.Fatal("Register() should propagate store errors")
	}
	if errors.Is(err, apperror.ErrDuplicateEmail) {
		t.Error("a store failure must not masquerade as a duplicate email")
	}
}

func TestRegister_StoreErrorOnInsert(t *testing.T) {
	repo := &fakeUserRepo{insertErr: errors.New("write refused")}
	svc := newTestAuthService(t, repo)

	_, err := svc.Register(context.Background(), "Ada", "ada@x.com", "secret123")
	if err == nil {
		t.Fatal("Register() should propagate insert errors")
	}
	if len(repo.users) != 0 {
		t.Error("nothing should be persisted when insert fails")
	}
}

// =========================================================================
// Login TESTS
// =========================================================================

func TestLogin_Success(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := newTestAuthService(t, repo)

	if _, err := svc.Register(context.Background(), "Ada", "ada@x.com", "secret123"); err != nil {
		t.Fatalf("setup: %v", err)
	}

	token, err := svc.Login(context.Background(), "ada@x.com", "secret123")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if token == "" {
		t.Fatal("Login() returned empty token")
	}

	// The token must carry the user's email and store ID
	ts, _ := auth.NewTokenService("test-secret-at-least-16-chars!!")
	claims, err := ts.Validate(token)
	if err != nil {
		t.Fatalf("issued token failed validation: %v", err)
	}
	if claims.Subject != "ada@x.com" {
		t.Errorf("token sub = %q, want %q", claims.Subject, "ada@x.com")
	}
	if claims.UserID != repo.users[0].ID.Hex() {
		t.Errorf("token id = %q, want %q", claims.UserID, repo.users[0].ID.Hex())
	}
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := newTestAuthService(t, repo)

	if _, err := svc.Register(context.Background(), "Ada", "ada@x.com", "secret123"); err != nil {
		t.Fatalf("setup: %v", err)
	}

	// Unknown email vs. wrong password: both must yield the SAME error kind
	// and the SAME message, or login becomes an account-enumeration oracle.
	_, errUnknown := svc.Login(context.Background(), "nobody@x.com", "secret123")
	_, errWrongPw := svc.Login(context.Background(), "ada@x.com", "wrong-password")

	if !errors.Is(errUnknown, apperror.ErrInvalidCredentials) {
		t.Fatalf("unknown email error = %v, want ErrInvalidCredentials", errUnknown)
	}
	if !errors.Is(errWrongPw, apperror.ErrInvalidCredentials) {
		t.Fatalf("wrong password error = %v, want ErrInvalidCredentials", errWrongPw)
	}
	if errUnknown.Error() != errWrongPw.Error() {
		t.Errorf("messages differ: %q vs %q", errUnknown.Error(), errWrongPw.Error())
	}
}

func TestLogin_StoreError(t *testing.T) {
	repo := &fakeUserRepo{findErr: errors.New("store is on fire")}
	svc := newTestAuthService(t, repo)

	_, err := svc.Login(context.Background(), "ada@x.com", "secret123")
	if err == nil {
		t.Fatal("Login() should propagate store errors")
	}
	if errors.Is(err, apperror.ErrInvalidCredentials) {
		t.Error("a store failure must not masquerade as bad credentials")
	}
}
