package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"shop_backend/internal/feature/auth/domain/entity"
	"shop_backend/internal/platform/password"
	"shop_backend/internal/platform/token"
)

// mockUserRepository is a mock implementation of the UserRepository interface.
// It simulates database operations during testing.
type mockUserRepository struct {
	CreateFunc                func(ctx context.Context, user *entity.User) error
	FindByUsernameOrEmailFunc func(ctx context.Context, identifier string) (*entity.User, error)
	FindByIDFunc              func(ctx context.Context, id uint) (*entity.User, error)
	UpdatePasswordFunc        func(ctx context.Context, id uint, newHash string) error
	TouchLastLoginFunc        func(ctx context.Context, id uint) error
}

func (m *mockUserRepository) Create(ctx context.Context, user *entity.User) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil // Default: success
}

func (m *mockUserRepository) FindByUsernameOrEmail(ctx context.Context, identifier string) (*entity.User, error) {
	if m.FindByUsernameOrEmailFunc != nil {
		return m.FindByUsernameOrEmailFunc(ctx, identifier)
	}
	return nil, ErrUserNotFound // Default: not found
}

func (m *mockUserRepository) FindByID(ctx context.Context, id uint) (*entity.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, ErrUserNotFound // Default: not found
}

func (m *mockUserRepository) UpdatePassword(ctx context.Context, id uint, newHash string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, id, newHash)
	}
	return nil
}

func (m *mockUserRepository) TouchLastLogin(ctx context.Context, id uint) error {
	if m.TouchLastLoginFunc != nil {
		return m.TouchLastLoginFunc(ctx, id)
	}
	return nil
}

// mockRememberRepository is an in-memory implementation of the
// RememberTokenRepository interface.
type mockRememberRepository struct {
	tokens    map[string]*entity.RememberToken
	createErr error
}

func newMockRememberRepository() *mockRememberRepository {
	return &mockRememberRepository{tokens: make(map[string]*entity.RememberToken)}
}

func (m *mockRememberRepository) Create(ctx context.Context, t *entity.RememberToken) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.tokens[t.Digest] = t
	return nil
}

func (m *mockRememberRepository) FindByDigest(ctx context.Context, digest string) (*entity.RememberToken, error) {
	t, ok := m.tokens[digest]
	if !ok {
		return nil, ErrTokenNotFound
	}
	return t, nil
}

func (m *mockRememberRepository) DeleteByDigest(ctx context.Context, digest string) error {
	if _, ok := m.tokens[digest]; !ok {
		return ErrTokenNotFound
	}
	delete(m.tokens, digest)
	return nil
}

// mockRecorder captures activity entries for assertions.
type mockRecorder struct {
	actions []string
	userIDs []uint
}

func (m *mockRecorder) Record(ctx context.Context, userID uint, action, detail string) {
	m.actions = append(m.actions, action)
	m.userIDs = append(m.userIDs, userID)
}

// testHasher uses bcrypt.MinCost to keep the tests fast.
var testHasher = password.NewHasherWithCost(bcrypt.MinCost)

func hashSecret(t *testing.T, secret string) string {
	t.Helper()
	h, err := testHasher.Hash(secret)
	if err != nil {
		t.Fatalf("failed to hash secret: %v", err)
	}
	return h
}

func activeUser(t *testing.T, role entity.Role) *entity.User {
	t.Helper()
	return &entity.User{
		ID:               1,
		FullName:         "Test User",
		Username:         "testuser",
		Email:            "test@example.com",
		Password:         hashSecret(t, "secret1"),
		Role:             role,
		IsActive:         true,
		SecurityQuestion: entity.SecurityQuestions[0],
		SecurityAnswer:   hashSecret(t, "Rex"),
	}
}

func newSession() *entity.Session {
	now := time.Now()
	return &entity.Session{ID: "sess-1", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
}

func TestAuthUsecase_Login(t *testing.T) {
	t.Run("successful login", func(t *testing.T) {
		user := activeUser(t, entity.RoleBuyer)
		touched := false
		mockRepo := &mockUserRepository{
			FindByUsernameOrEmailFunc: func(ctx context.Context, identifier string) (*entity.User, error) {
				if identifier == user.Username {
					return user, nil
				}
				return nil, ErrUserNotFound
			},
			TouchLastLoginFunc: func(ctx context.Context, id uint) error {
				touched = true
				return nil
			},
		}

		uc := NewAuthUsecase(mockRepo, newMockRememberRepository(), testHasher)
		sess := newSession()
		res, err := uc.Login(context.Background(), sess, LoginInput{Identifier: "testuser", Password: "secret1"})

		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !touched {
			t.Error("last login was not updated")
		}
		if !sess.IsAuthenticated() {
			t.Error("session is not authenticated")
		}
		if sess.UserID != user.ID || sess.Username != user.Username || sess.Role != entity.RoleBuyer {
			t.Errorf("session identity mismatch: %+v", sess)
		}
		if res.RedirectPath != "/" {
			t.Errorf("expected customer landing, got %q", res.RedirectPath)
		}
		if res.RememberToken != "" {
			t.Error("remember token issued without the remember flag")
		}
	})

	t.Run("role-dependent redirect", func(t *testing.T) {
		tests := []struct {
			role entity.Role
			want string
		}{
			{entity.RoleBuyer, "/"},
			{entity.RoleSeller, "/seller/dashboard"},
			{entity.RoleAdmin, "/admin/dashboard"},
		}
		for _, tt := range tests {
			user := activeUser(t, tt.role)
			mockRepo := &mockUserRepository{
				FindByUsernameOrEmailFunc: func(ctx context.Context, identifier string) (*entity.User, error) {
					return user, nil
				},
			}
			uc := NewAuthUsecase(mockRepo, newMockRememberRepository(), testHasher)
			res, err := uc.Login(context.Background(), newSession(), LoginInput{Identifier: "testuser", Password: "secret1"})
			if err != nil {
				t.Fatalf("role %s: unexpected error: %v", tt.role, err)
			}
			if res.RedirectPath != tt.want {
				t.Errorf("role %s: expected redirect %q, got %q", tt.role, tt.want, res.RedirectPath)
			}
		}
	})

	t.Run("empty fields", func(t *testing.T) {
		uc := NewAuthUsecase(&mockUserRepository{}, newMockRememberRepository(), testHasher)
		for _, in := range []LoginInput{
			{Identifier: "", Password: "secret1"},
			{Identifier: "testuser", Password: ""},
			{Identifier: "   ", Password: "secret1"},
		} {
			if _, err := uc.Login(context.Background(), newSession(), in); !errors.Is(err, ErrMissingFields) {
				t.Errorf("input %+v: expected ErrMissingFields, got %v", in, err)
			}
		}
	})

	t.Run("unknown user and wrong password yield the same error", func(t *testing.T) {
		user := activeUser(t, entity.RoleBuyer)
		mockRepo := &mockUserRepository{
			FindByUsernameOrEmailFunc: func(ctx context.Context, identifier string) (*entity.User, error) {
				if identifier == user.Username {
					return user, nil
				}
				return nil, ErrUserNotFound
			},
		}
		uc := NewAuthUsecase(mockRepo, newMockRememberRepository(), testHasher)

		_, errUnknown := uc.Login(context.Background(), newSession(), LoginInput{Identifier: "nobody", Password: "secret1"})
		_, errWrongPw := uc.Login(context.Background(), newSession(), LoginInput{Identifier: "testuser", Password: "wrong"})

		if !errors.Is(errUnknown, ErrInvalidCredentials) {
			t.Errorf("unknown user: expected ErrInvalidCredentials, got %v", errUnknown)
		}
		if !errors.Is(errWrongPw, ErrInvalidCredentials) {
			t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", errWrongPw)
		}
		if errUnknown.Error() != errWrongPw.Error() {
			t.Error("error messages differ between unknown user and wrong password")
		}
	})

	t.Run("deactivated account is rejected with correct password", func(t *testing.T) {
		user := activeUser(t, entity.RoleBuyer)
		user.IsActive = false
		mockRepo := &mockUserRepository{
			FindByUsernameOrEmailFunc: func(ctx context.Context, identifier string) (*entity.User, error) {
				return user, nil
			},
		}
		uc := NewAuthUsecase(mockRepo, newMockRememberRepository(), testHasher)

		sess := newSession()
		_, err := uc.Login(context.Background(), sess, LoginInput{Identifier: "testuser", Password: "secret1"})

		if !errors.Is(err, ErrAccountDeactivated) {
			t.Fatalf("expected ErrAccountDeactivated, got %v", err)
		}
		if sess.IsAuthenticated() {
			t.Error("deactivated account must not get an authenticated session")
		}
	})

	t.Run("storage failure is converted to the generic error", func(t *testing.T) {
		mockRepo := &mockUserRepository{
			FindByUsernameOrEmailFunc: func(ctx context.Context, identifier string) (*entity.User, error) {
				return nil, errors.New("connection refused")
			},
		}
		uc := NewAuthUsecase(mockRepo, newMockRememberRepository(), testHasher)

		_, err := uc.Login(context.Background(), newSession(), LoginInput{Identifier: "testuser", Password: "secret1"})

		if !errors.Is(err, ErrSystem) {
			t.Fatalf("expected ErrSystem, got %v", err)
		}
		if err.Error() != "a system error occurred" {
			t.Errorf("raw diagnostic leaked to the caller: %q", err.Error())
		}
	})

	t.Run("failed last-login update does not fail the login", func(t *testing.T) {
		user := activeUser(t, entity.RoleBuyer)
		mockRepo := &mockUserRepository{
			FindByUsernameOrEmailFunc: func(ctx context.Context, identifier string) (*entity.User, error) {
				return user, nil
			},
			TouchLastLoginFunc: func(ctx context.Context, id uint) error {
				return errors.New("deadlock")
			},
		}
		uc := NewAuthUsecase(mockRepo, newMockRememberRepository(), testHasher)

		sess := newSession()
		if _, err := uc.Login(context.Background(), sess, LoginInput{Identifier: "testuser", Password: "secret1"}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !sess.IsAuthenticated() {
			t.Error("session should still be authenticated")
		}
	})

	t.Run("remember flag issues a persistent token", func(t *testing.T) {
		user := activeUser(t, entity.RoleBuyer)
		mockRepo := &mockUserRepository{
			FindByUsernameOrEmailFunc: func(ctx context.Context, identifier string) (*entity.User, error) {
				return user, nil
			},
		}
		tokens := newMockRememberRepository()
		uc := NewAuthUsecase(mockRepo, tokens, testHasher)

		res, err := uc.Login(context.Background(), newSession(), LoginInput{Identifier: "testuser", Password: "secret1", Remember: true})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(res.RememberToken) != 64 {
			t.Fatalf("expected a 64-character raw token, got %q", res.RememberToken)
		}

		stored, ok := tokens.tokens[token.Digest(res.RememberToken)]
		if !ok {
			t.Fatal("no token stored under the digest of the issued secret")
		}
		if stored.UserID != user.ID {
			t.Errorf("token stored for user %d, want %d", stored.UserID, user.ID)
		}
		if stored.Digest == res.RememberToken {
			t.Error("raw secret stored instead of its digest")
		}
		if got := time.Until(stored.ExpiresAt); got < 29*24*time.Hour {
			t.Errorf("token expiry too short: %v", got)
		}
	})
}

func TestAuthUsecase_Register(t *testing.T) {
	validInput := func() RegisterInput {
		return RegisterInput{
			FullName:         "Alice Smith",
			Username:         "alice",
			Email:            "alice@x.com",
			Password:         "secret1",
			ConfirmPassword:  "secret1",
			SecurityQuestion: entity.SecurityQuestions[0],
			SecurityAnswer:   "Rex",
		}
	}

	t.Run("successful registration hashes both secrets", func(t *testing.T) {
		var created *entity.User
		mockRepo := &mockUserRepository{
			CreateFunc: func(ctx context.Context, user *entity.User) error {
				created = user
				return nil
			},
		}
		uc := NewAuthUsecase(mockRepo, newMockRememberRepository(), testHasher)

		if err := uc.Register(context.Background(), validInput()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if created == nil {
			t.Fatal("user was not persisted")
		}
		if created.Role != entity.RoleBuyer {
			t.Errorf("expected buyer role, got %q", created.Role)
		}
		if !created.IsActive {
			t.Error("new account should be active")
		}
		if created.Password == "secret1" || !testHasher.Verify("secret1", created.Password) {
			t.Error("password is not stored as a verifiable hash")
		}
		if created.SecurityAnswer == "Rex" || !testHasher.Verify("Rex", created.SecurityAnswer) {
			t.Error("security answer is not stored as a verifiable hash")
		}
		if created.Password == created.SecurityAnswer {
			t.Error("password and answer hashes should be independent")
		}
	})

	t.Run("validation order, first failure wins", func(t *testing.T) {
		tests := []struct {
			name    string
			mutate  func(*RegisterInput)
			wantErr error
		}{
			{"missing full name", func(in *RegisterInput) { in.FullName = "" }, ErrMissingFields},
			{"missing username", func(in *RegisterInput) { in.Username = " " }, ErrMissingFields},
			{"missing password", func(in *RegisterInput) { in.Password = "" }, ErrMissingFields},
			{"invalid email", func(in *RegisterInput) { in.Email = "not-an-email" }, ErrInvalidEmail},
			{"username too short", func(in *RegisterInput) { in.Username = "al" }, ErrInvalidUsername},
			{"username with symbols", func(in *RegisterInput) { in.Username = "alice!" }, ErrInvalidUsername},
			{"short password", func(in *RegisterInput) { in.Password = "abc"; in.ConfirmPassword = "abc" }, ErrPasswordTooShort},
			{"password mismatch", func(in *RegisterInput) { in.ConfirmPassword = "secret2" }, ErrPasswordMismatch},
			{"unknown security question", func(in *RegisterInput) { in.SecurityQuestion = "What is love?" }, ErrSecurityQuestion},
			{"empty security answer", func(in *RegisterInput) { in.SecurityAnswer = "  " }, ErrSecurityQuestion},
			{"seller self-registration", func(in *RegisterInput) { in.Role = "seller" }, ErrRoleNotAllowed},
			{"admin self-registration", func(in *RegisterInput) { in.Role = "admin" }, ErrRoleNotAllowed},
			// Both empty field and bad email: the empty check must win.
			{"short-circuit on first failure", func(in *RegisterInput) { in.FullName = ""; in.Email = "bad" }, ErrMissingFields},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				mockRepo := &mockUserRepository{
					CreateFunc: func(ctx context.Context, user *entity.User) error {
						t.Error("Create must not be called for invalid input")
						return nil
					},
				}
				uc := NewAuthUsecase(mockRepo, newMockRememberRepository(), testHasher)

				in := validInput()
				tt.mutate(&in)
				if err := uc.Register(context.Background(), in); !errors.Is(err, tt.wantErr) {
					t.Errorf("expected %v, got %v", tt.wantErr, err)
				}
			})
		}
	})

	t.Run("duplicate caught by the fast-path check", func(t *testing.T) {
		created := false
		mockRepo := &mockUserRepository{
			FindByUsernameOrEmailFunc: func(ctx context.Context, identifier string) (*entity.User, error) {
				if identifier == "alice" {
					return &entity.User{ID: 2, Username: "alice"}, nil
				}
				return nil, ErrUserNotFound
			},
			CreateFunc: func(ctx context.Context, user *entity.User) error {
				created = true
				return nil
			},
		}
		uc := NewAuthUsecase(mockRepo, newMockRememberRepository(), testHasher)

		if err := uc.Register(context.Background(), validInput()); !errors.Is(err, ErrDuplicateUser) {
			t.Fatalf("expected ErrDuplicateUser, got %v", err)
		}
		if created {
			t.Error("no record must be created on a duplicate")
		}
	})

	t.Run("duplicate caught by the storage constraint", func(t *testing.T) {
		// The pre-check races with concurrent registrations; the unique
		// constraint is the authoritative guard and must surface the same error.
		mockRepo := &mockUserRepository{
			CreateFunc: func(ctx context.Context, user *entity.User) error {
				return ErrDuplicateUser
			},
		}
		uc := NewAuthUsecase(mockRepo, newMockRememberRepository(), testHasher)

		if err := uc.Register(context.Background(), validInput()); !errors.Is(err, ErrDuplicateUser) {
			t.Fatalf("expected ErrDuplicateUser, got %v", err)
		}
	})

	t.Run("storage failure is converted to the generic error", func(t *testing.T) {
		mockRepo := &mockUserRepository{
			CreateFunc: func(ctx context.Context, user *entity.User) error {
				return errors.New("disk full")
			},
		}
		uc := NewAuthUsecase(mockRepo, newMockRememberRepository(), testHasher)

		if err := uc.Register(context.Background(), validInput()); !errors.Is(err, ErrSystem) {
			t.Fatalf("expected ErrSystem, got %v", err)
		}
	})
}

func TestAuthUsecase_ConsumeRememberToken(t *testing.T) {
	issue := func(t *testing.T, uc *AuthUsecase, tokens *mockRememberRepository, user *entity.User) string {
		t.Helper()
		raw, err := uc.issueRememberToken(context.Background(), user.ID)
		if err != nil {
			t.Fatalf("failed to issue token: %v", err)
		}
		return raw
	}

	t.Run("valid token rotates", func(t *testing.T) {
		user := activeUser(t, entity.RoleBuyer)
		mockRepo := &mockUserRepository{
			FindByIDFunc: func(ctx context.Context, id uint) (*entity.User, error) {
				return user, nil
			},
		}
		tokens := newMockRememberRepository()
		uc := NewAuthUsecase(mockRepo, tokens, testHasher)
		raw := issue(t, uc, tokens, user)

		got, newRaw, err := uc.ConsumeRememberToken(context.Background(), raw)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ID != user.ID {
			t.Errorf("resolved wrong user: %d", got.ID)
		}
		if newRaw == "" || newRaw == raw {
			t.Error("token was not rotated")
		}
		if _, ok := tokens.tokens[token.Digest(raw)]; ok {
			t.Error("consumed token must be deleted")
		}
		if _, ok := tokens.tokens[token.Digest(newRaw)]; !ok {
			t.Error("rotated token must be stored")
		}
	})

	t.Run("unknown token", func(t *testing.T) {
		uc := NewAuthUsecase(&mockUserRepository{}, newMockRememberRepository(), testHasher)
		if _, _, err := uc.ConsumeRememberToken(context.Background(), "deadbeef"); !errors.Is(err, ErrInvalidRememberToken) {
			t.Errorf("expected ErrInvalidRememberToken, got %v", err)
		}
	})

	t.Run("expired token is discarded", func(t *testing.T) {
		user := activeUser(t, entity.RoleBuyer)
		tokens := newMockRememberRepository()
		uc := NewAuthUsecase(&mockUserRepository{}, tokens, testHasher)
		raw := issue(t, uc, tokens, user)
		tokens.tokens[token.Digest(raw)].ExpiresAt = time.Now().Add(-time.Minute)

		if _, _, err := uc.ConsumeRememberToken(context.Background(), raw); !errors.Is(err, ErrInvalidRememberToken) {
			t.Errorf("expected ErrInvalidRememberToken, got %v", err)
		}
		if len(tokens.tokens) != 0 {
			t.Error("expired token should be deleted")
		}
	})

	t.Run("deactivated account cannot auto-login", func(t *testing.T) {
		user := activeUser(t, entity.RoleBuyer)
		user.IsActive = false
		mockRepo := &mockUserRepository{
			FindByIDFunc: func(ctx context.Context, id uint) (*entity.User, error) {
				return user, nil
			},
		}
		tokens := newMockRememberRepository()
		uc := NewAuthUsecase(mockRepo, tokens, testHasher)
		raw := issue(t, uc, tokens, user)

		if _, _, err := uc.ConsumeRememberToken(context.Background(), raw); !errors.Is(err, ErrInvalidRememberToken) {
			t.Errorf("expected ErrInvalidRememberToken, got %v", err)
		}
		if len(tokens.tokens) != 0 {
			t.Error("token of a deactivated account should be deleted")
		}
	})
}

func TestAuthUsecase_Logout(t *testing.T) {
	user := activeUser(t, entity.RoleBuyer)
	tokens := newMockRememberRepository()
	uc := NewAuthUsecase(&mockUserRepository{}, tokens, testHasher)

	raw, err := uc.issueRememberToken(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	sess := newSession()
	sess.StartAuthenticated(user)

	uc.Logout(context.Background(), sess, raw)

	if sess.IsAuthenticated() {
		t.Error("session should be cleared")
	}
	if len(tokens.tokens) != 0 {
		t.Error("remember token should be revoked")
	}
}
