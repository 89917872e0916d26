package usecase

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"shop_backend/internal/feature/auth/domain/entity"
	"shop_backend/internal/platform/token"
)

const (
	// minPasswordLength はパスワードの最低文字数を定義します。
	minPasswordLength = 6

	// usernameMinLength / usernameMaxLength はユーザー名の長さ制限です。
	usernameMinLength = 4
	usernameMaxLength = 20

	// RememberTokenTTL は永続ログイントークンの有効期間です。
	RememberTokenTTL = 30 * 24 * time.Hour
)

// ユーザーが存在しない場合のタイミング攻撃緩和用ダミーハッシュ。
// ハッシュ比較が常に実行されることを保証します。
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

var (
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	usernameRe = regexp.MustCompile(`^[a-zA-Z0-9]+$`)
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	// 同じユーザー名またはメールアドレスが既に存在する場合、ErrDuplicateUserを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByUsernameOrEmail はユーザー名またはメールアドレスに一致するユーザーを取得します。
	// 一致しない場合、ErrUserNotFoundを返します。
	FindByUsernameOrEmail(ctx context.Context, identifier string) (*entity.User, error)

	// FindByID は指定されたIDに一致するユーザーを取得します。
	FindByID(ctx context.Context, id uint) (*entity.User, error)

	// UpdatePassword はパスワードハッシュのみを更新します。
	UpdatePassword(ctx context.Context, id uint, newHash string) error

	// TouchLastLogin は最終ログイン時刻を現在時刻に更新します。
	TouchLastLogin(ctx context.Context, id uint) error
}

// PasswordHasher はパスワードと秘密の質問の答えのハッシュ化を抽象化します。
type PasswordHasher interface {
	// Hash はソルト付きの低速ハッシュを生成します。
	Hash(secret string) (string, error)
	// Verify は秘密とハッシュの一致を検証します。不一致や不正なハッシュは
	// エラーではなくfalseを返します。
	Verify(secret, hashed string) bool
}

// RememberTokenRepository は永続ログイントークンの永続化層を抽象化します。
type RememberTokenRepository interface {
	Create(ctx context.Context, t *entity.RememberToken) error
	// FindByDigest はダイジェストでトークンを取得します。
	// 存在しない場合、ErrTokenNotFoundを返します。
	FindByDigest(ctx context.Context, digest string) (*entity.RememberToken, error)
	DeleteByDigest(ctx context.Context, digest string) error
}

// LoginInput はログイン操作の入力です。
type LoginInput struct {
	Identifier string // ユーザー名またはメールアドレス
	Password   string
	Remember   bool
}

// LoginResult はログイン成功時の結果です。
type LoginResult struct {
	// RedirectPath はロールに応じたリダイレクト先です。
	RedirectPath string
	// RememberToken はRememberが指定された場合に発行される生トークンです。
	// クッキーにのみ格納され、サーバー側にはダイジェストだけが残ります。
	RememberToken string
}

// RegisterInput は新規登録操作の入力です。
type RegisterInput struct {
	FullName         string
	Username         string
	Email            string
	Password         string
	ConfirmPassword  string
	Phone            string
	Address          string
	Role             string
	SecurityQuestion string
	SecurityAnswer   string
}

// AuthUsecase は認証ビジネスロジック（ログイン・登録・ログアウト）を実装します。
type AuthUsecase struct {
	users  UserRepository
	tokens RememberTokenRepository
	hasher PasswordHasher
}

// NewAuthUsecase はAuthUsecaseの新しいインスタンスを生成します。
func NewAuthUsecase(users UserRepository, tokens RememberTokenRepository, hasher PasswordHasher) *AuthUsecase {
	return &AuthUsecase{users: users, tokens: tokens, hasher: hasher}
}

// systemError は予期しないストレージ障害を詳細付きでログに記録し、
// クライアントに公開される汎用エラーだけを返します。
func systemError(op string, err error) error {
	slog.Error("storage failure", "op", op, "error", err)
	return ErrSystem
}

// Login はユーザーを認証し、セッションに認証済みアイデンティティを設定します。
// アカウント未検出とパスワード不一致は同一のエラーに統合され、どちらが
// 誤っていたかを漏らしません。タイミング攻撃を防止するため、ユーザーが
// 存在しない場合でもハッシュ比較を実行します。
func (u *AuthUsecase) Login(ctx context.Context, sess *entity.Session, in LoginInput) (*LoginResult, error) {
	if strings.TrimSpace(in.Identifier) == "" || in.Password == "" {
		return nil, ErrMissingFields
	}

	user, err := u.users.FindByUsernameOrEmail(ctx, in.Identifier)

	hash := dummyHash
	if err == nil {
		hash = user.Password
	}
	ok := u.hasher.Verify(in.Password, hash)

	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, systemError("login lookup", err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	// 資格情報が正しくても無効化されたアカウントにはセッションを発行しない
	if !user.IsActive {
		return nil, ErrAccountDeactivated
	}

	// 最終ログイン時刻の更新失敗はログイン自体を失敗させない
	if err := u.users.TouchLastLogin(ctx, user.ID); err != nil {
		slog.Warn("failed to update last login", "user_id", user.ID, "error", err)
	}

	sess.StartAuthenticated(user)

	res := &LoginResult{RedirectPath: user.Role.LandingPath()}
	if in.Remember {
		raw, err := u.issueRememberToken(ctx, user.ID)
		if err != nil {
			// 永続トークンの発行失敗はログインを妨げない
			slog.Warn("failed to issue remember token", "user_id", user.ID, "error", err)
		} else {
			res.RememberToken = raw
		}
	}

	slog.Info("user login successful", "user_id", user.ID, "username", user.Username, "role", user.Role)
	return res, nil
}

// Register は新規ユーザーを登録します。バリデーションは最初の失敗で打ち切ります。
// パスワードと秘密の質問の答えは独立にハッシュ化されます。自動ログインは行いません。
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) error {
	in.FullName = strings.TrimSpace(in.FullName)
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	in.SecurityAnswer = strings.TrimSpace(in.SecurityAnswer)

	if in.FullName == "" || in.Username == "" || in.Email == "" || in.Password == "" || in.ConfirmPassword == "" {
		return ErrMissingFields
	}
	if !emailRe.MatchString(in.Email) {
		return ErrInvalidEmail
	}
	if len(in.Username) < usernameMinLength || len(in.Username) > usernameMaxLength || !usernameRe.MatchString(in.Username) {
		return ErrInvalidUsername
	}
	if len(in.Password) < minPasswordLength {
		return ErrPasswordTooShort
	}
	if in.Password != in.ConfirmPassword {
		return ErrPasswordMismatch
	}
	if !entity.ValidSecurityQuestion(in.SecurityQuestion) || in.SecurityAnswer == "" {
		return ErrSecurityQuestion
	}
	// セラーの自己登録はポリシーで無効化されています
	if in.Role != "" && entity.Role(in.Role) != entity.RoleBuyer {
		return ErrRoleNotAllowed
	}

	// 重複の事前チェックはUX向けのファストパスにすぎず、正式なガードは
	// ストレージ側のユニーク制約です（Create内で変換される）。
	for _, identifier := range []string{in.Username, in.Email} {
		if _, err := u.users.FindByUsernameOrEmail(ctx, identifier); err == nil {
			return ErrDuplicateUser
		} else if !errors.Is(err, ErrUserNotFound) {
			return systemError("register duplicate check", err)
		}
	}

	passwordHash, err := u.hasher.Hash(in.Password)
	if err != nil {
		return systemError("hash password", err)
	}
	answerHash, err := u.hasher.Hash(in.SecurityAnswer)
	if err != nil {
		return systemError("hash security answer", err)
	}

	user := &entity.User{
		FullName:         in.FullName,
		Username:         in.Username,
		Email:            in.Email,
		Password:         passwordHash,
		Phone:            strings.TrimSpace(in.Phone),
		Address:          strings.TrimSpace(in.Address),
		Role:             entity.RoleBuyer,
		IsActive:         true,
		SecurityQuestion: in.SecurityQuestion,
		SecurityAnswer:   answerHash,
	}
	if err := u.users.Create(ctx, user); err != nil {
		if errors.Is(err, ErrDuplicateUser) {
			return ErrDuplicateUser
		}
		return systemError("create user", err)
	}

	slog.Info("user registered", "user_id", user.ID, "username", user.Username)
	return nil
}

// Logout はセッションの状態を破棄し、提示された永続トークンを失効させます。
func (u *AuthUsecase) Logout(ctx context.Context, sess *entity.Session, rememberToken string) {
	if rememberToken != "" {
		if err := u.tokens.DeleteByDigest(ctx, token.Digest(rememberToken)); err != nil && !errors.Is(err, ErrTokenNotFound) {
			slog.Warn("failed to revoke remember token", "error", err)
		}
	}
	sess.Clear()
}

// ConsumeRememberToken は永続ログインクッキーの生トークンを検証します。
// 成功時はトークンをローテーションし、ユーザーと新しい生トークンを返します。
// 使用不能なトークンはすべてErrInvalidRememberTokenに畳み込まれます。
func (u *AuthUsecase) ConsumeRememberToken(ctx context.Context, raw string) (*entity.User, string, error) {
	digest := token.Digest(raw)

	t, err := u.tokens.FindByDigest(ctx, digest)
	if err != nil {
		if errors.Is(err, ErrTokenNotFound) {
			return nil, "", ErrInvalidRememberToken
		}
		return nil, "", systemError("remember token lookup", err)
	}
	if t.IsExpired() {
		u.discardRememberToken(ctx, digest)
		return nil, "", ErrInvalidRememberToken
	}

	user, err := u.users.FindByID(ctx, t.UserID)
	if err != nil || !user.IsActive {
		u.discardRememberToken(ctx, digest)
		return nil, "", ErrInvalidRememberToken
	}

	// 使用済みトークンは即座に破棄し、新しいトークンに差し替える
	u.discardRememberToken(ctx, digest)
	newRaw, err := u.issueRememberToken(ctx, user.ID)
	if err != nil {
		slog.Warn("failed to rotate remember token", "user_id", user.ID, "error", err)
		newRaw = ""
	}
	return user, newRaw, nil
}

func (u *AuthUsecase) issueRememberToken(ctx context.Context, userID uint) (string, error) {
	raw, err := token.New()
	if err != nil {
		return "", err
	}
	now := time.Now()
	t := &entity.RememberToken{
		UserID:    userID,
		Digest:    token.Digest(raw),
		CreatedAt: now,
		ExpiresAt: now.Add(RememberTokenTTL),
	}
	if err := u.tokens.Create(ctx, t); err != nil {
		return "", err
	}
	return raw, nil
}

func (u *AuthUsecase) discardRememberToken(ctx context.Context, digest string) {
	if err := u.tokens.DeleteByDigest(ctx, digest); err != nil && !errors.Is(err, ErrTokenNotFound) {
		slog.Warn("failed to delete remember token", "error", err)
	}
}
