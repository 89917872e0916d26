// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
//
// 成功した操作は303リダイレクト（仕様上の遷移先）で応答し、失敗した操作は
// 人間可読なメッセージ付きのJSONで応答します。前段ステップを欠いた要求は
// エラーではなく正しいステップへのサイレントリダイレクトとして扱います。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"shop_backend/internal/feature/auth/domain/entity"
	"shop_backend/internal/feature/auth/transport/http/dto"
	"shop_backend/internal/feature/auth/transport/middleware"
	"shop_backend/internal/feature/auth/usecase"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Login はユーザーを認証し、セッションに認証済みアイデンティティを設定します。
	Login(ctx context.Context, sess *entity.Session, in usecase.LoginInput) (*usecase.LoginResult, error)
	// Register は新規ユーザーを登録します。自動ログインは行いません。
	Register(ctx context.Context, in usecase.RegisterInput) error
	// Logout はセッション状態を破棄し、永続トークンを失効させます。
	Logout(ctx context.Context, sess *entity.Session, rememberToken string)
}

// RecoveryUsecase は資格情報回復操作のユースケースを定義します。
type RecoveryUsecase interface {
	// StartReset は回復フローのステップ1（アカウント特定）を実行します。
	StartReset(ctx context.Context, sess *entity.Session, identifier string) error
	// ResetQuestion は保留中のリセット対象ユーザーの秘密の質問を返します。
	ResetQuestion(ctx context.Context, sess *entity.Session) (string, error)
	// ConfirmReset は回復フローのステップ2（答えの検証と新パスワード設定）を実行します。
	ConfirmReset(ctx context.Context, sess *entity.Session, in usecase.ResetInput) error
	// ChangeQuestion は認証済みユーザーの秘密の質問を返します。
	ChangeQuestion(ctx context.Context, sess *entity.Session) (string, error)
	// ChangePassword は認証済みユーザーのパスワードを変更します。セッションは維持されます。
	ChangePassword(ctx context.Context, sess *entity.Session, in usecase.ResetInput) error
}

// successBanners はログインページの?successパラメーターに対応するバナー文言です。
var successBanners = map[string]string{
	"registered":       "registration successful, please log in",
	"password_changed": "your password has been changed, please log in",
}

// AuthHandler は認証と資格情報回復のHTTPリクエストを処理します。
type AuthHandler struct {
	auth     AuthUsecase
	recovery RecoveryUsecase
	sessions usecase.SessionStore
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタです。
func NewAuthHandler(auth AuthUsecase, recovery RecoveryUsecase, sessions usecase.SessionStore) *AuthHandler {
	return &AuthHandler{auth: auth, recovery: recovery, sessions: sessions}
}

// statusMessage はワークフローのセンチネルエラーをHTTPステータスと
// クライアント向けメッセージに変換します。未知のエラーは詳細を漏らさず
// 汎用メッセージになります。
func statusMessage(err error) (int, string) {
	switch {
	case errors.Is(err, usecase.ErrMissingFields):
		return http.StatusBadRequest, "please fill in all required fields"
	case errors.Is(err, usecase.ErrInvalidEmail):
		return http.StatusBadRequest, "please enter a valid email address"
	case errors.Is(err, usecase.ErrInvalidUsername):
		return http.StatusBadRequest, "username must be 4-20 letters or digits"
	case errors.Is(err, usecase.ErrPasswordTooShort):
		return http.StatusBadRequest, "password must be at least 6 characters"
	case errors.Is(err, usecase.ErrPasswordMismatch):
		return http.StatusBadRequest, "passwords do not match"
	case errors.Is(err, usecase.ErrSecurityQuestion):
		return http.StatusBadRequest, "please choose a security question and provide an answer"
	case errors.Is(err, usecase.ErrRoleNotAllowed):
		return http.StatusBadRequest, "self-registration is limited to buyer accounts"
	case errors.Is(err, usecase.ErrDuplicateUser):
		return http.StatusConflict, "username or email already taken"
	case errors.Is(err, usecase.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid username or password"
	case errors.Is(err, usecase.ErrAccountDeactivated):
		return http.StatusUnauthorized, "your account has been deactivated"
	case errors.Is(err, usecase.ErrSecurityAnswer):
		return http.StatusUnauthorized, "incorrect security answer"
	case errors.Is(err, usecase.ErrUserNotFound):
		return http.StatusNotFound, "no account found with that username or email"
	default:
		return http.StatusInternalServerError, "a system error occurred"
	}
}

// renderError はエラーをJSONレスポンスとして出力します。
func (h *AuthHandler) renderError(c *gin.Context, err error) {
	status, msg := statusMessage(err)
	c.JSON(status, gin.H{"error": msg})
}

// saveSession はハンドラー内で変更されたセッションを永続化します。
func (h *AuthHandler) saveSession(c *gin.Context, sess *entity.Session) bool {
	if err := h.sessions.Save(c.Request.Context(), sess); err != nil {
		slog.Error("failed to save session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "a system error occurred"})
		return false
	}
	return true
}

// LoginPage はログインフォームの表示用データを返します。
// ?success=registered|password_changed はバナー文言に変換されます。
func (h *AuthHandler) LoginPage(c *gin.Context) {
	resp := gin.H{}
	if banner, ok := successBanners[c.Query("success")]; ok {
		resp["message"] = banner
	}
	c.JSON(http.StatusOK, resp)
}

// Login はログインを処理します。
// - 未入力は専用メッセージで400を返却
// - アカウント未検出とパスワード不一致は区別せず401を返却
// - 無効化されたアカウントはセッションを発行せず401を返却
// - 成功時はロール別のランディングページへ303リダイレクト
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBind(&req); err != nil {
		slog.Warn("login bind failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	sess := middleware.FromContext(c)
	res, err := h.auth.Login(c.Request.Context(), sess, usecase.LoginInput{
		Identifier: req.Identifier,
		Password:   req.Password,
		Remember:   req.Remember,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrMissingFields) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "please enter both your username and password"})
			return
		}
		slog.Warn("login failed", "error", err, "identifier", req.Identifier, "remote_addr", c.ClientIP())
		h.renderError(c, err)
		return
	}

	if !h.saveSession(c, sess) {
		return
	}
	if res.RememberToken != "" {
		middleware.SetRememberCookie(c, res.RememberToken)
	}
	c.Redirect(http.StatusSeeOther, res.RedirectPath)
}

// RegisterPage は登録フォームが提示する固定の秘密の質問リストを返します。
func (h *AuthHandler) RegisterPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"security_questions": entity.SecurityQuestions})
}

// Register はユーザー登録を処理します。
// 成功時は自動ログインせず、登録済みバナー付きでログインページへ303リダイレクトします。
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterReq
	if err := c.ShouldBind(&req); err != nil {
		slog.Warn("register bind failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	err := h.auth.Register(c.Request.Context(), usecase.RegisterInput{
		FullName:         req.FullName,
		Username:         req.Username,
		Email:            req.Email,
		Password:         req.Password,
		ConfirmPassword:  req.ConfirmPassword,
		Phone:            req.Phone,
		Address:          req.Address,
		Role:             req.Role,
		SecurityQuestion: req.SecurityQuestion,
		SecurityAnswer:   req.SecurityAnswer,
	})
	if err != nil {
		slog.Warn("registration failed", "error", err, "username", req.Username, "remote_addr", c.ClientIP())
		h.renderError(c, err)
		return
	}

	c.Redirect(http.StatusSeeOther, "/auth/login?success=registered")
}

// ForgetPasswordPage は回復フローのステップ1のフォーム表示に応答します。
func (h *AuthHandler) ForgetPasswordPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{})
}

// ForgetPassword は回復フローのステップ1を処理します。
// このステップはアカウントの存在を意図的に開示します（ログインとの非対称は仕様どおり）。
// 成功時はステップ2へ303リダイレクトします。
func (h *AuthHandler) ForgetPassword(c *gin.Context) {
	var req dto.ForgetPasswordReq
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	sess := middleware.FromContext(c)
	if err := h.recovery.StartReset(c.Request.Context(), sess, req.Identifier); err != nil {
		slog.Warn("forget-password failed", "error", err, "identifier", req.Identifier, "remote_addr", c.ClientIP())
		h.renderError(c, err)
		return
	}

	if !h.saveSession(c, sess) {
		return
	}
	c.Redirect(http.StatusSeeOther, "/auth/reset-password")
}

// ResetPasswordPage はステップ2のフォーム表示に応答し、対象ユーザーの
// 秘密の質問を返します。保留中のリセットがなければステップ1へ303リダイレクトします。
func (h *AuthHandler) ResetPasswordPage(c *gin.Context) {
	sess := middleware.FromContext(c)
	question, err := h.recovery.ResetQuestion(c.Request.Context(), sess)
	if err != nil {
		if errors.Is(err, usecase.ErrNoPendingReset) {
			// セッション状態の不整合はエラーではなく前段ステップへ誘導する
			if !h.saveSession(c, sess) {
				return
			}
			c.Redirect(http.StatusSeeOther, "/auth/forget-password")
			return
		}
		h.renderError(c, err)
		return
	}
	_, username, _ := sess.PendingReset()
	c.JSON(http.StatusOK, gin.H{"username": username, "security_question": question})
}

// ResetPassword は回復フローのステップ2を処理します。
// 成功時はパスワード変更済みバナー付きでログインページへ303リダイレクトします。
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordReq
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	sess := middleware.FromContext(c)
	err := h.recovery.ConfirmReset(c.Request.Context(), sess, usecase.ResetInput{
		Answer:          req.SecurityAnswer,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrNoPendingReset) {
			if !h.saveSession(c, sess) {
				return
			}
			c.Redirect(http.StatusSeeOther, "/auth/forget-password")
			return
		}
		slog.Warn("reset-password failed", "error", err, "remote_addr", c.ClientIP())
		h.renderError(c, err)
		return
	}

	if !h.saveSession(c, sess) {
		return
	}
	c.Redirect(http.StatusSeeOther, "/auth/login?success=password_changed")
}

// ChangePasswordPage は認証済みユーザーの秘密の質問を返します。
func (h *AuthHandler) ChangePasswordPage(c *gin.Context) {
	sess := middleware.FromContext(c)
	question, err := h.recovery.ChangeQuestion(c.Request.Context(), sess)
	if err != nil {
		if errors.Is(err, usecase.ErrNotAuthenticated) {
			if !h.saveSession(c, sess) {
				return
			}
			c.Redirect(http.StatusSeeOther, "/auth/login")
			return
		}
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"security_question": question})
}

// ChangePassword は認証済みユーザーのパスワード変更を処理します。
// 成功してもセッションは破棄されず、ユーザーはログインしたままです。
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req dto.ResetPasswordReq
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	sess := middleware.FromContext(c)
	err := h.recovery.ChangePassword(c.Request.Context(), sess, usecase.ResetInput{
		Answer:          req.SecurityAnswer,
		NewPassword:     req.NewPassword,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		if errors.Is(err, usecase.ErrNotAuthenticated) {
			if !h.saveSession(c, sess) {
				return
			}
			c.Redirect(http.StatusSeeOther, "/auth/login")
			return
		}
		slog.Warn("change-password failed", "error", err, "user_id", sess.UserID, "remote_addr", c.ClientIP())
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "your password has been changed"})
}

// Logout はセッションを破棄してログインページへ303リダイレクトします。確認ステップはありません。
func (h *AuthHandler) Logout(c *gin.Context) {
	sess := middleware.FromContext(c)

	rememberRaw, _ := c.Cookie(middleware.RememberCookie)
	h.auth.Logout(c.Request.Context(), sess, rememberRaw)

	if err := h.sessions.Delete(c.Request.Context(), sess.ID); err != nil {
		slog.Error("failed to delete session", "error", err)
	}
	middleware.ClearSessionCookie(c)
	middleware.ClearRememberCookie(c)

	c.Redirect(http.StatusSeeOther, "/auth/login")
}
