package dto

// ForgetPasswordReq は回復フローのステップ1（アカウント特定）の入力です。
type ForgetPasswordReq struct {
	Identifier string `form:"identifier" json:"identifier"`
}

// ResetPasswordReq は回復フローのステップ2と、認証済みのパスワード変更の
// 両方で使う入力です。どちらも秘密の質問の答えで本人確認します。
type ResetPasswordReq struct {
	SecurityAnswer  string `form:"security_answer" json:"security_answer"`
	NewPassword     string `form:"new_password" json:"new_password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
}
