package dto

// RegisterReq は/auth/registerエンドポイントのリクエストボディを表します。
type RegisterReq struct {
	FullName         string `form:"full_name" json:"full_name"`
	Username         string `form:"username" json:"username"`
	Email            string `form:"email" json:"email"`
	Password         string `form:"password" json:"password"`
	ConfirmPassword  string `form:"confirm_password" json:"confirm_password"`
	Phone            string `form:"phone" json:"phone"`
	Address          string `form:"address" json:"address"`
	Role             string `form:"role" json:"role"`
	SecurityQuestion string `form:"security_question" json:"security_question"`
	SecurityAnswer   string `form:"security_answer" json:"security_answer"`
}
