// Package dto はauthフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
// 空フィールドの検査はワークフロー側がメッセージ込みで行うため、bindingタグは
// 型の変換だけに使います。
package dto

// LoginReq は/auth/loginエンドポイントのリクエストボディを表します。
// Identifierはユーザー名またはメールアドレスです。
type LoginReq struct {
	Identifier string `form:"identifier" json:"identifier"`
	Password   string `form:"password" json:"password"`
	Remember   bool   `form:"remember" json:"remember"`
}
