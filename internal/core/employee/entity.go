package employee

import "time"

// Role は社員の権限を表します。
type Role string

const (
	RoleGeneral Role = "GENERAL"
	RoleAdmin   Role = "ADMIN"
)

// DisplayName は画面表示用の権限名を返します。
func (r Role) DisplayName() string {
	switch r {
	case RoleGeneral:
		return "一般"
	case RoleAdmin:
		return "管理者"
	default:
		return ""
	}
}

// Valid は定義済みの権限かどうかを返します。
func (r Role) Valid() bool {
	switch r {
	case RoleGeneral, RoleAdmin:
		return true
	default:
		return false
	}
}

// Employee は社員エンティティです。
// PasswordHash は認証基盤が管理する値で、このパッケージでは解釈しません。
type Employee struct {
	ID           int64
	Code         string
	Name         string
	Role         Role
	PasswordHash string
	DeleteFlg    bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
