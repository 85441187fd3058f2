package models

import (
	"fmt"
	"time"
)

// Role is the closed set of back-office roles. Agents report to a
// leader; leaders and agents carry a commission wallet.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleLeader Role = "leader"
	RoleAgent  Role = "agent"
)

func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleLeader, RoleAgent:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// HasWallet reports whether users with this role get a wallet at
// creation time.
func (r Role) HasWallet() bool {
	return r == RoleAgent || r == RoleLeader
}

type User struct {
	ID        int       `gorm:"primaryKey;autoIncrement" json:"id"`
	Username  string    `gorm:"column:username;size:255;not null;uniqueIndex" json:"username"`
	Role      Role      `gorm:"column:role;size:20;not null" json:"role"`
	LeaderId  *int      `gorm:"column:leader_id;index" json:"leader_id,omitempty"`
	Phone     string    `gorm:"column:phone;size:50" json:"phone"`
	Status    int       `gorm:"column:status;default:1" json:"status"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
