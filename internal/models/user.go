package models

import "time"

// Role values recognised across the platform.
const (
	RoleStudent = "student"
	RoleTeacher = "teacher"
	RoleAdmin   = "admin"
)

// User represents a platform account. Account management itself lives in a
// separate service; the grading API only reads users for ownership checks
// and ranking aggregation.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Role      string    `gorm:"size:20;not null;default:student" json:"role"`
	IsActive  bool      `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CanManageActivities reports whether the user may create or edit activities.
func (u User) CanManageActivities() bool {
	return u.Role == RoleTeacher || u.Role == RoleAdmin
}
