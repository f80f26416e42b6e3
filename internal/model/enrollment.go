package model

import "time"

// EnrollmentStatus 用户在某条路径上的参与状态
type EnrollmentStatus string

const (
	EnrollmentEnrolled   EnrollmentStatus = "enrolled"
	EnrollmentInProgress EnrollmentStatus = "in_progress"
	EnrollmentCompleted  EnrollmentStatus = "completed"
	EnrollmentPaused     EnrollmentStatus = "paused"
	EnrollmentDropped    EnrollmentStatus = "dropped"
	EnrollmentExpired    EnrollmentStatus = "expired"
)

// Inactive 暂停/放弃/过期状态。聚合重算不会把这些状态拉回 in_progress，
// 需要显式的 resume 操作
func (s EnrollmentStatus) Inactive() bool {
	return s == EnrollmentPaused || s == EnrollmentDropped || s == EnrollmentExpired
}

// swagger:model UserLearningPath
// UserLearningPath 入组记录（一个用户 × 一条路径）。
// ProgressPercentage 为派生值，只能通过聚合重算写入；
// Version 用于乐观并发控制，同一条入组记录的重算互斥
type UserLearningPath struct {
	BaseModel
	UserID               uint             `gorm:"index:idx_enrollment_user_path,priority:1;not null" json:"userId"`
	PathID               string           `gorm:"type:varchar(36);index:idx_enrollment_user_path,priority:2;not null" json:"pathId"`
	Path                 *LearningPath    `gorm:"foreignKey:PathID" json:"path,omitempty"`
	Status               EnrollmentStatus `gorm:"size:20;not null;default:'enrolled';index" json:"status"`
	ProgressPercentage   float64          `gorm:"default:0" json:"progressPercentage"`
	CompletedSteps       int              `gorm:"default:0" json:"completedSteps"`
	TotalSteps           int              `gorm:"default:0" json:"totalSteps"`
	TimeSpentMinutes     int              `gorm:"default:0" json:"timeSpentMinutes"`
	EnrolledAt           time.Time        `gorm:"not null" json:"enrolledAt"`
	StartedAt            *time.Time       `json:"startedAt,omitempty"`
	CompletedAt          *time.Time       `json:"completedAt,omitempty"`
	LastAccessedAt       *time.Time       `json:"lastAccessedAt,omitempty"`
	TargetCompletionDate *time.Time       `json:"targetCompletionDate,omitempty"`
	Version              int64            `gorm:"default:0" json:"-"`
}

func (UserLearningPath) TableName() string {
	return "user_learning_paths"
}
