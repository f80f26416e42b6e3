package model

import "time"

// StepStatus 单个步骤的学习状态
type StepStatus string

const (
	StepNotStarted StepStatus = "not_started"
	StepInProgress StepStatus = "in_progress"
	StepCompleted  StepStatus = "completed"
	StepSkipped    StepStatus = "skipped"
	StepFailed     StepStatus = "failed"
)

// swagger:model UserStepProgress
// UserStepProgress 用户对单个步骤的学习记录。首次交互时惰性创建，
// 永不删除，作为表现分析的历史数据。(user_id, step_id) 数据库级唯一：
// 并发首写只有一方能插入，后写者在唯一键上冲突后重读赢家的行续写
type UserStepProgress struct {
	UUIDBase
	UserID             uint       `gorm:"index:idx_step_progress_user_path,priority:1;uniqueIndex:idx_step_progress_user_step,priority:1;not null" json:"userId"`
	PathID             string     `gorm:"type:varchar(36);index:idx_step_progress_user_path,priority:2;not null" json:"pathId"`
	StepID             string     `gorm:"type:varchar(36);uniqueIndex:idx_step_progress_user_step,priority:2;not null" json:"stepId"`
	Step               *PathStep  `gorm:"foreignKey:StepID" json:"step,omitempty"`
	Status             StepStatus `gorm:"size:20;not null;default:'not_started';index" json:"status"`
	ProgressPercentage float64    `gorm:"default:0" json:"progressPercentage"`
	TimeSpentMinutes   int        `gorm:"default:0" json:"timeSpentMinutes"`
	Attempts           int        `gorm:"default:0" json:"attempts"`
	Notes              string     `gorm:"size:1000" json:"notes"`
	StartedAt          *time.Time `json:"startedAt,omitempty"`
	CompletedAt        *time.Time `json:"completedAt,omitempty"`
	LastAccessedAt     *time.Time `json:"lastAccessedAt,omitempty"`
}

func (UserStepProgress) TableName() string {
	return "user_step_progress"
}

func (p *UserStepProgress) Completed() bool {
	return p.Status == StepCompleted
}
