package repository

import (
	"career_os_backend/internal/model"
	"career_os_backend/internal/util"

	"gorm.io/gorm"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

func (r *EnrollmentRepository) Create(e *model.UserLearningPath) error {
	return r.DB.Create(e).Error
}

func (r *EnrollmentRepository) FindByUserAndPath(userID uint, pathID string) (*model.UserLearningPath, error) {
	var e model.UserLearningPath
	err := r.DB.Where("user_id = ? AND path_id = ?", userID, pathID).First(&e).Error
	return &e, err
}

func (r *EnrollmentRepository) ListByUser(userID uint) ([]model.UserLearningPath, error) {
	var es []model.UserLearningPath
	err := r.DB.Preload("Path").Where("user_id = ?", userID).
		Order("enrolled_at desc").Find(&es).Error
	return es, err
}

// Save 普通状态变更（暂停/恢复/放弃等显式操作）
func (r *EnrollmentRepository) Save(e *model.UserLearningPath) error {
	return r.DB.Save(e).Error
}

// UpdateAggregate 聚合重算结果落库。带版本号条件更新，
// 同一入组记录上的并发重算只有一个能成功，其余拿到 ErrStaleWrite
func (r *EnrollmentRepository) UpdateAggregate(e *model.UserLearningPath) error {
	res := r.DB.Model(&model.UserLearningPath{}).
		Where("id = ? AND version = ?", e.ID, e.Version).
		Updates(map[string]interface{}{
			"status":              e.Status,
			"progress_percentage": e.ProgressPercentage,
			"completed_steps":     e.CompletedSteps,
			"time_spent_minutes":  e.TimeSpentMinutes,
			"started_at":          e.StartedAt,
			"completed_at":        e.CompletedAt,
			"last_accessed_at":    e.LastAccessedAt,
			"version":             e.Version + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return util.ErrStaleWrite
	}
	e.Version++
	return nil
}

// Delete 退出路径：软删除入组记录，步骤进度保留作历史
func (r *EnrollmentRepository) Delete(e *model.UserLearningPath) error {
	return r.DB.Delete(e).Error
}
