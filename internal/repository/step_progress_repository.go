package repository

import (
	"career_os_backend/internal/model"
	"career_os_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

type StepProgressRepository struct {
	DB *gorm.DB
}

func NewStepProgressRepository(db *gorm.DB) *StepProgressRepository {
	return &StepProgressRepository{DB: db}
}

func (r *StepProgressRepository) FindByUserAndStep(userID uint, stepID string) (*model.UserStepProgress, error) {
	var p model.UserStepProgress
	err := r.DB.Where("user_id = ? AND step_id = ?", userID, stepID).First(&p).Error
	return &p, err
}

// FindOrInit 惰性创建：没有记录时返回一条未落库的 not_started 记录
func (r *StepProgressRepository) FindOrInit(userID uint, step *model.PathStep) (*model.UserStepProgress, error) {
	p, err := r.FindByUserAndStep(userID, step.ID)
	if err == gorm.ErrRecordNotFound {
		return &model.UserStepProgress{
			UserID: userID,
			PathID: step.PathID,
			StepID: step.ID,
			Status: model.StepNotStarted,
		}, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Save 冲突语义：并发首写撞 (user_id, step_id) 唯一键时返回
// ErrStaleWrite，调用方重读赢家的行后重试
func (r *StepProgressRepository) Save(p *model.UserStepProgress) error {
	err := r.DB.Save(p).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return util.ErrStaleWrite
	}
	return err
}

func (r *StepProgressRepository) FindByUserAndPath(userID uint, pathID string) ([]model.UserStepProgress, error) {
	var ps []model.UserStepProgress
	err := r.DB.Preload("Step").
		Where("user_id = ? AND path_id = ?", userID, pathID).Find(&ps).Error
	return ps, err
}

// FindAllByUser 全量历史，跨路径，供表现分析使用
func (r *StepProgressRepository) FindAllByUser(userID uint) ([]model.UserStepProgress, error) {
	var ps []model.UserStepProgress
	err := r.DB.Preload("Step").Where("user_id = ?", userID).Find(&ps).Error
	return ps, err
}

func (r *StepProgressRepository) CompletedStepIDs(userID uint, pathID string) (map[string]bool, error) {
	var ids []string
	err := r.DB.Model(&model.UserStepProgress{}).
		Where("user_id = ? AND path_id = ? AND status = ?", userID, pathID, model.StepCompleted).
		Pluck("step_id", &ids).Error
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
