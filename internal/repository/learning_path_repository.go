package repository

import (
	"career_os_backend/internal/model"

	"gorm.io/gorm"
)

type LearningPathRepository struct {
	DB *gorm.DB
}

func NewLearningPathRepository(db *gorm.DB) *LearningPathRepository {
	return &LearningPathRepository{DB: db}
}

// CreateWithSteps 在单个事务里写入路径、步骤和步骤间的前置边。
// prereqs 以步骤 ID 为键、前置步骤 ID 列表为值（邻接表，同路径内）
func (r *LearningPathRepository) CreateWithSteps(path *model.LearningPath, prereqs map[string][]string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Steps").Create(path).Error; err != nil {
			return err
		}
		for i := range path.Steps {
			path.Steps[i].PathID = path.ID
			if err := tx.Omit("Prerequisites").Create(&path.Steps[i]).Error; err != nil {
				return err
			}
		}
		for i := range path.Steps {
			step := &path.Steps[i]
			ids := prereqs[step.ID]
			if len(ids) == 0 {
				continue
			}
			refs := make([]*model.PathStep, 0, len(ids))
			for _, id := range ids {
				refs = append(refs, &model.PathStep{UUIDBase: model.UUIDBase{ID: id}})
			}
			if err := tx.Model(step).Association("Prerequisites").Append(refs); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *LearningPathRepository) FindByID(id string) (*model.LearningPath, error) {
	var p model.LearningPath
	err := r.DB.
		Preload("Steps", func(db *gorm.DB) *gorm.DB {
			return db.Order("step_order asc")
		}).
		Preload("Steps.Prerequisites").
		Where("id = ?", id).First(&p).Error
	return &p, err
}

func (r *LearningPathRepository) List(category model.PathCategory, page, limit int) ([]model.LearningPath, int64, error) {
	var paths []model.LearningPath
	var total int64
	query := r.DB.Model(&model.LearningPath{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&paths).Error
	return paths, total, err
}

// UpdateMetadata 步骤生成之后路径只允许改元数据
func (r *LearningPathRepository) UpdateMetadata(id, title, description string) error {
	updates := map[string]interface{}{}
	if title != "" {
		updates["title"] = title
	}
	if description != "" {
		updates["description"] = description
	}
	if len(updates) == 0 {
		return nil
	}
	return r.DB.Model(&model.LearningPath{}).Where("id = ?", id).Updates(updates).Error
}

func (r *LearningPathRepository) FindStepByID(id string) (*model.PathStep, error) {
	var s model.PathStep
	err := r.DB.Preload("Prerequisites").Where("id = ?", id).First(&s).Error
	return &s, err
}
