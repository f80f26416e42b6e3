package repository

import (
	"career_os_backend/internal/model"

	"gorm.io/gorm"
)

type SkillRepository struct {
	DB *gorm.DB
}

func NewSkillRepository(db *gorm.DB) *SkillRepository {
	return &SkillRepository{DB: db}
}

func (r *SkillRepository) FindByName(name string) (*model.Skill, error) {
	var s model.Skill
	err := r.DB.Preload("Prerequisites").Where("name = ?", name).First(&s).Error
	return &s, err
}

func (r *SkillRepository) ListSkills(category string, page, limit int) ([]model.Skill, int64, error) {
	var skills []model.Skill
	var total int64
	query := r.DB.Model(&model.Skill{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("name asc").Offset(offset).Limit(limit).Find(&skills).Error
	return skills, total, err
}

func (r *SkillRepository) GetUserSkills(userID uint) ([]model.UserSkill, error) {
	var skills []model.UserSkill
	err := r.DB.Preload("Skill").Where("user_id = ?", userID).Find(&skills).Error
	return skills, err
}

// ProficiencyFor 返回用户对某技能（按名称）的熟练度，无记录时视为初学者
func (r *SkillRepository) ProficiencyFor(userID uint, skillName string) (model.ProficiencyLevel, error) {
	var us model.UserSkill
	err := r.DB.Joins("JOIN skills ON skills.id = user_skills.skill_id").
		Where("user_skills.user_id = ? AND skills.name = ?", userID, skillName).
		First(&us).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return model.ProficiencyBeginner, nil
		}
		return model.ProficiencyBeginner, err
	}
	return us.ProficiencyLevel, nil
}

// ProficiencyMap 一次性取回用户全部技能熟练度，按技能名索引
func (r *SkillRepository) ProficiencyMap(userID uint) (map[string]model.ProficiencyLevel, error) {
	skills, err := r.GetUserSkills(userID)
	if err != nil {
		return nil, err
	}
	m := make(map[string]model.ProficiencyLevel, len(skills))
	for _, us := range skills {
		if us.Skill != nil {
			m[us.Skill.Name] = us.ProficiencyLevel
		}
	}
	return m, nil
}

func (r *SkillRepository) UpsertUserSkill(userID uint, skillID string, level model.ProficiencyLevel) error {
	var us model.UserSkill
	err := r.DB.Where("user_id = ? AND skill_id = ?", userID, skillID).First(&us).Error
	if err == gorm.ErrRecordNotFound {
		return r.DB.Create(&model.UserSkill{
			UserID:           userID,
			SkillID:          skillID,
			ProficiencyLevel: level,
		}).Error
	}
	if err != nil {
		return err
	}
	us.ProficiencyLevel = level
	return r.DB.Save(&us).Error
}
