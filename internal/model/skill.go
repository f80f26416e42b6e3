package model

// ProficiencyLevel 用户对某技能的熟练程度（四档）
type ProficiencyLevel string

const (
	ProficiencyBeginner     ProficiencyLevel = "beginner"
	ProficiencyIntermediate ProficiencyLevel = "intermediate"
	ProficiencyAdvanced     ProficiencyLevel = "advanced"
	ProficiencyExpert       ProficiencyLevel = "expert"
)

// Rank 返回熟练度的数值等级（1~4），未知值按初学者处理
func (p ProficiencyLevel) Rank() float64 {
	switch p {
	case ProficiencyBeginner:
		return 1
	case ProficiencyIntermediate:
		return 2
	case ProficiencyAdvanced:
		return 3
	case ProficiencyExpert:
		return 4
	default:
		return 1
	}
}

func ProficiencyFromRank(rank float64) ProficiencyLevel {
	switch {
	case rank >= 3.5:
		return ProficiencyExpert
	case rank >= 2.5:
		return ProficiencyAdvanced
	case rank >= 1.5:
		return ProficiencyIntermediate
	default:
		return ProficiencyBeginner
	}
}

// swagger:model Skill
// Skill 技能节点，前置技能构成只读的有向无环图
type Skill struct {
	UUIDBase
	Name          string   `gorm:"size:100;uniqueIndex;not null" json:"name"`
	Category      string   `gorm:"size:100" json:"category"`
	Description   string   `gorm:"size:1000" json:"description"`
	Prerequisites []*Skill `gorm:"many2many:skill_prerequisites" json:"prerequisites,omitempty"`
}

func (Skill) TableName() string {
	return "skills"
}

// swagger:model UserSkill
type UserSkill struct {
	BaseModel
	UserID           uint             `gorm:"index:idx_user_skill;not null" json:"userId"`
	SkillID          string           `gorm:"type:varchar(36);index:idx_user_skill;not null" json:"skillId"`
	Skill            *Skill           `gorm:"foreignKey:SkillID" json:"skill,omitempty"`
	ProficiencyLevel ProficiencyLevel `gorm:"size:20;default:'beginner'" json:"proficiencyLevel"`
}

func (UserSkill) TableName() string {
	return "user_skills"
}
