package model

type PathCategory string

const (
	CategoryProgramming    PathCategory = "programming"
	CategoryWebDevelopment PathCategory = "web_development"
	CategoryDataScience    PathCategory = "data_science"
	CategoryDevOps         PathCategory = "devops"
	CategoryDesign         PathCategory = "design"
)

// swagger:model LearningPath
// LearningPath 学习路径。步骤生成之后只允许修改标题/描述等元数据
type LearningPath struct {
	UUIDBase
	Title                  string           `gorm:"size:200;not null" json:"title"`
	Description            string           `gorm:"size:2000" json:"description"`
	Category               PathCategory     `gorm:"size:50;not null;index" json:"category"`
	DifficultyLevel        ProficiencyLevel `gorm:"size:20;not null;index" json:"difficultyLevel"`
	EstimatedDurationWeeks int              `gorm:"default:0" json:"estimatedDurationWeeks"`
	TargetSkills           []string         `gorm:"serializer:json;type:text" json:"targetSkills"`
	Steps                  []PathStep       `gorm:"foreignKey:PathID" json:"steps,omitempty"`
}

func (LearningPath) TableName() string {
	return "learning_paths"
}

// TotalSteps 派生值，入组时快照到 UserLearningPath.TotalSteps
func (p *LearningPath) TotalSteps() int {
	return len(p.Steps)
}
