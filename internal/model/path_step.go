package model

// StepType 步骤类型（封闭枚举）
type StepType string

const (
	StepLearning    StepType = "learning"
	StepPractice    StepType = "practice"
	StepAssessment  StepType = "assessment"
	StepProject     StepType = "project"
	StepReading     StepType = "reading"
	StepVideo       StepType = "video"
	StepInteractive StepType = "interactive"
	StepMilestone   StepType = "milestone"
)

// stepTypeHours 各类型的默认预估时长（小时）
var stepTypeHours = map[StepType]int{
	StepLearning:    4,
	StepPractice:    6,
	StepAssessment:  2,
	StepProject:     12,
	StepReading:     2,
	StepVideo:       3,
	StepInteractive: 5,
	StepMilestone:   1,
}

func (t StepType) Valid() bool {
	_, ok := stepTypeHours[t]
	return ok
}

func (t StepType) EstimatedHours() int {
	if h, ok := stepTypeHours[t]; ok {
		return h
	}
	return 4
}

// swagger:model PathStep
// PathStep 路径中的单个步骤。StepOrder 在路径内唯一，定义默认推进顺序；
// 前置步骤必须属于同一路径且不允许成环
type PathStep struct {
	UUIDBase
	PathID                 string      `gorm:"type:varchar(36);not null;uniqueIndex:idx_path_step_order,priority:1" json:"pathId"`
	Title                  string      `gorm:"size:200;not null" json:"title"`
	Description            string      `gorm:"size:1000" json:"description"`
	StepType               StepType    `gorm:"size:20;not null" json:"stepType"`
	StepOrder              int         `gorm:"not null;uniqueIndex:idx_path_step_order,priority:2" json:"stepOrder"`
	EstimatedDurationHours int         `gorm:"default:0" json:"estimatedDurationHours"`
	IsRequired             bool        `gorm:"default:true" json:"isRequired"`
	Prerequisites          []*PathStep `gorm:"many2many:path_step_prerequisites" json:"prerequisites,omitempty"`
}

func (PathStep) TableName() string {
	return "path_steps"
}

func (s *PathStep) PrerequisiteIDs() []string {
	ids := make([]string, 0, len(s.Prerequisites))
	for _, p := range s.Prerequisites {
		ids = append(ids, p.ID)
	}
	return ids
}
