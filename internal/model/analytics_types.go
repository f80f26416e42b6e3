package model

import "time"

// swagger:model PathAnalytics
// PathAnalytics 路径维度的表现快照（只读投影，不落库）
type PathAnalytics struct {
	PathID                 string     `json:"pathId"`
	OverallProgress        float64    `json:"overallProgress"`
	CompletedSteps         int        `json:"completedSteps"`
	TotalSteps             int        `json:"totalSteps"`
	TimeSpentMinutes       int        `json:"timeSpentMinutes"`
	AverageStepTimeMinutes float64    `json:"averageStepTimeMinutes"`
	LearningVelocity       float64    `json:"learningVelocity"` // 每周完成步骤数
	StrugglingAreas        []string   `json:"strugglingAreas"`
	StrongAreas            []string   `json:"strongAreas"`
	EstimatedCompletion    *time.Time `json:"estimatedCompletion,omitempty"`
	GeneratedAt            time.Time  `json:"generatedAt"`
}
