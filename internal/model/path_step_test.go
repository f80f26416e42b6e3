package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStepTypeEstimatedHours(t *testing.T) {
	assert.Equal(t, 4, StepLearning.EstimatedHours())
	assert.Equal(t, 6, StepPractice.EstimatedHours())
	assert.Equal(t, 2, StepAssessment.EstimatedHours())
	assert.Equal(t, 12, StepProject.EstimatedHours())
	assert.Equal(t, 2, StepReading.EstimatedHours())
	assert.Equal(t, 3, StepVideo.EstimatedHours())
	assert.Equal(t, 5, StepInteractive.EstimatedHours())
	assert.Equal(t, 1, StepMilestone.EstimatedHours())
	// 未知类型回退到 learning 的默认值
	assert.Equal(t, 4, StepType("unknown").EstimatedHours())
}

func TestStepTypeValid(t *testing.T) {
	assert.True(t, StepLearning.Valid())
	assert.True(t, StepMilestone.Valid())
	assert.False(t, StepType("quiz").Valid())
	assert.False(t, StepType("").Valid())
}

func TestPrerequisiteIDs(t *testing.T) {
	step := PathStep{
		Prerequisites: []*PathStep{
			{UUIDBase: UUIDBase{ID: "a"}},
			{UUIDBase: UUIDBase{ID: "b"}},
		},
	}
	assert.Equal(t, []string{"a", "b"}, step.PrerequisiteIDs())
	assert.Empty(t, (&PathStep{}).PrerequisiteIDs())
}

func TestEnrollmentStatusInactive(t *testing.T) {
	assert.True(t, EnrollmentPaused.Inactive())
	assert.True(t, EnrollmentDropped.Inactive())
	assert.True(t, EnrollmentExpired.Inactive())
	assert.False(t, EnrollmentEnrolled.Inactive())
	assert.False(t, EnrollmentInProgress.Inactive())
	assert.False(t, EnrollmentCompleted.Inactive())
}
