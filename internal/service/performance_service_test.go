package service

import (
	"career_os_backend/internal/config"
	"career_os_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testAnalyticsCfg = config.AnalyticsConfig{
	StruggleAttempts: 3,
	StruggleMinutes:  480,
	StrongMinutes:    120,
}

func titledProgress(title string, status model.StepStatus, attempts, minutes int) model.UserStepProgress {
	return model.UserStepProgress{
		StepID:           "id-" + title,
		Step:             &model.PathStep{Title: title},
		Status:           status,
		Attempts:         attempts,
		TimeSpentMinutes: minutes,
	}
}

func TestStrugglingAreasByAttempts(t *testing.T) {
	progress := []model.UserStepProgress{
		titledProgress("Recursion", model.StepInProgress, 5, 60),
		titledProgress("Loops", model.StepCompleted, 1, 30),
	}

	areas := strugglingAreas(progress, &testAnalyticsCfg)
	assert.Equal(t, []string{"Recursion"}, areas)
}

func TestStrugglingAreasByTimeSpent(t *testing.T) {
	progress := []model.UserStepProgress{
		titledProgress("Pointers", model.StepInProgress, 1, 500),
	}

	areas := strugglingAreas(progress, &testAnalyticsCfg)
	assert.Equal(t, []string{"Pointers"}, areas)
}

func TestStrugglingAreasThresholdsAreExclusive(t *testing.T) {
	// 恰好等于阈值不算薄弱
	progress := []model.UserStepProgress{
		titledProgress("Arrays", model.StepInProgress, 3, 480),
	}

	areas := strugglingAreas(progress, &testAnalyticsCfg)
	assert.Empty(t, areas)
}

func TestStrongAreasRequireCompletion(t *testing.T) {
	progress := []model.UserStepProgress{
		titledProgress("Variables", model.StepCompleted, 1, 90),
		titledProgress("Functions", model.StepInProgress, 1, 90),
		titledProgress("Closures", model.StepCompleted, 1, 120),
	}

	areas := strongAreas(progress, &testAnalyticsCfg)
	// 未完成的不算强项；恰好等于阈值的也不算
	assert.Equal(t, []string{"Variables"}, areas)
}

func TestAreasDedupByTitle(t *testing.T) {
	progress := []model.UserStepProgress{
		titledProgress("Recursion", model.StepInProgress, 5, 0),
		titledProgress("Recursion", model.StepFailed, 4, 0),
	}

	areas := strugglingAreas(progress, &testAnalyticsCfg)
	assert.Equal(t, []string{"Recursion"}, areas)
}

func TestStepTitleFallsBackToID(t *testing.T) {
	p := model.UserStepProgress{StepID: "some-step-id"}
	assert.Equal(t, "some-step-id", stepTitle(&p))
}

func TestLearningVelocityNoActivity(t *testing.T) {
	now := time.Now()
	assert.Equal(t, 0.0, learningVelocity(nil, now))

	progress := []model.UserStepProgress{
		{Status: model.StepInProgress},
	}
	assert.Equal(t, 0.0, learningVelocity(progress, now))
}

func TestLearningVelocityUnderOneWeekUsesRawCount(t *testing.T) {
	now := time.Now()
	started := now.Add(-48 * time.Hour)
	progress := []model.UserStepProgress{
		{Status: model.StepCompleted, StartedAt: &started},
		{Status: model.StepCompleted, StartedAt: &started},
		{Status: model.StepCompleted, StartedAt: &started},
	}

	assert.Equal(t, 3.0, learningVelocity(progress, now))
}

func TestLearningVelocityPerWeek(t *testing.T) {
	now := time.Now()
	started := now.AddDate(0, 0, -14)
	progress := []model.UserStepProgress{
		{Status: model.StepCompleted, StartedAt: &started},
		{Status: model.StepCompleted, StartedAt: &started},
		{Status: model.StepCompleted, StartedAt: &started},
		{Status: model.StepCompleted, StartedAt: &started},
	}

	assert.InDelta(t, 2.0, learningVelocity(progress, now), 0.01)
}

func TestLearningVelocityUsesEarliestStart(t *testing.T) {
	now := time.Now()
	early := now.AddDate(0, 0, -28)
	late := now.AddDate(0, 0, -7)
	progress := []model.UserStepProgress{
		{Status: model.StepCompleted, StartedAt: &late},
		{Status: model.StepCompleted, StartedAt: &early},
	}

	assert.InDelta(t, 0.5, learningVelocity(progress, now), 0.01)
}

func TestEstimateCompletionCompletedPath(t *testing.T) {
	completedAt := time.Now().Add(-time.Hour)
	e := &model.UserLearningPath{
		ProgressPercentage: 100,
		CompletedAt:        &completedAt,
	}

	eta := estimateCompletion(e, 2, time.Now())
	require.NotNil(t, eta)
	assert.Equal(t, completedAt, *eta)
}

func TestEstimateCompletionZeroVelocityFallsBackToTarget(t *testing.T) {
	target := time.Now().AddDate(0, 2, 0)
	e := &model.UserLearningPath{
		ProgressPercentage:   10,
		TargetCompletionDate: &target,
	}

	eta := estimateCompletion(e, 0, time.Now())
	require.NotNil(t, eta)
	assert.Equal(t, target, *eta)
}

func TestEstimateCompletionFromVelocity(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	e := &model.UserLearningPath{
		ProgressPercentage: 50,
		TotalSteps:         8,
		CompletedSteps:     4,
	}

	// 剩余 4 步，每周 2 步 → 2 周后
	eta := estimateCompletion(e, 2, now)
	require.NotNil(t, eta)
	assert.Equal(t, now.AddDate(0, 0, 14), *eta)
}

func TestAverageStepTimeOnlyCountsCompleted(t *testing.T) {
	progress := []model.UserStepProgress{
		{Status: model.StepCompleted, TimeSpentMinutes: 60},
		{Status: model.StepCompleted, TimeSpentMinutes: 120},
		{Status: model.StepInProgress, TimeSpentMinutes: 1000},
	}

	assert.Equal(t, 90.0, averageStepTime(progress))
	assert.Equal(t, 0.0, averageStepTime(nil))
}
