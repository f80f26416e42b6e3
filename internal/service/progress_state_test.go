package service

import (
	"career_os_backend/internal/model"
	"career_os_backend/internal/util"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func TestApplyProgressRejectsInvalidInput(t *testing.T) {
	p := &model.UserStepProgress{Status: model.StepNotStarted}

	assert.ErrorIs(t, applyProgress(p, -1, 0, "", testNow), util.ErrInvalidProgress)
	assert.ErrorIs(t, applyProgress(p, 101, 0, "", testNow), util.ErrInvalidProgress)
	assert.ErrorIs(t, applyProgress(p, 50, -10, "", testNow), util.ErrInvalidProgress)
	assert.Equal(t, model.StepNotStarted, p.Status)
}

func TestApplyProgressStartsStep(t *testing.T) {
	p := &model.UserStepProgress{Status: model.StepNotStarted}

	require.NoError(t, applyProgress(p, 30, 45, "first session", testNow))
	assert.Equal(t, model.StepInProgress, p.Status)
	assert.Equal(t, 30.0, p.ProgressPercentage)
	assert.Equal(t, 45, p.TimeSpentMinutes)
	assert.Equal(t, "first session", p.Notes)
	require.NotNil(t, p.StartedAt)
	assert.Equal(t, testNow, *p.StartedAt)
	assert.Nil(t, p.CompletedAt)
}

func TestApplyProgressPercentageNeverRegresses(t *testing.T) {
	p := &model.UserStepProgress{Status: model.StepInProgress, ProgressPercentage: 60}

	require.NoError(t, applyProgress(p, 40, 30, "", testNow))
	assert.Equal(t, 60.0, p.ProgressPercentage)
	// 时长仍然累加
	assert.Equal(t, 30, p.TimeSpentMinutes)
}

func TestApplyProgressAccumulatesTime(t *testing.T) {
	p := &model.UserStepProgress{Status: model.StepInProgress, TimeSpentMinutes: 100}

	require.NoError(t, applyProgress(p, 10, 20, "", testNow))
	assert.Equal(t, 120, p.TimeSpentMinutes)
}

func TestApplyProgressCompletesAtHundred(t *testing.T) {
	p := &model.UserStepProgress{Status: model.StepInProgress, ProgressPercentage: 80}

	require.NoError(t, applyProgress(p, 100, 60, "", testNow))
	assert.Equal(t, model.StepCompleted, p.Status)
	assert.Equal(t, 100.0, p.ProgressPercentage)
	require.NotNil(t, p.CompletedAt)
	assert.Equal(t, testNow, *p.CompletedAt)
}

func TestApplyProgressDoubleCompleteIsIdempotent(t *testing.T) {
	p := &model.UserStepProgress{Status: model.StepInProgress}
	require.NoError(t, applyProgress(p, 100, 60, "", testNow))
	firstCompletedAt := *p.CompletedAt

	later := testNow.Add(2 * time.Hour)
	require.NoError(t, applyProgress(p, 100, 30, "", later))

	assert.Equal(t, model.StepCompleted, p.Status)
	assert.Equal(t, 100.0, p.ProgressPercentage)
	// 完成时间冻结在首次完成，时长继续累加
	assert.Equal(t, firstCompletedAt, *p.CompletedAt)
	assert.Equal(t, 90, p.TimeSpentMinutes)
}

func completedProgress(minutes int) model.UserStepProgress {
	return model.UserStepProgress{Status: model.StepCompleted, TimeSpentMinutes: minutes}
}

func TestRecomputeAggregateTwoOfFour(t *testing.T) {
	e := &model.UserLearningPath{
		Status:     model.EnrollmentEnrolled,
		TotalSteps: 4,
	}
	progress := []model.UserStepProgress{
		completedProgress(60),
		completedProgress(90),
		{Status: model.StepInProgress, TimeSpentMinutes: 30},
		{Status: model.StepNotStarted},
	}

	recomputeAggregate(e, progress, testNow)

	assert.Equal(t, 50.0, e.ProgressPercentage)
	assert.Equal(t, 2, e.CompletedSteps)
	assert.Equal(t, 180, e.TimeSpentMinutes)
	assert.Equal(t, model.EnrollmentInProgress, e.Status)
	require.NotNil(t, e.StartedAt)
}

func TestRecomputeAggregateZeroSnapshot(t *testing.T) {
	e := &model.UserLearningPath{
		Status:     model.EnrollmentEnrolled,
		TotalSteps: 0,
	}

	recomputeAggregate(e, nil, testNow)

	assert.Equal(t, 0.0, e.ProgressPercentage)
	assert.Equal(t, 0, e.CompletedSteps)
	assert.Equal(t, model.EnrollmentEnrolled, e.Status)
}

func TestRecomputeAggregateCompletesEnrollment(t *testing.T) {
	e := &model.UserLearningPath{
		Status:     model.EnrollmentInProgress,
		TotalSteps: 2,
	}
	progress := []model.UserStepProgress{
		completedProgress(60),
		completedProgress(45),
	}

	recomputeAggregate(e, progress, testNow)

	assert.Equal(t, 100.0, e.ProgressPercentage)
	assert.Equal(t, model.EnrollmentCompleted, e.Status)
	require.NotNil(t, e.CompletedAt)
}

func TestRecomputeAggregateClampsOverSnapshot(t *testing.T) {
	// 快照后路径缩水时完成数可能超过快照，百分比封顶在 100
	e := &model.UserLearningPath{
		Status:     model.EnrollmentInProgress,
		TotalSteps: 2,
	}
	progress := []model.UserStepProgress{
		completedProgress(10),
		completedProgress(10),
		completedProgress(10),
	}

	recomputeAggregate(e, progress, testNow)

	assert.Equal(t, 100.0, e.ProgressPercentage)
	assert.Equal(t, 3, e.CompletedSteps)
}

func TestRecomputeAggregateKeepsInactiveStatus(t *testing.T) {
	for _, status := range []model.EnrollmentStatus{
		model.EnrollmentPaused,
		model.EnrollmentDropped,
		model.EnrollmentExpired,
	} {
		e := &model.UserLearningPath{Status: status, TotalSteps: 2}
		progress := []model.UserStepProgress{completedProgress(30)}

		recomputeAggregate(e, progress, testNow)

		// 数值更新，状态不被重算拉回
		assert.Equal(t, 50.0, e.ProgressPercentage)
		assert.Equal(t, status, e.Status)
	}
}

func TestRecomputeAggregateAfterReopenRevertsCompletion(t *testing.T) {
	completedAt := testNow.Add(-24 * time.Hour)
	e := &model.UserLearningPath{
		Status:      model.EnrollmentCompleted,
		TotalSteps:  2,
		CompletedAt: &completedAt,
	}
	progress := []model.UserStepProgress{
		completedProgress(60),
		{Status: model.StepInProgress},
	}

	recomputeAggregate(e, progress, testNow)

	assert.Equal(t, 50.0, e.ProgressPercentage)
	assert.Equal(t, model.EnrollmentInProgress, e.Status)
	assert.Nil(t, e.CompletedAt)
}
