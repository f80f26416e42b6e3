package service

import (
	"career_os_backend/internal/config"
	"career_os_backend/internal/model"
	"career_os_backend/internal/repository"
	"career_os_backend/internal/util"
	"career_os_backend/pkg/logger"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// newProgressTestDB 每个测试一个独立的内存库，TranslateError 打开后
// 唯一键冲突和生产环境一样翻译成 gorm.ErrDuplicatedKey
func newProgressTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.LearningPath{},
		&model.PathStep{},
		&model.UserLearningPath{},
		&model.UserStepProgress{},
	))
	return db
}

func newProgressTestService(t *testing.T) (*ProgressService, *gorm.DB) {
	t.Helper()
	if logger.Log == nil {
		logger.Log = zap.NewNop()
	}
	db := newProgressTestDB(t)
	return NewProgressService(
		repository.NewLearningPathRepository(db),
		repository.NewEnrollmentRepository(db),
		repository.NewStepProgressRepository(db),
		nil,
		&config.Config{},
	), db
}

func seedTwoStepPath(t *testing.T, db *gorm.DB) *model.LearningPath {
	t.Helper()
	path := &model.LearningPath{
		Title:           "Go 后端入门",
		Category:        model.CategoryProgramming,
		DifficultyLevel: model.ProficiencyBeginner,
		Steps: []model.PathStep{
			{Title: "语法基础", StepType: model.StepLearning, StepOrder: 1},
			{Title: "并发实战", StepType: model.StepPractice, StepOrder: 2},
		},
	}
	require.NoError(t, repository.NewLearningPathRepository(db).CreateWithSteps(path, nil))
	return path
}

func countProgressRows(t *testing.T, db *gorm.DB, userID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&model.UserStepProgress{}).Where("user_id = ?", userID).Count(&n).Error)
	return n
}

func TestStepWritesRequireEnrollment(t *testing.T) {
	svc, db := newProgressTestService(t)
	path := seedTwoStepPath(t, db)
	stepID := path.Steps[0].ID
	ctx := context.Background()

	_, err := svc.UpdateStepProgress(ctx, 7, stepID, UpdateStepProgressRequest{ProgressPercentage: 50})
	assert.ErrorIs(t, err, util.ErrEnrollmentNotFound)

	_, err = svc.IncrementAttempt(7, stepID)
	assert.ErrorIs(t, err, util.ErrEnrollmentNotFound)

	_, err = svc.SkipStep(ctx, 7, stepID)
	assert.ErrorIs(t, err, util.ErrEnrollmentNotFound)

	_, err = svc.FailStep(ctx, 7, stepID)
	assert.ErrorIs(t, err, util.ErrEnrollmentNotFound)

	// 被拒绝的写入不允许留下任何半成品记录
	assert.EqualValues(t, 0, countProgressRows(t, db, 7))
}

func TestStepProgressFirstWriteConflict(t *testing.T) {
	svc, db := newProgressTestService(t)
	path := seedTwoStepPath(t, db)
	step := &path.Steps[0]
	repo := repository.NewStepProgressRepository(db)

	_, err := svc.Enroll(7, path.ID, nil)
	require.NoError(t, err)

	// 两个请求同时对同一步骤做首次写入：各自 FindOrInit 都拿到
	// 未落库的记录，落库时只有一方能赢下唯一键
	first, err := repo.FindOrInit(7, step)
	require.NoError(t, err)
	second, err := repo.FindOrInit(7, step)
	require.NoError(t, err)

	first.Attempts = 1
	require.NoError(t, repo.Save(first))

	second.Attempts = 1
	assert.ErrorIs(t, repo.Save(second), util.ErrStaleWrite)
	assert.EqualValues(t, 1, countProgressRows(t, db, 7))

	// 服务层走重试路径：重读赢家的行后在其之上续写
	progress, err := svc.IncrementAttempt(7, step.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, progress.ID)
	assert.Equal(t, 2, progress.Attempts)
	assert.EqualValues(t, 1, countProgressRows(t, db, 7))
}

func TestAggregateCountsDistinctStepsOnly(t *testing.T) {
	svc, db := newProgressTestService(t)
	path := seedTwoStepPath(t, db)
	ctx := context.Background()

	_, err := svc.Enroll(7, path.ID, nil)
	require.NoError(t, err)

	// 同一步骤完成两次（幂等重放），不允许把完成数翻倍
	_, err = svc.UpdateStepProgress(ctx, 7, path.Steps[0].ID, UpdateStepProgressRequest{ProgressPercentage: 100})
	require.NoError(t, err)
	_, err = svc.UpdateStepProgress(ctx, 7, path.Steps[0].ID, UpdateStepProgressRequest{ProgressPercentage: 100})
	require.NoError(t, err)

	assert.EqualValues(t, 1, countProgressRows(t, db, 7))

	enrollment, err := svc.GetEnrollment(7, path.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, enrollment.CompletedSteps)
	assert.Equal(t, 50.0, enrollment.ProgressPercentage)
	assert.Equal(t, model.EnrollmentInProgress, enrollment.Status)
}

func TestExpireEnrollment(t *testing.T) {
	svc, db := newProgressTestService(t)
	path := seedTwoStepPath(t, db)

	_, err := svc.Enroll(7, path.ID, nil)
	require.NoError(t, err)

	enrollment, err := svc.Expire(7, path.ID)
	require.NoError(t, err)
	assert.Equal(t, model.EnrollmentExpired, enrollment.Status)

	// 已过期的入组记录不再接受状态流转
	_, err = svc.Expire(7, path.ID)
	assert.ErrorIs(t, err, util.ErrEnrollmentInactive)

	_, err = svc.Expire(7, "missing-path")
	assert.ErrorIs(t, err, util.ErrEnrollmentNotFound)
}
