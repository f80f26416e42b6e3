package service

import (
	"career_os_backend/internal/config"
	"career_os_backend/internal/model"
	"career_os_backend/internal/repository"
	"career_os_backend/internal/util"
	"career_os_backend/pkg/logger"
	"career_os_backend/pkg/monitoring"
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ProgressService 步骤进度状态机与入组状态机的宿主。
// 同一 (用户, 路径) 上的聚合重算通过入组记录的版本号做乐观并发控制
type ProgressService struct {
	PathRepo         *repository.LearningPathRepository
	EnrollmentRepo   *repository.EnrollmentRepository
	StepProgressRepo *repository.StepProgressRepository
	Performance      *PerformanceService
	Cfg              *config.Config
}

func NewProgressService(
	pathRepo *repository.LearningPathRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	stepProgressRepo *repository.StepProgressRepository,
	performance *PerformanceService,
	cfg *config.Config,
) *ProgressService {
	return &ProgressService{
		PathRepo:         pathRepo,
		EnrollmentRepo:   enrollmentRepo,
		StepProgressRepo: stepProgressRepo,
		Performance:      performance,
		Cfg:              cfg,
	}
}

// applyProgress 步骤状态机的转移函数（纯函数，只改内存对象）。
// 进度百分比取 max(当前, 本次)，普通更新永不回退；
// 达到 100 进入 completed 并冻结在 100，重复调用幂等
func applyProgress(p *model.UserStepProgress, pct float64, minutesDelta int, notes string, now time.Time) error {
	if pct < 0 || pct > 100 || minutesDelta < 0 {
		return util.ErrInvalidProgress
	}

	p.TimeSpentMinutes += minutesDelta
	if pct > p.ProgressPercentage {
		p.ProgressPercentage = pct
	}
	if notes != "" {
		p.Notes = notes
	}
	p.LastAccessedAt = &now

	if p.ProgressPercentage >= 100 {
		p.ProgressPercentage = 100
		if p.Status != model.StepCompleted {
			p.Status = model.StepCompleted
			completedAt := now
			p.CompletedAt = &completedAt
		}
	} else if p.ProgressPercentage > 0 && p.Status == model.StepNotStarted {
		p.Status = model.StepInProgress
		startedAt := now
		p.StartedAt = &startedAt
	}

	return nil
}

// recomputeAggregate 入组聚合重算（纯函数）：完成数/快照总数*100。
// 快照为 0 时直接归零，避免除零。暂停/放弃/过期状态只更新数值，
// 状态本身不被重算改变（恢复需要显式操作）
func recomputeAggregate(e *model.UserLearningPath, progress []model.UserStepProgress, now time.Time) {
	completed := 0
	timeSpent := 0
	for i := range progress {
		if progress[i].Completed() {
			completed++
		}
		timeSpent += progress[i].TimeSpentMinutes
	}

	e.CompletedSteps = completed
	e.TimeSpentMinutes = timeSpent
	e.LastAccessedAt = &now

	if e.TotalSteps == 0 {
		e.ProgressPercentage = 0
		return
	}

	pct := float64(completed) / float64(e.TotalSteps) * 100
	if pct > 100 {
		pct = 100
	}
	e.ProgressPercentage = pct

	if e.Status.Inactive() {
		return
	}

	switch {
	case pct >= 100:
		if e.Status != model.EnrollmentCompleted {
			e.Status = model.EnrollmentCompleted
			completedAt := now
			e.CompletedAt = &completedAt
		}
	case e.Status == model.EnrollmentCompleted:
		// 只有显式 reopen 之后才可能走到这里
		e.Status = model.EnrollmentInProgress
		e.CompletedAt = nil
	case pct > 0 && e.Status == model.EnrollmentEnrolled:
		e.Status = model.EnrollmentInProgress
		if e.StartedAt == nil {
			startedAt := now
			e.StartedAt = &startedAt
		}
	}
}

type UpdateStepProgressRequest struct {
	ProgressPercentage float64 `json:"progressPercentage" binding:"min=0,max=100"`
	TimeSpentMinutes   int     `json:"timeSpentMinutes" binding:"min=0"`
	Notes              string  `json:"notes"`
}

// UpdateStepProgress 记录一次学习活动并触发所属入组记录的聚合重算。
// 重算是强制耦合：聚合值是派生量，不允许独立漂移
func (s *ProgressService) UpdateStepProgress(ctx context.Context, userID uint, stepID string, req UpdateStepProgressRequest) (*model.UserStepProgress, error) {
	step, err := s.PathRepo.FindStepByID(stepID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrStepNotFound
		}
		return nil, err
	}

	if _, err := s.findEnrollment(userID, step.PathID); err != nil {
		return nil, err
	}

	progress, err := s.writeStepProgress(userID, step, func(p *model.UserStepProgress) error {
		return applyProgress(p, req.ProgressPercentage, req.TimeSpentMinutes, req.Notes, time.Now())
	})
	if err != nil {
		return nil, err
	}

	if err := s.recomputeEnrollment(ctx, userID, step.PathID); err != nil {
		return nil, err
	}

	return progress, nil
}

// IncrementAttempt 尝试计数自增，不改变状态，因此不触发聚合重算
func (s *ProgressService) IncrementAttempt(userID uint, stepID string) (*model.UserStepProgress, error) {
	step, err := s.PathRepo.FindStepByID(stepID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrStepNotFound
		}
		return nil, err
	}

	if _, err := s.findEnrollment(userID, step.PathID); err != nil {
		return nil, err
	}

	return s.writeStepProgress(userID, step, func(p *model.UserStepProgress) error {
		now := time.Now()
		p.Attempts++
		p.LastAccessedAt = &now
		return nil
	})
}

// SkipStep 跳过步骤（已完成的步骤不能跳过）
func (s *ProgressService) SkipStep(ctx context.Context, userID uint, stepID string) (*model.UserStepProgress, error) {
	return s.transitionStep(ctx, userID, stepID, model.StepSkipped)
}

// FailStep 标记步骤失败
func (s *ProgressService) FailStep(ctx context.Context, userID uint, stepID string) (*model.UserStepProgress, error) {
	return s.transitionStep(ctx, userID, stepID, model.StepFailed)
}

func (s *ProgressService) transitionStep(ctx context.Context, userID uint, stepID string, target model.StepStatus) (*model.UserStepProgress, error) {
	step, err := s.PathRepo.FindStepByID(stepID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrStepNotFound
		}
		return nil, err
	}

	if _, err := s.findEnrollment(userID, step.PathID); err != nil {
		return nil, err
	}

	progress, err := s.writeStepProgress(userID, step, func(p *model.UserStepProgress) error {
		if p.Status == model.StepCompleted {
			return util.ErrStepNotReopenable
		}
		now := time.Now()
		p.Status = target
		p.LastAccessedAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.recomputeEnrollment(ctx, userID, step.PathID); err != nil {
		return nil, err
	}
	return progress, nil
}

// writeStepProgress 步骤进度的统一写入口。并发首写撞 (user_id, step_id)
// 唯一键时，重读赢家的行后在其之上重放 mutate，重试次数与聚合重算共用配置
func (s *ProgressService) writeStepProgress(userID uint, step *model.PathStep, mutate func(*model.UserStepProgress) error) (*model.UserStepProgress, error) {
	retries := s.Cfg.AnalyticsSettings().RecomputeRetries
	if retries <= 0 {
		retries = 3
	}

	var err error
	for attempt := 0; attempt < retries; attempt++ {
		var progress *model.UserStepProgress
		progress, err = s.StepProgressRepo.FindOrInit(userID, step)
		if err != nil {
			return nil, err
		}

		if err = mutate(progress); err != nil {
			return nil, err
		}

		err = s.StepProgressRepo.Save(progress)
		if err == nil {
			return progress, nil
		}
		if err != util.ErrStaleWrite {
			return nil, err
		}
		monitoring.RecomputeConflicts.Inc()
		logger.Log.Warn("step progress write conflict, retrying",
			zap.Uint("userId", userID),
			zap.String("stepId", step.ID),
			zap.Int("attempt", attempt+1))
	}
	return nil, err
}

// ReopenStep 显式重开一个已完成的步骤。状态机默认不允许 completed
// 回退，这是唯一的例外路径：进度归零、完成时间清空，耗时和
// 尝试次数作为历史保留
func (s *ProgressService) ReopenStep(ctx context.Context, userID uint, stepID string) (*model.UserStepProgress, error) {
	progress, err := s.StepProgressRepo.FindByUserAndStep(userID, stepID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrStepNotFound
		}
		return nil, err
	}
	if progress.Status != model.StepCompleted {
		return nil, util.ErrStepNotReopenable
	}

	if _, err := s.findEnrollment(userID, progress.PathID); err != nil {
		return nil, err
	}

	now := time.Now()
	progress.Status = model.StepInProgress
	progress.ProgressPercentage = 0
	progress.CompletedAt = nil
	progress.LastAccessedAt = &now

	if err := s.StepProgressRepo.Save(progress); err != nil {
		return nil, err
	}
	if err := s.recomputeEnrollment(ctx, userID, progress.PathID); err != nil {
		return nil, err
	}
	return progress, nil
}

// recomputeEnrollment 读全量步骤进度、全量重算、带版本号写回。
// 版本冲突说明同一入组记录上有并发重算，整体重读重试，
// 超出重试次数后把冲突抛给调用方
func (s *ProgressService) recomputeEnrollment(ctx context.Context, userID uint, pathID string) error {
	retries := s.Cfg.AnalyticsSettings().RecomputeRetries
	if retries <= 0 {
		retries = 3
	}

	var err error
	for attempt := 0; attempt < retries; attempt++ {
		var enrollment *model.UserLearningPath
		enrollment, err = s.EnrollmentRepo.FindByUserAndPath(userID, pathID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return util.ErrEnrollmentNotFound
			}
			return err
		}

		var progress []model.UserStepProgress
		progress, err = s.StepProgressRepo.FindByUserAndPath(userID, pathID)
		if err != nil {
			return err
		}

		recomputeAggregate(enrollment, progress, time.Now())

		err = s.EnrollmentRepo.UpdateAggregate(enrollment)
		if err == nil {
			if s.Performance != nil {
				s.Performance.Invalidate(ctx, userID, pathID)
			}
			return nil
		}
		if err != util.ErrStaleWrite {
			return err
		}
		monitoring.RecomputeConflicts.Inc()
		logger.Log.Warn("enrollment recompute conflict, retrying",
			zap.Uint("userId", userID),
			zap.String("pathId", pathID),
			zap.Int("attempt", attempt+1))
	}
	return err
}

// Enroll 入组：快照当前步骤总数，后续路径被编辑也不影响该快照
func (s *ProgressService) Enroll(userID uint, pathID string, targetDate *time.Time) (*model.UserLearningPath, error) {
	path, err := s.PathRepo.FindByID(pathID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrPathNotFound
		}
		return nil, err
	}

	if _, err := s.EnrollmentRepo.FindByUserAndPath(userID, pathID); err == nil {
		return nil, util.ErrAlreadyEnrolled
	} else if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	now := time.Now()
	if targetDate == nil {
		t := now.AddDate(0, 0, path.EstimatedDurationWeeks*7)
		targetDate = &t
	}

	enrollment := &model.UserLearningPath{
		UserID:               userID,
		PathID:               pathID,
		Status:               model.EnrollmentEnrolled,
		TotalSteps:           path.TotalSteps(),
		EnrolledAt:           now,
		TargetCompletionDate: targetDate,
	}
	if err := s.EnrollmentRepo.Create(enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

// Pause 显式暂停；只对 enrolled/in_progress 有效
func (s *ProgressService) Pause(userID uint, pathID string) (*model.UserLearningPath, error) {
	return s.transitionEnrollment(userID, pathID, model.EnrollmentPaused)
}

// Drop 显式放弃
func (s *ProgressService) Drop(userID uint, pathID string) (*model.UserLearningPath, error) {
	return s.transitionEnrollment(userID, pathID, model.EnrollmentDropped)
}

// Expire 管理操作：标记过期
func (s *ProgressService) Expire(userID uint, pathID string) (*model.UserLearningPath, error) {
	return s.transitionEnrollment(userID, pathID, model.EnrollmentExpired)
}

func (s *ProgressService) transitionEnrollment(userID uint, pathID string, target model.EnrollmentStatus) (*model.UserLearningPath, error) {
	enrollment, err := s.findEnrollment(userID, pathID)
	if err != nil {
		return nil, err
	}
	if enrollment.Status != model.EnrollmentEnrolled && enrollment.Status != model.EnrollmentInProgress {
		return nil, util.ErrEnrollmentInactive
	}

	enrollment.Status = target
	if err := s.EnrollmentRepo.Save(enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

// Resume 从暂停恢复。有进度回到 in_progress，否则回到 enrolled
func (s *ProgressService) Resume(userID uint, pathID string) (*model.UserLearningPath, error) {
	enrollment, err := s.findEnrollment(userID, pathID)
	if err != nil {
		return nil, err
	}
	if enrollment.Status != model.EnrollmentPaused {
		return nil, util.ErrEnrollmentNotPaused
	}

	if enrollment.ProgressPercentage > 0 {
		enrollment.Status = model.EnrollmentInProgress
	} else {
		enrollment.Status = model.EnrollmentEnrolled
	}
	if err := s.EnrollmentRepo.Save(enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

// Unenroll 退出路径：软删除入组记录；步骤进度永久保留，
// 作为表现分析的历史数据
func (s *ProgressService) Unenroll(userID uint, pathID string) error {
	enrollment, err := s.findEnrollment(userID, pathID)
	if err != nil {
		return err
	}
	return s.EnrollmentRepo.Delete(enrollment)
}

// GetNextStep 面向调用方的"下一步"查询。(nil, nil) 表示路径已全部完成
func (s *ProgressService) GetNextStep(userID uint, pathID string) (*model.PathStep, error) {
	path, err := s.PathRepo.FindByID(pathID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrPathNotFound
		}
		return nil, err
	}

	if _, err := s.findEnrollment(userID, pathID); err != nil {
		return nil, err
	}

	completed, err := s.StepProgressRepo.CompletedStepIDs(userID, pathID)
	if err != nil {
		return nil, err
	}

	return NextStep(path.Steps, completed)
}

func (s *ProgressService) GetEnrollment(userID uint, pathID string) (*model.UserLearningPath, error) {
	return s.findEnrollment(userID, pathID)
}

func (s *ProgressService) ListEnrollments(userID uint) ([]model.UserLearningPath, error) {
	return s.EnrollmentRepo.ListByUser(userID)
}

func (s *ProgressService) findEnrollment(userID uint, pathID string) (*model.UserLearningPath, error) {
	enrollment, err := s.EnrollmentRepo.FindByUserAndPath(userID, pathID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrEnrollmentNotFound
		}
		return nil, err
	}
	return enrollment, nil
}
