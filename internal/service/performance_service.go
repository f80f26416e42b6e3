package service

import (
	"career_os_backend/internal/config"
	"career_os_backend/internal/model"
	"career_os_backend/internal/repository"
	"career_os_backend/internal/util"
	"career_os_backend/pkg/logger"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PerformanceService 表现分析：对步骤进度历史做只读投影，
// 不产生任何写入。快照在 Redis 里短期缓存，进度写入时失效
type PerformanceService struct {
	EnrollmentRepo   *repository.EnrollmentRepository
	StepProgressRepo *repository.StepProgressRepository
	Redis            *redis.Client
	Cfg              *config.Config
}

func NewPerformanceService(
	enrollmentRepo *repository.EnrollmentRepository,
	stepProgressRepo *repository.StepProgressRepository,
	rdb *redis.Client,
	cfg *config.Config,
) *PerformanceService {
	return &PerformanceService{
		EnrollmentRepo:   enrollmentRepo,
		StepProgressRepo: stepProgressRepo,
		Redis:            rdb,
		Cfg:              cfg,
	}
}

func analyticsCacheKey(userID uint, pathID string) string {
	return fmt.Sprintf("analytics:%d:%s", userID, pathID)
}

// learningVelocity 每周完成步骤数 = 完成数 / 距最早开始时间的周数。
// 没有任何开始时间时为 0；不足一周按一周算，避免刚起步时的膨胀值
func learningVelocity(progress []model.UserStepProgress, now time.Time) float64 {
	completed := 0
	var earliest *time.Time
	for i := range progress {
		p := &progress[i]
		if p.Completed() {
			completed++
		}
		if p.StartedAt != nil && (earliest == nil || p.StartedAt.Before(*earliest)) {
			earliest = p.StartedAt
		}
	}
	if completed == 0 || earliest == nil {
		return 0
	}

	weeks := now.Sub(*earliest).Hours() / 24 / 7
	if weeks < 1 {
		return float64(completed)
	}
	return float64(completed) / weeks
}

func stepTitle(p *model.UserStepProgress) string {
	if p.Step != nil {
		return p.Step.Title
	}
	return p.StepID
}

// strugglingAreas 尝试次数或耗时超阈值的步骤
func strugglingAreas(progress []model.UserStepProgress, cfg *config.AnalyticsConfig) []string {
	areas := make([]string, 0)
	seen := make(map[string]bool)
	for i := range progress {
		p := &progress[i]
		if p.Attempts > cfg.StruggleAttempts || p.TimeSpentMinutes > cfg.StruggleMinutes {
			title := stepTitle(p)
			if !seen[title] {
				seen[title] = true
				areas = append(areas, title)
			}
		}
	}
	return areas
}

// strongAreas 快速完成（低于阈值）的步骤
func strongAreas(progress []model.UserStepProgress, cfg *config.AnalyticsConfig) []string {
	areas := make([]string, 0)
	seen := make(map[string]bool)
	for i := range progress {
		p := &progress[i]
		if p.Completed() && p.TimeSpentMinutes < cfg.StrongMinutes {
			title := stepTitle(p)
			if !seen[title] {
				seen[title] = true
				areas = append(areas, title)
			}
		}
	}
	return areas
}

// estimateCompletion 完成日期预估：velocity > 0 时为
// now + 剩余步骤/velocity 周；velocity 为 0 回退到入组时的目标日期，
// 避免除零和荒谬的无限远估计
func estimateCompletion(e *model.UserLearningPath, velocity float64, now time.Time) *time.Time {
	if e.ProgressPercentage >= 100 {
		return e.CompletedAt
	}
	if velocity <= 0 {
		return e.TargetCompletionDate
	}

	remaining := e.TotalSteps - e.CompletedSteps
	if remaining < 0 {
		remaining = 0
	}
	days := int(float64(remaining) / velocity * 7)
	eta := now.AddDate(0, 0, days)
	return &eta
}

func averageStepTime(progress []model.UserStepProgress) float64 {
	total := 0
	count := 0
	for i := range progress {
		if progress[i].Completed() {
			total += progress[i].TimeSpentMinutes
			count++
		}
	}
	if count == 0 {
		return 0
	}
	return float64(total) / float64(count)
}

// AnalyzePath 生成某条路径的表现快照，命中缓存直接返回
func (s *PerformanceService) AnalyzePath(ctx context.Context, userID uint, pathID string) (*model.PathAnalytics, error) {
	key := analyticsCacheKey(userID, pathID)
	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, key).Result(); err == nil {
			var snapshot model.PathAnalytics
			if json.Unmarshal([]byte(cached), &snapshot) == nil {
				return &snapshot, nil
			}
		}
	}

	enrollment, err := s.EnrollmentRepo.FindByUserAndPath(userID, pathID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrEnrollmentNotFound
		}
		return nil, err
	}

	progress, err := s.StepProgressRepo.FindByUserAndPath(userID, pathID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	velocity := learningVelocity(progress, now)
	settings := s.Cfg.AnalyticsSettings()

	snapshot := &model.PathAnalytics{
		PathID:                 pathID,
		OverallProgress:        enrollment.ProgressPercentage,
		CompletedSteps:         enrollment.CompletedSteps,
		TotalSteps:             enrollment.TotalSteps,
		TimeSpentMinutes:       enrollment.TimeSpentMinutes,
		AverageStepTimeMinutes: averageStepTime(progress),
		LearningVelocity:       velocity,
		StrugglingAreas:        strugglingAreas(progress, &settings),
		StrongAreas:            strongAreas(progress, &settings),
		EstimatedCompletion:    estimateCompletion(enrollment, velocity, now),
		GeneratedAt:            now,
	}

	if s.Redis != nil {
		if data, err := json.Marshal(snapshot); err == nil {
			ttl := time.Duration(settings.CacheTTLSeconds) * time.Second
			if err := s.Redis.Set(ctx, key, data, ttl).Err(); err != nil {
				logger.Log.Warn("failed to cache analytics snapshot", zap.Error(err))
			}
		}
	}

	return snapshot, nil
}

// Invalidate 进度写入后使缓存失效，下次查询重算
func (s *PerformanceService) Invalidate(ctx context.Context, userID uint, pathID string) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, analyticsCacheKey(userID, pathID)).Err(); err != nil {
		logger.Log.Warn("failed to invalidate analytics cache", zap.Error(err))
	}
}
