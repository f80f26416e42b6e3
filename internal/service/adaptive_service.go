package service

import (
	"career_os_backend/internal/model"
	"career_os_backend/internal/repository"
	"career_os_backend/internal/util"
	"career_os_backend/pkg/logger"
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AdaptiveService 自适应再生成：根据表现分析结果产出一条以补弱为主的
// 新路径。强项不生成复习步骤（刻意不做强化，只做补弱）；
// 新路径与原路径之间没有任何前置边，入组由调用方自行发起
type AdaptiveService struct {
	PathRepo       *repository.LearningPathRepository
	EnrollmentRepo *repository.EnrollmentRepository
	Performance    *PerformanceService
}

func NewAdaptiveService(
	pathRepo *repository.LearningPathRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	performance *PerformanceService,
) *AdaptiveService {
	return &AdaptiveService{
		PathRepo:       pathRepo,
		EnrollmentRepo: enrollmentRepo,
		Performance:    performance,
	}
}

// buildRemediationSteps 每个薄弱点生成"复习 + 加练"两步，
// 按薄弱点识别顺序排列
func buildRemediationSteps(strugglingAreas []string) []model.PathStep {
	steps := make([]model.PathStep, 0, len(strugglingAreas)*2)
	order := 1
	for _, area := range strugglingAreas {
		steps = append(steps, model.PathStep{
			UUIDBase:               model.UUIDBase{ID: model.GenerateUUID()},
			Title:                  "Review: " + area,
			StepType:               model.StepLearning,
			StepOrder:              order,
			EstimatedDurationHours: model.StepLearning.EstimatedHours(),
			IsRequired:             true,
		})
		order++
		steps = append(steps, model.PathStep{
			UUIDBase:               model.UUIDBase{ID: model.GenerateUUID()},
			Title:                  "Extra Practice: " + area,
			StepType:               model.StepPractice,
			StepOrder:              order,
			EstimatedDurationHours: model.StepPractice.EstimatedHours(),
			IsRequired:             true,
		})
		order++
	}
	return steps
}

// RegenerateAdaptivePath 基于用户在当前路径上的表现生成新路径
func (s *AdaptiveService) RegenerateAdaptivePath(ctx context.Context, userID uint, pathID string) (*model.LearningPath, error) {
	if _, err := s.EnrollmentRepo.FindByUserAndPath(userID, pathID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrEnrollmentNotFound
		}
		return nil, err
	}

	source, err := s.PathRepo.FindByID(pathID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrPathNotFound
		}
		return nil, err
	}

	analytics, err := s.Performance.AnalyzePath(ctx, userID, pathID)
	if err != nil {
		return nil, err
	}
	if len(analytics.StrugglingAreas) == 0 {
		return nil, util.ErrNoStrugglingAreas
	}

	adaptive := &model.LearningPath{
		Title:                  "Adaptive Path - " + source.Title,
		Description:            "Personalized path based on your learning performance",
		Category:               source.Category,
		DifficultyLevel:        source.DifficultyLevel,
		TargetSkills:           source.TargetSkills,
		EstimatedDurationWeeks: len(analytics.StrugglingAreas),
		Steps:                  buildRemediationSteps(analytics.StrugglingAreas),
	}

	if err := s.PathRepo.CreateWithSteps(adaptive, nil); err != nil {
		return nil, err
	}

	logger.Log.Info("adaptive learning path created",
		zap.Uint("userId", userID),
		zap.String("sourcePathId", pathID),
		zap.String("pathId", adaptive.ID),
		zap.Int("strugglingAreas", len(analytics.StrugglingAreas)))

	return adaptive, nil
}
