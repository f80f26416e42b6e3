package service

import (
	"career_os_backend/internal/config"
	"career_os_backend/internal/model"
	"career_os_backend/internal/repository"
	"career_os_backend/internal/util"
	"career_os_backend/pkg/logger"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
)

// PathBuilderService 路径模板生成器：按目标技能和用户当前熟练度
// 选取固定的步骤模板，拼装成一条新路径并让用户入组
type PathBuilderService struct {
	PathRepo  *repository.LearningPathRepository
	SkillRepo *repository.SkillRepository
	Progress  *ProgressService
	AI        *AIService
	Cfg       *config.Config
}

func NewPathBuilderService(
	pathRepo *repository.LearningPathRepository,
	skillRepo *repository.SkillRepository,
	progress *ProgressService,
	ai *AIService,
	cfg *config.Config,
) *PathBuilderService {
	return &PathBuilderService{
		PathRepo:  pathRepo,
		SkillRepo: skillRepo,
		Progress:  progress,
		AI:        ai,
		Cfg:       cfg,
	}
}

type stepTemplate struct {
	titleFormat string
	stepType    model.StepType
}

// 各熟练度档位的标准步骤序列。档位越高序列越短、越偏项目制
var tierTemplates = map[model.ProficiencyLevel][]stepTemplate{
	model.ProficiencyBeginner: {
		{"Introduction to %s", model.StepLearning},
		{"Basic %s Concepts", model.StepLearning},
		{"Hands-on %s Practice", model.StepPractice},
		{"%s Fundamentals Assessment", model.StepAssessment},
	},
	model.ProficiencyIntermediate: {
		{"Advanced %s Techniques", model.StepLearning},
		{"%s Best Practices", model.StepLearning},
		{"Complex %s Project", model.StepProject},
	},
	model.ProficiencyAdvanced: {
		{"Expert %s Patterns", model.StepLearning},
		{"%s Architecture & Design", model.StepLearning},
		{"Master %s Capstone", model.StepProject},
	},
	model.ProficiencyExpert: {
		{"Advanced %s Research", model.StepLearning},
		{"%s Innovation Project", model.StepProject},
	},
}

// buildSkillSteps 为单个技能生成步骤块，order 从 startOrder 连续递增
func buildSkillSteps(skillName string, tier model.ProficiencyLevel, startOrder int) []model.PathStep {
	templates, ok := tierTemplates[tier]
	if !ok {
		templates = tierTemplates[model.ProficiencyBeginner]
	}

	steps := make([]model.PathStep, 0, len(templates))
	order := startOrder
	for _, t := range templates {
		steps = append(steps, model.PathStep{
			UUIDBase:               model.UUIDBase{ID: model.GenerateUUID()},
			Title:                  fmt.Sprintf(t.titleFormat, skillName),
			StepType:               t.stepType,
			StepOrder:              order,
			EstimatedDurationHours: t.stepType.EstimatedHours(),
			IsRequired:             true,
		})
		order++
	}
	return steps
}

// weeksForSkill 技能耗时估计：档位越高周数越少
func weeksForSkill(tier model.ProficiencyLevel, baseWeeks int) int {
	switch tier {
	case model.ProficiencyBeginner:
		return baseWeeks * 2
	case model.ProficiencyIntermediate:
		return baseWeeks
	case model.ProficiencyAdvanced:
		return baseWeeks / 2
	case model.ProficiencyExpert:
		return baseWeeks / 4
	default:
		return baseWeeks * 2
	}
}

// inferCategory 根据目标技能名推断路径类别
func inferCategory(targetSkills []string) model.PathCategory {
	for _, skill := range targetSkills {
		lower := strings.ToLower(skill)
		switch {
		case strings.Contains(lower, "javascript"),
			strings.Contains(lower, "html"),
			strings.Contains(lower, "css"):
			return model.CategoryWebDevelopment
		case strings.Contains(lower, "python"),
			strings.Contains(lower, "data"),
			strings.Contains(lower, "analytics"),
			strings.Contains(lower, "sql"):
			return model.CategoryDataScience
		case strings.Contains(lower, "docker"),
			strings.Contains(lower, "kubernetes"):
			return model.CategoryDevOps
		}
	}
	return model.CategoryProgramming
}

func defaultTitle(targetRole string, targetSkills []string) string {
	if targetRole != "" {
		return "Path to " + targetRole
	}
	if len(targetSkills) > 0 {
		n := len(targetSkills)
		if n > 2 {
			n = 2
		}
		return "Master " + strings.Join(targetSkills[:n], " & ")
	}
	return "Personalized Learning Journey"
}

func defaultDescription(targetRole string, targetSkills []string) string {
	var b strings.Builder
	b.WriteString("A personalized learning path designed to help you achieve your career goals. ")
	if targetRole != "" {
		b.WriteString("This path will prepare you for a role as " + targetRole + ". ")
	}
	if len(targetSkills) > 0 {
		b.WriteString("You'll master key skills including " + strings.Join(targetSkills, ", ") + ". ")
	}
	b.WriteString("The path is tailored to your current skill level and learning preferences.")
	return b.String()
}

type GeneratePathRequest struct {
	TargetSkills         []string   `json:"targetSkills" binding:"required"`
	TargetRole           string     `json:"targetRole"`
	TargetCompletionDate *time.Time `json:"targetCompletionDate"`
	// SkillPrerequisites 可选的跨技能依赖：键为后学技能，值为先学技能。
	// 默认各技能独立，不生成跨技能前置边
	SkillPrerequisites map[string]string `json:"skillPrerequisites"`
}

// GeneratePersonalizedPath 生成个性化路径并让用户入组。
// AI 只负责润色标题/描述，失败时用默认文案顶上，绝不阻塞创建
func (s *PathBuilderService) GeneratePersonalizedPath(userID uint, req GeneratePathRequest) (*model.LearningPath, error) {
	if len(req.TargetSkills) == 0 {
		return nil, util.ErrEmptyTargetSkills
	}

	proficiency, err := s.SkillRepo.ProficiencyMap(userID)
	if err != nil {
		return nil, err
	}
	tierFor := func(skill string) model.ProficiencyLevel {
		if tier, ok := proficiency[skill]; ok {
			return tier
		}
		return model.ProficiencyBeginner
	}

	settings := s.Cfg.AnalyticsSettings()
	baseWeeks := settings.BaseWeeksPerSkill
	if baseWeeks <= 0 {
		baseWeeks = 4
	}

	var steps []model.PathStep
	// 每个技能块的首/末步骤 ID，用于可选的跨技能前置边
	firstStep := make(map[string]string, len(req.TargetSkills))
	lastStep := make(map[string]string, len(req.TargetSkills))
	totalWeeks := 0
	rankSum := 0.0
	order := 1

	for _, skill := range req.TargetSkills {
		tier := tierFor(skill)
		block := buildSkillSteps(skill, tier, order)
		order += len(block)
		firstStep[skill] = block[0].ID
		lastStep[skill] = block[len(block)-1].ID
		steps = append(steps, block...)
		totalWeeks += weeksForSkill(tier, baseWeeks)
		rankSum += tier.Rank()
	}

	minWeeks := settings.MinDurationWeeks
	if minWeeks <= 0 {
		minWeeks = 2
	}
	if totalWeeks < minWeeks {
		totalWeeks = minWeeks
	}

	// 跨技能前置边：后学技能块的第一步依赖先学技能块的最后一步
	prereqs := make(map[string][]string)
	for dependent, prereq := range req.SkillPrerequisites {
		from, okFrom := lastStep[prereq]
		to, okTo := firstStep[dependent]
		if !okFrom || !okTo {
			return nil, util.ErrForeignPrereq
		}
		prereqs[to] = append(prereqs[to], from)
		for i := range steps {
			if steps[i].ID == to {
				steps[i].Prerequisites = append(steps[i].Prerequisites,
					&model.PathStep{UUIDBase: model.UUIDBase{ID: from}})
			}
		}
	}

	if err := ValidateStepGraph(steps); err != nil {
		return nil, err
	}

	path := &model.LearningPath{
		Title:                  defaultTitle(req.TargetRole, req.TargetSkills),
		Description:            defaultDescription(req.TargetRole, req.TargetSkills),
		Category:               inferCategory(req.TargetSkills),
		DifficultyLevel:        model.ProficiencyFromRank(rankSum / float64(len(req.TargetSkills))),
		EstimatedDurationWeeks: totalWeeks,
		TargetSkills:           req.TargetSkills,
		Steps:                  steps,
	}

	if s.AI != nil {
		prompt := fmt.Sprintf("为一条学习路径生成一句吸引人的标题（不超过 60 字符），目标技能：%s，目标职位：%s",
			strings.Join(req.TargetSkills, ", "), req.TargetRole)
		if title, err := s.AI.GenerateText(prompt); err != nil {
			logger.Log.Warn("AI title generation failed, using default", zap.Error(err))
		} else if title != "" {
			path.Title = title
		}
	}

	if err := s.PathRepo.CreateWithSteps(path, prereqs); err != nil {
		return nil, err
	}

	logger.Log.Info("personalized learning path created",
		zap.Uint("userId", userID),
		zap.String("pathId", path.ID),
		zap.Int("steps", len(path.Steps)))

	if _, err := s.Progress.Enroll(userID, path.ID, req.TargetCompletionDate); err != nil {
		return nil, err
	}

	return path, nil
}
