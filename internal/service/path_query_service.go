package service

import (
	"career_os_backend/internal/model"
	"career_os_backend/internal/repository"
	"career_os_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

// PathQueryService 承接路径的读取与元信息维护。
// 结构性修改（步骤增删、依赖调整）不在此暴露，路径一经生成即为不可变图
type PathQueryService struct {
	PathRepo *repository.LearningPathRepository
}

func NewPathQueryService(pathRepo *repository.LearningPathRepository) *PathQueryService {
	return &PathQueryService{PathRepo: pathRepo}
}

func (s *PathQueryService) GetPath(id string) (*model.LearningPath, error) {
	path, err := s.PathRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrPathNotFound
		}
		return nil, err
	}
	return path, nil
}

func (s *PathQueryService) ListPaths(category model.PathCategory, page, limit int) ([]model.LearningPath, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.PathRepo.List(category, page, limit)
}

type UpdatePathRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
}

func (s *PathQueryService) UpdatePathMetadata(id string, req UpdatePathRequest) (*model.LearningPath, error) {
	if _, err := s.GetPath(id); err != nil {
		return nil, err
	}
	if err := s.PathRepo.UpdateMetadata(id, req.Title, req.Description); err != nil {
		return nil, err
	}
	return s.GetPath(id)
}
