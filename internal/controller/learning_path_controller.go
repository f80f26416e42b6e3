package controller

import (
	"career_os_backend/internal/model"
	"career_os_backend/internal/service"
	"career_os_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type LearningPathController struct {
	Builder  *service.PathBuilderService
	Adaptive *service.AdaptiveService
	Paths    *service.PathQueryService
}

func NewLearningPathController(builder *service.PathBuilderService, adaptive *service.AdaptiveService, paths *service.PathQueryService) *LearningPathController {
	return &LearningPathController{
		Builder:  builder,
		Adaptive: adaptive,
		Paths:    paths,
	}
}

// GeneratePath godoc
// @Summary 生成个性化学习路径
// @Description 根据目标技能与用户当前掌握程度生成分层的学习路径，并自动入组
// @Tags 学习路径
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.GeneratePathRequest true "目标技能与目标岗位"
// @Success 201 {object} util.Response{data=model.LearningPath}
// @Failure 400 {object} util.Response "目标技能为空"
// @Failure 409 {object} util.Response "已入组该路径"
// @Router /api/learning-paths/generate [post]
func (c *LearningPathController) GeneratePath(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.GeneratePathRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	path, err := c.Builder.GeneratePersonalizedPath(user.UserID, req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Created(ctx, path)
}

// GetPath godoc
// @Summary 获取学习路径详情
// @Description 返回路径及按序排列的全部步骤（含前置依赖）
// @Tags 学习路径
// @Produce json
// @Security BearerAuth
// @Param id path string true "路径ID"
// @Success 200 {object} util.Response{data=model.LearningPath}
// @Failure 404 {object} util.Response "路径不存在"
// @Router /api/learning-paths/{id} [get]
func (c *LearningPathController) GetPath(ctx *gin.Context) {
	path, err := c.Paths.GetPath(ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, path)
}

// ListPaths godoc
// @Summary 获取学习路径列表
// @Tags 学习路径
// @Produce json
// @Security BearerAuth
// @Param category query string false "路径分类 (programming/web_development/data_science/devops/design)"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Success 200 {object} util.Response
// @Router /api/learning-paths [get]
func (c *LearningPathController) ListPaths(ctx *gin.Context) {
	category := model.PathCategory(ctx.Query("category"))
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	paths, total, err := c.Paths.ListPaths(category, page, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": paths, "total": total})
}

// UpdatePath godoc
// @Summary 更新学习路径元信息
// @Description 仅允许修改标题和描述，步骤结构不可变
// @Tags 学习路径
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "路径ID"
// @Param body body service.UpdatePathRequest true "标题与描述"
// @Success 200 {object} util.Response{data=model.LearningPath}
// @Failure 404 {object} util.Response "路径不存在"
// @Router /api/learning-paths/{id} [patch]
func (c *LearningPathController) UpdatePath(ctx *gin.Context) {
	var req service.UpdatePathRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	path, err := c.Paths.UpdatePathMetadata(ctx.Param("id"), req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, path)
}

// RegenerateAdaptivePath godoc
// @Summary 生成自适应补强路径
// @Description 基于表现分析中的薄弱环节，为当前入组路径生成复习与强化练习步骤组成的新路径
// @Tags 学习路径
// @Produce json
// @Security BearerAuth
// @Param id path string true "原路径ID"
// @Success 201 {object} util.Response{data=model.LearningPath}
// @Failure 400 {object} util.Response "未发现薄弱环节"
// @Failure 404 {object} util.Response "入组记录不存在"
// @Router /api/learning-paths/{id}/adaptive [post]
func (c *LearningPathController) RegenerateAdaptivePath(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	path, err := c.Adaptive.RegenerateAdaptivePath(ctx.Request.Context(), user.UserID, ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Created(ctx, path)
}
