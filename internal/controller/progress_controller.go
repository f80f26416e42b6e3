package controller

import (
	"career_os_backend/internal/service"
	"career_os_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type ProgressController struct {
	Progress *service.ProgressService
}

func NewProgressController(progress *service.ProgressService) *ProgressController {
	return &ProgressController{Progress: progress}
}

// UpdateStepProgress godoc
// @Summary 更新步骤学习进度
// @Description 记录一次学习活动：进度百分比取历史最大值，学习时长累加，达到 100% 自动完成
// @Tags 步骤进度
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "步骤ID"
// @Param body body service.UpdateStepProgressRequest true "进度数据"
// @Success 200 {object} util.Response{data=model.UserStepProgress}
// @Failure 400 {object} util.Response "进度数据非法"
// @Failure 404 {object} util.Response "步骤或入组记录不存在"
// @Router /api/steps/{id}/progress [put]
func (c *ProgressController) UpdateStepProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.UpdateStepProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	progress, err := c.Progress.UpdateStepProgress(ctx.Request.Context(), user.UserID, ctx.Param("id"), req)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, progress)
}

// IncrementAttempt godoc
// @Summary 记录一次步骤尝试
// @Description 尝试次数只增不减，用于薄弱环节识别
// @Tags 步骤进度
// @Produce json
// @Security BearerAuth
// @Param id path string true "步骤ID"
// @Success 200 {object} util.Response{data=model.UserStepProgress}
// @Failure 404 {object} util.Response "步骤或入组记录不存在"
// @Router /api/steps/{id}/attempts [post]
func (c *ProgressController) IncrementAttempt(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	progress, err := c.Progress.IncrementAttempt(user.UserID, ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, progress)
}

// SkipStep godoc
// @Summary 跳过步骤
// @Description 已完成的步骤不允许跳过
// @Tags 步骤进度
// @Produce json
// @Security BearerAuth
// @Param id path string true "步骤ID"
// @Success 200 {object} util.Response{data=model.UserStepProgress}
// @Failure 400 {object} util.Response "已完成的步骤不可跳过"
// @Router /api/steps/{id}/skip [post]
func (c *ProgressController) SkipStep(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	progress, err := c.Progress.SkipStep(ctx.Request.Context(), user.UserID, ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, progress)
}

// FailStep godoc
// @Summary 标记步骤失败
// @Tags 步骤进度
// @Produce json
// @Security BearerAuth
// @Param id path string true "步骤ID"
// @Success 200 {object} util.Response{data=model.UserStepProgress}
// @Failure 400 {object} util.Response "已完成的步骤不可标记失败"
// @Router /api/steps/{id}/fail [post]
func (c *ProgressController) FailStep(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	progress, err := c.Progress.FailStep(ctx.Request.Context(), user.UserID, ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, progress)
}

// ReopenStep godoc
// @Summary 重开已完成的步骤
// @Description 进度归零重新学习，完成时间清空，入组聚合随之回退
// @Tags 步骤进度
// @Produce json
// @Security BearerAuth
// @Param id path string true "步骤ID"
// @Success 200 {object} util.Response{data=model.UserStepProgress}
// @Failure 400 {object} util.Response "仅已完成的步骤可重开"
// @Router /api/steps/{id}/reopen [post]
func (c *ProgressController) ReopenStep(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	progress, err := c.Progress.ReopenStep(ctx.Request.Context(), user.UserID, ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, progress)
}

// GetNextStep godoc
// @Summary 获取下一个可学步骤
// @Description 按步骤顺序返回第一个前置全部完成且自身未完成的步骤；全部完成时返回空
// @Tags 步骤进度
// @Produce json
// @Security BearerAuth
// @Param id path string true "路径ID"
// @Success 200 {object} util.Response
// @Failure 422 {object} util.Response "依赖图死锁，无可推进步骤"
// @Router /api/learning-paths/{id}/next-step [get]
func (c *ProgressController) GetNextStep(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	step, err := c.Progress.GetNextStep(user.UserID, ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	if step == nil {
		util.Success(ctx, gin.H{"completed": true, "nextStep": nil})
		return
	}

	util.Success(ctx, gin.H{"completed": false, "nextStep": step})
}
