package controller

import (
	"career_os_backend/internal/model"
	"career_os_backend/internal/service"
	"career_os_backend/internal/util"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

type EnrollmentController struct {
	Progress *service.ProgressService
}

func NewEnrollmentController(progress *service.ProgressService) *EnrollmentController {
	return &EnrollmentController{Progress: progress}
}

type EnrollRequest struct {
	TargetCompletionDate *time.Time `json:"targetCompletionDate"`
}

// Enroll godoc
// @Summary 入组学习路径
// @Description 为当前用户创建入组记录，未指定目标完成时间时按路径预估时长推算
// @Tags 入组
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "路径ID"
// @Param body body EnrollRequest false "目标完成时间"
// @Success 201 {object} util.Response{data=model.UserLearningPath}
// @Failure 404 {object} util.Response "路径不存在"
// @Failure 409 {object} util.Response "已入组该路径"
// @Router /api/learning-paths/{id}/enroll [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req EnrollRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			util.BadRequest(ctx, err.Error())
			return
		}
	}

	enrollment, err := c.Progress.Enroll(user.UserID, ctx.Param("id"), req.TargetCompletionDate)
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Created(ctx, enrollment)
}

// GetEnrollment godoc
// @Summary 获取入组记录
// @Tags 入组
// @Produce json
// @Security BearerAuth
// @Param id path string true "路径ID"
// @Success 200 {object} util.Response{data=model.UserLearningPath}
// @Failure 404 {object} util.Response "入组记录不存在"
// @Router /api/learning-paths/{id}/enrollment [get]
func (c *EnrollmentController) GetEnrollment(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	enrollment, err := c.Progress.GetEnrollment(user.UserID, ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, enrollment)
}

// ListEnrollments godoc
// @Summary 获取当前用户的全部入组记录
// @Tags 入组
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/enrollments [get]
func (c *EnrollmentController) ListEnrollments(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	enrollments, err := c.Progress.ListEnrollments(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"items": enrollments, "total": len(enrollments)})
}

// Pause godoc
// @Summary 暂停学习路径
// @Description 暂停后聚合数据保留，恢复前不参与状态推进
// @Tags 入组
// @Produce json
// @Security BearerAuth
// @Param id path string true "路径ID"
// @Success 200 {object} util.Response{data=model.UserLearningPath}
// @Failure 400 {object} util.Response "当前状态不允许暂停"
// @Router /api/learning-paths/{id}/pause [post]
func (c *EnrollmentController) Pause(ctx *gin.Context) {
	c.transition(ctx, c.Progress.Pause)
}

// Resume godoc
// @Summary 恢复学习路径
// @Tags 入组
// @Produce json
// @Security BearerAuth
// @Param id path string true "路径ID"
// @Success 200 {object} util.Response{data=model.UserLearningPath}
// @Failure 400 {object} util.Response "仅暂停状态可恢复"
// @Router /api/learning-paths/{id}/resume [post]
func (c *EnrollmentController) Resume(ctx *gin.Context) {
	c.transition(ctx, c.Progress.Resume)
}

// Drop godoc
// @Summary 放弃学习路径
// @Tags 入组
// @Produce json
// @Security BearerAuth
// @Param id path string true "路径ID"
// @Success 200 {object} util.Response{data=model.UserLearningPath}
// @Failure 400 {object} util.Response "当前状态不允许放弃"
// @Router /api/learning-paths/{id}/drop [post]
func (c *EnrollmentController) Drop(ctx *gin.Context) {
	c.transition(ctx, c.Progress.Drop)
}

// Unenroll godoc
// @Summary 退出学习路径
// @Description 软删除入组记录，历史步骤进度保留
// @Tags 入组
// @Produce json
// @Security BearerAuth
// @Param id path string true "路径ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response "入组记录不存在"
// @Router /api/learning-paths/{id}/enrollment [delete]
func (c *EnrollmentController) Unenroll(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.Progress.Unenroll(user.UserID, ctx.Param("id")); err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"unenrolled": true})
}

// ExpireEnrollment godoc
// @Summary 标记入组记录过期（管理员）
// @Description 对超过目标完成时间仍未完成的入组记录做过期处理
// @Tags 管理
// @Produce json
// @Security BearerAuth
// @Param userId path int true "用户ID"
// @Param id path string true "路径ID"
// @Success 200 {object} util.Response{data=model.UserLearningPath}
// @Failure 400 {object} util.Response "当前状态不允许过期"
// @Failure 404 {object} util.Response "入组记录不存在"
// @Router /api/admin/users/{userId}/learning-paths/{id}/expire [post]
func (c *EnrollmentController) ExpireEnrollment(ctx *gin.Context) {
	userID, err := strconv.ParseUint(ctx.Param("userId"), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "无效的用户ID")
		return
	}

	enrollment, err := c.Progress.Expire(uint(userID), ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, enrollment)
}

func (c *EnrollmentController) transition(ctx *gin.Context, fn func(uint, string) (*model.UserLearningPath, error)) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	enrollment, err := fn(user.UserID, ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, enrollment)
}
