package controller

import (
	"career_os_backend/internal/service"
	"career_os_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	Performance *service.PerformanceService
}

func NewAnalyticsController(performance *service.PerformanceService) *AnalyticsController {
	return &AnalyticsController{Performance: performance}
}

// AnalyzePath godoc
// @Summary 获取路径表现分析
// @Description 返回学习速度、薄弱环节、强项与预计完成时间，结果短时缓存
// @Tags 表现分析
// @Produce json
// @Security BearerAuth
// @Param id path string true "路径ID"
// @Success 200 {object} util.Response{data=model.PathAnalytics}
// @Failure 404 {object} util.Response "入组记录不存在"
// @Router /api/learning-paths/{id}/analytics [get]
func (c *AnalyticsController) AnalyzePath(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	analytics, err := c.Performance.AnalyzePath(ctx.Request.Context(), user.UserID, ctx.Param("id"))
	if err != nil {
		util.RespondError(ctx, err)
		return
	}

	util.Success(ctx, analytics)
}
