package util

import "errors"

var (
	ErrUserNotFound    = errors.New("用户不存在")
	ErrEmailRegistered = errors.New("该邮箱已被注册")

	// 校验类错误：调用方输入有误，立即拒绝，不落任何状态
	ErrEmptyTargetSkills = errors.New("path must target at least one skill")
	ErrInvalidStepType   = errors.New("invalid step type")
	ErrForeignPrereq     = errors.New("prerequisite step belongs to another path")
	ErrInvalidProgress   = errors.New("progress percentage out of range")

	// 图结构损坏：与"路径已全部完成"区分开
	ErrGraphDeadlock = errors.New("step graph deadlock: cyclic or orphaned prerequisites")

	// 同一入组记录上的并发重算冲突，调用方整体重试
	ErrStaleWrite = errors.New("enrollment modified concurrently")

	ErrPathNotFound        = errors.New("learning path not found")
	ErrStepNotFound        = errors.New("path step not found")
	ErrEnrollmentNotFound  = errors.New("user not enrolled in this learning path")
	ErrAlreadyEnrolled     = errors.New("user already enrolled in this learning path")
	ErrEnrollmentInactive  = errors.New("enrollment is paused, dropped or expired")
	ErrStepNotReopenable   = errors.New("only completed steps can be reopened")
	ErrEnrollmentNotPaused = errors.New("enrollment is not paused")
	ErrNoStrugglingAreas   = errors.New("no struggling areas identified for this enrollment")
)
