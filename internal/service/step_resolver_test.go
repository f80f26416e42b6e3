package service

import (
	"career_os_backend/internal/model"
	"career_os_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeStep(id string, order int, prereqIDs ...string) model.PathStep {
	step := model.PathStep{
		UUIDBase:  model.UUIDBase{ID: id},
		Title:     "Step " + id,
		StepType:  model.StepLearning,
		StepOrder: order,
	}
	for _, pid := range prereqIDs {
		step.Prerequisites = append(step.Prerequisites,
			&model.PathStep{UUIDBase: model.UUIDBase{ID: pid}})
	}
	return step
}

func TestNextStepReturnsFirstWithoutPrerequisites(t *testing.T) {
	steps := []model.PathStep{
		makeStep("a", 1),
		makeStep("b", 2, "a"),
		makeStep("c", 3, "b"),
	}

	next, err := NextStep(steps, map[string]bool{})
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, "a", next.ID)
}

func TestNextStepSkipsCompletedAndGatesOnPrerequisites(t *testing.T) {
	steps := []model.PathStep{
		makeStep("a", 1),
		makeStep("b", 2, "a"),
		makeStep("c", 3, "a", "b"),
	}

	next, err := NextStep(steps, map[string]bool{"a": true})
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, "b", next.ID)

	next, err = NextStep(steps, map[string]bool{"a": true, "b": true})
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, "c", next.ID)
}

func TestNextStepIgnoresInputOrder(t *testing.T) {
	// 输入切片乱序，仍按 StepOrder 选取
	steps := []model.PathStep{
		makeStep("c", 3, "b"),
		makeStep("a", 1),
		makeStep("b", 2, "a"),
	}

	next, err := NextStep(steps, map[string]bool{})
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, "a", next.ID)
}

func TestNextStepAllCompletedReturnsNil(t *testing.T) {
	steps := []model.PathStep{
		makeStep("a", 1),
		makeStep("b", 2, "a"),
	}

	next, err := NextStep(steps, map[string]bool{"a": true, "b": true})
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestNextStepDeadlockedGraph(t *testing.T) {
	// b 和 c 互为前置：都未完成，也都不可达
	steps := []model.PathStep{
		makeStep("a", 1),
		makeStep("b", 2, "c"),
		makeStep("c", 3, "b"),
	}

	next, err := NextStep(steps, map[string]bool{"a": true})
	assert.Nil(t, next)
	assert.ErrorIs(t, err, util.ErrGraphDeadlock)
}

func TestNextStepEmptyPath(t *testing.T) {
	next, err := NextStep(nil, map[string]bool{})
	require.NoError(t, err)
	assert.Nil(t, next)
}

func TestValidateStepGraphAcceptsLinearChain(t *testing.T) {
	steps := []model.PathStep{
		makeStep("a", 1),
		makeStep("b", 2, "a"),
		makeStep("c", 3, "b"),
	}
	assert.NoError(t, ValidateStepGraph(steps))
}

func TestValidateStepGraphAcceptsDiamond(t *testing.T) {
	steps := []model.PathStep{
		makeStep("a", 1),
		makeStep("b", 2, "a"),
		makeStep("c", 3, "a"),
		makeStep("d", 4, "b", "c"),
	}
	assert.NoError(t, ValidateStepGraph(steps))
}

func TestValidateStepGraphRejectsCycle(t *testing.T) {
	steps := []model.PathStep{
		makeStep("a", 1, "c"),
		makeStep("b", 2, "a"),
		makeStep("c", 3, "b"),
	}
	assert.ErrorIs(t, ValidateStepGraph(steps), util.ErrGraphDeadlock)
}

func TestValidateStepGraphRejectsSelfLoop(t *testing.T) {
	steps := []model.PathStep{
		makeStep("a", 1, "a"),
	}
	assert.ErrorIs(t, ValidateStepGraph(steps), util.ErrGraphDeadlock)
}

func TestValidateStepGraphRejectsForeignPrerequisite(t *testing.T) {
	steps := []model.PathStep{
		makeStep("a", 1),
		makeStep("b", 2, "other-path-step"),
	}
	assert.ErrorIs(t, ValidateStepGraph(steps), util.ErrForeignPrereq)
}
