package service

import (
	"career_os_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSkillStepsBeginnerSequence(t *testing.T) {
	steps := buildSkillSteps("Python", model.ProficiencyBeginner, 1)

	require.Len(t, steps, 4)
	assert.Equal(t, "Introduction to Python", steps[0].Title)
	assert.Equal(t, model.StepLearning, steps[0].StepType)
	assert.Equal(t, "Basic Python Concepts", steps[1].Title)
	assert.Equal(t, "Hands-on Python Practice", steps[2].Title)
	assert.Equal(t, model.StepPractice, steps[2].StepType)
	assert.Equal(t, "Python Fundamentals Assessment", steps[3].Title)
	assert.Equal(t, model.StepAssessment, steps[3].StepType)

	for i, step := range steps {
		assert.Equal(t, i+1, step.StepOrder)
		assert.NotEmpty(t, step.ID)
		assert.True(t, step.IsRequired)
		assert.Equal(t, step.StepType.EstimatedHours(), step.EstimatedDurationHours)
	}
}

func TestBuildSkillStepsIntermediateSequence(t *testing.T) {
	steps := buildSkillSteps("Go", model.ProficiencyIntermediate, 5)

	require.Len(t, steps, 3)
	assert.Equal(t, "Advanced Go Techniques", steps[0].Title)
	assert.Equal(t, "Go Best Practices", steps[1].Title)
	assert.Equal(t, "Complex Go Project", steps[2].Title)
	assert.Equal(t, model.StepProject, steps[2].StepType)
	assert.Equal(t, 5, steps[0].StepOrder)
	assert.Equal(t, 7, steps[2].StepOrder)
}

func TestBuildSkillStepsAdvancedSequence(t *testing.T) {
	steps := buildSkillSteps("SQL", model.ProficiencyAdvanced, 1)

	require.Len(t, steps, 3)
	assert.Equal(t, "Expert SQL Patterns", steps[0].Title)
	assert.Equal(t, "SQL Architecture & Design", steps[1].Title)
	assert.Equal(t, "Master SQL Capstone", steps[2].Title)
}

func TestBuildSkillStepsExpertSequence(t *testing.T) {
	steps := buildSkillSteps("Rust", model.ProficiencyExpert, 1)

	require.Len(t, steps, 2)
	assert.Equal(t, "Advanced Rust Research", steps[0].Title)
	assert.Equal(t, "Rust Innovation Project", steps[1].Title)
}

func TestBuildSkillStepsUnknownTierFallsBackToBeginner(t *testing.T) {
	steps := buildSkillSteps("Java", model.ProficiencyLevel("guru"), 1)
	require.Len(t, steps, 4)
	assert.Equal(t, "Introduction to Java", steps[0].Title)
}

func TestWeeksForSkillScalesByTier(t *testing.T) {
	assert.Equal(t, 8, weeksForSkill(model.ProficiencyBeginner, 4))
	assert.Equal(t, 4, weeksForSkill(model.ProficiencyIntermediate, 4))
	assert.Equal(t, 2, weeksForSkill(model.ProficiencyAdvanced, 4))
	assert.Equal(t, 1, weeksForSkill(model.ProficiencyExpert, 4))
}

func TestInferCategory(t *testing.T) {
	assert.Equal(t, model.CategoryWebDevelopment, inferCategory([]string{"JavaScript", "Go"}))
	assert.Equal(t, model.CategoryDataScience, inferCategory([]string{"Python"}))
	assert.Equal(t, model.CategoryDataScience, inferCategory([]string{"Data Analytics"}))
	assert.Equal(t, model.CategoryDevOps, inferCategory([]string{"Kubernetes"}))
	assert.Equal(t, model.CategoryProgramming, inferCategory([]string{"Java"}))
	assert.Equal(t, model.CategoryProgramming, inferCategory(nil))
}

func TestDefaultTitle(t *testing.T) {
	assert.Equal(t, "Path to Backend Engineer", defaultTitle("Backend Engineer", []string{"Go"}))
	assert.Equal(t, "Master Go & SQL", defaultTitle("", []string{"Go", "SQL", "Docker"}))
	assert.Equal(t, "Master Go", defaultTitle("", []string{"Go"}))
	assert.Equal(t, "Personalized Learning Journey", defaultTitle("", nil))
}

func TestDefaultDescriptionMentionsRoleAndSkills(t *testing.T) {
	desc := defaultDescription("Data Analyst", []string{"Python", "SQL"})
	assert.Contains(t, desc, "Data Analyst")
	assert.Contains(t, desc, "Python, SQL")
}

func TestProficiencyFromRankBands(t *testing.T) {
	assert.Equal(t, model.ProficiencyBeginner, model.ProficiencyFromRank(1.0))
	assert.Equal(t, model.ProficiencyIntermediate, model.ProficiencyFromRank(1.5))
	assert.Equal(t, model.ProficiencyAdvanced, model.ProficiencyFromRank(2.5))
	assert.Equal(t, model.ProficiencyExpert, model.ProficiencyFromRank(3.5))
}
