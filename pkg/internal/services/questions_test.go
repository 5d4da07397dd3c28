package services_test

import (
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pollworks/pollbox/pkg/internal/database"
	"github.com/pollworks/pollbox/pkg/internal/models"
	"github.com/pollworks/pollbox/pkg/internal/services"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var sourceSeq int64

// testSource opens a fresh in-memory database. The shared cache keeps every
// pooled connection on the same store.
func testSource(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:services%d?mode=memory&cache=shared", atomic.AddInt64(&sourceSeq, 1))
	source, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Discard,
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigration(source))

	return source
}

func TestNewQuestion_WithChoices(t *testing.T) {
	source := testSource(t)

	question, err := services.NewQuestion(source, models.Question{
		QuestionText: "What is your favorite framework?",
		Choices: []models.Choice{
			{ChoiceText: "Fiber"},
			{ChoiceText: "Gin"},
			{ChoiceText: "Echo"},
		},
	})
	require.NoError(t, err)
	require.NotZero(t, question.ID)
	assert.False(t, question.PubDate.IsZero())

	fetched, err := services.GetQuestion(source, question.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Choices, 3)
	for _, choice := range fetched.Choices {
		assert.NotZero(t, choice.ID)
		assert.Equal(t, question.ID, choice.QuestionID)
		assert.Zero(t, choice.Votes)
	}
}

func TestGetQuestion_NotFound(t *testing.T) {
	source := testSource(t)

	_, err := services.GetQuestion(source, 42)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListQuestion_NewestFirst(t *testing.T) {
	source := testSource(t)

	older, err := services.NewQuestion(source, models.Question{QuestionText: "Older?"})
	require.NoError(t, err)
	newer, err := services.NewQuestion(source, models.Question{QuestionText: "Newer?"})
	require.NoError(t, err)

	require.NoError(t, source.Model(&older).
		Update("pub_date", time.Now().Add(-time.Hour)).Error)

	questions, err := services.ListQuestion(source)
	require.NoError(t, err)
	require.Len(t, questions, 2)
	assert.Equal(t, newer.ID, questions[0].ID)
	assert.Equal(t, older.ID, questions[1].ID)
}

func TestUpdateQuestion_ReconcilesChoices(t *testing.T) {
	source := testSource(t)

	question, err := services.NewQuestion(source, models.Question{
		QuestionText: "Fav color?",
		Choices: []models.Choice{
			{ChoiceText: "Blue"},
			{ChoiceText: "Red"},
		},
	})
	require.NoError(t, err)
	question, err = services.GetQuestion(source, question.ID)
	require.NoError(t, err)

	blue := question.Choices[0]

	// Keep blue under a new name, drop red, add yellow.
	updated, err := services.UpdateQuestion(source, question, lo.ToPtr("Fav shade?"), lo.ToPtr([]services.ChoicePatch{
		{ID: lo.ToPtr(blue.ID), ChoiceText: "Navy"},
		{ChoiceText: "Yellow"},
	}))
	require.NoError(t, err)

	assert.Equal(t, "Fav shade?", updated.QuestionText)
	require.Len(t, updated.Choices, 2)

	texts := lo.Map(updated.Choices, func(item models.Choice, _ int) string {
		return item.ChoiceText
	})
	assert.Contains(t, texts, "Navy")
	assert.Contains(t, texts, "Yellow")
	assert.NotContains(t, texts, "Red")

	for _, choice := range updated.Choices {
		if choice.ChoiceText == "Navy" {
			assert.Equal(t, blue.ID, choice.ID)
		}
	}
}

func TestUpdateQuestion_UnknownChoiceIDInserts(t *testing.T) {
	source := testSource(t)

	question, err := services.NewQuestion(source, models.Question{QuestionText: "Anything?"})
	require.NoError(t, err)

	updated, err := services.UpdateQuestion(source, question, nil, lo.ToPtr([]services.ChoicePatch{
		{ID: lo.ToPtr(uint(9000)), ChoiceText: "Fresh"},
	}))
	require.NoError(t, err)
	require.Len(t, updated.Choices, 1)
	assert.NotEqual(t, uint(9000), updated.Choices[0].ID)
	assert.Equal(t, "Fresh", updated.Choices[0].ChoiceText)
}

func TestUpdateQuestion_NilArgumentsLeaveUntouched(t *testing.T) {
	source := testSource(t)

	question, err := services.NewQuestion(source, models.Question{
		QuestionText: "Stable?",
		Choices:      []models.Choice{{ChoiceText: "Yes"}},
	})
	require.NoError(t, err)
	question, err = services.GetQuestion(source, question.ID)
	require.NoError(t, err)

	updated, err := services.UpdateQuestion(source, question, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "Stable?", updated.QuestionText)
	require.Len(t, updated.Choices, 1)
	assert.Equal(t, "Yes", updated.Choices[0].ChoiceText)
}

func TestUpdateQuestion_EmptyPatchListDeletesAll(t *testing.T) {
	source := testSource(t)

	question, err := services.NewQuestion(source, models.Question{
		QuestionText: "Empty me?",
		Choices: []models.Choice{
			{ChoiceText: "One"},
			{ChoiceText: "Two"},
		},
	})
	require.NoError(t, err)
	question, err = services.GetQuestion(source, question.ID)
	require.NoError(t, err)

	updated, err := services.UpdateQuestion(source, question, nil, lo.ToPtr([]services.ChoicePatch{}))
	require.NoError(t, err)
	assert.Empty(t, updated.Choices)
}

func TestDeleteQuestion_Cascades(t *testing.T) {
	source := testSource(t)

	question, err := services.NewQuestion(source, models.Question{
		QuestionText: "Doomed?",
		Choices: []models.Choice{
			{ChoiceText: "Yes"},
			{ChoiceText: "Also yes"},
		},
	})
	require.NoError(t, err)
	question, err = services.GetQuestion(source, question.ID)
	require.NoError(t, err)

	require.NoError(t, services.DeleteQuestion(source, question))

	_, err = services.GetQuestion(source, question.ID)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var count int64
	require.NoError(t, source.Model(&models.Choice{}).
		Where("question_id = ?", question.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDoAutoDatabaseCleanup_SweepsOrphans(t *testing.T) {
	source := testSource(t)

	question, err := services.NewQuestion(source, models.Question{
		QuestionText: "Owner?",
		Choices:      []models.Choice{{ChoiceText: "Owned"}},
	})
	require.NoError(t, err)

	orphan := models.Choice{ChoiceText: "Orphan", QuestionID: 9999}
	require.NoError(t, source.Create(&orphan).Error)

	services.DoAutoDatabaseCleanup(source)

	var count int64
	require.NoError(t, source.Model(&models.Choice{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	fetched, err := services.GetQuestion(source, question.ID)
	require.NoError(t, err)
	require.Len(t, fetched.Choices, 1)
}
