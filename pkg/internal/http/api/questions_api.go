package api

import (
	"errors"

	"github.com/pollworks/pollbox/pkg/internal/http/exts"
	"github.com/pollworks/pollbox/pkg/internal/models"
	"github.com/pollworks/pollbox/pkg/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// choiceRequest is the nested choice payload. The ID is only meaningful on
// updates, where it addresses an existing choice of the question.
type choiceRequest struct {
	ID         *uint  `json:"id"`
	ChoiceText string `json:"choice_text" validate:"required,max=200"`
}

func (v *API) listQuestion(c *fiber.Ctx) error {
	questions, err := services.ListQuestion(v.source)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(questions)
}

func (v *API) getQuestion(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("questionId")

	question, err := services.GetQuestion(v.source, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(question)
}

func (v *API) createQuestion(c *fiber.Ctx) error {
	var data struct {
		Question string          `json:"question" validate:"required,max=200"`
		Choices  []choiceRequest `json:"choices" validate:"dive"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	question := models.Question{
		QuestionText: data.Question,
		Choices: lo.Map(data.Choices, func(item choiceRequest, _ int) models.Choice {
			return models.Choice{ChoiceText: item.ChoiceText}
		}),
	}

	question, err := services.NewQuestion(v.source, question)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.Status(fiber.StatusCreated).JSON(question)
}

func (v *API) updateQuestion(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("questionId")

	var data struct {
		Question string          `json:"question" validate:"required,max=200"`
		Choices  []choiceRequest `json:"choices" validate:"dive"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	question, err := services.GetQuestion(v.source, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	patches := lo.Map(data.Choices, func(item choiceRequest, _ int) services.ChoicePatch {
		return services.ChoicePatch{ID: item.ID, ChoiceText: item.ChoiceText}
	})

	question, err = services.UpdateQuestion(v.source, question, lo.ToPtr(data.Question), lo.ToPtr(patches))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(question)
}

func (v *API) partialUpdateQuestion(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("questionId")

	var data struct {
		Question *string          `json:"question" validate:"omitempty,min=1,max=200"`
		Choices  *[]choiceRequest `json:"choices" validate:"omitempty,dive"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	question, err := services.GetQuestion(v.source, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	var patches *[]services.ChoicePatch
	if data.Choices != nil {
		patches = lo.ToPtr(lo.Map(*data.Choices, func(item choiceRequest, _ int) services.ChoicePatch {
			return services.ChoicePatch{ID: item.ID, ChoiceText: item.ChoiceText}
		}))
	}

	question, err = services.UpdateQuestion(v.source, question, data.Question, patches)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(question)
}

func (v *API) deleteQuestion(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("questionId")

	question, err := services.GetQuestion(v.source, uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	if err := services.DeleteQuestion(v.source, question); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.SendStatus(fiber.StatusNoContent)
}
