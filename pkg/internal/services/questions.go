package services

import (
	"time"

	"github.com/pollworks/pollbox/pkg/internal/models"
	"gorm.io/gorm"
)

// ChoicePatch addresses one nested choice in an update payload. An entry with
// a nil ID, or an ID that does not belong to the question, inserts a new
// choice; entries with a known ID update that row in place.
type ChoicePatch struct {
	ID         *uint
	ChoiceText string
}

func ListQuestion(source *gorm.DB) ([]models.Question, error) {
	questions := make([]models.Question, 0)
	if err := source.Preload("Choices").
		Order("pub_date DESC").
		Find(&questions).Error; err != nil {
		return questions, err
	}
	return questions, nil
}

func GetQuestion(source *gorm.DB, id uint) (models.Question, error) {
	var question models.Question
	if err := source.Preload("Choices").
		Where("id = ?", id).
		First(&question).Error; err != nil {
		return question, err
	}
	return question, nil
}

// NewQuestion persists the question together with its nested choices as one
// unit; the publish timestamp is always assigned server-side.
func NewQuestion(source *gorm.DB, question models.Question) (models.Question, error) {
	question.PubDate = time.Now()
	if err := source.Create(&question).Error; err != nil {
		return question, err
	}
	return question, nil
}

// UpdateQuestion applies text and choice changes to an already loaded
// question. A nil argument means "leave untouched", which is how partial
// updates ride through. Choices reconcile by ID: known IDs update, unknown or
// missing IDs insert, and stored choices absent from the patch list are
// deleted.
func UpdateQuestion(source *gorm.DB, question models.Question, text *string, choices *[]ChoicePatch) (models.Question, error) {
	err := source.Transaction(func(tx *gorm.DB) error {
		if text != nil {
			if err := tx.Model(&question).
				Update("question_text", *text).Error; err != nil {
				return err
			}
		}

		if choices == nil {
			return nil
		}

		existing := make(map[uint]models.Choice)
		for _, choice := range question.Choices {
			existing[choice.ID] = choice
		}

		kept := make(map[uint]bool)
		for _, patch := range *choices {
			if patch.ID != nil {
				if choice, ok := existing[*patch.ID]; ok {
					if err := tx.Model(&choice).
						Update("choice_text", patch.ChoiceText).Error; err != nil {
						return err
					}
					kept[choice.ID] = true
					continue
				}
			}

			choice := models.Choice{
				ChoiceText: patch.ChoiceText,
				QuestionID: question.ID,
			}
			if err := tx.Create(&choice).Error; err != nil {
				return err
			}
			kept[choice.ID] = true
		}

		for id := range existing {
			if !kept[id] {
				if err := tx.Delete(&models.Choice{}, id).Error; err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		return question, err
	}

	return GetQuestion(source, question.ID)
}

// DeleteQuestion removes the question and cascades to its choices.
func DeleteQuestion(source *gorm.DB, question models.Question) error {
	return source.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", question.ID).
			Delete(&models.Choice{}).Error; err != nil {
			return err
		}
		return tx.Delete(&question).Error
	})
}
