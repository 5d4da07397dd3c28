package api

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// API carries the storage handle for every route handler.
type API struct {
	source *gorm.DB
}

func MapAPIs(app *fiber.App, source *gorm.DB) {
	v := &API{source: source}

	api := app.Group("/api").Name("API")
	{
		questions := api.Group("/questions").Name("Questions API")
		{
			questions.Get("/", v.listQuestion)
			questions.Post("/", v.createQuestion)
			questions.Get("/:questionId", v.getQuestion)
			questions.Put("/:questionId", v.updateQuestion)
			questions.Patch("/:questionId", v.partialUpdateQuestion)
			questions.Delete("/:questionId", v.deleteQuestion)
		}
	}
}
