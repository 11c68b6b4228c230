package handler

import (
	"github.com/gofiber/fiber/v2"

	"chat-quiz/internal/middleware"
)

// RegisterRoutes mounts the API under /api. Every route requires the caller identity header.
func RegisterRoutes(app *fiber.App, quizHandler *QuizHandler, chatHandler *ChatHandler) {
	validate := middleware.NewValidationMiddleware()

	api := app.Group("/api", middleware.RequireUser())

	api.Get("/quizzes", quizHandler.ListQuizzes)
	api.Get("/quizzes/question-types", quizHandler.QuestionTypes)
	api.Post("/conversations/:id/quizzes", validate.ValidateIDParam("id"), quizHandler.GenerateQuiz)

	quiz := api.Group("/quizzes/:id", validate.ValidateIDParam("id"))
	quiz.Get("", quizHandler.GetQuiz)
	quiz.Patch("", quizHandler.UpdateQuiz)
	quiz.Delete("", quizHandler.DeleteQuiz)
	quiz.Post("/score", quizHandler.ScoreQuiz)
	quiz.Get("/export/:format", quizHandler.ExportQuiz)

	api.Post("/chat/send", chatHandler.SendMessage)
}
