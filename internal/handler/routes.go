package handler

import (
	"conceptme/internal/middleware"
	"conceptme/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Routes groups the handlers mounted under /api.
type Routes struct {
	Auth             *AuthHandler
	Explanation      *ExplanationHandler
	Quiz             *QuizHandler
	Note             *NoteHandler
	User             *UserHandler
	Health           *HealthHandler
	AuthService      service.AuthService
	LeaderboardLimit int
}

// Register mounts every route on app.
func (r Routes) Register(app *fiber.App) {
	if r.Health != nil {
		app.Get("/healthz", r.Health.Healthz)
	}

	validator := middleware.NewValidationMiddleware()
	protected := middleware.Protected(r.AuthService)
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/signup", r.Auth.SignUp)
	auth.Post("/login", r.Auth.Login)

	api.Post("/explanations", protected, r.Explanation.CreateExplanation)

	quizzes := api.Group("/quizzes", protected)
	quizzes.Get("/", r.Quiz.ListQuizzes)
	quizzes.Post("/session", r.Quiz.StartSession)
	quizzes.Get("/session", r.Quiz.GetSession)
	quizzes.Put("/session/answers", r.Quiz.SelectAnswer)
	quizzes.Post("/session/submit", r.Quiz.Submit)
	quizzes.Post("/session/next", r.Quiz.NextQuiz)
	quizzes.Post("/session/finish", r.Quiz.Finish)

	notes := api.Group("/notes", protected)
	notes.Get("/", r.Note.ListNotes)
	notes.Post("/", r.Note.CreateNote)
	notes.Get("/:id", validator.ValidateRecordID("note"), r.Note.GetNote)
	notes.Delete("/:id", validator.ValidateRecordID("note"), r.Note.DeleteNote)

	users := api.Group("/users", protected)
	users.Get("/me", r.User.GetMyProfile)
	users.Put("/me", r.User.UpdateMyProfile)

	limit := r.LeaderboardLimit
	if limit <= 0 {
		limit = 10
	}
	api.Get("/leaderboard", validator.ValidateLimit(limit, 100), r.User.GetLeaderboard)
}
