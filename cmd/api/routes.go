package main

import (
	"time"

	_ "quiz-bank/cmd/api/docs"
	"quiz-bank/internal/handler"
	"quiz-bank/internal/middleware"
	"quiz-bank/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
)

type routeDeps struct {
	authEnabled    bool
	requestTimeout time.Duration
	authService    service.AuthService // nil when no JWT secret is configured
	questions      *handler.QuestionHandler
	generation     *handler.GenerationHandler
	health         *handler.HealthHandler
	auth           *handler.AuthHandler
}

func setupRoutes(app *fiber.App, d routeDeps) {
	app.Get("/health", d.health.Check)
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api", middleware.RequestTimeout(d.requestTimeout))

	if d.auth != nil {
		authGroup := api.Group("/auth")
		authGroup.Post("/signup", d.auth.Signup)
		authGroup.Post("/signin", d.auth.Signin)
	}

	// Mutating and generate routes are admin-only when auth is on.
	var admin []fiber.Handler
	if d.authEnabled && d.authService != nil {
		admin = []fiber.Handler{middleware.Protected(d.authService), middleware.AdminOnly()}
	}
	withAdmin := func(h fiber.Handler) []fiber.Handler {
		return append(append([]fiber.Handler{}, admin...), h)
	}

	questions := api.Group("/questions")
	questions.Post("/createquestion", withAdmin(d.questions.CreateQuestion)...)
	questions.Patch("/updatequestion/:id", withAdmin(d.questions.UpdateQuestion)...)
	questions.Post("/aiassist", withAdmin(d.generation.GenerateQuestions)...)

	questions.Post("/validateanswer", d.questions.ValidateAnswers)
	questions.Post("/validateanswer/:id", d.questions.ValidateAnswer)
	questions.Get("/getquestions", d.questions.GetQuestions)
	questions.Get("/:id", d.questions.GetQuestion)
}
