package routes

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/upb/casting-agency/app"
	"github.com/upb/casting-agency/handlers"
	"github.com/upb/casting-agency/middleware"
	"github.com/upb/casting-agency/utils"
)

// SetupRoutes configures all application routes and middleware
func SetupRoutes(deps *app.Dependencies) http.Handler {
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.Config.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{middleware.RequestIDHeader},
		MaxAge:         300,
	}))

	// Health check endpoints
	health := handlers.NewHealthHandler(deps.HealthChecks, deps.OptionalChecks, deps.Logger)
	r.Get("/healthz", health.HandleHealth)
	r.Get("/readyz", health.HandleReadiness)

	guard := deps.AuthMiddleware
	pageSize := deps.Config.Pagination.PageSize

	actors := handlers.NewActorHandler(deps.Actors, deps.TxManager, pageSize, deps.Logger)
	r.Route("/actors", func(r chi.Router) {
		r.Get("/", guard.Wrap("get:actors", actors.List))
		r.Post("/", guard.Wrap("post:actors", actors.Create))
		r.Get("/{id}", guard.Wrap("get:actors", actors.Get))
		r.Patch("/{id}", guard.Wrap("patch:actors", actors.Update))
		r.Delete("/{id}", guard.Wrap("delete:actors", actors.Delete))
	})

	movies := handlers.NewMovieHandler(deps.Movies, deps.TxManager, pageSize, deps.Logger)
	r.Route("/movies", func(r chi.Router) {
		r.Get("/", guard.Wrap("get:movies", movies.List))
		r.Post("/", guard.Wrap("post:movies", movies.Create))
		r.Get("/{id}", guard.Wrap("get:movies", movies.Get))
		r.Patch("/{id}", guard.Wrap("patch:movies", movies.Update))
		r.Delete("/{id}", guard.Wrap("delete:movies", movies.Delete))
	})

	drinks := handlers.NewDrinkHandler(deps.Drinks, deps.TxManager, deps.Logger)
	r.Get("/drinks", drinks.List)
	r.Get("/drinks-detail", guard.Wrap("get:drinks-detail", drinks.Detail))
	r.Post("/drinks", guard.Wrap("post:drinks", drinks.Create))
	r.Patch("/drinks/{id}", guard.Wrap("patch:drinks", drinks.Update))
	r.Delete("/drinks/{id}", guard.Wrap("delete:drinks", drinks.Delete))

	// Trivia: reads, search and quizzes are public
	trivia := handlers.NewTriviaHandler(deps.Categories, deps.Questions, pageSize, deps.Logger)
	r.Get("/categories", trivia.Categories)
	r.Post("/categories", guard.Wrap("post:categories", trivia.CreateCategory))
	r.Delete("/categories/{id}", guard.Wrap("delete:categories", trivia.DeleteCategory))
	r.Get("/categories/{id}/questions", trivia.CategoryQuestions)
	r.Get("/questions", trivia.Questions)
	r.Post("/questions", guard.Wrap("post:questions", trivia.CreateQuestion))
	r.Post("/questions/search", trivia.SearchQuestions)
	r.Delete("/questions/{id}", guard.Wrap("delete:questions", trivia.DeleteQuestion))
	r.Post("/quizzes", trivia.Quiz)

	venues := handlers.NewVenueHandler(deps.Venues, deps.Shows, deps.TxManager, deps.Logger)
	r.Route("/venues", func(r chi.Router) {
		r.Get("/", venues.List)
		r.Post("/", guard.Wrap("post:venues", venues.Create))
		r.Post("/search", venues.Search)
		r.Get("/{id}", venues.Get)
		r.Patch("/{id}", guard.Wrap("patch:venues", venues.Update))
		r.Delete("/{id}", guard.Wrap("delete:venues", venues.Delete))
	})

	artists := handlers.NewArtistHandler(deps.Artists, deps.Shows, deps.TxManager, deps.Logger)
	r.Route("/artists", func(r chi.Router) {
		r.Get("/", artists.List)
		r.Post("/", guard.Wrap("post:artists", artists.Create))
		r.Post("/search", artists.Search)
		r.Get("/{id}", artists.Get)
		r.Patch("/{id}", guard.Wrap("patch:artists", artists.Update))
	})

	shows := handlers.NewShowHandler(deps.Shows, deps.Logger)
	r.Get("/shows", shows.List)
	r.Post("/shows", guard.Wrap("post:shows", shows.Create))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteNotFound(w, "")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		_ = utils.WriteMethodNotAllowed(w)
	})

	return r
}
