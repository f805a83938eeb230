package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/saharanepal/saharabot/internal/handler/chatbot"
	middlewarePkg "github.com/saharanepal/saharabot/internal/middleware"
	"github.com/saharanepal/saharabot/internal/model/directory"
	chatService "github.com/saharanepal/saharabot/internal/service/chat"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(chatSvc *chatService.Service, dir directory.Store, backend chatbot.Pinger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	chatbotHandler := chatbot.New(chatSvc, dir, backend)

	r.Route("/api", func(api chi.Router) {
		chatbotHandler.RegisterRoutes(api)
	})

	return r
}
