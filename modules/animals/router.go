package animals

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Router mounts the is_animal endpoints.
//
// Example:
//
//	svc := animals.NewService(store, animals.WithLogger(log))
//
//	r := chi.NewRouter()
//	r.Mount("/", animals.Router(svc))
func Router(svc *Service) chi.Router {
	r := chi.NewRouter()

	if svc.limit != nil {
		r.Use(svc.limit)
	}
	if svc.maxBodySize > 0 {
		r.Use(middleware.RequestSize(svc.maxBodySize))
	}
	r.Post("/is_animal", svc.IsAnimal)
	r.Post("/is_animal/form", svc.IsAnimalForm)

	return r
}

// Handle implements the Mountable shape used by module routers.
func (s *Service) Handle() http.Handler {
	return Router(s)
}
