package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/workforce-planning-api/internal/middleware"
)

// Router настраивает маршруты API
type Router struct {
	mux             *http.ServeMux
	logger          *slog.Logger
	officeHandler   *OfficeHandler
	scenarioHandler *ScenarioHandler
}

// NewRouter создаёт новый роутер
func NewRouter(officeHandler *OfficeHandler, scenarioHandler *ScenarioHandler, logger *slog.Logger) *Router {
	return &Router{
		mux:             http.NewServeMux(),
		logger:          logger,
		officeHandler:   officeHandler,
		scenarioHandler: scenarioHandler,
	}
}

// Setup настраивает все маршруты
func (r *Router) Setup() http.Handler {
	// Регистрируем обработчики
	r.mux.HandleFunc("/offices", r.officesRouter)
	r.mux.HandleFunc("/offices/", r.officesRouter)
	r.mux.HandleFunc("/scenarios", r.scenariosRouter)
	r.mux.HandleFunc("/scenarios/", r.scenariosRouter)
	r.mux.HandleFunc("/simulations", r.simulationsRouter)
	r.mux.HandleFunc("/runs", r.runsRouter)
	r.mux.HandleFunc("/runs/", r.runsRouter)

	// Health check
	r.mux.HandleFunc("/health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Применяем middleware
	handler := middleware.ContentType(r.mux)
	handler = middleware.Logger(r.logger)(handler)
	handler = middleware.RequestID(handler)
	handler = middleware.Recoverer(r.logger)(handler)

	return handler
}

// officesRouter обрабатывает все запросы к /offices
func (r *Router) officesRouter(w http.ResponseWriter, req *http.Request) {
	path := strings.TrimPrefix(req.URL.Path, "/offices")
	path = strings.Trim(path, "/")

	if path == "" {
		switch req.Method {
		case http.MethodPost:
			r.officeHandler.Create(w, req)
		case http.MethodGet:
			r.officeHandler.List(w, req)
		default:
			methodNotAllowed(w)
		}
		return
	}

	// /offices/{id}
	switch req.Method {
	case http.MethodGet:
		r.officeHandler.GetByID(w, req)
	case http.MethodPatch:
		r.officeHandler.Update(w, req)
	case http.MethodDelete:
		r.officeHandler.Delete(w, req)
	default:
		methodNotAllowed(w)
	}
}

// scenariosRouter обрабатывает все запросы к /scenarios
func (r *Router) scenariosRouter(w http.ResponseWriter, req *http.Request) {
	path := strings.TrimPrefix(req.URL.Path, "/scenarios")
	path = strings.Trim(path, "/")

	if path == "" {
		switch req.Method {
		case http.MethodPost:
			r.scenarioHandler.Create(w, req)
		case http.MethodGet:
			r.scenarioHandler.List(w, req)
		default:
			methodNotAllowed(w)
		}
		return
	}

	parts := strings.Split(path, "/")

	if len(parts) == 1 {
		// /scenarios/{id}
		switch req.Method {
		case http.MethodGet:
			r.scenarioHandler.GetByID(w, req)
		case http.MethodDelete:
			r.scenarioHandler.Delete(w, req)
		default:
			methodNotAllowed(w)
		}
		return
	}

	if len(parts) == 2 && parts[1] == "run" {
		// /scenarios/{id}/run
		if req.Method == http.MethodPost {
			r.scenarioHandler.Run(w, req)
			return
		}
		methodNotAllowed(w)
		return
	}

	http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
}

// simulationsRouter обрабатывает запуски с определением в теле
func (r *Router) simulationsRouter(w http.ResponseWriter, req *http.Request) {
	if req.Method == http.MethodPost {
		r.scenarioHandler.Simulate(w, req)
		return
	}
	methodNotAllowed(w)
}

// runsRouter обрабатывает все запросы к /runs
func (r *Router) runsRouter(w http.ResponseWriter, req *http.Request) {
	path := strings.TrimPrefix(req.URL.Path, "/runs")
	path = strings.Trim(path, "/")

	if path == "" {
		if req.Method == http.MethodGet {
			r.scenarioHandler.ListRuns(w, req)
			return
		}
		methodNotAllowed(w)
		return
	}

	if req.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	parts := strings.Split(path, "/")
	if len(parts) == 2 && parts[1] == "export" {
		// /runs/{id}/export
		r.scenarioHandler.ExportRun(w, req)
		return
	}
	if len(parts) == 1 {
		// /runs/{id}
		r.scenarioHandler.GetRun(w, req)
		return
	}

	http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
}

func methodNotAllowed(w http.ResponseWriter) {
	http.Error(w, `{"error":"method not allowed"}`, http.StatusMethodNotAllowed)
}
