package routes

import (
	"net/http"

	"github.com/ravigill3969/resource-tracker/backend/handlers"
	middleware "github.com/ravigill3969/resource-tracker/backend/middlewares"
)

// logHandler is implemented by both WaterHandler and EnergyHandler.
type logHandler interface {
	List(http.ResponseWriter, *http.Request)
	Create(http.ResponseWriter, *http.Request)
	Delete(http.ResponseWriter, *http.Request)
	ByMonth(http.ResponseWriter, *http.Request)
	ByWeek(http.ResponseWriter, *http.Request)
	Summary(http.ResponseWriter, *http.Request)
	Export(scope string) http.HandlerFunc
}

func WaterRoutes(mux *http.ServeMux, wh *handlers.WaterHandler, authMw *middleware.Authenticator) {
	registerLogRoutes(mux, "/water-logs", wh, authMw)
}

func EnergyRoutes(mux *http.ServeMux, eh *handlers.EnergyHandler, authMw *middleware.Authenticator) {
	registerLogRoutes(mux, "/energy-logs", eh, authMw)
}

func registerLogRoutes(mux *http.ServeMux, prefix string, h logHandler, authMw *middleware.Authenticator) {
	protected := func(fn http.HandlerFunc) http.Handler {
		return authMw.AuthMiddleware(fn)
	}

	mux.Handle("GET "+prefix, protected(h.List))
	mux.Handle("GET "+prefix+"/{$}", protected(h.List))
	mux.Handle("POST "+prefix, protected(h.Create))
	mux.Handle("POST "+prefix+"/{$}", protected(h.Create))
	mux.Handle("DELETE "+prefix+"/{id}", protected(h.Delete))

	mux.Handle("GET "+prefix+"/logs-by-month", protected(h.ByMonth))
	mux.Handle("GET "+prefix+"/logs-by-week", protected(h.ByWeek))
	mux.Handle("GET "+prefix+"/summary", protected(h.Summary))

	mux.Handle("GET "+prefix+"/export-all-excel", protected(h.Export(handlers.ExportAll)))
	mux.Handle("GET "+prefix+"/export-month-excel", protected(h.Export(handlers.ExportMonth)))
	mux.Handle("GET "+prefix+"/export-week-excel", protected(h.Export(handlers.ExportWeek)))
}

func GeneralRoutes(mux *http.ServeMux, gh *handlers.GeneralHandler, authMw *middleware.Authenticator) {
	mux.Handle("GET /general/summary", authMw.AuthMiddleware(http.HandlerFunc(gh.Summary)))
	mux.HandleFunc("GET /health", gh.Health)
}
