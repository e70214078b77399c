package portal

import (
	"log"
	"net/http"

	"CiviPortal/api/middlewares"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
)

func StartPortalService(pool *pgxpool.Pool) {
	r := mux.NewRouter()

	access := middlewares.PortalAccess(pool)
	gate := func(section string, h http.Handler) http.Handler {
		return access(middlewares.RequireModule(section)(h))
	}

	r.Handle("/portal/overview", access(Overview(pool))).Methods(http.MethodGet)
	r.Handle("/portal/analytics", access(Analytics(pool))).Methods(http.MethodGet)
	r.Handle("/portal/departments", access(Departments(pool))).Methods(http.MethodGet)
	r.Handle("/portal/departments/{name}", access(DepartmentDetail(pool))).Methods(http.MethodGet)
	r.Handle("/portal/transactions", gate("transactions", Transactions(pool))).Methods(http.MethodGet)
	r.Handle("/portal/revenues", gate("revenues", Revenues(pool))).Methods(http.MethodGet)
	r.Handle("/portal/vendors", gate("vendors", Vendors(pool))).Methods(http.MethodGet)
	r.Handle("/portal/downloads", access(Download(pool))).Methods(http.MethodGet)

	log.Println("Portal Service started on :6143")
	if err := http.ListenAndServe(":6143", r); err != nil {
		log.Fatalf("Portal Service failed: %v", err)
	}
}
