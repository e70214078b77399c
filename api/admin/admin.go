package admin

import (
	"log"
	"net/http"

	"CiviPortal/api/admin/settings"
	"CiviPortal/api/admin/upload"
	"CiviPortal/api/admin/users"
	"CiviPortal/api/constants"
	"CiviPortal/api/middlewares"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
)

func StartAdminService(pool *pgxpool.Pool) {
	r := mux.NewRouter()

	staff := middlewares.AdminGuard(constants.RoleAdmin, constants.RoleViewer)
	editor := middlewares.AdminGuard(constants.RoleAdmin)
	owner := middlewares.AdminGuard(constants.RoleSuperAdmin)

	/* uploads */
	r.Handle("/admin/upload", editor(upload.UploadFile(pool))).Methods(http.MethodPost)
	r.Handle("/admin/upload/validate", editor(upload.ValidateUpload(pool))).Methods(http.MethodPost)
	r.Handle("/admin/upload/template", staff(upload.DownloadTemplate())).Methods(http.MethodGet)
	r.Handle("/admin/uploads", staff(upload.ListUploads(pool))).Methods(http.MethodGet)

	/* portal settings */
	r.Handle("/admin/settings", staff(settings.GetSettings(pool))).Methods(http.MethodGet)
	r.Handle("/admin/settings", editor(settings.UpdateSettings(pool))).Methods(http.MethodPost)

	/* user roster */
	r.Handle("/admin/users", staff(users.ListUsers(pool))).Methods(http.MethodGet)
	r.Handle("/admin/users/invite", owner(users.InviteUser(pool))).Methods(http.MethodPost)
	r.Handle("/admin/users/delete", owner(users.DeleteUser(pool))).Methods(http.MethodPost)

	log.Println("Admin Service started on :5143")
	if err := http.ListenAndServe(":5143", r); err != nil {
		log.Fatalf("Admin Service failed: %v", err)
	}
}
