package server

import (
	"github.com/fhuszti/athlete-portfolio-go/internal/handler/api"
	cMiddleware "github.com/fhuszti/athlete-portfolio-go/internal/middleware"
	"github.com/fhuszti/athlete-portfolio-go/internal/port"
	"github.com/fhuszti/athlete-portfolio-go/internal/renderer"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Deps are the use cases exposed over HTTP.
type Deps struct {
	Lister      port.MediaLister
	Updater     port.MediaUpdater
	Deleter     port.MediaDeleter
	Resetter    port.MetadataResetter
	Uploader    port.MediaUploader
	TokenIssuer port.UploadTokenIssuer
	Registrar   port.UploadRegistrar

	Authenticator port.Authenticator
	Sessions      port.SessionVerifier

	Contact   port.ContactSender
	Instagram port.InstagramFeed

	Renderer renderer.HTTPRenderer

	// AdminURLSecret, when set, moves the login endpoint to /<secret>/api/login.
	AdminURLSecret string
	ContentDir     string
	SecureCookies  bool
	// RequestLogging toggles chi's per-request logger.
	RequestLogging bool
}

func NewRouter(d Deps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	if d.RequestLogging {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(cMiddleware.WithClientIP())

	r.NotFound(api.NotFoundHandler())
	r.MethodNotAllowed(api.MethodNotAllowedHandler())

	r.Get("/healthz", api.HealthHandler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/medias", api.ListMediasHandler(d.Renderer, d.Lister))
		r.Get("/content/{section}", api.ContentHandler(d.ContentDir))
		r.Get("/instagram", api.InstagramHandler(d.Instagram))
		r.Post("/contact", api.ContactHandler(d.Contact))

		if d.AdminURLSecret == "" {
			r.Post("/auth/login", api.LoginHandler(d.Authenticator, d.SecureCookies))
		}
		r.Post("/auth/logout", api.LogoutHandler(d.SecureCookies))

		r.Group(func(r chi.Router) {
			r.Use(cMiddleware.WithSessionAuth(d.Sessions))

			r.Get("/auth/session", api.SessionHandler())

			r.Get("/admin/media", api.AdminListMediasHandler(d.Lister))
			r.Post("/admin/media/reset", api.ResetMetadataHandler(d.Resetter, d.Renderer))
			r.With(cMiddleware.WithMediaID()).
				Patch("/admin/media/{id}", api.UpdateMediaHandler(d.Updater, d.Renderer))
			r.With(cMiddleware.WithMediaID()).
				Delete("/admin/media/{id}", api.DeleteMediaHandler(d.Deleter, d.Renderer))

			r.Post("/admin/upload", api.UploadMediaHandler(d.Uploader, d.Renderer))
			r.Post("/admin/upload/token", api.IssueUploadTokenHandler(d.TokenIssuer))
			r.Post("/admin/upload/register", api.RegisterUploadHandler(d.Registrar, d.Renderer))
		})
	})

	if d.AdminURLSecret != "" {
		r.Post("/"+d.AdminURLSecret+"/api/login", api.LoginHandler(d.Authenticator, d.SecureCookies))
	}

	return r
}

// LoginPath returns the path of the login endpoint for the given admin secret.
func LoginPath(adminURLSecret string) string {
	if adminURLSecret == "" {
		return "/api/auth/login"
	}
	return "/" + adminURLSecret + "/api/login"
}
