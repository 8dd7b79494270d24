// Package router wires the HTTP surface of the application: HTML pages for
// account and link management, the public redirect and the internal stats
// endpoint.
package router

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"tinyapp/internal/gzippedhttp"
	"tinyapp/internal/ipchecker"
	"tinyapp/internal/logger"
	"tinyapp/internal/models"
	"tinyapp/internal/service"
	"tinyapp/internal/session"
)

// Router carries the handler dependencies.
type Router struct {
	svc       *service.Service
	sessions  *session.Manager
	ipChecker *ipchecker.IPChecker
}

// New assembles the chi router with the full middleware stack and route
// table.
func New(
	svc *service.Service,
	sessions *session.Manager,
	ipChecker *ipchecker.IPChecker,
) http.Handler {
	myRouter := &Router{
		svc:       svc,
		sessions:  sessions,
		ipChecker: ipChecker,
	}

	router := chi.NewRouter()
	router.Use(
		logger.WithLoggingHTTPMiddleware,
		gzippedhttp.UngzipRequest,
		gzippedhttp.GzipResponse,
		sessions.WithActor,
	)

	router.Get(`/`, myRouter.GetRoot)

	router.Get(`/login`, myRouter.GetLogin)
	router.Post(`/login`, myRouter.PostLogin)
	router.Get(`/register`, myRouter.GetRegister)
	router.Post(`/register`, myRouter.PostRegister)
	router.Post(`/logout`, myRouter.PostLogout)

	router.Get(`/urls`, myRouter.GetUrls)
	router.Get(`/urls/new`, myRouter.GetUrlsNew)
	router.Post(`/urls`, myRouter.PostUrls)
	router.Get(`/urls/{code}`, myRouter.GetUrlsShow)
	router.Post(`/urls/{code}/update`, myRouter.PostUrlsUpdate)
	router.Put(`/urls/{code}`, myRouter.PostUrlsUpdate)
	router.Post(`/urls/{code}/delete`, myRouter.PostUrlsDelete)
	router.Delete(`/urls/{code}`, myRouter.PostUrlsDelete)

	router.Get(`/u/{code}`, myRouter.GetRedirectToTarget)

	router.Get(`/api/internal/stats`, myRouter.GetInternalStats)

	return router
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrForbidden),
		errors.Is(err, models.ErrBadCredentials):
		return http.StatusForbidden
	case errors.Is(err, models.ErrInvalidInput),
		errors.Is(err, models.ErrDuplicateEmail):
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

func writeError(response http.ResponseWriter, err error) {
	http.Error(response, err.Error(), statusFromError(err))
}

// GetRoot sends authenticated visitors to their link list and everyone else
// to the login form.
func (router *Router) GetRoot(response http.ResponseWriter, request *http.Request) {
	actor := session.ActorFromContext(request.Context())
	if actor.Authenticated {
		http.Redirect(response, request, "/urls", http.StatusFound)
		return
	}

	http.Redirect(response, request, "/login", http.StatusFound)
}

// GetLogin renders the login form, or redirects to /urls when a session is
// already established.
func (router *Router) GetLogin(response http.ResponseWriter, request *http.Request) {
	actor := session.ActorFromContext(request.Context())
	if actor.Authenticated {
		http.Redirect(response, request, "/urls", http.StatusFound)
		return
	}

	router.renderPage(response, "login.gohtml", pageData{})
}

// PostLogin validates the submitted credentials and establishes the session.
func (router *Router) PostLogin(response http.ResponseWriter, request *http.Request) {
	email := request.PostFormValue("email")
	password := request.PostFormValue("password")
	if email == "" || password == "" {
		writeError(response, models.ErrInvalidInput)
		return
	}

	userID, err := router.svc.Login(request.Context(), email, password)
	if err != nil {
		writeError(response, err)
		return
	}

	if err := router.sessions.Issue(response, userID); err != nil {
		logger.Log.Debugln("Error calling the `router.sessions.Issue()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)
		return
	}

	http.Redirect(response, request, "/urls", http.StatusFound)
}

// GetRegister renders the registration form, or redirects to /urls when a
// session is already established.
func (router *Router) GetRegister(response http.ResponseWriter, request *http.Request) {
	actor := session.ActorFromContext(request.Context())
	if actor.Authenticated {
		http.Redirect(response, request, "/urls", http.StatusFound)
		return
	}

	router.renderPage(response, "register.gohtml", pageData{})
}

// PostRegister creates the account and establishes the session. An empty
// field and a duplicate email are both client input problems and answer 400.
func (router *Router) PostRegister(response http.ResponseWriter, request *http.Request) {
	email := request.PostFormValue("email")
	password := request.PostFormValue("password")

	userID, err := router.svc.RegisterUser(request.Context(), email, password)
	if err != nil {
		writeError(response, err)
		return
	}

	if err := router.sessions.Issue(response, userID); err != nil {
		logger.Log.Debugln("Error calling the `router.sessions.Issue()`: ", zap.Error(err))
		response.WriteHeader(http.StatusInternalServerError)
		return
	}

	http.Redirect(response, request, "/urls", http.StatusFound)
}

// PostLogout clears the session.
func (router *Router) PostLogout(response http.ResponseWriter, request *http.Request) {
	router.sessions.Clear(response)
	http.Redirect(response, request, "/urls", http.StatusFound)
}

// GetUrls lists the actor's own links.
func (router *Router) GetUrls(response http.ResponseWriter, request *http.Request) {
	actor := session.ActorFromContext(request.Context())
	if !actor.Authenticated {
		http.Redirect(response, request, "/login", http.StatusFound)
		return
	}

	links, err := router.svc.GetUserLinks(request.Context(), actor)
	if err != nil {
		writeError(response, err)
		return
	}

	views := make([]linkView, 0, len(links))
	for _, link := range links {
		views = append(views, linkView{
			Link:     link,
			ShortURL: router.svc.GetShortURL(link.ShortCode),
		})
	}

	usr, _ := router.svc.GetUser(request.Context(), actor)
	router.renderPage(response, "urls_index.gohtml", pageData{
		User:  usr,
		Links: views,
	})
}

// GetUrlsNew renders the link creation form.
func (router *Router) GetUrlsNew(response http.ResponseWriter, request *http.Request) {
	actor := session.ActorFromContext(request.Context())
	if !actor.Authenticated {
		http.Redirect(response, request, "/login", http.StatusFound)
		return
	}

	usr, _ := router.svc.GetUser(request.Context(), actor)
	router.renderPage(response, "urls_new.gohtml", pageData{User: usr})
}

// PostUrls creates a link for the actor.
func (router *Router) PostUrls(response http.ResponseWriter, request *http.Request) {
	actor := session.ActorFromContext(request.Context())

	shortCode, err := router.svc.ShortenURL(request.Context(), actor, request.PostFormValue("longURL"))
	if err != nil {
		writeError(response, err)
		return
	}

	http.Redirect(response, request, "/urls/"+shortCode, http.StatusFound)
}

// GetUrlsShow renders one owned link with its analytics.
func (router *Router) GetUrlsShow(response http.ResponseWriter, request *http.Request) {
	actor := session.ActorFromContext(request.Context())

	link, err := router.svc.GetLink(request.Context(), actor, chi.URLParam(request, "code"))
	if err != nil {
		writeError(response, err)
		return
	}

	usr, _ := router.svc.GetUser(request.Context(), actor)
	router.renderPage(response, "urls_show.gohtml", pageData{
		User: usr,
		Link: linkView{
			Link:     link,
			ShortURL: router.svc.GetShortURL(link.ShortCode),
		},
	})
}

// PostUrlsUpdate points an owned link at a new target.
func (router *Router) PostUrlsUpdate(response http.ResponseWriter, request *http.Request) {
	actor := session.ActorFromContext(request.Context())
	shortCode := chi.URLParam(request, "code")

	err := router.svc.UpdateLink(request.Context(), actor, shortCode, request.PostFormValue("updatedURL"))
	if err != nil {
		writeError(response, err)
		return
	}

	http.Redirect(response, request, "/urls/"+shortCode, http.StatusFound)
}

// PostUrlsDelete removes an owned link.
func (router *Router) PostUrlsDelete(response http.ResponseWriter, request *http.Request) {
	actor := session.ActorFromContext(request.Context())

	err := router.svc.DeleteLink(request.Context(), actor, chi.URLParam(request, "code"))
	if err != nil {
		writeError(response, err)
		return
	}

	http.Redirect(response, request, "/urls", http.StatusFound)
}

// GetRedirectToTarget is the public redirect. It is deliberately exempt from
// the ownership guard and records the visit under the requester's visitor
// identity: the user id for authenticated visitors, a durable minted id for
// anonymous ones.
func (router *Router) GetRedirectToTarget(response http.ResponseWriter, request *http.Request) {
	actor := session.ActorFromContext(request.Context())

	visitorID := actor.UserID
	if !actor.Authenticated {
		visitorID = router.sessions.VisitorID(response, request)
	}

	target, err := router.svc.VisitLink(request.Context(), chi.URLParam(request, "code"), visitorID)
	if err != nil {
		writeError(response, err)
		return
	}

	http.Redirect(response, request, target, http.StatusTemporaryRedirect)
}

// GetInternalStats reports store totals to callers from the trusted subnet.
func (router *Router) GetInternalStats(response http.ResponseWriter, request *http.Request) {
	clientIP, err := router.ipChecker.GetClientIP(request)
	if err != nil || !router.ipChecker.Check(clientIP) {
		response.WriteHeader(http.StatusForbidden)
		return
	}

	response.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(response).Encode(router.svc.GetInternalStats(request.Context())); err != nil {
		logger.Log.Debugln("Error encoding the stats response: ", zap.Error(err))
	}
}
