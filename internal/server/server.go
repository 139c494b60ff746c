package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/davecharm16/startpoint-academics-sub001/internal/auth"
	"github.com/davecharm16/startpoint-academics-sub001/internal/tracking"
	"github.com/davecharm16/startpoint-academics-sub001/pkg/types"

	"github.com/alexedwards/flow"
	"github.com/go-playground/form/v4"
	"github.com/gorilla/securecookie"
	"github.com/sirupsen/logrus"
)

var decoder = form.NewDecoder()

// Tracker is the client tracking flow plus staff uploads.
type Tracker interface {
	VerifyPIN(ctx context.Context, projectID, token, pin string) (string, error)
	Summary(ctx context.Context, token string) (*types.ProjectSummary, error)
	ListFiles(ctx context.Context, token string, markers tracking.MarkerSource) ([]*types.ProjectFile, error)
	DownloadFile(ctx context.Context, token, fileID string, markers tracking.MarkerSource) (*types.FileDownload, error)
	AttachFile(ctx context.Context, a tracking.Attachment) (*types.ProjectFile, error)
}

type ProjectIssuer interface {
	Issue(ctx context.Context, intake types.ProjectIntake) (*types.IssuedProject, error)
}

type StatusStore interface {
	UpdateStatus(ctx context.Context, projectID string, status types.ProjectStatus) error
}

type ProfileStore interface {
	Profile(ctx context.Context, userID string) (*types.Profile, error)
}

type Notifier interface {
	NotifyStatusChange(ctx context.Context, req types.NotificationRequest) error
}

type TokenVerifier interface {
	Verify(ctx context.Context, raw string) (*auth.Claims, error)
}

// Limiter throttles attempts per key. A nil Limiter disables throttling.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, time.Duration, error)
}

type Service struct {
	logger *logrus.Logger
	config *types.Config

	tracker  Tracker
	issuer   ProjectIssuer
	statuses StatusStore
	profiles ProfileStore
	notifier Notifier
	verifier TokenVerifier
	limiter  Limiter

	cookie *securecookie.SecureCookie

	server *http.Server
}

func New(
	config *types.Config,
	logger *logrus.Logger,
	tracker Tracker,
	issuer ProjectIssuer,
	statuses StatusStore,
	profiles ProfileStore,
	notifier Notifier,
	verifier TokenVerifier,
	limiter Limiter,
) (*Service, error) {
	mux := flow.New()

	hashKey, blockKey, err := config.CookieKeys()
	if err != nil {
		return nil, err
	}

	s := &Service{
		logger: logger,
		config: config,

		tracker:  tracker,
		issuer:   issuer,
		statuses: statuses,
		profiles: profiles,
		notifier: notifier,
		verifier: verifier,
		limiter:  limiter,

		cookie: securecookie.New(hashKey, blockKey),

		server: &http.Server{
			Addr:              fmt.Sprintf(":%d", config.ServerPort),
			Handler:           mux,
			ReadTimeout:       time.Duration(config.ReadTimeoutSec) * time.Second,
			ReadHeaderTimeout: time.Duration(config.ReadTimeoutSec) * time.Second,
			WriteTimeout:      time.Duration(config.WriteTimeoutSec) * time.Second,
			MaxHeaderBytes:    1 << 20,
		},
	}

	s.buildRouter(mux)

	return s, nil
}

func (s *Service) Start() error {
	return s.server.ListenAndServe()
}

func (s *Service) Stop(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Service) Handler() http.Handler {
	return s.server.Handler
}

func (s *Service) buildRouter(r *flow.Mux) {
	r.Use(s.StripTrailingSlash)
	r.Use(s.LoggingMiddleware)

	r.HandleFunc("/healthz", s.handleHealth, http.MethodGet)

	r.Group(func(r *flow.Mux) {
		r.Use(s.LimitPINAttempts)
		r.HandleFunc("/track/verify", s.handlePostTrackVerify, http.MethodPost)
	})

	r.HandleFunc("/track/:token", s.handleGetTrackSummary, http.MethodGet)
	r.HandleFunc("/track/:token/files", s.handleGetTrackFiles, http.MethodGet)
	r.HandleFunc("/track/:token/files/:fileID", s.handleGetTrackFile, http.MethodGet)

	r.HandleFunc("/projects", s.handlePostProject, http.MethodPost)

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireStaff(types.RoleAdmin, types.RoleWriter))

		r.HandleFunc("/projects/:projectID/status", s.handlePostProjectStatus, http.MethodPost)
		r.HandleFunc("/projects/:projectID/files", s.handlePostProjectFile, http.MethodPost)
		r.HandleFunc("/notifications/completion", s.handlePostCompletionNotification, http.MethodPost)
	})

	r.Group(func(r *flow.Mux) {
		r.Use(s.RequireStaff(types.RoleAdmin))

		r.HandleFunc("/notifications/payment", s.handlePostPaymentNotification, http.MethodPost)
	})
}

func (s *Service) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
