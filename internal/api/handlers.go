// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/velora/internal/auth"
	"github.com/tomtom215/velora/internal/classifier"
	"github.com/tomtom215/velora/internal/config"
	"github.com/tomtom215/velora/internal/logging"
	"github.com/tomtom215/velora/internal/media"
	"github.com/tomtom215/velora/internal/models"
)

// AccountStore is the account persistence used by the handlers.
type AccountStore interface {
	Create(ctx context.Context, in models.NewAccount) (*models.Account, error)
	GetByID(ctx context.Context, id string) (*models.Account, error)
	GetByEmail(ctx context.Context, email string) (*models.Account, error)
	FindForLogin(ctx context.Context, identifier string) (*models.Account, error)
	EmailOrPhoneTaken(ctx context.Context, email, phone string) (bool, error)
	UsernameTaken(ctx context.Context, username, exceptID string) (bool, error)
	EmailTaken(ctx context.Context, email, exceptID string) (bool, error)
	TouchLastLogin(ctx context.Context, id string, at time.Time) error
	UpdateProfile(ctx context.Context, id string, upd models.ProfileUpdate) (*models.Account, error)
	UpdatePassword(ctx context.Context, id, hash string) error
	UpdateEmail(ctx context.Context, id, email string) (*models.Account, error)
	UpdateAvatar(ctx context.Context, id, url, path string) (*string, error)
	SetResetToken(ctx context.Context, id, tokenHash string, expires time.Time) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
}

// PredictionStore is the prediction persistence used by the handlers.
type PredictionStore interface {
	Create(ctx context.Context, p *models.Prediction) (*models.Prediction, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.Prediction, int, error)
	GetByID(ctx context.Context, id string) (*models.Prediction, error)
	Latest(ctx context.Context, userID string) (*models.Prediction, error)
	Delete(ctx context.Context, id, userID string) error
	CountByRisk(ctx context.Context, userID string, since *time.Time) (models.RiskCounts, error)
}

// PhotoStore is the gallery persistence used by the handlers.
type PhotoStore interface {
	Create(ctx context.Context, p *models.Photo) (*models.Photo, error)
	GetByID(ctx context.Context, id string) (*models.Photo, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*models.Photo, int, error)
	ListAllByUser(ctx context.Context, userID string) ([]*models.Photo, error)
	Update(ctx context.Context, id, userID string, upd models.PhotoUpdate) (*models.Photo, error)
	Delete(ctx context.Context, id, userID string) error
	Stats(ctx context.Context, userID string) (models.PhotoStats, error)
}

// TimelineStore is the pregnancy timeline persistence used by the handlers.
type TimelineStore interface {
	GetProfile(ctx context.Context, userID string) (*models.PregnancyProfile, error)
	UpsertProfile(ctx context.Context, p *models.PregnancyProfile) (*models.PregnancyProfile, error)
	UpsertEntry(ctx context.Context, e *models.TimelineEntry) (*models.TimelineEntry, error)
	ListEntries(ctx context.Context, userID string) ([]*models.TimelineEntry, error)
	GetEntry(ctx context.Context, userID string, week int) (*models.TimelineEntry, error)
	DeleteEntry(ctx context.Context, userID string, week int) error
}

// ArticleStore is the journal persistence used by the handlers.
type ArticleStore interface {
	ListPublished(ctx context.Context, f models.ArticleFilter) ([]*models.Article, int, error)
	GetPublished(ctx context.Context, id string) (*models.Article, error)
	GetByID(ctx context.Context, id string) (*models.Article, error)
	IncrementViews(ctx context.Context, id string) (int, error)
	Categories(ctx context.Context) ([]models.CategoryCount, error)
	Create(ctx context.Context, a *models.Article) (*models.Article, error)
	Update(ctx context.Context, id string, upd models.ArticleUpdate) (*models.Article, error)
	Delete(ctx context.Context, id string) error
	ToggleBookmark(ctx context.Context, userID, articleID string) (bool, error)
	ListBookmarks(ctx context.Context, userID string) ([]*models.Article, error)
}

// RiskClassifier classifies vitals for an account.
type RiskClassifier interface {
	Classify(ctx context.Context, accountID string, v classifier.Vitals) (*classifier.Result, error)
}

// ImagePipeline validates, normalizes and stores uploaded images.
type ImagePipeline interface {
	Ingest(ctx context.Context, src media.Source, prefix string) (*media.StoredImage, error)
	IngestBatch(ctx context.Context, srcs []media.Source, prefix string) ([]*media.StoredImage, error)
	Rollback(ctx context.Context, imgs ...*media.StoredImage)
	Remove(ctx context.Context, path string)
	GalleryPrefix() string
	AvatarPrefix() string
	MaxBatch() int
	MaxBytes() int64
}

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	IssueToken(accountID string) (string, error)
}

// CredentialHasher hashes and verifies passwords and reset tokens.
type CredentialHasher interface {
	HashCredential(plaintext string) (string, error)
	VerifyCredential(plaintext, hash string) bool
	NewResetToken() (token, hash string, err error)
}

// Pinger checks database reachability for the readiness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HandlerDeps wires a Handler. Nil optional fields disable the features that
// need them: a nil Media rejects uploads and a nil DB makes /health/ready fail.
type HandlerDeps struct {
	Config      *config.Config
	Accounts    AccountStore
	Predictions PredictionStore
	Photos      PhotoStore
	Timeline    TimelineStore
	Articles    ArticleStore
	Classifier  RiskClassifier
	Media       ImagePipeline
	Tokens      TokenIssuer
	Hasher      CredentialHasher
	Denylist    auth.Denylist
	DB          Pinger
	Version     string
}

// Handler serves every API route. All fields are set once in NewHandler and
// are safe for concurrent use.
type Handler struct {
	cfg         *config.Config
	accounts    AccountStore
	predictions PredictionStore
	photos      PhotoStore
	timeline    TimelineStore
	articles    ArticleStore
	classifier  RiskClassifier
	media       ImagePipeline
	tokens      TokenIssuer
	hasher      CredentialHasher
	denylist    auth.Denylist
	db          Pinger
	security    *logging.SecurityLogger

	version   string
	startTime time.Time
	now       func() time.Time
}

// NewHandler creates a Handler from deps.
func NewHandler(deps HandlerDeps) *Handler {
	denylist := deps.Denylist
	if denylist == nil {
		denylist = auth.NoopDenylist{}
	}
	cfg := deps.Config
	if cfg == nil {
		cfg = &config.Config{}
	}
	version := deps.Version
	if version == "" {
		version = "dev"
	}
	return &Handler{
		cfg:         cfg,
		accounts:    deps.Accounts,
		predictions: deps.Predictions,
		photos:      deps.Photos,
		timeline:    deps.Timeline,
		articles:    deps.Articles,
		classifier:  deps.Classifier,
		media:       deps.Media,
		tokens:      deps.Tokens,
		hasher:      deps.Hasher,
		denylist:    denylist,
		db:          deps.DB,
		security:    logging.NewSecurityLogger(),
		version:     version,
		startTime:   time.Now(),
		now:         time.Now,
	}
}

// AccountHandlerFunc is a handler that acts on behalf of an authenticated account.
type AccountHandlerFunc func(w http.ResponseWriter, r *http.Request, acct *models.Account)

// withAccount adapts fn to http.HandlerFunc. The account comes from the
// context populated by auth.Middleware; without one the request is rejected.
func withAccount(fn AccountHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		acct, ok := auth.AccountFromContext(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, auth.MsgTokenMissing)
			return
		}
		fn(w, r, acct)
	}
}

// clientIP returns the peer address after RealIP processing.
func clientIP(r *http.Request) string {
	return r.RemoteAddr
}

// pageLimits returns the default and maximum page sizes.
func (h *Handler) pageLimits(routeDefault int) (int, int) {
	def := routeDefault
	if def <= 0 {
		def = h.cfg.API.DefaultPageSize
	}
	if def <= 0 {
		def = 10
	}
	return def, h.cfg.API.MaxPageSize
}
