// Velora - Maternal Health Tracking API
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velora

package api

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/velora/internal/classifier"
	"github.com/tomtom215/velora/internal/database"
	"github.com/tomtom215/velora/internal/media"
	"github.com/tomtom215/velora/internal/models"
)

var errBoom = errors.New("boom")

// fakeAccounts is an in-memory AccountStore.
type fakeAccounts struct {
	mu       sync.Mutex
	byID     map[string]*models.Account
	seq      int
	touchErr error
}

func newFakeAccounts(accts ...*models.Account) *fakeAccounts {
	f := &fakeAccounts{byID: map[string]*models.Account{}}
	for _, a := range accts {
		f.byID[a.ID] = a
	}
	return f
}

func (f *fakeAccounts) Create(_ context.Context, in models.NewAccount) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if a.Email == in.Email {
			return nil, database.ErrDuplicate
		}
	}
	f.seq++
	phone := in.Phone
	a := &models.Account{
		ID:           fmt.Sprintf("acct-%d", f.seq),
		FullName:     in.FullName,
		Email:        in.Email,
		Phone:        &phone,
		PasswordHash: in.PasswordHash,
		IsActive:     true,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	f.byID[a.ID] = a
	return a, nil
}

func (f *fakeAccounts) GetByID(_ context.Context, id string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.byID[id]; ok {
		return a, nil
	}
	return nil, database.ErrNotFound
}

func (f *fakeAccounts) GetByEmail(_ context.Context, email string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if strings.EqualFold(a.Email, email) {
			return a, nil
		}
	}
	return nil, database.ErrNotFound
}

func (f *fakeAccounts) FindForLogin(_ context.Context, identifier string) (*models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if strings.EqualFold(a.Email, identifier) || strings.EqualFold(a.FullName, identifier) {
			return a, nil
		}
	}
	return nil, database.ErrNotFound
}

func (f *fakeAccounts) EmailOrPhoneTaken(_ context.Context, email, phone string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if a.Email == email || (a.Phone != nil && *a.Phone == phone) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAccounts) UsernameTaken(_ context.Context, username, exceptID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if a.ID != exceptID && a.Username != nil && strings.EqualFold(*a.Username, username) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAccounts) EmailTaken(_ context.Context, email, exceptID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.byID {
		if a.ID != exceptID && strings.EqualFold(a.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAccounts) TouchLastLogin(_ context.Context, id string, at time.Time) error {
	return f.touchErr
}

func (f *fakeAccounts) UpdateProfile(ctx context.Context, id string, upd models.ProfileUpdate) (*models.Account, error) {
	a, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if upd.FullName != nil {
		a.FullName = *upd.FullName
	}
	if upd.Username != nil {
		a.Username = upd.Username
	}
	return a, nil
}

func (f *fakeAccounts) UpdatePassword(ctx context.Context, id, hash string) error {
	a, err := f.GetByID(ctx, id)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	a.PasswordHash = hash
	a.ResetTokenHash, a.ResetTokenExpiresAt = nil, nil
	return nil
}

func (f *fakeAccounts) UpdateEmail(ctx context.Context, id, email string) (*models.Account, error) {
	a, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	a.Email = email
	return a, nil
}

func (f *fakeAccounts) UpdateAvatar(ctx context.Context, id, url, path string) (*string, error) {
	a, err := f.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	prev := a.AvatarPath
	a.AvatarURL, a.AvatarPath = &url, &path
	return prev, nil
}

func (f *fakeAccounts) SetResetToken(ctx context.Context, id, tokenHash string, expires time.Time) error {
	a, err := f.GetByID(ctx, id)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	a.ResetTokenHash, a.ResetTokenExpiresAt = &tokenHash, &expires
	return nil
}

func (f *fakeAccounts) SoftDelete(ctx context.Context, id string, at time.Time) error {
	a, err := f.GetByID(ctx, id)
	if err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	a.IsActive = false
	a.DeletedAt = &at
	a.Email = database.DeletedEmail(at)
	a.Phone = nil
	return nil
}

// fakePredictions is an in-memory PredictionStore.
type fakePredictions struct {
	mu    sync.Mutex
	items []*models.Prediction
	seq   int
}

func (f *fakePredictions) Create(_ context.Context, p *models.Prediction) (*models.Prediction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	cp := *p
	cp.ID = fmt.Sprintf("pred-%d", f.seq)
	if cp.CreatedAt.IsZero() {
		cp.CreatedAt = time.Now()
	}
	f.items = append(f.items, &cp)
	return &cp, nil
}

func (f *fakePredictions) byUser(userID string) []*models.Prediction {
	var out []*models.Prediction
	for i := len(f.items) - 1; i >= 0; i-- {
		if f.items[i].UserID == userID {
			out = append(out, f.items[i])
		}
	}
	return out
}

func (f *fakePredictions) ListByUser(_ context.Context, userID string, limit, offset int) ([]*models.Prediction, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := f.byUser(userID)
	if offset >= len(all) {
		return []*models.Prediction{}, len(all), nil
	}
	end := min(offset+limit, len(all))
	return all[offset:end], len(all), nil
}

func (f *fakePredictions) GetByID(_ context.Context, id string) (*models.Prediction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.items {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, database.ErrNotFound
}

func (f *fakePredictions) Latest(_ context.Context, userID string) (*models.Prediction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if all := f.byUser(userID); len(all) > 0 {
		return all[0], nil
	}
	return nil, database.ErrNotFound
}

func (f *fakePredictions) Delete(_ context.Context, id, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.items {
		if p.ID == id && p.UserID == userID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return database.ErrNotFound
}

func (f *fakePredictions) CountByRisk(_ context.Context, userID string, since *time.Time) (models.RiskCounts, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var c models.RiskCounts
	for _, p := range f.byUser(userID) {
		if since != nil && p.CreatedAt.Before(*since) {
			continue
		}
		c.Total++
		switch p.RiskLevel {
		case models.RiskHigh:
			c.High++
		case models.RiskMid:
			c.Mid++
		case models.RiskLow:
			c.Low++
		}
	}
	return c, nil
}

// fakePhotos is an in-memory PhotoStore.
type fakePhotos struct {
	mu        sync.Mutex
	items     map[string]*models.Photo
	seq       int
	createErr error
	// failAfter makes Create fail once this many rows were inserted.
	failAfter int
	deleted   []string
}

func newFakePhotos(photos ...*models.Photo) *fakePhotos {
	f := &fakePhotos{items: map[string]*models.Photo{}, failAfter: -1}
	for _, p := range photos {
		f.items[p.ID] = p
	}
	return f
}

func (f *fakePhotos) Create(_ context.Context, p *models.Photo) (*models.Photo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.failAfter >= 0 && f.seq >= f.failAfter {
		return nil, database.ErrNotNull
	}
	f.seq++
	cp := *p
	cp.ID = fmt.Sprintf("photo-%d", f.seq)
	f.items[cp.ID] = &cp
	return &cp, nil
}

func (f *fakePhotos) GetByID(_ context.Context, id string) (*models.Photo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.items[id]; ok {
		return p, nil
	}
	return nil, database.ErrNotFound
}

func (f *fakePhotos) sorted(userID string) []*models.Photo {
	var out []*models.Photo
	for _, p := range f.items {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakePhotos) ListByUser(_ context.Context, userID string, limit, offset int) ([]*models.Photo, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	all := f.sorted(userID)
	if offset >= len(all) {
		return []*models.Photo{}, len(all), nil
	}
	return all[offset:min(offset+limit, len(all))], len(all), nil
}

func (f *fakePhotos) ListAllByUser(_ context.Context, userID string) ([]*models.Photo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sorted(userID), nil
}

func (f *fakePhotos) Update(_ context.Context, id, userID string, upd models.PhotoUpdate) (*models.Photo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok || p.UserID != userID {
		return nil, database.ErrNotFound
	}
	if upd.Title != nil {
		p.Title = *upd.Title
	}
	if upd.Description != nil {
		p.Description = upd.Description
	}
	if upd.PregnancyWeek != nil {
		p.PregnancyWeek = upd.PregnancyWeek
	}
	return p, nil
}

func (f *fakePhotos) Delete(_ context.Context, id, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.items[id]
	if !ok || p.UserID != userID {
		return database.ErrNotFound
	}
	delete(f.items, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakePhotos) Stats(_ context.Context, userID string) (models.PhotoStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := models.PhotoStats{PhotosByWeek: []models.WeekCount{}}
	for _, p := range f.sorted(userID) {
		stats.TotalPhotos++
		stats.TotalSize += p.FileSize
	}
	return stats, nil
}

// fakeTimeline is an in-memory TimelineStore.
type fakeTimeline struct {
	mu      sync.Mutex
	profile map[string]*models.PregnancyProfile
	entries map[string]map[int]*models.TimelineEntry
}

func newFakeTimeline() *fakeTimeline {
	return &fakeTimeline{
		profile: map[string]*models.PregnancyProfile{},
		entries: map[string]map[int]*models.TimelineEntry{},
	}
}

func (f *fakeTimeline) GetProfile(_ context.Context, userID string) (*models.PregnancyProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.profile[userID]; ok {
		return p, nil
	}
	return nil, database.ErrNotFound
}

func (f *fakeTimeline) UpsertProfile(_ context.Context, p *models.PregnancyProfile) (*models.PregnancyProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *p
	cp.ID = "profile-" + p.UserID
	f.profile[p.UserID] = &cp
	return &cp, nil
}

func (f *fakeTimeline) UpsertEntry(_ context.Context, e *models.TimelineEntry) (*models.TimelineEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.entries[e.UserID] == nil {
		f.entries[e.UserID] = map[int]*models.TimelineEntry{}
	}
	cp := *e
	cp.ID = fmt.Sprintf("entry-%s-%d", e.UserID, e.PregnancyWeek)
	cp.UpdatedAt = time.Now()
	f.entries[e.UserID][e.PregnancyWeek] = &cp
	return &cp, nil
}

func (f *fakeTimeline) ListEntries(_ context.Context, userID string) ([]*models.TimelineEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.TimelineEntry{}
	for _, e := range f.entries[userID] {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PregnancyWeek < out[j].PregnancyWeek })
	return out, nil
}

func (f *fakeTimeline) GetEntry(_ context.Context, userID string, week int) (*models.TimelineEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e, ok := f.entries[userID][week]; ok {
		return e, nil
	}
	return nil, database.ErrNotFound
}

func (f *fakeTimeline) DeleteEntry(_ context.Context, userID string, week int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.entries[userID][week]; !ok {
		return database.ErrNotFound
	}
	delete(f.entries[userID], week)
	return nil
}

// fakeArticles is an in-memory ArticleStore.
type fakeArticles struct {
	mu        sync.Mutex
	items     map[string]*models.Article
	bookmarks map[string]bool
	seq       int
	lastQuery models.ArticleFilter
}

func newFakeArticles(items ...*models.Article) *fakeArticles {
	f := &fakeArticles{items: map[string]*models.Article{}, bookmarks: map[string]bool{}}
	for _, a := range items {
		f.items[a.ID] = a
	}
	return f
}

func (f *fakeArticles) ListPublished(_ context.Context, q models.ArticleFilter) ([]*models.Article, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQuery = q
	out := []*models.Article{}
	for _, a := range f.items {
		if a.IsPublished {
			out = append(out, a)
		}
	}
	return out, len(out), nil
}

func (f *fakeArticles) GetPublished(_ context.Context, id string) (*models.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.items[id]; ok && a.IsPublished {
		cp := *a
		return &cp, nil
	}
	return nil, database.ErrNotFound
}

func (f *fakeArticles) GetByID(_ context.Context, id string) (*models.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.items[id]; ok {
		return a, nil
	}
	return nil, database.ErrNotFound
}

func (f *fakeArticles) IncrementViews(_ context.Context, id string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.items[id]
	if !ok {
		return 0, database.ErrNotFound
	}
	a.Views++
	return a.Views, nil
}

func (f *fakeArticles) Categories(context.Context) ([]models.CategoryCount, error) {
	return []models.CategoryCount{{Category: "Kehamilan", Count: 2}}, nil
}

func (f *fakeArticles) Create(_ context.Context, a *models.Article) (*models.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	cp := *a
	cp.ID = fmt.Sprintf("article-%d", f.seq)
	f.items[cp.ID] = &cp
	return &cp, nil
}

func (f *fakeArticles) Update(_ context.Context, id string, upd models.ArticleUpdate) (*models.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.items[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	if upd.Title != nil {
		a.Title = *upd.Title
	}
	if upd.IsPublished != nil {
		a.IsPublished = *upd.IsPublished
	}
	return a, nil
}

func (f *fakeArticles) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[id]; !ok {
		return database.ErrNotFound
	}
	delete(f.items, id)
	return nil
}

func (f *fakeArticles) ToggleBookmark(_ context.Context, userID, articleID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := userID + "/" + articleID
	f.bookmarks[key] = !f.bookmarks[key]
	return f.bookmarks[key], nil
}

func (f *fakeArticles) ListBookmarks(_ context.Context, userID string) ([]*models.Article, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*models.Article{}
	for key, on := range f.bookmarks {
		if on && strings.HasPrefix(key, userID+"/") {
			out = append(out, f.items[strings.TrimPrefix(key, userID+"/")])
		}
	}
	return out, nil
}

// fakeClassifier returns a fixed result.
type fakeClassifier struct {
	tier  models.RiskLevel
	err   error
	calls int
}

func (f *fakeClassifier) Classify(_ context.Context, _ string, _ classifier.Vitals) (*classifier.Result, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	body, _ := json.Marshal(map[string]string{"risk_level": string(f.tier)})
	return &classifier.Result{RiskLevel: f.tier, Body: body}, nil
}

// fakeMedia records pipeline calls without touching storage.
type fakeMedia struct {
	mu         sync.Mutex
	ingestErr  error
	ingested   int
	rolledBack []string
	removed    []string
	maxBytes   int64
}

func newFakeMedia() *fakeMedia {
	return &fakeMedia{maxBytes: 1 << 20}
}

func (f *fakeMedia) stored(src media.Source, prefix string) *media.StoredImage {
	f.ingested++
	path := fmt.Sprintf("%s%d.jpg", prefix, f.ingested)
	return &media.StoredImage{
		URL:          "https://cdn.example.com/" + path,
		Path:         path,
		Bucket:       "gallery-photos",
		Size:         src.Size,
		ContentType:  "image/jpeg",
		OriginalName: src.Name,
	}
}

func (f *fakeMedia) Ingest(_ context.Context, src media.Source, prefix string) (*media.StoredImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ingestErr != nil {
		return nil, f.ingestErr
	}
	return f.stored(src, prefix), nil
}

func (f *fakeMedia) IngestBatch(_ context.Context, srcs []media.Source, prefix string) ([]*media.StoredImage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ingestErr != nil {
		return nil, f.ingestErr
	}
	if len(srcs) > f.MaxBatch() {
		return nil, media.ErrTooManyFiles
	}
	out := make([]*media.StoredImage, 0, len(srcs))
	for _, src := range srcs {
		out = append(out, f.stored(src, prefix))
	}
	return out, nil
}

func (f *fakeMedia) Rollback(_ context.Context, imgs ...*media.StoredImage) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, img := range imgs {
		f.rolledBack = append(f.rolledBack, img.Path)
	}
}

// Remove mirrors Pipeline.Remove, which logs backend failures instead of
// returning them.
func (f *fakeMedia) Remove(_ context.Context, path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, path)
}

func (f *fakeMedia) GalleryPrefix() string { return "uploads/" }
func (f *fakeMedia) AvatarPrefix() string { return "avatars/" }
func (f *fakeMedia) MaxBatch() int { return 10 }
func (f *fakeMedia) MaxBytes() int64 { return f.maxBytes }

// plainHasher stores "hashed:" + plaintext so tests can build fixtures.
type plainHasher struct{}

func (plainHasher) HashCredential(plaintext string) (string, error) { return "hashed:" + plaintext, nil }
func (plainHasher) VerifyCredential(plaintext, hash string) bool { return hash == "hashed:"+plaintext }
func (plainHasher) NewResetToken() (string, string, error) { return "reset-token", "hashed:reset-token", nil }

// staticTokens issues a predictable token.
type staticTokens struct{}

func (staticTokens) IssueToken(accountID string) (string, error) { return "token-" + accountID, nil }

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }
