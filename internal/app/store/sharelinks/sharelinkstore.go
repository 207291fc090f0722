// Package sharelinkstore persists short-lived share links and scan
// sessions. Both collections are TTL-bound on expires_at: mongo prunes them
// server-side and the jsonfile backend purges on load, so an expired
// document is never visible to reads.
package sharelinkstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/rollcall/internal/app/store/docstore"
	"github.com/dalemusser/rollcall/internal/app/system/secrets"
	"github.com/dalemusser/rollcall/internal/domain/models"
)

var (
	ErrLinkNotFound    = errors.New("Share link not found or expired")
	ErrSessionNotFound = errors.New("Scan session not found or expired")
)

type Store struct {
	links    docstore.Collection
	sessions docstore.Collection
}

func New(db docstore.DB) *Store {
	return &Store{
		links:    db.Collection(docstore.ColShareLinks),
		sessions: db.Collection(docstore.ColScanSessions),
	}
}

// CreateLink mints a share link for one of owner's attendance dates.
func (s *Store) CreateLink(ctx context.Context, owner, date string, ttl time.Duration) (models.ShareLink, error) {
	now := time.Now().UTC()
	link := models.ShareLink{
		LinkID:    secrets.NewToken(16),
		Date:      date,
		CreatedBy: owner,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := s.links.InsertOne(ctx, link); err != nil {
		return models.ShareLink{}, err
	}
	return link, nil
}

// GetLink resolves a link ID. Expiry is enforced here as well as by the
// backend TTL, since mongo's TTL monitor only runs periodically.
func (s *Store) GetLink(ctx context.Context, linkID string) (*models.ShareLink, error) {
	var link models.ShareLink
	err := s.links.FindOne(ctx, docstore.Filter{docstore.Eq("link_id", linkID)}, &link)
	if err == docstore.ErrNoDocuments {
		return nil, ErrLinkNotFound
	}
	if err != nil {
		return nil, err
	}
	if !link.ExpiresAt.After(time.Now().UTC()) {
		return nil, ErrLinkNotFound
	}
	return &link, nil
}

// StartScanSession opens a scan session for owner on date.
func (s *Store) StartScanSession(ctx context.Context, owner, date string, ttl time.Duration) (models.ScanSession, error) {
	now := time.Now().UTC()
	sess := models.ScanSession{
		SessionID: secrets.NewToken(16),
		CreatedBy: owner,
		Date:      date,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := s.sessions.InsertOne(ctx, sess); err != nil {
		return models.ScanSession{}, err
	}
	return sess, nil
}

// GetScanSession resolves a live session owned by owner.
func (s *Store) GetScanSession(ctx context.Context, owner, sessionID string) (*models.ScanSession, error) {
	var sess models.ScanSession
	err := s.sessions.FindOne(ctx, docstore.Filter{
		docstore.Eq("session_id", sessionID),
		docstore.Eq("created_by", owner),
	}, &sess)
	if err == docstore.ErrNoDocuments {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	if !sess.ExpiresAt.After(time.Now().UTC()) {
		return nil, ErrSessionNotFound
	}
	return &sess, nil
}

// RecordScan bumps the session's scan counter.
func (s *Store) RecordScan(ctx context.Context, owner, sessionID string) error {
	sess, err := s.GetScanSession(ctx, owner, sessionID)
	if err != nil {
		return err
	}
	_, err = s.sessions.UpdateOne(ctx,
		docstore.Filter{
			docstore.Eq("session_id", sessionID),
			docstore.Eq("created_by", owner),
		},
		docstore.Set{"scans": sess.Scans + 1},
		false)
	return err
}
