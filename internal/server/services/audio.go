// Package services contains the audio item service: the orchestration layer
// between the synthesis provider, the object store, and the metadata store.
// It owns the consistency contract between the last two.
package services

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/starfox1230/memorize/internal/common"
	"github.com/starfox1230/memorize/internal/dbx"
	sc "github.com/starfox1230/memorize/internal/server/config"
	"github.com/starfox1230/memorize/internal/server/models"
	"github.com/starfox1230/memorize/internal/server/repositories/repomanager"
)

// Synthesizer converts text plus a provider voice into audio bytes.
type Synthesizer interface {
	Synthesize(ctx context.Context, text, voice string) ([]byte, error)
}

// ObjectStore is the narrow object-storage contract the service consumes.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	MakePublic(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// AudioService implements create, list, delete, and download of audio items.
//
// Within a request every step runs strictly in sequence: synthesis before the
// object write, the object write before the metadata insert, the metadata
// lookup before any delete. Object-store writes are never rolled back; the
// resulting degraded states (orphaned object, orphaned record) surface later
// as 404s or leaked storage, as documented per method.
type AudioService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	store       ObjectStore
	synthesizer Synthesizer
	config      *sc.Config
}

// NewAudioService wires the service with its collaborators. All handles are
// created once at startup and reused across requests.
func NewAudioService(db *sql.DB, rm repomanager.RepositoryManager, store ObjectStore, synthesizer Synthesizer, config *sc.Config) *AudioService {
	return &AudioService{
		db:          db,
		repomanager: rm,
		store:       store,
		synthesizer: synthesizer,
		config:      config,
	}
}

// newStorageKey returns a unique object key derived from the current time,
// with a uuid suffix so two writes in the same millisecond cannot collide.
func newStorageKey(ext string) string {
	return fmt.Sprintf("audios/audio_%d_%s.%s", time.Now().UnixMilli(), uuid.NewString()[:8], ext)
}

func (s *AudioService) validateCreate(user, title, text string) error {
	if s.config.RequireUser && strings.TrimSpace(user) == "" {
		return fmt.Errorf("%w: user is required", common.ErrValidation)
	}
	if s.config.RequireTitle && strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", common.ErrValidation)
	}
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: text is required", common.ErrValidation)
	}
	return nil
}

// CreateFromText synthesizes text with the given voice (default from config),
// stores the MP3, and records the metadata. Validation happens before any
// side effect. If the metadata insert fails after a successful object write,
// the orphaned object is left behind; it is never auto-repaired.
func (s *AudioService) CreateFromText(ctx context.Context, user, title, text, voice string) (*models.AudioItem, error) {
	if err := s.validateCreate(user, title, text); err != nil {
		return nil, err
	}

	if voice == "" {
		voice = s.config.DefaultVoice
	}

	audio, err := s.synthesizer.Synthesize(ctx, text, voice)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrSynthesis, err)
	}

	key := newStorageKey("mp3")

	if err := s.store.Put(ctx, key, "audio/mpeg", audio); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}

	url, err := s.store.MakePublic(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}

	item := &models.AudioItem{
		User:     strings.TrimSpace(user),
		Title:    title,
		Text:     text,
		Voice:    voice,
		URL:      url,
		FilePath: key,
	}

	if err := s.repomanager.Audios(s.db).Insert(ctx, item); err != nil {
		// The object is already stored; losing this insert leaves an
		// orphaned object, an accepted degraded state.
		return nil, fmt.Errorf("%w: %v", common.ErrMetadata, err)
	}

	return item, nil
}

// CreateFromUpload records audio supplied directly by the client instead of
// synthesizing it. The payload is base64 (a data-URL prefix is tolerated),
// the file extension comes from the supplied MIME type, and the item's voice
// is the sentinel "recording".
func (s *AudioService) CreateFromUpload(ctx context.Context, user, title, text, audioBase64, mimeType string) (*models.AudioItem, error) {
	if err := s.validateCreate(user, title, text); err != nil {
		return nil, err
	}
	if audioBase64 == "" {
		return nil, fmt.Errorf("%w: audioData is required", common.ErrValidation)
	}

	// Browsers often send "data:audio/webm;base64,<payload>".
	if i := strings.Index(audioBase64, ","); i >= 0 && strings.HasPrefix(audioBase64, "data:") {
		audioBase64 = audioBase64[i+1:]
	}

	audio, err := base64.StdEncoding.DecodeString(audioBase64)
	if err != nil {
		return nil, fmt.Errorf("%w: audioData is not valid base64", common.ErrValidation)
	}

	contentType := mimeType
	if contentType == "" {
		contentType = "audio/webm"
	}

	key := newStorageKey(extensionFromMIME(mimeType))

	if err := s.store.Put(ctx, key, contentType, audio); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}

	url, err := s.store.MakePublic(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrStorage, err)
	}

	item := &models.AudioItem{
		User:     strings.TrimSpace(user),
		Title:    title,
		Text:     text,
		Voice:    models.VoiceRecording,
		URL:      url,
		FilePath: key,
	}

	if err := s.repomanager.Audios(s.db).Insert(ctx, item); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMetadata, err)
	}

	return item, nil
}

// List returns items ordered by timestamp descending. A filter that is empty
// after trimming whitespace behaves as no filter at all.
func (s *AudioService) List(ctx context.Context, user string) ([]*models.AudioItem, error) {
	items, err := s.repomanager.Audios(s.db).List(ctx, strings.TrimSpace(user))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrMetadata, err)
	}
	if items == nil {
		items = []*models.AudioItem{}
	}
	return items, nil
}

// Delete removes the metadata record and the stored object together. The
// record delete runs inside a transaction and the object delete last, so a
// failed store call rolls the record back and its key is not lost. If the
// commit fails after the object is gone, the record points at a missing
// object and Download reports it as not found.
func (s *AudioService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: id is required", common.ErrValidation)
	}
	// A non-uuid id cannot match any record; checking here keeps the
	// database's uuid cast error out of the metadata path.
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrorNotFound
	}

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Audios(tx)

		item, err := repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorNotFound
			}
			return fmt.Errorf("%w: %v", common.ErrMetadata, err)
		}

		if err := repo.DeleteByID(ctx, id); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return common.ErrorNotFound
			}
			return fmt.Errorf("%w: %v", common.ErrMetadata, err)
		}

		if err := s.store.Delete(ctx, item.FilePath); err != nil {
			return fmt.Errorf("%w: %v", common.ErrStorage, err)
		}

		return nil
	})
}

// Download streams the stored audio for id. A record whose object is missing
// (the orphaned-record gap) is reported as not found, same as a missing
// record.
func (s *AudioService) Download(ctx context.Context, id string) (io.ReadCloser, string, error) {
	if id == "" {
		return nil, "", fmt.Errorf("%w: id is required", common.ErrValidation)
	}
	if _, err := uuid.Parse(id); err != nil {
		return nil, "", common.ErrorNotFound
	}

	item, err := s.repomanager.Audios(s.db).GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, "", common.ErrorNotFound
		}
		return nil, "", fmt.Errorf("%w: %v", common.ErrMetadata, err)
	}

	exists, err := s.store.Exists(ctx, item.FilePath)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", common.ErrStorage, err)
	}
	if !exists {
		return nil, "", common.ErrorNotFound
	}

	rc, err := s.store.Open(ctx, item.FilePath)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", common.ErrStorage, err)
	}

	return rc, SanitizeFilename(item.Title) + ".mp3", nil
}

// SanitizeFilename strips path-unsafe characters from a title so it is safe
// inside a Content-Disposition filename. An empty result falls back to
// "audio".
func SanitizeFilename(title string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r < 0x20:
			return -1
		case strings.ContainsRune(`/\:*?"<>|`, r):
			return -1
		default:
			return r
		}
	}, title)

	cleaned = strings.Trim(cleaned, " .")
	if cleaned == "" {
		return "audio"
	}
	return cleaned
}

// extensionFromMIME derives a file extension from a MIME type such as
// "audio/webm;codecs=opus". Unparseable or absent types default to "webm".
func extensionFromMIME(mimeType string) string {
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = mimeType[:i]
	}
	mimeType = strings.TrimSpace(mimeType)

	parts := strings.SplitN(mimeType, "/", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "webm"
	}
	return parts[1]
}
