package inmemdb

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/coursebuilder/core/course"
)

var ErrMediaNotFound = errors.New("media not found")

type Media struct {
	Name        string
	Kind        course.UploadKind
	ContentType string
	Content     []byte
	CreatedAt   time.Time // UTC
}

type MediaRepository struct {
	db *mediaTable
}

func NewMediaRepository(db *DB) *MediaRepository {
	return &MediaRepository{db: db.media}
}

// CreateMedia stores the file under a new unique name, keeping the original extension.
func (repo *MediaRepository) CreateMedia(kind course.UploadKind, ext, contentType string, content []byte) (Media, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	m := Media{
		Name:        uuid.NewString() + ext,
		Kind:        kind,
		ContentType: contentType,
		Content:     content,
		CreatedAt:   time.Now().UTC(),
	}
	repo.db.table[m.Name] = &m
	return m, nil
}

func (repo *MediaRepository) GetMedia(name string) (Media, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if m, ok := repo.db.table[name]; ok {
		return *m, nil
	}
	return Media{}, ErrMediaNotFound
}
