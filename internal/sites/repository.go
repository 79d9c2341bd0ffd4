package sites

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/maboudharam/openbento/internal/identity"
	"github.com/maboudharam/openbento/internal/site"
)

var (
	// ErrSiteNotFound indicates no saved bento matches the lookup.
	ErrSiteNotFound = errors.New("sites: site not found")
	// ErrSiteExists indicates the name is already taken.
	ErrSiteExists       = errors.New("sites: site already exists")
	ErrNameRequired     = errors.New("sites: name is required")
	errDatabaseRequired = errors.New("sites: bun repository requires a database")
)

// Site is a named, saved bento.
type Site struct {
	ID        uuid.UUID     `json:"id"`
	Name      string        `json:"name"`
	Data      site.SiteData `json:"data"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// Repository persists saved bentos and emits change notifications.
type Repository interface {
	Create(ctx context.Context, record Site) (Site, error)
	Get(ctx context.Context, id uuid.UUID) (Site, error)
	GetByName(ctx context.Context, name string) (Site, error)
	List(ctx context.Context) ([]Site, error)
	Update(ctx context.Context, record Site) (Site, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Subscribe(ctx context.Context) (<-chan ChangeEvent, error)
}

// ChangeType enumerates site change events.
type ChangeType string

const (
	ChangeCreated ChangeType = "created"
	ChangeUpdated ChangeType = "updated"
	ChangeDeleted ChangeType = "deleted"
)

// ChangeEvent reports site mutations to interested subscribers.
type ChangeEvent struct {
	Type ChangeType
	Site Site
}

func newChangeEvent(changeType ChangeType, record Site) ChangeEvent {
	return ChangeEvent{
		Type: changeType,
		Site: record,
	}
}

// prepare normalizes the name and assigns the name-derived id to new records.
func prepare(record Site) (Site, error) {
	record.Name = strings.TrimSpace(record.Name)
	if record.Name == "" {
		return Site{}, ErrNameRequired
	}
	if record.ID == uuid.Nil {
		record.ID = identity.SiteUUID(record.Name)
	}
	record.Data = record.Data.Clone()
	return record, nil
}
