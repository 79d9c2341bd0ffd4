package sites

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/maboudharam/openbento/internal/site"
	"github.com/uptrace/bun"
)

// BunRepository persists saved bentos through go-repository-bun. The site
// document is stored as a JSON column.
type BunRepository struct {
	db          *bun.DB
	repo        repository.Repository[*siteModel]
	broadcaster *changeBroadcaster
	now         func() time.Time
}

// NewBunRepository constructs a Bun-backed repository without caching. Call
// EnsureSchema before first use on a fresh database.
func NewBunRepository(db *bun.DB) *BunRepository {
	return NewBunRepositoryWithCache(db, nil, nil)
}

// NewBunRepositoryWithCache fronts reads with the given cache when both the
// service and serializer are set.
func NewBunRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunRepository {
	r := &BunRepository{
		db:          db,
		broadcaster: newChangeBroadcaster(),
		now:         func() time.Time { return time.Now().UTC() },
	}
	if db == nil {
		return r
	}
	base := newSiteModelRepository(db)
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
	}
	r.repo = base
	return r
}

func newSiteModelRepository(db *bun.DB) repository.Repository[*siteModel] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*siteModel]{
		NewRecord: func() *siteModel { return &siteModel{} },
		GetID: func(model *siteModel) uuid.UUID {
			return model.ID
		},
		SetID: func(model *siteModel, id uuid.UUID) {
			model.ID = id
		},
		GetIdentifier: func() string {
			return "name_key"
		},
		GetIdentifierValue: func(model *siteModel) string {
			return model.NameKey
		},
	})
}

// EnsureSchema creates the sites table when missing.
func (r *BunRepository) EnsureSchema(ctx context.Context) error {
	if r.db == nil {
		return errDatabaseRequired
	}
	_, err := r.db.NewCreateTable().Model((*siteModel)(nil)).IfNotExists().Exec(ctx)
	return err
}

func (r *BunRepository) Create(ctx context.Context, record Site) (Site, error) {
	if r.repo == nil {
		return Site{}, errDatabaseRequired
	}
	record, err := prepare(record)
	if err != nil {
		return Site{}, err
	}

	taken, err := r.exists(ctx, "?TableAlias.id = ? OR ?TableAlias.name_key = ?", record.ID, nameKey(record.Name))
	if err != nil {
		return Site{}, err
	}
	if taken {
		return Site{}, fmt.Errorf("%w: %s", ErrSiteExists, record.Name)
	}

	now := r.now()
	record.CreatedAt = now
	record.UpdatedAt = now
	model, err := modelFromSite(record)
	if err != nil {
		return Site{}, err
	}
	if _, err := r.repo.Create(ctx, model); err != nil {
		return Site{}, err
	}

	r.broadcaster.Broadcast(newChangeEvent(ChangeCreated, record))
	return record, nil
}

func (r *BunRepository) Get(ctx context.Context, id uuid.UUID) (Site, error) {
	if r.repo == nil {
		return Site{}, errDatabaseRequired
	}
	model, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return Site{}, mapRepositoryError(err)
	}
	return modelToSite(model)
}

func (r *BunRepository) GetByName(ctx context.Context, name string) (Site, error) {
	if r.repo == nil {
		return Site{}, errDatabaseRequired
	}
	model, err := r.repo.GetByIdentifier(ctx, nameKey(name))
	if err != nil {
		return Site{}, mapRepositoryError(err)
	}
	return modelToSite(model)
}

// List returns every saved bento ordered by name.
func (r *BunRepository) List(ctx context.Context) ([]Site, error) {
	if r.repo == nil {
		return nil, errDatabaseRequired
	}
	models, _, err := r.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Site, 0, len(models))
	for _, model := range models {
		record, err := modelToSite(model)
		if err != nil {
			return nil, err
		}
		out = append(out, record)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *BunRepository) Update(ctx context.Context, record Site) (Site, error) {
	if r.repo == nil {
		return Site{}, errDatabaseRequired
	}
	record, err := prepare(record)
	if err != nil {
		return Site{}, err
	}

	existing, err := r.Get(ctx, record.ID)
	if err != nil {
		return Site{}, err
	}
	taken, err := r.exists(ctx, "?TableAlias.name_key = ? AND ?TableAlias.id <> ?", nameKey(record.Name), record.ID)
	if err != nil {
		return Site{}, err
	}
	if taken {
		return Site{}, fmt.Errorf("%w: %s", ErrSiteExists, record.Name)
	}

	record.CreatedAt = existing.CreatedAt
	record.UpdatedAt = r.now()
	model, err := modelFromSite(record)
	if err != nil {
		return Site{}, err
	}
	if _, err := r.repo.Update(ctx, model,
		repository.UpdateByID(record.ID.String()),
		repository.UpdateColumns("name", "name_key", "document", "updated_at"),
	); err != nil {
		return Site{}, err
	}

	r.broadcaster.Broadcast(newChangeEvent(ChangeUpdated, record))
	return record, nil
}

func (r *BunRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if r.repo == nil {
		return errDatabaseRequired
	}
	record, err := r.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := r.repo.Delete(ctx, &siteModel{ID: id}); err != nil {
		return err
	}
	r.broadcaster.Broadcast(newChangeEvent(ChangeDeleted, record))
	return nil
}

// Subscribe delivers change events until the context is cancelled.
func (r *BunRepository) Subscribe(ctx context.Context) (<-chan ChangeEvent, error) {
	return r.broadcaster.Subscribe(ctx)
}

func (r *BunRepository) exists(ctx context.Context, where string, args ...any) (bool, error) {
	models, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where(where, args...)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return false, err
	}
	return len(models) > 0, nil
}

func mapRepositoryError(err error) error {
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) || errors.Is(err, sql.ErrNoRows) {
		return ErrSiteNotFound
	}
	return fmt.Errorf("sites: repository: %w", err)
}

type siteModel struct {
	bun.BaseModel `bun:"table:bento_sites,alias:bs"`

	ID        uuid.UUID `bun:",pk,type:uuid"`
	Name      string    `bun:"name,notnull"`
	NameKey   string    `bun:"name_key,notnull,unique"`
	Document  string    `bun:"document,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func modelFromSite(record Site) (*siteModel, error) {
	document, err := json.Marshal(record.Data)
	if err != nil {
		return nil, fmt.Errorf("sites: encode %s: %w", record.Name, err)
	}
	return &siteModel{
		ID:        record.ID,
		Name:      record.Name,
		NameKey:   nameKey(record.Name),
		Document:  string(document),
		CreatedAt: record.CreatedAt,
		UpdatedAt: record.UpdatedAt,
	}, nil
}

func modelToSite(model *siteModel) (Site, error) {
	if model == nil {
		return Site{}, ErrSiteNotFound
	}
	var data site.SiteData
	if err := json.Unmarshal([]byte(model.Document), &data); err != nil {
		return Site{}, fmt.Errorf("sites: decode %s: %w", model.Name, err)
	}
	return Site{
		ID:        model.ID,
		Name:      model.Name,
		Data:      data,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}, nil
}
