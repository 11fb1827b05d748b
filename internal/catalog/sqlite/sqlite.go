// Package sqlite persists the formation catalog in a local SQLite database
// instead of a JSON document. The whole collection is still written as one
// unit: Save replaces every row inside a transaction, which keeps the
// document semantics of the file backend.
package sqlite

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/veldt/warband/internal/catalog"
)

// templateRow is the gorm model for one stored template. The slot list is
// kept as serialized JSON; SQLite has no use for it beyond round-tripping.
type templateRow struct {
	ID         string `gorm:"primaryKey"`
	Position   int    // collection order
	Name       string
	Slots      string
	CreatedAt  time.Time
	ModifiedAt time.Time
	Pinned     bool
}

func (templateRow) TableName() string { return "formation_templates" }

// Backend implements catalog.Backend on a SQLite database file.
type Backend struct {
	db *gorm.DB
}

// New opens (or creates) the database at path and migrates the schema.
func New(path string) (*Backend, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open catalog db %s: %w", path, err)
	}
	if err := db.AutoMigrate(&templateRow{}); err != nil {
		return nil, fmt.Errorf("migrate catalog schema: %w", err)
	}
	return &Backend{db: db}, nil
}

// Load reads every stored template in collection order.
func (b *Backend) Load() (catalog.Collection, error) {
	var rows []templateRow
	if err := b.db.Order("position asc").Find(&rows).Error; err != nil {
		return catalog.Collection{}, fmt.Errorf("load catalog: %w", err)
	}

	c := catalog.Collection{Templates: make([]catalog.Template, 0, len(rows))}
	for _, r := range rows {
		var slots []catalog.Slot
		if r.Slots != "" {
			if err := json.Unmarshal([]byte(r.Slots), &slots); err != nil {
				return catalog.Collection{}, fmt.Errorf("decode slots of %s: %w", r.ID, err)
			}
		}
		c.Templates = append(c.Templates, catalog.Template{
			ID:         r.ID,
			Name:       r.Name,
			Slots:      slots,
			CreatedAt:  r.CreatedAt,
			ModifiedAt: r.ModifiedAt,
			Pinned:     r.Pinned,
		})
	}
	return c, nil
}

// Save replaces the stored collection with c.
func (b *Backend) Save(c catalog.Collection) error {
	return b.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&templateRow{}).Error; err != nil {
			return fmt.Errorf("clear catalog: %w", err)
		}
		for i, t := range c.Templates {
			slots, err := json.Marshal(t.Slots)
			if err != nil {
				return fmt.Errorf("encode slots of %s: %w", t.ID, err)
			}
			row := templateRow{
				ID:         t.ID,
				Position:   i,
				Name:       t.Name,
				Slots:      string(slots),
				CreatedAt:  t.CreatedAt,
				ModifiedAt: t.ModifiedAt,
				Pinned:     t.Pinned,
			}
			if err := tx.Create(&row).Error; err != nil {
				return fmt.Errorf("store template %s: %w", t.ID, err)
			}
		}
		return nil
	})
}

// Close releases the underlying connection pool.
func (b *Backend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
