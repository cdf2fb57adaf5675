package deck

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const defaultListLimit = 20

// Repository defines persistence operations for deck records.
type Repository interface {
	// Create stores a new deck record.
	Create(ctx context.Context, record *Record) error
	// GetByPublicID retrieves a deck record by its public identifier.
	// Returns nil if no record exists.
	GetByPublicID(ctx context.Context, publicID string) (*Record, error)
	// ListRecent retrieves the most recently created records, newest first.
	ListRecent(ctx context.Context, limit int) ([]Record, error)
	// MostRecent retrieves the newest record. Returns nil if the library is
	// empty.
	MostRecent(ctx context.Context) (*Record, error)
	// Count reports how many decks the library holds.
	Count(ctx context.Context) (int64, error)
}

// GormRepository implements Repository using GORM.
type GormRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewRepository creates a new GORM-based deck repository.
func NewRepository(db *gorm.DB, logger *logrus.Logger) (*GormRepository, error) {
	if db == nil {
		return nil, eris.New("database connection is required")
	}
	if logger == nil {
		return nil, eris.New("logger is required")
	}

	return &GormRepository{db: db, logger: logger}, nil
}

var _ Repository = (*GormRepository)(nil)

// Create stores a new deck record.
func (r *GormRepository) Create(ctx context.Context, record *Record) error {
	if record == nil {
		return eris.New("record is required")
	}
	if record.PublicID == "" {
		return eris.New("record public id is required")
	}
	if record.Topic == "" {
		return eris.New("record topic is required")
	}

	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		r.logError(logrus.Fields{"public_id": record.PublicID, "topic": record.Topic}, err, "failed to create deck record")
		return eris.Wrap(err, "creating deck record")
	}

	return nil
}

// GetByPublicID retrieves a deck record by its public identifier.
func (r *GormRepository) GetByPublicID(ctx context.Context, publicID string) (*Record, error) {
	if publicID == "" {
		return nil, eris.New("public id is required")
	}

	var record Record
	err := r.db.WithContext(ctx).Where("public_id = ?", publicID).First(&record).Error
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logError(logrus.Fields{"public_id": publicID}, err, "failed to get deck record")
		return nil, eris.Wrap(err, "getting deck record")
	}

	return &record, nil
}

// ListRecent retrieves the most recently created records, newest first.
func (r *GormRepository) ListRecent(ctx context.Context, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	var records []Record
	err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").Limit(limit).Find(&records).Error
	if err != nil {
		r.logError(nil, err, "failed to list deck records")
		return nil, eris.Wrap(err, "listing deck records")
	}

	return records, nil
}

// MostRecent retrieves the newest record.
func (r *GormRepository) MostRecent(ctx context.Context) (*Record, error) {
	var record Record
	err := r.db.WithContext(ctx).Order("created_at DESC, id DESC").First(&record).Error
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		r.logError(nil, err, "failed to get most recent deck record")
		return nil, eris.Wrap(err, "getting most recent deck record")
	}

	return &record, nil
}

// Count reports how many decks the library holds.
func (r *GormRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&Record{}).Count(&count).Error; err != nil {
		r.logError(nil, err, "failed to count deck records")
		return 0, eris.Wrap(err, "counting deck records")
	}

	return count, nil
}

func (r *GormRepository) logError(fields logrus.Fields, err error, message string) {
	entry := r.logger.WithField("error", err.Error())
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Error(message)
}
