package repo

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/shofy/internal/models"
)

type GormRepo struct {
	DB *gorm.DB
}

func (r *GormRepo) Migrate(ctx context.Context) error {
	return r.DB.WithContext(ctx).AutoMigrate(models.All()...)
}

// deleteReturning loads the row into dst and deletes it within one transaction.
// Dependent rows go with it through the ON DELETE CASCADE constraints.
func (r *GormRepo) deleteReturning(ctx context.Context, dst any, conds ...any) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(lockingFor(tx)...).First(dst, conds...).Error; err != nil {
			return err
		}
		res := tx.Delete(dst)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// updateFields writes the named columns of a loaded record, zero values included.
func (r *GormRepo) updateFields(ctx context.Context, record any, columns ...string) error {
	res := r.DB.WithContext(ctx).Model(record).Select(columns).Updates(record)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// lockingFor returns a row lock for dialects that support SELECT ... FOR UPDATE.
func lockingFor(tx *gorm.DB) []clause.Expression {
	if tx.Dialector.Name() == "postgres" {
		return []clause.Expression{clause.Locking{Strength: "UPDATE"}}
	}
	return nil
}
