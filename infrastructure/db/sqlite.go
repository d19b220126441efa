package db

import (
	"context"
	"time"

	"github.com/prasetyowira/qrbatch/constant"
	"github.com/prasetyowira/qrbatch/domain/qrbatch"
	appLogger "github.com/prasetyowira/qrbatch/infrastructure/logger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

// SQLiteHistory implements qrbatch.History on top of SQLite
type SQLiteHistory struct {
	db *gorm.DB
}

// GenerationModel is the GORM model for a generation record
type GenerationModel struct {
	ID        uint   `gorm:"primaryKey"`
	RunID     string `gorm:"index;not null"`
	Page      string `gorm:"not null"`
	URL       string `gorm:"not null"`
	Path      string `gorm:"not null"`
	Checksum  string `gorm:"size:64;not null"`
	Bytes     int
	CreatedAt time.Time
}

// GormLogger implements GORM's logger.Interface
type GormLogger struct{}

// LogMode implements the log.Interface method
func (l *GormLogger) LogMode(level gormLogger.LogLevel) gormLogger.Interface {
	return l
}

// Info logs info messages
func (l *GormLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	appLogger.CtxInfo(ctx, msg, appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataData: data,
		},
	})
}

// Warn logs warn messages
func (l *GormLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	appLogger.CtxWarn(ctx, msg, appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataData: data,
		},
	})
}

// Error logs error messages
func (l *GormLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	appLogger.CtxError(ctx, msg, appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Error: &appLogger.CustomError{
			Code:    constant.ErrCodeDBGeneral,
			Message: msg,
			Type:    constant.ErrTypeDB,
		},
		Data: map[string]interface{}{
			constant.DataData: data,
		},
	})
}

// Trace logs SQL operations
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()

	if err != nil {
		appLogger.CtxError(ctx, "SQL error", appLogger.LoggerInfo{
			ContextFunction: constant.CtxDB,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBGeneral,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataElapsed: elapsed.String(),
				constant.DataRows:    rows,
				constant.DataSQL:     sql,
			},
		})
		return
	}

	appLogger.CtxDebug(ctx, "SQL query", appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataElapsed: elapsed.String(),
			constant.DataRows:    rows,
			constant.DataSQL:     sql,
		},
	})
}

// NewSQLiteHistory opens (and migrates) the history database at dbPath
func NewSQLiteHistory(dbPath string) (*SQLiteHistory, error) {
	ctx := context.Background()

	appLogger.CtxDebug(ctx, "Opening SQLite database", appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataPath: dbPath,
		},
	})

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: &GormLogger{},
	})
	if err != nil {
		appLogger.CtxError(ctx, "Failed to open database", appLogger.LoggerInfo{
			ContextFunction: constant.CtxDB,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBOpen,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataPath: dbPath,
			},
		})
		return nil, err
	}

	if err := db.AutoMigrate(&GenerationModel{}); err != nil {
		appLogger.CtxError(ctx, "Failed to migrate database schema", appLogger.LoggerInfo{
			ContextFunction: constant.CtxDB,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBMigrate,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
		})
		return nil, err
	}

	appLogger.CtxInfo(ctx, "Database initialized successfully", appLogger.LoggerInfo{
		ContextFunction: constant.CtxDB,
		Data: map[string]interface{}{
			constant.DataPath: dbPath,
		},
	})

	return &SQLiteHistory{db: db}, nil
}

// Record persists one generation record and sets its ID
func (r *SQLiteHistory) Record(ctx context.Context, rec *qrbatch.GenerationRecord) error {
	model := GenerationModel{
		RunID:     rec.RunID,
		Page:      string(rec.Page),
		URL:       rec.URL,
		Path:      rec.Path,
		Checksum:  rec.Checksum,
		Bytes:     rec.Bytes,
		CreatedAt: rec.CreatedAt,
	}

	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		appLogger.CtxError(ctx, "Failed to insert generation record", appLogger.LoggerInfo{
			ContextFunction: constant.CtxRecord,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBInsert,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataPage:  rec.Page,
				constant.DataRunID: rec.RunID,
			},
		})
		return err
	}

	rec.ID = model.ID

	appLogger.CtxDebug(ctx, "Generation recorded", appLogger.LoggerInfo{
		ContextFunction: constant.CtxRecord,
		Data: map[string]interface{}{
			constant.DataPage:     rec.Page,
			constant.DataRunID:    rec.RunID,
			constant.DataChecksum: rec.Checksum,
		},
	})

	return nil
}

// Recent returns up to limit records, newest first. A limit below one
// returns every record.
func (r *SQLiteHistory) Recent(ctx context.Context, limit int) ([]qrbatch.GenerationRecord, error) {
	var models []GenerationModel

	query := r.db.WithContext(ctx).Order("id desc")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&models).Error; err != nil {
		appLogger.CtxError(ctx, "Failed to list generation records", appLogger.LoggerInfo{
			ContextFunction: constant.CtxRecent,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBLookup,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
			Data: map[string]interface{}{
				constant.DataLimit: limit,
			},
		})
		return nil, err
	}

	records := make([]qrbatch.GenerationRecord, 0, len(models))
	for _, m := range models {
		records = append(records, qrbatch.GenerationRecord{
			ID:        m.ID,
			RunID:     m.RunID,
			Page:      qrbatch.Page(m.Page),
			URL:       m.URL,
			Path:      m.Path,
			Checksum:  m.Checksum,
			Bytes:     m.Bytes,
			CreatedAt: m.CreatedAt,
		})
	}
	return records, nil
}

// Close closes the database connection
func (r *SQLiteHistory) Close() error {
	ctx := context.Background()
	sqlDB, err := r.db.DB()
	if err != nil {
		appLogger.CtxError(ctx, "Failed to get database connection", appLogger.LoggerInfo{
			ContextFunction: constant.CtxClose,
			Error: &appLogger.CustomError{
				Code:    constant.ErrCodeDBClose,
				Message: err.Error(),
				Type:    constant.ErrTypeDB,
			},
		})
		return err
	}

	appLogger.CtxInfo(ctx, "Closing database connection", appLogger.LoggerInfo{
		ContextFunction: constant.CtxClose,
	})

	return sqlDB.Close()
}
