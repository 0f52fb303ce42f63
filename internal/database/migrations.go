package database

import (
	"waugzee/internal/logger"
	"waugzee/internal/models"
)

// MigrateModels runs GORM AutoMigrate for all models
func (db *DB) MigrateModels() error {
	log := logger.New("database").Function("MigrateModels")
	log.Info("Starting database migration")

	// Define all models that need to be migrated
	modelsToMigrate := []interface{}{
		&models.Artist{},
		&models.ReleaseGroup{},
		&models.ArtistReleaseGroup{},
		&models.Release{},
		&models.Recording{},
		&models.Track{},
		&models.Link{},
		&models.Image{},
		&models.Job{},
		&models.BulkRefresh{},
	}

	// Run migration for each model
	for _, model := range modelsToMigrate {
		if err := db.SQL.AutoMigrate(model); err != nil {
			log.Error("Failed to migrate model", "model", model, "error", err)
			return err
		}
	}

	log.Info("Database migration completed successfully")
	return nil
}

// CreateIndexes creates additional indexes that GORM doesn't create automatically
func (db *DB) CreateIndexes() error {
	log := logger.New("database").Function("CreateIndexes")
	log.Info("Creating additional database indexes")

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_jobs_claim ON jobs(status, job_type, priority DESC, created_at ASC)",
		"CREATE INDEX IF NOT EXISTS idx_artist_release_groups_artist ON artist_release_groups(artist_id)",
		"CREATE INDEX IF NOT EXISTS idx_release_groups_artist_credit ON release_groups USING GIN (artist_credit)",
		"CREATE INDEX IF NOT EXISTS idx_links_entity ON links(entity_type, entity_id)",
		"CREATE INDEX IF NOT EXISTS idx_images_entity ON images(entity_type, entity_id)",
		"CREATE INDEX IF NOT EXISTS idx_images_pending_download ON images(cached) WHERE cached = false",
	}

	for _, indexSQL := range indexes {
		if err := db.SQL.Exec(indexSQL).Error; err != nil {
			log.Warn("Failed to create index", "sql", indexSQL, "error", err)
			// Continue with other indexes even if one fails
		}
	}

	log.Info("Additional database indexes created")
	return nil
}