package repository

import "gorm.io/gorm"

// AutoMigrate creates or updates the schema for every persisted model,
// including the unique (owner_id, email) index and the secondary indexes
// that keep filtered, sorted pagination fast.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&userModel{}, &leadModel{})
}
