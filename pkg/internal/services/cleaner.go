package services

import (
	"github.com/pollworks/pollbox/pkg/internal/models"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// DoAutoDatabaseCleanup drops choices whose owning question no longer exists.
// Such rows only appear through out-of-band edits of the database file, but
// the sweep keeps the store consistent either way.
func DoAutoDatabaseCleanup(source *gorm.DB) {
	log.Debug().Msg("Now cleaning up entire database...")

	tx := source.
		Where("question_id NOT IN (?)", source.Model(&models.Question{}).Select("id")).
		Delete(&models.Choice{})
	if tx.Error != nil {
		log.Error().Err(tx.Error).Msg("An error occurred when running auto cleanup...")
		return
	}

	log.Debug().Int64("affected", tx.RowsAffected).Msg("Clean up entire database accomplished.")
}
