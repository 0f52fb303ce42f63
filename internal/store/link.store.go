package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"waugzee/internal/logger"
	"waugzee/internal/models"
)

type LinkStore struct{}

func (s *LinkStore) log() logger.Logger { return logger.New("store").File("link") }

// Upsert writes one external-URL row, keyed on (entity_id, link_type, url)
// per the spec's uniqueness constraint.
func (s *LinkStore) Upsert(ctx context.Context, tx *gorm.DB, link *models.Link) error {
	log := s.log().Function("Upsert")

	if err := tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "entity_type"}, {Name: "entity_id"}, {Name: "link_type"}, {Name: "url"}},
		DoNothing: true,
	}).Create(link).Error; err != nil {
		return log.Err("failed to upsert link", err, "entityID", link.EntityID)
	}
	return nil
}

func (s *LinkStore) ForEntity(ctx context.Context, tx *gorm.DB, entityType models.EntityType, entityID string) ([]*models.Link, error) {
	log := s.log().Function("ForEntity")

	links, err := gorm.G[*models.Link](tx).
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to list links", err, "entityID", entityID)
	}
	return links, nil
}

// ForEntities batches a links lookup across many entities in one query —
// the formatter's "exactly three queries total" rule (§4.3) depends on
// this existing.
func (s *LinkStore) ForEntities(ctx context.Context, tx *gorm.DB, entityType models.EntityType, entityIDs []string) (map[string][]*models.Link, error) {
	log := s.log().Function("ForEntities")

	if len(entityIDs) == 0 {
		return map[string][]*models.Link{}, nil
	}

	links, err := gorm.G[*models.Link](tx).
		Where("entity_type = ? AND entity_id IN ?", entityType, entityIDs).
		Find(ctx)
	if err != nil {
		return nil, log.Err("failed to batch list links", err, "count", len(entityIDs))
	}

	out := make(map[string][]*models.Link, len(entityIDs))
	for _, l := range links {
		out[l.EntityID] = append(out[l.EntityID], l)
	}
	return out, nil
}
