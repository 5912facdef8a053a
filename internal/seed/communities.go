package seed

import (
	_ "embed"
	"fmt"

	"bulag/internal/models"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:embed communities.yml
var builtInCommunitiesYAML []byte

// BuiltInCommunity is a permanent system community shipped with the app.
type BuiltInCommunity struct {
	Name        string `yaml:"name"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
	Kind        string `yaml:"kind"`
}

// BuiltInCommunities returns the permanent system communities defined in
// the embedded fixture.
func BuiltInCommunities() ([]BuiltInCommunity, error) {
	var items []BuiltInCommunity
	if err := yaml.Unmarshal(builtInCommunitiesYAML, &items); err != nil {
		return nil, fmt.Errorf("parse built-in communities fixture: %w", err)
	}
	return items, nil
}

// Communities seeds the permanent built-in communities. It is idempotent:
// existing rows are refreshed in place, keyed by slug.
func Communities(db *gorm.DB) error {
	items, err := BuiltInCommunities()
	if err != nil {
		return err
	}

	for _, item := range items {
		community := models.Community{
			Name:        item.Name,
			Slug:        item.Slug,
			Description: item.Description,
			Kind:        models.CommunityKind(item.Kind),
			Status:      models.CommunityStatusActive,
		}

		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slug"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "description", "kind", "status", "updated_at"}),
		}).Create(&community).Error
		if err != nil {
			return fmt.Errorf("seed built-in community %s: %w", item.Slug, err)
		}
	}

	return nil
}
