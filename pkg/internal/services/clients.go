package services

import (
	"errors"
	"regexp"

	"github.com/veles-crm/fieldwork/pkg/internal/database"
	"github.com/veles-crm/fieldwork/pkg/internal/models"
	"gorm.io/gorm"
)

// Search results are capped so autocomplete dropdowns stay usable.
const searchResultLimit = 20

func GetClient(id uint) (models.Client, error) {
	var client models.Client
	if err := database.C.Preload("Employee").Preload("Groups").
		Where("id = ?", id).First(&client).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return client, ErrNotFound
		}
		return client, err
	}
	return client, nil
}

func ListClients(take int, offset int) ([]models.Client, error) {
	var clients []models.Client
	err := database.C.Order("name").Offset(offset).Limit(take).Find(&clients).Error
	return clients, err
}

func NewClient(client models.Client) (models.Client, error) {
	if err := database.C.Create(&client).Error; err != nil {
		return client, err
	}
	return client, nil
}

func EditClient(client models.Client) (models.Client, error) {
	err := database.C.Save(&client).Error
	return client, err
}

// DeleteClient removes the client; dependent answers and photo reports
// go with it through the foreign key cascade, which is deliberate.
func DeleteClient(client models.Client) error {
	return database.C.Delete(&client).Error
}

// SearchClients matches the probe as a case-insensitive substring of the
// client name. Metacharacters are neutralized so user input can never
// become a pattern, and the case folding is done in Go because SQL LOWER
// does not fold Cyrillic on every backend.
func SearchClients(probe string) ([]models.Client, error) {
	matcher, err := regexp.Compile("(?i)" + regexp.QuoteMeta(probe))
	if err != nil {
		return nil, err
	}

	var clients []models.Client
	if err := database.C.Order("name").Find(&clients).Error; err != nil {
		return nil, err
	}

	out := make([]models.Client, 0, searchResultLimit)
	for _, client := range clients {
		if matcher.MatchString(client.Name) {
			out = append(out, client)
			if len(out) >= searchResultLimit {
				break
			}
		}
	}

	return out, nil
}

func ListClientGroups() ([]models.ClientGroup, error) {
	var groups []models.ClientGroup
	err := database.C.Order("name").Find(&groups).Error
	return groups, err
}
