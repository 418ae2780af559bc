package services

import (
	"errors"
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/veles-crm/fieldwork/pkg/internal/database"
	"github.com/veles-crm/fieldwork/pkg/internal/models"
	"gorm.io/gorm"
)

type AnnouncementView struct {
	models.Announcement

	IsRead         bool `json:"is_read"`
	IsAcknowledged bool `json:"is_acknowledged"`
}

func GetAnnouncement(id uint) (models.Announcement, error) {
	var announcement models.Announcement
	if err := database.C.Preload("Author").Preload("Recipients").
		Where("id = ?", id).First(&announcement).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return announcement, ErrNotFound
		}
		return announcement, err
	}
	return announcement, nil
}

func NewAnnouncement(announcement models.Announcement, author models.Account) (models.Announcement, error) {
	if !author.IsModerator() {
		return announcement, ErrPermissionDenied
	}

	announcement.AuthorID = author.ID
	if err := database.C.Omit("Recipients.*").Create(&announcement).Error; err != nil {
		return announcement, err
	}
	return announcement, nil
}

// ListVisibleAnnouncements resolves the audience rule for each
// announcement and annotates the survivors with the caller's read state.
// Unacknowledged items surface first, newest within each half.
func ListVisibleAnnouncements(user models.Account) ([]AnnouncementView, error) {
	var announcements []models.Announcement
	if err := database.C.Preload("Author").Preload("Recipients").
		Order("created_at DESC, id DESC").Find(&announcements).Error; err != nil {
		return nil, err
	}

	visible := lo.Filter(announcements, func(item models.Announcement, index int) bool {
		return item.CanBeSeenBy(user)
	})

	out := lo.Map(visible, func(item models.Announcement, index int) AnnouncementView {
		view := AnnouncementView{Announcement: item}

		var status models.AnnouncementReadStatus
		if err := database.C.
			Where("announcement_id = ? AND user_id = ?", item.ID, user.ID).
			First(&status).Error; err == nil {
			view.IsRead = status.ReadAt != nil
			view.IsAcknowledged = status.Acknowledged
		}

		return view
	})

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].IsAcknowledged != out[j].IsAcknowledged {
			return !out[i].IsAcknowledged
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}

// GetLatestAnnouncement returns the newest announcement the user may see,
// or ErrNotFound when nothing is visible.
func GetLatestAnnouncement(user models.Account) (AnnouncementView, error) {
	var announcements []models.Announcement
	if err := database.C.Preload("Author").Preload("Recipients").
		Order("created_at DESC, id DESC").Find(&announcements).Error; err != nil {
		return AnnouncementView{}, err
	}

	for _, item := range announcements {
		if !item.CanBeSeenBy(user) {
			continue
		}

		view := AnnouncementView{Announcement: item}
		var status models.AnnouncementReadStatus
		if err := database.C.
			Where("announcement_id = ? AND user_id = ?", item.ID, user.ID).
			First(&status).Error; err == nil {
			view.IsRead = status.ReadAt != nil
			view.IsAcknowledged = status.Acknowledged
		}
		return view, nil
	}

	return AnnouncementView{}, ErrNotFound
}

// MarkAnnouncementRead upserts the caller's read status. read_at is set
// on first view only and never refreshed; acknowledgment is one-way and
// can only be raised through an explicit acknowledge call.
func MarkAnnouncementRead(announcement models.Announcement, user models.Account, acknowledge bool) (models.AnnouncementReadStatus, error) {
	now := time.Now()

	var status models.AnnouncementReadStatus
	if err := database.C.
		Where("announcement_id = ? AND user_id = ?", announcement.ID, user.ID).
		First(&status).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return status, err
		}

		status = models.AnnouncementReadStatus{
			AnnouncementID: announcement.ID,
			UserID:         user.ID,
			ReadAt:         &now,
			Acknowledged:   acknowledge,
		}
		err := database.C.Create(&status).Error
		return status, err
	}

	changed := false
	if status.ReadAt == nil {
		status.ReadAt = &now
		changed = true
	}
	if acknowledge && !status.Acknowledged {
		status.Acknowledged = true
		changed = true
	}
	if changed {
		if err := database.C.Save(&status).Error; err != nil {
			return status, err
		}
	}

	return status, nil
}
