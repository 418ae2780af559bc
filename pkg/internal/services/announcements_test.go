package services

import (
	"testing"

	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veles-crm/fieldwork/pkg/internal/models"
)

func TestAnnouncementVisibility(t *testing.T) {
	setupTestDatabase(t)

	moderator := createTestAccount(t, "moder", models.RoleModerator)
	alice := createTestAccount(t, "alice", models.RoleEmployee)
	bob := createTestAccount(t, "bob", models.RoleEmployee)
	carol := createTestAccount(t, "carol", models.RoleEmployee)

	publish := func(title string, audience models.AnnouncementAudience, recipients ...models.Account) models.Announcement {
		announcement, err := NewAnnouncement(models.Announcement{
			Title:          title,
			Content:        "Текст объявления",
			TargetAudience: audience,
			Recipients:     recipients,
		}, moderator)
		require.NoError(t, err)
		return announcement
	}

	publish("Для всех", models.AudienceAllUsers)
	publish("Для сотрудников", models.AudienceAllEmployees)
	publish("Для модераторов", models.AudienceModerators)
	publish("Адресное", models.AudienceCustom, alice, bob)

	titlesFor := func(user models.Account) []string {
		views, err := ListVisibleAnnouncements(user)
		require.NoError(t, err)
		return lo.Map(views, func(item AnnouncementView, index int) string {
			return item.Title
		})
	}

	t.Run("EmployeeAudiences", func(t *testing.T) {
		assert.ElementsMatch(t, []string{"Для всех", "Для сотрудников", "Адресное"}, titlesFor(alice))
		assert.ElementsMatch(t, []string{"Для всех", "Для сотрудников", "Адресное"}, titlesFor(bob))
		assert.ElementsMatch(t, []string{"Для всех", "Для сотрудников"}, titlesFor(carol))
	})

	t.Run("ModeratorSeesModeratorOnly", func(t *testing.T) {
		// Custom stays addressed; even moderators need to be on the list.
		assert.ElementsMatch(t, []string{"Для всех", "Для сотрудников", "Для модераторов"}, titlesFor(moderator))
	})

	t.Run("LatestSkipsInvisible", func(t *testing.T) {
		latest, err := GetLatestAnnouncement(carol)
		require.NoError(t, err)
		assert.Equal(t, "Для сотрудников", latest.Title)
	})

	t.Run("EmployeeMayNotPublish", func(t *testing.T) {
		_, err := NewAnnouncement(models.Announcement{
			Title:          "Нелегальное",
			Content:        "Текст",
			TargetAudience: models.AudienceAllUsers,
		}, alice)
		assert.ErrorIs(t, err, ErrPermissionDenied)
	})
}

func TestAnnouncementReadTracking(t *testing.T) {
	setupTestDatabase(t)

	moderator := createTestAccount(t, "moder", models.RoleModerator)
	employee := createTestAccount(t, "worker", models.RoleEmployee)

	announcement, err := NewAnnouncement(models.Announcement{
		Title:                  "Важное",
		Content:                "Требует подтверждения",
		RequiresAcknowledgment: true,
		TargetAudience:         models.AudienceAllEmployees,
	}, moderator)
	require.NoError(t, err)

	t.Run("FirstViewSetsReadAt", func(t *testing.T) {
		status, err := MarkAnnouncementRead(announcement, employee, false)
		require.NoError(t, err)
		require.NotNil(t, status.ReadAt)
		assert.False(t, status.Acknowledged)
	})

	t.Run("AcknowledgmentIsOneWay", func(t *testing.T) {
		status, err := MarkAnnouncementRead(announcement, employee, true)
		require.NoError(t, err)
		assert.True(t, status.Acknowledged)

		// A later plain read never lowers the flag.
		status, err = MarkAnnouncementRead(announcement, employee, false)
		require.NoError(t, err)
		assert.True(t, status.Acknowledged)
		assert.NotNil(t, status.ReadAt)
	})

	t.Run("UnacknowledgedSortFirst", func(t *testing.T) {
		_, err := NewAnnouncement(models.Announcement{
			Title:                  "Новое важное",
			Content:                "Ещё не подтверждено",
			RequiresAcknowledgment: true,
			TargetAudience:         models.AudienceAllEmployees,
		}, moderator)
		require.NoError(t, err)

		views, err := ListVisibleAnnouncements(employee)
		require.NoError(t, err)
		require.Len(t, views, 2)
		assert.Equal(t, "Новое важное", views[0].Title)
		assert.False(t, views[0].IsAcknowledged)
		assert.Equal(t, "Важное", views[1].Title)
		assert.True(t, views[1].IsAcknowledged)
	})
}
