package services

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/rwcarlsen/goexif/exif"
	"github.com/spf13/viper"
	"github.com/veles-crm/fieldwork/pkg/internal/models"
	"gorm.io/gorm"
)

type PhotoUpload struct {
	FileName string
	Data     []byte
}

// storeAnswerPhoto writes the image under
// <media>/survey_answer_photos/<client>/<yyyy/mm/dd>/ with a unique
// suffix and records it, geotagged from EXIF when the camera provided
// coordinates.
func storeAnswerPhoto(tx *gorm.DB, answer models.SurveyAnswer, client models.Client, upload PhotoUpload) (models.SurveyAnswerPhoto, error) {
	relPath, err := writeUpload(filepath.Join("survey_answer_photos", sanitizePathSegment(client.Name)), upload)
	if err != nil {
		return models.SurveyAnswerPhoto{}, err
	}

	photo := models.SurveyAnswerPhoto{
		AnswerID: answer.ID,
		FilePath: relPath,
		FileName: filepath.Base(upload.FileName),
		Location: extractPhotoLocation(upload.Data),
	}

	if err := tx.Create(&photo).Error; err != nil {
		return photo, err
	}
	return photo, nil
}

func storeReportPhoto(tx *gorm.DB, report models.PhotoReport, upload PhotoUpload) (models.PhotoReportItem, error) {
	relPath, err := writeUpload("photo_reports", upload)
	if err != nil {
		return models.PhotoReportItem{}, err
	}

	item := models.PhotoReportItem{
		ReportID: report.ID,
		FilePath: relPath,
		FileName: filepath.Base(upload.FileName),
		Location: extractPhotoLocation(upload.Data),
	}

	if err := tx.Create(&item).Error; err != nil {
		return item, err
	}
	return item, nil
}

func writeUpload(prefix string, upload PhotoUpload) (string, error) {
	now := time.Now()
	base := filepath.Base(upload.FileName)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)

	relPath := filepath.Join(
		prefix,
		now.Format("2006/01/02"),
		fmt.Sprintf("%s_%s%s", name, uuid.NewString()[:8], ext),
	)

	absPath := filepath.Join(viper.GetString("paths.media"), relPath)
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return "", fmt.Errorf("unable to prepare media directory: %v", err)
	}
	if err := os.WriteFile(absPath, upload.Data, 0o644); err != nil {
		return "", fmt.Errorf("unable to write uploaded photo: %v", err)
	}

	return filepath.ToSlash(relPath), nil
}

func sanitizePathSegment(in string) string {
	out := strings.NewReplacer("/", "_", "\\", "_", " ", "_").Replace(in)
	if len(out) == 0 {
		return "unknown"
	}
	return out
}

// extractPhotoLocation pulls GPS coordinates out of EXIF. Photos without
// usable metadata simply stay untagged.
func extractPhotoLocation(data []byte) *string {
	meta, err := exif.Decode(bytes.NewReader(data))
	if err != nil {
		return nil
	}

	lat, long, err := meta.LatLong()
	if err != nil {
		log.Debug().Err(err).Msg("Uploaded photo has EXIF but no GPS block.")
		return nil
	}

	location := fmt.Sprintf("%f, %f", lat, long)
	return &location
}

// PhotoURL maps a stored file path onto the public media mount.
func PhotoURL(relPath string) string {
	return "/media/" + relPath
}
