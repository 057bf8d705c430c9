package services

import (
	"fmt"
	"log"
	"time"

	"defensoria_app_go/config"
	"defensoria_app_go/models"

	"gorm.io/gorm"
)

type NotificationService struct {
	DB *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{DB: db}
}

func (s *NotificationService) GetUnreadNotifications(defensoriaID, userID string) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.DB.Where("defensoria_id = ? AND (user_id IS NULL OR user_id = ?) AND read_at IS NULL", defensoriaID, userID).
		Order("created_at DESC").
		Limit(10).
		Find(&notifications).Error
	return notifications, err
}

func (s *NotificationService) MarkAsRead(notificationID, defensoriaID, userID string) error {
	now := time.Now()
	return s.DB.Model(&models.Notification{}).
		Where("id = ? AND defensoria_id = ? AND (user_id IS NULL OR user_id = ?)", notificationID, defensoriaID, userID).
		Update("read_at", now).Error
}

func (s *NotificationService) MarkAllAsRead(defensoriaID, userID string) error {
	now := time.Now()
	return s.DB.Model(&models.Notification{}).
		Where("defensoria_id = ? AND (user_id IS NULL OR user_id = ?) AND read_at IS NULL", defensoriaID, userID).
		Update("read_at", now).Error
}

func (s *NotificationService) GetNotificationCount(defensoriaID, userID string) (int64, error) {
	var count int64
	err := s.DB.Model(&models.Notification{}).
		Where("defensoria_id = ? AND (user_id IS NULL OR user_id = ?) AND read_at IS NULL", defensoriaID, userID).
		Count(&count).Error
	return count, err
}

func (s *NotificationService) CreateNotification(notification *models.Notification) error {
	return s.DB.Create(notification).Error
}

// NotifyCaseAssigned records an in-app notification for the attorney and
// sends the assignment email. Notification failures are logged, never
// propagated - the assignment itself already succeeded.
func NotifyCaseAssigned(db *gorm.DB, cfg *config.Config, c *models.Case, attorney *models.User) {
	caseTypeName := ""
	if caseType, err := GetCaseTypeByID(db, c.CaseTypeID); err == nil {
		caseTypeName = caseType.Name
	}

	notification := &models.Notification{
		DefensoriaID: c.DefensoriaID,
		UserID:       &attorney.ID,
		CaseID:       &c.ID,
		Type:         models.NotificationTypeCaseAssigned,
		Title:        fmt.Sprintf("Expediente %s asignado", c.CaseNumber),
		Message:      fmt.Sprintf("Se le ha asignado el expediente %s (%s).", c.CaseNumber, caseTypeName),
	}
	if err := NewNotificationService(db).CreateNotification(notification); err != nil {
		log.Printf("Failed to create assignment notification for case %s: %v", c.ID, err)
	}

	SendEmailAsync(cfg, BuildAssignmentEmail(c, caseTypeName, attorney))
}
