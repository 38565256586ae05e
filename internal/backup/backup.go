package backup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"flour-ledger/internal/models"
	"flour-ledger/internal/service"
	"flour-ledger/internal/util"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const snapshotVersion = 1

// snapshot is the plaintext written into a backup file before encryption.
type snapshot struct {
	Version  int              `json:"version"`
	Created  time.Time        `json:"created"`
	Users    []models.User    `json:"users"`
	Orders   []models.Order   `json:"orders"`
	Invoices []models.Invoice `json:"invoices"`
}

// RestoreResult counts the records a restore brought back.
type RestoreResult struct {
	Users    int `json:"users"`
	Orders   int `json:"orders"`
	Invoices int `json:"invoices"`
}

// Service writes encrypted snapshots of the whole store to Dir and restores
// them.
type Service struct {
	db     *gorm.DB
	dir    string
	secret string
	logger *logrus.Logger
}

func New(db *gorm.DB, dir, secret string, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Service{db: db, dir: dir, secret: secret, logger: logger}
}

// Create snapshots users, orders and invoices into a new encrypted file.
func (s *Service) Create(ctx context.Context) (*models.Backup, error) {
	data := snapshot{Version: snapshotVersion, Created: time.Now().UTC()}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Order("created_at ASC").Find(&data.Users).Error; err != nil {
			return fmt.Errorf("read users: %w", err)
		}
		if err := tx.Order("created_at ASC").Find(&data.Orders).Error; err != nil {
			return fmt.Errorf("read orders: %w", err)
		}
		if err := tx.Order("created_at ASC").Find(&data.Invoices).Error; err != nil {
			return fmt.Errorf("read invoices: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(&data)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	enc, err := util.EncryptAES(s.secret, raw)
	if err != nil {
		return nil, fmt.Errorf("encrypt snapshot: %w", err)
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}

	id := uuid.NewString()
	fileName := fmt.Sprintf("backup-%s.bin", id)
	filePath := filepath.Join(s.dir, fileName)
	if err := os.WriteFile(filePath, enc, 0o600); err != nil {
		return nil, fmt.Errorf("write backup file: %w", err)
	}

	b := models.Backup{
		ID:       id,
		FileName: fileName,
		FilePath: filePath,
		Size:     int64(len(enc)),
	}
	if err := s.db.WithContext(ctx).Create(&b).Error; err != nil {
		_ = os.Remove(filePath)
		return nil, fmt.Errorf("save backup record: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"backup_id": b.ID,
		"users":     len(data.Users),
		"orders":    len(data.Orders),
		"invoices":  len(data.Invoices),
	}).Info("backup created")
	return &b, nil
}

// List returns known backups, newest first.
func (s *Service) List(ctx context.Context) ([]models.Backup, error) {
	list := make([]models.Backup, 0)
	if err := s.db.WithContext(ctx).Order("created_at DESC").Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list backups: %w", err)
	}
	return list, nil
}

// Restore replaces the store content with the snapshot in backup id. The
// replace is one transaction: a file that fails to decrypt or parse, or a
// failed insert, leaves the store as it was.
func (s *Service) Restore(ctx context.Context, id string) (*RestoreResult, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	encData, err := os.ReadFile(b.FilePath)
	if err != nil {
		return nil, fmt.Errorf("read backup file: %w", err)
	}
	raw, err := util.DecryptAES(s.secret, encData)
	if err != nil {
		return nil, fmt.Errorf("decrypt backup file: %w", err)
	}

	var data snapshot
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse backup: %w", err)
	}
	if data.Version != snapshotVersion {
		return nil, fmt.Errorf("unsupported backup version %d", data.Version)
	}
	for i := range data.Orders {
		data.Orders[i].User = nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		all := tx.Session(&gorm.Session{AllowGlobalUpdate: true})
		// orders before users so no order outlives its owner
		if err := all.Delete(&models.Order{}).Error; err != nil {
			return fmt.Errorf("clear orders: %w", err)
		}
		if err := all.Delete(&models.User{}).Error; err != nil {
			return fmt.Errorf("clear users: %w", err)
		}
		if err := all.Delete(&models.Invoice{}).Error; err != nil {
			return fmt.Errorf("clear invoices: %w", err)
		}

		if len(data.Users) > 0 {
			if err := tx.CreateInBatches(&data.Users, 200).Error; err != nil {
				return fmt.Errorf("restore users: %w", err)
			}
		}
		if len(data.Orders) > 0 {
			if err := tx.Omit("User").CreateInBatches(&data.Orders, 200).Error; err != nil {
				return fmt.Errorf("restore orders: %w", err)
			}
		}
		if len(data.Invoices) > 0 {
			if err := tx.CreateInBatches(&data.Invoices, 200).Error; err != nil {
				return fmt.Errorf("restore invoices: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	res := &RestoreResult{Users: len(data.Users), Orders: len(data.Orders), Invoices: len(data.Invoices)}
	s.logger.WithFields(logrus.Fields{
		"backup_id": id,
		"users":     res.Users,
		"orders":    res.Orders,
		"invoices":  res.Invoices,
	}).Info("backup restored")
	return res, nil
}

// Delete removes the backup file and its record.
func (s *Service) Delete(ctx context.Context, id string) error {
	b, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	// file first, then the record
	if err := os.Remove(b.FilePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove backup file: %w", err)
	}
	if err := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Backup{}).Error; err != nil {
		return fmt.Errorf("delete backup record: %w", err)
	}
	return nil
}

// Get loads the record of backup id.
func (s *Service) Get(ctx context.Context, id string) (*models.Backup, error) {
	var b models.Backup
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&b).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("backup %s: %w", id, service.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load backup %s: %w", id, err)
	}
	return &b, nil
}
