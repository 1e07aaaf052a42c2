package jobs

import (
	"context"

	"github.com/srobertsphd/alano-club/internal/backups"
)

// BackupJob dumps the database and prunes expired backups.
type BackupJob struct {
	service *backups.Service
}

func NewBackupJob(service *backups.Service) *BackupJob {
	return &BackupJob{service: service}
}

func (j *BackupJob) Name() string {
	return "nightly-backup"
}

func (j *BackupJob) Run(ctx context.Context) error {
	if _, err := j.service.Create(ctx); err != nil {
		return err
	}
	_, err := j.service.Prune(ctx)
	return err
}
