// Package backups produces and manages SQL dumps of the club database.
package backups

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/srobertsphd/alano-club/pkg/config"
	pkgerrors "github.com/srobertsphd/alano-club/pkg/errors"
	"github.com/srobertsphd/alano-club/pkg/logger"
)

const filePrefix = "backup_"

// File describes one backup on disk.
type File struct {
	Name      string    `json:"name"`
	SizeBytes int64     `json:"size_bytes"`
	CreatedAt time.Time `json:"created_at"`
}

type ServiceParams struct {
	AppEnv string
	DB     config.DBConfig
	Backup config.BackupConfig
	Logger *logger.Logger
}

// Service shells out to pg_dump and keeps the backup directory pruned.
type Service struct {
	appEnv string
	db     config.DBConfig
	cfg    config.BackupConfig
	logg   *logger.Logger
}

func NewService(params ServiceParams) (*Service, error) {
	if params.DB.DSN == "" {
		return nil, errors.New("database DSN is required")
	}
	if params.Backup.Dir == "" {
		return nil, errors.New("backup dir is required")
	}
	return &Service{
		appEnv: params.AppEnv,
		db:     params.DB,
		cfg:    params.Backup,
		logg:   params.Logger,
	}, nil
}

func (s *Service) dir() string {
	return filepath.Join(s.cfg.Dir, s.appEnv)
}

// Create runs pg_dump and writes its output to a timestamped file, returning
// the file's metadata. A failed dump leaves nothing behind.
func (s *Service) Create(ctx context.Context) (*File, error) {
	if s.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.Timeout)
		defer cancel()
	}

	if err := os.MkdirAll(s.dir(), 0o755); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating backup dir")
	}

	// nanosecond precision keeps names unique for back-to-back dumps
	name := fmt.Sprintf("%s%s.sql", filePrefix, time.Now().UTC().Format("20060102T150405.000000000Z"))
	path := filepath.Join(s.dir(), name)

	out, err := os.Create(path)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating backup file")
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.cfg.PgDumpPath, "--dbname="+s.db.DSN)
	cmd.Stdout = out
	cmd.Stderr = &stderr

	runErr := cmd.Run()
	closeErr := out.Close()
	if runErr != nil {
		_ = os.Remove(path)
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			runErr = fmt.Errorf("%w: %s", runErr, detail)
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, runErr, "running pg_dump")
	}
	if closeErr != nil {
		_ = os.Remove(path)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, closeErr, "flushing backup file")
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reading backup metadata")
	}

	if s.logg != nil {
		s.logg.Info(ctx, fmt.Sprintf("backup written: %s (%d bytes)", name, info.Size()))
	}
	return &File{Name: name, SizeBytes: info.Size(), CreatedAt: info.ModTime().UTC()}, nil
}

// List returns the backups on disk, newest first.
func (s *Service) List(ctx context.Context) ([]File, error) {
	entries, err := os.ReadDir(s.dir())
	if err != nil {
		if os.IsNotExist(err) {
			return []File{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "reading backup dir")
	}

	var files []File
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), filePrefix) {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, File{
			Name:      entry.Name(),
			SizeBytes: info.Size(),
			CreatedAt: info.ModTime().UTC(),
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].CreatedAt.After(files[j].CreatedAt) })
	return files, nil
}

// Prune removes backups older than the retention window and reports how many
// were deleted. A non-positive retention disables pruning.
func (s *Service) Prune(ctx context.Context) (int, error) {
	if s.cfg.RetentionDays <= 0 {
		return 0, nil
	}

	files, err := s.List(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -s.cfg.RetentionDays)
	removed := 0
	for _, file := range files {
		if file.CreatedAt.After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir(), file.Name)); err != nil {
			return removed, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing expired backup")
		}
		removed++
	}

	if removed > 0 && s.logg != nil {
		s.logg.Info(ctx, fmt.Sprintf("pruned %d expired backups", removed))
	}
	return removed, nil
}
