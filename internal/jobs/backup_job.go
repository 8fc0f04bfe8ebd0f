// Package jobs содержит фоновые задачи по расписанию (robfig/cron).
package jobs

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

const backupTimeFormat = "20060102T150405.000"

// DefaultBackupSchedule — раз в час.
const DefaultBackupSchedule = "@hourly"

// BackupJob по расписанию копирует файл журнала в каталог резервных копий
// и оставляет не больше keep последних копий.
type BackupJob struct {
	source   string
	dir      string
	schedule string
	keep     int

	cron   *cron.Cron
	logger *log.Entry
	now    func() time.Time
}

// NewBackupJob создаёт задачу. keep <= 0 отключает удаление старых копий.
func NewBackupJob(source, dir, schedule string, keep int, logger *log.Entry) *BackupJob {
	if logger == nil {
		logger = log.WithField("component", "backup-job")
	}
	if schedule == "" {
		schedule = DefaultBackupSchedule
	}
	return &BackupJob{
		source:   source,
		dir:      dir,
		schedule: schedule,
		keep:     keep,
		cron:     cron.New(),
		logger:   logger,
		now:      time.Now,
	}
}

// Start регистрирует задачу в cron и запускает планировщик.
func (j *BackupJob) Start() error {
	_, err := j.cron.AddFunc(j.schedule, func() {
		if _, err := j.RunOnce(); err != nil {
			j.logger.WithError(err).Error("ledger backup failed")
		}
	})
	if err != nil {
		return fmt.Errorf("invalid backup schedule %q: %w", j.schedule, err)
	}

	j.cron.Start()
	j.logger.WithFields(log.Fields{
		"schedule": j.schedule,
		"dir":      j.dir,
		"keep":     j.keep,
	}).Info("backup job started")
	return nil
}

// Stop останавливает планировщик и ждёт завершения текущей копии.
func (j *BackupJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.Info("backup job stopped")
}

// RunOnce делает одну копию и возвращает её путь.
// Если файла журнала ещё нет, копировать нечего: путь пустой, ошибки нет.
func (j *BackupJob) RunOnce() (string, error) {
	data, err := os.ReadFile(j.source)
	if errors.Is(err, fs.ErrNotExist) {
		j.logger.WithField("source", j.source).Debug("ledger file does not exist yet, skipping backup")
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read ledger file: %w", err)
	}

	if err := os.MkdirAll(j.dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	prefix, ext := j.nameParts()
	target := filepath.Join(j.dir, prefix+j.now().UTC().Format(backupTimeFormat)+ext)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("rename backup: %w", err)
	}

	j.logger.WithFields(log.Fields{
		"backup": target,
		"bytes":  len(data),
	}).Info("ledger backup written")

	if err := j.prune(); err != nil {
		return target, err
	}
	return target, nil
}

// Backups возвращает существующие копии от старых к новым.
func (j *BackupJob) Backups() ([]string, error) {
	entries, err := os.ReadDir(j.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read backup dir: %w", err)
	}

	prefix, ext := j.nameParts()
	var backups []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ext) {
			continue
		}
		backups = append(backups, filepath.Join(j.dir, name))
	}
	// Метка времени в имени сортируется лексикографически
	slices.Sort(backups)
	return backups, nil
}

func (j *BackupJob) prune() error {
	if j.keep <= 0 {
		return nil
	}
	backups, err := j.Backups()
	if err != nil {
		return err
	}
	if len(backups) <= j.keep {
		return nil
	}

	for _, path := range backups[:len(backups)-j.keep] {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove old backup: %w", err)
		}
		j.logger.WithField("backup", path).Debug("old backup removed")
	}
	return nil
}

// nameParts: pedidos.json -> "pedidos-", ".json".
func (j *BackupJob) nameParts() (string, string) {
	base := filepath.Base(j.source)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + "-", ext
}
