package jsonfile

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/pedidos/internal/domain"
)

// Load читает снимок с диска. Отсутствующий или повреждённый файл даёт пустой журнал:
// ошибка только логируется и никогда не возвращается. Повреждённый файл
// переименовывается в <path>.corrupt-<время>, чтобы следующая запись снимка
// его не затёрла. Если при переносе старого формата часть записей пропущена,
// рядом остаётся копия исходника <path>.legacy-<время>.
func Load(path string, logger *log.Entry) domain.Snapshot {
	if logger == nil {
		logger = log.WithField("component", "jsonfile")
	}
	logger = logger.WithField("path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Info("ledger file not found, starting empty")
		} else {
			logger.WithError(err).Warn("cannot open ledger file, starting empty")
		}
		return domain.Snapshot{}
	}

	snapshot, report, err := DecodeWithReport(bytes.NewReader(data))
	if err != nil {
		entry := logger.WithError(err)
		if aside, moveErr := moveAside(path, "corrupt"); moveErr != nil {
			entry.WithField("move_error", moveErr).Error("ledger file is corrupt and could not be moved aside, starting empty")
		} else {
			entry.WithField("moved_to", aside).Warn("ledger file is corrupt, moved aside, starting empty")
		}
		return domain.Snapshot{}
	}

	if report.Lossy() {
		entry := logger.WithFields(log.Fields{
			"skipped":  len(report.Skipped),
			"repaired": report.Repaired,
		}).WithError(errors.Join(report.Skipped...))
		if kept, copyErr := copyAside(path, "legacy", data); copyErr != nil {
			entry.WithField("copy_error", copyErr).Error("legacy records skipped and original could not be kept")
		} else {
			entry.WithField("kept_at", kept).Warn("legacy records skipped, original kept")
		}
	} else if report.Repaired > 0 {
		logger.WithField("repaired", report.Repaired).Info("legacy records repaired on import")
	}

	logger.WithField("orders", len(snapshot.Orders)).Info("ledger loaded")
	return snapshot
}

func asideName(path, tag string) string {
	return fmt.Sprintf("%s.%s-%s", path, tag, time.Now().UTC().Format("20060102T150405.000"))
}

func moveAside(path, tag string) (string, error) {
	target := asideName(path, tag)
	if err := os.Rename(path, target); err != nil {
		return "", err
	}
	return target, nil
}

func copyAside(path, tag string, data []byte) (string, error) {
	target := asideName(path, tag)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", err
	}
	return target, nil
}

// WriteFile атомарно записывает снимок: временный файл в том же каталоге + rename.
func WriteFile(path string, snapshot domain.Snapshot) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create ledger dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp ledger file: %w", err)
	}
	tmpName := tmp.Name()
	// После успешного rename удаление вернёт ErrNotExist, это нормально.
	defer os.Remove(tmpName)

	if err := Encode(tmp, snapshot); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("sync temp ledger file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp ledger file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replace ledger file: %w", err)
	}
	return nil
}
