package main

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"measure-filter/storage"
)

// BackupConfig enthält Datenbank und Bucket des Measure-Filter-Dienstes.
type BackupConfig struct {
	DBHost     string `envconfig:"DB_HOST" required:"true"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" required:"true"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" required:"true"`

	BackupBucket    string `envconfig:"BACKUP_S3_BUCKET" required:"true"`
	BackupEndpoint  string `envconfig:"BACKUP_S3_ENDPOINT" required:"true"`
	BackupAccessKey string `envconfig:"BACKUP_S3_ACCESS_KEY" required:"true"`
	BackupSecretKey string `envconfig:"BACKUP_S3_SECRET_KEY" required:"true"`
	BackupRegion    string `envconfig:"BACKUP_S3_REGION" required:"true"`
	BackupPrefix    string `envconfig:"BACKUP_S3_PREFIX" default:"backups/"`
	KeepBackups     int    `envconfig:"KEEP_BACKUPS" default:"4"`
}

// validate lehnt Einstellungen ab, die das gerade hochgeladene Backup löschen würden.
func (c BackupConfig) validate() error {
	if c.KeepBackups < 1 {
		return errors.Errorf("KEEP_BACKUPS must be at least 1, got %d", c.KeepBackups)
	}
	return nil
}

type objectStore interface {
	Put(ctx context.Context, key string, data []byte) error
	List(ctx context.Context, prefix string) ([]storage.Object, error)
	Delete(ctx context.Context, key string) error
}

func main() {
	logging, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("can't initialize zap logger: %v", err)
	}
	defer logging.Sync()

	_ = godotenv.Load()
	var cfg BackupConfig
	if err := envconfig.Process("", &cfg); err != nil {
		logging.Fatal("Config load error", zap.Error(err))
	}
	if err := cfg.validate(); err != nil {
		logging.Fatal("Invalid backup config", zap.Error(err))
	}

	ctx := context.Background()
	logging.Info("Starting backup", zap.String("database", cfg.DBName))

	dumpData, err := createDump(ctx, cfg)
	if err != nil {
		logging.Fatal("Database dump failed", zap.Error(err))
	}

	client, err := storage.NewS3Client(ctx, storage.S3Config{
		URL:    cfg.BackupEndpoint,
		Region: cfg.BackupRegion,
		Key:    cfg.BackupAccessKey,
		Secret: cfg.BackupSecretKey,
		Bucket: cfg.BackupBucket,
	})
	if err != nil {
		logging.Fatal("S3 client creation failed", zap.Error(err))
	}

	key := backupKey(cfg.BackupPrefix, time.Now())
	if err := client.Put(ctx, key, dumpData); err != nil {
		logging.Fatal("Backup upload failed", zap.Error(err))
	}
	logging.Info("Backup uploaded", zap.String("bucket", cfg.BackupBucket), zap.String("key", key), zap.Int("bytes", len(dumpData)))

	deleted, err := rotateBackups(ctx, client, cfg.BackupPrefix, cfg.KeepBackups, logging)
	if err != nil {
		logging.Fatal("Backup rotation failed", zap.Error(err))
	}
	logging.Info("Backup finished", zap.Int("rotated", deleted))
}

func backupKey(prefix string, now time.Time) string {
	return fmt.Sprintf("%sbackup-%s.sql.gz", prefix, now.UTC().Format("2006-01-02T15-04-05Z"))
}

func createDump(ctx context.Context, cfg BackupConfig) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "pg_dump",
		"-h", cfg.DBHost,
		"-p", fmt.Sprint(cfg.DBPort),
		"-U", cfg.DBUser,
		"-d", cfg.DBName,
		"-w", // Passwort wird über PGPASSWORD bereitgestellt
	)
	cmd.Env = append(os.Environ(), fmt.Sprintf("PGPASSWORD=%s", cfg.DBPassword))

	var buf bytes.Buffer
	if err := compressOutput(cmd, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// compressOutput führt cmd aus und schreibt dessen stdout gzip-komprimiert nach w.
// Auf den Prozess wird in jedem Fall gewartet.
func compressOutput(cmd *exec.Cmd, w io.Writer) error {
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return errors.Wrap(err, "pipe stdout")
	}
	if err := cmd.Start(); err != nil {
		return errors.Wrapf(err, "start %s", filepath.Base(cmd.Path))
	}

	gzipWriter := gzip.NewWriter(w)
	_, copyErr := io.Copy(gzipWriter, stdout)
	if copyErr == nil {
		copyErr = gzipWriter.Close()
	} else {
		// Pipe leeren, damit der Kindprozess nicht blockiert.
		_, _ = io.Copy(io.Discard, stdout)
	}
	waitErr := cmd.Wait()

	if copyErr != nil {
		return errors.Wrap(copyErr, "compress output")
	}
	if waitErr != nil {
		return errors.Wrapf(waitErr, "%s: %s", filepath.Base(cmd.Path), strings.TrimSpace(stderr.String()))
	}
	return nil
}

// rotateBackups behält die neuesten keep Backups unter prefix und löscht den
// Rest. Fehlgeschlagene Löschungen werden protokolliert und übersprungen.
func rotateBackups(ctx context.Context, store objectStore, prefix string, keep int, log *zap.Logger) (int, error) {
	if keep < 1 {
		return 0, errors.Errorf("keep must be at least 1, got %d", keep)
	}
	objects, err := store.List(ctx, prefix)
	if err != nil {
		return 0, err
	}
	if len(objects) <= keep {
		log.Info("No rotation needed", zap.Int("backups", len(objects)), zap.Int("keep", keep))
		return 0, nil
	}

	sort.Slice(objects, func(i, j int) bool {
		return objects[i].LastModified.After(objects[j].LastModified)
	})

	deleted := 0
	for _, obj := range objects[keep:] {
		log.Info("Deleting old backup", zap.String("key", obj.Key))
		if err := store.Delete(ctx, obj.Key); err != nil {
			log.Error("Deleting old backup failed", zap.String("key", obj.Key), zap.Error(err))
			continue
		}
		deleted++
	}
	return deleted, nil
}
