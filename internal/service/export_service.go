package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"user-directory/internal/domain"
	"user-directory/internal/storage"
)

// ErrExportDisabled is returned when no snapshot bucket is configured.
var ErrExportDisabled = errors.New("snapshot export is not configured")

// Snapshot describes one uploaded directory dump.
type Snapshot struct {
	Location string
	Count    int
}

// ExportService uploads JSON snapshots of the directory to object storage.
type ExportService interface {
	Export(ctx context.Context) (*Snapshot, error)
	ListExports(ctx context.Context) ([]storage.ObjectInfo, error)
}

// ExportOptions locates snapshots in the bucket.
type ExportOptions struct {
	Bucket    string
	KeyPrefix string
	Now       func() time.Time
	Logger    logrus.FieldLogger
}

type exportService struct {
	directory UserDirectory
	store     storage.Service
	bucket    string
	prefix    string
	now       func() time.Time
	logger    logrus.FieldLogger
}

func NewExportService(directory UserDirectory, store storage.Service, opts ExportOptions) ExportService {
	s := &exportService{
		directory: directory,
		store:     store,
		bucket:    strings.TrimSpace(opts.Bucket),
		prefix:    strings.Trim(opts.KeyPrefix, "/"),
		now:       opts.Now,
		logger:    opts.Logger,
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.logger == nil {
		s.logger = logrus.StandardLogger()
	}
	return s
}

type snapshotRecord struct {
	ID         int64  `json:"id"`
	GivenName  string `json:"given_name"`
	FamilyName string `json:"family_name"`
	BirthDate  string `json:"birth_date"`
	Email      string `json:"email"`
	Address    string `json:"address"`
}

func (s *exportService) Export(ctx context.Context) (*Snapshot, error) {
	if s.store == nil || s.bucket == "" {
		return nil, ErrExportDisabled
	}

	users, err := s.directory.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	records := make([]snapshotRecord, len(users))
	for i, u := range users {
		records[i] = snapshotRecord{
			ID:         u.ID,
			GivenName:  u.GivenName,
			FamilyName: u.FamilyName,
			BirthDate:  domain.FormatDate(u.BirthDate),
			Email:      u.Email,
			Address:    u.Address,
		}
	}

	body, err := json.Marshal(records)
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	key := s.key(fmt.Sprintf("users-%s.json", s.now().UTC().Format("20060102T150405Z")))
	location, err := s.store.PutObject(ctx, bytes.NewReader(body), storage.PutOptions{
		Bucket:      s.bucket,
		Key:         key,
		ContentType: "application/json",
	})
	if err != nil {
		return nil, fmt.Errorf("upload snapshot: %w", err)
	}

	s.logger.WithFields(logrus.Fields{"location": location, "count": len(records)}).Info("directory snapshot exported")
	return &Snapshot{Location: location, Count: len(records)}, nil
}

func (s *exportService) ListExports(ctx context.Context) ([]storage.ObjectInfo, error) {
	if s.store == nil || s.bucket == "" {
		return nil, ErrExportDisabled
	}
	prefix := s.prefix
	if prefix != "" {
		prefix += "/"
	}
	return s.store.ListObjects(ctx, s.bucket, prefix)
}

func (s *exportService) key(name string) string {
	if s.prefix == "" {
		return name
	}
	return s.prefix + "/" + name
}
