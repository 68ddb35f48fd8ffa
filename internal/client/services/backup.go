package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/dmitrijs2005/babelx/internal/client/config"
	"github.com/dmitrijs2005/babelx/internal/client/models"
	"github.com/dmitrijs2005/babelx/internal/client/repositories/favorites"
	"github.com/dmitrijs2005/babelx/internal/client/repositories/history"
	"github.com/dmitrijs2005/babelx/internal/client/repositories/kvstore"
	"github.com/dmitrijs2005/babelx/internal/common"
	"github.com/dmitrijs2005/babelx/internal/cryptox"
	"github.com/dmitrijs2005/babelx/internal/logging"
)

var ErrBackupDisabled = errors.New("backup is not configured")

// maxSnapshotSize bounds what Import reads from the bucket.
const maxSnapshotSize = 32 << 20

// objectAPI is the part of *s3.Client the backup needs.
type objectAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newObjectAPI = func(cfg aws.Config, optFns ...func(*s3.Options)) objectAPI {
		return s3.NewFromConfig(cfg, optFns...)
	}
)

// Snapshot is the plaintext content of a backup object.
type Snapshot struct {
	Version    int             `json:"version"`
	History    []models.Record `json:"history"`
	Favorites  []models.Record `json:"favorites"`
	Tombstones []string        `json:"deletedHistory"`
}

func SnapshotKey(user string) string {
	return "babelx/" + user + "/snapshot.bin"
}

type BackupService interface {
	Export(ctx context.Context, user string, key []byte) (string, error)
	Import(ctx context.Context, user string, key []byte) (Snapshot, error)
}

type backupService struct {
	cfg       *config.Config
	kv        kvstore.Store
	history   history.Repository
	favorites favorites.Repository
	library   LibraryService
	log       logging.Logger
}

func NewBackupService(cfg *config.Config, kv kvstore.Store, h history.Repository, f favorites.Repository,
	lib LibraryService, log logging.Logger) BackupService {
	return &backupService{cfg: cfg, kv: kv, history: h, favorites: f, library: lib, log: log.With("component", "backup")}
}

func (b *backupService) objects(ctx context.Context) (objectAPI, error) {
	if !b.cfg.BackupEnabled() {
		return nil, ErrBackupDisabled
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(b.cfg.S3Region)}
	if b.cfg.S3AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			b.cfg.S3AccessKey,
			b.cfg.S3SecretKey,
			"",
		)))
	}

	awsCfg, err := loadDefaultAWSConfig(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return newObjectAPI(awsCfg, func(o *s3.Options) {
		if b.cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(b.cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// Export seals the user's stored collections with key and uploads them.
// It returns the object key.
func (b *backupService) Export(ctx context.Context, user string, key []byte) (string, error) {
	api, err := b.objects(ctx)
	if err != nil {
		return "", err
	}

	snap := Snapshot{Version: 1}
	if snap.History, err = b.history.Read(ctx, user); err != nil {
		return "", fmt.Errorf("read history: %w", err)
	}
	if snap.Tombstones, err = b.history.ReadTombstones(ctx, user); err != nil {
		return "", fmt.Errorf("read tombstones: %w", err)
	}
	if snap.Favorites, err = b.favorites.Read(ctx, user); err != nil {
		return "", fmt.Errorf("read favorites: %w", err)
	}
	snap.History = history.Filter(snap.History, snap.Tombstones)

	sealed, err := cryptox.SealJSON(snap, key)
	if err != nil {
		return "", fmt.Errorf("seal snapshot: %w", err)
	}

	objectKey := SnapshotKey(user)
	_, err = api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.cfg.S3Bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(sealed),
		ContentType: aws.String("application/octet-stream"),
	})
	if err != nil {
		return "", fmt.Errorf("upload snapshot: %w", err)
	}

	b.log.Info(ctx, "backup uploaded", "user", user, "key", objectKey, "records", len(snap.History))
	return objectKey, nil
}

// Import downloads and opens the user's snapshot and replaces the stored
// collections with it while the user's library is locked.
func (b *backupService) Import(ctx context.Context, user string, key []byte) (Snapshot, error) {
	api, err := b.objects(ctx)
	if err != nil {
		return Snapshot{}, err
	}

	out, err := api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.cfg.S3Bucket),
		Key:    aws.String(SnapshotKey(user)),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return Snapshot{}, fmt.Errorf("snapshot of %s: %w", user, common.ErrorNotFound)
		}
		return Snapshot{}, fmt.Errorf("download snapshot: %w", err)
	}
	defer out.Body.Close()

	sealed, err := io.ReadAll(io.LimitReader(out.Body, maxSnapshotSize))
	if err != nil {
		return Snapshot{}, fmt.Errorf("download snapshot: %w", err)
	}

	var snap Snapshot
	if err := cryptox.OpenJSON(sealed, key, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("open snapshot: %w", common.ErrorUnauthorized)
	}

	err = b.library.Reload(ctx, user, func(ctx context.Context) error {
		return b.restore(ctx, user, &snap)
	})
	if err != nil {
		return Snapshot{}, err
	}
	b.log.Info(ctx, "backup restored", "user", user, "records", len(snap.History))
	return snap, nil
}

// restore writes snap over the user's collections in one batch. Ids deleted
// locally stay deleted: the local tombstones are merged into the restored
// set before history is filtered. Records from older snapshots are
// normalized on the way in.
func (b *backupService) restore(ctx context.Context, user string, snap *Snapshot) error {
	local, err := b.history.ReadTombstones(ctx, user)
	if err != nil {
		return fmt.Errorf("read tombstones: %w", err)
	}
	for _, id := range local {
		snap.Tombstones, _ = history.Tombstone(snap.Tombstones, id)
	}
	for i := range snap.History {
		snap.History[i] = snap.History[i].Normalized()
	}
	for i := range snap.Favorites {
		snap.Favorites[i] = snap.Favorites[i].Normalized()
		snap.Favorites[i].IsFavorite = true
	}
	snap.History = history.Filter(snap.History, snap.Tombstones)

	values := make(map[string][]byte, 3)
	for k, v := range map[string]any{
		history.Key(user):          nonNilRecords(snap.History),
		history.TombstoneKey(user): nonNilIDs(snap.Tombstones),
		favorites.Key(user):        nonNilRecords(snap.Favorites),
	} {
		raw, err := json.Marshal(v)
		if err != nil {
			return err
		}
		values[k] = raw
	}
	if err := kvstore.SetAll(ctx, b.kv, values); err != nil {
		return fmt.Errorf("restore snapshot: %w", err)
	}
	return nil
}

func nonNilRecords(r []models.Record) []models.Record {
	if r == nil {
		return []models.Record{}
	}
	return r
}

func nonNilIDs(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
