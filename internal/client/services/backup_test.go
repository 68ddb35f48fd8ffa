package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBucket is an in-memory objectAPI.
type fakeBucket struct {
	objects map[string][]byte
	putErr  error
}

func (f *fakeBucket) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = b
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeBucket) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	b, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

type backupFixture struct {
	kv     *kvstore.Memory
	lib    *Library
	svc    BackupService
	bucket *fakeBucket
}

func newBackupFixture(t *testing.T, bucket string) *backupFixture {
	t.Helper()

	fb := &fakeBucket{objects: map[string][]byte{}}
	origLoad, origNew := loadDefaultAWSConfig, newObjectAPI
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newObjectAPI = origNew
	})
	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, nil
	}
	newObjectAPI = func(cfg aws.Config, optFns ...func(*s3.Options)) objectAPI { return fb }

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.S3Bucket = bucket

	kv := kvstore.NewMemory()
	log := logging.Nop()
	h, f := history.New(kv, log), favorites.New(kv, log)
	lib := NewLibrary(h, f, log)
	return &backupFixture{
		kv:     kv,
		lib:    lib,
		svc:    NewBackupService(cfg, kv, h, f, lib, log),
		bucket: fb,
	}
}

func backupKey() []byte { return bytes.Repeat([]byte{7}, 32) }

func TestBackup_DisabledWithoutBucket(t *testing.T) {
	fx := newBackupFixture(t, "")

	_, err := fx.svc.Export(context.Background(), "alice", backupKey())
	require.ErrorIs(t, err, ErrBackupDisabled)
	_, err = fx.svc.Import(context.Background(), "alice", backupKey())
	require.ErrorIs(t, err, ErrBackupDisabled)
}

func TestBackup_ExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	fx := newBackupFixture(t, "babelx")

	require.NoError(t, fx.lib.Append(ctx, "alice", hello()))
	require.NoError(t, fx.lib.Append(ctx, "alice", models.Record{ID: "2000", SourceLanguage: "en", TargetLanguage: "fr"}))
	_, err := fx.lib.ToggleFavorite(ctx, "alice", hello())
	require.NoError(t, err)

	key, err := fx.svc.Export(ctx, "alice", backupKey())
	require.NoError(t, err)
	assert.Equal(t, "babelx/alice/snapshot.bin", key)
	stored := fx.bucket.objects["babelx/babelx/alice/snapshot.bin"]
	require.NotEmpty(t, stored)
	assert.NotContains(t, string(stored), "hola")

	require.NoError(t, fx.kv.Clear(ctx))
	require.NoError(t, fx.lib.Reload(ctx, "alice", nil))
	require.Empty(t, fx.lib.History(ctx, "alice"))

	var events []Event
	defer fx.lib.Subscribe(func(e Event) { events = append(events, e) })()

	snap, err := fx.svc.Import(ctx, "alice", backupKey())
	require.NoError(t, err)
	assert.Len(t, snap.History, 2)

	assert.Equal(t, []string{"2000", "1000"}, ids(fx.lib.History(ctx, "alice")))
	assert.Equal(t, []string{"1000"}, ids(fx.lib.Favorites(ctx, "alice")))
	require.NotEmpty(t, events)
	assert.Equal(t, EventReloaded, events[0].Kind)
}

func TestBackup_ImportKeepsLocalTombstones(t *testing.T) {
	ctx := context.Background()
	fx := newBackupFixture(t, "babelx")

	require.NoError(t, fx.lib.Append(ctx, "alice", hello()))
	_, err := fx.svc.Export(ctx, "alice", backupKey())
	require.NoError(t, err)

	require.NoError(t, fx.lib.Delete(ctx, "alice", "1000"))

	snap, err := fx.svc.Import(ctx, "alice", backupKey())
	require.NoError(t, err)
	assert.Empty(t, snap.History)
	assert.Equal(t, []string{"1000"}, snap.Tombstones)
	assert.Empty(t, fx.lib.History(ctx, "alice"))
}

func TestBackup_ImportNormalizesLegacySnapshot(t *testing.T) {
	ctx := context.Background()
	fx := newBackupFixture(t, "babelx")

	legacy := models.Record{ID: "1000", SourceLanguage: "English", TargetLanguage: "Spanish", InputText: "hello", TranslatedText: "hola"}
	sealed, err := cryptox.SealJSON(Snapshot{
		Version:   1,
		History:   []models.Record{legacy},
		Favorites: []models.Record{legacy},
	}, backupKey())
	require.NoError(t, err)
	fx.bucket.objects["babelx/"+SnapshotKey("alice")] = sealed

	_, err = fx.svc.Import(ctx, "alice", backupKey())
	require.NoError(t, err)

	for _, key := range []string{history.Key("alice"), favorites.Key("alice")} {
		raw, err := fx.kv.Get(ctx, key)
		require.NoError(t, err)
		assert.Contains(t, string(raw), `"to":"es"`, key)
		assert.NotContains(t, string(raw), "Spanish", key)
	}
	favs := fx.lib.Favorites(ctx, "alice")
	require.Len(t, favs, 1)
	assert.True(t, favs[0].IsFavorite)
}

func TestBackup_ImportWaitsForLibraryLock(t *testing.T) {
	ctx := context.Background()
	fx := newBackupFixture(t, "babelx")

	require.NoError(t, fx.lib.Append(ctx, "alice", hello()))
	_, err := fx.svc.Export(ctx, "alice", backupKey())
	require.NoError(t, err)

	done := make(chan error, 1)
	err = fx.lib.Reload(ctx, "alice", func(ctx context.Context) error {
		go func() {
			_, err := fx.svc.Import(ctx, "alice", backupKey())
			done <- err
		}()
		select {
		case err := <-done:
			t.Error("import finished while the library was locked")
			done <- err
		case <-time.After(50 * time.Millisecond):
		}
		// written while locked, replaced by the restore afterwards
		return fx.kv.Set(ctx, history.Key("alice"), []byte("[]"))
	})
	require.NoError(t, err)
	require.NoError(t, <-done)

	assert.Equal(t, []string{"1000"}, ids(fx.lib.History(ctx, "alice")))
}

func TestBackup_ImportErrors(t *testing.T) {
	ctx := context.Background()
	fx := newBackupFixture(t, "babelx")

	_, err := fx.svc.Import(ctx, "alice", backupKey())
	require.ErrorIs(t, err, common.ErrorNotFound)

	require.NoError(t, fx.lib.Append(ctx, "alice", hello()))
	_, err = fx.svc.Export(ctx, "alice", backupKey())
	require.NoError(t, err)

	_, err = fx.svc.Import(ctx, "alice", bytes.Repeat([]byte{9}, 32))
	require.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestBackup_ExportUploadError(t *testing.T) {
	fx := newBackupFixture(t, "babelx")
	fx.bucket.putErr = errors.New("access denied")

	_, err := fx.svc.Export(context.Background(), "alice", backupKey())
	require.ErrorContains(t, err, "access denied")
}

func TestBackup_ClientOptions(t *testing.T) {
	origLoad, origNew := loadDefaultAWSConfig, newObjectAPI
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newObjectAPI = origNew
	})

	cfg := &config.Config{
		S3Bucket:    "babelx",
		S3Region:    "eu-central-1",
		S3Endpoint:  "http://127.0.0.1:9000",
		S3AccessKey: "minio",
		S3SecretKey: "minio123",
	}
	svc := &backupService{cfg: cfg}

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		var lo awsconfig.LoadOptions
		for _, fn := range optFns {
			require.NoError(t, fn(&lo))
		}
		assert.Equal(t, "eu-central-1", lo.Region)
		require.NotNil(t, lo.Credentials)
		creds, err := lo.Credentials.Retrieve(ctx)
		require.NoError(t, err)
		assert.Equal(t, "minio", creds.AccessKeyID)
		return aws.Config{}, nil
	}

	var opts s3.Options
	newObjectAPI = func(cfg aws.Config, optFns ...func(*s3.Options)) objectAPI {
		for _, fn := range optFns {
			fn(&opts)
		}
		return &fakeBucket{}
	}

	api, err := svc.objects(context.Background())
	require.NoError(t, err)
	require.NotNil(t, api)
	require.NotNil(t, opts.BaseEndpoint)
	assert.Equal(t, "http://127.0.0.1:9000", *opts.BaseEndpoint)
	assert.True(t, opts.UsePathStyle)

	loadDefaultAWSConfig = func(ctx context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("load-fail")
	}
	_, err = svc.objects(context.Background())
	require.EqualError(t, err, "load-fail")
}
