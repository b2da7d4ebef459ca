package repository

import (
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	objects map[string]string
}

func newFakeBackend() *fakeBackend { return &fakeBackend{objects: make(map[string]string)} }

func (f *fakeBackend) Upload(ctx context.Context, key string, reader io.Reader) error {
	b, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	f.objects[key] = string(b)
	return nil
}

func (f *fakeBackend) UploadFile(ctx context.Context, key, localPath string) error { return nil }

func (f *fakeBackend) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	v, ok := f.objects[key]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return io.NopCloser(strings.NewReader(v)), nil
}

func (f *fakeBackend) DownloadFile(ctx context.Context, key, localPath string) error { return nil }

func (f *fakeBackend) Delete(ctx context.Context, key string) error {
	delete(f.objects, key)
	return nil
}

func (f *fakeBackend) Exists(ctx context.Context, key string) (bool, error) {
	_, ok := f.objects[key]
	return ok, nil
}

func (f *fakeBackend) GetURL(key string) string { return "fake://" + key }

func TestDirectoryRepositoryStoreBucketsByDay(t *testing.T) {
	backend := newFakeBackend()
	repo := NewDirectoryRepository(backend)
	fixed := time.Date(2026, 3, 4, 9, 0, 0, 0, time.UTC)
	repo.clock = func() time.Time { return fixed }

	ident := uuid.New()
	require.NoError(t, repo.Store(&Record{Name: "worker", Ident: ident, FlameOutput: "A 1\n"}))

	key := fmt.Sprintf("2026-03-04/%s-worker.txt", ident.String())
	got, ok := backend.objects[key]
	require.True(t, ok)
	assert.Equal(t, "A 1\n", got)
}
