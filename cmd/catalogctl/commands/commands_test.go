package commands

import (
	"bytes"
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-catalog/internal/config"
	authorModel "library-catalog/internal/domains/author/model"
	bookModel "library-catalog/internal/domains/book/model"
	"library-catalog/pkg/container"
)

func memoryContainer(t *testing.T) *container.Container {
	t.Helper()

	c, err := container.NewWithConfig(&config.Config{
		App:   config.AppConfig{Environment: "test", Port: "0"},
		Store: config.StoreConfig{Driver: config.StoreDriverMemory},
		Redis: config.RedisConfig{Enabled: false, CountTTL: time.Minute},
		Jobs:  config.JobConfig{Concurrency: 1, OrphanSweepQueue: "maintenance"},
	})
	require.NoError(t, err)
	return c
}

// useContainer makes every command in the test share one memory store
func useContainer(t *testing.T, c *container.Container) {
	t.Helper()
	prev := newContainer
	newContainer = func() (*container.Container, error) { return c, nil }
	t.Cleanup(func() { newContainer = prev })
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append([]string{"--env-file", "does-not-exist.env"}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestSeedCatalog_CreatesDemoData(t *testing.T) {
	c := memoryContainer(t)
	ctx := context.Background()

	authors, books, err := seedCatalog(ctx, c.AuthorService, c.BookService, false, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, len(demoCatalog), authors)
	assert.Equal(t, 6, books)

	list, err := c.AuthorService.List(ctx, authorModel.AuthorFilter{})
	require.NoError(t, err)
	require.Len(t, list, len(demoCatalog))
	assert.Equal(t, "Asimov", list[0].FamilyName)

	all, err := c.BookService.List(ctx, bookModel.BookFilter{})
	require.NoError(t, err)
	for _, b := range all {
		assert.NotNil(t, b.Author, "book %s should resolve its author", b.Title)
	}
}

func TestSeedCatalog_SkipsNonEmptyStore(t *testing.T) {
	c := memoryContainer(t)
	ctx := context.Background()

	_, _, err := seedCatalog(ctx, c.AuthorService, c.BookService, false, io.Discard)
	require.NoError(t, err)

	var out bytes.Buffer
	authors, books, err := seedCatalog(ctx, c.AuthorService, c.BookService, false, &out)
	require.NoError(t, err)
	assert.Zero(t, authors)
	assert.Zero(t, books)
	assert.Contains(t, out.String(), "skipping")
}

func TestSeedCatalog_ForceNeverDuplicatesISBN(t *testing.T) {
	c := memoryContainer(t)
	ctx := context.Background()

	_, _, err := seedCatalog(ctx, c.AuthorService, c.BookService, false, io.Discard)
	require.NoError(t, err)

	_, books, err := seedCatalog(ctx, c.AuthorService, c.BookService, true, io.Discard)
	require.NoError(t, err)
	assert.Zero(t, books)

	count, err := c.BookService.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 6, count)
}

func TestMigrateCommand_MemoryStore(t *testing.T) {
	useContainer(t, memoryContainer(t))

	out, err := runCmd(t, "migrate")

	require.NoError(t, err)
	assert.Contains(t, out, "nothing to migrate")
}

func TestSweepCommand_NowDryRun(t *testing.T) {
	c := memoryContainer(t)
	useContainer(t, c)
	t.Cleanup(func() { sweepNow, sweepDryRun, sweepLimit = false, false, 0 })

	_, _, err := seedCatalog(context.Background(), c.AuthorService, c.BookService, false, io.Discard)
	require.NoError(t, err)

	out, err := runCmd(t, "sweep", "--now", "--dry-run")

	require.NoError(t, err)
	assert.Contains(t, out, "found 0 orphan book(s)")
}
