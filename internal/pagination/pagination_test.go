package pagination

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type item struct {
	ID   uint
	Name string
}

func setupItems(t *testing.T, n int) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:pagination_%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&item{}))
	for i := 1; i <= n; i++ {
		require.NoError(t, db.Create(&item{Name: fmt.Sprintf("item-%d", i)}).Error)
	}
	return db
}

func TestResolve(t *testing.T) {
	assert.Equal(t, 1, Resolve("", 3))
	assert.Equal(t, 1, Resolve("abc", 3))
	assert.Equal(t, 3, Resolve("0", 3))
	assert.Equal(t, 3, Resolve("-2", 3))
	assert.Equal(t, 1, Resolve("0", 1))
	assert.Equal(t, 2, Resolve("2", 3))
	assert.Equal(t, 3, Resolve("99", 3))
	assert.Equal(t, 3, Resolve("last", 3))
}

func TestNumPages(t *testing.T) {
	assert.Equal(t, 1, NumPages(0, 3))
	assert.Equal(t, 1, NumPages(3, 3))
	assert.Equal(t, 2, NumPages(4, 3))
}

func TestPaginate(t *testing.T) {
	db := setupItems(t, 7)

	page, err := Paginate[item](db.Model(&item{}), "id ASC", "2", 3)
	require.NoError(t, err)
	assert.Equal(t, 2, page.Number)
	assert.Equal(t, 3, page.NumPages)
	assert.Equal(t, int64(7), page.Total)
	require.Len(t, page.Items, 3)
	assert.Equal(t, "item-4", page.Items[0].Name)
	assert.True(t, page.HasNext)
	assert.True(t, page.HasPrevious)
	assert.Equal(t, 4, page.StartIndex)
	assert.Equal(t, 6, page.EndIndex)
}

func TestPaginateOutOfRangeReturnsLastPage(t *testing.T) {
	db := setupItems(t, 7)

	page, err := Paginate[item](db.Model(&item{}), "id ASC", "42", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, page.Number)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "item-7", page.Items[0].Name)
	assert.False(t, page.HasNext)
	assert.Equal(t, 2, page.PreviousPage)
}

func TestPaginateEmpty(t *testing.T) {
	db := setupItems(t, 0)

	page, err := Paginate[item](db.Model(&item{}), "id ASC", "5", 3)
	require.NoError(t, err)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 1, page.NumPages)
	assert.Empty(t, page.Items)
	assert.NotNil(t, page.Items)
	assert.False(t, page.HasNext)
	assert.False(t, page.HasPrevious)
}

func TestPaginateKeepsConditions(t *testing.T) {
	db := setupItems(t, 5)

	page, err := Paginate[item](db.Model(&item{}).Where("id > ?", 3), "id DESC", "1", 3)
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "item-5", page.Items[0].Name)
}

func TestMapKeepsMetadata(t *testing.T) {
	db := setupItems(t, 4)

	page, err := Paginate[item](db.Model(&item{}), "id", "2", 3)
	require.NoError(t, err)

	names := Map(page, func(i item) string { return i.Name })
	assert.Equal(t, []string{"item-4"}, names.Items)
	assert.Equal(t, 2, names.Number)
	assert.Equal(t, 1, names.PreviousPage)
	assert.Equal(t, 4, names.StartIndex)
	assert.Equal(t, 4, names.EndIndex)
}
