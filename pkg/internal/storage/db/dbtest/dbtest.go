// Package dbtest 为测试提供迁移好的内存 SQLite 数据库.
package dbtest

import (
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/greenparkpeyzaj/greenpark/pkg/internal/model"
	"github.com/greenparkpeyzaj/greenpark/pkg/internal/storage/db"
)

var seq atomic.Int64

// New 返回独立的内存数据库，测试结束时关闭.
func New(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := "file:" + name + "_" + strconv.FormatInt(seq.Add(1), 10) + "?mode=memory&cache=shared"

	client, err := db.Open(sqlite.Open(dsn), logger.Silent)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := client.DB.DB()
	if err != nil {
		t.Fatalf("sql.DB: %v", err)
	}

	// 内存库在最后一个连接关闭时销毁
	sqlDB.SetMaxOpenConns(1)

	if err := client.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() { _ = client.Close() })

	return client.DB
}
