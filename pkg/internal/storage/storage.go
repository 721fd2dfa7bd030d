// Package storage 聚合数据库、对象存储、KV 与消息队列客户端.
//
// Example:
//
//	mgr, err := storage.Init(ctx)
//	if err != nil {
//		// 处理错误
//	}
//	defer mgr.Close()
//
//	db := mgr.GetDBClient()
//	s3 := mgr.GetS3Client()
package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/greenparkpeyzaj/greenpark/pkg/configs"
	dbc "github.com/greenparkpeyzaj/greenpark/pkg/internal/storage/db"
	kvc "github.com/greenparkpeyzaj/greenpark/pkg/internal/storage/kv"
	mqc "github.com/greenparkpeyzaj/greenpark/pkg/internal/storage/mq"
	s3c "github.com/greenparkpeyzaj/greenpark/pkg/internal/storage/s3"
	nlog "github.com/greenparkpeyzaj/greenpark/pkg/log"
)

// Manager 聚合所有存储资源. MQ 仅在启用事件时存在.
type Manager struct {
	DB *dbc.Client
	S3 *s3c.Client
	KV *kvc.Client
	MQ *mqc.Client
}

var (
	mgr     *Manager
	mgrErr  error
	mgrOnce sync.Once
)

// Init 使用全局配置初始化存储，重复调用返回同一实例.
func Init(ctx context.Context) (*Manager, error) {
	mgrOnce.Do(func() {
		mgr, mgrErr = build(ctx)
		if mgrErr == nil {
			nlog.Logger().Info().Msg("storage manager initialized")
		}
	})

	return mgr, mgrErr
}

func build(ctx context.Context) (*Manager, error) {
	cfg := configs.GetConfig()
	m := &Manager{}

	var err error

	if m.DB, err = dbc.New(ctx); err != nil {
		return nil, fmt.Errorf("init db: %w", err)
	}

	if m.S3, err = s3c.New(ctx); err != nil {
		_ = m.Close()

		return nil, fmt.Errorf("init s3: %w", err)
	}

	if m.KV, err = kvc.NewKVClient(ctx); err != nil {
		_ = m.Close()

		return nil, fmt.Errorf("init kv: %w", err)
	}

	if cfg.Events.Enabled {
		if m.MQ, err = mqc.New(ctx); err != nil {
			_ = m.Close()

			return nil, fmt.Errorf("init mq: %w", err)
		}
	}

	return m, nil
}

// GetS3Client 获取 S3 客户端.
func (m *Manager) GetS3Client() *s3c.Client {
	return m.S3
}

// GetDBClient 获取 DB 客户端.
func (m *Manager) GetDBClient() *dbc.Client {
	return m.DB
}

// GetKVClient 获取 KV 客户端.
func (m *Manager) GetKVClient() *kvc.Client {
	return m.KV
}

// GetMQClient 获取 MQ 客户端，未启用事件时为 nil.
func (m *Manager) GetMQClient() *mqc.Client {
	return m.MQ
}

// Close 关闭所有已初始化的客户端.
func (m *Manager) Close() error {
	var errs []error

	if m.MQ != nil {
		errs = append(errs, m.MQ.Close())
	}

	if m.KV != nil {
		errs = append(errs, m.KV.Close())
	}

	if m.DB != nil {
		errs = append(errs, m.DB.Close())
	}

	return errors.Join(errs...)
}
