// Package dao 实现数据访问层
package dao

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/haierkeys/fast-vault-sync-service/internal/model"
	"github.com/haierkeys/fast-vault-sync-service/pkg/util"
	"github.com/haierkeys/fast-vault-sync-service/pkg/writequeue"

	"github.com/glebarez/sqlite"
	"github.com/haierkeys/gormTracing"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"
)

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// Type 数据库类型 sqlite / mysql / postgres
	Type            string
	Path            string
	UserName        string
	Password        string
	Host            string
	Name            string
	AutoMigrate     bool
	Charset         string
	ParseTime       bool
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime string
	ConnMaxIdleTime string
	RunMode         string
}

// Dao 持有数据库连接，写操作在 SQLite 下经写队列串行化
type Dao struct {
	db         *gorm.DB
	logger     *zap.Logger
	writeQueue *writequeue.Manager
}

// New 创建 Dao，writeQueue 为 nil 时写操作直接执行
func New(db *gorm.DB, writeQueue *writequeue.Manager, lg *zap.Logger) *Dao {
	if lg == nil {
		lg = zap.NewNop()
	}
	return &Dao{db: db, writeQueue: writeQueue, logger: lg}
}

// DB 返回带 context 的数据库会话
func (d *Dao) DB(ctx context.Context) *gorm.DB {
	return d.db.WithContext(ctx)
}

// ExecuteWrite 执行写操作
// key 通常是用户 UUID，同一 key 的写操作按顺序执行
func (d *Dao) ExecuteWrite(ctx context.Context, key string, fn func(db *gorm.DB) error) error {
	if d.writeQueue == nil {
		return fn(d.DB(ctx))
	}
	return d.writeQueue.Execute(ctx, key, func() error {
		return fn(d.DB(ctx))
	})
}

// NewDBEngineWithConfig 创建数据库引擎（使用注入的配置）
func NewDBEngineWithConfig(c DatabaseConfig, lg *zap.Logger) (*gorm.DB, error) {
	dialector, err := useDialector(c)
	if err != nil {
		return nil, err
	}

	logMode := logger.Silent
	if c.RunMode == "debug" {
		logMode = logger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
		NamingStrategy: schema.NamingStrategy{
			SingularTable: true,
		},
	})
	if err != nil {
		return nil, err
	}

	// 获取通用数据库对象 sql.DB ，然后使用其提供的功能
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}

	if c.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(c.MaxIdleConns)
	}
	if c.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(c.MaxOpenConns)
	}
	if d, err := parseDurationOr(c.ConnMaxLifetime, 10*time.Minute); err == nil {
		sqlDB.SetConnMaxLifetime(d)
	} else {
		lg.Warn("invalid database.conn-max-lifetime, using default", zap.Error(err))
		sqlDB.SetConnMaxLifetime(10 * time.Minute)
	}
	if d, err := parseDurationOr(c.ConnMaxIdleTime, 5*time.Minute); err == nil {
		sqlDB.SetConnMaxIdleTime(d)
	}

	if err := db.Use(&gormTracing.OpentracingPlugin{}); err != nil {
		lg.Warn("gorm tracing plugin not registered", zap.Error(err))
	}

	if c.AutoMigrate {
		if err := model.AutoMigrateAll(db); err != nil {
			return nil, fmt.Errorf("auto migrate: %w", err)
		}
	}

	lg.Info("database connected", zap.String("type", c.Type))
	return db, nil
}

func useDialector(c DatabaseConfig) (gorm.Dialector, error) {
	switch strings.ToLower(c.Type) {
	case "mysql":
		charset := c.Charset
		if charset == "" {
			charset = "utf8mb4"
		}
		return mysql.Open(fmt.Sprintf("%s:%s@tcp(%s)/%s?charset=%s&parseTime=%t&loc=Local",
			c.UserName,
			c.Password,
			c.Host,
			c.Name,
			charset,
			c.ParseTime,
		)), nil
	case "postgres", "postgresql":
		host, port := c.Host, "5432"
		if h, p, ok := strings.Cut(c.Host, ":"); ok {
			host, port = h, p
		}
		return postgres.Open(fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			host, c.UserName, c.Password, c.Name, port)), nil
	case "sqlite", "":
		path := c.Path
		if path == "" {
			path = "storage/database/db.sqlite3"
		}
		return sqlite.Open(sqliteDSN(path)), nil
	}
	return nil, fmt.Errorf("unsupported database type %q", c.Type)
}

// sqliteDSN 为 SQLite 打开 WAL 与 busy_timeout
func sqliteDSN(path string) string {
	if path == ":memory:" || strings.HasPrefix(path, "file:") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
}

func parseDurationOr(s string, def time.Duration) (time.Duration, error) {
	if s == "" {
		return def, nil
	}
	return util.ParseDuration(s)
}
