// Package app 提供应用容器，封装所有依赖和服务
package app

import (
	"os"
	"path/filepath"
	"time"

	"github.com/haierkeys/fast-vault-sync-service/internal/dao"
	"github.com/haierkeys/fast-vault-sync-service/internal/service"
	"github.com/haierkeys/fast-vault-sync-service/pkg/logger"
	"github.com/haierkeys/fast-vault-sync-service/pkg/util"
	"github.com/haierkeys/fast-vault-sync-service/pkg/workerpool"
	"github.com/haierkeys/fast-vault-sync-service/pkg/writequeue"

	"github.com/creasty/defaults"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// AppConfig 应用配置
type AppConfig struct {
	File      string          `yaml:"-"` // 配置文件路径，不序列化
	Server    ServerConfig    `yaml:"server"`
	Log       LogConfig       `yaml:"log"`
	Database  DatabaseConfig  `yaml:"database"`
	App       AppSettings     `yaml:"app"`
	Security  SecurityConfig  `yaml:"security"`
	Tracer    TracerConfig    `yaml:"tracer"`
	Sync      SyncConfig      `yaml:"sync"`
	Websocket WebsocketConfig `yaml:"websocket"`
}

// LogConfig 日志配置
type LogConfig struct {
	// Level 日志级别，参见 zapcore.ParseLevel
	Level string `yaml:"level" default:"warn"`
	// File 日志文件路径，为空时只输出到 stderr
	File string `yaml:"file" default:"storage/logs/log.log"`
	// Production 是否启用 JSON 输出
	Production bool `yaml:"production" default:"true"`
	// MaxSize 单个日志文件最大体积（MB）
	MaxSize int `yaml:"max-size" default:"100"`
	// MaxBackups 保留的旧日志文件数量
	MaxBackups int `yaml:"max-backups" default:"10"`
	// MaxAge 旧日志保留天数
	MaxAge int `yaml:"max-age" default:"30"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	// RunMode 运行模式 debug / release / test
	RunMode string `yaml:"run-mode" default:"release"`
	// HttpPort HTTP 监听地址
	HttpPort string `yaml:"http-port" default:":3000"`
	// ReadTimeout 读取超时（秒）
	ReadTimeout int `yaml:"read-timeout" default:"60"`
	// WriteTimeout 写入超时（秒）
	WriteTimeout int `yaml:"write-timeout" default:"60"`
	// PrivateHttpListen 私有 HTTP 监听地址（metrics / pprof），为空时不启动
	PrivateHttpListen string `yaml:"private-http-listen" default:"127.0.0.1:3001"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	// AuthTokenKey 校验会话 JWT 的 HMAC 密钥，需与签发方一致
	AuthTokenKey string `yaml:"auth-token-key" default:"fast-vault-sync-Auth-Token"`
	// TokenExpiry Token 过期时间，支持格式：7d（天）、24h（小时）、30m（分钟）
	TokenExpiry string `yaml:"token-expiry" default:"365d"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// Type 数据库类型 sqlite / mysql / postgres
	Type string `yaml:"type" default:"sqlite"`
	// Path SQLite 数据库文件路径
	Path string `yaml:"path" default:"storage/database/db.sqlite3"`
	// UserName 用户名
	UserName string `yaml:"username"`
	// Password 密码
	Password string `yaml:"password"`
	// Host 主机
	Host string `yaml:"host"`
	// Name 数据库名
	Name string `yaml:"name"`
	// AutoMigrate 启动时是否自动迁移
	AutoMigrate bool `yaml:"auto-migrate" default:"true"`
	// Charset 字符集
	Charset string `yaml:"charset" default:"utf8mb4"`
	// ParseTime 是否解析时间
	ParseTime bool `yaml:"parse-time" default:"true"`
	// MaxIdleConns 最大闲置连接数
	MaxIdleConns int `yaml:"max-idle-conns" default:"10"`
	// MaxOpenConns 最大打开连接数
	MaxOpenConns int `yaml:"max-open-conns" default:"100"`
	// ConnMaxLifetime 连接最大生命周期，支持格式：30m（分钟）、1h（小时）
	ConnMaxLifetime string `yaml:"conn-max-lifetime" default:"30m"`
	// ConnMaxIdleTime 空闲连接最大生命周期
	ConnMaxIdleTime string `yaml:"conn-max-idle-time" default:"10m"`
}

// AppSettings 应用设置
type AppSettings struct {
	// DefaultContextTimeout 请求上下文超时（秒），0 表示不限制
	DefaultContextTimeout int `yaml:"default-context-timeout" default:"60"`

	// Worker Pool 配置
	WorkerPoolMaxWorkers  int    `yaml:"worker-pool-max-workers" default:"50"`
	WorkerPoolQueueSize   int    `yaml:"worker-pool-queue-size" default:"1000"`
	WorkerPoolTaskTimeout string `yaml:"worker-pool-task-timeout" default:"30s"`

	// Write Queue 配置
	WriteQueueCapacity int    `yaml:"write-queue-capacity" default:"100"`
	WriteQueueTimeout  string `yaml:"write-queue-timeout" default:"30s"`
}

// TracerConfig 请求追踪配置
type TracerConfig struct {
	// Enabled 是否启用 Trace ID
	Enabled bool `yaml:"enabled" default:"true"`
	// Header 追踪 ID 请求头名称
	Header string `yaml:"header" default:"X-Trace-ID"`
	// JaegerAgent jaeger agent 地址（host:port），为空时不上报 span
	JaegerAgent string `yaml:"jaeger-agent"`
	// ServiceName 上报到 jaeger 的服务名
	ServiceName string `yaml:"service-name" default:"fast-vault-sync-service"`
}

// SyncConfig 同步配置
type SyncConfig struct {
	// ContentSizeTransferLimit 单页传输字节预算，支持 10MB / 512KB 格式
	ContentSizeTransferLimit string `yaml:"content-size-transfer-limit" default:"10MB"`
	// MaxItemsLimit 单页条目上限
	MaxItemsLimit int `yaml:"max-items-limit" default:"300"`
	// DefaultItemsLimit 客户端未指定时的单页条目数
	DefaultItemsLimit int `yaml:"default-items-limit" default:"150"`
}

// WebsocketConfig 推送通道配置
type WebsocketConfig struct {
	// PingInterval 服务端 ping 间隔
	PingInterval string `yaml:"ping-interval" default:"25s"`
	// PingWait 未收到任何帧时断开的等待时间
	PingWait string `yaml:"ping-wait" default:"40s"`
	// ReadMaxPayloadSize 单帧读取上限
	ReadMaxPayloadSize string `yaml:"read-max-payload-size" default:"64KB"`
}

// LoadConfig reads f over the struct defaults and returns the config with the
// absolute path it was read from. Defaults are applied before decoding so an
// explicit false or 0 in the file is kept.
// LoadConfig 加载配置文件，返回配置与其绝对路径
func LoadConfig(f string) (*AppConfig, string, error) {
	realpath, err := filepath.Abs(f)
	if err != nil {
		return nil, "", errors.Wrap(err, "resolve config path")
	}

	raw, err := os.ReadFile(realpath)
	if err != nil {
		return nil, realpath, errors.Wrap(err, "read config")
	}

	c := &AppConfig{}
	if err := defaults.Set(c); err != nil {
		return nil, realpath, errors.Wrap(err, "apply config defaults")
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return nil, realpath, errors.Wrapf(err, "parse %s", realpath)
	}
	c.File = realpath
	return c, realpath, nil
}

// Save 写回加载时的文件
func (c *AppConfig) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return errors.Wrap(err, "encode config")
	}
	return errors.Wrap(os.WriteFile(c.File, data, 0o644), "write config")
}

// GetLoggerConfig 获取日志配置
func (c *AppConfig) GetLoggerConfig() logger.Config {
	return logger.Config{
		Level:      c.Log.Level,
		File:       c.Log.File,
		Production: c.Log.Production,
		MaxSize:    c.Log.MaxSize,
		MaxBackups: c.Log.MaxBackups,
		MaxAge:     c.Log.MaxAge,
	}
}

// GetDatabaseConfig 获取 DAO 层使用的数据库配置
func (c *AppConfig) GetDatabaseConfig() dao.DatabaseConfig {
	return dao.DatabaseConfig{
		Type:            c.Database.Type,
		Path:            c.Database.Path,
		UserName:        c.Database.UserName,
		Password:        c.Database.Password,
		Host:            c.Database.Host,
		Name:            c.Database.Name,
		AutoMigrate:     c.Database.AutoMigrate,
		Charset:         c.Database.Charset,
		ParseTime:       c.Database.ParseTime,
		MaxIdleConns:    c.Database.MaxIdleConns,
		MaxOpenConns:    c.Database.MaxOpenConns,
		ConnMaxLifetime: c.Database.ConnMaxLifetime,
		ConnMaxIdleTime: c.Database.ConnMaxIdleTime,
		RunMode:         c.Server.RunMode,
	}
}

// GetWorkerPoolConfig 获取 Worker Pool 配置
func (c *AppConfig) GetWorkerPoolConfig() workerpool.Config {
	cfg := workerpool.DefaultConfig()

	if c.App.WorkerPoolMaxWorkers > 0 {
		cfg.MaxWorkers = c.App.WorkerPoolMaxWorkers
	}
	if c.App.WorkerPoolQueueSize > 0 {
		cfg.QueueSize = c.App.WorkerPoolQueueSize
	}
	if timeout, err := util.ParseDuration(c.App.WorkerPoolTaskTimeout); err == nil {
		cfg.TaskTimeout = timeout
	}

	return cfg
}

// GetWriteQueueConfig 获取 Write Queue 配置
func (c *AppConfig) GetWriteQueueConfig() writequeue.Config {
	cfg := writequeue.DefaultConfig()

	if c.App.WriteQueueCapacity > 0 {
		cfg.QueueCapacity = c.App.WriteQueueCapacity
	}
	if timeout, err := util.ParseDuration(c.App.WriteQueueTimeout); err == nil {
		cfg.WriteTimeout = timeout
	}

	return cfg
}

// GetServiceConfig 提取 Service 层需要的配置
func (c *AppConfig) GetServiceConfig() service.ServiceConfig {
	return service.ServiceConfig{
		Sync: service.SyncServiceConfig{
			ContentSizeTransferLimit: util.ParseSize(c.Sync.ContentSizeTransferLimit, service.DefaultContentSizeTransferLimit),
			MaxItemsLimit:            c.Sync.MaxItemsLimit,
			DefaultItemsLimit:        c.Sync.DefaultItemsLimit,
		},
	}
}

// GetTokenExpiry 获取 Token 过期时间
func (c *AppConfig) GetTokenExpiry() time.Duration {
	if expiry, err := util.ParseDuration(c.Security.TokenExpiry); err == nil {
		return expiry
	}
	return 365 * 24 * time.Hour
}

// GetPingInterval 推送通道 ping 间隔，解析失败时返回 0 使用默认值
func (c *AppConfig) GetPingInterval() time.Duration {
	d, _ := util.ParseDuration(c.Websocket.PingInterval)
	return d
}

// GetPingWait 推送通道读超时
func (c *AppConfig) GetPingWait() time.Duration {
	d, _ := util.ParseDuration(c.Websocket.PingWait)
	return d
}
