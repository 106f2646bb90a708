// Package service implements the business logic layer
// Package service 实现业务逻辑层
package service

const (
	// DefaultContentSizeTransferLimit 单页传输字节预算默认值（10MB）
	DefaultContentSizeTransferLimit int64 = 10 * 1024 * 1024
	// DefaultMaxItemsLimit 单页条目上限默认值
	DefaultMaxItemsLimit = 300
	// DefaultItemsLimit 客户端未指定 limit 时的默认值
	DefaultItemsLimit = 150
)

// ServiceConfig service layer configuration
// ServiceConfig 服务层配置
type ServiceConfig struct {
	Sync SyncServiceConfig // Sync related config // 同步相关配置
}

// SyncServiceConfig sync service configuration
// SyncServiceConfig 同步服务配置
type SyncServiceConfig struct {
	ContentSizeTransferLimit int64 // Byte budget of one retrieval page // 单页传输字节预算
	MaxItemsLimit            int   // Upper bound of the page limit // 单页条目上限
	DefaultItemsLimit        int   // Limit used when the client sends none // 默认单页条目数
}

// withDefaults 补齐未配置的项
func (c SyncServiceConfig) withDefaults() SyncServiceConfig {
	if c.ContentSizeTransferLimit <= 0 {
		c.ContentSizeTransferLimit = DefaultContentSizeTransferLimit
	}
	if c.MaxItemsLimit <= 0 {
		c.MaxItemsLimit = DefaultMaxItemsLimit
	}
	if c.DefaultItemsLimit <= 0 {
		c.DefaultItemsLimit = DefaultItemsLimit
	}
	return c
}
