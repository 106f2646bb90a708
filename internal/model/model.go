package model

import (
	"gorm.io/gorm"
)

// AutoMigrate 按模型名迁移单张表
func AutoMigrate(db *gorm.DB, key string) error {
	switch key {
	case "Item":
		return db.AutoMigrate(Item{})
	case "SharedVault":
		return db.AutoMigrate(SharedVault{})
	case "SharedVaultUser":
		return db.AutoMigrate(SharedVaultUser{})
	case "RemovedSharedVaultUser":
		return db.AutoMigrate(RemovedSharedVaultUser{})
	case "SharedVaultInvite":
		return db.AutoMigrate(SharedVaultInvite{})
	case "Contact":
		return db.AutoMigrate(Contact{})
	}
	return nil
}

// Models 返回全部需要迁移的模型名
func Models() []string {
	return []string{"Item", "SharedVault", "SharedVaultUser", "RemovedSharedVaultUser", "SharedVaultInvite", "Contact"}
}

// AutoMigrateAll 迁移全部表
func AutoMigrateAll(db *gorm.DB) error {
	for _, key := range Models() {
		if err := AutoMigrate(db, key); err != nil {
			return err
		}
	}
	return nil
}
