// Package database 负责初始化数据库连接。
package database

import (
	"os"
	"path/filepath"
	"time"

	"style-learn-go/internal/config"
	"style-learn-go/internal/model"
	"style-learn-go/pkg/log"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

// Init 根据配置初始化数据库连接并迁移表结构。
// database.type 为 sqlite 时使用本地文件，为 mysql 时使用 DSN 连接。
func Init(cfg config.DatabaseConfig) {
	var err error

	switch cfg.Type {
	case "mysql":
		DB, err = gorm.Open(mysql.Open(cfg.MySQL.DSN), &gorm.Config{})
		if err != nil {
			log.Fatal("连接 MySQL 数据库失败", err)
		}

		// 配置连接池
		sqlDB, derr := DB.DB()
		if derr != nil {
			log.Fatal("获取 sql.DB 失败", derr)
		}
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	default:
		// sqlite：确保数据目录存在
		if dir := filepath.Dir(cfg.SQLite.Path); dir != "." {
			_ = os.MkdirAll(dir, os.ModePerm)
		}
		DB, err = gorm.Open(sqlite.Open(cfg.SQLite.Path), &gorm.Config{})
		if err != nil {
			log.Fatal("打开 SQLite 数据库失败", err)
		}
	}

	if err := Migrate(DB); err != nil {
		log.Fatal("数据库表结构迁移失败", err)
	}

	log.Infof("数据库初始化完成, type=%s", cfg.Type)
}

// Migrate 创建或更新核心的四张表：消息、风格特征、会话上下文、统计数据。
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Message{},
		&model.StyleFeature{},
		&model.SessionContext{},
		&model.StatisticMetric{},
	)
}
