package initial

import (
	"fmt"
	"log"
	"os"
	"time"

	"OpsLink/internal/config"
	agentEntity "OpsLink/internal/modules/agent/domain/entity"
	collabEntity "OpsLink/internal/modules/collab/domain/entity"
	ragEntity "OpsLink/internal/modules/rag/domain/entity"
	sopEntity "OpsLink/internal/modules/sop/domain/entity"
	userEntity "OpsLink/internal/modules/user/domain/entity"
	"OpsLink/pkg/zlog"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var GormDB *gorm.DB

func init() {
	conf := config.GetConfig()
	user := conf.MysqlConfig.User
	password := conf.MysqlConfig.Password
	host := conf.MysqlConfig.Host
	port := conf.MysqlConfig.Port
	database := conf.MysqlConfig.DatabaseName
	if database == "" {
		database = conf.MainConfig.AppName
	}
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local", user, password, host, port, database)

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	var err error
	GormDB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		zlog.Fatal(err.Error())
	}

	// 自动迁移，没有表会自动建表
	err = GormDB.AutoMigrate(
		&userEntity.UserInfo{},
		&agentEntity.Agent{},
		&agentEntity.AgentLog{},
		&ragEntity.KnowledgeDocument{},
		&sopEntity.SOPDocument{},
		&collabEntity.CollabSession{},
		&collabEntity.CollabMessage{},
	)
	if err != nil {
		zlog.Fatal(err.Error())
	}
}
