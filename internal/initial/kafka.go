package initial

import (
	"fmt"

	"OpsLink/internal/config"
	"OpsLink/internal/modules/agent/infrastructure/mq"
	"OpsLink/internal/modules/agent/infrastructure/mq/kafka"
	"OpsLink/pkg/zlog"
)

// KafkaPublisher 交互日志广播用，未配置或连不上时为nil（日志只落库）
var KafkaPublisher mq.Publisher

func init() {
	conf := config.GetConfig()
	if len(conf.KafkaConfig.Brokers) == 0 {
		zlog.Info("Kafka 未配置，跳过初始化")
		return
	}

	p, err := kafka.NewSaramaPublisher(kafka.PublisherConfig{
		Brokers:  conf.KafkaConfig.Brokers,
		ClientID: conf.KafkaConfig.ClientID,
	})
	if err != nil {
		zlog.Error(fmt.Sprintf("Kafka 连接失败: %v", err))
		return
	}

	KafkaPublisher = p
	zlog.Info("Kafka 连接成功")
}
