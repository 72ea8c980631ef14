package bootstrap

import (
	"github.com/Goden-Gun/vis-server/pkg/config"
	"github.com/Goden-Gun/vis-server/pkg/kafka"
)

// InitKafka initializes the shared Kafka manager for the signal feed.
func InitKafka(cfg config.KafkaConfig) (*kafka.Manager, error) {
	return kafka.NewManager(cfg)
}
