package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/autocitypro/import-service/internal/models"
)

const (
	ChannelRowStatus = "import.row"
	ChannelProgress  = "import.progress"
)

// Publisher fans import events out over Redis pub/sub so dashboards can
// follow a run without polling. A nil Publisher is a no-op; the service
// runs fine without Redis.
type Publisher struct {
	rdb *redis.Client
	log *logrus.Entry
}

// NewPublisher wraps an already-connected Redis client.
func NewPublisher(rdb *redis.Client, logger *logrus.Logger) *Publisher {
	return &Publisher{
		rdb: rdb,
		log: logger.WithField("component", "import-events"),
	}
}

type rowEvent struct {
	SessionID string           `json:"sessionId"`
	Row       models.ImportRow `json:"row"`
}

type progressEvent struct {
	SessionID string                `json:"sessionId"`
	Progress  models.ImportProgress `json:"progress"`
}

// PublishRowStatus publishes a row-status-changed event.
func (p *Publisher) PublishRowStatus(sessionID string, row models.ImportRow) {
	if p == nil {
		return
	}
	p.publish(ChannelRowStatus, rowEvent{SessionID: sessionID, Row: row})
}

// PublishProgress publishes a progress-changed event.
func (p *Publisher) PublishProgress(sessionID string, progress models.ImportProgress) {
	if p == nil {
		return
	}
	p.publish(ChannelProgress, progressEvent{SessionID: sessionID, Progress: progress})
}

func (p *Publisher) publish(channel string, event interface{}) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.log.WithError(err).Warn("failed to marshal event")
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := p.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		p.log.WithError(err).WithField("channel", channel).Warn("failed to publish event")
	}
}
