// Package buildevents consumes build lifecycle events from the job engine's
// kafka topic and feeds them to the notifier.
package buildevents

import (
	"context"
	"errors"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/segmentio/kafka-go"

	"github.com/stashnotify/stashnotify/config"
	"github.com/stashnotify/stashnotify/pkg/constants"
	"github.com/stashnotify/stashnotify/pkg/core"
	"github.com/stashnotify/stashnotify/pkg/credentials"
	"github.com/stashnotify/stashnotify/pkg/lumber"
)

const (
	// EventHeader is the kafka header for the build lifecycle event type.
	EventHeader = "event_type"
	// JobHeader is the kafka header for the job full name.
	JobHeader = "job"

	// EventBuildStarted marks an event emitted before the build runs.
	EventBuildStarted = "build_started"
	// EventBuildFinished marks an event emitted after the build finished.
	EventBuildFinished = "build_finished"
)

type event struct {
	CredentialsID       string      `json:"credentialsId"`
	OverrideLatestBuild *bool       `json:"overrideLatestBuild"`
	Build               *core.Build `json:"build"`
}

type consumer struct {
	topicName       string
	reader          *kafka.Reader
	cfg             *config.Config
	notifier        core.Notifier
	credentialStore core.CredentialStore
	logger          lumber.Logger
	startTime       time.Time
}

// New returns a new kafka consumer for the build events topic.
func New(cfg *config.Config, notifier core.Notifier, credentialStore core.CredentialStore, logger lumber.Logger) core.QueueConsumer {
	// configure group balancer to RR
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:               strings.Split(cfg.Kafka.Brokers, ","),
		Topic:                 cfg.Kafka.BuildEvents.Topic,
		ErrorLogger:           kafka.LoggerFunc(logger.Errorf),
		GroupID:               cfg.Kafka.BuildEvents.ConsumerGroup,
		MaxBytes:              constants.KafkaMaxBytes,
		WatchPartitionChanges: true,
		GroupBalancers:        []kafka.GroupBalancer{kafka.RoundRobinGroupBalancer{}}})
	logger.Infof("Kafka Consumer Group %s created successfully", cfg.Kafka.BuildEvents.ConsumerGroup)
	return &consumer{
		topicName:       cfg.Kafka.BuildEvents.Topic,
		reader:          reader,
		cfg:             cfg,
		notifier:        notifier,
		credentialStore: credentialStore,
		logger:          logger,
		startTime:       time.Now(),
	}
}

func (c *consumer) Run(ctx context.Context) {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				break
			}
			c.logger.Errorf("Kafka ReadMessage of topic: %v failed: %v", c.topicName, err)
			continue
		}
		c.logger.Debugf("Kafka: Message received on partition: %d, offset: %d, topic: %s", msg.Partition, msg.Offset, msg.Topic)
		// notifications run in their own goroutine, one blocking HTTP call
		// per resolved repository
		go func(msg kafka.Message) {
			eventType, job := c.getDataFromHeaders(msg.Headers)
			if eventType == "" || job == "" {
				c.logger.Errorf("Kafka: Invalid Headers received on topic: %s, partition: %d, offset: %d", msg.Topic, msg.Partition, msg.Offset)
				return
			}
			if err := c.notify(ctx, eventType, job, msg.Value); err != nil {
				c.logger.Errorf("failed to notify build status for job %s, error: %v", job, err)
			}
		}(msg)
	}

	if err := c.Close(); err != nil {
		c.logger.Errorf("failed to close Kafka reader, error: %v", err)
	}
}

func (c *consumer) Close() error {
	return c.reader.Close()
}

func (c *consumer) notify(ctx context.Context, eventType, job string, payload []byte) error {
	if eventType == EventBuildStarted && !c.cfg.Bitbucket.NotifyStart {
		c.logger.Debugf("notify on start is disabled, skipping event for job %s", job)
		return nil
	}
	if eventType == EventBuildFinished && !c.cfg.Bitbucket.NotifyFinish {
		c.logger.Debugf("notify on finish is disabled, skipping event for job %s", job)
		return nil
	}

	json := jsoniter.ConfigCompatibleWithStandardLibrary
	var evt event
	if err := json.Unmarshal(payload, &evt); err != nil {
		return err
	}
	if evt.Build == nil || evt.Build.JobFullName == "" {
		c.logger.Errorf("build event of job %s carries no build metadata", job)
		return nil
	}

	creds, err := credentials.Resolve(ctx, c.credentialStore, evt.CredentialsID, c.cfg.Bitbucket.GlobalCredentialsID)
	if err != nil {
		return err
	}

	override := c.cfg.Bitbucket.OverrideLatestBuild
	if evt.OverrideLatestBuild != nil {
		override = *evt.OverrideLatestBuild
	}

	// queue events have no build console to echo to, the lines go to the
	// service log instead
	buildLog := core.BuildLogFunc(func(format string, args ...interface{}) {
		c.logger.Infof("job %s: "+format, append([]interface{}{job}, args...)...)
	})

	return c.notifier.Notify(ctx, &core.NotifyRequest{
		Credentials:         creds,
		StatusHost:          c.cfg.Bitbucket.Host,
		OverrideLatestBuild: override,
		Build:               evt.Build,
	}, buildLog)
}

func (c *consumer) getDataFromHeaders(headers []kafka.Header) (eventType, job string) {
	for _, header := range headers {
		switch header.Key {
		case EventHeader:
			eventType = string(header.Value)
		case JobHeader:
			job = string(header.Value)
		}
	}
	return eventType, job
}
