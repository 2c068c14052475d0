package config

import (
	"time"

	"github.com/stashnotify/stashnotify/pkg/lumber"
)

type (
	// ConfigWrapper is a wrapper for the config
	ConfigWrapper struct {
		Config `json:"data"`
	}

	// Config the application's configuration
	Config struct {
		Port            string
		Env             string
		Verbose         bool
		LogFile         string
		LogConfig       lumber.LoggingConfig
		Bitbucket       BitbucketConfig       `json:"bitbucket"`
		Credentials     map[string]Credential `json:"credentials"`
		Vault           VaultConfig
		Kafka           KafkaConfig `json:"kafka"`
		GracefulTimeout time.Duration
		ShutDownDelay   time.Duration
	}

	// BitbucketConfig configures the status API target and the notification
	// defaults applied when a build event carries no overrides.
	BitbucketConfig struct {
		// Host the status API host, must be a full url starting with http.
		Host string `json:"host"`
		// GlobalCredentialsID the default credential identifier used when a
		// job supplies none.
		GlobalCredentialsID string `json:"globalCredentialsId"`
		// NotifyStart report an in-progress status when a build starts.
		NotifyStart bool
		// NotifyFinish report the final status when a build finishes.
		NotifyFinish bool
		// OverrideLatestBuild collapse all builds of a job onto one remote
		// status entry.
		OverrideLatestBuild bool
	}

	// Credential is one username/secret pair of the static credential store.
	Credential struct {
		Username string `json:"username"`
		Secret   string `json:"secret"`
	}

	// VaultConfig represents the vault server configuration. When Address is
	// set the vault credential store is used instead of the static one.
	VaultConfig struct {
		// Token directly specify token(optional)
		Token string
		// Address the vault server address
		Address string
		// Namespace the vault Namespace
		Namespace string
		// PathPrefix the KV mount the credentials live under
		PathPrefix string
	}

	// KafkaConfig provides the kafka configuration.
	KafkaConfig struct {
		Brokers     string              `json:"brokers"`
		BuildEvents KafkaConsumerConfig `json:"build_events"`
	}

	// KafkaConsumerConfig provides the consumer configuration of one topic.
	KafkaConsumerConfig struct {
		Topic         string `json:"topic"`
		ConsumerGroup string `json:"consumer_group"`
	}
)
