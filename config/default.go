package config

import (
	"github.com/spf13/viper"

	"github.com/stashnotify/stashnotify/pkg/constants"
)

func setDefaultConfig() {
	viper.SetDefault("Data.LogConfig.EnableConsole", true)
	viper.SetDefault("Data.LogConfig.ConsoleJSONFormat", false)
	viper.SetDefault("Data.LogConfig.ConsoleLevel", "debug")
	viper.SetDefault("Data.LogConfig.EnableFile", true)
	viper.SetDefault("Data.LogConfig.FileJSONFormat", true)
	viper.SetDefault("Data.LogConfig.FileLevel", "debug")
	viper.SetDefault("Data.LogConfig.FileLocation", "./stashnotify.log")
	viper.SetDefault("Data.Env", "prod")
	viper.SetDefault("Data.Port", constants.DefaultPort)
	viper.SetDefault("Data.Verbose", true)
	viper.SetDefault("Data.Bitbucket.NotifyStart", true)
	viper.SetDefault("Data.Bitbucket.NotifyFinish", true)
	viper.SetDefault("Data.Bitbucket.OverrideLatestBuild", false)
	viper.SetDefault("Data.GracefulTimeout", constants.DefaultGracefulTimeout)
	viper.SetDefault("Data.ShutDownDelay", constants.DefaultShutDownDelay)
}
