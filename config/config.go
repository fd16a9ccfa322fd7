package config

import (
	"github.com/spf13/viper"
	"sync"
)

var once sync.Once

func InitConfig() {
	once.Do(func() {
		viper.AutomaticEnv()

		viper.BindEnv("line_channel_access_token", "LINE_CHANNEL_ACCESS_TOKEN")
		viper.BindEnv("line_user_id", "LINE_USER_ID")
		viper.BindEnv("telegram_bot_token", "TELEGRAM_BOT_TOKEN")
		viper.BindEnv("telegram_chat_id", "TELEGRAM_CHAT_ID")
		viper.BindEnv("notify_channel", "NOTIFY_CHANNEL")
		viper.BindEnv("coinpaprika_api_key", "COINPAPRIKA_API_KEY")
		viper.BindEnv("send_price_alert", "SEND_PRICE_ALERT")
		viper.BindEnv("send_summary_report", "SEND_SUMMARY_REPORT")
		viper.BindEnv("watchlist_path", "WATCHLIST_PATH")
		viper.BindEnv("state_db_path", "STATE_DB_PATH")
		viper.BindEnv("http_timeout_seconds", "HTTP_TIMEOUT_SECONDS")
		viper.BindEnv("debug", "DEBUG")
		viper.BindEnv("lang", "LANG")

		viper.SetDefault("notify_channel", "line")
		viper.SetDefault("send_price_alert", true)
		viper.SetDefault("send_summary_report", false)
		viper.SetDefault("http_timeout_seconds", 10)
		viper.SetDefault("debug", false)
		viper.SetDefault("lang", "en")
	})
}

func GetString(key string) string {
	InitConfig()
	return viper.GetString(key)
}

func GetInt(key string) int {
	InitConfig()
	return viper.GetInt(key)
}

func GetBool(key string) bool {
	InitConfig()
	return viper.GetBool(key)
}
