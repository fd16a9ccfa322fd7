package main

import (
	"strings"
	"time"

	"stock-monitor-bot/config"
	"stock-monitor-bot/internal/database"
	"stock-monitor-bot/internal/monitor"
	"stock-monitor-bot/internal/notify"
	"stock-monitor-bot/internal/quote"
	"stock-monitor-bot/internal/watchlist"

	"github.com/leonelquinteros/gotext"
	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	log "github.com/sirupsen/logrus"
)

// RunMetrics are the counters of one-shot runs. With a state db configured
// they accumulate across invocations, otherwise they only describe the
// current run.
type RunMetrics struct {
	SymbolsChecked  prometheus.Counter
	AlertsSent      prometheus.Counter
	FetchErrors     prometheus.Counter
	NotifyErrors    prometheus.Counter
	RunsCompleted   prometheus.Counter
	AlertsPerSymbol *prometheus.CounterVec
}

var (
	metrics = NewRunMetrics()
)

func init() {
	config.InitConfig()
	setupLogging()
}

func NewRunMetrics() *RunMetrics {
	metrics := &RunMetrics{
		SymbolsChecked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "stockmonitor",
			Subsystem: "run",
			Name:      "symbols_checked",
			Help:      "The total number of symbols evaluated",
		}),
		AlertsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "stockmonitor",
			Subsystem: "run",
			Name:      "alerts_sent",
			Help:      "The total number of alert notifications pushed",
		}),
		FetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "stockmonitor",
			Subsystem: "run",
			Name:      "fetch_errors",
			Help:      "The total number of failed price fetches",
		}),
		NotifyErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "stockmonitor",
			Subsystem: "run",
			Name:      "notify_errors",
			Help:      "The total number of failed notification deliveries",
		}),
		RunsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "stockmonitor",
			Subsystem: "run",
			Name:      "runs_completed",
			Help:      "The total number of completed monitoring runs",
		}),
		AlertsPerSymbol: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "stockmonitor",
				Subsystem: "run",
				Name:      "alerts_per_symbol",
				Help:      "Alert notifications pushed per symbol",
			},
			[]string{"symbol"},
		),
	}

	prometheus.MustRegister(metrics.SymbolsChecked)
	prometheus.MustRegister(metrics.AlertsSent)
	prometheus.MustRegister(metrics.FetchErrors)
	prometheus.MustRegister(metrics.NotifyErrors)
	prometheus.MustRegister(metrics.RunsCompleted)
	prometheus.MustRegister(metrics.AlertsPerSymbol)

	return metrics
}

func main() {
	gotext.Configure("locales", strings.ToLower(config.GetString("lang")), "default")

	log.Info("🚀 Stock monitor starting...")

	stateDBPath := config.GetString("state_db_path")
	var store watchlist.Store
	if stateDBPath != "" {
		if err := database.InitDB(stateDBPath); err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer database.CloseDB()

		store = database.Watchlist{}
		LoadMetricsFromDB()
	}

	notifier, err := buildNotifier()
	if err != nil {
		log.Fatalf("Failed to create notifier: %v", err)
	}

	targets, err := watchlist.Load(store, config.GetString("watchlist_path"))
	if err != nil {
		log.Fatalf("Failed to load watchlist: %v", err)
	}
	if len(targets) == 0 {
		log.Warn("⚠️ No stock targets configured, nothing to do")
		return
	}

	timeout := time.Duration(config.GetInt("http_timeout_seconds")) * time.Second
	providers := quote.NewRegistry(
		quote.NewYahooProvider(timeout),
		quote.NewCoinpaprikaProvider(config.GetString("coinpaprika_api_key")),
	)

	cfg := monitor.Config{
		SendPriceAlert:    config.GetBool("send_price_alert"),
		SendSummaryReport: config.GetBool("send_summary_report"),
	}

	summary := monitor.Run(cfg, targets, providers, notifier, monitor.Callbacks{
		OnChecked: func(string) { metrics.SymbolsChecked.Inc() },
		OnAlertSent: func(symbol string) {
			metrics.AlertsSent.Inc()
			metrics.AlertsPerSymbol.WithLabelValues(symbol).Inc()
		},
		OnFetchError:  func(string) { metrics.FetchErrors.Inc() },
		OnNotifyError: func(string) { metrics.NotifyErrors.Inc() },
	})
	metrics.RunsCompleted.Inc()

	if stateDBPath != "" {
		SaveMetricsToDB()
	}

	log.Infof("📈 Job finished: %d checked, %d alerts sent, %d fetch errors, %d notify errors",
		summary.Checked, summary.AlertsSent, summary.FetchErrors, summary.NotifyErrors)
}

func setupLogging() {
	log.SetLevel(log.InfoLevel)
	if config.GetBool("debug") {
		log.SetLevel(log.DebugLevel)
	}
	log.Debug("Starting stock monitor...")
}

// buildNotifier picks the delivery channel from config. LINE is the
// default; telegram is the alternate channel.
func buildNotifier() (notify.Notifier, error) {
	timeout := time.Duration(config.GetInt("http_timeout_seconds")) * time.Second

	switch strings.ToLower(config.GetString("notify_channel")) {
	case "telegram":
		return notify.NewTelegramNotifier(notify.TelegramConfig{
			Token:  config.GetString("telegram_bot_token"),
			ChatID: int64(config.GetInt("telegram_chat_id")),
			Debug:  config.GetBool("debug"),
		})
	default:
		return notify.NewLineClient(notify.LineConfig{
			Token:   config.GetString("line_channel_access_token"),
			UserID:  config.GetString("line_user_id"),
			Timeout: timeout,
		})
	}
}

func LoadMetricsFromDB() {
	symbolsChecked, _ := database.GetMetric("symbols_checked")
	alertsSent, _ := database.GetMetric("alerts_sent")
	fetchErrors, _ := database.GetMetric("fetch_errors")
	notifyErrors, _ := database.GetMetric("notify_errors")
	runsCompleted, _ := database.GetMetric("runs_completed")

	metrics.SymbolsChecked.Add(symbolsChecked)
	metrics.AlertsSent.Add(alertsSent)
	metrics.FetchErrors.Add(fetchErrors)
	metrics.NotifyErrors.Add(notifyErrors)
	metrics.RunsCompleted.Add(runsCompleted)

	perSymbol, _ := database.GetMetricsWithLabels("alerts_per_symbol")
	for _, labelValues := range perSymbol {
		for symbol, value := range labelValues {
			metrics.AlertsPerSymbol.WithLabelValues(symbol).Add(value)
		}
	}

	log.Debug("Metrics loaded from database.")
}

func SaveMetricsToDB() {
	database.SaveMetric("symbols_checked", GetMetricValue(metrics.SymbolsChecked))
	database.SaveMetric("alerts_sent", GetMetricValue(metrics.AlertsSent))
	database.SaveMetric("fetch_errors", GetMetricValue(metrics.FetchErrors))
	database.SaveMetric("notify_errors", GetMetricValue(metrics.NotifyErrors))
	database.SaveMetric("runs_completed", GetMetricValue(metrics.RunsCompleted))

	metricChan := make(chan prometheus.Metric, 16)
	go func() {
		metrics.AlertsPerSymbol.Collect(metricChan)
		close(metricChan)
	}()

	for metric := range metricChan {
		metricProto := &dto.Metric{}
		if err := metric.Write(metricProto); err != nil {
			log.Errorf("Failed to read alerts_per_symbol metric: %v", err)
			continue
		}
		var symbol string
		for _, label := range metricProto.Label {
			if label.GetName() == "symbol" {
				symbol = label.GetValue()
			}
		}
		database.SaveMetricWithLabels("alerts_per_symbol", "symbol", symbol, metricProto.Counter.GetValue())
	}

	log.Debug("Metrics saved to database.")
}

func GetMetricValue(metric prometheus.Collector) float64 {
	var metricValue float64
	metricChan := make(chan prometheus.Metric, 1)
	metric.Collect(metricChan)
	close(metricChan)

	metricProto := &dto.Metric{}
	if err := (<-metricChan).Write(metricProto); err != nil {
		log.Errorf("Failed to read metric value: %v", err)
		return 0
	}

	if metricProto.Counter != nil {
		metricValue = metricProto.Counter.GetValue()
	} else if metricProto.Gauge != nil {
		metricValue = metricProto.Gauge.GetValue()
	}
	return metricValue
}
