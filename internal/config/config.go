package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Mode string

const (
	ModeSimulate Mode = "simulate"
	ModeLive     Mode = "live"
)

type RSIConfig struct {
	Period     int     `mapstructure:"period"`
	Oversold   float64 `mapstructure:"oversold"`
	Overbought float64 `mapstructure:"overbought"`
}

type MACDConfig struct {
	FastPeriod   int `mapstructure:"fast_period"`
	SlowPeriod   int `mapstructure:"slow_period"`
	SignalPeriod int `mapstructure:"signal_period"`
}

type BollingerConfig struct {
	Period int     `mapstructure:"period"`
	StdDev float64 `mapstructure:"stdDev"`
}

type IndicatorConfig struct {
	RSI            RSIConfig       `mapstructure:"RSI"`
	MACD           MACDConfig      `mapstructure:"MACD"`
	BollingerBands BollingerConfig `mapstructure:"BollingerBands"`
}

type RiskConfig struct {
	StopLossPercentage   float64 `mapstructure:"stop_loss_percentage"`
	TakeProfitPercentage float64 `mapstructure:"take_profit_percentage"`
}

type ServerConfig struct {
	Listen string `mapstructure:"listen"`
}

type LogConfig struct {
	File        string `mapstructure:"file"`
	MaxSize     int    `mapstructure:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups"`
	MaxAge      int    `mapstructure:"max_age"`
	Compress    bool   `mapstructure:"compress"`
	Development bool   `mapstructure:"development"`
}

type Config struct {
	Mode               Mode            `mapstructure:"mode"`
	Symbol             string          `mapstructure:"symbol"`
	Timeframe          string          `mapstructure:"timeframe"`
	HistoryLimit       int             `mapstructure:"history_limit"`
	Interval           time.Duration   `mapstructure:"interval"`
	Aggressiveness     int             `mapstructure:"aggressiveness"`
	StartingBalance    float64         `mapstructure:"starting_balance"`
	MaxTradePercentage float64         `mapstructure:"max_trade_percentage"`
	Indicators         IndicatorConfig `mapstructure:"indicators"`
	Risk               RiskConfig      `mapstructure:"risk_management"`
	Server             ServerConfig    `mapstructure:"server"`
	Log                LogConfig       `mapstructure:"log"`
	CycleLogPath       string          `mapstructure:"cycle_log_path"`

	// Exchange credentials come from the environment, never the config file.
	APIKey     string `mapstructure:"-"`
	APISecret  string `mapstructure:"-"`
	APIBaseURL string `mapstructure:"-"`
}

// Load reads the JSON config document at path. An empty mode keeps whatever
// the file (or the simulate default) says; a non-empty mode overrides it.
func Load(path string, mode string) (Config, error) {
	loadDotEnvIfPresent(".env")

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	v.SetDefault("mode", string(ModeSimulate))
	v.SetDefault("symbol", "BTC/USD")
	v.SetDefault("timeframe", "1h")
	v.SetDefault("history_limit", 200)
	v.SetDefault("interval", "60s")
	v.SetDefault("aggressiveness", 5)
	v.SetDefault("starting_balance", 10000.0)
	v.SetDefault("server.listen", ":5000")
	v.SetDefault("log.file", "bot.log")
	v.SetDefault("log.max_size", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 7)
	v.SetDefault("cycle_log_path", "cycles.ndjson")

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	if mode != "" {
		cfg.Mode = Mode(mode)
	}
	cfg.APIKey = os.Getenv("APCA_API_KEY_ID")
	cfg.APISecret = os.Getenv("APCA_API_SECRET_KEY")
	cfg.APIBaseURL = os.Getenv("APCA_API_BASE_URL")

	if err := checkRequired(v); err != nil {
		return cfg, err
	}
	if err := validate(cfg); err != nil {
		return cfg, err
	}

	return cfg, nil
}

func checkRequired(v *viper.Viper) error {
	required := []string{
		"max_trade_percentage",
		"indicators.RSI.period",
		"indicators.RSI.oversold",
		"indicators.RSI.overbought",
		"indicators.MACD.fast_period",
		"indicators.MACD.slow_period",
		"indicators.MACD.signal_period",
		"indicators.BollingerBands.period",
		"indicators.BollingerBands.stdDev",
		"risk_management.stop_loss_percentage",
		"risk_management.take_profit_percentage",
	}
	for _, key := range required {
		if !v.IsSet(key) {
			return fmt.Errorf("missing required config key: %s", key)
		}
	}
	return nil
}

func validate(cfg Config) error {
	if cfg.Mode != ModeSimulate && cfg.Mode != ModeLive {
		return fmt.Errorf("invalid mode: %s", cfg.Mode)
	}
	if cfg.Mode == ModeLive && (cfg.APIKey == "" || cfg.APISecret == "") {
		return fmt.Errorf("APCA_API_KEY_ID and APCA_API_SECRET_KEY are required in live mode")
	}
	if cfg.Symbol == "" {
		return fmt.Errorf("symbol must not be empty")
	}
	if cfg.Interval <= 0 {
		return fmt.Errorf("interval must be > 0")
	}
	if cfg.Aggressiveness < 0 || cfg.Aggressiveness > 10 {
		return fmt.Errorf("aggressiveness must be in [0,10]")
	}
	if cfg.MaxTradePercentage <= 0 || cfg.MaxTradePercentage > 100 {
		return fmt.Errorf("max_trade_percentage must be in (0,100]")
	}
	if cfg.StartingBalance < 0 {
		return fmt.Errorf("starting_balance must be >= 0")
	}
	if cfg.Indicators.RSI.Period <= 1 {
		return fmt.Errorf("indicators.RSI.period must be > 1")
	}
	if cfg.Indicators.RSI.Oversold >= cfg.Indicators.RSI.Overbought {
		return fmt.Errorf("indicators.RSI.oversold must be < overbought")
	}
	if cfg.Indicators.MACD.FastPeriod <= 0 || cfg.Indicators.MACD.SlowPeriod <= cfg.Indicators.MACD.FastPeriod {
		return fmt.Errorf("indicators.MACD periods must satisfy 0 < fast < slow")
	}
	if cfg.Indicators.MACD.SignalPeriod <= 0 {
		return fmt.Errorf("indicators.MACD.signal_period must be > 0")
	}
	if cfg.Indicators.BollingerBands.Period <= 1 {
		return fmt.Errorf("indicators.BollingerBands.period must be > 1")
	}
	if cfg.Indicators.BollingerBands.StdDev <= 0 {
		return fmt.Errorf("indicators.BollingerBands.stdDev must be > 0")
	}
	if cfg.Risk.StopLossPercentage <= 0 || cfg.Risk.StopLossPercentage >= 1 {
		return fmt.Errorf("risk_management.stop_loss_percentage must be in (0,1)")
	}
	if cfg.Risk.TakeProfitPercentage <= 0 || cfg.Risk.TakeProfitPercentage >= 1 {
		return fmt.Errorf("risk_management.take_profit_percentage must be in (0,1)")
	}
	if cfg.HistoryLimit < MinHistory(cfg.Indicators) {
		return fmt.Errorf("history_limit %d is below the largest indicator window", cfg.HistoryLimit)
	}
	return nil
}

// MinHistory is the shortest close series the configured indicators accept.
func MinHistory(ind IndicatorConfig) int {
	need := ind.RSI.Period + 1
	if macd := ind.MACD.SlowPeriod + ind.MACD.SignalPeriod; macd > need {
		need = macd
	}
	if ind.BollingerBands.Period > need {
		need = ind.BollingerBands.Period
	}
	return need
}

func loadDotEnvIfPresent(path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	_ = loadDotEnv(path)
}

// loadDotEnv sets KEY=VALUE pairs from path; existing env vars win.
func loadDotEnv(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		if err := os.Setenv(key, strings.TrimSpace(value)); err != nil {
			return err
		}
	}
	return scanner.Err()
}
