package notifier_config

import (
	"fmt"
	"time"

	"github.com/NordCoder/Exposerus/internal/jurisdiction"
	"github.com/NordCoder/Exposerus/internal/obs"
	pg "github.com/NordCoder/Exposerus/internal/repository/postgres"
	rdb "github.com/NordCoder/Exposerus/internal/repository/redis"
	"github.com/NordCoder/Exposerus/internal/source"
)

type App struct {
	Name    string `mapstructure:"name"`
	Env     string `mapstructure:"env"`
	Version string `mapstructure:"version"`
}

type Server struct {
	MetricsAddr     string        `mapstructure:"metricsAddr"`
	AdminAddr       string        `mapstructure:"adminAddr"`
	GracefulTimeout time.Duration `mapstructure:"gracefulTimeout"`
}

type Telegram struct {
	Token            string        `mapstructure:"token"`
	ServerURL        string        `mapstructure:"serverURL"`
	AdminChatID      string        `mapstructure:"adminChatId"`
	SubscriberRegion string        `mapstructure:"subscriberRegion"`
	SendDelay        time.Duration `mapstructure:"sendDelay"`
	Polling          bool          `mapstructure:"polling"`
}

type Job struct {
	Enabled          bool   `mapstructure:"enabled"`
	CronTime         string `mapstructure:"cronTime"`
	DataURL          string `mapstructure:"dataURL"`
	ChannelChatID    string `mapstructure:"channelChatId"`
	SubscriberRegion string `mapstructure:"subscriberRegion"`
	TableID          string `mapstructure:"tableID"`
}

type Jobs struct {
	AustraliaVictoria   Job `mapstructure:"australiaVictoria"`
	AustraliaQueensland Job `mapstructure:"australiaQueensland"`
}

// NamedJob pairs a job entry with its config key and jurisdiction.
type NamedJob struct {
	Name string
	Tag  jurisdiction.Tag
	Job
}

func (j Jobs) All() []NamedJob {
	return []NamedJob{
		{Name: "australiaVictoria", Tag: jurisdiction.Victoria, Job: j.AustraliaVictoria},
		{Name: "australiaQueensland", Tag: jurisdiction.Queensland, Job: j.AustraliaQueensland},
	}
}

func (j Jobs) Find(name string) (NamedJob, bool) {
	for _, nj := range j.All() {
		if nj.Name == name {
			return nj, true
		}
	}
	return NamedJob{}, false
}

// Channels lists the broadcast channels of enabled jobs.
func (j Jobs) Channels() []string {
	var out []string
	for _, nj := range j.All() {
		if nj.Enabled && nj.ChannelChatID != "" {
			out = append(out, nj.ChannelChatID)
		}
	}
	return out
}

type Source struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"userAgent"`
}

func (s Source) AsHTTPConfig() source.HTTPConfig {
	return source.HTTPConfig{Timeout: s.Timeout, UserAgent: s.UserAgent}
}

type OTEL struct {
	Enable       bool    `mapstructure:"enable"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	ServiceName  string  `mapstructure:"service_name"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
}

func (oc *OTEL) AsOTELConfig() *obs.OTELConfig {
	return &obs.OTELConfig{
		Enable:      oc.Enable,
		Endpoint:    oc.OTLPEndpoint,
		ServiceName: oc.ServiceName,
		SampleRatio: oc.SampleRatio,
	}
}

type Log struct {
	Level      string `mapstructure:"level"`
	Pretty     bool   `mapstructure:"pretty"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"maxSizeMB"`
	MaxBackups int    `mapstructure:"maxBackups"`
	MaxAgeDays int    `mapstructure:"maxAgeDays"`
}

type Config struct {
	App      App        `mapstructure:"app"`
	TZ       string     `mapstructure:"tz"`
	Telegram Telegram   `mapstructure:"telegram"`
	Jobs     Jobs       `mapstructure:"jobs"`
	Source   Source     `mapstructure:"source"`
	DB       pg.Config  `mapstructure:"db"`
	Redis    rdb.Config `mapstructure:"redis"`
	Server   Server     `mapstructure:"server"`
	OTEL     OTEL       `mapstructure:"otel"`
	Log      Log        `mapstructure:"log"`
}

func (c *Config) AsLoggerConfig() *obs.LogConfig {
	return &obs.LogConfig{
		Level:      c.Log.Level,
		Pretty:     c.Log.Pretty,
		App:        c.App.Name,
		Env:        c.App.Env,
		Ver:        c.App.Version,
		File:       c.Log.File,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
		MaxAgeDays: c.Log.MaxAgeDays,
	}
}

func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TZ)
	if err != nil {
		return nil, fmt.Errorf("tz %q: %w", c.TZ, err)
	}
	return loc, nil
}

type ErrConfig string

func (e ErrConfig) Error() string { return string(e) }
