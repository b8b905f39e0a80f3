package buildCFG

import (
	"errors"
	"eventdesk/internal/config"
	"eventdesk/internal/gateway"
	"eventdesk/internal/mailer"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/wb-go/wbf/dbpg"
)

type RabbitConfig struct {
	Url      string
	Exchange string
	Queue    string
}

func BuildGatewayConfig(cfg *config.Config) gateway.Config {
	g := cfg.Gateway
	return gateway.Config{
		BaseURL:           g.BaseURL,
		Timeout:           g.Timeout,
		SessionCookie:     g.SessionCookie,
		CSRFToken:         g.CSRFToken,
		CSRFPage:          g.CSRFPage,
		SniffLegacyErrors: g.SniffLegacyErrors,
	}
}

func BuildDBConfig(cfg *config.Config, log *zerolog.Logger) (string, []string, *dbpg.Options, error) {
	pg := cfg.Legacy.Postgres
	if pg.MasterDSN == "" {
		return "", nil, nil, errors.New("legacy.postgres.master_dsn is empty")
	}
	slaves := make([]string, 0, len(pg.SlaveDSNs))
	for _, dsn := range pg.SlaveDSNs {
		if dsn = strings.TrimSpace(dsn); dsn != "" {
			slaves = append(slaves, dsn)
		}
	}
	opts := &dbpg.Options{
		MaxOpenConns:    pg.MaxOpenConns,
		MaxIdleConns:    pg.MaxIdleConns,
		ConnMaxLifetime: pg.ConnMaxLifetime,
	}
	log.Debug().
		Int("slaves", len(slaves)).
		Int("max_open_conns", opts.MaxOpenConns).
		Msg("legacy postgres config built")
	return pg.MasterDSN, slaves, opts, nil
}

func BuildRedisOptions(cfg *config.Config) (*redis.Options, error) {
	return redis.ParseURL(cfg.Legacy.Redis.URL)
}

// BuildRabbitConfig returns nil when no broker is configured.
func BuildRabbitConfig(cfg *config.Config) *RabbitConfig {
	if cfg.Rabbit.URL == "" {
		return nil
	}
	return &RabbitConfig{
		Url:      cfg.Rabbit.URL,
		Exchange: cfg.Rabbit.Exchange,
		Queue:    cfg.Rabbit.Queue,
	}
}

// BuildMailerConfig returns nil when mail is off.
func BuildMailerConfig(cfg *config.Config) *mailer.Config {
	if !cfg.Mail.Enabled {
		return nil
	}
	m := cfg.Mail
	return &mailer.Config{
		Host:     m.Host,
		Port:     m.Port,
		Username: m.Username,
		Password: m.Password,
		From:     m.From,
	}
}
