package container

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/subtle-marketing/account-service/config"
	"github.com/subtle-marketing/account-service/internal/otp"
	"github.com/subtle-marketing/account-service/pkg/helpers"
	"github.com/subtle-marketing/account-service/pkg/mailer"
)

// app-level container to share constructed components across packages.
// Router modules auto-wire their dependencies from these singletons;
// main is the only writer.

var (
	cfg       *config.Config
	logger    *logrus.Logger
	pgPool    *pgxpool.Pool
	codes     *otp.Registry
	mail      mailer.Sender
	rabbitPub *helpers.RabbitPublisher
)

func SetConfig(c *config.Config)              { cfg = c }
func GetConfig() *config.Config               { return cfg }
func SetLogger(l *logrus.Logger)              { logger = l }
func GetLogger() *logrus.Logger               { return logger }
func SetPGPool(p *pgxpool.Pool)               { pgPool = p }
func GetPGPool() *pgxpool.Pool                { return pgPool }
func SetCodes(r *otp.Registry)                { codes = r }
func GetCodes() *otp.Registry                 { return codes }
func SetMailer(m mailer.Sender)               { mail = m }
func GetMailer() mailer.Sender                { return mail }
func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }
