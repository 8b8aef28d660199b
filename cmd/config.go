package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
)

const (
	defaultMatchingSchedule  = "*/5 * * * * *"
	defaultRiskSweepSchedule = "0 0 * * * *"
)

type Config struct {
	HTTPPort          string
	DBHost            string
	DBPort            string
	DBUser            string
	DBPassword        string
	DBName            string
	DBSslMode         string
	MatchingSchedule  string
	RiskSweepSchedule string
}

// DSN returns the postgres connection string.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// LoadConfig reads envFile (when present) into the environment, then the
// environment, then command-line flags. Flags win over variables.
func LoadConfig(envFile string, args []string) (Config, error) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
	}

	flags := pflag.NewFlagSet("lastmile", pflag.ContinueOnError)

	var c Config
	flags.StringVar(&c.HTTPPort, "http-port", envOr("HTTP_PORT", "8080"), "HTTP listen port")
	flags.StringVar(&c.DBHost, "db-host", envOr("DB_HOST", "localhost"), "postgres host")
	flags.StringVar(&c.DBPort, "db-port", envOr("DB_PORT", "5432"), "postgres port")
	flags.StringVar(&c.DBUser, "db-user", os.Getenv("DB_USER"), "postgres user")
	flags.StringVar(&c.DBPassword, "db-password", os.Getenv("DB_PASSWORD"), "postgres password")
	flags.StringVar(&c.DBName, "db-name", os.Getenv("DB_NAME"), "postgres database")
	flags.StringVar(&c.DBSslMode, "db-sslmode", envOr("DB_SSLMODE", "disable"), "postgres sslmode")
	flags.StringVar(&c.MatchingSchedule, "matching-schedule",
		envOr("MATCHING_SCHEDULE", defaultMatchingSchedule), "cron spec of the matching job, seconds first")
	flags.StringVar(&c.RiskSweepSchedule, "risk-sweep-schedule",
		envOr("RISK_SWEEP_SCHEDULE", defaultRiskSweepSchedule), "cron spec of the risk sweep job, seconds first")

	if err := flags.Parse(args); err != nil {
		return Config{}, err
	}

	var errList []error
	if c.DBUser == "" {
		errList = append(errList, errors.New("DB_USER is required"))
	}
	if c.DBName == "" {
		errList = append(errList, errors.New("DB_NAME is required"))
	}
	if err := errors.Join(errList...); err != nil {
		return Config{}, err
	}

	return c, nil
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
