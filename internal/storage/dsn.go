package storage

import (
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ExpandPassword replaces the <password> placeholder common in copied
// connection strings with the secret kept outside the config file.
func ExpandPassword(dsn, password string) string {
	if password == "" {
		return dsn
	}
	dsn = strings.ReplaceAll(dsn, "<password>", password)
	return strings.ReplaceAll(dsn, "<db_password>", password)
}

// normalizeMySQLDSN forces the options the stores rely on: timestamps are
// scanned into time.Time and RowsAffected counts matched rows.
func normalizeMySQLDSN(dsn string) (string, error) {
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", fmt.Errorf("parse mysql dsn: %w", err)
	}
	cfg.ParseTime = true
	cfg.ClientFoundRows = true
	return cfg.FormatDSN(), nil
}

// PostgresDSN builds a key/value connection string.
func PostgresDSN(host string, port int, user, password, dbname, sslMode string) string {
	if port == 0 {
		port = 5432
	}
	if sslMode == "" {
		sslMode = "disable"
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslMode)
}

// MySQLDSN builds a go-sql-driver DSN.
func MySQLDSN(host string, port int, user, password, dbname string) string {
	if port == 0 {
		port = 3306
	}
	cfg := mysql.NewConfig()
	cfg.User = user
	cfg.Passwd = password
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", host, port)
	cfg.DBName = dbname
	cfg.ParseTime = true
	cfg.ClientFoundRows = true
	return cfg.FormatDSN()
}
