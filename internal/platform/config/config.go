package config

import (
	"os"
	"strconv"
)

// Server captures process-level configuration so main stays lean.
type Server struct {
	Addr string
	// AccessKey is the shared secret gating the dashboard.
	AccessKey string
	// DBPath is the SQLite file backing the audit log. Empty selects the
	// in-memory store (history is lost on restart).
	DBPath string
	// Operator is stamped into audit records and report footers.
	Operator string
	// Sensitivity is the default detector contamination for new sessions.
	Sensitivity float64
}

// FromEnv builds a Server config from environment variables.
func FromEnv() Server {
	addr := os.Getenv("CERTIFIER_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	accessKey := os.Getenv("CERTIFIER_ACCESS_KEY")
	if accessKey == "" {
		// Use a default for development - should be overridden in production
		accessKey = "dev-access-key-change-in-production"
	}

	dbPath, ok := os.LookupEnv("CERTIFIER_DB_PATH")
	if !ok {
		dbPath = "audit_log.db"
	}

	operator := os.Getenv("CERTIFIER_OPERATOR")
	if operator == "" {
		operator = "operator"
	}

	sensitivity := 0.05
	if raw := os.Getenv("CERTIFIER_SENSITIVITY"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v >= 0.01 && v <= 0.20 {
			sensitivity = v
		}
	}

	return Server{
		Addr:        addr,
		AccessKey:   accessKey,
		DBPath:      dbPath,
		Operator:    operator,
		Sensitivity: sensitivity,
	}
}
