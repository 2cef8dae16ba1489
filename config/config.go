/*
Package config builds the immutable service configuration.

PURPOSE:
  All environment reads happen here, once, at process start. The resulting
  Config struct is passed into the workflow and handlers; business logic
  never touches the environment.

RECOGNIZED VARIABLES:
  PORT, DB_PATH
  SMTP_HOST, SMTP_PORT, SMTP_USER, SMTP_PASSWORD
  MAIL_FROM, MAIL_ALWAYS_CC
  APPROVER_MARK, APPROVER_NHAN, APPROVER_ANH
  BASE_URL
  ADMIN_USER, ADMIN_PASSWORD
  STAFF_DIRECTORY  comma-separated "Name:email" pairs

A .env file in the working directory is loaded first when present.
*/
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config is the immutable, environment-sourced service configuration.
type Config struct {
	Port   int
	DBPath string

	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	FromAddress  string
	AlwaysCC     string

	// Approvers maps the fixed approver keys to mailboxes.
	Approvers map[string]string

	// BaseURL is the externally reachable prefix for decision links,
	// without a trailing slash.
	BaseURL string

	AdminUser     string
	AdminPassword string

	// Staff pre-populates the intake form directory.
	Staff []StaffEntry
}

// StaffEntry is one directory seed from STAFF_DIRECTORY.
type StaffEntry struct {
	Name  string
	Email string
}

// Load reads the environment (and an optional .env file) into a Config.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		Port:   getEnvInt("PORT", 8080),
		DBPath: getEnv("DB_PATH", "leave.db"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUser:     os.Getenv("SMTP_USER"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		FromAddress:  os.Getenv("MAIL_FROM"),
		AlwaysCC:     os.Getenv("MAIL_ALWAYS_CC"),

		Approvers: map[string]string{
			"mark": os.Getenv("APPROVER_MARK"),
			"nhan": os.Getenv("APPROVER_NHAN"),
			"anh":  os.Getenv("APPROVER_ANH"),
		},

		BaseURL: strings.TrimRight(getEnv("BASE_URL", "http://localhost:8080"), "/"),

		AdminUser:     getEnv("ADMIN_USER", "admin"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),

		Staff: parseStaff(os.Getenv("STAFF_DIRECTORY")),
	}
}

// Validate checks the fields the service cannot run without.
func (c *Config) Validate() error {
	var missing []string
	if c.SMTPHost == "" {
		missing = append(missing, "SMTP_HOST")
	}
	if c.FromAddress == "" {
		missing = append(missing, "MAIL_FROM")
	}

	anyApprover := false
	for _, addr := range c.Approvers {
		if addr != "" {
			anyApprover = true
			break
		}
	}
	if !anyApprover {
		missing = append(missing, "APPROVER_MARK|APPROVER_NHAN|APPROVER_ANH")
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

// parseStaff parses "Alice Nguyen:alice@example.com,Bob:bob@example.com".
// Malformed entries are skipped.
func parseStaff(s string) []StaffEntry {
	if s == "" {
		return nil
	}

	var staff []StaffEntry
	for _, pair := range strings.Split(s, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), ":", 2)
		if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
			continue
		}
		staff = append(staff, StaffEntry{Name: strings.TrimSpace(parts[0]), Email: strings.TrimSpace(parts[1])})
	}
	return staff
}
