package config

import (
	"fmt"
	"net"
	"net/mail"
	"os"
	"strings"

	"github.com/hay-kot/criterio"
)

// ValidationWarning represents a non-fatal configuration issue.
type ValidationWarning struct {
	Category string `json:"category"`
	Item     string `json:"item,omitempty"`
	Message  string `json:"message"`
}

// ValidateDeep performs comprehensive validation of the configuration including
// listen address syntax, origin patterns and file accessibility. The configPath
// argument specifies the config file location to validate (empty string skips
// config file check). This calls Validate() first for basic structural
// validation, then adds I/O checks.
func (c *Config) ValidateDeep(configPath string) error {
	if err := c.Validate(); err != nil {
		return err
	}

	return criterio.ValidateStruct(
		c.validateFileAccess(configPath),
		c.validateServer(),
		c.validateContact(),
	)
}

// Warnings returns non-fatal configuration issues.
func (c *Config) Warnings() []ValidationWarning {
	var warnings []ValidationWarning

	if c.Toast.MaxActive == 0 {
		warnings = append(warnings, ValidationWarning{
			Category: "Toast",
			Item:     "max_active",
			Message:  "no cap on active toasts; a burst of enqueues can flood the display",
		})
	}

	if !c.History.Enabled && c.History.Retention != DefaultConfig().History.Retention {
		warnings = append(warnings, ValidationWarning{
			Category: "History",
			Item:     "retention",
			Message:  "retention is set but history is disabled",
		})
	}

	if c.History.Enabled && c.History.Retention == 0 {
		warnings = append(warnings, ValidationWarning{
			Category: "History",
			Item:     "retention",
			Message:  "history is kept forever",
		})
	}

	for i, origin := range c.Server.AllowedOrigins {
		if origin == "*" {
			warnings = append(warnings, ValidationWarning{
				Category: "Server",
				Item:     fmt.Sprintf("allowed_origins[%d]", i),
				Message:  "any origin may call the API",
			})
		}
	}

	return warnings
}

// validateFileAccess checks config file and data directory.
func (c *Config) validateFileAccess(configPath string) error {
	return criterio.ValidateStruct(
		validateConfigFile(configPath),
		criterio.Run("data_dir", c.DataDir, isDirectoryOrNotExist),
	)
}

func validateConfigFile(configPath string) error {
	if configPath == "" {
		return nil
	}

	info, err := os.Stat(configPath)
	if os.IsNotExist(err) {
		return nil // not found is fine, using defaults
	}
	if err != nil {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("cannot access: %w", err))
	}
	if info.IsDir() {
		return criterio.NewFieldErrors("config_file", fmt.Errorf("%s is a directory, not a file", configPath))
	}
	return nil
}

// isDirectoryOrNotExist validates that a path is a directory or doesn't exist.
func isDirectoryOrNotExist(path string) error {
	if path == "" {
		return nil
	}
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil // will be created
	}
	if err != nil {
		return fmt.Errorf("cannot access: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("exists but is not a directory")
	}
	return nil
}

// validateServer checks the listen address and CORS origins.
func (c *Config) validateServer() error {
	var errs criterio.FieldErrorsBuilder

	if _, _, err := net.SplitHostPort(c.Server.Addr); err != nil {
		errs = errs.Append("server.addr", fmt.Errorf("invalid listen address %q: %w", c.Server.Addr, err))
	}

	for i, origin := range c.Server.AllowedOrigins {
		if err := validateOrigin(origin); err != nil {
			errs = errs.Append(fmt.Sprintf("server.allowed_origins[%d]", i), err)
		}
	}

	return errs.ToError()
}

func validateOrigin(origin string) error {
	if origin == "*" {
		return nil
	}
	if !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
		return fmt.Errorf("origin %q must start with http:// or https://", origin)
	}
	if strings.Count(origin, "*") > 1 {
		return fmt.Errorf("origin %q may contain at most one wildcard", origin)
	}
	return nil
}

func (c *Config) validateContact() error {
	return criterio.ValidateStruct(
		criterio.Run("contact.support_email", c.Contact.SupportEmail, isEmailAddress),
	)
}

func isEmailAddress(s string) error {
	if _, err := mail.ParseAddress(s); err != nil {
		return fmt.Errorf("invalid email address %q", s)
	}
	return nil
}
