// Package validation checks crawl requests and server configuration before
// they reach the crawler.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	// validate is a singleton validator instance
	validate *validator.Validate

	// MaxHopLimit caps the hop bound accepted over the API. A cyclic
	// network is fully discovered well below this; anything larger is a
	// typo.
	MaxHopLimit = 64
)

func init() {
	validate = validator.New()
}

// CrawlRequest represents a request to crawl a descriptor network.
type CrawlRequest struct {
	URL     string `json:"url" validate:"required,url"`
	MaxHops int    `json:"maxHops" validate:"min=0"`
}

// ValidateCrawlRequest validates a crawl request.
func ValidateCrawlRequest(req *CrawlRequest) error {
	if req == nil {
		return errors.New("crawl request cannot be nil")
	}

	if err := validate.Struct(req); err != nil {
		return formatValidationError(err)
	}

	if req.MaxHops > MaxHopLimit {
		return fmt.Errorf("MaxHops: must not exceed %d, got %d", MaxHopLimit, req.MaxHops)
	}

	if !strings.HasPrefix(req.URL, "http://") && !strings.HasPrefix(req.URL, "https://") {
		return fmt.Errorf("URL: scheme must be http or https")
	}

	return nil
}

// ServerConfig mirrors the validatable subset of the server configuration.
type ServerConfig struct {
	Port         int    `validate:"min=1,max=65535"`
	FetchTimeout int    `validate:"min=1"`
	UserAgent    string `validate:"required"`
	LogLevel     string `validate:"omitempty,oneof=debug info warn error DEBUG INFO WARN ERROR"`
}

// ValidateServerConfig validates server configuration values.
func ValidateServerConfig(cfg *ServerConfig) error {
	if cfg == nil {
		return errors.New("server config cannot be nil")
	}
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError converts validator errors to user-friendly messages
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	validationErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	// Return the first validation error in a user-friendly format
	for _, e := range validationErrs {
		field := e.Field()
		tag := e.Tag()
		param := e.Param()

		switch tag {
		case "required":
			return fmt.Errorf("%s: field is required", field)
		case "min":
			return fmt.Errorf("%s: must be at least %s", field, param)
		case "max":
			return fmt.Errorf("%s: must not exceed %s", field, param)
		case "url":
			return fmt.Errorf("%s: must be a valid URL", field)
		case "oneof":
			return fmt.Errorf("%s: must be one of %s", field, param)
		default:
			return fmt.Errorf("%s: validation failed (%s)", field, tag)
		}
	}

	return err
}
