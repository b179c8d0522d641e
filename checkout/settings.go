package checkout

import (
	"fmt"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

/* Settings holds the processor-side defaults for payment sessions
 * Loaded once from a YAML file at startup
 */
type Settings struct {
	ProcessingChannelID   string   `yaml:"processing_channel_id"`
	PaymentType           string   `yaml:"payment_type"`     // Default: Regular
	SuccessURL            string   `yaml:"success_url"`      // order_ref is appended as a query parameter
	FailureURL            string   `yaml:"failure_url"`      // order_ref is appended as a query parameter
	DefaultCurrency       string   `yaml:"default_currency"` // Default: GBP
	EnabledPaymentMethods []string `yaml:"enabled_payment_methods"`
	PhoneCountryCode      string   `yaml:"phone_country_code"` // Default: +44
	DefaultAddress        Address  `yaml:"default_address"`
}

// Address is a billing address plus contact details, as sent by the storefront
type Address struct {
	Street       string `yaml:"street" json:"street,omitempty"`
	AddressLine2 string `yaml:"address_line2" json:"address_line2,omitempty"`
	City         string `yaml:"city" json:"city,omitempty"`
	State        string `yaml:"state" json:"state,omitempty"`
	Postcode     string `yaml:"postcode" json:"postcode,omitempty"`
	Country      string `yaml:"country" json:"country,omitempty"`
	Phone        string `yaml:"phone" json:"phone,omitempty"`
	Email        string `yaml:"email" json:"email,omitempty"`
	FullName     string `yaml:"full_name" json:"fullName,omitempty"`
}

// Validate checks if the settings are usable for creating sessions
func (s *Settings) Validate() error {
	if s.ProcessingChannelID == "" {
		return fmt.Errorf("processing_channel_id cannot be empty")
	}
	if err := validateURL("success_url", s.SuccessURL); err != nil {
		return err
	}
	if err := validateURL("failure_url", s.FailureURL); err != nil {
		return err
	}
	if len(s.EnabledPaymentMethods) == 0 {
		return fmt.Errorf("enabled_payment_methods cannot be empty")
	}
	if len(s.DefaultCurrency) != 3 {
		return fmt.Errorf("default_currency must be a 3-letter ISO code, got %q", s.DefaultCurrency)
	}
	return nil
}

func validateURL(field, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s cannot be empty", field)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must be an http(s) URL, got %q", field, raw)
	}
	return nil
}

// Loader holds the loaded settings
type Loader struct {
	settings Settings
}

// NewLoader creates a new settings loader
func NewLoader() *Loader {
	return &Loader{}
}

// Load reads and parses the settings YAML file
func (l *Loader) Load(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("reading settings file: %w", err)
	}
	return l.Parse(data)
}

// Parse parses settings from YAML, applying defaults before validating
func (l *Loader) Parse(data []byte) error {
	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return fmt.Errorf("parsing settings YAML: %w", err)
	}

	if settings.PaymentType == "" {
		settings.PaymentType = "Regular"
	}
	if settings.DefaultCurrency == "" {
		settings.DefaultCurrency = "GBP"
	}
	if settings.PhoneCountryCode == "" {
		settings.PhoneCountryCode = "+44"
	}

	if err := settings.Validate(); err != nil {
		return fmt.Errorf("validating settings: %w", err)
	}

	l.settings = settings
	return nil
}

// Settings returns the loaded settings
func (l *Loader) Settings() Settings {
	return l.settings
}
