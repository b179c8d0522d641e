package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/marcelsud/payment-relay/checkout"
)

/* validate-settings - Standalone CLI tool to validate checkout.yaml
 * Usage: go run cmd/validate-settings/main.go [checkout.yaml]
 * Exit codes: 0 = valid, 1 = invalid
 */

func main() {
	settingsFile := "checkout.yaml"
	if len(os.Args) > 1 {
		settingsFile = os.Args[1]
	}

	fmt.Printf("Validating settings file: %s\n", settingsFile)
	fmt.Println(strings.Repeat("-", 50))

	loader := checkout.NewLoader()
	if err := loader.Load(settingsFile); err != nil {
		fmt.Fprintf(os.Stderr, "❌ VALIDATION FAILED\n\n")
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	s := loader.Settings()
	fmt.Printf("✓ VALIDATION PASSED\n\n")
	fmt.Printf("   Processing channel: %s\n", s.ProcessingChannelID)
	fmt.Printf("   Payment type:       %s\n", s.PaymentType)
	fmt.Printf("   Default currency:   %s\n", s.DefaultCurrency)
	fmt.Printf("   Success URL:        %s\n", s.SuccessURL)
	fmt.Printf("   Failure URL:        %s\n", s.FailureURL)
	fmt.Printf("   Phone country code: %s\n", s.PhoneCountryCode)
	if len(s.EnabledPaymentMethods) > 0 {
		fmt.Printf("   Payment methods:    %s\n", strings.Join(s.EnabledPaymentMethods, ", "))
	}
	if s.DefaultAddress.Country != "" {
		fmt.Printf("   Default country:    %s\n", s.DefaultAddress.Country)
	}

	fmt.Printf("\n✓ Checkout settings are valid!\n")
	os.Exit(0)
}
