// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/emi-calculator/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	switch format {
	case constants.OutputFormatPretty, constants.OutputFormatCSV:
		return nil
	}
	return fmt.Errorf("expected output format of %s or %s, got %q",
		constants.OutputFormatPretty, constants.OutputFormatCSV, format)
}
