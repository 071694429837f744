package errors

import (
	"fmt"
	"strings"
)

// FormatUserError returns a user-friendly error message with actionable guidance.
// It examines the error chain and provides context-appropriate help text.
func FormatUserError(err error) string {
	if err == nil {
		return ""
	}

	var configErr *ConfigError
	if As(err, &configErr) {
		return formatConfigError(configErr)
	}

	var apiErr *APIError
	if As(err, &apiErr) {
		return formatAPIError(apiErr)
	}

	var storeErr *StoreError
	if As(err, &storeErr) {
		return formatStoreError(storeErr)
	}

	return err.Error()
}

// formatConfigError formats a ConfigError with actionable guidance.
func formatConfigError(err *ConfigError) string {
	var b strings.Builder

	if err.Field != "" {
		fmt.Fprintf(&b, "Configuration error in '%s': %s\n", err.Field, err.Message)
	} else {
		fmt.Fprintf(&b, "Configuration error: %s\n", err.Message)
	}

	b.WriteString("\nTo fix this:\n")
	b.WriteString("  • Check your config file: ~/.config/skinscout/config.toml\n")
	b.WriteString("  • Run 'skinscout config init' to write a fresh default config\n")

	if err.Cause != nil {
		fmt.Fprintf(&b, "\nUnderlying error: %v", err.Cause)
	}

	return b.String()
}

// formatAPIError formats an APIError. The API message always comes first
// because it is the text the user is expected to act on.
func formatAPIError(err *APIError) string {
	var b strings.Builder

	b.WriteString("Error fetching listings: ")
	b.WriteString(err.Message)
	b.WriteString("\n")

	switch err.StatusCode {
	case 0:
		b.WriteString("\nThe aggregation API did not answer. To fix this:\n")
		b.WriteString("  • Check api.base_url in your config (or SKINSCOUT_API_BASE_URL)\n")
		b.WriteString("  • Run 'skinscout health' to check the API status\n")

	case 401, 403:
		b.WriteString("\nThe API rejected your credentials. To fix this:\n")
		b.WriteString("  • Run 'skinscout auth login' to store an API key\n")
		b.WriteString("  • Or set the SKINSCOUT_API_KEY environment variable\n")

	case 404:
		if err.Market != "" {
			fmt.Fprintf(&b, "\nMarketplace %q is not known to the API.\n", err.Market)
		}

	case 429:
		b.WriteString("\nRate limit exceeded. Wait a moment before searching again.\n")
	}

	if err.Retryable {
		b.WriteString("\nThis error may be temporary. Run the search again to retry.\n")
	}

	return b.String()
}

// formatStoreError formats a StoreError with actionable guidance.
func formatStoreError(err *StoreError) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Storage error (%s) during %s: %s\n", err.Backend, err.Operation, err.Message)

	switch err.Backend {
	case "redis":
		b.WriteString("\nTo fix this:\n")
		b.WriteString("  • Check store.redis_url in your config\n")
		b.WriteString("  • Or switch store.backend to \"file\"\n")
	case "sqlite", "file":
		b.WriteString("\nTo fix this:\n")
		b.WriteString("  • Check that store.path is writable\n")
	}

	if err.Cause != nil {
		fmt.Fprintf(&b, "\nUnderlying error: %v", err.Cause)
	}

	return b.String()
}
