package env

import "os"

// Get reads an environment variable, falling back when it is unset or blank.
// Config proper goes through envconfig; this exists for the few knobs read
// before config loads, like the logger output format.
func Get(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}
