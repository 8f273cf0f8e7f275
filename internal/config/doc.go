// Package config handles configuration loading for the storefront client.
//
// Configuration is loaded from YAML files with ${VAR_NAME} environment
// variable expansion and Go duration strings for timeouts:
//
//	api:
//	  base_url: "${STOREFRONT_API_URL}"
//	  timeout: "10s"
//
//	storage:
//	  path: "~/.local/share/storefront/storefront.db"
//
//	logging:
//	  level: "info"   # debug, info, warn, error
//	  format: "text"  # text, json
//
// Default() produces a usable configuration when no file is present.
package config
