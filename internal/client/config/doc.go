// Package config loads runtime configuration for the finlink client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file selected via -c/-config or FINLINK_CONFIG.
//  3. Environment variables (FINLINK_GATEWAY_URL, FINLINK_REQUEST_TIMEOUT,
//     FINLINK_DB, FINLINK_LOG_LEVEL, TELLER_APPLICATION_ID, TELLER_ENVIRONMENT).
//  4. Command-line flags, which override earlier values.
//
// # JSON schema
//
//	{
//	  "gateway_base_url": "https://api.example.com",
//	  "request_timeout": "30s",
//	  "database_path": "/var/lib/finlink/finlink.db",
//	  "widget": {
//	    "application_id": "app_xxx",
//	    "environment": "sandbox",
//	    "products": ["transactions", "balance"],
//	    "select_account": "multiple"
//	  }
//	}
package config
