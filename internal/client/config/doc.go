// Package config loads runtime configuration for the PunchKeeper client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// # JSON schema
//
// Intervals use timex.Duration, so values can be strings like "30s" or
// integer nanoseconds:
//
//	{
//	  "server_url": "https://hr.example.com",
//	  "tenant_id": "acme",
//	  "user_id": "u-42",
//	  "employee_name": "Jane Doe",
//	  "time_zone": "Europe/Riga",
//	  "online_check_interval": "3s",
//	  "poll_interval": "30s",
//	  "required_hours": "8h",
//	  "site": {"latitude": 56.9496, "longitude": 24.1052}
//	}
package config
