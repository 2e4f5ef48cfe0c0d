// Package config loads the export settings used by bufstream.
//
// Settings come from three sources, later ones overriding earlier ones:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← BUFSTREAM_*  (highest priority)
//	├─────────────────────────────┤
//	│  2. Settings File           │  ← bufstream.toml / bufstream.yaml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// Command line flags are applied on top by the caller.
//
// # Configuration Files
//
// TOML and YAML are both accepted; the file extension selects the format:
//
//	# bufstream.toml
//	[export]
//	charset = "ISO-8859-15"
//	newline = "crlf"
//	trailingNewline = true
//
//	[log]
//	level = "debug"
//
// # Environment Variables
//
// BUFSTREAM_CHARSET, BUFSTREAM_NEWLINE and BUFSTREAM_LOG_LEVEL are
// shorthands. Any other BUFSTREAM_SECTION_SETTING_NAME variable maps to
// section.settingName, so BUFSTREAM_EXPORT_CHUNK_SIZE sets export.chunkSize.
//
// # Basic Usage
//
//	c := config.New(config.WithFile("bufstream.toml"))
//	if err := c.Load(ctx); err != nil {
//	    return err
//	}
//	settings, err := c.Settings()
//
// # Error Handling
//
//   - ErrSettingNotFound: Setting path doesn't exist
//   - ErrTypeMismatch: Value type doesn't match expected type (*TypeError)
//   - ErrValidationFailed: Value cannot be used (*ValidationError)
//   - *ParseError: Configuration file parsing failed
package config
