// Package config provides iconize settings.
//
// Settings come from three sources, lowest precedence first:
//
//	┌─────────────────────────────┐
//	│  3. Environment Variables   │  ← ICONIZE_SECTION_SETTING
//	├─────────────────────────────┤
//	│  2. Config File             │  ← ~/.config/iconize/config.toml
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │
//	└─────────────────────────────┘
//
// A missing config file is not an error. Unknown keys in the file are.
package config
