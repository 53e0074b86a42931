// Package utils provides loose conversions for settings that arrive as
// strings from the environment, config files or the settings table.
package utils
