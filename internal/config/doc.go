// SPDX-License-Identifier: MPL-2.0

// Package config loads the modgraph configuration record.
//
// Configuration is written in CUE and validated against an embedded schema
// (config_schema.cue). The first file found wins: the path given with
// --config, then modgraph.cue in the workspace root, then config.cue in the
// user configuration directory ($XDG_CONFIG_HOME/modgraph on Linux). Values
// are merged into viper over the defaults, and MODGRAPH_* environment
// variables override both (MODGRAPH_UI_LOG_LEVEL sets ui.log_level).
package config
