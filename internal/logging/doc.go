// Package logging configures slog for the converter.
//
// Two handler formats are supported: a human-oriented console handler with
// optional color (enabled when the output is a terminal) and a JSON handler
// for machine consumption. Standardized field names and context-carried
// job/stage attributes keep log lines consistent across pipeline stages.
package logging
