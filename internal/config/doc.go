// Package config loads, normalizes, and validates moqabr configuration data.
//
// It supplies repository defaults, expands user paths, reads TOML files and
// exposes per-category decision policy through Config.ParamsFor, which
// satisfies abr.ParamSource.
package config
