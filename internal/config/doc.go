// Package config loads, validates, and normalizes BingeWatch configuration.
//
// Configuration is read from a TOML file resolved in order: an explicit
// --config path, ~/.config/bingewatch/config.toml, then bingewatch.toml in
// the working directory. Missing files are not an error; defaults apply.
package config
