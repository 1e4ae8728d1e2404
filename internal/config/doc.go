// Package config provides configuration management for seoscan.
//
// Configuration comes from three places, in increasing priority:
//   - defaults defined in this package
//   - the .seoscan YAML file (endpoints, spreadsheet, per-site overrides)
//   - CLI flags
//
// API credentials are deliberately not part of the YAML file: they are read
// once from the environment at startup (see Credentials) so they never end
// up committed alongside project configuration.
package config
