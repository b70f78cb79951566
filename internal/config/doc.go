// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package config assembles the vaultsync binary's configuration from three
// layers — command-line flags, environment variables and an optional JSON
// file — merged with mergo so that a value set in an earlier layer is never
// overridden by a later one. Precedence: flags, then environment, then the
// JSON file named by the -c/-config flag or the CONFIG variable.
//
// The merged configuration is validated before use; see the Err* sentinels
// in errors.go for the possible validation failures.
package config
