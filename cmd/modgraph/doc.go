// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the modgraph CLI commands.
package cmd
