// SPDX-License-Identifier: MPL-2.0

// Package workspace runs one resolution pass over a workspace: discover the
// module directories, read their metadata, map and resolve the declared
// dependencies, build the local module graph and order it.
//
// Everything a pass needs is passed in through Options, built once per run.
package workspace
