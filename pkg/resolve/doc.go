// SPDX-License-Identifier: MPL-2.0

// Package resolve classifies mapped dependency specifications as satisfied by
// a module built in the workspace, satisfied by a published artifact, or
// unresolved.
//
// Artifact lookups go through the Backend interface. Resolution is lenient: a
// failing lookup is recorded on its Result and in the Report diagnostics while
// the remaining specifications are still resolved.
package resolve
