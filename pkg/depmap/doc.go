// SPDX-License-Identifier: MPL-2.0

// Package depmap turns parsed dependency declarations into dependency
// specifications: a namespace, a target name and a constraint expression
// ("[min,max)" or "[min,)") plus the optional flag.
//
// Declarations on the host engine id are not module dependencies. They map to
// an EngineRequirement instead and never reach the module graph.
package depmap
