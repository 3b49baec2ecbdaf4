// SPDX-License-Identifier: MPL-2.0

package modinfo

import (
	"strings"

	"github.com/modgraph/modgraph/pkg/version"
)

// DefaultFileName is the metadata file name looked up inside a module directory.
const DefaultFileName = "module.txt"

type (
	// ModuleIdentity names one module in a resolution pass.
	ModuleIdentity struct {
		// Name is unique among the modules of one pass, ignoring case.
		Name    string
		Version version.Version
		// Group is the namespace the module publishes under. Empty means the
		// mapper's default namespace.
		Group string
	}

	// Declaration is one dependency entry of a module.
	Declaration struct {
		ID         string
		MinVersion version.Version
		// MaxVersion is the exclusive upper bound; zero when unbounded.
		MaxVersion version.Version
		Optional   bool
	}

	// Module is a parsed metadata file.
	Module struct {
		Identity       ModuleIdentity
		DisplayName    string
		Description    string
		Author         string
		ServerSideOnly bool
		IsGameplay     bool
		// Dependencies keeps declaration order.
		Dependencies []Declaration
		// Path is the metadata file the module was read from, if any.
		Path string
	}
)

// Bounded reports whether the declaration carries an upper bound.
func (d Declaration) Bounded() bool { return !d.MaxVersion.IsZero() }

// Key folds a module id to the form used for lookups. Ids match without
// regard to case; the declared spelling is kept for display.
func Key(name string) string { return strings.ToLower(name) }

// Name is shorthand for m.Identity.Name.
func (m *Module) Name() string { return m.Identity.Name }

// String renders the identity as "name@version".
func (id ModuleIdentity) String() string {
	if id.Version.IsZero() {
		return id.Name
	}
	return id.Name + "@" + id.Version.String()
}
