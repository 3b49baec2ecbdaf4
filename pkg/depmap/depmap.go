// SPDX-License-Identifier: MPL-2.0

package depmap

import (
	"errors"
	"fmt"
	"strings"

	"github.com/modgraph/modgraph/pkg/modinfo"
	"github.com/modgraph/modgraph/pkg/version"
)

const (
	// DefaultEngineID is the reserved dependency id of the host engine.
	DefaultEngineID = "engine"
	// DefaultNamespace is the namespace modules publish under unless they set a group.
	DefaultNamespace = "org.terasology.modules"
	// DefaultEngineNamespace is the namespace of the engine artifact.
	DefaultEngineNamespace = "org.terasology.engine"
)

type (
	// Mapper maps declarations to specifications. The zero value uses the defaults.
	Mapper struct {
		Namespace       string
		EngineID        string
		EngineNamespace string
	}

	// Spec is a dependency on another module.
	Spec struct {
		// Declarer is the name of the declaring module.
		Declarer   string
		Namespace  string
		Name       string
		Constraint string
		Range      version.Range
		Optional   bool
	}

	// EngineRequirement is a declaration on the host engine. It selects which
	// engine version to build against and is never a graph edge.
	EngineRequirement struct {
		Declarer   string
		Namespace  string
		Name       string
		Constraint string
		Range      version.Range
	}

	// Mapping holds exactly one of Spec or Engine.
	Mapping struct {
		Spec   *Spec
		Engine *EngineRequirement
	}

	// Result collects the mappings of one or more modules.
	Result struct {
		Specs  []Spec
		Engine []EngineRequirement
	}

	// MappingError reports an internally inconsistent constraint (min > max).
	MappingError struct {
		Module string
		Target string
		Err    error
	}
)

// Error implements the error interface.
func (e *MappingError) Error() string {
	return fmt.Sprintf("module %s: dependency %s: %v", e.Module, e.Target, e.Err)
}

// Unwrap returns the underlying range error, which wraps version.ErrInvalidRange.
func (e *MappingError) Unwrap() error { return e.Err }

func (m Mapper) engineID() string {
	if m.EngineID == "" {
		return DefaultEngineID
	}
	return m.EngineID
}

func (m Mapper) namespaceFor(id modinfo.ModuleIdentity) string {
	if id.Group != "" {
		return id.Group
	}
	if m.Namespace == "" {
		return DefaultNamespace
	}
	return m.Namespace
}

func (m Mapper) engineNamespace() string {
	if m.EngineNamespace == "" {
		return DefaultEngineNamespace
	}
	return m.EngineNamespace
}

// IsEngine reports whether id names the host engine.
func (m Mapper) IsEngine(id string) bool {
	return strings.EqualFold(id, m.engineID())
}

// Map maps one declaration of module.
func (m Mapper) Map(module modinfo.ModuleIdentity, decl modinfo.Declaration) (Mapping, error) {
	r, err := constraintOf(decl)
	if err != nil {
		return Mapping{}, &MappingError{Module: module.Name, Target: decl.ID, Err: err}
	}

	if m.IsEngine(decl.ID) {
		return Mapping{Engine: &EngineRequirement{
			Declarer:   module.Name,
			Namespace:  m.engineNamespace(),
			Name:       decl.ID,
			Constraint: r.String(),
			Range:      r,
		}}, nil
	}

	return Mapping{Spec: &Spec{
		Declarer:   module.Name,
		Namespace:  m.namespaceFor(module),
		Name:       decl.ID,
		Constraint: r.String(),
		Range:      r,
		Optional:   decl.Optional,
	}}, nil
}

// constraintOf builds the declared range. The minimum is kept verbatim; the
// snapshot rule is applied when candidates are matched (version.Range.Contains).
func constraintOf(decl modinfo.Declaration) (version.Range, error) {
	if !decl.Bounded() {
		return version.AtLeast(decl.MinVersion), nil
	}
	return version.Between(decl.MinVersion, decl.MaxVersion)
}

// MapModule maps every declaration of mod in declaration order. Declarations
// that fail are skipped and reported through the joined error.
func (m Mapper) MapModule(mod *modinfo.Module) (Result, error) {
	var (
		res  Result
		errs []error
	)
	for _, decl := range mod.Dependencies {
		mapping, err := m.Map(mod.Identity, decl)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		res.add(mapping)
	}
	return res, errors.Join(errs...)
}

// MapAll maps a batch of modules. A broken module does not stop the others.
func (m Mapper) MapAll(mods []*modinfo.Module) (Result, error) {
	var (
		res  Result
		errs []error
	)
	for _, mod := range mods {
		r, err := m.MapModule(mod)
		if err != nil {
			errs = append(errs, err)
		}
		res.Specs = append(res.Specs, r.Specs...)
		res.Engine = append(res.Engine, r.Engine...)
	}
	return res, errors.Join(errs...)
}

func (r *Result) add(mapping Mapping) {
	switch {
	case mapping.Spec != nil:
		r.Specs = append(r.Specs, *mapping.Spec)
	case mapping.Engine != nil:
		r.Engine = append(r.Engine, *mapping.Engine)
	}
}

// IsEngine reports whether the mapping is an engine requirement.
func (m Mapping) IsEngine() bool { return m.Engine != nil }

// Coordinate renders the spec as "namespace:name:constraint".
func (s Spec) Coordinate() string {
	return s.Namespace + ":" + s.Name + ":" + s.Constraint
}
