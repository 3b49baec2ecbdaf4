// SPDX-License-Identifier: MPL-2.0

package depmap

import (
	"errors"
	"testing"

	"github.com/modgraph/modgraph/pkg/modinfo"
	"github.com/modgraph/modgraph/pkg/version"
)

func identity(name, v string) modinfo.ModuleIdentity {
	return modinfo.ModuleIdentity{Name: name, Version: version.MustParse(v)}
}

func decl(id, minimum, maximum string, optional bool) modinfo.Declaration {
	d := modinfo.Declaration{ID: id, MinVersion: version.MustParse(minimum), Optional: optional}
	if maximum != "" {
		d.MaxVersion = version.MustParse(maximum)
	}
	return d
}

func TestMap_ConstraintRendering(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		decl       modinfo.Declaration
		constraint string
	}{
		{name: "minimum only", decl: decl("A", "1.0.0", "", false), constraint: "[1.0.0,)"},
		{name: "bounded", decl: decl("A", "1.0.0", "2.0.0", false), constraint: "[1.0.0,2.0.0)"},
		{name: "snapshot minimum kept verbatim", decl: decl("A", "2.0.0-SNAPSHOT", "", false), constraint: "[2.0.0-SNAPSHOT,)"},
		{name: "equal bounds", decl: decl("A", "1.0.0", "1.0.0", false), constraint: "[1.0.0,1.0.0)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mapping, err := Mapper{}.Map(identity("M", "1.0.0"), tt.decl)
			if err != nil {
				t.Fatalf("Map() unexpected error: %v", err)
			}
			if mapping.IsEngine() {
				t.Fatal("expected a module spec, got an engine requirement")
			}
			if mapping.Spec.Constraint != tt.constraint {
				t.Errorf("Constraint = %q, want %q", mapping.Spec.Constraint, tt.constraint)
			}
			if mapping.Spec.Namespace != DefaultNamespace {
				t.Errorf("Namespace = %q, want %q", mapping.Spec.Namespace, DefaultNamespace)
			}
			if mapping.Spec.Declarer != "M" || mapping.Spec.Name != "A" {
				t.Errorf("Declarer/Name = %q/%q", mapping.Spec.Declarer, mapping.Spec.Name)
			}
		})
	}
}

func TestMap_MinGreaterThanMax(t *testing.T) {
	t.Parallel()

	_, err := Mapper{}.Map(identity("M", "1.0.0"), decl("A", "3.0.0", "2.0.0", false))
	if err == nil {
		t.Fatal("expected MappingError")
	}
	var me *MappingError
	if !errors.As(err, &me) {
		t.Fatalf("expected *MappingError, got %T", err)
	}
	if me.Module != "M" || me.Target != "A" {
		t.Errorf("MappingError = %+v", me)
	}
	if !errors.Is(err, version.ErrInvalidRange) {
		t.Errorf("MappingError should wrap version.ErrInvalidRange, got %v", err)
	}
}

func TestMap_SnapshotMinimumSatisfiedBySameSnapshot(t *testing.T) {
	t.Parallel()

	mapping, err := Mapper{}.Map(identity("M", "1.0.0"), decl("A", "2.0.0-SNAPSHOT", "", false))
	if err != nil {
		t.Fatalf("Map() unexpected error: %v", err)
	}
	if !mapping.Spec.Range.Contains(version.MustParse("2.0.0-SNAPSHOT")) {
		t.Error("2.0.0-SNAPSHOT should satisfy [2.0.0-SNAPSHOT,)")
	}
}

func TestMap_Engine(t *testing.T) {
	t.Parallel()

	mapping, err := Mapper{}.Map(identity("M", "1.0.0"), decl("engine", "4.0.0", "5.0.0", false))
	if err != nil {
		t.Fatalf("Map() unexpected error: %v", err)
	}
	if !mapping.IsEngine() || mapping.Spec != nil {
		t.Fatalf("expected an engine requirement, got %+v", mapping)
	}
	if mapping.Engine.Constraint != "[4.0.0,5.0.0)" {
		t.Errorf("engine constraint = %q", mapping.Engine.Constraint)
	}
	if mapping.Engine.Namespace != DefaultEngineNamespace {
		t.Errorf("engine namespace = %q", mapping.Engine.Namespace)
	}
}

func TestMap_CustomEngineIDAndGroup(t *testing.T) {
	t.Parallel()

	m := Mapper{Namespace: "org.example", EngineID: "runtime"}
	if mapping, _ := m.Map(identity("M", "1.0.0"), decl("engine", "1.0.0", "", false)); mapping.IsEngine() {
		t.Error("engine should be a regular module when EngineID is overridden")
	}
	if mapping, _ := m.Map(identity("M", "1.0.0"), decl("Runtime", "1.0.0", "", false)); !mapping.IsEngine() {
		t.Error("engine id matching should ignore case")
	}

	grouped := identity("M", "1.0.0")
	grouped.Group = "com.acme"
	mapping, err := m.Map(grouped, decl("A", "1.0.0", "", true))
	if err != nil {
		t.Fatal(err)
	}
	if mapping.Spec.Namespace != "com.acme" {
		t.Errorf("Namespace = %q, want the declaring module's group", mapping.Spec.Namespace)
	}
	if !mapping.Spec.Optional {
		t.Error("optional flag should be carried")
	}
	if got := mapping.Spec.Coordinate(); got != "com.acme:A:[1.0.0,)" {
		t.Errorf("Coordinate() = %q", got)
	}
}

func TestMapAll_CollectsErrorsPerModule(t *testing.T) {
	t.Parallel()

	good := &modinfo.Module{
		Identity:     identity("Good", "1.0.0"),
		Dependencies: []modinfo.Declaration{decl("engine", "4.0.0", "", false), decl("Lib", "1.0.0", "", false)},
	}
	bad := &modinfo.Module{
		Identity:     identity("Bad", "1.0.0"),
		Dependencies: []modinfo.Declaration{decl("Lib", "2.0.0", "1.0.0", false), decl("Other", "1.0.0", "", true)},
	}

	res, err := Mapper{}.MapAll([]*modinfo.Module{good, bad})
	if err == nil {
		t.Fatal("expected error for Bad")
	}
	var me *MappingError
	if !errors.As(err, &me) || me.Module != "Bad" {
		t.Fatalf("expected MappingError for Bad, got %v", err)
	}
	if len(res.Specs) != 2 {
		t.Errorf("expected 2 specs (Good->Lib, Bad->Other), got %d", len(res.Specs))
	}
	if len(res.Engine) != 1 || res.Engine[0].Declarer != "Good" {
		t.Errorf("expected one engine requirement from Good, got %+v", res.Engine)
	}
}
