// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Id identifies an issue guide.
type Id int

const (
	ConfigLoadFailedId Id = iota + 1
	NoModulesFoundId
	MetadataParseFailedId
	MetadataNotFoundId
	InvalidConstraintId
	DuplicateModuleId
	DependencyCycleId
	UnresolvedDependenciesId
	EngineConflictId
)

type (
	// MarkdownMsg is guide text in Markdown.
	MarkdownMsg string

	// HttpLink is a documentation URL.
	HttpLink string

	// Issue is a guide for one class of failure.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
	}
)

func (i *Issue) Id() Id { return i.id }

func (i *Issue) MarkdownMsg() MarkdownMsg { return i.mdMsg }

func (i *Issue) DocLinks() []HttpLink { return slices.Clone(i.docLinks) }

// Render renders the guide for the terminal with the given glamour style
// ("dark", "light", "notty", or a path to a JSON style).
func (i *Issue) Render(style string) (string, error) {
	md := string(i.mdMsg)
	if len(i.docLinks) > 0 {
		md += "\n\n## See also\n"
		for _, link := range i.docLinks {
			md += "- <" + string(link) + ">\n"
		}
	}
	return render(md, style)
}

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Configuration could not be loaded

modgraph reads ` + "`modgraph.cue`" + ` in the workspace, then
` + "`$XDG_CONFIG_HOME/modgraph/config.cue`" + `.

## Things you can try:
- Print the effective configuration:
~~~
$ modgraph config show
~~~
- Check the field names against the example below:
~~~cue
workspace: patterns: ["modules/*"]
resolve: engine_id: "engine"
ui: log_level: "info"
~~~`,
	}

	noModulesFoundIssue = &Issue{
		id: NoModulesFoundId,
		mdMsg: `
# No modules found

No directory matched the discovery patterns, or none of the matches
contained a metadata file.

## Things you can try:
- Run modgraph from the workspace root, or pass ` + "`--root`" + `
- Set ` + "`workspace.patterns`" + ` to where your modules live`,
	}

	metadataParseFailedIssue = &Issue{
		id: MetadataParseFailedId,
		mdMsg: `
# Module metadata is malformed

A ` + "`module.txt`" + ` file is not valid JSON or does not match the
expected shape. The affected module was left out of the build.

## Expected shape:
~~~json
{
  "id": "Core",
  "version": "1.0.0",
  "dependencies": [
    {"id": "engine", "minVersion": "4.0.0", "maxVersion": "5.0.0"},
    {"id": "BlockLibrary", "minVersion": "1.2.0", "optional": true}
  ]
}
~~~

Versions are ` + "`major.minor.patch`" + `, optionally followed by ` + "`-SNAPSHOT`" + `.`,
	}

	metadataNotFoundIssue = &Issue{
		id: MetadataNotFoundId,
		mdMsg: `
# Module metadata is missing

A module directory has no metadata file.

## Things you can try:
- Add a ` + "`module.txt`" + ` to the directory
- Set ` + "`workspace.metadata_file`" + ` if your modules use another name`,
	}

	invalidConstraintIssue = &Issue{
		id: InvalidConstraintId,
		mdMsg: `
# A dependency constraint is inconsistent

A dependency declares a ` + "`minVersion`" + ` greater than its ` + "`maxVersion`" + `.
No version can satisfy it, so the declaration is most likely a typo.

## Things you can try:
- Fix the bounds in the declaring module's metadata
- Run with ` + "`--lenient`" + ` to drop the declaration and continue`,
	}

	duplicateModuleIssue = &Issue{
		id: DuplicateModuleId,
		mdMsg: `
# Two modules share an id

Module ids must be unique within a workspace. Rename one module or remove
the stale checkout.`,
	}

	dependencyCycleIssue = &Issue{
		id: DependencyCycleId,
		mdMsg: `
# Dependency cycle detected

The workspace modules depend on each other in a loop, so there is no order
in which they can be built.

## Things you can try:
- Look at the cycle printed above and remove one of its dependencies
- Move the shared code into a new module both sides can depend on
- Render the graph to see the loop in context:
~~~
$ modgraph graph --format dot | dot -Tsvg > graph.svg
~~~`,
	}

	unresolvedDependenciesIssue = &Issue{
		id: UnresolvedDependenciesId,
		mdMsg: `
# Required dependencies are unresolved

Some required dependencies are neither workspace modules nor available from
a configured artifact backend. A build of the declaring modules will fail.

## Things you can try:
- Check out the missing modules into the workspace
- Add a repository index with ` + "`resolve.index_files`" + `
- Add a git source with ` + "`resolve.git_urls`" + ``,
	}

	engineConflictIssue = &Issue{
		id: EngineConflictId,
		mdMsg: `
# Modules disagree on the engine version

The engine version ranges declared by the modules do not overlap, so no
single engine can run all of them.

## Things you can try:
- Update the outdated modules' ` + "`engine`" + ` dependency
- Remove modules that target another engine line from the workspace`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():       configLoadFailedIssue,
		noModulesFoundIssue.Id():         noModulesFoundIssue,
		metadataParseFailedIssue.Id():    metadataParseFailedIssue,
		metadataNotFoundIssue.Id():       metadataNotFoundIssue,
		invalidConstraintIssue.Id():      invalidConstraintIssue,
		duplicateModuleIssue.Id():        duplicateModuleIssue,
		dependencyCycleIssue.Id():        dependencyCycleIssue,
		unresolvedDependenciesIssue.Id(): unresolvedDependenciesIssue,
		engineConflictIssue.Id():         engineConflictIssue,
	}
)

// Values returns all guides, ordered by id.
func Values() []*Issue {
	out := maps.Values(issues)
	slices.SortFunc(out, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return out
}

// Get returns the guide for id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
