/*
Package stagepath compiles restricted-transition rules for linear stage paths.

A path is an ordered picklist of stages (e.g. New, Working, Closed). By
default a record may jump from any stage to any other. Two sources restrict
that freedom:

  - a dependency map, where each stage lists the stages it is valid after
    (ValidFor), as platforms expose for a field that controls itself;
  - a navigation rule, a small text grammar such as
    "new={working}, closed=!{new}" that adds (from={...}) or removes
    (from=!{...}) allowed targets.

The engine turns both into an adjacency set per stage and answers whether a
given move is blocked. An empty adjacency entry means "unrestricted".

# Usage

	eng, err := stagepath.New("", stagepath.WithLoader(store))
	if err != nil {
		log.Fatal(err)
	}

	decision, err := eng.Check(ctx, def, "new", "closed")
	if err != nil {
		log.Fatal(err)
	}
	if decision.Blocked {
		// hide or disable the action
	}

Definitions can be read from a directory of markdown/YAML/JSON files (the
default, through Loam), HCL files, Redis, SQLite or memory. The cmd/stagepath
binary exposes the same engine as a CLI, an HTTP API and an MCP server.
*/
package stagepath
