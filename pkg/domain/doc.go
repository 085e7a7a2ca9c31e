/*
Package domain contains the core domain models for stagepath.

It defines the entities of a restricted path: the ordered Stages of a picklist,
the Catalog that indexes them, the AdjacencySet describing which stages each
stage may move to, and the parsed form of a navigation rule. This package is
kept pure and free of external dependencies like I/O or persistence,
following Hexagonal Architecture principles.

# Key Entities

  - Catalog: immutable ordered list of Stages, index == position.
  - AdjacencySet: per-stage set of reachable indices. An empty set means
    "unrestricted", not "nothing allowed".
  - ParsedRule: ordered RuleClauses compiled from navigation rule text.
  - Definition: a named picklist payload plus its navigation rule, the unit
    stored and loaded by adapters.
  - Path: the compiled Catalog + AdjacencySet for one Definition.
*/
package domain
