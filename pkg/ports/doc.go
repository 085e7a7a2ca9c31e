/*
Package ports defines the driven ports (interfaces) for the stagepath engine.

These interfaces decouple path compilation from where definitions live, so the
same engine serves definitions from a directory of documents, an in-process
map, Redis or SQLite.

# Key Interfaces

  - DefinitionLoader: read-only access to named path definitions.
  - DefinitionStore: a DefinitionLoader that can also save and delete.
  - PathEngine: the compile/check surface consumed by the HTTP and MCP adapters.
*/
package ports
