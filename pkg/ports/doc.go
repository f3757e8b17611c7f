/*
Package ports defines the driven ports (interfaces) of the NLS engine.

These interfaces decouple the command pipeline from its collaborators, allowing the
engine to load its ontology from different sources and to hand run commands to any
simulation backend.

# Key Interfaces

  - OntologyLoader: Loads unit specification records (e.g., from Loam or Memory).
  - Simulator: Executes a validated Scenario and returns KPIs (the run intent).
*/
package ports
