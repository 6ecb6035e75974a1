// Package mcf implements the minimum-cost-flow solver that spec.md §6
// calls out as an external collaborator of W-FLOW ("the engine submits
// the network and receives: the objective value and, for each (u,c) arc,
// its integral flow"). It is a small, self-contained Successive Shortest
// Path solver (Ahuja, Magnanti & Orlin, "Network Flows", ch. 9) plus a
// standalone Bellman-Ford helper reused by W-FLOW's own residual-graph
// filtering pass (spec.md §4.5).
//
// Grounded on the Successive-Shortest-Path / Bellman-Ford min-cost-flow
// reference implementation retrieved alongside this spec
// (services/solver-svc/internal/algorithms/min_cost_flow.go), adapted
// down from its graph-package abstraction to a minimal arc-list network
// sized for the small transportation instances W-FLOW builds (one node
// per unassigned point and per under-filled cluster).
package mcf
