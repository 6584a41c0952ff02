// Package sim provides the discrete-event simulation kernel built around the
// Dsplay pending-event set.
//
// # Reading Guide
//
// Start with these files:
//   - queue.go: the EventQueue contract every pending-event set implements
//   - event.go: Event and Handler, the unit of scheduled work
//   - simulator.go: the execution loop (take all events at the minimum time,
//     advance the clock, fire them)
//
// # Architecture
//
// The sim package defines the contract; implementations live in sub-packages:
//   - sim/splay/: self-adjusting binary search tree keyed by time
//   - sim/dsplay/: the three-tier Dsplay queue (splay tree, buckets, list)
//   - sim/heapq/: binary-heap baseline with the same contract
//   - sim/workload/: time-increment distributions and the hold model
//   - sim/trace/: firing traces for comparing runs
//   - sim/telemetry/: Prometheus collector over queue statistics
package sim
