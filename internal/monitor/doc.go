// Package monitor keeps the dashboard's long-lived state and runs the polling loop.
//
// # Lifecycle
//
// Discover runs once after connecting: it reads the appliance topology,
// product identity, boot time and memory size, and finds disks and
// temperature sensors. The resulting Inventory fixes the set of disks,
// sensors, interfaces, gateways and services for the life of the process;
// a topology change needs a restart.
//
// Every cycle the Collector invokes probes strictly in this order, one
// remote command at a time over the shared session:
//
//  1. SMART health of each disk
//  2. ifconfig status of each interface, then one netstat -bin
//  3. dpinger gateway latency
//  4. pgrep for each service
//  5. firewall log records newer than the cursor
//  6. the per-cycle sysctl batch, pf state count, mbuf usage, df
//
// The first error aborts the cycle and is returned from Dashboard.Run. There
// is no retry and no reconnect.
//
// # Rates
//
// CPU usage and interface throughput need two samples. The first cycle
// after startup shows them as unknown.
package monitor
