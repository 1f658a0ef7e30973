// Package render draws the dashboard frame as a raw ANSI byte stream.
//
// A full clear is slow and flickers in several terminal emulators (tmux
// among them), so the screen is only cleared when the terminal geometry
// changes. Otherwise the two identity lines are left alone, the cursor is
// moved to the third line, and every line is cleared just before it is
// rewritten.
//
// Redrawing in place assumes the frame has the same number of lines every
// cycle. That holds until a filesystem is mounted or unmounted, or an
// interface gains or loses an address. Resizing the terminal forces a clean
// redraw.
package render

import (
	"bytes"
	"fmt"
	"io"
	"net/netip"
	"strings"

	"github.com/muesli/termenv"
	"github.com/rileyhilliard/fwdash/internal/errors"
	"github.com/rileyhilliard/fwdash/internal/firewall"
)

// Renderer writes frames to a terminal and remembers the geometry of the last one.
type Renderer struct {
	out     io.Writer
	profile termenv.Profile
	buf     bytes.Buffer

	previous *Geometry
}

// New creates a renderer. Use termenv.Ascii to suppress colour.
func New(out io.Writer, profile termenv.Profile) *Renderer {
	return &Renderer{out: out, profile: profile}
}

// Start homes the cursor, drops the scrollback and disables auto-wrap so
// that long lines are cut at the right edge instead of shifting the frame.
func (r *Renderer) Start() error {
	_, err := io.WriteString(r.out, cursorHome+clearScroll+autoWrapOff)
	return writeErr(err, "Failed to prepare the terminal")
}

// Stop re-enables auto-wrap and leaves the cursor on a fresh line.
func (r *Renderer) Stop() error {
	_, err := io.WriteString(r.out, autoWrapOn+"\n")
	return writeErr(err, "Failed to restore the terminal")
}

// Render draws one frame. It returns whether the screen was fully cleared.
func (r *Renderer) Render(s *Snapshot, geom Geometry) (bool, error) {
	r.buf.Reset()

	full := r.previous == nil || *r.previous != geom
	if full {
		r.buf.WriteString(FullClear)
		fmt.Fprintf(&r.buf, "Version       : %s %s-%s\n", s.Product.Name, s.Product.Version, s.Product.Arch)
		fmt.Fprintf(&r.buf, "%s%s\n", indent, s.OS)
	} else {
		r.buf.WriteString(cursorBody)
	}

	r.writeUptime(s)
	r.writeCPU(s)
	r.writeMemory(s)
	r.writeStates(s)
	r.writeMbufs(s)
	r.writeFilesystems(s)
	r.writeSmart(s)
	r.writeTemperatures(s)
	r.writeInterfaces(s)
	r.writeGateways(s)
	r.writeServices(s, geom.Width)
	r.writeFirewallEvents(s)

	if _, err := r.out.Write(r.buf.Bytes()); err != nil {
		return full, writeErr(err, "Failed to draw the dashboard")
	}
	r.previous = &geom
	return full, nil
}

func writeErr(err error, msg string) error {
	if err == nil {
		return nil
	}
	return errors.WrapWithCode(err, errors.ErrTerminal, msg,
		"The terminal went away. Check stdout is not a closed pipe.")
}

func (r *Renderer) paint(t tone, s string) string {
	return paint(r.profile, t, s)
}

// section starts a labelled line. The label is padded to the indent width.
func (r *Renderer) section(label string, first bool) {
	if !first {
		r.buf.WriteString(newLine)
	} else {
		r.buf.WriteString(clearLine)
	}
	fmt.Fprintf(&r.buf, "%-14s: ", label)
}

// row writes one entry of a multi-row section.
func (r *Renderer) row(i int, s string) {
	if i > 0 {
		r.buf.WriteString(continuation)
	}
	r.buf.WriteString(s)
}

func (r *Renderer) writeUptime(s *Snapshot) {
	secs := int64(s.Uptime.Seconds())
	r.section("Uptime", true)
	fmt.Fprintf(&r.buf, "%d days %02d:%02d:%02d",
		secs/86400, (secs%86400)/3600, (secs%3600)/60, secs%60)
}

func (r *Renderer) writeCPU(s *Snapshot) {
	r.section("CPU usage", false)
	if !s.CPUKnown {
		r.buf.WriteString("    ? %")
		return
	}
	r.buf.WriteString(r.paint(usageTone(s.CPUPercent), fmt.Sprintf("%5.1f %%", s.CPUPercent)))
}

func (r *Renderer) writeMemory(s *Snapshot) {
	pct := percent(float64(s.MemoryUsedPages), float64(s.MemoryTotalPages))
	r.section("Memory usage", false)
	r.buf.WriteString(r.paint(usageTone(pct), fmt.Sprintf("%5.1f %% of %d MiB", pct, s.PhysMem/1_048_576)))
}

func (r *Renderer) writeStates(s *Snapshot) {
	limit := s.StatesMax()
	pct := percent(float64(s.StatesUsed), float64(limit))
	r.section("States table", false)
	r.buf.WriteString(r.paint(usageTone(pct), fmt.Sprintf("%5.1f %% (%7d / %7d)", pct, s.StatesUsed, limit)))
}

func (r *Renderer) writeMbufs(s *Snapshot) {
	pct := percent(float64(s.MbufsUsed), float64(s.MbufsMax))
	r.section("MBUF usage", false)
	r.buf.WriteString(r.paint(usageTone(pct), fmt.Sprintf("%5.1f %% (%7d / %7d)", pct, s.MbufsUsed, s.MbufsMax)))
}

func (r *Renderer) writeFilesystems(s *Snapshot) {
	width := 0
	for _, fs := range s.Filesystems {
		width = max(width, len(fs.MountedOn))
	}

	r.section("Disk usage", false)
	for i, fs := range s.Filesystems {
		pct := fs.UsagePercent()
		r.row(i, r.paint(usageTone(pct), fmt.Sprintf("%*s : %5.1f %% of %sB",
			width, fs.MountedOn, pct, HumanSizeBase10(float64(fs.TotalBlocks)*1024))))
	}
}

func (r *Renderer) writeSmart(s *Snapshot) {
	nameWidth, serialWidth := 0, 0
	for _, d := range s.Disks {
		nameWidth = max(nameWidth, len(d.Name))
		serialWidth = max(serialWidth, len(d.Serial))
	}

	r.section("SMART status", false)
	for i, d := range s.Disks {
		status := "FAILED"
		if d.Passed {
			status = "PASSED"
		}
		r.row(i, r.paint(upDownTone(d.Passed), fmt.Sprintf("%*s %-*s %s",
			nameWidth, d.Name, serialWidth, d.Serial, status)))
	}
}

func (r *Renderer) writeTemperatures(s *Snapshot) {
	type reading struct {
		name    string
		celsius float64
	}
	readings := make([]reading, 0, len(s.Sensors)+len(s.Disks))
	for _, sensor := range s.Sensors {
		readings = append(readings, reading{sensor.Name, sensor.Celsius})
	}
	for _, d := range s.Disks {
		readings = append(readings, reading{d.Name, float64(d.Temperature)})
	}

	width := 0
	for _, rd := range readings {
		width = max(width, len(rd.name))
	}

	r.section("Temperatures", false)
	for i, rd := range readings {
		r.row(i, r.paint(temperatureTone(rd.celsius), fmt.Sprintf("%*s : %5.1f °C", width, rd.name, rd.celsius)))
	}
}

func (r *Renderer) writeInterfaces(s *Snapshot) {
	width := 0
	for _, iface := range s.Interfaces {
		width = max(width, len(iface.Name))
	}

	r.section("Interfaces", false)
	for i, iface := range s.Interfaces {
		t := upDownTone(iface.Error == "")

		var line strings.Builder
		fmt.Fprintf(&line, "%*s : ", width, iface.Name)
		switch {
		case iface.Error != "":
			fmt.Fprintf(&line, "%-30s", iface.Error)
		case iface.RatesKnown:
			fmt.Fprintf(&line, "%sb/s down %sb/s up ", HumanSizeBase10(iface.ReceivedRate), HumanSizeBase10(iface.SentRate))
		default:
			line.WriteString("    ?  b/s down     ?  b/s up ")
		}

		if len(iface.Addresses) == 0 {
			r.row(i, r.paint(t, line.String()))
			continue
		}
		for j, addr := range iface.Addresses {
			if j > 0 {
				r.buf.WriteString(continuation)
				line.Reset()
				fmt.Fprintf(&line, "%*s%33s", width, "", "")
			}
			line.WriteString(addr)
			if j == 0 {
				r.row(i, r.paint(t, line.String()))
			} else {
				r.buf.WriteString(r.paint(t, line.String()))
			}
		}
	}
}

func (r *Renderer) writeGateways(s *Snapshot) {
	width := 0
	for _, gw := range s.Gateways {
		width = max(width, len(gw.Name))
	}

	r.section("Gateways", false)
	for i, gw := range s.Gateways {
		if gw.Latency == nil {
			r.row(i, fmt.Sprintf("%*s : dpinger is not running", width, gw.Name))
			continue
		}
		r.row(i, fmt.Sprintf("%*s : %6.1f ms (%6.1f ms) %3d %%", width, gw.Name,
			gw.Latency.LatencyAvg.Seconds()*1000,
			gw.Latency.LatencyStdDev.Seconds()*1000,
			gw.Latency.LossPercent))
	}
}

// writeServices lays services out column-major across the terminal width.
func (r *Renderer) writeServices(s *Snapshot, termWidth int) {
	width := 0
	for _, svc := range s.Services {
		width = max(width, len(svc.Name))
	}

	perRow := (termWidth - len(indent)) / (width + 2)
	if perRow < 1 {
		perRow = 1
	}
	rows := (len(s.Services) + perRow - 1) / perRow

	r.buf.WriteString(newLine + servicesLabel)
	for i := 0; i < rows; i++ {
		for j := 0; j < perRow; j++ {
			idx := i + rows*j
			if idx >= len(s.Services) {
				break
			}
			if i > 0 && j == 0 {
				r.buf.WriteString(newLine + indent[1:])
			}
			svc := s.Services[idx]
			r.buf.WriteString(" " + r.paint(upDownTone(svc.Running), fmt.Sprintf("%-*s", width, svc.Name)) + " ")
		}
	}
}

func (r *Renderer) writeFirewallEvents(s *Snapshot) {
	r.section("Firewall logs", false)
	for i, ev := range s.FirewallEvents {
		action := fmt.Sprintf("%-5s", ev.Action)
		head := fmt.Sprintf("%s %-*s %s", ev.Timestamp, s.FirewallInterfaceWidth, ev.Interface, action)

		var line string
		if ev.Protocol == firewall.ICMP {
			line = fmt.Sprintf("%s      icmp <- %s", head, ev.Source.Addr())
		} else {
			line = fmt.Sprintf("%s %5d/%s <- %s", head, ev.Destination.Port(), ev.Protocol, sourceNetwork(ev.Source.Addr()))
		}
		r.row(i, r.paint(upDownTone(ev.Action == firewall.Block), line))
	}
}

// sourceNetwork shows IPv4 sources as-is and IPv6 sources as their /64.
func sourceNetwork(addr netip.Addr) string {
	if addr.Is4() || addr.Is4In6() {
		return addr.Unmap().String()
	}
	prefix, err := addr.Prefix(64)
	if err != nil {
		return addr.String()
	}
	return prefix.String()
}
