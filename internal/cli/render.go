package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"Astrolabe/internal/domain/models"
	"Astrolabe/internal/services/houses"
)

type chartView struct{ *models.Chart }
type designView struct{ DesignResult }
type resolveView struct{ ResolveResult }
type houseView struct{ HouseResult }
type wheelView struct{ WheelResult }
type batchView []BatchItem

// textWriter keeps the first write error so renderers can print line by line.
type textWriter struct {
	w   io.Writer
	err error
}

func (t *textWriter) line(label, format string, args ...interface{}) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, "%-12s%s\n", label, fmt.Sprintf(format, args...))
}

func (t *textWriter) raw(format string, args ...interface{}) {
	if t.err != nil {
		return
	}
	_, t.err = fmt.Fprintf(t.w, format, args...)
}

func (v chartView) RenderText(w io.Writer) error {
	t := &textWriter{w: w}
	c := v.Chart
	t.line("chart", "%s", c.ID)
	instant := fmt.Sprintf("%s (%s)", c.DatetimeUTC.Format(time.RFC3339), c.Mode)
	if c.Adjustment != models.AdjustNone {
		instant += " " + string(c.Adjustment)
	}
	t.line("time", "%s", instant)
	renderFrame(t, c.ChartFrame)
	if d := c.Design; d != nil {
		t.raw("\n")
		t.line("design", "%s (arc %.2f, residual %.6f, %d iterations)",
			d.DatetimeUTC.Format(time.RFC3339), d.SolarArc, d.Solver.Residual, d.Solver.Iterations)
		renderFrame(t, d.ChartFrame)
	}
	if len(c.Warnings) > 0 {
		t.raw("\n")
		t.line("warnings", "%s", strings.Join(c.Warnings, ", "))
	}
	if c.Debug != nil {
		t.line("debug", "jd=%.6f cusps_len=%d ascmc_raw=%v", c.Debug.JulianDay, c.Debug.CuspsLen, c.Debug.AscMCRaw)
	}
	return t.err
}

func renderFrame(t *textWriter, f models.ChartFrame) {
	t.line("jd", "%.6f", f.JulianDay)
	t.line("houses", "%s  asc %.4f  mc %.4f", houses.SystemName(f.Houses.System), f.Houses.Ascendant, f.Houses.Midheaven)
	cusps := make([]string, len(f.Houses.Cusps))
	for i, c := range f.Houses.Cusps {
		cusps[i] = fmt.Sprintf("%.2f", c)
	}
	t.line("cusps", "%s", strings.Join(cusps, " "))
	for _, name := range bodyOrder(f.Planets) {
		p := f.Planets[name]
		if p.Error != "" {
			t.line(name, "error: %s", p.Error)
			continue
		}
		house := fmt.Sprintf("%2d", p.House)
		if p.HouseFallback {
			house += "*"
		}
		gate := ""
		if p.Wheel != nil {
			gate = fmt.Sprintf("  gate %d.%d.%d.%d.%d", p.Wheel.Gate, p.Wheel.Line, p.Wheel.Color, p.Wheel.Tone, p.Wheel.Base)
		}
		t.line(name, "%9.4f  %-11s house %s%s", p.Longitude, p.Sign, house, gate)
	}
}

// bodyOrder lists the known bodies first in their usual order, then any others by name.
func bodyOrder(planets map[string]models.Placement) []string {
	rank := make(map[string]int, len(models.DefaultBodies)+1)
	for i, b := range append(append([]models.Body{}, models.DefaultBodies...), models.SouthNode) {
		rank[string(b)] = i
	}
	names := make([]string, 0, len(planets))
	for name := range planets {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ri, iok := rank[names[i]]
		rj, jok := rank[names[j]]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return names[i] < names[j]
		}
	})
	return names
}

func (v designView) RenderText(w io.Writer) error {
	t := &textWriter{w: w}
	s := v.Solver
	t.line("natal", "%s", v.NatalUTC.Format(time.RFC3339))
	t.line("design", "%s", v.DesignUTC.Format(time.RFC3339))
	t.line("jd", "%.6f", v.DesignJD)
	t.line("solar arc", "%.4f", v.SolarArc)
	t.line("target", "%.6f", s.Target)
	t.line("residual", "%.9f", s.Residual)
	t.line("iterations", "%d", s.Iterations)
	t.line("evaluations", "%d", s.Evaluations)
	t.line("retries", "%d", s.Retries)
	t.line("converged", "%t", s.Converged)
	t.line("degraded", "%t", s.Degraded)
	return t.err
}

func (v resolveView) RenderText(w io.Writer) error {
	t := &textWriter{w: w}
	t.line("instant", "%s", v.InstantUTC.Format(time.RFC3339Nano))
	t.line("jd", "%.6f", v.JulianDay)
	t.line("mode", "%s", v.Mode)
	if v.Zone != "" {
		t.line("zone", "%s", v.Zone)
	}
	if v.Mode == models.ModeLocalZone || v.Mode == models.ModeLocalOffset {
		t.line("offset", "%+d s", v.OffsetSeconds)
	}
	if v.Adjustment != models.AdjustNone {
		t.line("adjustment", "%s", v.Adjustment)
	}
	return t.err
}

func (v houseView) RenderText(w io.Writer) error {
	t := &textWriter{w: w}
	t.line("longitude", "%.6f (%s)", v.Longitude, v.Sign)
	t.line("house", "%d", v.House)
	if v.Fallback {
		t.line("fallback", "yes")
	}
	cusps := make([]string, len(v.Cusps))
	for i, c := range v.Cusps {
		cusps[i] = fmt.Sprintf("%.3f", c)
	}
	t.line("cusps", "%s", strings.Join(cusps, " "))
	return t.err
}

func (v wheelView) RenderText(w io.Writer) error {
	t := &textWriter{w: w}
	t.line("longitude", "%.6f", v.Longitude)
	t.line("gate", "%d (index %d)", v.Gate, v.GateIndex)
	t.line("line", "%d", v.Line)
	t.line("color", "%d  fraction %.6f", v.Color, v.ColorFrac)
	t.line("tone", "%d  fraction %.6f", v.Tone, v.ToneFrac)
	t.line("base", "%d  fraction %.6f", v.Base, v.BaseFrac)
	t.line("convention", "%s", v.Convention)
	return t.err
}

func (v batchView) RenderText(w io.Writer) error {
	t := &textWriter{w: w}
	for _, item := range v {
		if item.Error != nil {
			t.raw("#%d %s error [%s] %s\n", item.Index, item.ID, item.Error.Code, item.Error.Message)
			continue
		}
		c := item.Chart
		summary := ""
		if sun, ok := c.Planets[string(models.Sun)]; ok && sun.Error == "" {
			summary = fmt.Sprintf(" sun %.4f %s house %d", sun.Longitude, sun.Sign, sun.House)
		}
		status := item.Status
		if c.Degraded.Any() {
			status = "degraded"
		}
		t.raw("#%d %s %s %s%s\n", item.Index, item.ID, status, c.DatetimeUTC.Format(time.RFC3339), summary)
	}
	return t.err
}
