package script

import (
	"fmt"
	"io"

	"github.com/npillmayer/splines/bezier"
	"github.com/npillmayer/splines/editable"
	"github.com/npillmayer/splines/polygon"
)

// Format selects what Report prints about a spline.
type Format string

// Report formats.
const (
	FormatKnots     Format = "knots"
	FormatBezier    Format = "bezier"
	FormatFootprint Format = "footprint"
)

// ReportOptions configure footprint output.
type ReportOptions struct {
	Plane   polygon.Plane
	Samples int
}

// Report prints spline s to w in the given format.
func Report(w io.Writer, s *editable.Spline, format Format, opts ReportOptions) error {
	var err error
	switch format {
	case FormatKnots, "":
		_, err = fmt.Fprintf(w, "%s spline, %d knots, closed=%v\n", s.Basis(), s.N(), s.IsCycle())
		for i := 0; i < s.N() && err == nil; i++ {
			k := s.Z(i)
			in, out, _ := s.LocalTangents(i)
			_, err = fmt.Fprintf(w, "%3d %-10s pos=%v rot=%v in=%v out=%v\n",
				i, k.Mode(), k.Position, k.Rotation, in, out)
		}
	case FormatBezier:
		_, err = fmt.Fprintln(w, bezier.AsString(s.ToBezier(), s.IsCycle()))
	case FormatFootprint:
		pg := polygon.FromBezier(s.ToBezier(), s.IsCycle(), opts.Plane, opts.Samples)
		_, err = fmt.Fprintf(w, "%s footprint, area=%.4f\n%s\n", opts.Plane, pg.Area(), polygon.AsString(pg))
	default:
		return fmt.Errorf("%w: unknown output format %q", ErrScript, format)
	}
	return err
}
