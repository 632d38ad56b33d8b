// Package repair implements the operator-invoked integrity procedures:
// duplicate resolution for quantitative objectives, tenant backfill for rows
// predating the multi-tenant retrofit, and targeted assignment removal.
// Every procedure is idempotent — re-running after the first successful run
// converges to the same end state with zero additional changes — because the
// procedures run without exclusive locks or a coordinating authority.
package repair

import (
	"fmt"
	"strings"
)

// Resumen is the human-readable outcome of one repair invocation. Soft
// failures are degradations the procedure chose to survive (for example a
// constraint that could not be added); they are surfaced here rather than
// buried in logs.
type Resumen struct {
	Procedimiento string
	Conflictos    int
	Eliminados    int64
	Actualizados  int64
	PorTabla      map[string]int64
	Detalles      []string
	FallosSuaves  []string
}

func nuevoResumen(procedimiento string) *Resumen {
	return &Resumen{Procedimiento: procedimiento, PorTabla: make(map[string]int64)}
}

func (r *Resumen) detalle(format string, args ...interface{}) {
	r.Detalles = append(r.Detalles, fmt.Sprintf(format, args...))
}

func (r *Resumen) falloSuave(format string, args ...interface{}) {
	r.FallosSuaves = append(r.FallosSuaves, fmt.Sprintf(format, args...))
}

// String renders the operator-facing report.
func (r *Resumen) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "== %s ==\n", r.Procedimiento)
	fmt.Fprintf(&b, "conflictos: %d, eliminados: %d, actualizados: %d\n",
		r.Conflictos, r.Eliminados, r.Actualizados)
	for tabla, n := range r.PorTabla {
		fmt.Fprintf(&b, "  %-32s %d filas\n", tabla, n)
	}
	for _, d := range r.Detalles {
		fmt.Fprintf(&b, "  - %s\n", d)
	}
	if len(r.FallosSuaves) > 0 {
		b.WriteString("fallos no fatales:\n")
		for _, f := range r.FallosSuaves {
			fmt.Fprintf(&b, "  ! %s\n", f)
		}
	}
	return b.String()
}
