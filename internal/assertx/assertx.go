// Package assertx implements the teacher's Assert()/abort convention
// (util.go, direwolf_h.go in the teacher tree) for internal invariants that
// indicate a programming error, never an expected runtime condition (§7).
//
// Runtime, MAC-visible failures (PLCF CRC mismatch, infeasible packet size,
// unavailable TX buffer, ...) must never call into this package — they are
// reported through struct fields on the relevant report type instead.
package assertx

import (
	"fmt"
	"os"

	"github.com/maxpenner/DECT-NR-Plus-SDR-sub000/internal/logging"
)

var log = logging.For("assertx")

// Assert terminates the process with a diagnostic if cond is false. Use
// only for invariants whose violation means the code itself is wrong
// (e.g. "baton holder changed while we believed we held it", "moving sum
// index out of range").
func Assert(cond bool, format string, args ...any) {
	if cond {
		return
	}
	msg := fmt.Sprintf(format, args...)
	log.Fatal("internal invariant violated", "detail", msg)
	os.Exit(1) // unreachable: log.Fatal already calls os.Exit, kept for clarity/testability
}

// Fatal terminates the process for a config invariant violation detected
// at startup (§7: "Config invariant ... Fatal at startup").
func Fatal(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	log.Fatal("fatal configuration error", "detail", msg)
	os.Exit(1)
}
