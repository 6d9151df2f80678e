package ident

import "strconv"

// Freshen returns base if it is not a member of taken, otherwise base with
// the smallest non-negative integer suffix appended that makes the result
// fresh with respect to taken. Pure function of (base, taken); no global
// counter is involved, so repeated calls with the same arguments are
// idempotent.
func Freshen(base Name, taken Set) Name {
	if !taken.Contains(base) {
		return base
	}
	for i := 0; ; i++ {
		candidate := MakeName(base.String() + strconv.Itoa(i))
		if !taken.Contains(candidate) {
			return candidate
		}
	}
}
