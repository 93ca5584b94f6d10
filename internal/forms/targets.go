// internal/forms/targets.go
//
// Closed table of signup targets.
//
// Context
// -------
// Signup forms carry client-supplied codes ("signup-general", …).  Each
// code resolves to a provider mailing list plus the display name used in
// the confirmation email.  The table is closed: a code outside it is an
// UnknownTarget error at the boundary, never a fall-through default, and
// never triggers a provider call.

package forms

// Target is one resolvable signup destination.
type Target struct {
	Code    string // client-supplied form value
	List    string // provider list local-part (address is List@domain)
	Display string // human name used in the confirmation summary
}

// targetTable holds every recognized signup code.  Order here is
// irrelevant; submission order follows the client's field order.
var targetTable = map[string]Target{
	"signup-general": {
		Code:    "signup-general",
		List:    "vsf-announce",
		Display: "General announcement",
	},
	"signup-speakerscorner": {
		Code:    "signup-speakerscorner",
		List:    "speakers_corner",
		Display: "Speaker's corner",
	},
}

// LookupTarget resolves a signup code.  ok is false for codes outside the
// closed table.
func LookupTarget(code string) (Target, bool) {
	t, ok := targetTable[code]
	return t, ok
}

// ResolveTargets maps the client's codes, in their original order, onto
// Target values.  The first unknown code aborts resolution so that no
// provider call is made for it or for anything after it.
func ResolveTargets(codes []string) ([]Target, *Error) {
	out := make([]Target, 0, len(codes))
	for _, code := range codes {
		t, ok := LookupTarget(code)
		if !ok {
			return nil, &Error{
				Kind:   UnknownTarget,
				Target: code,
				Reason: "unknown signup list",
			}
		}
		out = append(out, t)
	}
	return out, nil
}
