package checks

// Outcome es el resultado de un chequeo de acceso
type Outcome int

const (
	OutcomeAllowed Outcome = iota
	OutcomeDenied
	// OutcomeIndeterminate indica que el chequeo no pudo resolverse por un error de infraestructura
	OutcomeIndeterminate
)

func (o Outcome) String() string {
	switch o {
	case OutcomeAllowed:
		return "allowed"
	case OutcomeDenied:
		return "denied"
	case OutcomeIndeterminate:
		return "indeterminate"
	default:
		return "unknown"
	}
}

// Result es el resultado tipado de un chequeo. Cada llamador decide qué hacer
// con Indeterminate; solo los chequeos permisivos lo tratan como permitido.
type Result struct {
	Outcome Outcome
	Reason  string
	Err     error
	// Hour es la hora del turno que provocó la denegación, -1 si no aplica
	Hour int
}

func Allowed() Result {
	return Result{Outcome: OutcomeAllowed, Hour: -1}
}

func Denied(reason string) Result {
	return Result{Outcome: OutcomeDenied, Reason: reason, Hour: -1}
}

// DeniedAtHour es una denegación asociada a un turno concreto
func DeniedAtHour(reason string, hour int) Result {
	return Result{Outcome: OutcomeDenied, Reason: reason, Hour: hour}
}

func Indeterminate(err error) Result {
	return Result{Outcome: OutcomeIndeterminate, Err: err, Hour: -1}
}

func (r Result) IsAllowed() bool       { return r.Outcome == OutcomeAllowed }
func (r Result) IsDenied() bool        { return r.Outcome == OutcomeDenied }
func (r Result) IsIndeterminate() bool { return r.Outcome == OutcomeIndeterminate }

// FailOpen resuelve Indeterminate como permitido
func (r Result) FailOpen() bool {
	return r.Outcome != OutcomeDenied
}

// FailClosed resuelve Indeterminate como denegado
func (r Result) FailClosed() bool {
	return r.Outcome == OutcomeAllowed
}
