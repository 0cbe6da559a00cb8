package checkout

// steps es el conjunto cerrado de avances permitidos.
var steps = map[Step][]Step{
	StepShipping: {StepPayment},
	StepPayment:  {StepSuccess, StepFailed},
	StepFailed:   {StepPayment},
}

// CanAdvance reporta si existe la arista from -> to.
func CanAdvance(from, to Step) bool {
	for _, s := range steps[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal: success no tiene salida.
func (s Step) IsTerminal() bool {
	return len(steps[s]) == 0
}
