package signup

const (
	// FirstStep is the step a new workflow starts on.
	FirstStep = 1
	// LastStep is the step submission happens from.
	LastStep = 3
)

// stepFields assigns each field to exactly one step. Index 0 is unused.
var stepFields = [LastStep + 1][]Field{
	1: {FieldEmail, FieldPassword, FieldConfirmPassword},
	2: {FieldFirstName, FieldLastName, FieldPhoneNumber, FieldDateOfBirth},
	3: {FieldSSN, FieldAddress, FieldCity, FieldState, FieldZipCode},
}

// Fields returns the fields validated on step. Out-of-range steps have none.
func Fields(step int) []Field {
	if step < FirstStep || step > LastStep {
		return nil
	}
	out := make([]Field, len(stepFields[step]))
	copy(out, stepFields[step])
	return out
}

// AllFields returns every field in step order.
func AllFields() []Field {
	var out []Field
	for step := FirstStep; step <= LastStep; step++ {
		out = append(out, stepFields[step]...)
	}
	return out
}

// StepOf returns the step f belongs to, or 0 for an unknown field.
func StepOf(f Field) int {
	for step := FirstStep; step <= LastStep; step++ {
		for _, sf := range stepFields[step] {
			if sf == f {
				return step
			}
		}
	}
	return 0
}
