package validation

// Scope tells whether a Violation concerns one field or the whole object.
type Scope int

const (
	FieldScope Scope = iota
	ObjectScope
)

// Violation is a single recorded constraint failure.
type Violation struct {
	Location string
	Message  string
	Scope    Scope
}

func (v Violation) String() string {
	return v.Location + ": " + v.Message
}

// Errors is the read-only view of a binding outcome.
type Errors interface {
	HasErrors() bool

	// AllViolations returns every violation in detection order. Each call
	// returns a fresh copy.
	AllViolations() []Violation
}

// BindingResult accumulates the violations of one binding attempt.
// Only this package appends to it; handlers read it through its methods
// or through the Errors interface.
type BindingResult struct {
	objectName string
	violations []Violation
}

var _ Errors = (*BindingResult)(nil)

// NewBindingResult creates an empty result for the named object.
func NewBindingResult(objectName string) *BindingResult {
	return &BindingResult{objectName: objectName}
}

// ObjectName is the location used for object-level violations.
func (r *BindingResult) ObjectName() string {
	if r == nil {
		return ""
	}
	return r.objectName
}

func (r *BindingResult) HasErrors() bool {
	return r != nil && len(r.violations) > 0
}

func (r *BindingResult) AllViolations() []Violation {
	if r == nil {
		return nil
	}
	return append([]Violation(nil), r.violations...)
}

// FieldViolations returns the field-level violations in detection order.
func (r *BindingResult) FieldViolations() []Violation {
	return r.filter(FieldScope)
}

// ObjectViolations returns the object-level violations in detection order.
func (r *BindingResult) ObjectViolations() []Violation {
	return r.filter(ObjectScope)
}

func (r *BindingResult) filter(scope Scope) []Violation {
	if r == nil {
		return nil
	}

	var out []Violation
	for _, v := range r.violations {
		if v.Scope == scope {
			out = append(out, v)
		}
	}
	return out
}

func (r *BindingResult) addField(field, message string) {
	r.violations = append(r.violations, Violation{Location: field, Message: message, Scope: FieldScope})
}

func (r *BindingResult) addObject(message string) {
	r.violations = append(r.violations, Violation{Location: r.objectName, Message: message, Scope: ObjectScope})
}
