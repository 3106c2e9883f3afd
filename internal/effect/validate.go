package effect

import "fmt"

// Report captures the outcome of a recursive validation pass.
type Report struct {
	Valid  bool
	Errors []string
}

// Validate checks the effect and all descendants against the entity
// invariants. Child errors are prefixed with their list position.
func (e *Effect) Validate() Report {
	var errs []string
	if e == nil {
		return Report{Errors: []string{"effect is nil"}}
	}
	if e.ID == "" {
		errs = append(errs, "id is required")
	}
	if e.Name == "" {
		errs = append(errs, "name is required")
	}
	if !e.Kind.IsValid() {
		errs = append(errs, fmt.Sprintf("kind %q is invalid", e.Kind))
	}
	if e.Config == nil {
		errs = append(errs, "config is required")
	}
	if e.PercentChance < 0 || e.PercentChance > 100 {
		errs = append(errs, fmt.Sprintf("percent chance %v is out of range", e.PercentChance))
	}
	if e.Kind == KindKeyframe && e.Frame < 0 {
		errs = append(errs, fmt.Sprintf("frame %d must not be negative", e.Frame))
	}
	if !e.Kind.AllowsChildren() && (len(e.SecondaryEffects) > 0 || len(e.KeyframeEffects) > 0) {
		errs = append(errs, fmt.Sprintf("kind %q must not carry child effects", e.Kind))
	}
	for i, child := range e.SecondaryEffects {
		if child != nil && !child.Is(KindSecondary) {
			errs = append(errs, fmt.Sprintf("secondaryEffects[%d]: kind %q is not secondary", i, child.Kind))
		}
		for _, childErr := range child.Validate().Errors {
			errs = append(errs, fmt.Sprintf("secondaryEffects[%d]: %s", i, childErr))
		}
	}
	for i, child := range e.KeyframeEffects {
		if child != nil && !child.Is(KindKeyframe) {
			errs = append(errs, fmt.Sprintf("keyframeEffects[%d]: kind %q is not keyframe", i, child.Kind))
		}
		for _, childErr := range child.Validate().Errors {
			errs = append(errs, fmt.Sprintf("keyframeEffects[%d]: %s", i, childErr))
		}
	}
	return Report{Valid: len(errs) == 0, Errors: errs}
}
