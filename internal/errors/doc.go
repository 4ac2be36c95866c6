// Package errors provides structured error handling for the calculator engine.
//
// It gives every error a Code, a user-facing Message, an optional wrapped
// Cause, and free-form Meta for locating where in the input the error
// originated (slot, affix id, modifier key, tag name).
//
// # Basic Usage
//
// Creating errors:
//
//	err := errors.InvalidArgumentf("unknown tag %q", name)
//	err := errors.FailedPrecondition("slot already occupied")
//
// Adding metadata:
//
//	err := errors.InvalidArgument("unknown tag").
//	    WithMeta("tag", name).
//	    WithMeta("slot", slot)
//
// Wrapping errors:
//
//	if _, err := registry.Intern(name); err != nil {
//	    return errors.Wrap(err, "failed to resolve tag")
//	}
//
// # Error Checking
//
//	if errors.IsInvalidArgument(err) {
//	    // reject the input
//	}
//
//	code := errors.GetCode(err)
//	message := errors.GetMessage(err)
//	meta := errors.GetMeta(err)
//
// # Validation Errors
//
//	vb := errors.NewValidationBuilder()
//	errors.ValidateRequired("active_skill.id", input.ActiveSkill.ID, vb)
//	errors.ValidateRange("target_config.level", input.TargetConfig.Level, 1, 100, vb)
//	if err := vb.Build(); err != nil {
//	    return nil, err
//	}
//
// # Error Codes
//
// The codes this package uses map onto the calculator's error kinds:
//   - InvalidArgument: malformed or out-of-range input, including an unknown
//     tag under the fail policy (InputValidation, TagUnknown)
//   - FailedPrecondition: a slot conflict or config inconsistency
//     (SlotConflict, ConfigInvalid)
//   - OutOfRange: an arithmetic result overflowed or underflowed its domain
//     (ArithmeticOverflow)
//   - Internal: anything else, including cache and config-loading failures
package errors
