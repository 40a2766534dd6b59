package objgraph

import "errors"

// RequiredBinding is the assertion, made by a binding spec, that someone binds key.
type RequiredBinding struct {
	key      BindingKey
	location string
}

func (r RequiredBinding) Key() BindingKey {
	return r.key
}

func (r RequiredBinding) Location() string {
	return r.location
}

// verifyRequired checks every required binding against the final mapping.
func verifyRequired(required []RequiredBinding, mapping *BindingMapping) error {
	var errs []error
	for _, req := range required {
		if _, found := mapping.resolved[req.key]; found {
			continue
		}
		if colliding, found := mapping.ambiguous[req.key]; found {
			errs = append(errs, &ConflictingRequiredBindingError{
				Key:        req.key,
				Location:   req.location,
				Candidates: sortedByLocation(colliding),
			})
			continue
		}
		errs = append(errs, &MissingRequiredBindingError{Key: req.key, Location: req.location})
	}
	return errors.Join(errs...)
}
