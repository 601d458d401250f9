package ephemeris

import "fmt"

// UnknownProviderError is returned when an ephemeris backend name is not recognised
type UnknownProviderError struct {
	Name string
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("unknown ephemeris provider %q, must be one of: %s, %s", e.Name, ProviderSunCalc, ProviderMeeus)
}

// UnknownBodyError is returned when a provider is asked for an unsupported body
type UnknownBodyError struct {
	Body Body
}

func (e *UnknownBodyError) Error() string {
	return fmt.Sprintf("unsupported body: %s", e.Body)
}

// ComputeError wraps a backend failure for a single body
type ComputeError struct {
	Provider string
	Body     Body
	Err      error
}

func (e *ComputeError) Error() string {
	return fmt.Sprintf("%s: computing %s position: %v", e.Provider, e.Body, e.Err)
}

func (e *ComputeError) Unwrap() error {
	return e.Err
}
