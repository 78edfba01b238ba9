package container

import (
	"fmt"
	"reflect"
)

// ResolveAs resolves a service and type-asserts the result.
//
//	// Instead of: raw, err := s.Resolve("db"); db := raw.(*sql.DB)
//	// Write:      db, err := container.ResolveAs[*sql.DB](s, "db")
//
// A missing service yields the zero value of T and no error.
func ResolveAs[T any](s *Scope, name string) (T, error) {
	var zero T
	raw, err := s.Resolve(name)
	if err != nil || raw == nil {
		return zero, err
	}
	typed, ok := raw.(T)
	if !ok {
		return zero, &TypeMismatchError{
			Name: name,
			Want: reflect.TypeOf((*T)(nil)).Elem().String(),
			Got:  fmt.Sprintf("%T", raw),
		}
	}
	return typed, nil
}

// ParamAs returns the parameter stored for name as T, and whether it was
// present with that type.
//
//	host, ok := container.ParamAs[string](s, "host")
func ParamAs[T any](s *Scope, name string) (T, bool) {
	typed, ok := s.Param(name).(T)
	return typed, ok
}
