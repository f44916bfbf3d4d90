package clicfg

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/urfave/cli/v3"
)

var (
	ErrCannotParseFlags = errors.New("cannot parse flags")

	durationType    = reflect.TypeOf(time.Duration(0))
	stringSliceType = reflect.TypeOf([]string(nil))
)

// ParseFlags copies the values of c's flags into the fields of the struct s points to. Fields are
// matched by their `flag:"name"` tag; untagged and unexported fields are left alone.
func ParseFlags(c *cli.Command, s any) error {
	v := reflect.ValueOf(s)
	if v.Kind() != reflect.Ptr {
		return fmt.Errorf("%w: expected pointer to struct, got %T", ErrCannotParseFlags, s)
	}

	v = v.Elem()
	if v.Kind() != reflect.Struct {
		return fmt.Errorf("%w: expected pointer to struct, got pointer to %s", ErrCannotParseFlags, v.Kind())
	}

	t := v.Type()
	for i := range t.NumField() {
		field := t.Field(i)
		fieldValue := v.Field(i)

		flagName := field.Tag.Get("flag")
		if flagName == "" || !fieldValue.CanSet() {
			continue
		}

		if err := setField(c, flagName, fieldValue); err != nil {
			return fmt.Errorf("%w: field %s: %w", ErrCannotParseFlags, field.Name, err)
		}
	}

	return nil
}

func setField(c *cli.Command, flagName string, fieldValue reflect.Value) error {
	// time.Duration is an int64 underneath, so exact types are matched before kinds.
	switch fieldValue.Type() {
	case durationType:
		fieldValue.SetInt(int64(c.Duration(flagName)))
		return nil
	case stringSliceType:
		fieldValue.Set(reflect.ValueOf(c.StringSlice(flagName)))
		return nil
	}

	switch fieldValue.Kind() {
	case reflect.String:
		fieldValue.SetString(c.String(flagName))
	case reflect.Bool:
		fieldValue.SetBool(c.Bool(flagName))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		fieldValue.SetInt(int64(c.Int(flagName)))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		fieldValue.SetUint(uint64(c.Uint(flagName)))
	case reflect.Float32, reflect.Float64:
		fieldValue.SetFloat(c.Float64(flagName))
	default:
		return fmt.Errorf("unsupported type: %s", fieldValue.Type())
	}
	return nil
}
